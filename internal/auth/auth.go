package auth

import (
	"crypto/subtle"

	"golang.org/x/crypto/bcrypt"
)

// Hash & check
func HashPassword(pw string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	return string(b), err
}

func CheckPassword(pw, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)) == nil
}

// CheckCredentials compares the username in constant time before paying for
// the bcrypt comparison.
func CheckCredentials(user, pw, wantUser, hash string) bool {
	if subtle.ConstantTimeCompare([]byte(user), []byte(wantUser)) != 1 {
		return false
	}
	return CheckPassword(pw, hash)
}
