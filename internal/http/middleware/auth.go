package middleware

import (
	"net/http"

	"nodeboard/internal/auth"
)

// BasicAuth protects next with HTTP basic auth against a bcrypt hash. An empty
// hash disables the check. Paths in open bypass it.
func BasicAuth(user, hash string, open ...string) func(http.Handler) http.Handler {
	bypass := make(map[string]bool, len(open))
	for _, p := range open {
		bypass[p] = true
	}
	return func(next http.Handler) http.Handler {
		if hash == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if bypass[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}
			u, p, ok := r.BasicAuth()
			if !ok || !auth.CheckCredentials(u, p, user, hash) {
				w.Header().Set("WWW-Authenticate", `Basic realm="nodeboard", charset="UTF-8"`)
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
