package http

import (
	"net/http"
	"strings"
)

// FormIntent is what a status page form submission asks for.
type FormIntent int

const (
	IntentNoOp FormIntent = iota
	IntentRequestNewAddress
)

func (i FormIntent) String() string {
	switch i {
	case IntentRequestNewAddress:
		return "request_new_address"
	default:
		return "noop"
	}
}

// parseFormIntent never fails; a body that cannot be parsed is a no-op.
func parseFormIntent(r *http.Request) FormIntent {
	if err := r.ParseForm(); err != nil {
		return IntentNoOp
	}
	switch strings.ToLower(strings.TrimSpace(r.PostForm.Get("address"))) {
	case "true", "1", "on", "yes":
		return IntentRequestNewAddress
	default:
		return IntentNoOp
	}
}
