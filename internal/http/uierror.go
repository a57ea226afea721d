package http

import (
	"errors"
	"net/http"

	"nodeboard/internal/node"
	"nodeboard/internal/qr"
	"nodeboard/internal/web"
)

// UIError is the only failure shape clients see: a status and a plain text
// message.
type UIError struct {
	Status  int
	Message string
}

func (e UIError) Error() string { return e.Message }

func (e UIError) Write(w http.ResponseWriter) {
	http.Error(w, e.Message, e.Status)
}

// uiErrorStatus maps internal failure kinds to HTTP status. Unlisted errors
// are 500 as well.
var uiErrorStatus = []struct {
	kind   error
	status int
}{
	{node.ErrUnavailable, http.StatusInternalServerError},
	{node.ErrRPC, http.StatusInternalServerError},
	{web.ErrTemplateMissing, http.StatusInternalServerError},
	{web.ErrTemplateRender, http.StatusInternalServerError},
	{qr.ErrPayloadTooLarge, http.StatusInternalServerError},
	{qr.ErrEmptyPayload, http.StatusInternalServerError},
}

func FromError(err error) UIError {
	var ui UIError
	if errors.As(err, &ui) {
		return ui
	}
	status := http.StatusInternalServerError
	for _, row := range uiErrorStatus {
		if errors.Is(err, row.kind) {
			status = row.status
			break
		}
	}
	return UIError{Status: status, Message: err.Error()}
}
