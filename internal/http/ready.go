package http

import (
	"net/http"

	"nodeboard/internal/logging"
)

// ReadyHandler reports ready only while the node answers.
type ReadyHandler struct {
	Node StatusSource
}

func (h *ReadyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if _, err := h.Node.Status(r.Context()); err != nil {
		logging.From(r.Context()).Warn("readyz.node_failed", "err", err)
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
