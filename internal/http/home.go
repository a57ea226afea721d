package http

import (
	"bytes"
	"net/http"

	"nodeboard/internal/logging"
	"nodeboard/internal/metrics"
	"nodeboard/internal/web"
)

const indexPage = "index"

// Placeholders rendered until the page gets real address and payment data.
const (
	placeholderAddress   = "bc1..."
	placeholderPayResult = "pay_result"
)

type HomeHandler struct {
	Node       StatusSource
	TPL        *web.Renderer
	ConnectStr string
	Version    string
	Metrics    *metrics.Metrics

	// Page overrides the template name; empty means index.
	Page string
}

func (h *HomeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log := logging.From(r.Context())

	st, err := h.Node.Status(r.Context())
	if err != nil {
		log.Error("node.status_failed", "err", err)
		FromError(err).Write(w)
		return
	}
	h.Metrics.SetChainHeight(st.Height)

	address, payResult := placeholderAddress, placeholderPayResult
	page := web.Page[web.PageContext]{
		Header: pageHeader("Node status", h.Version),
		Content: web.PageContext{
			ConnectStr: h.ConnectStr,
			Address:    &address,
			PayResult:  &payResult,
			Invoice:    &payResult,
			Height:     st.Height,
		},
	}

	name := h.Page
	if name == "" {
		name = indexPage
	}
	var buf bytes.Buffer
	if err := h.TPL.Render(&buf, name, page); err != nil {
		log.Error("could not render", "error", err)
		FromError(err).Write(w)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

// HomeSubmitHandler accepts the status page form. Every submission, valid or
// not, ends in a redirect back to the status page.
type HomeSubmitHandler struct{}

func (h *HomeSubmitHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	intent := parseFormIntent(r)
	switch intent {
	case IntentRequestNewAddress:
		// No node call here: issuing from the form would drain the keypool
		// on every resubmit. Operators issue with `nbctl newaddress`.
		logging.From(r.Context()).Info("home.address_requested", "intent", intent.String())
	case IntentNoOp:
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
