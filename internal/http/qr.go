package http

import (
	"net/http"
	"strconv"

	"nodeboard/internal/logging"
	"nodeboard/internal/metrics"
	"nodeboard/internal/qr"
)

type QRHandler struct {
	Metrics *metrics.Metrics
}

// ServeHTTP encodes the {payload} path segment as received; the encoder is
// the only validation.
func (h *QRHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	png, err := qr.Encode(r.PathValue("payload"))
	h.Metrics.ObserveQR(err)
	if err != nil {
		logging.From(r.Context()).Warn("qr.encode_failed", "err", err)
		FromError(err).Write(w)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(png)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}
