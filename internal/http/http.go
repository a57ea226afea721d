package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"nodeboard/internal/config"
	"nodeboard/internal/http/middleware"
	"nodeboard/internal/logging"
	"nodeboard/internal/metrics"
	"nodeboard/internal/node"
	"nodeboard/internal/web"
	"nodeboard/resources"
)

// StatusSource is the part of the node client the gateway reads from.
type StatusSource interface {
	Status(ctx context.Context) (node.ChainStatus, error)
}

type Deps struct {
	Config  *config.Config
	Node    StatusSource
	TPL     *web.Renderer
	Metrics *metrics.Metrics // optional
	Version string
}

func NewMux(d Deps) (*http.ServeMux, error) {
	if !d.TPL.Has(indexPage) {
		return nil, fmt.Errorf("%w: %q", web.ErrTemplateMissing, indexPage)
	}
	mux := http.NewServeMux()

	mux.Handle("GET /{$}", &HomeHandler{
		Node:       d.Node,
		TPL:        d.TPL,
		ConnectStr: d.Config.ConnectString,
		Version:    d.Version,
		Metrics:    d.Metrics,
	})
	mux.Handle("POST /{$}", &HomeSubmitHandler{})
	mux.Handle("GET /qr/{payload}", &QRHandler{Metrics: d.Metrics})

	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(resources.FS)))

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.Handle("GET /readyz", &ReadyHandler{Node: d.Node})

	if d.Config.Metrics.Enabled && d.Metrics != nil {
		mux.Handle("GET "+d.Config.Metrics.Path, d.Metrics.Handler())
	}

	return mux, nil
}

func WithStandardMiddleware(next http.Handler, d Deps) http.Handler {
	basic := middleware.BasicAuth(
		d.Config.Security.Username,
		d.Config.Security.PasswordHash,
		"/healthz", "/readyz",
	)
	return requestLogger(d.Metrics, securityHeaders(basic(next)))
}

func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "no-referrer")
		next.ServeHTTP(w, r)
	})
}

func requestLogger(m *metrics.Metrics, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ctx := logging.WithRequestID(r.Context(), uuid.NewString())
		r = r.WithContext(ctx)
		ww := &wrapWriter{ResponseWriter: w, status: 200}
		next.ServeHTTP(ww, r)

		elapsed := time.Since(start)
		m.ObserveHTTP(r.Pattern, ww.status, elapsed)
		logging.From(ctx).Info("http.request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.status,
			"duration_ms", elapsed.Milliseconds(),
		)
	})
}

type wrapWriter struct {
	http.ResponseWriter
	status int
}

func (w *wrapWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *wrapWriter) Unwrap() http.ResponseWriter { return w.ResponseWriter }
