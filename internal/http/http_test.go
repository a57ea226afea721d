package http

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nodeboard/internal/auth"
	"nodeboard/internal/config"
	"nodeboard/internal/metrics"
	"nodeboard/internal/node"
	"nodeboard/internal/qr"
	"nodeboard/internal/web"
)

type stubNode struct {
	height atomic.Uint64
	calls  atomic.Int32
	err    error
}

func (s *stubNode) Status(context.Context) (node.ChainStatus, error) {
	s.calls.Add(1)
	if s.err != nil {
		return node.ChainStatus{}, s.err
	}
	return node.ChainStatus{Height: s.height.Load()}, nil
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.FromReader(nil, config.FormatYAML, func(key string) (string, bool) {
		if key == "FM_CONNECT_STRING" {
			return "fed11pairing", true
		}
		return "", false
	})
	require.NoError(t, err)
	return cfg
}

func newTestHandler(t *testing.T, cfg *config.Config, n StatusSource) http.Handler {
	t.Helper()
	rend, err := web.NewRenderer()
	require.NoError(t, err)
	d := Deps{Config: cfg, Node: n, TPL: rend, Metrics: metrics.New(), Version: "test"}
	mux, err := NewMux(d)
	require.NoError(t, err)
	return WithStandardMiddleware(mux, d)
}

func do(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHomeGet(t *testing.T) {
	n := &stubNode{}
	n.height.Store(2500)
	h := newTestHandler(t, testConfig(t), n)

	rec := do(h, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))

	body := rec.Body.String()
	assert.Contains(t, body, `data-height="2500"`)
	assert.Contains(t, body, "fed11pairing")
	assert.Contains(t, body, "/qr/fed11pairing")
	assert.Contains(t, body, "bc1...")
}

func TestHomeGetReflectsLatestHeight(t *testing.T) {
	n := &stubNode{}
	h := newTestHandler(t, testConfig(t), n)

	for _, height := range []uint64{1, 2, 2, 900000} {
		n.height.Store(height)
		rec := do(h, httptest.NewRequest(http.MethodGet, "/", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), fmt.Sprintf(`data-height="%d"`, height))
	}
	assert.EqualValues(t, 4, n.calls.Load())
}

func TestHomeGetNodeFailure(t *testing.T) {
	tests := map[string]error{
		"unavailable": fmt.Errorf("%w: getblockchaininfo: dial tcp 127.0.0.1:18443: connect: connection refused", node.ErrUnavailable),
		"rpc error":   &node.RPCError{Method: "getblockchaininfo", Code: -28, Message: "Loading block index..."},
	}
	for name, nodeErr := range tests {
		t.Run(name, func(t *testing.T) {
			h := newTestHandler(t, testConfig(t), &stubNode{err: nodeErr})

			rec := do(h, httptest.NewRequest(http.MethodGet, "/", nil))
			assert.Equal(t, http.StatusInternalServerError, rec.Code)
			assert.Equal(t, "text/plain; charset=utf-8", rec.Header().Get("Content-Type"))
			assert.Equal(t, nodeErr.Error()+"\n", rec.Body.String())
			assert.NotContains(t, rec.Body.String(), "<html")
		})
	}
}

func TestHomeGetAgainstUnreachableNode(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	u, err := url.Parse(srv.URL)
	require.NoError(t, err)
	srv.Close()

	cfg := testConfig(t)
	host, port, _ := strings.Cut(u.Host, ":")
	cfg.Node.Host = host
	_, err = fmt.Sscan(port, &cfg.Node.Port)
	require.NoError(t, err)

	h := newTestHandler(t, cfg, node.New(cfg.Node))
	rec := do(h, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "node unavailable")
}

func TestHomeMissingTemplate(t *testing.T) {
	rend, err := web.NewRenderer()
	require.NoError(t, err)
	n := &stubNode{}
	h := &HomeHandler{Node: n, TPL: rend, ConnectStr: "x", Page: "gone"}

	rec := do(h, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "template not found")
}

func TestHomePostAlwaysRedirects(t *testing.T) {
	bodies := []struct {
		name        string
		contentType string
		body        string
	}{
		{"empty", "application/x-www-form-urlencoded", ""},
		{"request address", "application/x-www-form-urlencoded", "address=true"},
		{"checkbox", "application/x-www-form-urlencoded", "address=on"},
		{"no address", "application/x-www-form-urlencoded", "address=false"},
		{"malformed", "application/x-www-form-urlencoded", "address=%zz&&="},
		{"json", "application/json", `{"address":true}`},
		{"no content type", "", "garbage"},
	}
	for _, tc := range bodies {
		t.Run(tc.name, func(t *testing.T) {
			n := &stubNode{}
			h := newTestHandler(t, testConfig(t), n)

			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tc.body))
			if tc.contentType != "" {
				req.Header.Set("Content-Type", tc.contentType)
			}
			rec := do(h, req)

			assert.Equal(t, http.StatusSeeOther, rec.Code)
			assert.Equal(t, "/", rec.Header().Get("Location"))
			assert.Zero(t, n.calls.Load(), "form submission must not touch the node")
		})
	}
}

func TestParseFormIntent(t *testing.T) {
	tests := map[string]FormIntent{
		"address=true":  IntentRequestNewAddress,
		"address=1":     IntentRequestNewAddress,
		"address=ON":    IntentRequestNewAddress,
		"address=false": IntentNoOp,
		"address=":      IntentNoOp,
		"other=true":    IntentNoOp,
		"%zz":           IntentNoOp,
	}
	for body, want := range tests {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		assert.Equal(t, want, parseFormIntent(req), body)
	}
	assert.Equal(t, "request_new_address", IntentRequestNewAddress.String())
	assert.Equal(t, "noop", IntentNoOp.String())
}

func TestQRScenario(t *testing.T) {
	h := newTestHandler(t, testConfig(t), &stubNode{})

	get := func() *httptest.ResponseRecorder {
		return do(h, httptest.NewRequest(http.MethodGet, "/qr/bc1qexampleaddress", nil))
	}
	first, second := get(), get()

	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "image/png", first.Header().Get("Content-Type"))
	assert.NotZero(t, first.Body.Len())
	assert.True(t, bytes.Equal(first.Body.Bytes(), second.Body.Bytes()))

	want, err := qr.Encode("bc1qexampleaddress")
	require.NoError(t, err)
	assert.Equal(t, want, first.Body.Bytes())
}

func TestQRPayloadIsPathDecoded(t *testing.T) {
	h := newTestHandler(t, testConfig(t), &stubNode{})

	rec := do(h, httptest.NewRequest(http.MethodGet, "/qr/fed11abc%2Fdef%20%E2%9A%A1", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	want, err := qr.Encode("fed11abc/def ⚡")
	require.NoError(t, err)
	assert.Equal(t, want, rec.Body.Bytes())
}

func TestQRTooLarge(t *testing.T) {
	h := newTestHandler(t, testConfig(t), &stubNode{})

	rec := do(h, httptest.NewRequest(http.MethodGet, "/qr/"+strings.Repeat("x", 4000), nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotEqual(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "payload too large")
}

func TestProbesAndStatic(t *testing.T) {
	n := &stubNode{}
	h := newTestHandler(t, testConfig(t), n)

	rec := do(h, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())

	rec = do(h, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ready", rec.Body.String())

	n.err = fmt.Errorf("%w: getblockchaininfo: refused", node.ErrUnavailable)
	rec = do(h, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = do(h, httptest.NewRequest(http.MethodGet, "/static/style.css", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/css")

	rec = do(h, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(h, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code, "metrics are off by default")
}

func TestMetricsRoute(t *testing.T) {
	cfg := testConfig(t)
	cfg.Metrics.Enabled = true
	n := &stubNode{}
	n.height.Store(42)
	h := newTestHandler(t, cfg, n)

	require.Equal(t, http.StatusOK, do(h, httptest.NewRequest(http.MethodGet, "/", nil)).Code)

	rec := do(h, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "nodeboard_node_chain_height 42")
	assert.Contains(t, string(body), `nodeboard_http_requests_total{code="200",route="GET /{$}"} 1`)
}

func TestBasicAuth(t *testing.T) {
	hash, err := auth.HashPassword("hunter2")
	require.NoError(t, err)

	cfg := testConfig(t)
	cfg.Security.PasswordHash = hash
	h := newTestHandler(t, cfg, &stubNode{})

	rec := do(h, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Header().Get("WWW-Authenticate"), "Basic")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.SetBasicAuth("admin", "wrong")
	assert.Equal(t, http.StatusUnauthorized, do(h, req).Code)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.SetBasicAuth("admin", "hunter2")
	assert.Equal(t, http.StatusOK, do(h, req).Code)

	assert.Equal(t, http.StatusOK, do(h, httptest.NewRequest(http.MethodGet, "/healthz", nil)).Code)
}

func TestFromError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"node unavailable", fmt.Errorf("%w: x", node.ErrUnavailable), http.StatusInternalServerError},
		{"node rpc", &node.RPCError{Method: "getnewaddress", Code: -12, Message: "Keypool ran out"}, http.StatusInternalServerError},
		{"template missing", fmt.Errorf("%w: index", web.ErrTemplateMissing), http.StatusInternalServerError},
		{"template render", fmt.Errorf("%w: index", web.ErrTemplateRender), http.StatusInternalServerError},
		{"payload too large", fmt.Errorf("%w: 4000 bytes", qr.ErrPayloadTooLarge), http.StatusInternalServerError},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
		{"already ui", UIError{Status: http.StatusTeapot, Message: "short and stout"}, http.StatusTeapot},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ui := FromError(tc.err)
			assert.Equal(t, tc.want, ui.Status)
			assert.Equal(t, tc.err.Error(), ui.Message)
		})
	}
}

func TestNewMuxRequiresIndex(t *testing.T) {
	_, err := NewMux(Deps{Config: testConfig(t), Node: &stubNode{}, TPL: &web.Renderer{}})
	require.ErrorIs(t, err, web.ErrTemplateMissing)
}
