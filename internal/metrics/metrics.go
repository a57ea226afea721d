// Package metrics exposes Prometheus collectors for the gateway, the node
// client and the QR renderer.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "nodeboard"

type Metrics struct {
	registry *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
	rpcCalls     *prometheus.CounterVec
	rpcDuration  *prometheus.HistogramVec
	qrRenders    *prometheus.CounterVec
	chainHeight  prometheus.Gauge
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route pattern and status code.",
		}, []string{"route", "code"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route pattern.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		rpcCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "node",
			Name:      "rpc_calls_total",
			Help:      "Node RPC calls by method and outcome.",
		}, []string{"method", "outcome"}),
		rpcDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "node",
			Name:      "rpc_duration_seconds",
			Help:      "Node RPC round-trip latency by method.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
		qrRenders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "qr",
			Name:      "renders_total",
			Help:      "QR renders by outcome.",
		}, []string{"outcome"}),
		chainHeight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "node",
			Name:      "chain_height",
			Help:      "Block height last reported by the node.",
		}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequests,
		m.httpDuration,
		m.rpcCalls,
		m.rpcDuration,
		m.qrRenders,
		m.chainHeight,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) ObserveRPC(method, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.rpcCalls.WithLabelValues(method, outcome).Inc()
	m.rpcDuration.WithLabelValues(method).Observe(d.Seconds())
}

func (m *Metrics) ObserveHTTP(route string, code int, d time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.httpRequests.WithLabelValues(route, strconv.Itoa(code)).Inc()
	m.httpDuration.WithLabelValues(route).Observe(d.Seconds())
}

func (m *Metrics) ObserveQR(err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.qrRenders.WithLabelValues(outcome).Inc()
}

func (m *Metrics) SetChainHeight(h uint64) {
	if m == nil {
		return
	}
	m.chainHeight.Set(float64(h))
}
