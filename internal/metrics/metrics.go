package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "storefront"

// Sync outcomes.
const (
	SyncSent    = "sent"
	SyncFailed  = "failed"
	SyncSkipped = "skipped"
	SyncDropped = "dropped"
)

// Order outcomes.
const (
	OrderPlaced   = "placed"
	OrderFailed   = "failed"
	OrderRejected = "rejected"
)

type Metrics struct {
	Registry     *prometheus.Registry
	SyncTotal    *prometheus.CounterVec
	OrderTotal   *prometheus.CounterVec
	CartLines    prometheus.Gauge
	HTTPRequests *prometheus.CounterVec
	HTTPLatency  *prometheus.HistogramVec
}

// New builds a set of collectors on their own registry so tests can create
// as many as they like.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		SyncTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cart_sync_total",
			Help:      "Cart sync attempts by outcome.",
		}, []string{"outcome"}),
		OrderTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "order_submissions_total",
			Help:      "Order submissions by outcome.",
		}, []string{"outcome"}),
		CartLines: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "cart_lines",
			Help:      "Number of distinct products in the cart.",
		}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests.",
		}, []string{"method", "path", "status"}),
		HTTPLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_ms",
			Help:      "HTTP request latency in milliseconds.",
			Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
		}, []string{"method", "path"}),
	}
	m.Registry.MustRegister(m.SyncTotal, m.OrderTotal, m.CartLines, m.HTTPRequests, m.HTTPLatency)
	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

func (m *Metrics) Sync(outcome string) {
	if m == nil {
		return
	}
	m.SyncTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) Order(outcome string) {
	if m == nil {
		return
	}
	m.OrderTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) Lines(n int) {
	if m == nil {
		return
	}
	m.CartLines.Set(float64(n))
}
