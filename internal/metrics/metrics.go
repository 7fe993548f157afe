package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Fetch outcomes.
const (
	OutcomeSuccess = "success"
	OutcomeNoData  = "no_data"
	OutcomeError   = "error"
)

// Page states.
const (
	StateLoading = "loading"
	StateReady   = "ready"
	StateError   = "error"
)

// Metrics holds the collectors exported on /metrics.
type Metrics struct {
	registry     *prometheus.Registry
	fetchTotal   *prometheus.CounterVec
	fetchLatency prometheus.Histogram
	cacheTotal   *prometheus.CounterVec
	renderTotal  *prometheus.CounterVec
}

// New creates the collectors and registers them on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		fetchTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "product_fetch_total",
				Help: "Upstream product fetches by outcome",
			},
			[]string{"outcome"},
		),
		fetchLatency: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "product_fetch_duration_seconds",
				Help:    "Upstream product fetch latency",
				Buckets: prometheus.DefBuckets,
			},
		),
		cacheTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "product_cache_requests_total",
				Help: "Product cache lookups by result",
			},
			[]string{"result"},
		),
		renderTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "product_page_renders_total",
				Help: "Rendered product pages by state",
			},
			[]string{"state"},
		),
	}

	m.registry.MustRegister(
		m.fetchTotal,
		m.fetchLatency,
		m.cacheTotal,
		m.renderTotal,
		collectors.NewGoCollector(),
	)
	return m
}

// ObserveFetch records one upstream fetch.
func (m *Metrics) ObserveFetch(outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.fetchTotal.WithLabelValues(outcome).Inc()
	m.fetchLatency.Observe(elapsed.Seconds())
}

// CacheHit records a cache lookup.
func (m *Metrics) CacheHit(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheTotal.WithLabelValues(result).Inc()
}

// PageRendered records a rendered page state.
func (m *Metrics) PageRendered(state string) {
	if m == nil {
		return
	}
	m.renderTotal.WithLabelValues(state).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
