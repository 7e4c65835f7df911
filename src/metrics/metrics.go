package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Request outcomes
const (
	OutcomeOK       = "ok"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
)

// Metrics owns a dedicated registry so several instances can coexist in tests.
type Metrics struct {
	registry  *prometheus.Registry
	requests  *prometheus.CounterVec
	fetch     prometheus.Histogram
	fallbacks prometheus.Counter
	bars      prometheus.Histogram
}

// -----------------------------------------------------------------------------

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "volatility_requests_total",
			Help: "Volatility requests by outcome.",
		}, []string{"outcome"}),
		fetch: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "volatility_fetch_duration_seconds",
			Help:    "Latency of price history fetches.",
			Buckets: prometheus.DefBuckets,
		}),
		fallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "volatility_yang_zhang_fallbacks_total",
			Help: "Yang-Zhang series replaced by Close-to-Close.",
		}),
		bars: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "volatility_bars_fetched",
			Help:    "Daily bars per successful fetch.",
			Buckets: prometheus.ExponentialBuckets(8, 2, 10),
		}),
	}

	m.registry.MustRegister(
		m.requests,
		m.fetch,
		m.fallbacks,
		m.bars,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	for _, outcome := range []string{OutcomeOK, OutcomeNotFound, OutcomeError} {
		m.requests.WithLabelValues(outcome)
	}
	return m
}

// -----------------------------------------------------------------------------

func (m *Metrics) ObserveRequest(outcome string) {
	m.requests.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveFetch(d time.Duration, bars int) {
	m.fetch.Observe(d.Seconds())
	if bars > 0 {
		m.bars.Observe(float64(bars))
	}
}

func (m *Metrics) ObserveFallback() {
	m.fallbacks.Inc()
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
