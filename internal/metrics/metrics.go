// Package metrics exposes prometheus instrumentation for the terminal core.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "tradepanel"

var registry = prometheus.NewRegistry()

var (
	// ProbeTotal counts connectivity probes by result (success|failure).
	ProbeTotal = mustCounter("probe_total", []string{"result"})
	// ProbeLatencyMs observes probe round-trip latency.
	ProbeLatencyMs = mustHistogram("probe_latency_ms")
	// BalanceRefreshTotal counts balance fetches by result (success|failure|coalesced).
	BalanceRefreshTotal = mustCounter("balance_refresh_total", []string{"result"})
	// OrderTotal counts order submissions by result (success|failure|retried).
	OrderTotal = mustCounter("order_total", []string{"result"})
)

func mustCounter(name string, labels []string) *prometheus.CounterVec {
	c := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      name,
	}, labels)
	registry.MustRegister(c)
	return c
}

func mustHistogram(name string) prometheus.Histogram {
	h := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      name,
		Buckets:   []float64{10, 25, 50, 100, 200, 300, 500, 750, 1000, 2000, 5000},
	})
	registry.MustRegister(h)
	return h
}

// Handler returns the /metrics HTTP handler for the registry.
func Handler() http.Handler {
	return promhttp.InstrumentMetricHandler(registry, promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
}
