package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "fulfillment"

// Metrics holds the Prometheus counters, histograms, and gauges for the fulfillment engine.
type Metrics struct {
	RunsTotal         *prometheus.CounterVec // labels: outcome={success,error}
	RunDuration       prometheus.Histogram
	OrdersPlanned     prometheus.Counter
	CandidatesRanked  prometheus.Counter
	IntegrityWarnings *prometheus.CounterVec // labels: reason
	PlansPublished    *prometheus.CounterVec // labels: outcome={success,error}

	// Geocoding metrics.
	GeocodeRequests     *prometheus.CounterVec // labels: outcome={success,not_found,error}
	GeocodeCache        *prometheus.CounterVec // labels: result={hit,miss,error}
	GeocodeAPIDuration  prometheus.Histogram
	UnresolvedAddresses prometheus.Counter
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.RunsTotal,
		m.RunDuration,
		m.OrdersPlanned,
		m.CandidatesRanked,
		m.IntegrityWarnings,
		m.PlansPublished,
		m.GeocodeRequests,
		m.GeocodeCache,
		m.GeocodeAPIDuration,
		m.UnresolvedAddresses,
	)
	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		RunsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Fulfillment passes by outcome.",
		}, []string{"outcome"}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Duration of a complete fulfillment pass.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
		}),
		OrdersPlanned: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_planned_total",
			Help:      "Open orders processed by the matcher.",
		}),
		CandidatesRanked: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "candidates_ranked_total",
			Help:      "Order/restaurant pairs annotated with a distance or unresolved marker.",
		}),
		IntegrityWarnings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "integrity_warnings_total",
			Help:      "Orders skipped because of unusable product data.",
		}, []string{"reason"}),
		PlansPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "plans_published_total",
			Help:      "Plan publish attempts by outcome.",
		}, []string{"outcome"}),
		GeocodeRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "geocode_requests_total",
			Help:      "Geocoding API requests by outcome.",
		}, []string{"outcome"}),
		GeocodeCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "geocode_cache_total",
			Help:      "Coordinate cache lookups by result.",
		}, []string{"result"}),
		GeocodeAPIDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "geocode_api_duration_seconds",
			Help:      "Geocoding API request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		UnresolvedAddresses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "unresolved_addresses_total",
			Help:      "Address resolutions that produced no coordinate.",
		}),
	}
}
