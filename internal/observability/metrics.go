package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the service.
type Metrics struct {
	// Upstream NEO feed metrics.
	FeedRequests *prometheus.CounterVec // labels: outcome={success,error}
	FeedDuration prometheus.Histogram
	FeedRetries  prometheus.Counter
	FeedRecords  prometheus.Histogram

	// Calculator metrics.
	Calculations *prometheus.CounterVec // labels: kind={impact,deflection}, outcome={success,invalid}

	// Simulation event publishing metrics.
	EventsPublished   *prometheus.CounterVec // labels: outcome={success,error}
	PublishingEnabled prometheus.Gauge

	// HTTP API metrics.
	HTTPRequests *prometheus.CounterVec   // labels: route, code
	HTTPDuration *prometheus.HistogramVec // labels: route
}

// NewMetrics creates and registers all service metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := NewUnregisteredMetrics()
	prometheus.MustRegister(
		m.FeedRequests,
		m.FeedDuration,
		m.FeedRetries,
		m.FeedRecords,
		m.Calculations,
		m.EventsPublished,
		m.PublishingEnabled,
		m.HTTPRequests,
		m.HTTPDuration,
	)
	return m
}

// NewUnregisteredMetrics creates the service metrics without registering them,
// for short-lived processes such as the CLI that never expose /metrics.
func NewUnregisteredMetrics() *Metrics {
	return &Metrics{
		FeedRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "neo_impact",
			Name:      "feed_requests_total",
			Help:      "NEO feed fetches by outcome, counted once per fetch including retries.",
		}, []string{"outcome"}),
		FeedDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "neo_impact",
			Name:      "feed_request_duration_seconds",
			Help:      "Duration of a complete NEO feed fetch including retries.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		FeedRetries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "neo_impact",
			Name:      "feed_retries_total",
			Help:      "Total retried NEO feed requests.",
		}),
		FeedRecords: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "neo_impact",
			Name:      "feed_records",
			Help:      "Number of asteroid records returned per feed fetch.",
			Buckets:   []float64{0, 10, 25, 50, 100, 150, 200, 300},
		}),
		Calculations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "neo_impact",
			Name:      "calculations_total",
			Help:      "Physics calculations by kind and outcome.",
		}, []string{"kind", "outcome"}),
		EventsPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "neo_impact",
			Name:      "simulation_events_published_total",
			Help:      "Simulation events written to Kafka by outcome.",
		}, []string{"outcome"}),
		PublishingEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "neo_impact",
			Name:      "simulation_publishing_enabled",
			Help:      "1 when simulation events are published to Kafka, 0 otherwise.",
		}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "neo_impact",
			Name:      "http_requests_total",
			Help:      "API requests by route and status code.",
		}, []string{"route", "code"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "neo_impact",
			Name:      "http_request_duration_seconds",
			Help:      "API request duration in seconds.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30},
		}, []string{"route"}),
	}
}

// NewMetricsForTesting returns unregistered Metrics so repeated calls from
// tests do not hit "already registered" panics.
func NewMetricsForTesting() *Metrics {
	return NewUnregisteredMetrics()
}
