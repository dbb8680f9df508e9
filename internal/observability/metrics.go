package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// lookup service and the widget controller.
type Metrics struct {
	// Backend lookup metrics.
	LookupRequests   *prometheus.CounterVec // labels: outcome={success,not_found,error,missing_city}
	UpstreamDuration prometheus.Histogram

	// Widget controller metrics.
	WidgetLookups  *prometheus.CounterVec // labels: outcome={success,failure}
	StaleDiscarded prometheus.Counter

	// Audit trail metrics.
	AuditEventsPublished prometheus.Counter
	AuditPublishErrors   prometheus.Counter
	AuditEnabled         prometheus.Gauge
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()

	prometheus.MustRegister(
		m.LookupRequests,
		m.UpstreamDuration,
		m.WidgetLookups,
		m.StaleDiscarded,
		m.AuditEventsPublished,
		m.AuditPublishErrors,
		m.AuditEnabled,
	)

	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		LookupRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weather_lookup",
			Name:      "requests_total",
			Help:      "Lookup requests served by the backend, by outcome.",
		}, []string{"outcome"}),
		UpstreamDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "weather_lookup",
			Name:      "upstream_request_duration_seconds",
			Help:      "OpenWeatherMap API request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		WidgetLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weather_lookup",
			Name:      "widget_lookups_total",
			Help:      "Widget submissions applied to controller state, by outcome.",
		}, []string{"outcome"}),
		StaleDiscarded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "weather_lookup",
			Name:      "widget_stale_responses_discarded_total",
			Help:      "Completions discarded because a newer submission superseded them.",
		}),
		AuditEventsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "weather_lookup",
			Name:      "audit_events_published_total",
			Help:      "Lookup audit events written to the Kafka topic.",
		}),
		AuditPublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "weather_lookup",
			Name:      "audit_publish_errors_total",
			Help:      "Failed audit event publishes.",
		}),
		AuditEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "weather_lookup",
			Name:      "audit_enabled",
			Help:      "1 when the lookup audit trail is enabled, 0 otherwise.",
		}),
	}
}
