package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aicodechef/apple-foundation-model-ai-server/pkg/config"
)

// Collector owns the Prometheus registry and every metric the gateway
// records.
//
// Metrics:
//   - fmserver_completions_total: completion count by status
//   - fmserver_completions_in_flight: generations currently running
//   - fmserver_completion_duration_seconds: generation latency histogram
//   - fmserver_session_resets_total: session reset count
//   - fmserver_session_busy_rejections_total: rejections under the
//     "reject" busy policy
type Collector struct {
	registry *prometheus.Registry

	completionsTotal   *prometheus.CounterVec
	completionsActive  prometheus.Gauge
	completionDuration prometheus.Histogram
	sessionResets      prometheus.Counter
	busyRejections     prometheus.Counter
}

// NewCollector creates a collector and registers its metrics. If
// registry is nil a fresh one is used.
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	namespace := cfg.Namespace
	if namespace == "" {
		namespace = config.DefaultMetricsNamespace
	}

	c := &Collector{
		registry: registry,

		completionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "completions_total",
				Help:      "Total number of completion requests processed",
			},
			[]string{"status"},
		),

		completionsActive: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "completions_in_flight",
				Help:      "Number of generations currently running",
			},
		),

		completionDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "completion_duration_seconds",
				Help:      "Duration of model generations in seconds",
				// On-device generation latencies run from well under a
				// second to minutes for long prompts.
				Buckets: []float64{0.1, 0.25, 0.5, 1.0, 2.0, 5.0, 10.0, 30.0, 60.0, 120.0},
			},
		),

		sessionResets: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "session_resets_total",
				Help:      "Total number of session resets",
			},
		),

		busyRejections: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "session_busy_rejections_total",
				Help:      "Completions rejected because a generation was in flight",
			},
		),
	}

	registry.MustRegister(
		c.completionsTotal,
		c.completionsActive,
		c.completionDuration,
		c.sessionResets,
		c.busyRejections,
	)

	return c
}

// ObserveCompletionStart records a generation entering flight.
func (c *Collector) ObserveCompletionStart() {
	c.completionsActive.Inc()
}

// ObserveCompletion records one finished generation.
func (c *Collector) ObserveCompletion(status string, duration time.Duration) {
	c.completionsActive.Dec()
	c.completionsTotal.WithLabelValues(status).Inc()
	c.completionDuration.Observe(duration.Seconds())
}

// ObserveReset records one session reset.
func (c *Collector) ObserveReset() {
	c.sessionResets.Inc()
}

// ObserveBusyRejection records one busy-policy rejection.
func (c *Collector) ObserveBusyRejection() {
	c.busyRejections.Inc()
}

// Registry exposes the underlying registry for tests.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}
