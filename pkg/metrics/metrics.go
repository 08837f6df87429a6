package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all application metrics
type Metrics struct {
	// Ledger metrics
	RecordsCreated prometheus.Counter
	GrantsIssued   prometheus.Counter
	GrantsRevoked  prometheus.Counter
	AccessChecks   *prometheus.CounterVec
	LedgerFailures *prometheus.CounterVec

	// Event dispatch metrics
	EventsDispatched prometheus.Counter
	EventsFailed     prometheus.Counter
	DispatchLatency  prometheus.Histogram
	OutboxQueueSize  prometheus.Gauge
	DispatchRetries  *prometheus.CounterVec
}

// NewMetrics creates and registers all application metrics
func NewMetrics(namespace, subsystem string) *Metrics {
	return &Metrics{
		RecordsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "records_created_total",
			Help:      "Total number of medical records created",
		}),
		GrantsIssued: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "grants_issued_total",
			Help:      "Total number of access grants issued",
		}),
		GrantsRevoked: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "grants_revoked_total",
			Help:      "Total number of access grants revoked",
		}),
		AccessChecks: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "access_checks_total",
			Help:      "Total number of authorization decisions",
		}, []string{"decision"}),
		LedgerFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "ledger_failures_total",
			Help:      "Total number of rejected ledger operations",
		}, []string{"operation", "kind"}),

		EventsDispatched: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "events_dispatched_total",
			Help:      "Total number of successfully dispatched domain events",
		}),
		EventsFailed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "events_failed_total",
			Help:      "Total number of domain events that failed delivery",
		}),
		DispatchLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "event_dispatch_duration_seconds",
			Help:      "Time spent dispatching domain events",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}),
		OutboxQueueSize: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "outbox_queue_size",
			Help:      "Current number of events waiting in the outbox",
		}),
		DispatchRetries: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "event_retry_attempts_total",
			Help:      "Total number of retry attempts for event delivery",
		}, []string{"event_type"}),
	}
}
