package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/medvault/consent-api/internal/model"
	"github.com/medvault/consent-api/pkg/event"
	"github.com/medvault/consent-api/pkg/logger"
	"github.com/medvault/consent-api/pkg/messaging"
	"github.com/medvault/consent-api/pkg/metrics"
)

type DispatcherConfig struct {
	BatchSize     int
	PollInterval  time.Duration
	RetryAttempts int
	RetryDelay    time.Duration
	Channel       string
}

// Dispatcher drains the in-memory outbox and publishes domain events to
// the broker. Events stay in the outbox until publication succeeds, so
// observers see each state change at least once.
type Dispatcher struct {
	outbox  *event.Outbox
	broker  messaging.Broker
	config  DispatcherConfig
	logger  *logger.Logger
	metrics *metrics.Metrics
}

func NewDispatcher(
	outbox *event.Outbox,
	broker messaging.Broker,
	config DispatcherConfig,
	logger *logger.Logger,
	metrics *metrics.Metrics,
) *Dispatcher {
	if config.BatchSize <= 0 {
		panic("BatchSize must be greater than 0")
	}
	if config.PollInterval <= 0 {
		panic("PollInterval must be greater than 0")
	}
	if config.RetryAttempts <= 0 {
		panic("RetryAttempts must be greater than 0")
	}
	if config.Channel == "" {
		config.Channel = "consent.events"
	}

	return &Dispatcher{
		outbox:  outbox,
		broker:  broker,
		config:  config,
		logger:  logger,
		metrics: metrics,
	}
}

func (d *Dispatcher) Start(ctx context.Context) {
	ticker := time.NewTicker(d.config.PollInterval)
	defer ticker.Stop()

	d.logger.Info("Starting event dispatcher")

	for {
		select {
		case <-ctx.Done():
			d.logger.Info("Shutting down event dispatcher")
			return
		case <-ticker.C:
			if err := d.Flush(ctx); err != nil {
				d.logger.Error(err, "Failed to dispatch events")
			}
		}
	}
}

// Flush publishes one batch of pending events.
func (d *Dispatcher) Flush(ctx context.Context) error {
	timer := prometheus.NewTimer(d.metrics.DispatchLatency)
	defer timer.ObserveDuration()

	events := d.outbox.Pending(d.config.BatchSize)
	d.metrics.OutboxQueueSize.Set(float64(d.outbox.PendingCount()))

	for _, evt := range events {
		if err := d.dispatch(ctx, evt); err != nil {
			d.logger.Error(err, "Failed to dispatch event",
				"event_id", evt.ID.String(),
				"event_type", evt.EventType)
			continue
		}
	}

	return nil
}

func (d *Dispatcher) dispatch(ctx context.Context, evt *model.OutboxEvent) error {
	var err error
	for attempt := 0; attempt < d.config.RetryAttempts; attempt++ {
		if attempt > 0 {
			d.metrics.DispatchRetries.WithLabelValues(evt.EventType).Inc()
			time.Sleep(d.config.RetryDelay)
		}

		err = d.broker.Publish(ctx, d.config.Channel, messaging.Message{
			Type:    evt.EventType,
			Payload: evt.Payload,
		})
		if err == nil {
			break
		}
	}

	if err != nil {
		d.metrics.EventsFailed.Inc()
		d.outbox.MarkFailed(evt.ID, err.Error())
		return fmt.Errorf("failed to publish event after %d attempts: %w", d.config.RetryAttempts, err)
	}

	d.metrics.EventsDispatched.Inc()
	d.outbox.MarkProcessed(evt.ID)
	return nil
}
