package event

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/medvault/consent-api/internal/model"
)

// Outbox is an in-memory append-only event queue. Events stay queued
// until a dispatcher marks them processed, giving at-least-once delivery
// to broker subscribers.
type Outbox struct {
	mu     sync.Mutex
	events []*model.OutboxEvent
	byID   map[uuid.UUID]*model.OutboxEvent
}

func NewOutbox() *Outbox {
	return &Outbox{
		byID: make(map[uuid.UUID]*model.OutboxEvent),
	}
}

// Append queues a domain event. Marshal failures are recorded on the
// event itself rather than surfaced to the caller: the mutation that
// produced the event has already committed.
func (o *Outbox) Append(eventType EventType, payload interface{}) {
	evt := &model.OutboxEvent{
		ID:        uuid.New(),
		EventType: string(eventType),
		Status:    model.OutboxStatusPending,
		CreatedAt: time.Now(),
	}

	data, err := json.Marshal(payload)
	if err != nil {
		msg := err.Error()
		evt.Status = model.OutboxStatusFailed
		evt.ErrorMessage = &msg
	} else {
		evt.Payload = data
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, evt)
	o.byID[evt.ID] = evt
}

// Pending returns up to limit unprocessed events in emission order.
func (o *Outbox) Pending(limit int) []*model.OutboxEvent {
	o.mu.Lock()
	defer o.mu.Unlock()

	var pending []*model.OutboxEvent
	for _, evt := range o.events {
		if evt.Status != model.OutboxStatusPending {
			continue
		}
		copied := *evt
		pending = append(pending, &copied)
		if limit > 0 && len(pending) >= limit {
			break
		}
	}
	return pending
}

func (o *Outbox) MarkProcessed(id uuid.UUID) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if evt, ok := o.byID[id]; ok {
		now := time.Now()
		evt.Status = model.OutboxStatusProcessed
		evt.ProcessedAt = &now
	}
}

// MarkFailed records a delivery failure. The event stays pending so the
// dispatcher retries it on the next poll.
func (o *Outbox) MarkFailed(id uuid.UUID, errMsg string) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if evt, ok := o.byID[id]; ok {
		evt.ErrorMessage = &errMsg
		evt.RetryCount++
	}
}

// PendingCount reports the number of undelivered events.
func (o *Outbox) PendingCount() int {
	o.mu.Lock()
	defer o.mu.Unlock()

	n := 0
	for _, evt := range o.events {
		if evt.Status == model.OutboxStatusPending {
			n++
		}
	}
	return n
}
