package event

import (
	"time"

	"github.com/medvault/consent-api/internal/model"
)

type EventType string

const (
	TypeRecordCreated EventType = "RECORD_CREATED"
	TypeAccessGranted EventType = "ACCESS_GRANTED"
	TypeAccessRevoked EventType = "ACCESS_REVOKED"
)

// RecordCreated is emitted when a patient creates a record.
type RecordCreated struct {
	RecordID   int64         `json:"record_id"`
	Owner      model.ActorID `json:"owner"`
	RecordType string        `json:"record_type"`
	Timestamp  time.Time     `json:"timestamp"`
}

// AccessGranted is emitted when a record owner issues a grant.
type AccessGranted struct {
	GrantID   int64         `json:"grant_id"`
	Owner     model.ActorID `json:"owner"`
	Provider  model.ActorID `json:"provider"`
	RecordID  int64         `json:"record_id"`
	ExpiresAt time.Time     `json:"expires_at"`
}

// AccessRevoked is emitted when a record owner revokes a grant.
type AccessRevoked struct {
	GrantID  int64         `json:"grant_id"`
	Owner    model.ActorID `json:"owner"`
	Provider model.ActorID `json:"provider"`
}

// Sink receives domain events as they are committed. Append must not
// block: it is called inside the ledger's critical section so that the
// event order matches the mutation order.
type Sink interface {
	Append(eventType EventType, payload interface{})
}
