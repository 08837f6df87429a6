package model

import (
	"time"
)

// MedicalRecord is a patient-owned record entry. The payload itself lives
// outside the ledger; ContentRef points at the externally encrypted blob.
type MedicalRecord struct {
	ID         int64     `json:"id"`
	Owner      ActorID   `json:"owner"`
	ContentRef string    `json:"content_ref"`
	RecordType string    `json:"record_type"`
	Active     bool      `json:"active"`
	CreatedAt  time.Time `json:"created_at"`
}
