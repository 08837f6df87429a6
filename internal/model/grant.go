package model

import (
	"time"
)

// AccessGrant is a time-bounded, revocable authorization linking one
// provider to one record. Grants are never deleted: expiry and revocation
// are logical states, preserving the full audit history.
type AccessGrant struct {
	ID        int64      `json:"id"`
	RecordID  int64      `json:"record_id"`
	Provider  ActorID    `json:"provider"`
	Purpose   string     `json:"purpose"`
	ExpiresAt time.Time  `json:"expires_at"`
	Revoked   bool       `json:"revoked"`
	RevokedAt *time.Time `json:"revoked_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// Live reports whether the grant authorizes access at the given instant.
// The expiry boundary is inclusive.
func (g *AccessGrant) Live(now time.Time) bool {
	return !g.Revoked && !now.After(g.ExpiresAt)
}
