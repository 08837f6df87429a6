package ledger

import (
	"time"

	"github.com/medvault/consent-api/internal/model"
	"github.com/medvault/consent-api/pkg/errors"
	"github.com/medvault/consent-api/pkg/event"
)

// Grant issues a time-bounded access grant on recordID to provider.
// Only the record's owner may issue grants, and never to itself.
// Overlapping grants for the same (provider, record) pair are allowed.
func (l *Ledger) Grant(issuer model.ActorID, recordID int64, provider model.ActorID, duration time.Duration, purpose string) (int64, error) {
	if provider.IsZero() {
		return 0, errors.InvalidArgument("provider is required")
	}
	if provider == issuer {
		return 0, errors.InvalidArgument("cannot grant access to yourself")
	}
	if duration <= 0 {
		return 0, errors.InvalidArgument("duration must be positive")
	}
	if purpose == "" {
		return 0, errors.InvalidArgument("purpose is required")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	rec, ok := l.records[recordID]
	if !ok {
		return 0, errors.NotFound("record", recordID)
	}
	if !rec.Active {
		return 0, errors.InvalidState("record", recordID, "record is not active")
	}
	if rec.Owner != issuer {
		return 0, errors.Forbidden("record", recordID, "only the record owner may grant access")
	}

	now := l.nowFn()
	l.lastGrantID++
	grant := &model.AccessGrant{
		ID:        l.lastGrantID,
		RecordID:  recordID,
		Provider:  provider,
		Purpose:   purpose,
		ExpiresAt: now.Add(duration),
		CreatedAt: now,
	}

	l.grants[grant.ID] = grant
	l.grantsByProvider[provider] = append(l.grantsByProvider[provider], grant.ID)
	l.grantsByRecord[recordID] = append(l.grantsByRecord[recordID], grant.ID)

	l.emit(event.TypeAccessGranted, event.AccessGranted{
		GrantID:   grant.ID,
		Owner:     rec.Owner,
		Provider:  provider,
		RecordID:  recordID,
		ExpiresAt: grant.ExpiresAt,
	})

	return grant.ID, nil
}

// Revoke marks a grant revoked. Only the owner of the underlying record
// may revoke; the provider holding the grant cannot drop it. Revocation
// is one-way: revoking an already-revoked grant is rejected, not a
// silent no-op.
func (l *Ledger) Revoke(caller model.ActorID, grantID int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	grant, ok := l.grants[grantID]
	if !ok {
		return errors.NotFound("grant", grantID)
	}

	rec := l.records[grant.RecordID]
	if rec.Owner != caller {
		return errors.Forbidden("grant", grantID, "only the record owner may revoke a grant")
	}

	if grant.Revoked {
		return errors.InvalidState("grant", grantID, "grant is already revoked")
	}

	now := l.nowFn()
	grant.Revoked = true
	grant.RevokedAt = &now

	l.emit(event.TypeAccessRevoked, event.AccessRevoked{
		GrantID:  grantID,
		Owner:    rec.Owner,
		Provider: grant.Provider,
	})

	return nil
}

// GrantsOf returns the ids of all grants ever issued to provider, in
// issuance order. Providers may only list their own grants.
func (l *Ledger) GrantsOf(caller, provider model.ActorID) ([]int64, error) {
	if caller != provider {
		return nil, errors.Forbidden("grant", 0, "callers may only list their own grants")
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	ids := l.grantsByProvider[provider]
	out := make([]int64, len(ids))
	copy(out, ids)
	return out, nil
}

// GrantsOn returns the ids of all grants ever issued against recordID,
// in issuance order. Only the record owner may inspect them.
func (l *Ledger) GrantsOn(caller model.ActorID, recordID int64) ([]int64, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	rec, ok := l.records[recordID]
	if !ok {
		return nil, errors.NotFound("record", recordID)
	}
	if rec.Owner != caller {
		return nil, errors.Forbidden("record", recordID, "only the record owner may list its grants")
	}

	ids := l.grantsByRecord[recordID]
	out := make([]int64, len(ids))
	copy(out, ids)
	return out, nil
}

// GetGrant returns a grant by id. Only the underlying record's owner or
// the grant's provider may read it.
func (l *Ledger) GetGrant(caller model.ActorID, grantID int64) (*model.AccessGrant, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	grant, ok := l.grants[grantID]
	if !ok {
		return nil, errors.NotFound("grant", grantID)
	}

	rec := l.records[grant.RecordID]
	if rec.Owner != caller && grant.Provider != caller {
		return nil, errors.Forbidden("grant", grantID, "caller is neither the record owner nor the grant provider")
	}

	copied := *grant
	return &copied, nil
}
