package ledger

import (
	"time"

	"github.com/medvault/consent-api/internal/model"
	"github.com/medvault/consent-api/pkg/errors"
)

// IsAuthorized reports whether provider holds a live grant on recordID
// at the given instant. It never mutates counters or indexes and is
// safe to call from any read path.
func (l *Ledger) IsAuthorized(provider model.ActorID, recordID int64, now time.Time) (bool, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	rec, ok := l.records[recordID]
	if !ok || !rec.Active {
		return false, errors.NotFound("record", recordID)
	}

	return l.authorizedLocked(provider, recordID, now), nil
}

// authorizedLocked scans the record's grant index in issuance order for
// a live grant held by provider. Callers must hold at least the read
// lock.
func (l *Ledger) authorizedLocked(provider model.ActorID, recordID int64, now time.Time) bool {
	for _, grantID := range l.grantsByRecord[recordID] {
		grant := l.grants[grantID]
		if grant.Provider == provider && grant.Live(now) {
			return true
		}
	}
	return false
}
