package ledger

import (
	"github.com/medvault/consent-api/internal/model"
	"github.com/medvault/consent-api/pkg/errors"
	"github.com/medvault/consent-api/pkg/event"
)

// CreateRecord registers a new record for owner and returns its id.
// Record ids start at 1, are strictly increasing, and are never reused.
func (l *Ledger) CreateRecord(owner model.ActorID, contentRef, recordType string) (int64, error) {
	if owner.IsZero() {
		return 0, errors.InvalidArgument("owner is required")
	}
	if contentRef == "" {
		return 0, errors.InvalidArgument("content_ref is required")
	}
	if recordType == "" {
		return 0, errors.InvalidArgument("record_type is required")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.lastRecordID++
	rec := &model.MedicalRecord{
		ID:         l.lastRecordID,
		Owner:      owner,
		ContentRef: contentRef,
		RecordType: recordType,
		Active:     true,
		CreatedAt:  l.nowFn(),
	}

	l.records[rec.ID] = rec
	l.recordsByOwner[owner] = append(l.recordsByOwner[owner], rec.ID)

	l.emit(event.TypeRecordCreated, event.RecordCreated{
		RecordID:   rec.ID,
		Owner:      owner,
		RecordType: recordType,
		Timestamp:  rec.CreatedAt,
	})

	return rec.ID, nil
}

// GetRecord looks up a record by id without any authorization check.
// Access control belongs to ViewRecord; this is for internal callers.
func (l *Ledger) GetRecord(recordID int64) (*model.MedicalRecord, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	rec, ok := l.records[recordID]
	if !ok {
		return nil, errors.NotFound("record", recordID)
	}

	copied := *rec
	return &copied, nil
}

// RecordsOf returns the ids of records owned by owner, in creation
// order. Callers may only list their own records.
func (l *Ledger) RecordsOf(caller, owner model.ActorID) ([]int64, error) {
	if caller != owner {
		return nil, errors.Forbidden("record", 0, "callers may only list their own records")
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	ids := l.recordsByOwner[owner]
	out := make([]int64, len(ids))
	copy(out, ids)
	return out, nil
}
