package ledger

import (
	"sync"
	"time"

	"github.com/medvault/consent-api/internal/model"
	"github.com/medvault/consent-api/pkg/errors"
	"github.com/medvault/consent-api/pkg/event"
)

// Ledger is the combined record and grant state plus its mutation rules.
// It is a synchronous, memory-resident state machine: a single RWMutex
// guards the counters, entity maps, and index tables so that every
// mutation (counter increment, insert, index append, event emission)
// commits as one atomic unit and readers always see a consistent
// snapshot.
type Ledger struct {
	mu sync.RWMutex

	records        map[int64]*model.MedicalRecord
	recordsByOwner map[model.ActorID][]int64

	grants           map[int64]*model.AccessGrant
	grantsByProvider map[model.ActorID][]int64
	grantsByRecord   map[int64][]int64

	lastRecordID int64
	lastGrantID  int64

	sink  event.Sink
	nowFn func() time.Time
}

// New creates an empty ledger emitting domain events to sink.
func New(sink event.Sink) *Ledger {
	return &Ledger{
		records:          make(map[int64]*model.MedicalRecord),
		recordsByOwner:   make(map[model.ActorID][]int64),
		grants:           make(map[int64]*model.AccessGrant),
		grantsByProvider: make(map[model.ActorID][]int64),
		grantsByRecord:   make(map[int64][]int64),
		sink:             sink,
		nowFn:            time.Now,
	}
}

// ViewRecord returns the record if the caller is its owner or holds a
// live grant on it. Unauthorized callers are rejected, never handed a
// redacted copy.
func (l *Ledger) ViewRecord(caller model.ActorID, recordID int64) (*model.MedicalRecord, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	rec, ok := l.records[recordID]
	if !ok || !rec.Active {
		return nil, errors.NotFound("record", recordID)
	}

	if rec.Owner != caller && !l.authorizedLocked(caller, recordID, l.nowFn()) {
		return nil, errors.Forbidden("record", recordID, "caller is not the owner and holds no live grant")
	}

	copied := *rec
	return &copied, nil
}

// TotalRecords reports the number of records ever created.
func (l *Ledger) TotalRecords() int64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.lastRecordID
}

// TotalGrants reports the number of grants ever issued.
func (l *Ledger) TotalGrants() int64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.lastGrantID
}

func (l *Ledger) emit(eventType event.EventType, payload interface{}) {
	if l.sink != nil {
		l.sink.Append(eventType, payload)
	}
}
