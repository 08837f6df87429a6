package ledger

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medvault/consent-api/internal/model"
	"github.com/medvault/consent-api/pkg/errors"
	"github.com/medvault/consent-api/pkg/event"
)

type sinkRecorder struct {
	mu     sync.Mutex
	types  []event.EventType
	events []interface{}
}

func (s *sinkRecorder) Append(eventType event.EventType, payload interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.types = append(s.types, eventType)
	s.events = append(s.events, payload)
}

func newTestLedger() (*Ledger, *sinkRecorder) {
	sink := &sinkRecorder{}
	return New(sink), sink
}

func TestCreateRecord(t *testing.T) {
	l, sink := newTestLedger()

	id, err := l.CreateRecord("patient-1", "ipfs://abc", "Lab Result")
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)

	rec, err := l.GetRecord(id)
	require.NoError(t, err)
	assert.Equal(t, model.ActorID("patient-1"), rec.Owner)
	assert.Equal(t, "ipfs://abc", rec.ContentRef)
	assert.Equal(t, "Lab Result", rec.RecordType)
	assert.True(t, rec.Active)

	require.Len(t, sink.events, 1)
	assert.Equal(t, event.TypeRecordCreated, sink.types[0])
	created := sink.events[0].(event.RecordCreated)
	assert.Equal(t, id, created.RecordID)
	assert.Equal(t, model.ActorID("patient-1"), created.Owner)
}

func TestCreateRecordValidation(t *testing.T) {
	l, _ := newTestLedger()

	tests := []struct {
		name       string
		owner      model.ActorID
		contentRef string
		recordType string
	}{
		{"empty owner", "", "ipfs://abc", "Lab Result"},
		{"empty content ref", "patient-1", "", "Lab Result"},
		{"empty record type", "patient-1", "ipfs://abc", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := l.CreateRecord(tt.owner, tt.contentRef, tt.recordType)
			require.Error(t, err)
			assert.Equal(t, errors.KindInvalidArgument, errors.KindOf(err))
		})
	}

	assert.Equal(t, int64(0), l.TotalRecords())
}

func TestRecordIDsStrictlyIncreasing(t *testing.T) {
	l, _ := newTestLedger()

	for i := 1; i <= 50; i++ {
		id, err := l.CreateRecord("patient-1", fmt.Sprintf("blob://%d", i), "note")
		require.NoError(t, err)
		assert.Equal(t, int64(i), id)
	}
	assert.Equal(t, int64(50), l.TotalRecords())
}

func TestCreateRecordConcurrent(t *testing.T) {
	l, _ := newTestLedger()

	const n = 100
	ids := make(chan int64, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id, err := l.CreateRecord(model.ActorID(fmt.Sprintf("patient-%d", i%5)), "blob://x", "note")
			assert.NoError(t, err)
			ids <- id
		}(i)
	}
	wg.Wait()
	close(ids)

	seen := make(map[int64]bool)
	for id := range ids {
		assert.False(t, seen[id], "duplicate record id %d", id)
		seen[id] = true
	}
	assert.Len(t, seen, n)
	for i := int64(1); i <= n; i++ {
		assert.True(t, seen[i], "gap at record id %d", i)
	}
}

func TestGetRecordNotFound(t *testing.T) {
	l, _ := newTestLedger()
	_, err := l.CreateRecord("patient-1", "blob://x", "note")
	require.NoError(t, err)

	for _, id := range []int64{0, -1, 2, 99} {
		_, err := l.GetRecord(id)
		require.Error(t, err)
		assert.Equal(t, errors.KindNotFound, errors.KindOf(err))
	}
}

func TestRecordsOf(t *testing.T) {
	l, _ := newTestLedger()

	id1, _ := l.CreateRecord("patient-1", "blob://a", "note")
	_, _ = l.CreateRecord("patient-2", "blob://b", "note")
	id3, _ := l.CreateRecord("patient-1", "blob://c", "note")

	ids, err := l.RecordsOf("patient-1", "patient-1")
	require.NoError(t, err)
	assert.Equal(t, []int64{id1, id3}, ids)

	_, err = l.RecordsOf("patient-2", "patient-1")
	require.Error(t, err)
	assert.Equal(t, errors.KindForbidden, errors.KindOf(err))
}

func TestRecordCreatedAtUsesClock(t *testing.T) {
	l, _ := newTestLedger()
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	l.nowFn = func() time.Time { return fixed }

	id, err := l.CreateRecord("patient-1", "blob://x", "note")
	require.NoError(t, err)

	rec, err := l.GetRecord(id)
	require.NoError(t, err)
	assert.Equal(t, fixed, rec.CreatedAt)
}
