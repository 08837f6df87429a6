package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medvault/consent-api/pkg/errors"
	"github.com/medvault/consent-api/pkg/event"
)

func TestViewRecordOwner(t *testing.T) {
	l, _ := newTestLedger()
	recID, _ := l.CreateRecord("patient-1", "ipfs://abc", "Lab Result")

	rec, err := l.ViewRecord("patient-1", recID)
	require.NoError(t, err)
	assert.Equal(t, "ipfs://abc", rec.ContentRef)
}

func TestViewRecordGrantedProvider(t *testing.T) {
	l, _ := newTestLedger()
	current := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	l.nowFn = func() time.Time { return current }

	recID, _ := l.CreateRecord("patient-1", "ipfs://abc", "Lab Result")

	// No grant yet: rejected, not redacted.
	_, err := l.ViewRecord("provider-1", recID)
	require.Error(t, err)
	assert.Equal(t, errors.KindForbidden, errors.KindOf(err))

	_, err = l.Grant("patient-1", recID, "provider-1", 7*24*time.Hour, "checkup")
	require.NoError(t, err)

	// One second before expiry.
	current = current.Add(7*24*time.Hour - time.Second)
	rec, err := l.ViewRecord("provider-1", recID)
	require.NoError(t, err)
	assert.Equal(t, "ipfs://abc", rec.ContentRef)

	// One second past expiry.
	current = current.Add(2 * time.Second)
	_, err = l.ViewRecord("provider-1", recID)
	require.Error(t, err)
	assert.Equal(t, errors.KindForbidden, errors.KindOf(err))
}

func TestViewRecordAfterImmediateRevoke(t *testing.T) {
	l, _ := newTestLedger()
	current := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	l.nowFn = func() time.Time { return current }

	recID, _ := l.CreateRecord("patient-1", "ipfs://abc", "Lab Result")
	grantID, _ := l.Grant("patient-1", recID, "provider-1", 7*24*time.Hour, "checkup")
	require.NoError(t, l.Revoke("patient-1", grantID))

	// Still well inside the grant window, but revoked.
	current = current.Add(time.Minute)
	_, err := l.ViewRecord("provider-1", recID)
	require.Error(t, err)
	assert.Equal(t, errors.KindForbidden, errors.KindOf(err))
}

func TestViewRecordNotFound(t *testing.T) {
	l, _ := newTestLedger()

	_, err := l.ViewRecord("patient-1", 7)
	require.Error(t, err)
	assert.Equal(t, errors.KindNotFound, errors.KindOf(err))
}

func TestTotals(t *testing.T) {
	l, _ := newTestLedger()
	assert.Equal(t, int64(0), l.TotalRecords())
	assert.Equal(t, int64(0), l.TotalGrants())

	recID, _ := l.CreateRecord("patient-1", "blob://x", "note")
	_, _ = l.Grant("patient-1", recID, "provider-1", time.Hour, "a")
	_, _ = l.Grant("patient-1", recID, "provider-2", time.Hour, "b")

	assert.Equal(t, int64(1), l.TotalRecords())
	assert.Equal(t, int64(2), l.TotalGrants())
}

func TestEventOrderMatchesMutationOrder(t *testing.T) {
	l, sink := newTestLedger()

	recID, _ := l.CreateRecord("patient-1", "blob://x", "note")
	grantID, _ := l.Grant("patient-1", recID, "provider-1", time.Hour, "a")
	require.NoError(t, l.Revoke("patient-1", grantID))

	require.Equal(t, []event.EventType{
		event.TypeRecordCreated,
		event.TypeAccessGranted,
		event.TypeAccessRevoked,
	}, sink.types)
}

func TestReturnedRecordIsACopy(t *testing.T) {
	l, _ := newTestLedger()
	recID, _ := l.CreateRecord("patient-1", "blob://x", "note")

	rec, err := l.ViewRecord("patient-1", recID)
	require.NoError(t, err)
	rec.Owner = "intruder"

	fresh, err := l.GetRecord(recID)
	require.NoError(t, err)
	assert.Equal(t, "patient-1", fresh.Owner.String())
}
