package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medvault/consent-api/internal/model"
	"github.com/medvault/consent-api/pkg/errors"
	"github.com/medvault/consent-api/pkg/event"
)

func TestGrant(t *testing.T) {
	l, sink := newTestLedger()
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	l.nowFn = func() time.Time { return fixed }

	recID, err := l.CreateRecord("patient-1", "ipfs://abc", "Lab Result")
	require.NoError(t, err)

	grantID, err := l.Grant("patient-1", recID, "provider-1", 7*24*time.Hour, "checkup")
	require.NoError(t, err)
	assert.Equal(t, int64(1), grantID)

	grant, err := l.GetGrant("patient-1", grantID)
	require.NoError(t, err)
	assert.Equal(t, recID, grant.RecordID)
	assert.Equal(t, model.ActorID("provider-1"), grant.Provider)
	assert.Equal(t, "checkup", grant.Purpose)
	assert.Equal(t, fixed.Add(7*24*time.Hour), grant.ExpiresAt)
	assert.False(t, grant.Revoked)

	require.Len(t, sink.events, 2)
	assert.Equal(t, event.TypeAccessGranted, sink.types[1])
	granted := sink.events[1].(event.AccessGranted)
	assert.Equal(t, grantID, granted.GrantID)
	assert.Equal(t, model.ActorID("patient-1"), granted.Owner)
	assert.Equal(t, fixed.Add(7*24*time.Hour), granted.ExpiresAt)
}

func TestGrantPreconditions(t *testing.T) {
	l, _ := newTestLedger()
	recID, err := l.CreateRecord("patient-1", "blob://x", "note")
	require.NoError(t, err)

	tests := []struct {
		name     string
		issuer   model.ActorID
		recordID int64
		provider model.ActorID
		duration time.Duration
		purpose  string
		kind     errors.Kind
	}{
		{"empty provider", "patient-1", recID, "", time.Hour, "checkup", errors.KindInvalidArgument},
		{"self grant", "patient-1", recID, "patient-1", time.Hour, "checkup", errors.KindInvalidArgument},
		{"zero duration", "patient-1", recID, "provider-1", 0, "checkup", errors.KindInvalidArgument},
		{"negative duration", "patient-1", recID, "provider-1", -time.Hour, "checkup", errors.KindInvalidArgument},
		{"empty purpose", "patient-1", recID, "provider-1", time.Hour, "", errors.KindInvalidArgument},
		{"record not found", "patient-1", 99, "provider-1", time.Hour, "checkup", errors.KindNotFound},
		{"not the owner", "patient-2", recID, "provider-1", time.Hour, "checkup", errors.KindForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := l.Grant(tt.issuer, tt.recordID, tt.provider, tt.duration, tt.purpose)
			require.Error(t, err)
			assert.Equal(t, tt.kind, errors.KindOf(err))
		})
	}

	// Failed attempts leave no grants behind.
	assert.Equal(t, int64(0), l.TotalGrants())
}

func TestGrantOverlappingAllowed(t *testing.T) {
	l, _ := newTestLedger()
	recID, _ := l.CreateRecord("patient-1", "blob://x", "note")

	g1, err := l.Grant("patient-1", recID, "provider-1", time.Hour, "first")
	require.NoError(t, err)
	g2, err := l.Grant("patient-1", recID, "provider-1", 2*time.Hour, "second")
	require.NoError(t, err)
	assert.NotEqual(t, g1, g2)

	ids, err := l.GrantsOn("patient-1", recID)
	require.NoError(t, err)
	assert.Equal(t, []int64{g1, g2}, ids)
}

func TestRevoke(t *testing.T) {
	l, sink := newTestLedger()
	recID, _ := l.CreateRecord("patient-1", "blob://x", "note")
	grantID, _ := l.Grant("patient-1", recID, "provider-1", time.Hour, "checkup")

	require.NoError(t, l.Revoke("patient-1", grantID))

	grant, err := l.GetGrant("patient-1", grantID)
	require.NoError(t, err)
	assert.True(t, grant.Revoked)
	require.NotNil(t, grant.RevokedAt)

	assert.Equal(t, event.TypeAccessRevoked, sink.types[len(sink.types)-1])
	revoked := sink.events[len(sink.events)-1].(event.AccessRevoked)
	assert.Equal(t, grantID, revoked.GrantID)
	assert.Equal(t, model.ActorID("provider-1"), revoked.Provider)
}

func TestRevokeErrors(t *testing.T) {
	l, _ := newTestLedger()
	recID, _ := l.CreateRecord("patient-1", "blob://x", "note")
	grantID, _ := l.Grant("patient-1", recID, "provider-1", time.Hour, "checkup")

	t.Run("unknown grant", func(t *testing.T) {
		err := l.Revoke("patient-1", 99)
		assert.Equal(t, errors.KindNotFound, errors.KindOf(err))
	})

	t.Run("provider cannot self-revoke", func(t *testing.T) {
		err := l.Revoke("provider-1", grantID)
		assert.Equal(t, errors.KindForbidden, errors.KindOf(err))
	})

	t.Run("stranger cannot revoke", func(t *testing.T) {
		err := l.Revoke("patient-2", grantID)
		assert.Equal(t, errors.KindForbidden, errors.KindOf(err))
	})

	t.Run("re-revoke rejected", func(t *testing.T) {
		require.NoError(t, l.Revoke("patient-1", grantID))
		err := l.Revoke("patient-1", grantID)
		assert.Equal(t, errors.KindInvalidState, errors.KindOf(err))
	})
}

func TestGrantsOf(t *testing.T) {
	l, _ := newTestLedger()
	recID, _ := l.CreateRecord("patient-1", "blob://x", "note")
	g1, _ := l.Grant("patient-1", recID, "provider-1", time.Hour, "a")
	_, _ = l.Grant("patient-1", recID, "provider-2", time.Hour, "b")
	g3, _ := l.Grant("patient-1", recID, "provider-1", time.Hour, "c")

	ids, err := l.GrantsOf("provider-1", "provider-1")
	require.NoError(t, err)
	assert.Equal(t, []int64{g1, g3}, ids)

	_, err = l.GrantsOf("provider-2", "provider-1")
	require.Error(t, err)
	assert.Equal(t, errors.KindForbidden, errors.KindOf(err))
}

func TestGrantsOnOwnerOnly(t *testing.T) {
	l, _ := newTestLedger()
	recID, _ := l.CreateRecord("patient-1", "blob://x", "note")
	_, _ = l.Grant("patient-1", recID, "provider-1", time.Hour, "a")

	_, err := l.GrantsOn("provider-1", recID)
	require.Error(t, err)
	assert.Equal(t, errors.KindForbidden, errors.KindOf(err))

	_, err = l.GrantsOn("patient-1", 99)
	require.Error(t, err)
	assert.Equal(t, errors.KindNotFound, errors.KindOf(err))
}

func TestGetGrantAccess(t *testing.T) {
	l, _ := newTestLedger()
	recID, _ := l.CreateRecord("patient-1", "blob://x", "note")
	grantID, _ := l.Grant("patient-1", recID, "provider-1", time.Hour, "a")

	_, err := l.GetGrant("patient-1", grantID)
	assert.NoError(t, err)

	_, err = l.GetGrant("provider-1", grantID)
	assert.NoError(t, err)

	_, err = l.GetGrant("patient-2", grantID)
	require.Error(t, err)
	assert.Equal(t, errors.KindForbidden, errors.KindOf(err))

	_, err = l.GetGrant("patient-1", 99)
	require.Error(t, err)
	assert.Equal(t, errors.KindNotFound, errors.KindOf(err))
}
