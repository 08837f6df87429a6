package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medvault/consent-api/internal/model"
)

func TestGenerateAndValidateToken(t *testing.T) {
	svc := NewService("test-secret", time.Hour)

	token, err := svc.GenerateToken("patient-1")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	actor, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, model.ActorID("patient-1"), actor)
}

func TestValidateTokenWrongSecret(t *testing.T) {
	token, err := NewService("secret-a", time.Hour).GenerateToken("patient-1")
	require.NoError(t, err)

	_, err = NewService("secret-b", time.Hour).ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateExpiredToken(t *testing.T) {
	svc := NewService("test-secret", -time.Minute)

	token, err := svc.GenerateToken("patient-1")
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.Error(t, err)
}

func TestGenerateTokenEmptyActor(t *testing.T) {
	svc := NewService("test-secret", time.Hour)

	_, err := svc.GenerateToken("")
	assert.Error(t, err)
}
