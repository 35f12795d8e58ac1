package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager() *Manager {
	return NewManager("test-secret", 15*time.Minute, 72*time.Hour)
}

func TestAccessTokenRoundTrip(t *testing.T) {
	m := newTestManager()

	token, err := m.GenerateAccessToken("user-123", "author@example.com")
	require.NoError(t, err)

	claims, err := m.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
	assert.Equal(t, "author@example.com", claims.Email)
	assert.Equal(t, "access", claims.Type)
}

func TestRefreshTokenRejectedAsAccess(t *testing.T) {
	m := newTestManager()

	token, err := m.GenerateRefreshToken("user-123")
	require.NoError(t, err)

	_, err = m.ValidateAccessToken(token)
	assert.Error(t, err)

	claims, err := m.ValidateRefreshToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
}

func TestValidateTokenWrongSecret(t *testing.T) {
	m := newTestManager()
	other := NewManager("other-secret", 15*time.Minute, 72*time.Hour)

	token, err := m.GenerateAccessToken("user-123", "author@example.com")
	require.NoError(t, err)

	_, err = other.ValidateToken(token)
	assert.Error(t, err)
}
