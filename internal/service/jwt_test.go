package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTManager_RoundTrip(t *testing.T) {
	m, err := NewJWTManager("secret", time.Hour)
	require.NoError(t, err)

	token, issued, err := m.Generate("user-1")
	require.NoError(t, err)

	claims, err := m.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, issued.TokenID, claims.TokenID)
	assert.NotEmpty(t, claims.TokenID)
}

func TestJWTManager_Rejects(t *testing.T) {
	m, err := NewJWTManager("secret", time.Hour)
	require.NoError(t, err)
	other, err := NewJWTManager("other", time.Hour)
	require.NoError(t, err)

	token, _, err := other.Generate("user-1")
	require.NoError(t, err)
	_, err = m.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = m.Parse("garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)

	m.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, _, err := m.Generate("user-1")
	require.NoError(t, err)
	m.now = time.Now
	_, err = m.Parse(expired)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewJWTManager_EmptySecret(t *testing.T) {
	_, err := NewJWTManager("", time.Hour)
	assert.ErrorIs(t, err, ErrEmptySecret)
}
