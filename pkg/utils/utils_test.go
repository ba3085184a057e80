package utils

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	m := NewJWTManager("secret", "orderdesk-api", time.Hour)
	id := uuid.New()

	token, err := m.GenerateAccessToken(id, "ops@example.com", "admin")
	require.NoError(t, err)

	claims, err := m.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, id, claims.UserID)
	assert.Equal(t, "ops@example.com", claims.Email)
	assert.Equal(t, "admin", claims.Role)
}

func TestJWTRejectsForeignSecret(t *testing.T) {
	token, err := NewJWTManager("one", "orderdesk-api", time.Hour).GenerateAccessToken(uuid.New(), "a@b.c", "admin")
	require.NoError(t, err)

	_, err = NewJWTManager("two", "orderdesk-api", time.Hour).ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestJWTRejectsExpired(t *testing.T) {
	m := NewJWTManager("secret", "orderdesk-api", -time.Minute)
	token, err := m.GenerateAccessToken(uuid.New(), "a@b.c", "admin")
	require.NoError(t, err)

	_, err = m.ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	require.NoError(t, err)
	assert.True(t, CheckPassword(hash, "s3cret-pass"))
	assert.False(t, CheckPassword(hash, "wrong"))
}

func TestGenerateOrderNumber(t *testing.T) {
	n := GenerateOrderNumber("ORD", time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC))
	assert.True(t, strings.HasPrefix(n, "ORD-20260309-"))
	assert.Len(t, n, len("ORD-20260309-")+8)
}
