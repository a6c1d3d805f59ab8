package auth

import (
	"testing"
	"time"

	"school-attendance-api/internal/models"

	"github.com/stretchr/testify/require"
)

func newManager() *TokenManager {
	return NewTokenManager("test-secret", "school-attendance-api", "school-attendance-clients", time.Hour)
}

func TestGenerateAndValidateToken(t *testing.T) {
	m := newManager()
	token, err := m.GenerateToken("u-1", "alice", models.RoleSupervisor)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := m.ValidateToken(token)
	require.NoError(t, err)
	require.Equal(t, "u-1", claims.UserID)
	require.Equal(t, "alice", claims.Username)
	require.Equal(t, models.RoleSupervisor, claims.Role)
}

func TestValidateToken_Invalid(t *testing.T) {
	_, err := newManager().ValidateToken("invalid.token")
	require.Error(t, err)
}

func TestValidateToken_WrongAudienceOrSecret(t *testing.T) {
	token, err := newManager().GenerateToken("u-1", "alice", models.RoleAdmin)
	require.NoError(t, err)

	other := NewTokenManager("test-secret", "school-attendance-api", "someone-else", time.Hour)
	_, err = other.ValidateToken(token)
	require.Error(t, err)

	wrongKey := NewTokenManager("other-secret", "school-attendance-api", "school-attendance-clients", time.Hour)
	_, err = wrongKey.ValidateToken(token)
	require.Error(t, err)
}

func TestValidateToken_Expired(t *testing.T) {
	m := NewTokenManager("test-secret", "iss", "aud", time.Nanosecond)
	token, err := m.GenerateToken("u-1", "alice", models.RoleKiosk)
	require.NoError(t, err)
	time.Sleep(time.Second)
	_, err = m.ValidateToken(token)
	require.Error(t, err)
}

func TestValidateToken_UnknownRole(t *testing.T) {
	m := newManager()
	token, err := m.GenerateToken("u-1", "alice", models.Role("janitor"))
	require.NoError(t, err)
	_, err = m.ValidateToken(token)
	require.Error(t, err)
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("s3cret")
	require.NoError(t, err)
	require.NotEqual(t, "s3cret", hash)
	require.True(t, CheckPassword(hash, "s3cret"))
	require.False(t, CheckPassword(hash, "wrong"))
	require.False(t, CheckPassword("not-a-hash", "s3cret"))
}
