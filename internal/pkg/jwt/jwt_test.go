package jwt

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/homecare-backend-go/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseAccessToken(t *testing.T) {
	svc, err := NewJWTService("test-secret", "15m")
	require.NoError(t, err)

	token, expiresAt, err := svc.GenerateAccessToken("e0000000-0000-0000-0000-000000000001", user.RoleEmployee)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.InDelta(t, time.Now().Add(15*time.Minute).Unix(), expiresAt, 5)

	identity, err := svc.ParseAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "e0000000-0000-0000-0000-000000000001", identity.UserID)
	assert.True(t, identity.IsEmployee())
}

func TestGenerateAccessToken_InvalidRole(t *testing.T) {
	svc, err := NewJWTService("test-secret", "15m")
	require.NoError(t, err)

	_, _, err = svc.GenerateAccessToken("u1", user.Role("admin"))
	assert.ErrorIs(t, err, user.ErrInvalidRole)
}

func TestParseAccessToken_WrongSecret(t *testing.T) {
	issuer, err := NewJWTService("secret-a", "15m")
	require.NoError(t, err)
	verifier, err := NewJWTService("secret-b", "15m")
	require.NoError(t, err)

	token, _, err := issuer.GenerateAccessToken("u1", user.RoleEmployer)
	require.NoError(t, err)

	_, err = verifier.ParseAccessToken(token)
	assert.Error(t, err)
}

func TestNewJWTService_InvalidExpiration(t *testing.T) {
	_, err := NewJWTService("secret", "soon")
	assert.Error(t, err)
}

func TestIdentityFromClaims(t *testing.T) {
	_, err := IdentityFromClaims(map[string]interface{}{"user_id": "u1", "role": "employer", "type": "refresh"})
	assert.ErrorIs(t, err, ErrInvalidTokenClaims)

	_, err = IdentityFromClaims(map[string]interface{}{"role": "employer", "type": "access"})
	assert.ErrorIs(t, err, ErrInvalidTokenClaims)

	_, err = IdentityFromClaims(map[string]interface{}{"user_id": "u1", "role": "admin", "type": "access"})
	assert.ErrorIs(t, err, user.ErrInvalidRole)

	identity, err := IdentityFromClaims(map[string]interface{}{"user_id": "u1", "role": "employer", "type": "access"})
	require.NoError(t, err)
	assert.True(t, identity.IsEmployer())
}
