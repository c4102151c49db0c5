package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMintValidateRoundTrip(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := Mint(42, "a@b.com", RoleUser, UserSessionTTL)
	require.NoError(t, err)

	claims, err := Validate(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "a@b.com", claims.UserEmail)
	assert.Equal(t, RoleUser, claims.Role)
	assert.False(t, claims.IsAdmin())
}

func TestValidateExpiredToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := Mint(1, "a@b.com", RoleUser, -time.Minute)
	require.NoError(t, err)

	_, err = Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateRejectsMalformedAndWrongSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	_, err := Validate("not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)

	token, err := Mint(1, "a@b.com", RoleAdmin, AdminSessionTTL)
	require.NoError(t, err)

	t.Setenv("JWT_SECRET", "a-different-secret")
	_, err = Validate(token)
	// Same uniform error as a malformed token.
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRefreshReissuesFullTTL(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	short, err := Mint(7, "x@y.com", RoleUser, 2*time.Minute)
	require.NoError(t, err)

	fresh, claims, err := Refresh(short)
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.UserID)

	remaining := RemainingTTL(fresh)
	assert.Greater(t, remaining, UserSessionTTL-time.Minute)
}

func TestRefreshRejectsExpiredToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	expired, err := Mint(7, "x@y.com", RoleUser, -time.Minute)
	require.NoError(t, err)

	_, _, err = Refresh(expired)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestMintFailsWithoutSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := Mint(1, "a@b.com", RoleUser, UserSessionTTL)
	assert.ErrorIs(t, err, ErrSecretNotConfigured)
}

func TestAdminClaim(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := Mint(9, "admin@edvora.in", RoleAdmin, AdminSessionTTL)
	require.NoError(t, err)

	claims, err := Validate(token)
	require.NoError(t, err)
	assert.True(t, claims.IsAdmin())
}
