package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "ams-portal/pkg/errors"
)

func newTestJWTService(accessTTL, refreshTTL time.Duration) JWTService {
	return NewJWTService("test-secret", accessTTL, refreshTTL, zap.NewNop())
}

func TestGenerateAndValidateTokens(t *testing.T) {
	svc := newTestJWTService(time.Hour, 24*time.Hour)

	access, refresh, err := svc.GenerateTokens("user-1")
	require.NoError(t, err)
	require.NotEmpty(t, access)
	require.NotEmpty(t, refresh)
	assert.NotEqual(t, access, refresh)

	accessClaims, err := svc.ValidateToken(access)
	require.NoError(t, err)
	assert.Equal(t, "user-1", accessClaims.UserID)
	assert.False(t, accessClaims.IsRefreshToken)

	refreshClaims, err := svc.ValidateToken(refresh)
	require.NoError(t, err)
	assert.Equal(t, "user-1", refreshClaims.UserID)
	assert.True(t, refreshClaims.IsRefreshToken)
}

func TestValidateTokenWrongSecret(t *testing.T) {
	issuer := newTestJWTService(time.Hour, time.Hour)
	access, _, err := issuer.GenerateTokens("user-1")
	require.NoError(t, err)

	verifier := NewJWTService("another-secret", time.Hour, time.Hour, zap.NewNop())
	_, err = verifier.ValidateToken(access)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestValidateExpiredToken(t *testing.T) {
	svc := newTestJWTService(-time.Minute, -time.Minute)
	access, _, err := svc.GenerateTokens("user-1")
	require.NoError(t, err)

	_, err = svc.ValidateToken(access)
	assert.Error(t, err)
}

func TestValidateGarbageToken(t *testing.T) {
	svc := newTestJWTService(time.Hour, time.Hour)
	_, err := svc.ValidateToken("definitely.not.a.token")
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}
