package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/taskhub-api/internal/config"
)

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:            "thisisasecretkeythatis32charslong!!",
		TokenLifetimeMinutes: 30,
		SessionLifetimeHours: 720,
	}
}

func TestNewTokenServiceRejectsShortSecret(t *testing.T) {
	cfg := testAuthConfig()
	cfg.JWTSecret = "tooshort"

	_, err := NewTokenService(cfg)
	assert.Error(t, err)
}

func TestTokenRoundTrip(t *testing.T) {
	svc, err := NewTokenService(testAuthConfig())
	require.NoError(t, err)

	token, err := svc.Generate(context.Background(), 42)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.Validate(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.WithinDuration(t, time.Now(), claims.IssuedAt, 5*time.Second)
	assert.WithinDuration(t, time.Now().Add(30*time.Minute), claims.ExpiresAt, 5*time.Second)
}

func TestValidateRejectsGarbage(t *testing.T) {
	svc, err := NewTokenService(testAuthConfig())
	require.NoError(t, err)

	_, err = svc.Validate(context.Background(), "not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateRejectsWrongKey(t *testing.T) {
	svc, err := NewTokenService(testAuthConfig())
	require.NoError(t, err)

	otherCfg := testAuthConfig()
	otherCfg.JWTSecret = "adifferentsecretkeythatis32charslong"
	other, err := NewTokenService(otherCfg)
	require.NoError(t, err)

	token, err := other.Generate(context.Background(), 42)
	require.NoError(t, err)

	_, err = svc.Validate(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateExpiredToken(t *testing.T) {
	svc, err := NewTokenService(testAuthConfig())
	require.NoError(t, err)

	impl, ok := svc.(*hmacTokenService)
	require.True(t, ok)

	// Issue a token in the past, far enough back that lifetime plus clock
	// skew leeway cannot keep it alive.
	issuedAt := time.Now().Add(-2 * time.Hour)
	impl.timeFunc = func() time.Time { return issuedAt }

	token, err := svc.Generate(context.Background(), 42)
	require.NoError(t, err)

	impl.timeFunc = time.Now
	_, err = svc.Validate(context.Background(), token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateWithinClockSkew(t *testing.T) {
	svc, err := NewTokenService(testAuthConfig())
	require.NoError(t, err)

	impl, ok := svc.(*hmacTokenService)
	require.True(t, ok)

	// Expired 1 minute ago; the 2 minute leeway keeps it valid.
	issuedAt := time.Now().Add(-31 * time.Minute)
	impl.timeFunc = func() time.Time { return issuedAt }

	token, err := svc.Generate(context.Background(), 42)
	require.NoError(t, err)

	impl.timeFunc = time.Now
	_, err = svc.Validate(context.Background(), token)
	assert.NoError(t, err)
}
