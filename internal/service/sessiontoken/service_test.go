package sessiontoken

import (
	"context"
	"testing"
	"time"

	"github.com/phrazzld/parla-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-thirty-two-chars-long!!"

func newTestService(t *testing.T, now func() time.Time) *hmacService {
	t.Helper()

	svc, err := NewService(config.AuthConfig{
		TokenSecret:          testSecret,
		TokenLifetimeMinutes: 60,
	})
	require.NoError(t, err)

	impl, ok := svc.(*hmacService)
	require.True(t, ok)
	if now != nil {
		impl.timeFunc = now
	}
	return impl
}

func TestNewServiceRejectsShortSecret(t *testing.T) {
	t.Parallel()

	_, err := NewService(config.AuthConfig{
		TokenSecret:          "too-short",
		TokenLifetimeMinutes: 60,
	})
	assert.Error(t, err)
}

func TestGenerateAndValidate(t *testing.T) {
	t.Parallel()

	issued := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	svc := newTestService(t, func() time.Time { return issued })

	token, err := svc.Generate(context.Background(), "sess_abc", "learner-1")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.Validate(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "sess_abc", claims.SessionID)
	assert.Equal(t, "learner-1", claims.LearnerID)
	assert.Equal(t, issued.Unix(), claims.IssuedAt.Unix())
	assert.Equal(t, issued.Add(time.Hour).Unix(), claims.ExpiresAt.Unix())
}

func TestValidateExpiredToken(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	svc := newTestService(t, func() time.Time { return now })

	token, err := svc.Generate(context.Background(), "sess_abc", "learner-1")
	require.NoError(t, err)

	// Move past the lifetime plus the tolerated clock skew.
	now = now.Add(time.Hour + 3*time.Minute)

	_, err = svc.Validate(context.Background(), token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateWithinClockSkew(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	svc := newTestService(t, func() time.Time { return now })

	token, err := svc.Generate(context.Background(), "sess_abc", "learner-1")
	require.NoError(t, err)

	// One minute past expiry is still within the two-minute leeway.
	now = now.Add(time.Hour + time.Minute)

	_, err = svc.Validate(context.Background(), token)
	assert.NoError(t, err)
}

func TestValidateRejectsTamperedAndForeignTokens(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, nil)

	t.Run("garbage input", func(t *testing.T) {
		t.Parallel()
		_, err := svc.Validate(context.Background(), "not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("token signed with a different key", func(t *testing.T) {
		t.Parallel()

		other, err := NewService(config.AuthConfig{
			TokenSecret:          "another-secret-thirty-two-chars!!!!",
			TokenLifetimeMinutes: 60,
		})
		require.NoError(t, err)

		token, err := other.Generate(context.Background(), "sess_abc", "learner-1")
		require.NoError(t, err)

		_, err = svc.Validate(context.Background(), token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("missing identity claims", func(t *testing.T) {
		t.Parallel()

		token, err := svc.Generate(context.Background(), "", "learner-1")
		require.NoError(t, err)

		_, err = svc.Validate(context.Background(), token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
