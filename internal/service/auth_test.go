package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sumire/managers/internal/domain"
	"github.com/sumire/managers/internal/repository"
	"github.com/sumire/managers/internal/service"
	"github.com/sumire/managers/internal/slack"
)

func setupAuth(t *testing.T) (*service.AuthService, *fakeSlack, *repository.MemorySessionRepository) {
	t.Helper()
	fs := newFakeSlack()
	fs.authedUser = &slack.AuthedUser{ID: "U_ME", AccessToken: "xoxp-me"}
	store := repository.NewMemorySessionRepository()
	return service.NewAuthService(fs, store, service.AuthConfig{SessionTTL: time.Hour}), fs, store
}

func TestAuthorizeURL(t *testing.T) {
	svc, _, _ := setupAuth(t)
	assert.Equal(t, "https://slack.test/oauth/v2/authorize?state=s1", svc.AuthorizeURL("s1"))
}

func TestCompleteAuthorization(t *testing.T) {
	t.Run("creates exactly one session bound to the slack user", func(t *testing.T) {
		svc, _, store := setupAuth(t)

		session, err := svc.CompleteAuthorization(t.Context(), "code", "")
		require.NoError(t, err)

		assert.Equal(t, "U_ME", session.UserID)
		assert.Equal(t, "xoxp-me", session.AccessToken)
		assert.NotEmpty(t, session.ID)
		assert.Equal(t, time.Hour, session.ExpiresAt.Sub(session.CreatedAt))
		assert.Equal(t, 1, store.Len())

		got, err := svc.Authenticate(t.Context(), session.ID)
		require.NoError(t, err)
		assert.Equal(t, session.ID, got.ID)
	})

	t.Run("oauth error never creates a session", func(t *testing.T) {
		for _, code := range []string{"", "valid-code"} {
			svc, fs, store := setupAuth(t)

			_, err := svc.CompleteAuthorization(t.Context(), code, "access_denied")
			require.ErrorIs(t, err, domain.ErrUpstreamAuth)

			var upErr *domain.UpstreamError
			require.True(t, errors.As(err, &upErr))
			assert.Equal(t, "access_denied", upErr.Code)
			assert.Zero(t, store.Len())
			assert.Zero(t, fs.callCount(), "no exchange should be attempted")
		}
	})

	t.Run("missing code", func(t *testing.T) {
		svc, fs, store := setupAuth(t)

		_, err := svc.CompleteAuthorization(t.Context(), "", "")
		assert.ErrorIs(t, err, domain.ErrMissingCode)
		assert.Zero(t, store.Len())
		assert.Zero(t, fs.callCount())
	})

	t.Run("rejected exchange keeps the slack error code", func(t *testing.T) {
		svc, fs, store := setupAuth(t)
		fs.exchangeErr = &slack.APIError{Method: "oauth.v2.access", Code: "invalid_code"}

		_, err := svc.CompleteAuthorization(t.Context(), "stale", "")
		require.ErrorIs(t, err, domain.ErrUpstreamExchange)
		var upErr *domain.UpstreamError
		require.True(t, errors.As(err, &upErr))
		assert.Equal(t, "invalid_code", upErr.Code)
		assert.Zero(t, store.Len())
	})

	t.Run("transport failure during exchange", func(t *testing.T) {
		svc, fs, store := setupAuth(t)
		fs.exchangeErr = errNetwork

		_, err := svc.CompleteAuthorization(t.Context(), "code", "")
		assert.ErrorIs(t, err, domain.ErrUpstreamExchange)
		assert.ErrorIs(t, err, errNetwork)
		assert.Zero(t, store.Len())
	})
}

func TestAuthenticate(t *testing.T) {
	t.Run("unknown or empty session id", func(t *testing.T) {
		svc, _, _ := setupAuth(t)

		_, err := svc.Authenticate(t.Context(), "")
		assert.ErrorIs(t, err, domain.ErrUnauthenticated)

		_, err = svc.Authenticate(t.Context(), "nope")
		assert.ErrorIs(t, err, domain.ErrUnauthenticated)
	})

	t.Run("session without access token is rejected", func(t *testing.T) {
		svc, _, store := setupAuth(t)
		require.NoError(t, store.Create(t.Context(), domain.Session{
			ID:        "tokenless",
			UserID:    "U_ME",
			ExpiresAt: time.Now().Add(time.Hour),
		}))

		_, err := svc.Authenticate(t.Context(), "tokenless")
		assert.ErrorIs(t, err, domain.ErrUnauthenticated)
	})

	t.Run("expired session is rejected", func(t *testing.T) {
		svc, _, store := setupAuth(t)
		require.NoError(t, store.Create(t.Context(), domain.Session{
			ID:          "old",
			AccessToken: "xoxp-old",
			UserID:      "U_ME",
			ExpiresAt:   time.Now().Add(-time.Second),
		}))

		_, err := svc.Authenticate(t.Context(), "old")
		assert.ErrorIs(t, err, domain.ErrUnauthenticated)
	})
}

func TestEndSession(t *testing.T) {
	svc, _, store := setupAuth(t)
	ctx := context.Background()

	session, err := svc.CompleteAuthorization(ctx, "code", "")
	require.NoError(t, err)

	require.NoError(t, svc.EndSession(ctx, session.ID))
	require.NoError(t, svc.EndSession(ctx, session.ID), "ending twice is not an error")
	require.NoError(t, svc.EndSession(ctx, ""))
	assert.Zero(t, store.Len())

	_, err = svc.Authenticate(ctx, session.ID)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}
