package main

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sumire/managers/internal/domain"
	"github.com/sumire/managers/internal/repository"
)

func TestPurgeExpiredSessionsSweepsUnreadSessions(t *testing.T) {
	repo := repository.NewMemorySessionRepository()
	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()

	now := time.Now()
	for _, id := range []string{"s1", "s2", "s3"} {
		require.NoError(t, repo.Create(ctx, domain.Session{
			ID:          id,
			AccessToken: "xoxp-" + id,
			UserID:      "U_ME",
			CreatedAt:   now.Add(-2 * time.Hour),
			ExpiresAt:   now.Add(-time.Hour),
		}))
	}
	require.NoError(t, repo.Create(ctx, domain.Session{
		ID:          "live",
		AccessToken: "xoxp-live",
		UserID:      "U_ME",
		CreatedAt:   now,
		ExpiresAt:   now.Add(time.Hour),
	}))

	go purgeExpiredSessions(ctx, repo, 10*time.Millisecond)

	require.Eventually(t, func() bool { return repo.Len() == 1 }, time.Second, 10*time.Millisecond)

	s, err := repo.FindByID(ctx, "live")
	require.NoError(t, err)
	assert.Equal(t, "xoxp-live", s.AccessToken)
}
