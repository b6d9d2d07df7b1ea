package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/sumire/managers/internal/domain"
	"github.com/sumire/managers/internal/slack"
)

// SessionStore defines the session persistence interface consumed by AuthService.
type SessionStore interface {
	Create(ctx context.Context, s domain.Session) error
	FindByID(ctx context.Context, id string) (*domain.Session, error)
	Delete(ctx context.Context, id string) error
}

// SlackAuth is the part of the Slack client used by the OAuth flow.
type SlackAuth interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*slack.AuthedUser, error)
}

// AuthConfig holds session configuration.
type AuthConfig struct {
	SessionTTL time.Duration
}

// AuthService runs the Slack OAuth flow and owns the session lifecycle.
type AuthService struct {
	slack    SlackAuth
	sessions SessionStore
	ttl      time.Duration
	now      func() time.Time
}

// NewAuthService creates a new AuthService.
func NewAuthService(slack SlackAuth, sessions SessionStore, cfg AuthConfig) *AuthService {
	ttl := cfg.SessionTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &AuthService{
		slack:    slack,
		sessions: sessions,
		ttl:      ttl,
		now:      time.Now,
	}
}

// AuthorizeURL returns the Slack OAuth authorization URL.
func (s *AuthService) AuthorizeURL(state string) string {
	return s.slack.AuthCodeURL(state)
}

// CompleteAuthorization handles the OAuth callback. oauthErr is the "error" query
// parameter Slack sends when the user denies access; it takes precedence over code.
// A session is created only when the code exchange succeeds.
func (s *AuthService) CompleteAuthorization(ctx context.Context, code, oauthErr string) (*domain.Session, error) {
	if oauthErr != "" {
		return nil, &domain.UpstreamError{Kind: domain.ErrUpstreamAuth, Code: oauthErr}
	}
	if code == "" {
		return nil, domain.ErrMissingCode
	}

	user, err := s.slack.Exchange(ctx, code)
	if err != nil {
		return nil, upstreamError(domain.ErrUpstreamExchange, err)
	}

	now := s.now()
	session := domain.Session{
		ID:          uuid.NewString(),
		AccessToken: user.AccessToken,
		UserID:      user.ID,
		CreatedAt:   now,
		ExpiresAt:   now.Add(s.ttl),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return &session, nil
}

// Authenticate resolves a session ID to a live session carrying an access token.
func (s *AuthService) Authenticate(ctx context.Context, sessionID string) (*domain.Session, error) {
	if sessionID == "" {
		return nil, domain.ErrUnauthenticated
	}
	session, err := s.sessions.FindByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return nil, domain.ErrUnauthenticated
		}
		return nil, fmt.Errorf("load session: %w", err)
	}
	if !session.Authenticated() || session.Expired(s.now()) {
		return nil, domain.ErrUnauthenticated
	}
	return session, nil
}

// EndSession destroys a session. Ending an unknown session is not an error.
func (s *AuthService) EndSession(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// upstreamError classifies a Slack client error under kind, keeping Slack's error code.
func upstreamError(kind, err error) error {
	var apiErr *slack.APIError
	if errors.As(err, &apiErr) {
		return &domain.UpstreamError{Kind: kind, Code: apiErr.Code, Err: err}
	}
	return &domain.UpstreamError{Kind: kind, Err: err}
}
