package domain

import "time"

// Session links a browser's session cookie to the Slack user token obtained at login.
// Sessions are write-once: a new login creates a new Session.
type Session struct {
	ID          string    `json:"id" db:"id"`
	AccessToken string    `json:"access_token" db:"access_token"`
	UserID      string    `json:"user_id" db:"user_id"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	ExpiresAt   time.Time `json:"expires_at" db:"expires_at"`
}

// Authenticated reports whether the session carries a token usable against Slack.
func (s *Session) Authenticated() bool {
	return s != nil && s.AccessToken != ""
}

// Expired reports whether the session's TTL has elapsed at now.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}
