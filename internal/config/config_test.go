package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("SLACK_CLIENT_ID", "cid")
	t.Setenv("SLACK_CLIENT_SECRET", "csecret")
	t.Setenv("REDIRECT_URI", "https://app.example.com/auth/callback")
	t.Setenv("SESSION_SECRET", "s3cret")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.Port)
	assert.Equal(t, "https://app.example.com/", cfg.AppURL)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, BackendMemory, cfg.SessionBackend)
	assert.Equal(t, "Xf09727DH1J8", cfg.ManagerFieldID)
	assert.Equal(t, "https://slack.com", cfg.SlackBaseURL)
	assert.Equal(t, 10*time.Second, cfg.SlackHTTPTimeout)
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("PORT", "8080")
	t.Setenv("APP_URL", "https://other.example.com/home")
	t.Setenv("SESSION_TTL", "2h")
	t.Setenv("SESSION_BACKEND", "redis")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "https://other.example.com/home", cfg.AppURL)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
	assert.Equal(t, BackendRedis, cfg.SessionBackend)
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
		want  string
	}{
		{"missing client id", "SLACK_CLIENT_ID", "", "SLACK_CLIENT_ID is required"},
		{"missing client secret", "SLACK_CLIENT_SECRET", "", "SLACK_CLIENT_SECRET is required"},
		{"missing redirect", "REDIRECT_URI", "", "REDIRECT_URI is required"},
		{"missing session secret", "SESSION_SECRET", "", "SESSION_SECRET is required"},
		{"bad port", "PORT", "abc", "parse PORT"},
		{"bad ttl", "SESSION_TTL", "forever", "parse SESSION_TTL"},
		{"unknown backend", "SESSION_BACKEND", "etcd", "unknown SESSION_BACKEND"},
		{"postgres without url", "SESSION_BACKEND", "postgres", "DATABASE_URL is required"},
		{"redis without url", "SESSION_BACKEND", "redis", "REDIS_URL is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequired(t)
			t.Setenv("DATABASE_URL", "")
			t.Setenv("REDIS_URL", "")
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestAppURLFromRedirect(t *testing.T) {
	assert.Equal(t, "http://localhost:3000/", appURLFromRedirect("http://localhost:3000/auth/callback"))
	assert.Equal(t, "/", appURLFromRedirect("https://example.com/oauth/done"))
}
