package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Session backends.
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	Port int

	SlackClientID     string
	SlackClientSecret string
	RedirectURL       string
	SlackBaseURL      string
	SlackHTTPTimeout  time.Duration

	// AppURL is where the browser lands after a successful login.
	AppURL         string
	ManagerFieldID string

	SessionSecret  string
	SessionTTL     time.Duration
	SessionBackend string
	DatabaseURL    string
	RedisURL       string
}

// Load reads configuration from environment variables and validates required fields.
func Load() (Config, error) {
	port, err := getEnvInt("PORT", 3000)
	if err != nil {
		return Config{}, fmt.Errorf("parse PORT: %w", err)
	}

	ttl, err := getEnvDuration("SESSION_TTL", 24*time.Hour)
	if err != nil {
		return Config{}, fmt.Errorf("parse SESSION_TTL: %w", err)
	}

	timeout, err := getEnvDuration("SLACK_HTTP_TIMEOUT", 10*time.Second)
	if err != nil {
		return Config{}, fmt.Errorf("parse SLACK_HTTP_TIMEOUT: %w", err)
	}

	redirectURL := getEnv("REDIRECT_URI", "")

	cfg := Config{
		Port:              port,
		SlackClientID:     getEnv("SLACK_CLIENT_ID", ""),
		SlackClientSecret: getEnv("SLACK_CLIENT_SECRET", ""),
		RedirectURL:       redirectURL,
		SlackBaseURL:      getEnv("SLACK_BASE_URL", "https://slack.com"),
		SlackHTTPTimeout:  timeout,
		AppURL:            getEnv("APP_URL", appURLFromRedirect(redirectURL)),
		ManagerFieldID:    getEnv("MANAGER_FIELD_ID", "Xf09727DH1J8"),
		SessionSecret:     getEnv("SESSION_SECRET", ""),
		SessionTTL:        ttl,
		SessionBackend:    getEnv("SESSION_BACKEND", BackendMemory),
		DatabaseURL:       getEnv("DATABASE_URL", ""),
		RedisURL:          getEnv("REDIS_URL", ""),
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) validate() error {
	if c.SlackClientID == "" {
		return fmt.Errorf("SLACK_CLIENT_ID is required")
	}
	if c.SlackClientSecret == "" {
		return fmt.Errorf("SLACK_CLIENT_SECRET is required")
	}
	if c.RedirectURL == "" {
		return fmt.Errorf("REDIRECT_URI is required")
	}
	if c.SessionSecret == "" {
		return fmt.Errorf("SESSION_SECRET is required")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}
	switch c.SessionBackend {
	case BackendMemory:
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres session backend")
		}
	case BackendRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("REDIS_URL is required for the redis session backend")
		}
	default:
		return fmt.Errorf("unknown SESSION_BACKEND %q", c.SessionBackend)
	}
	return nil
}

// appURLFromRedirect derives the application root from the OAuth callback URL.
func appURLFromRedirect(redirectURL string) string {
	if root, ok := strings.CutSuffix(redirectURL, "/auth/callback"); ok {
		return root + "/"
	}
	return "/"
}

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}
	return strconv.Atoi(v)
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}
	return time.ParseDuration(v)
}
