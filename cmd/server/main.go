package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"

	"github.com/sumire/managers/internal/config"
	"github.com/sumire/managers/internal/handler"
	"github.com/sumire/managers/internal/repository"
	"github.com/sumire/managers/internal/service"
	"github.com/sumire/managers/internal/slack"
)

func main() {
	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ctx, cancelBackground := context.WithCancel(context.Background())
	defer cancelBackground()

	sessions, closer, err := openSessionStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closer.Close()

	slackClient := slack.NewClient(slack.Config{
		ClientID:     cfg.SlackClientID,
		ClientSecret: cfg.SlackClientSecret,
		RedirectURL:  cfg.RedirectURL,
		BaseURL:      cfg.SlackBaseURL,
		HTTPClient:   &http.Client{Timeout: cfg.SlackHTTPTimeout},
	})

	authSvc := service.NewAuthService(slackClient, sessions, service.AuthConfig{
		SessionTTL: cfg.SessionTTL,
	})
	profileSvc := service.NewProfileService(slackClient, service.ProfileConfig{
		ManagerFieldID: cfg.ManagerFieldID,
	})

	e := handler.NewRouter(handler.RouterConfig{
		Auth:     authSvc,
		Profiles: profileSvc,
		Cookies:  handler.NewSessionCookies(cfg.SessionSecret),
		AppURL:   cfg.AppURL,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "port", cfg.Port, "session_backend", cfg.SessionBackend)
		errCh <- srv.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		slog.Info("shutdown signal received", "signal", sig)
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped gracefully")
	return nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// openSessionStore connects the configured session backend.
func openSessionStore(ctx context.Context, cfg config.Config) (service.SessionStore, io.Closer, error) {
	switch cfg.SessionBackend {
	case config.BackendPostgres:
		db, err := sqlx.Connect("pgx", cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("connect database: %w", err)
		}
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)

		repo := repository.NewPostgresSessionRepository(db)
		if err := repo.Migrate(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		slog.Info("database connected")
		go purgeExpiredSessions(ctx, repo, time.Hour)
		return repo, db, nil

	case config.BackendRedis:
		rdb, err := repository.ConnectRedis(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, fmt.Errorf("connect redis: %w", err)
		}
		slog.Info("redis connected")
		return repository.NewRedisSessionRepository(rdb), rdb, nil

	default:
		repo := repository.NewMemorySessionRepository()
		go purgeExpiredSessions(ctx, repo, 10*time.Minute)
		return repo, nopCloser{}, nil
	}
}

type expiredSessionPurger interface {
	DeleteExpired(ctx context.Context) (int64, error)
}

// purgeExpiredSessions periodically deletes expired sessions; lookups already ignore them.
func purgeExpiredSessions(ctx context.Context, repo expiredSessionPurger, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := repo.DeleteExpired(ctx)
			if err != nil {
				slog.Error("purge expired sessions", "error", err)
				continue
			}
			if n > 0 {
				slog.Info("purged expired sessions", "count", n)
			}
		}
	}
}
