package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/sumire/managers/internal/domain"
)

const sessionSchema = `CREATE TABLE IF NOT EXISTS sessions (
	id           TEXT PRIMARY KEY,
	access_token TEXT NOT NULL,
	user_id      TEXT NOT NULL,
	created_at   TIMESTAMPTZ NOT NULL,
	expires_at   TIMESTAMPTZ NOT NULL
)`

// PostgresSessionRepository handles session persistence in Postgres.
type PostgresSessionRepository struct {
	db *sqlx.DB
}

// NewPostgresSessionRepository creates a new PostgresSessionRepository.
func NewPostgresSessionRepository(db *sqlx.DB) *PostgresSessionRepository {
	return &PostgresSessionRepository{db: db}
}

// Migrate creates the sessions table if it does not exist.
func (r *PostgresSessionRepository) Migrate(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, sessionSchema); err != nil {
		return fmt.Errorf("create sessions table: %w", err)
	}
	return nil
}

// Create inserts a new session.
func (r *PostgresSessionRepository) Create(ctx context.Context, s domain.Session) error {
	_, err := r.db.NamedExecContext(ctx,
		`INSERT INTO sessions (id, access_token, user_id, created_at, expires_at)
		 VALUES (:id, :access_token, :user_id, :created_at, :expires_at)`, s)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

// FindByID retrieves an unexpired session by its ID.
func (r *PostgresSessionRepository) FindByID(ctx context.Context, id string) (*domain.Session, error) {
	var s domain.Session
	err := r.db.GetContext(ctx, &s,
		`SELECT id, access_token, user_id, created_at, expires_at
		 FROM sessions WHERE id = $1 AND expires_at > NOW()`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("find session: %w", err)
	}
	return &s, nil
}

// Delete removes a session by ID.
func (r *PostgresSessionRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// DeleteExpired removes sessions whose TTL has elapsed and returns how many were removed.
func (r *PostgresSessionRepository) DeleteExpired(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at <= NOW()`)
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	return n, nil
}
