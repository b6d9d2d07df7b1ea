package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sumire/managers/internal/domain"
)

const sessionKeyPrefix = "session:"

// RedisSessionRepository stores sessions in Redis with a TTL matching session expiry.
type RedisSessionRepository struct {
	rdb *redis.Client
}

// NewRedisSessionRepository creates a new RedisSessionRepository.
func NewRedisSessionRepository(rdb *redis.Client) *RedisSessionRepository {
	return &RedisSessionRepository{rdb: rdb}
}

// ConnectRedis parses redisURL and pings the server before returning a client.
func ConnectRedis(ctx context.Context, redisURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return rdb, nil
}

// Create stores a session; Redis expires it at s.ExpiresAt.
func (r *RedisSessionRepository) Create(ctx context.Context, s domain.Session) error {
	ttl := time.Until(s.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("store session: %w: already expired", domain.ErrInvalidInput)
	}
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := r.rdb.Set(ctx, sessionKeyPrefix+s.ID, data, ttl).Err(); err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	return nil
}

// FindByID retrieves a session by its ID.
func (r *RedisSessionRepository) FindByID(ctx context.Context, id string) (*domain.Session, error) {
	raw, err := r.rdb.Get(ctx, sessionKeyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("fetch session: %w", err)
	}
	var s domain.Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("parse session: %w", err)
	}
	return &s, nil
}

// Delete removes a session. Deleting a missing key is not an error.
func (r *RedisSessionRepository) Delete(ctx context.Context, id string) error {
	if err := r.rdb.Del(ctx, sessionKeyPrefix+id).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
