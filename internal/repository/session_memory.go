package repository

import (
	"context"
	"sync"
	"time"

	"github.com/sumire/managers/internal/domain"
)

// MemorySessionRepository keeps sessions in process memory. Sessions are lost on restart.
type MemorySessionRepository struct {
	mu       sync.RWMutex
	sessions map[string]domain.Session
	now      func() time.Time
}

// NewMemorySessionRepository creates a new MemorySessionRepository.
func NewMemorySessionRepository() *MemorySessionRepository {
	return &MemorySessionRepository{
		sessions: make(map[string]domain.Session),
		now:      time.Now,
	}
}

// Create stores a new session.
func (r *MemorySessionRepository) Create(_ context.Context, s domain.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.ID] = s
	return nil
}

// FindByID returns the session with id, or domain.ErrSessionNotFound if it is
// missing or expired. Expired sessions are evicted on access.
func (r *MemorySessionRepository) FindByID(_ context.Context, id string) (*domain.Session, error) {
	r.mu.RLock()
	s, ok := r.sessions[id]
	r.mu.RUnlock()
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	if s.Expired(r.now()) {
		r.mu.Lock()
		delete(r.sessions, id)
		r.mu.Unlock()
		return nil, domain.ErrSessionNotFound
	}
	return &s, nil
}

// Delete removes a session. Deleting a missing session is not an error.
func (r *MemorySessionRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
	return nil
}

// DeleteExpired removes sessions whose TTL has elapsed and returns how many were removed.
func (r *MemorySessionRepository) DeleteExpired(_ context.Context) (int64, error) {
	now := r.now()
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for id, s := range r.sessions {
		if s.Expired(now) {
			delete(r.sessions, id)
			n++
		}
	}
	return n, nil
}

// Len returns the number of stored sessions, expired ones included.
func (r *MemorySessionRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
