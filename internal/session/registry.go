package session

import (
	"context"
	"sync"
	"time"

	"director-server/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Registry holds the sessions served over HTTP and evicts idle ones.
type Registry struct {
	gen    Generator
	ttl    time.Duration
	logger *zap.Logger
	now    func() time.Time

	mu       sync.RWMutex
	sessions map[string]*Machine
}

// NewRegistry creates an empty registry. A ttl of zero disables eviction.
func NewRegistry(gen Generator, ttl time.Duration, logger *zap.Logger) *Registry {
	return &Registry{
		gen:      gen,
		ttl:      ttl,
		logger:   logger.Named("SessionRegistry"),
		now:      time.Now,
		sessions: make(map[string]*Machine),
	}
}

// Create registers a new idle session.
func (r *Registry) Create() *Machine {
	m := NewMachine(uuid.NewString(), r.gen, r.logger)

	r.mu.Lock()
	r.sessions[m.ID()] = m
	n := len(r.sessions)
	r.mu.Unlock()

	activeSessions.Set(float64(n))
	r.logger.Info("Session created", zap.String("session_id", m.ID()), zap.Int("active", n))
	return m
}

// Get returns the session with the given id and marks it active.
func (r *Registry) Get(id string) (*Machine, error) {
	r.mu.RLock()
	m, ok := r.sessions[id]
	r.mu.RUnlock()
	if !ok {
		return nil, models.ErrSessionNotFound
	}
	m.touch()
	return m, nil
}

// Delete closes and removes a session.
func (r *Registry) Delete(id string) error {
	r.mu.Lock()
	m, ok := r.sessions[id]
	if ok {
		delete(r.sessions, id)
	}
	n := len(r.sessions)
	r.mu.Unlock()

	if !ok {
		return models.ErrSessionNotFound
	}
	m.Close()
	activeSessions.Set(float64(n))
	r.logger.Info("Session deleted", zap.String("session_id", id), zap.Int("active", n))
	return nil
}

// Len returns the number of held sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Sweep evicts sessions idle for longer than the ttl. Loading sessions are kept.
// It returns the number of evicted sessions.
func (r *Registry) Sweep() int {
	if r.ttl <= 0 {
		return 0
	}
	cutoff := r.now().Add(-r.ttl)

	var expired []*Machine
	r.mu.Lock()
	for id, m := range r.sessions {
		if m.Snapshot().Status == StatusLoading || m.LastActive().After(cutoff) {
			continue
		}
		delete(r.sessions, id)
		expired = append(expired, m)
	}
	n := len(r.sessions)
	r.mu.Unlock()

	for _, m := range expired {
		m.Close()
	}
	if len(expired) > 0 {
		activeSessions.Set(float64(n))
		r.logger.Info("Expired sessions evicted", zap.Int("evicted", len(expired)), zap.Int("active", n))
	}
	return len(expired)
}

// Run sweeps on every interval until ctx is done.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 || r.ttl <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Sweep()
		}
	}
}

// CloseAll closes and removes every session.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	sessions := r.sessions
	r.sessions = make(map[string]*Machine)
	r.mu.Unlock()

	for _, m := range sessions {
		m.Close()
	}
	activeSessions.Set(0)
	r.logger.Info("All sessions closed", zap.Int("count", len(sessions)))
}
