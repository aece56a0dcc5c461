package repository

import (
	"context"
	"maps"
	"sync"
)

// MemorySessionRepository keeps sessions in process memory.
type MemorySessionRepository struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewMemorySessionRepository() *MemorySessionRepository {
	return &MemorySessionRepository{sessions: make(map[string]*Session)}
}

func (r *MemorySessionRepository) Save(_ context.Context, s *Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions[s.ID] = clone(s)
	return nil
}

func (r *MemorySessionRepository) Get(_ context.Context, id string) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return clone(s), nil
}

func (r *MemorySessionRepository) Update(_ context.Context, id string, fn UpdateFunc) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}

	updated := clone(s)
	if err := fn(updated); err != nil {
		return nil, err
	}
	r.sessions[id] = updated
	return clone(updated), nil
}

func (r *MemorySessionRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(r.sessions, id)
	return nil
}

func (r *MemorySessionRepository) Ping(context.Context) error {
	return nil
}

// clone copies s so callers never share the stored map.
func clone(s *Session) *Session {
	cp := *s
	cp.Capabilities = maps.Clone(s.Capabilities)
	return &cp
}
