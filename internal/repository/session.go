// Package repository persists sessions.
//
// Two stores implement SessionRepository: an in-memory map for single-process
// runs and tests, and Redis when an address is configured.
package repository

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

// ErrSessionNotFound is returned when no session carries the requested id.
var ErrSessionNotFound = errors.New("session not found")

// Session is the stored state of one automation session.
type Session struct {
	ID               string         `json:"sessionId"`
	UserID           string         `json:"userId"`
	UserName         string         `json:"userName,omitempty"`
	Capabilities     map[string]any `json:"capabilities,omitempty"`
	KeysSent         int            `json:"keysSent"`
	ActionsPerformed int            `json:"actionsPerformed"`
	LastElement      string         `json:"lastElement,omitempty"`
	CreatedAt        time.Time      `json:"createdAt"`
	UpdatedAt        time.Time      `json:"updatedAt"`
}

// UpdateFunc mutates a session in place. Returning an error aborts the update.
type UpdateFunc func(s *Session) error

// SessionRepository stores sessions by id.
type SessionRepository interface {
	// Save inserts or replaces s.
	Save(ctx context.Context, s *Session) error
	// Get returns ErrSessionNotFound for unknown ids.
	Get(ctx context.Context, id string) (*Session, error)
	// Update applies fn atomically and returns the stored result.
	Update(ctx context.Context, id string, fn UpdateFunc) (*Session, error)
	// Delete returns ErrSessionNotFound for unknown ids.
	Delete(ctx context.Context, id string) error
	// Ping reports whether the backing store is reachable.
	Ping(ctx context.Context) error
}
