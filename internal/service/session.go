package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/deppfellow/go-modelguard/internal/api"
	"github.com/deppfellow/go-modelguard/internal/errs"
	"github.com/deppfellow/go-modelguard/internal/middleware"
	"github.com/deppfellow/go-modelguard/internal/repository"
	"github.com/deppfellow/go-modelguard/internal/server"
)

var codeSessionNotFound = "SESSION_NOT_FOUND"

// SessionService manages automation sessions.
type SessionService struct {
	server *server.Server
	repo   repository.SessionRepository
	now    func() time.Time
}

func NewSessionService(s *server.Server, repo repository.SessionRepository) *SessionService {
	return &SessionService{
		server: s,
		repo:   repo,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// LoginResponse is returned by Login.
type LoginResponse struct {
	SessionID string `json:"sessionId"`
	User      string `json:"user"`
}

// Login opens a session for the given credentials. There is no user database;
// the username becomes the session's user id.
func (s *SessionService) Login(ctx context.Context, req *api.LoginRequest) (*LoginResponse, error) {
	session, err := s.create(ctx, *req.Username, "", nil)
	if err != nil {
		return nil, err
	}

	return &LoginResponse{SessionID: session.ID, User: session.UserID}, nil
}

// Create stores a new session for req.User.
func (s *SessionService) Create(ctx context.Context, req *api.Session) (*repository.Session, error) {
	var name string
	if req.User.Name != nil {
		name = *req.User.Name
	}
	return s.create(ctx, *req.User.ID, name, req.Capabilities)
}

func (s *SessionService) create(ctx context.Context, userID, userName string, caps map[string]any) (*repository.Session, error) {
	now := s.now()
	session := &repository.Session{
		ID:           uuid.NewString(),
		UserID:       userID,
		UserName:     userName,
		Capabilities: caps,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Save(ctx, session); err != nil {
		return nil, errors.Wrap(err, "save session")
	}

	middleware.FromContext(ctx).Info().
		Str("session_id", session.ID).
		Str("user_id", userID).
		Msg("session created")

	return session, nil
}

// Get returns the session with id.
func (s *SessionService) Get(ctx context.Context, id string) (*repository.Session, error) {
	session, err := s.repo.Get(ctx, id)
	return session, notFound(err, id)
}

// Delete removes the session with id.
func (s *SessionService) Delete(ctx context.Context, id string) error {
	if err := notFound(s.repo.Delete(ctx, id), id); err != nil {
		return err
	}

	middleware.FromContext(ctx).Info().Str("session_id", id).Msg("session deleted")
	return nil
}

// SendKeys records typing into the referenced element.
func (s *SessionService) SendKeys(ctx context.Context, id string, req *api.SendKeysRequest) (*repository.Session, error) {
	session, err := s.repo.Update(ctx, id, func(session *repository.Session) error {
		session.KeysSent += len([]rune(*req.Text))
		session.LastElement = *req.ElementID
		session.UpdatedAt = s.now()
		return nil
	})
	return session, notFound(err, id)
}

// PerformActions records one action per tick of every input source.
func (s *SessionService) PerformActions(ctx context.Context, id string, req *api.ActionsRequest) (*repository.Session, error) {
	var ticks int
	for _, source := range req.Actions {
		if source != nil {
			ticks += len(source.Actions)
		}
	}

	session, err := s.repo.Update(ctx, id, func(session *repository.Session) error {
		session.ActionsPerformed += ticks
		session.UpdatedAt = s.now()
		return nil
	})
	return session, notFound(err, id)
}

func notFound(err error, id string) error {
	if errors.Is(err, repository.ErrSessionNotFound) {
		return errs.NewNotFoundError("no session with id "+id, false, &codeSessionNotFound)
	}
	return err
}
