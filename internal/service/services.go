// Package service contains the business logic.
//
// It sits between the handler and repository layers: it receives payloads that
// have already passed model validation, performs the session operations and
// calls the repository to persist them.
package service

import (
	"github.com/deppfellow/go-modelguard/internal/repository"
	"github.com/deppfellow/go-modelguard/internal/server"
)

type Services struct {
	Session *SessionService
}

func NewServices(s *server.Server, repos *repository.Repositories) *Services {
	return &Services{
		Session: NewSessionService(s, repos.Sessions),
	}
}
