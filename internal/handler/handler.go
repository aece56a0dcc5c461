// Package handler is the HTTP entry point after the router.
//
// Handlers bind request bodies into request models, have them validated and call
// the service layer. The shared pipeline in base.go does the binding, logging and
// tracing so concrete handlers only map a request to a service call.
package handler

import (
	"github.com/deppfellow/go-modelguard/internal/server"
	"github.com/deppfellow/go-modelguard/internal/service"
)

// Handlers groups all HTTP handlers.
type Handlers struct {
	Health  *HealthHandler
	Session *SessionHandler
	Models  *ModelsHandler
}

func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Health:  NewHealthHandler(s),
		Session: NewSessionHandler(s, services.Session),
		Models:  NewModelsHandler(s),
	}
}
