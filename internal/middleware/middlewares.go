package middleware

import (
	"github.com/deppfellow/go-modelguard/internal/server"
)

// Middlewares groups every middleware component so the router builds them once.
type Middlewares struct {
	Global           *GlobalMiddlewares
	Session          *SessionMiddleware
	ContextEnhancer  *ContextEnhancer
	Tracing          *TracingMiddleware
	ValidationEvents *ValidationEvents
}

func NewMiddlewares(s *server.Server) *Middlewares {
	events := NewValidationEvents(s)

	return &Middlewares{
		Global:           NewGlobalMiddlewares(s, events),
		Session:          NewSessionMiddleware(s),
		ContextEnhancer:  NewContextEnhancer(s),
		Tracing:          NewTracingMiddleware(s, s.LoggerService.GetApplication()),
		ValidationEvents: events,
	}
}
