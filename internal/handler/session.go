package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/deppfellow/go-modelguard/internal/api"
	"github.com/deppfellow/go-modelguard/internal/middleware"
	"github.com/deppfellow/go-modelguard/internal/repository"
	"github.com/deppfellow/go-modelguard/internal/server"
	"github.com/deppfellow/go-modelguard/internal/service"
)

// SessionHandler maps the login and session routes onto the SessionService.
type SessionHandler struct {
	Handler
	service *service.SessionService
}

func NewSessionHandler(s *server.Server, sessionService *service.SessionService) *SessionHandler {
	return &SessionHandler{
		Handler: NewHandler(s),
		service: sessionService,
	}
}

func (h *SessionHandler) Login(c echo.Context, req *api.LoginRequest) (*service.LoginResponse, error) {
	return h.service.Login(c.Request().Context(), req)
}

func (h *SessionHandler) Create(c echo.Context, req *api.Session) (*repository.Session, error) {
	return h.service.Create(c.Request().Context(), req)
}

func (h *SessionHandler) Get(c echo.Context) (*repository.Session, error) {
	return h.service.Get(c.Request().Context(), c.Param(middleware.SessionIDParam))
}

func (h *SessionHandler) Delete(c echo.Context) error {
	return h.service.Delete(c.Request().Context(), c.Param(middleware.SessionIDParam))
}

func (h *SessionHandler) SendKeys(c echo.Context, req *api.SendKeysRequest) (*repository.Session, error) {
	return h.service.SendKeys(c.Request().Context(), c.Param(middleware.SessionIDParam), req)
}

func (h *SessionHandler) PerformActions(c echo.Context, req *api.ActionsRequest) (*repository.Session, error) {
	return h.service.PerformActions(c.Request().Context(), c.Param(middleware.SessionIDParam), req)
}
