// Package router builds the Echo instance: global middleware, the error handler
// and every route group.
package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/go-modelguard/internal/handler"
	"github.com/deppfellow/go-modelguard/internal/middleware"
	"github.com/deppfellow/go-modelguard/internal/server"
)

// NewRouter wires middleware and routes. Middleware order matters: the request id
// must exist before the logger is built, and the New Relic transaction before
// tracing attributes are added.
func NewRouter(s *server.Server, h *handler.Handlers) *echo.Echo {
	mw := middleware.NewMiddlewares(s)

	router := echo.New()
	router.HideBanner = true
	router.HidePort = true
	router.HTTPErrorHandler = mw.Global.GlobalErrorHandler

	router.Use(
		mw.Global.CORS(),
		mw.Global.Secure(),
		middleware.RequestID(),
		mw.Tracing.NewRelicMiddleware(),
		mw.Tracing.EnhanceTracing(),
		mw.ContextEnhancer.EnhanceContext(),
		mw.Global.RequestLogger(),
		mw.Global.Recover(),
	)

	registerSystemRoutes(router, h)
	registerSessionRoutes(router, h, mw)

	return router
}

func registerSessionRoutes(r *echo.Echo, h *handler.Handlers, mw *middleware.Middlewares) {
	sessions := h.Session

	r.POST("/login", handler.Handle(sessions.Handler, sessions.Login, http.StatusOK))
	r.POST("/session", handler.Handle(sessions.Handler, sessions.Create, http.StatusCreated))

	g := r.Group("/session/:"+middleware.SessionIDParam, mw.Session.RequireSessionID)
	g.GET("", handler.HandleNoBody(sessions.Handler, sessions.Get, http.StatusOK))
	g.DELETE("", handler.HandleNoContent(sessions.Handler, sessions.Delete, http.StatusNoContent))
	g.POST("/keys", handler.Handle(sessions.Handler, sessions.SendKeys, http.StatusOK))
	g.POST("/actions", handler.Handle(sessions.Handler, sessions.PerformActions, http.StatusOK))
}
