package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/go-modelguard/internal/handler"
)

// registerSystemRoutes registers the endpoints that are not session operations.
func registerSystemRoutes(r *echo.Echo, h *handler.Handlers) {
	r.GET("/status", h.Health.CheckHealth)

	models := r.Group("/models")
	models.GET("", handler.HandleNoBody(h.Models.Handler, h.Models.List, http.StatusOK))
	models.GET("/:name", handler.HandleNoBody(h.Models.Handler, h.Models.Describe, http.StatusOK))
}
