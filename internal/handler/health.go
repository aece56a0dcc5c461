package handler

import (
	"context"
	"net/http"
	"slices"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/deppfellow/go-modelguard/internal/middleware"
	"github.com/deppfellow/go-modelguard/internal/server"
)

const defaultCheckTimeout = 5 * time.Second

// HealthHandler serves GET /status.
type HealthHandler struct {
	Handler
}

func NewHealthHandler(s *server.Server) *HealthHandler {
	return &HealthHandler{
		Handler: NewHandler(s),
	}
}

type checkResult struct {
	Status       string `json:"status"`
	ResponseTime string `json:"response_time"`
	Error        string `json:"error,omitempty"`
}

// HealthResponse is the body of GET /status.
type HealthResponse struct {
	Status      string                 `json:"status"`
	Timestamp   time.Time              `json:"timestamp"`
	Environment string                 `json:"environment"`
	Validation  map[string]any         `json:"validation"`
	Checks      map[string]checkResult `json:"checks"`
}

// CheckHealth answers 200 when every configured dependency responds and 503
// otherwise. Redis is only checked when it is configured.
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	start := time.Now()
	logger := middleware.GetLogger(c).With().
		Str("operation", "health_check").
		Logger()

	cfg := h.server.Config
	response := HealthResponse{
		Status:      "healthy",
		Timestamp:   time.Now().UTC(),
		Environment: cfg.Primary.Env,
		Validation: map[string]any{
			"detect_cycles": cfg.Validation.DetectCycles,
			"max_depth":     cfg.Validation.MaxDepth,
		},
		Checks: make(map[string]checkResult),
	}

	timeout := defaultCheckTimeout
	enabled := true
	checks := []string{"redis"}
	if obs := cfg.Observability; obs != nil {
		enabled = obs.HealthChecks.Enabled
		if obs.HealthChecks.Timeout > 0 {
			timeout = obs.HealthChecks.Timeout
		}
		checks = obs.HealthChecks.Checks
	}

	if enabled && h.server.Redis != nil && slices.Contains(checks, "redis") {
		ctx, cancel := context.WithTimeout(c.Request().Context(), timeout)
		defer cancel()

		redisStart := time.Now()
		err := h.server.Redis.Ping(ctx).Err()
		result := checkResult{Status: "healthy", ResponseTime: time.Since(redisStart).String()}

		if err != nil {
			result.Status = "unhealthy"
			result.Error = err.Error()
			response.Status = "unhealthy"

			logger.Error().Err(err).Dur("response_time", time.Since(redisStart)).Msg("redis health check failed")

			if app := h.server.LoggerService.GetApplication(); app != nil {
				app.RecordCustomEvent("HealthCheckError", map[string]any{
					"check_type":       "redis",
					"operation":        "health_check",
					"error_type":       "redis_unhealthy",
					"response_time_ms": time.Since(redisStart).Milliseconds(),
					"error_message":    err.Error(),
				})
			}
		} else {
			logger.Debug().Dur("response_time", time.Since(redisStart)).Msg("redis health check passed")
		}

		response.Checks["redis"] = result
	}

	status := http.StatusOK
	if response.Status != "healthy" {
		status = http.StatusServiceUnavailable
		logger.Warn().Dur("total_duration", time.Since(start)).Msg("health check failed")
	} else {
		logger.Info().Dur("total_duration", time.Since(start)).Msg("health check passed")
	}

	if err := c.JSON(status, response); err != nil {
		return errors.Wrap(err, "failed to write JSON response")
	}
	return nil
}
