// Package server defines the Server container that composes the app's shared
// dependencies and owns the HTTP server lifecycle.
//
// It owns:
//   - configuration and the model validator built from it
//   - logger and the optional New Relic service
//   - the optional Redis client
//   - the *http.Server
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/newrelic/go-agent/v3/integrations/nrredis-v9"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/deppfellow/go-modelguard/internal/config"
	loggerPkg "github.com/deppfellow/go-modelguard/internal/logger"
	"github.com/deppfellow/go-modelguard/internal/model"
)

// Server is the application container. It is not the HTTP server itself.
type Server struct {
	Config *config.Config
	Logger *zerolog.Logger

	// LoggerService may hold a nil New Relic application.
	LoggerService *loggerPkg.LoggerService

	// Validator checks every request model.
	Validator *model.Validator

	// Redis is nil unless redis.address is configured.
	Redis *redis.Client

	httpServer *http.Server
}

// New constructs a Server. A configured Redis that cannot be reached fails the
// startup, since sessions would otherwise be lost silently.
func New(cfg *config.Config, logger *zerolog.Logger, loggerService *loggerPkg.LoggerService) (*Server, error) {
	s := &Server{
		Config:        cfg,
		Logger:        logger,
		LoggerService: loggerService,
		Validator:     cfg.Validation.NewValidator(),
	}

	if cfg.Redis != nil {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})

		if loggerService.GetApplication() != nil {
			client.AddHook(nrredis.NewHook(client.Options()))
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, errors.Wrapf(err, "failed to connect to redis at %s", cfg.Redis.Address)
		}

		logger.Info().Str("address", cfg.Redis.Address).Msg("connected to redis")
		s.Redis = client
	}

	logger.Info().
		Bool("detect_cycles", cfg.Validation.DetectCycles).
		Int("max_depth", cfg.Validation.MaxDepth).
		Msg("model validator ready")

	return s, nil
}

// SetupHTTPServer configures the internal net/http server around handler.
func (s *Server) SetupHTTPServer(handler http.Handler) {
	s.httpServer = &http.Server{
		Addr:         ":" + s.Config.Server.Port,
		Handler:      handler,
		ReadTimeout:  time.Duration(s.Config.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(s.Config.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(s.Config.Server.IdleTimeout) * time.Second,
	}
}

// Start blocks serving HTTP. SetupHTTPServer must run first.
func (s *Server) Start() error {
	if s.httpServer == nil {
		return errors.New("HTTP server not initialized")
	}

	s.Logger.Info().
		Str("port", s.Config.Server.Port).
		Str("env", s.Config.Primary.Env).
		Msg("starting server")

	return s.httpServer.ListenAndServe()
}

// Shutdown stops the HTTP server, then closes Redis.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			return errors.Wrap(err, "failed to shutdown HTTP server")
		}
	}

	if s.Redis != nil {
		if err := s.Redis.Close(); err != nil {
			return errors.Wrap(err, "failed to close redis client")
		}
	}

	return nil
}
