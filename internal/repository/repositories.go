package repository

import (
	"time"

	"github.com/deppfellow/go-modelguard/internal/server"
)

// Repositories is a container for all repository instances.
type Repositories struct {
	Sessions SessionRepository
}

// NewRepositories picks the Redis store when the server holds a Redis client and
// the in-memory store otherwise.
func NewRepositories(s *server.Server) *Repositories {
	if s.Redis == nil {
		s.Logger.Info().Msg("using in-memory session store")
		return &Repositories{Sessions: NewMemorySessionRepository()}
	}

	var ttl time.Duration
	if s.Config.Redis != nil {
		ttl = time.Duration(s.Config.Redis.SessionTTL) * time.Second
	}

	s.Logger.Info().Dur("ttl", ttl).Msg("using redis session store")
	return &Repositories{Sessions: NewRedisSessionRepository(s.Redis, ttl)}
}
