package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/deppfellow/go-modelguard/internal/errs"
	"github.com/deppfellow/go-modelguard/internal/server"
	"github.com/deppfellow/go-modelguard/internal/validation"
)

const (
	// SessionIDParam is the route parameter holding the session id.
	SessionIDParam = "id"

	SessionIDKey = "session_id"
)

var codeInvalidSessionID = "INVALID_SESSION_ID"

// SessionMiddleware guards the /session/:id routes.
type SessionMiddleware struct {
	server *server.Server
}

func NewSessionMiddleware(s *server.Server) *SessionMiddleware {
	return &SessionMiddleware{server: s}
}

// RequireSessionID rejects ids that are not UUIDs before any body is read, and
// adds the id to the request logger.
func (sm *SessionMiddleware) RequireSessionID(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		id := c.Param(SessionIDParam)
		if !validation.IsValidUUID(id) {
			return errs.NewNotFoundError("invalid session id "+id, false, &codeInvalidSessionID)
		}

		c.Set(SessionIDKey, id)
		setLogger(c, GetLogger(c).With().Str("session_id", id).Logger())

		return next(c)
	}
}

func GetSessionID(c echo.Context) string {
	if id, ok := c.Get(SessionIDKey).(string); ok {
		return id
	}
	return ""
}
