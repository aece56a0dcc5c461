package middleware

import (
	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/integrations/nrecho-v4"
	"github.com/newrelic/go-agent/v3/integrations/nrpkgerrors"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/pkg/errors"

	"github.com/deppfellow/go-modelguard/internal/model"
	"github.com/deppfellow/go-modelguard/internal/server"
)

// TracingMiddleware owns the New Relic middleware.
//
// It needs:
//   - server: shared dependencies for the middleware chain
//   - nrApp: the New Relic application, nil when no license key is configured
//
// Two layers are installed, in this order:
//  1. NewRelicMiddleware() -> one transaction per request
//  2. EnhanceTracing()     -> request attributes and error reporting
//
// Both degrade to pass-through when nrApp is nil.
type TracingMiddleware struct {
	server *server.Server
	nrApp  *newrelic.Application
}

// NewTracingMiddleware constructs TracingMiddleware.
func NewTracingMiddleware(s *server.Server, nrApp *newrelic.Application) *TracingMiddleware {
	return &TracingMiddleware{
		server: s,
		nrApp:  nrApp,
	}
}

// NewRelicMiddleware returns the New Relic Echo middleware.
//
//   - nrApp nil: a middleware that hands the request straight to next.
//   - otherwise nrecho.Middleware, which starts a transaction, stores it in the
//     request context and records timing and status.
//
// newrelic.FromContext only finds a transaction once this has run.
func (tm *TracingMiddleware) NewRelicMiddleware() echo.MiddlewareFunc {
	if tm.nrApp == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return next
		}
	}
	return nrecho.Middleware(tm.nrApp)
}

// EnhanceTracing decorates the transaction started by NewRelicMiddleware.
//
// Before the handler:
//   - client IP and user agent
//   - request id, when RequestID ran
//
// After the handler:
//   - session id, when the route carries one
//   - the response status code
//   - for a *model.RequiredFieldMissingError, the model and field as attributes.
//     A missing field is the client's fault and is not noticed as an error.
//   - any other error is noticed through nrpkgerrors.Wrap so the stack is kept
func (tm *TracingMiddleware) EnhanceTracing() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			// nil when New Relic is off or the middleware order is wrong.
			txn := newrelic.FromContext(c.Request().Context())
			if txn == nil {
				return next(c)
			}

			txn.AddAttribute("http.real_ip", c.RealIP())
			txn.AddAttribute("http.user_agent", c.Request().UserAgent())

			if requestID := GetRequestID(c); requestID != "" {
				txn.AddAttribute("request.id", requestID)
			}

			err := next(c)

			// Route middleware has run by now, so the session id is known.
			if sessionID := GetSessionID(c); sessionID != "" {
				txn.AddAttribute("session.id", sessionID)
			}

			var missing *model.RequiredFieldMissingError
			switch {
			case err == nil:
			case errors.As(err, &missing):
				txn.AddAttribute("model.name", missing.Model)
				txn.AddAttribute("model.missing_field", missing.Field)
			default:
				txn.NoticeError(nrpkgerrors.Wrap(err))
			}

			txn.AddAttribute("http.status_code", c.Response().Status)

			return err
		}
	}
}
