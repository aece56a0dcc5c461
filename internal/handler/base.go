package handler

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/integrations/nrpkgerrors"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/pkg/errors"

	"github.com/deppfellow/go-modelguard/internal/middleware"
	"github.com/deppfellow/go-modelguard/internal/model"
	"github.com/deppfellow/go-modelguard/internal/server"
	"github.com/deppfellow/go-modelguard/internal/validation"
)

// Handler holds the shared application dependencies of every concrete handler.
//
// Concrete handlers (HealthHandler, SessionHandler, ModelsHandler) embed it to
// reach the config, logger, validator and Redis client through *server.Server.
type Handler struct {
	server *server.Server
}

// NewHandler constructs a base Handler. It is returned by value; the copy still
// points to the same Server.
func NewHandler(s *server.Server) Handler {
	return Handler{server: s}
}

// --- Generic typed handler plumbing -----------------------------------------

// Body is satisfied by pointers to request models, e.g. *api.LoginRequest.
//
// Handle allocates a fresh *Req for every request, because Echo binds into a
// pointer and concurrent requests must not share one.
type Body[Req any] interface {
	*Req
	model.Model
}

// ResponseHandler decides how a successful result is written.
type ResponseHandler interface {
	// Handle writes the HTTP response for the given result.
	Handle(c echo.Context, result any) error

	// GetOperation names the pipeline in structured logs (handler or
	// handler_no_content).
	GetOperation() string
}

// JSONResponseHandler writes JSON responses with a fixed status code.
type JSONResponseHandler struct {
	status int
}

// Handle writes result as JSON with the configured status.
func (h JSONResponseHandler) Handle(c echo.Context, result any) error {
	return c.JSON(h.status, result)
}

func (h JSONResponseHandler) GetOperation() string {
	return "handler"
}

// NoContentResponseHandler writes responses with no body.
type NoContentResponseHandler struct {
	status int
}

func (h NoContentResponseHandler) Handle(c echo.Context, _ any) error {
	return c.NoContent(h.status)
}

func (h NoContentResponseHandler) GetOperation() string {
	return "handler_no_content"
}

// handleRequest is the shared pipeline behind Handle, HandleNoBody and
// HandleNoContent.
//
// Steps:
//  1. tag the transaction with the route and build a route-scoped logger
//  2. bind and validate the body (skipped when bind is nil)
//  3. run the handler
//  4. write the response through responseHandler
//
// Validation and handler durations are logged and, with New Relic, added to the
// transaction. A validation failure is logged at warn, except a broken model
// definition, which is a server fault and is logged at error with a stack.
func handleRequest(
	c echo.Context,
	bind func(c echo.Context) error,
	handler func(c echo.Context) (any, error),
	responseHandler ResponseHandler,
) error {
	start := time.Now()
	txn := newrelic.FromContext(c.Request().Context())
	if txn != nil {
		txn.AddAttribute("handler.name", c.Path())
	}

	logger := middleware.GetLogger(c).With().
		Str("operation", responseHandler.GetOperation()).
		Str("route", c.Path()).
		Logger()

	logger.Info().Msg("handling request")

	var validationDuration time.Duration
	if bind != nil {
		validationStart := time.Now()
		err := bind(c)
		validationDuration = time.Since(validationStart)

		if err != nil {
			event := logger.Warn()
			if errors.Is(err, model.ErrModelDefinition) {
				event = logger.Error().Stack()
			}
			event.Err(err).
				Dur("validation_duration", validationDuration).
				Msg("request validation failed")

			if txn != nil {
				txn.AddAttribute("validation.status", "failed")
				txn.AddAttribute("validation.duration_ms", validationDuration.Milliseconds())
			}
			return err
		}

		if txn != nil {
			txn.AddAttribute("validation.status", "success")
			txn.AddAttribute("validation.duration_ms", validationDuration.Milliseconds())
		}
		logger.Debug().
			Dur("validation_duration", validationDuration).
			Msg("request validation successful")
	}

	handlerStart := time.Now()
	result, err := handler(c)
	handlerDuration := time.Since(handlerStart)

	if err != nil {
		logger.Error().
			Err(err).
			Dur("handler_duration", handlerDuration).
			Dur("total_duration", time.Since(start)).
			Msg("handler execution failed")

		if txn != nil {
			txn.NoticeError(nrpkgerrors.Wrap(err))
			txn.AddAttribute("handler.status", "error")
			txn.AddAttribute("handler.duration_ms", handlerDuration.Milliseconds())
		}
		return err
	}

	if txn != nil {
		txn.AddAttribute("handler.status", "success")
		txn.AddAttribute("handler.duration_ms", handlerDuration.Milliseconds())
		txn.AddAttribute("total.duration_ms", time.Since(start).Milliseconds())
	}

	logger.Info().
		Dur("handler_duration", handlerDuration).
		Dur("validation_duration", validationDuration).
		Dur("total_duration", time.Since(start)).
		Msg("request completed successfully")

	return responseHandler.Handle(c, result)
}

// bindBody binds the request into req and runs both validation passes.
func bindBody[Req any, PReq Body[Req]](h Handler, req PReq) func(c echo.Context) error {
	return func(c echo.Context) error {
		return validation.BindAndValidate(c, h.server.Validator, req)
	}
}

// Handle wraps a handler whose body is a request model.
//
// The body is bound, checked for mandatory fields and value rules, and only then
// handed to handler. Errors are returned untouched for the global error handler.
//
//	g.POST("/login", handler.Handle(h, sessions.Login, http.StatusOK))
func Handle[Req any, PReq Body[Req], Res any](
	h Handler,
	handler func(c echo.Context, req PReq) (Res, error),
	status int,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := PReq(new(Req))
		return handleRequest(c, bindBody(h, req), func(c echo.Context) (any, error) {
			return handler(c, req)
		}, JSONResponseHandler{status: status})
	}
}

// HandleNoBody wraps a handler that reads only path parameters.
func HandleNoBody[Res any](
	h Handler,
	handler func(c echo.Context) (Res, error),
	status int,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		return handleRequest(c, nil, func(c echo.Context) (any, error) {
			return handler(c)
		}, JSONResponseHandler{status: status})
	}
}

// HandleNoContent wraps a body-less handler that answers without content.
func HandleNoContent(
	h Handler,
	handler func(c echo.Context) error,
	status int,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		return handleRequest(c, nil, func(c echo.Context) (any, error) {
			return nil, handler(c)
		}, NoContentResponseHandler{status: status})
	}
}
