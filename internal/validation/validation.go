// Package validation binds request bodies and checks them before they reach a
// service.
//
// Two passes run on every payload. The model pass walks the descriptor tables and
// stops at the first missing mandatory field. Payloads that also implement
// Validatable get a second pass, usually backed by `validator` struct tags, whose
// errors are extracted into a format the client can understand.
package validation

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/deppfellow/go-modelguard/internal/errs"
	"github.com/deppfellow/go-modelguard/internal/model"
)

// Validatable is implemented by payloads that carry rules beyond field presence.
//
// Typical pattern:
//   - tag the struct (`validate:"omitempty,oneof=key pointer"`)
//   - implement Validate() error that runs validator.Struct
//   - return validator.ValidationErrors or CustomValidationErrors
type Validatable interface {
	Validate() error
}

// CustomValidationError is a single issue that cannot be expressed with tags.
type CustomValidationError struct {
	Field   string
	Message string
}

// CustomValidationErrors is a slice of custom validation errors that satisfies error.
type CustomValidationErrors []CustomValidationError

func (c CustomValidationErrors) Error() string {
	return "Validation failed"
}

// BindAndValidate binds the request body into payload and validates it.
//
// Flow:
//  1. c.Bind(payload) decodes the body; payload must be a pointer.
//  2. v.Check(payload) runs the model pass.
//  3. payload.Validate() runs when payload is Validatable.
//
// A bind failure or a missing field yields a 400 *errs.HTTPError. A broken model
// definition yields a 500 that still unwraps to the *model.DefinitionError.
func BindAndValidate(c echo.Context, v *model.Validator, payload model.Model) error {
	if err := c.Bind(payload); err != nil {
		return errs.NewBadRequestError(bindMessage(err), false, nil, nil)
	}

	return Check(v, payload)
}

// Check runs both validation passes on an already decoded payload.
func Check(v *model.Validator, payload model.Model) error {
	if err := v.Check(payload); err != nil {
		return errs.FromModelError(err)
	}

	if p, ok := payload.(Validatable); ok {
		if err := p.Validate(); err != nil {
			msg, fieldErrors := extractValidationError(err)
			if fieldErrors == nil {
				return errs.ValidationError(err)
			}
			return errs.NewBadRequestError(msg, true, nil, fieldErrors)
		}
	}

	return nil
}

func bindMessage(err error) string {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if he.Internal != nil {
			return fmt.Sprintf("%v: %v", he.Message, he.Internal)
		}
		return fmt.Sprint(he.Message)
	}
	return err.Error()
}

func extractValidationError(err error) (string, []errs.FieldError) {
	var fieldErrors []errs.FieldError

	var custom CustomValidationErrors
	if errors.As(err, &custom) {
		for _, e := range custom {
			fieldErrors = append(fieldErrors, errs.FieldError{
				Field: e.Field,
				Error: e.Message,
			})
		}
		return "Validation failed", fieldErrors
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return "", nil
	}

	for _, e := range validationErrors {
		var msg string

		switch e.Tag() {
		case "required":
			msg = "is required"

		case "min":
			if e.Kind() == reflect.String {
				msg = fmt.Sprintf("must be at least %s characters", e.Param())
			} else {
				msg = fmt.Sprintf("must be at least %s", e.Param())
			}

		case "max":
			if e.Kind() == reflect.String {
				msg = fmt.Sprintf("must not exceed %s characters", e.Param())
			} else {
				msg = fmt.Sprintf("must not exceed %s", e.Param())
			}

		case "oneof":
			msg = fmt.Sprintf("must be one of: %s", e.Param())

		case "uuid":
			msg = "must be a valid UUID"

		default:
			if e.Param() != "" {
				msg = fmt.Sprintf("%s: %s:%s", e.Field(), e.Tag(), e.Param())
			} else {
				msg = fmt.Sprintf("%s: %s", e.Field(), e.Tag())
			}
		}

		fieldErrors = append(fieldErrors, errs.FieldError{
			Field: fieldPath(e),
			Error: msg,
		})
	}

	return "Validation failed", fieldErrors
}

// fieldPath drops the root struct name from the namespace:
// "ActionsRequest.actions[0].type" becomes "actions[0].type".
func fieldPath(e validator.FieldError) string {
	ns := e.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return e.Field()
}

// IsValidUUID reports whether s parses as a UUID.
func IsValidUUID(s string) bool {
	return uuid.Validate(s) == nil
}
