package errs

import (
	"github.com/pkg/errors"

	"github.com/deppfellow/go-modelguard/internal/model"
)

// CodeRequiredFieldMissing is the code sent when a mandatory field is absent.
const CodeRequiredFieldMissing = "REQUIRED_FIELD_MISSING"

// FromModelError translates an error returned by model validation.
//
//   - *model.RequiredFieldMissingError -> 400 with one FieldError.
//   - *model.DefinitionError -> generic 500; the cause stays reachable through
//     errors.Unwrap for logging.
//   - nil -> nil.
//
// Any other error is returned as a generic 500 as well.
func FromModelError(err error) *HTTPError {
	if err == nil {
		return nil
	}

	var missing *model.RequiredFieldMissingError
	if errors.As(err, &missing) {
		code := CodeRequiredFieldMissing
		httpErr := NewBadRequestError(missing.Error(), false, &code, []FieldError{{
			Field: missing.Field,
			Error: "is required",
		}})
		httpErr.cause = err
		return httpErr
	}

	httpErr := NewInternalServerError()
	httpErr.cause = err
	return httpErr
}
