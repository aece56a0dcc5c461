package model

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrRequiredFieldMissing matches every *RequiredFieldMissingError via errors.Is.
	ErrRequiredFieldMissing = errors.New("required field is not present")

	// ErrModelDefinition matches every *DefinitionError via errors.Is.
	ErrModelDefinition = errors.New("invalid model definition")
)

// RequiredFieldMissingError reports a required field that was absent from the input.
// It is the only error kind that means the input itself is invalid.
type RequiredFieldMissingError struct {
	// Model is the simple name of the type that declares the field.
	Model string

	// Instance is the simple name of the model that was being validated. It differs
	// from Model when the field is inherited.
	Instance string

	// Field is the wire name of the field.
	Field string
}

func (e *RequiredFieldMissingError) Error() string {
	return fmt.Sprintf("%s: The mandatory field '%s' is not present in JSON", e.Model, e.Field)
}

func (e *RequiredFieldMissingError) Is(target error) bool {
	return target == ErrRequiredFieldMissing
}

// DefinitionError reports a broken model definition: a nil model, a type without a
// descriptor, a field whose accessor cannot read the instance, or an invalid tag.
// It signals a programming defect and must not be reported as bad input.
type DefinitionError struct {
	Model string
	Field string
	Err   error
}

type stackTracer interface {
	StackTrace() errors.StackTrace
}

func newDefinitionError(model, field string, err error) *DefinitionError {
	if _, ok := err.(stackTracer); !ok {
		err = errors.WithStack(err)
	}
	return &DefinitionError{Model: model, Field: field, Err: err}
}

func (e *DefinitionError) Error() string {
	switch {
	case e.Model != "" && e.Field != "":
		return fmt.Sprintf("%s.%s: %s: %v", e.Model, e.Field, ErrModelDefinition, e.Err)
	case e.Model != "":
		return fmt.Sprintf("%s: %s: %v", e.Model, ErrModelDefinition, e.Err)
	default:
		return fmt.Sprintf("%s: %v", ErrModelDefinition, e.Err)
	}
}

func (e *DefinitionError) Unwrap() error {
	return e.Err
}

func (e *DefinitionError) Is(target error) bool {
	return target == ErrModelDefinition
}

// StackTrace exposes the stack captured with the cause, for APM error reporting.
func (e *DefinitionError) StackTrace() errors.StackTrace {
	if st, ok := e.Err.(stackTracer); ok {
		return st.StackTrace()
	}
	return nil
}

// IsRequiredFieldMissing reports whether err carries a *RequiredFieldMissingError.
func IsRequiredFieldMissing(err error) bool {
	var target *RequiredFieldMissingError
	return errors.As(err, &target)
}

// IsDefinitionError reports whether err carries a *DefinitionError.
func IsDefinitionError(err error) bool {
	var target *DefinitionError
	return errors.As(err, &target)
}
