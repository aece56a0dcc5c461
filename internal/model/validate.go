package model

import (
	"fmt"
	"reflect"

	"github.com/pkg/errors"
)

// DefaultMaxDepth bounds how deep nested models may go before the walk gives up.
const DefaultMaxDepth = 64

// Validator walks model graphs. It holds no per-call state and is safe for
// concurrent use.
type Validator struct {
	detectCycles bool
	maxDepth     int
}

// Option configures a Validator.
type Option func(*Validator)

// WithCycleDetection toggles tracking of the models on the current descent path.
// When on, a pointer model that is already being validated further up the path is
// skipped instead of being entered again.
func WithCycleDetection(enabled bool) Option {
	return func(v *Validator) {
		v.detectCycles = enabled
	}
}

// WithMaxDepth sets the nesting limit. Values below 1 restore DefaultMaxDepth.
func WithMaxDepth(depth int) Option {
	return func(v *Validator) {
		if depth < 1 {
			depth = DefaultMaxDepth
		}
		v.maxDepth = depth
	}
}

// NewValidator returns a Validator with cycle detection on and DefaultMaxDepth.
func NewValidator(opts ...Option) *Validator {
	v := &Validator{
		detectCycles: true,
		maxDepth:     DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

var defaultValidator = NewValidator()

// Validate checks m with the default validator and returns it unchanged on success,
// so calls can be chained:
//
//	req, err := model.Validate(&LoginRequest{...})
func Validate[M Model](m M) (M, error) {
	return ValidateWith(defaultValidator, m)
}

// ValidateWith is Validate with an explicit validator.
func ValidateWith[M Model](v *Validator, m M) (M, error) {
	if err := v.Check(m); err != nil {
		var zero M
		return zero, err
	}
	return m, nil
}

// Check walks m and returns the first violation found, or nil.
//
// The returned error is either a *RequiredFieldMissingError or a *DefinitionError,
// exactly as produced at the level where it happened.
func (v *Validator) Check(m Model) error {
	if isNilModel(m) {
		return newDefinitionError("", "", errors.New("nil model"))
	}
	w := walker{maxDepth: v.maxDepth}
	if v.detectCycles {
		w.path = make(map[identity]struct{})
	}
	return w.visit(m, 0)
}

type identity struct {
	typ reflect.Type
	ptr uintptr
}

type walker struct {
	maxDepth int
	path     map[identity]struct{}
}

func (w *walker) visit(m Model, depth int) error {
	t := m.ModelType()
	if t == nil {
		return newDefinitionError(fmt.Sprintf("%T", m), "", errors.New("model has no type descriptor"))
	}
	if depth > w.maxDepth {
		return newDefinitionError(t.Name, "", errors.Errorf("models nested deeper than %d levels", w.maxDepth))
	}

	if w.path != nil {
		if id, ok := identityOf(m); ok {
			if _, active := w.path[id]; active {
				return nil
			}
			w.path[id] = struct{}{}
			defer delete(w.path, id)
		}
	}

	for _, f := range Fields(t) {
		name := ResolveName(f.Field)
		if f.Get == nil {
			return newDefinitionError(f.Owner.Name, name, errors.New("field has no accessor"))
		}

		val, err := f.Get(m)
		if err != nil {
			return newDefinitionError(f.Owner.Name, name, err)
		}

		switch val.Kind() {
		case KindAbsent:
			if IsRequired(f.Field) {
				return &RequiredFieldMissingError{
					Model:    f.Owner.Name,
					Instance: t.Name,
					Field:    name,
				}
			}
		case KindModel:
			if err := w.visit(val.model, depth+1); err != nil {
				return err
			}
		case KindSequence:
			for _, item := range val.items {
				if item.kind != KindModel {
					continue
				}
				if err := w.visit(item.model, depth+1); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// identityOf keys pointer models by address. Value models have no identity and
// are bounded by maxDepth only.
func identityOf(m Model) (identity, bool) {
	rv := reflect.ValueOf(m)
	if rv.Kind() != reflect.Pointer {
		return identity{}, false
	}
	return identity{typ: rv.Type(), ptr: rv.Pointer()}, true
}

func isNilModel(m Model) bool {
	if m == nil {
		return true
	}
	rv := reflect.ValueOf(m)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}
