// Package model checks deserialized request models for missing mandatory fields.
//
// A model describes itself through a *Type: an ordered table of field descriptors
// (name, required flag, optional JSON name, accessor) plus a link to the ancestor
// model it extends. Tables are built once, either by hand with the typed field
// constructors below or from struct tags with Describe.
//
// Validation walks the table of the model and of every ancestor, stops at the first
// required field that is absent, and recurses into nested models and sequences of
// models. The walk only reads; a model is never modified.
package model

import (
	"github.com/pkg/errors"
)

// Model is implemented by every validatable request payload.
//
// ModelType must return the same descriptor for every instance of a concrete type.
type Model interface {
	ModelType() *Type
}

// Type is the field-descriptor table of one model type.
//
// Parent links to the ancestor model whose fields are inherited. A nil Parent
// means the ancestor is the shared base, which declares no data fields.
type Type struct {
	Name   string
	Parent *Type
	Fields []Field
}

// NewType builds a descriptor table. Fields keep the order they are passed in.
func NewType(name string, parent *Type, fields ...Field) *Type {
	return &Type{
		Name:   name,
		Parent: parent,
		Fields: fields,
	}
}

// Meta is the per-field metadata consulted by the validator.
type Meta struct {
	// Required marks the field as mandatory. Fields are optional by default.
	Required bool

	// ExternalName is the wire name of the field, used only when it is not blank.
	ExternalName string
}

// Accessor reads the current value of a field from a model instance.
//
// An error means the field cannot be read at all, which is a defect in the model
// definition rather than in the input.
type Accessor func(Model) (Value, error)

// Field describes one field declared directly on a model type.
type Field struct {
	Name string
	Meta Meta
	Get  Accessor
}

// FieldOption tweaks the metadata of a field at definition time.
type FieldOption func(*Meta)

// Required marks a field as mandatory.
func Required() FieldOption {
	return func(m *Meta) {
		m.Required = true
	}
}

// JSONName sets the wire name reported for the field.
func JSONName(name string) FieldOption {
	return func(m *Meta) {
		m.ExternalName = name
	}
}

// NewField builds a field from a raw accessor.
func NewField(name string, get Accessor, opts ...FieldOption) Field {
	f := Field{Name: name, Get: get}
	for _, opt := range opts {
		opt(&f.Meta)
	}
	return f
}

// ScalarField declares a scalar field held behind a pointer; nil reads as absent.
//
// T is the type the accessor needs: the concrete model pointer, or an interface
// that descendants satisfy through embedding when the field is declared on an
// ancestor.
func ScalarField[T any, V any](name string, get func(T) *V, opts ...FieldOption) Field {
	return NewField(name, func(m Model) (Value, error) {
		t, err := as[T](m, name)
		if err != nil {
			return Value{}, err
		}
		return Ptr(get(t)), nil
	}, opts...)
}

// PlainField declares a non-nullable scalar field. It is always present, so
// marking it Required is a definition error reported when the field is read.
func PlainField[T any, V any](name string, get func(T) V, opts ...FieldOption) Field {
	f := NewField(name, func(m Model) (Value, error) {
		t, err := as[T](m, name)
		if err != nil {
			return Value{}, err
		}
		return Scalar(get(t)), nil
	}, opts...)
	if f.Meta.Required {
		f.Get = func(Model) (Value, error) {
			return Value{}, errors.New("required plain field is never absent, use ScalarField")
		}
	}
	return f
}

// MapField declares a map field; a nil map reads as absent.
func MapField[T any, K comparable, V any](name string, get func(T) map[K]V, opts ...FieldOption) Field {
	return NewField(name, func(m Model) (Value, error) {
		t, err := as[T](m, name)
		if err != nil {
			return Value{}, err
		}
		mv := get(t)
		if mv == nil {
			return Absent(), nil
		}
		return Scalar(mv), nil
	}, opts...)
}

// SliceField declares a sequence of scalars; a nil slice reads as absent.
func SliceField[T any, V any](name string, get func(T) []V, opts ...FieldOption) Field {
	return NewField(name, func(m Model) (Value, error) {
		t, err := as[T](m, name)
		if err != nil {
			return Value{}, err
		}
		return SliceOf(get(t)), nil
	}, opts...)
}

// ModelField declares a nested model held behind a pointer; nil reads as absent.
func ModelField[T any, N any, PN interface {
	*N
	Model
}](name string, get func(T) PN, opts ...FieldOption) Field {
	return NewField(name, func(m Model) (Value, error) {
		t, err := as[T](m, name)
		if err != nil {
			return Value{}, err
		}
		return RefPtr(get(t)), nil
	}, opts...)
}

// ModelSliceField declares a sequence of nested models; a nil slice reads as absent.
func ModelSliceField[T any, N any, PN interface {
	*N
	Model
}](name string, get func(T) []PN, opts ...FieldOption) Field {
	return NewField(name, func(m Model) (Value, error) {
		t, err := as[T](m, name)
		if err != nil {
			return Value{}, err
		}
		return RefSlice(get(t)), nil
	}, opts...)
}

func as[T any](m Model, field string) (T, error) {
	t, ok := m.(T)
	if !ok {
		var zero T
		return zero, errors.Errorf("field %q is not readable from %T", field, m)
	}
	return t, nil
}
