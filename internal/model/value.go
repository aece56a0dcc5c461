package model

// Kind tags the variant held by a Value.
type Kind uint8

const (
	KindAbsent Kind = iota
	KindScalar
	KindModel
	KindSequence
)

func (k Kind) String() string {
	switch k {
	case KindAbsent:
		return "absent"
	case KindScalar:
		return "scalar"
	case KindModel:
		return "model"
	case KindSequence:
		return "sequence"
	default:
		return "unknown"
	}
}

// Value is the current content of a field: absent, a scalar, a nested model or a
// sequence of values. The zero Value is absent.
type Value struct {
	kind   Kind
	scalar any
	model  Model
	items  []Value
}

// Absent is the value of an unset field.
func Absent() Value {
	return Value{}
}

// Scalar wraps a plain value. A nil interface is absent.
func Scalar(v any) Value {
	if v == nil {
		return Absent()
	}
	return Value{kind: KindScalar, scalar: v}
}

// Ref wraps a nested model. A nil model, typed nil pointers included, is absent.
func Ref(m Model) Value {
	if isNilModel(m) {
		return Absent()
	}
	return Value{kind: KindModel, model: m}
}

// Seq wraps a sequence. An empty sequence is present.
func Seq(items ...Value) Value {
	if items == nil {
		items = []Value{}
	}
	return Value{kind: KindSequence, items: items}
}

// Ptr dereferences a scalar pointer; nil is absent.
func Ptr[T any](p *T) Value {
	if p == nil {
		return Absent()
	}
	return Scalar(*p)
}

// RefPtr wraps a model pointer; nil is absent.
func RefPtr[T any, PT interface {
	*T
	Model
}](p PT) Value {
	if p == nil {
		return Absent()
	}
	return Ref(p)
}

// SliceOf wraps a slice of scalars; nil is absent.
func SliceOf[T any](s []T) Value {
	if s == nil {
		return Absent()
	}
	items := make([]Value, len(s))
	for i, v := range s {
		items[i] = Scalar(v)
	}
	return Seq(items...)
}

// RefSlice wraps a slice of model pointers; nil is absent and so are nil elements.
func RefSlice[T any, PT interface {
	*T
	Model
}](s []PT) Value {
	if s == nil {
		return Absent()
	}
	items := make([]Value, len(s))
	for i, p := range s {
		items[i] = RefPtr(p)
	}
	return Seq(items...)
}

func (v Value) Kind() Kind {
	return v.kind
}

func (v Value) IsAbsent() bool {
	return v.kind == KindAbsent
}

// Model returns the nested model when the value holds one.
func (v Value) Model() (Model, bool) {
	return v.model, v.kind == KindModel
}

// Items returns the elements of a sequence, nil for other kinds.
func (v Value) Items() []Value {
	return v.items
}

// Interface returns the wrapped scalar, model or element slice.
func (v Value) Interface() any {
	switch v.kind {
	case KindScalar:
		return v.scalar
	case KindModel:
		return v.model
	case KindSequence:
		return v.items
	default:
		return nil
	}
}
