package model

import (
	"reflect"
	"strings"

	"github.com/pkg/errors"
)

// Base marks the root of a model hierarchy. Embedding it contributes no fields.
type Base struct{}

const tagName = "model"

var (
	baseType   = reflect.TypeFor[Base]()
	modelIface = reflect.TypeFor[Model]()
)

// Describe builds the descriptor table of struct T from its tags, once, at
// registration time.
//
//   - Exported fields are listed in declaration order.
//   - `json:"name"` sets the wire name; fields tagged `json:"-"` are skipped.
//   - `model:"required"` marks a field as mandatory. Only nullable kinds
//     (pointer, interface, map, slice) can be absent, so the tag on any other
//     kind is a definition error.
//   - An embedded model struct is the ancestor; its descriptor must be passed as
//     parent. Embedded plain structs are flattened into T's own fields.
//
// Typical use:
//
//	var sendKeysType = model.MustDescribe[SendKeysRequest](elementRefType)
//
//	func (*SendKeysRequest) ModelType() *model.Type { return sendKeysType }
func Describe[T any](parent *Type) (*Type, error) {
	st := reflect.TypeFor[T]()
	if st.Kind() == reflect.Pointer {
		st = st.Elem()
	}
	if st.Kind() != reflect.Struct {
		return nil, newDefinitionError(st.String(), "", errors.Errorf("%s is not a struct", st))
	}

	b := builder{owner: st}
	fields, ancestor, err := b.collect(st, nil)
	if err != nil {
		return nil, err
	}

	switch {
	case ancestor != nil && parent == nil:
		return nil, newDefinitionError(st.Name(), "", errors.Errorf("embeds model %s but no parent descriptor was given", ancestor.Name()))
	case ancestor == nil && parent != nil:
		return nil, newDefinitionError(st.Name(), "", errors.Errorf("parent %s given but no ancestor model is embedded", parent.Name))
	case ancestor != nil:
		declared := reflect.New(ancestor).Interface().(Model).ModelType()
		if declared != parent {
			return nil, newDefinitionError(st.Name(), "", errors.Errorf("parent descriptor %s does not belong to embedded %s", parent.Name, ancestor.Name()))
		}
	}

	return &Type{Name: st.Name(), Parent: parent, Fields: fields}, nil
}

// MustDescribe is Describe that panics on a broken definition. Meant for package
// level variables.
func MustDescribe[T any](parent *Type) *Type {
	t, err := Describe[T](parent)
	if err != nil {
		panic(err)
	}
	return t
}

type builder struct {
	owner reflect.Type
}

func (b *builder) collect(st reflect.Type, index []int) ([]Field, reflect.Type, error) {
	var (
		fields   []Field
		ancestor reflect.Type
	)

	for i := 0; i < st.NumField(); i++ {
		sf := st.Field(i)
		idx := append(append([]int(nil), index...), i)
		tag, tagged := sf.Tag.Lookup(tagName)

		if sf.Anonymous && !tagged {
			ft := sf.Type
			if ft == baseType {
				continue
			}
			if isModelStruct(ft) {
				switch {
				case ft.Kind() == reflect.Pointer:
					return nil, nil, newDefinitionError(b.owner.Name(), sf.Name, errors.New("ancestor model must be embedded by value"))
				case !sf.IsExported():
					return nil, nil, newDefinitionError(b.owner.Name(), sf.Name, errors.New("ancestor model must be an exported type"))
				case len(index) > 0:
					return nil, nil, newDefinitionError(b.owner.Name(), sf.Name, errors.New("ancestor model must be embedded directly"))
				case ancestor != nil:
					return nil, nil, newDefinitionError(b.owner.Name(), sf.Name, errors.Errorf("second ancestor model, %s is already embedded", ancestor.Name()))
				}
				ancestor = ft
				continue
			}
			if sf.IsExported() && derefType(ft).Kind() == reflect.Struct {
				nested, _, err := b.collect(derefType(ft), idx)
				if err != nil {
					return nil, nil, err
				}
				fields = append(fields, nested...)
				continue
			}
		}

		if !sf.IsExported() {
			if tagged {
				return nil, nil, newDefinitionError(b.owner.Name(), sf.Name, errors.New("unexported field cannot be read"))
			}
			continue
		}

		wire, _, _ := strings.Cut(sf.Tag.Get("json"), ",")
		if wire == "-" {
			continue
		}

		meta, err := parseTag(tag)
		if err != nil {
			return nil, nil, newDefinitionError(b.owner.Name(), sf.Name, err)
		}
		meta.ExternalName = wire
		if meta.Required && !nullable(sf.Type) {
			return nil, nil, newDefinitionError(b.owner.Name(), sf.Name, errors.Errorf("required field of kind %s is never absent, use a pointer", sf.Type.Kind()))
		}

		fields = append(fields, Field{
			Name: sf.Name,
			Meta: meta,
			Get:  fieldAccessor(b.owner, idx),
		})
	}

	return fields, ancestor, nil
}

func parseTag(tag string) (Meta, error) {
	var meta Meta
	for _, opt := range strings.Split(tag, ",") {
		switch strings.TrimSpace(opt) {
		case "", "optional":
		case "required":
			meta.Required = true
		default:
			return meta, errors.Errorf("unknown %s tag option %q", tagName, opt)
		}
	}
	return meta, nil
}

// fieldAccessor reads a field by index from the owner struct, which is either the
// instance itself or an ancestor embedded in it.
func fieldAccessor(owner reflect.Type, index []int) Accessor {
	return func(m Model) (Value, error) {
		rv := reflect.ValueOf(m)
		if rv.Kind() == reflect.Pointer {
			rv = rv.Elem()
		} else {
			cp := reflect.New(rv.Type()).Elem()
			cp.Set(rv)
			rv = cp
		}

		base, ok := findEmbedded(rv, owner)
		if !ok {
			return Value{}, errors.Errorf("%T does not contain %s", m, owner.Name())
		}

		fv, err := base.FieldByIndexErr(index)
		if err != nil {
			// nil embedded pointer on the path
			return Absent(), nil
		}
		return valueOf(fv)
	}
}

func findEmbedded(rv reflect.Value, owner reflect.Type) (reflect.Value, bool) {
	if rv.Type() == owner {
		return rv, true
	}
	if rv.Kind() != reflect.Struct {
		return reflect.Value{}, false
	}
	st := rv.Type()
	for i := 0; i < st.NumField(); i++ {
		sf := st.Field(i)
		if !sf.Anonymous || sf.Type.Kind() != reflect.Struct {
			continue
		}
		if found, ok := findEmbedded(rv.Field(i), owner); ok {
			return found, true
		}
	}
	return reflect.Value{}, false
}

func valueOf(rv reflect.Value) (Value, error) {
	switch rv.Kind() {
	case reflect.Invalid:
		return Absent(), nil
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		if rv.IsNil() {
			return Absent(), nil
		}
	}

	if !rv.CanInterface() {
		return Value{}, errors.Errorf("value of type %s is not readable", rv.Type())
	}
	if m, ok := modelOf(rv); ok {
		return Ref(m), nil
	}

	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		return valueOf(rv.Elem())
	case reflect.Slice, reflect.Array:
		items := make([]Value, rv.Len())
		for i := range items {
			item, err := valueOf(rv.Index(i))
			if err != nil {
				return Value{}, err
			}
			items[i] = item
		}
		return Seq(items...), nil
	}
	return Scalar(rv.Interface()), nil
}

func modelOf(rv reflect.Value) (Model, bool) {
	if rv.Type().Implements(modelIface) {
		m, ok := rv.Interface().(Model)
		return m, ok
	}
	if rv.CanAddr() && reflect.PointerTo(rv.Type()).Implements(modelIface) {
		return rv.Addr().Interface().(Model), true
	}
	return nil, false
}

func isModelStruct(t reflect.Type) bool {
	st := derefType(t)
	if st.Kind() != reflect.Struct || st == baseType {
		return false
	}
	return st.Implements(modelIface) || reflect.PointerTo(st).Implements(modelIface)
}

func nullable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice:
		return true
	}
	return false
}

func derefType(t reflect.Type) reflect.Type {
	if t.Kind() == reflect.Pointer {
		return t.Elem()
	}
	return t
}
