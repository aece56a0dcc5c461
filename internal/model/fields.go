package model

import "strings"

// DeclaredField is a field together with the type that declares it.
type DeclaredField struct {
	Field
	Owner *Type
}

// Fields lists the fields of t and of all its ancestors.
//
// Order: declaration order within a type, most-derived type first, then each
// ancestor up to the base. The order decides which violation is reported first,
// so it never depends on instance data.
func Fields(t *Type) []DeclaredField {
	var out []DeclaredField
	for cur := t; cur != nil; cur = cur.Parent {
		for _, f := range cur.Fields {
			out = append(out, DeclaredField{Field: f, Owner: cur})
		}
	}
	return out
}

// ResolveName returns the wire name of a field: the JSON name override when it is
// not blank, the field name otherwise.
func ResolveName(f Field) string {
	if strings.TrimSpace(f.Meta.ExternalName) != "" {
		return f.Meta.ExternalName
	}
	return f.Name
}

// IsRequired reports whether the field carries the required marker.
func IsRequired(f Field) bool {
	return f.Meta.Required
}
