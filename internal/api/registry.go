package api

import (
	"maps"
	"slices"

	"github.com/deppfellow/go-modelguard/internal/model"
)

// Factory returns a fresh, empty model ready to be decoded into.
type Factory func() model.Model

var registry = map[string]Factory{
	"login":        func() model.Model { return &LoginRequest{} },
	"user":         func() model.Model { return &UserModel{} },
	"session":      func() model.Model { return &Session{} },
	"element":      func() model.Model { return &ElementRef{} },
	"send-keys":    func() model.Model { return &SendKeysRequest{} },
	"actions":      func() model.Model { return &ActionsRequest{} },
	"input-source": func() model.Model { return &InputSource{} },
}

// Lookup returns the factory registered under name.
func Lookup(name string) (Factory, bool) {
	f, ok := registry[name]
	return f, ok
}

// Names lists the registered model names in sorted order.
func Names() []string {
	return slices.Sorted(maps.Keys(registry))
}

// FieldInfo describes one entry of a model's field table.
type FieldInfo struct {
	Name       string `json:"name"`
	WireName   string `json:"wireName"`
	Required   bool   `json:"required"`
	DeclaredBy string `json:"declaredBy"`
}

// ModelInfo is the field table of a registered model, ancestors included.
type ModelInfo struct {
	Name   string      `json:"name"`
	Type   string      `json:"type"`
	Parent string      `json:"parent,omitempty"`
	Fields []FieldInfo `json:"fields"`
}

// Info returns the field table of the model registered under name.
func Info(name string) (ModelInfo, bool) {
	f, ok := registry[name]
	if !ok {
		return ModelInfo{}, false
	}

	t := f().ModelType()
	info := ModelInfo{Name: name, Type: t.Name, Fields: []FieldInfo{}}
	if t.Parent != nil {
		info.Parent = t.Parent.Name
	}

	for _, df := range model.Fields(t) {
		info.Fields = append(info.Fields, FieldInfo{
			Name:       df.Name,
			WireName:   model.ResolveName(df.Field),
			Required:   model.IsRequired(df.Field),
			DeclaredBy: df.Owner.Name,
		})
	}
	return info, true
}

// Catalog returns Info for every registered model, sorted by name.
func Catalog() []ModelInfo {
	names := Names()
	out := make([]ModelInfo, 0, len(names))
	for _, name := range names {
		info, _ := Info(name)
		out = append(out, info)
	}
	return out
}
