package api

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var rules = newRules()

func newRules() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks the value rules of every input source once presence has been
// established.
func (r *ActionsRequest) Validate() error {
	return rules.Struct(r)
}
