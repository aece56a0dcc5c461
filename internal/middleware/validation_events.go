package middleware

import (
	"github.com/pkg/errors"

	"github.com/deppfellow/go-modelguard/internal/model"
	"github.com/deppfellow/go-modelguard/internal/server"
)

// ValidationEvents records model validation failures as New Relic custom events.
type ValidationEvents struct {
	server *server.Server
}

func NewValidationEvents(s *server.Server) *ValidationEvents {
	return &ValidationEvents{server: s}
}

// Record sends a "ModelValidationFailed" event when err comes from the model
// validator. It is a no-op without New Relic.
func (v *ValidationEvents) Record(endpoint string, err error) {
	app := v.server.LoggerService.GetApplication()
	if app == nil {
		return
	}

	var missing *model.RequiredFieldMissingError
	var definition *model.DefinitionError

	switch {
	case errors.As(err, &missing):
		app.RecordCustomEvent("ModelValidationFailed", map[string]any{
			"endpoint": endpoint,
			"kind":     "required_field_missing",
			"model":    missing.Model,
			"field":    missing.Field,
		})
	case errors.As(err, &definition):
		app.RecordCustomEvent("ModelValidationFailed", map[string]any{
			"endpoint": endpoint,
			"kind":     "model_definition",
			"model":    definition.Model,
			"field":    definition.Field,
		})
	}
}
