package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/deppfellow/go-modelguard/internal/api"
	"github.com/deppfellow/go-modelguard/internal/errs"
	"github.com/deppfellow/go-modelguard/internal/server"
)

var codeModelNotFound = "MODEL_NOT_FOUND"

// ModelsHandler exposes the field tables of the registered request models.
type ModelsHandler struct {
	Handler
}

func NewModelsHandler(s *server.Server) *ModelsHandler {
	return &ModelsHandler{Handler: NewHandler(s)}
}

func (h *ModelsHandler) List(c echo.Context) ([]api.ModelInfo, error) {
	return api.Catalog(), nil
}

func (h *ModelsHandler) Describe(c echo.Context) (*api.ModelInfo, error) {
	name := c.Param("name")
	info, ok := api.Info(name)
	if !ok {
		return nil, errs.NewNotFoundError("no model named "+name, false, &codeModelNotFound)
	}
	return &info, nil
}
