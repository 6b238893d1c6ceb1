package modelhandler

import (
	"context"

	"jan-server/services/thread-api/internal/infrastructure/inference"
	modelresponses "jan-server/services/thread-api/internal/interfaces/httpserver/responses/modelres"
	"jan-server/services/thread-api/internal/utils/platformerrors"
)

// ModelHandler exposes the models generation may use.
type ModelHandler struct {
	catalog *inference.ModelCatalog
}

// NewModelHandler creates a new model handler
func NewModelHandler(catalog *inference.ModelCatalog) *ModelHandler {
	return &ModelHandler{catalog: catalog}
}

// ListModels returns the allowed models for generation requests
func (h *ModelHandler) ListModels(ctx context.Context) (*modelresponses.ModelListResponse, error) {
	models, err := h.catalog.ListModels(ctx)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerHandler, err, "failed to list models")
	}
	return modelresponses.NewModelListResponse(models), nil
}
