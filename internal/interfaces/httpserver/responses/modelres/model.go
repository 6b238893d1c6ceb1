package modelresponses

import (
	"jan-server/services/thread-api/internal/infrastructure/inference"
	"jan-server/services/thread-api/internal/utils/functional"
)

// ModelResponse is one model available for generation.
type ModelResponse struct {
	ID          string `json:"id"`
	Object      string `json:"object"`
	Created     int    `json:"created,omitempty"`
	OwnedBy     string `json:"owned_by,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
}

// ModelListResponse lists the models generation requests may use.
type ModelListResponse struct {
	Object string          `json:"object"`
	Data   []ModelResponse `json:"data"`
}

func NewModelResponse(m inference.CatalogModel) ModelResponse {
	return ModelResponse{
		ID:          m.ID,
		Object:      "model",
		Created:     m.Created,
		OwnedBy:     m.OwnedBy,
		DisplayName: m.DisplayName,
	}
}

func NewModelListResponse(models []inference.CatalogModel) *ModelListResponse {
	return &ModelListResponse{
		Object: "list",
		Data:   functional.Map(models, NewModelResponse),
	}
}
