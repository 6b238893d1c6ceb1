package inference

import (
	"context"

	"jan-server/services/thread-api/internal/config"
	"jan-server/services/thread-api/internal/infrastructure/logger"
	"jan-server/services/thread-api/internal/utils/httpclients/chat"
)

// CatalogModel is one model a client may request generations with.
type CatalogModel struct {
	ID          string
	DisplayName string
	OwnedBy     string
	Created     int
}

// ModelCatalog combines the upstream model listing with the configured
// allowlist. The allowlist gates what generation accepts; the upstream
// listing enriches what we report back to clients.
type ModelCatalog struct {
	allowlist *config.ModelAllowlist
	client    *chat.ChatModelClient
}

func NewModelCatalog(allowlist *config.ModelAllowlist, client *chat.ChatModelClient) *ModelCatalog {
	return &ModelCatalog{
		allowlist: allowlist,
		client:    client,
	}
}

// IsAllowed reports whether generation may use the model.
func (c *ModelCatalog) IsAllowed(model string) bool {
	return c.allowlist.IsAllowed(model)
}

// ListModels returns the upstream models filtered by the allowlist. When
// the upstream is unreachable the configured allowlist entries are served
// instead, so clients can still pick a model while the upstream recovers.
func (c *ModelCatalog) ListModels(ctx context.Context) ([]CatalogModel, error) {
	resp, err := c.client.ListModels(ctx)
	if err != nil {
		entries := c.allowlist.Entries()
		if len(entries) == 0 {
			return nil, err
		}
		log := logger.GetLogger()
		log.Warn().Err(err).Msg("upstream model listing failed, serving allowlist entries")
		models := make([]CatalogModel, 0, len(entries))
		for _, entry := range entries {
			models = append(models, CatalogModel{ID: entry.ID, DisplayName: entry.DisplayName})
		}
		return models, nil
	}

	models := make([]CatalogModel, 0, len(resp.Data))
	for _, model := range resp.Data {
		if !c.allowlist.IsAllowed(model.ID) {
			continue
		}
		models = append(models, CatalogModel{
			ID:          model.ID,
			DisplayName: model.DisplayName,
			OwnedBy:     model.OwnedBy,
			Created:     model.Created,
		})
	}
	return models, nil
}
