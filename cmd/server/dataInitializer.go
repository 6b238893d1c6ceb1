package main

import (
	"context"

	"jan-server/services/thread-api/internal/config"
	"jan-server/services/thread-api/internal/domain/share"
	"jan-server/services/thread-api/internal/infrastructure/logger"
)

// DataInitializer runs one-time startup work before the server accepts traffic.
type DataInitializer struct {
	allowlist    *config.ModelAllowlist
	shareService *share.ShareService
}

func (d *DataInitializer) Install(ctx context.Context) error {
	log := logger.GetLogger()

	if entries := d.allowlist.Entries(); len(entries) > 0 {
		log.Info().Int("models", len(entries)).Msg("model allowlist loaded")
	} else {
		log.Info().Msg("no model allowlist configured, all upstream models allowed")
	}

	// Share links normally disappear with their thread; clean up any left
	// behind by out-of-band deletes before serving public reads.
	purged, err := d.shareService.PurgeDangling(ctx)
	if err != nil {
		return err
	}
	if purged > 0 {
		log.Info().Int64("purged", purged).Msg("removed dangling share links")
	}
	return nil
}
