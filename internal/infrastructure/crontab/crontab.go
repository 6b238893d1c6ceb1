package crontab

import (
	"context"
	"fmt"
	"time"

	"jan-server/services/thread-api/internal/config"
	"jan-server/services/thread-api/internal/domain/generation"
	"jan-server/services/thread-api/internal/domain/share"
	"jan-server/services/thread-api/internal/infrastructure/logger"
	"jan-server/services/thread-api/internal/utils/platformerrors"

	"github.com/mileusna/crontab"
)

const (
	DefaultSweepInterval = 5                // in minutes
	CronJobTimeout       = 10 * time.Minute // Timeout for each cron job execution
)

type Crontab struct {
	ctab              *crontab.Crontab
	generationService *generation.GenerationService
	shareService      *share.ShareService
}

func NewCrontab(
	generationService *generation.GenerationService,
	shareService *share.ShareService,
) *Crontab {
	return &Crontab{
		ctab:              crontab.New(),
		generationService: generationService,
		shareService:      shareService,
	}
}

func (c *Crontab) Run(ctx context.Context) error {
	log := logger.GetLogger()

	cfg := config.GetGlobal()
	sweepInterval := DefaultSweepInterval
	if cfg != nil && cfg.StaleSweepIntervalMins > 0 {
		sweepInterval = cfg.StaleSweepIntervalMins
	}

	cronExpr := fmt.Sprintf("*/%d * * * *", sweepInterval)
	if err := c.ctab.AddJob(cronExpr, func() {
		jobCtx, cancel := context.WithTimeout(context.Background(), CronJobTimeout)
		defer cancel()
		c.sweepStaleGenerations(jobCtx)
		c.purgeDanglingShares(jobCtx)
	}); err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerInfrastructure, err, "failed to add maintenance job")
	}
	log.Warn().Msgf("Maintenance sweep scheduled: every %d minute(s)", sweepInterval)

	// Schedule environment reload job
	if err := c.ctab.AddJob("* * * * *", func() {
		// Reload config
		config.Load()
	}); err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerInfrastructure, err, "failed to add env reload job")
	}

	<-ctx.Done()
	c.ctab.Shutdown()
	return nil
}

func (c *Crontab) sweepStaleGenerations(ctx context.Context) {
	maxAge := time.Duration(0)
	if cfg := config.GetGlobal(); cfg != nil {
		maxAge = cfg.StaleGenerationMaxAge
	}
	if maxAge <= 0 {
		maxAge = 10 * time.Minute
	}

	if swept := c.generationService.SweepStale(ctx, maxAge); swept > 0 {
		log := logger.GetLogger()
		log.Info().Int("count", swept).Msg("swept stale generation runs")
	}
}

func (c *Crontab) purgeDanglingShares(ctx context.Context) {
	log := logger.GetLogger()
	purged, err := c.shareService.PurgeDangling(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to purge dangling share links")
		return
	}
	if purged > 0 {
		log.Info().Int64("count", purged).Msg("purged dangling share links")
	}
}
