package domain

import (
	"github.com/google/wire"

	"jan-server/services/thread-api/internal/config"
	"jan-server/services/thread-api/internal/domain/generation"
	"jan-server/services/thread-api/internal/domain/share"
	"jan-server/services/thread-api/internal/domain/thread"
)

// ServiceProvider provides all domain services
var ServiceProvider = wire.NewSet(
	// Thread domain
	thread.NewThreadService,
	thread.NewMessageService,

	// Sharing
	share.NewShareService,

	// Generation
	generation.NewRegistry,
	ProvideGenerationService,
)

func ProvideGenerationService(
	registry *generation.Registry,
	threads thread.ThreadRepository,
	messages thread.MessageRepository,
	client generation.ModelClient,
	usage generation.UsageRecorder,
	cfg *config.Config,
) *generation.GenerationService {
	return generation.
		NewGenerationService(registry, threads, messages, client, cfg.DefaultModel).
		WithUsageRecorder(usage).
		WithRunTimeout(cfg.GenerationRunTimeout)
}
