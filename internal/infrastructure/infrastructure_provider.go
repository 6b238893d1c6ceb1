package infrastructure

import (
	"context"

	"github.com/google/wire"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"jan-server/services/thread-api/internal/config"
	"jan-server/services/thread-api/internal/domain/generation"
	"jan-server/services/thread-api/internal/domain/thread"
	"jan-server/services/thread-api/internal/infrastructure/audit"
	"jan-server/services/thread-api/internal/infrastructure/auth"
	"jan-server/services/thread-api/internal/infrastructure/crontab"
	"jan-server/services/thread-api/internal/infrastructure/database"
	"jan-server/services/thread-api/internal/infrastructure/database/repository"
	"jan-server/services/thread-api/internal/infrastructure/database/transaction"
	"jan-server/services/thread-api/internal/infrastructure/inference"
	"jan-server/services/thread-api/internal/infrastructure/logger"
	"jan-server/services/thread-api/internal/utils/httpclients"
	"jan-server/services/thread-api/internal/utils/httpclients/chat"
)

// ProvideConfig loads and provides the application configuration
func ProvideConfig() (*config.Config, error) {
	return config.Load()
}

// ProvideKeycloakValidator provides a JWT validator
func ProvideKeycloakValidator(cfg *config.Config, log zerolog.Logger) (*auth.KeycloakValidator, error) {
	ctx := context.Background()
	jwksURL, err := cfg.ResolveJWKSURL(ctx)
	if err != nil {
		return nil, err
	}
	return auth.NewKeycloakValidator(
		ctx,
		jwksURL,
		cfg.Issuer,
		cfg.Audience,
		cfg.AuthorizedParty,
		cfg.RefreshJWKSInterval,
		cfg.AuthClockSkew,
		log,
	)
}

// ProvideDatabase provides a database connection
func ProvideDatabase(cfg *config.Config, log zerolog.Logger) (*gorm.DB, error) {
	db, err := database.NewDB(cfg.DatabaseURL, cfg.DatabaseReplicaURL)
	if err != nil {
		return nil, err
	}

	// Run migrations if AUTO_MIGRATE is enabled
	if cfg.AutoMigrate {
		log.Info().Msg("Running database migrations...")
		if err := database.AutoMigrate(db); err != nil {
			log.Error().Err(err).Msg("Failed to run database migrations")
			return nil, err
		}
		log.Info().Msg("Database migrations completed successfully")
	}

	return db, nil
}

// ProvideTransactionDatabase provides a transaction database wrapper
func ProvideTransactionDatabase(db *gorm.DB) *transaction.Database {
	return transaction.NewDatabase(db)
}

// ProvideModelAllowlist loads the optional model allowlist file.
func ProvideModelAllowlist(cfg *config.Config) (*config.ModelAllowlist, error) {
	return config.LoadModelAllowlist(cfg.ModelAllowlistFile)
}

// ProvideChatCompletionClient wires the streaming upstream client.
func ProvideChatCompletionClient(cfg *config.Config) *chat.ChatCompletionClient {
	return chat.NewChatCompletionClient(httpclients.NewClient("inference"), "inference", cfg.InferenceBaseURL)
}

// ProvideChatModelClient wires the upstream model listing client.
func ProvideChatModelClient(cfg *config.Config) *chat.ChatModelClient {
	return chat.NewChatModelClient(httpclients.NewClient("inference-models"), "inference-models", cfg.InferenceBaseURL)
}

// ProvideModelClient adapts the completion client to the generation
// stream contract.
func ProvideModelClient(client *chat.ChatCompletionClient, cfg *config.Config) generation.ModelClient {
	return inference.NewCompletionStreamer(client, cfg.InferenceAPIKey)
}

// ProvideTitleGenerator wires the upstream-backed title generator.
func ProvideTitleGenerator(cfg *config.Config) thread.TitleGenerator {
	return inference.NewOpenAITitleGenerator(cfg.InferenceBaseURL, cfg.InferenceAPIKey, cfg.TitleModel)
}

// ProvideUsageRecorder wires generation usage accounting.
func ProvideUsageRecorder(allowlist *config.ModelAllowlist) generation.UsageRecorder {
	return audit.NewUsageRecorder(allowlist)
}

// Infrastructure holds all infrastructure dependencies
type Infrastructure struct {
	DB                *gorm.DB
	KeycloakValidator *auth.KeycloakValidator
	Logger            zerolog.Logger
}

// NewInfrastructure creates a new infrastructure instance
func NewInfrastructure(
	db *gorm.DB,
	keycloakValidator *auth.KeycloakValidator,
	logger zerolog.Logger,
) *Infrastructure {
	return &Infrastructure{
		DB:                db,
		KeycloakValidator: keycloakValidator,
		Logger:            logger,
	}
}

// InfrastructureProvider provides all infrastructure dependencies
var InfrastructureProvider = wire.NewSet(
	// Config
	ProvideConfig,
	ProvideModelAllowlist,

	// Database
	ProvideDatabase,
	ProvideTransactionDatabase,

	// Repositories
	repository.RepositoryProvider,

	// Upstream inference clients
	ProvideChatCompletionClient,
	ProvideChatModelClient,
	ProvideModelClient,
	ProvideTitleGenerator,
	inference.NewModelCatalog,

	// Usage accounting
	ProvideUsageRecorder,

	// Logger
	logger.GetLogger,

	// Keycloak
	ProvideKeycloakValidator,

	// Crontab for maintenance sweeps
	crontab.NewCrontab,

	// Infrastructure struct
	NewInfrastructure,
)
