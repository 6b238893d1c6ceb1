package handlers

import (
	"github.com/google/wire"

	"jan-server/services/thread-api/internal/config"
	"jan-server/services/thread-api/internal/domain/share"
	"jan-server/services/thread-api/internal/interfaces/httpserver/handlers/authhandler"
	"jan-server/services/thread-api/internal/interfaces/httpserver/handlers/generationhandler"
	"jan-server/services/thread-api/internal/interfaces/httpserver/handlers/messagehandler"
	"jan-server/services/thread-api/internal/interfaces/httpserver/handlers/modelhandler"
	"jan-server/services/thread-api/internal/interfaces/httpserver/handlers/sharehandler"
	"jan-server/services/thread-api/internal/interfaces/httpserver/handlers/threadhandler"
)

func ProvideShareHandler(shareService *share.ShareService, cfg *config.Config) *sharehandler.ShareHandler {
	return sharehandler.NewShareHandler(shareService, cfg.ShareBaseURL)
}

var HandlerProvider = wire.NewSet(
	authhandler.NewAuthHandler,
	threadhandler.NewThreadHandler,
	messagehandler.NewMessageHandler,
	ProvideShareHandler,
	generationhandler.NewGenerationHandler,
	modelhandler.NewModelHandler,
)
