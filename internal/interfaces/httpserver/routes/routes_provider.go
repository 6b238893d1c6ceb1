package routes

import (
	"github.com/google/wire"

	"jan-server/services/thread-api/internal/interfaces/httpserver/handlers"
	"jan-server/services/thread-api/internal/interfaces/httpserver/routes/public"
	v1 "jan-server/services/thread-api/internal/interfaces/httpserver/routes/v1"
	"jan-server/services/thread-api/internal/interfaces/httpserver/routes/v1/message"
	"jan-server/services/thread-api/internal/interfaces/httpserver/routes/v1/model"
	"jan-server/services/thread-api/internal/interfaces/httpserver/routes/v1/share"
	"jan-server/services/thread-api/internal/interfaces/httpserver/routes/v1/thread"
)

var RouteProvider = wire.NewSet(
	handlers.HandlerProvider,
	thread.NewThreadRoute,
	thread.NewGenerationRoute,
	message.NewMessageRoute,
	share.NewShareRoute,
	model.NewModelRoute,
	public.NewPublicShareRoute,
	v1.NewV1Route,
)
