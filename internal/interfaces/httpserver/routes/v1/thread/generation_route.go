package thread

import (
	"jan-server/services/thread-api/internal/interfaces/httpserver/handlers/authhandler"
	"jan-server/services/thread-api/internal/interfaces/httpserver/handlers/generationhandler"
	threadrequests "jan-server/services/thread-api/internal/interfaces/httpserver/requests/threadreq"
	"jan-server/services/thread-api/internal/interfaces/httpserver/responses"
	"jan-server/services/thread-api/internal/utils/platformerrors"

	"github.com/gin-gonic/gin"
)

type GenerationRoute struct {
	handler     *generationhandler.GenerationHandler
	authHandler *authhandler.AuthHandler
}

func NewGenerationRoute(
	handler *generationhandler.GenerationHandler,
	authHandler *authhandler.AuthHandler,
) *GenerationRoute {
	return &GenerationRoute{
		handler:     handler,
		authHandler: authHandler,
	}
}

func (route *GenerationRoute) RegisterRouter(router gin.IRouter) {
	threads := router.Group("/threads")
	threads.POST("/:thread_public_id/generate", route.authHandler.WithUserAuthChain(route.generate)...)
	threads.POST("/:thread_public_id/generate/stop", route.authHandler.WithUserAuthChain(route.stopGeneration)...)
}

// generate godoc
// @Summary Generate an assistant reply
// @Description Start an assistant generation for the thread. Streams the reply as server-sent events by default; set stream to false to wait for the finished message. A thread can only run one generation at a time.
// @Tags Generation API
// @Security BearerAuth
// @Accept json
// @Produce text/event-stream
// @Param thread_public_id path string true "Thread ID (format: th_xxxxx)"
// @Param request body threadrequests.GenerateRequest false "Model override and streaming mode"
// @Success 200 {string} string "SSE stream of message deltas, or the finished message when stream=false"
// @Failure 400 {object} responses.ErrorResponse "Invalid request or model not available"
// @Failure 401 {object} responses.ErrorResponse "Unauthorized - missing or invalid authentication"
// @Failure 403 {object} responses.ErrorResponse "Only the owner may generate"
// @Failure 404 {object} responses.ErrorResponse "Thread not found"
// @Failure 409 {object} responses.ErrorResponse "A generation is already running for this thread"
// @Failure 502 {object} responses.ErrorResponse "Upstream model failure"
// @Router /v1/threads/{thread_public_id}/generate [post]
func (route *GenerationRoute) generate(reqCtx *gin.Context) {
	requester, ok := authhandler.GetRequesterFromContext(reqCtx)
	if !ok {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeUnauthorized, "authentication required", "6f2d81c5-3a94-4e07-b8d2-1c56e9a0f384")
		return
	}

	var req threadrequests.GenerateRequest
	if reqCtx.Request.ContentLength > 0 {
		if err := reqCtx.ShouldBindJSON(&req); err != nil {
			responses.HandleNewError(reqCtx, platformerrors.ErrorTypeValidation, "invalid request body", "a3c90e17-6b54-4d28-8f1a-0e72b5c9d846")
			return
		}
	}

	threadID := reqCtx.Param("thread_public_id")
	if req.Stream != nil && !*req.Stream {
		route.handler.BlockingGeneration(reqCtx, requester.ID, threadID, req.Model)
		return
	}
	route.handler.StreamGeneration(reqCtx, requester.ID, threadID, req.Model)
}

// stopGeneration godoc
// @Summary Stop a running generation
// @Description Cancel the thread's active generation. The partial assistant message is kept with an incomplete status.
// @Tags Generation API
// @Security BearerAuth
// @Produce json
// @Param thread_public_id path string true "Thread ID (format: th_xxxxx)"
// @Success 200 {object} map[string]bool "Whether a generation was stopped"
// @Failure 401 {object} responses.ErrorResponse "Unauthorized - missing or invalid authentication"
// @Failure 404 {object} responses.ErrorResponse "Thread not found"
// @Failure 500 {object} responses.ErrorResponse "Internal server error"
// @Router /v1/threads/{thread_public_id}/generate/stop [post]
func (route *GenerationRoute) stopGeneration(reqCtx *gin.Context) {
	requester, ok := authhandler.GetRequesterFromContext(reqCtx)
	if !ok {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeUnauthorized, "authentication required", "6f2d81c5-3a94-4e07-b8d2-1c56e9a0f384")
		return
	}

	route.handler.StopGeneration(reqCtx, requester.ID, reqCtx.Param("thread_public_id"))
}
