package model

import (
	"net/http"

	"jan-server/services/thread-api/internal/interfaces/httpserver/handlers/authhandler"
	"jan-server/services/thread-api/internal/interfaces/httpserver/handlers/modelhandler"
	"jan-server/services/thread-api/internal/interfaces/httpserver/responses"
	_ "jan-server/services/thread-api/internal/interfaces/httpserver/responses/modelres"

	"github.com/gin-gonic/gin"
)

type ModelRoute struct {
	handler     *modelhandler.ModelHandler
	authHandler *authhandler.AuthHandler
}

func NewModelRoute(
	handler *modelhandler.ModelHandler,
	authHandler *authhandler.AuthHandler,
) *ModelRoute {
	return &ModelRoute{
		handler:     handler,
		authHandler: authHandler,
	}
}

func (route *ModelRoute) RegisterRouter(router gin.IRouter) {
	models := router.Group("/models")
	models.GET("", route.authHandler.WithUserAuthChain(route.listModels)...)
}

// listModels godoc
// @Summary List available models
// @Description List the models available for generation, filtered to the configured allowlist when one is set.
// @Tags Models API
// @Security BearerAuth
// @Produce json
// @Success 200 {object} modelresponses.ModelListResponse "Successfully retrieved models"
// @Failure 401 {object} responses.ErrorResponse "Unauthorized - missing or invalid authentication"
// @Failure 502 {object} responses.ErrorResponse "Upstream model listing failed"
// @Router /v1/models [get]
func (route *ModelRoute) listModels(reqCtx *gin.Context) {
	ctx := reqCtx.Request.Context()

	response, err := route.handler.ListModels(ctx)
	if err != nil {
		responses.HandleError(reqCtx, err, "Failed to list models")
		return
	}
	reqCtx.JSON(http.StatusOK, response)
}
