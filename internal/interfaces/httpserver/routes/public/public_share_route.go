package public

import (
	"net/http"
	"strconv"

	"jan-server/services/thread-api/internal/infrastructure/metrics"
	"jan-server/services/thread-api/internal/interfaces/httpserver/handlers/sharehandler"
	"jan-server/services/thread-api/internal/interfaces/httpserver/middlewares"
	"jan-server/services/thread-api/internal/interfaces/httpserver/responses"
	_ "jan-server/services/thread-api/internal/interfaces/httpserver/responses/share"

	"github.com/gin-gonic/gin"
)

// publicShareRateLimit caps anonymous share reads per client per minute.
const publicShareRateLimit = 100

type PublicShareRoute struct {
	handler *sharehandler.ShareHandler
}

func NewPublicShareRoute(handler *sharehandler.ShareHandler) *PublicShareRoute {
	return &PublicShareRoute{handler: handler}
}

func (route *PublicShareRoute) RegisterRouter(router gin.IRouter) {
	shares := router.Group("/shares")
	shares.Use(middlewares.RateLimitMiddleware(publicShareRateLimit))
	shares.GET("/:token/data", route.resolveShare)
	shares.HEAD("/:token/data", route.resolveShare)
}

// resolveShare godoc
// @Summary Read a shared thread
// @Description Return the shared thread and its messages up to the pinned cutoff. No authentication required; requests are rate limited per client.
// @Tags Shares API
// @Produce json
// @Param token path string true "Share token"
// @Success 200 {object} shareresponses.SharedThreadDataResponse "Shared thread data"
// @Failure 404 {object} responses.ErrorResponse "Share link not found or thread no longer public"
// @Failure 429 {object} responses.ErrorResponse "Rate limit exceeded"
// @Failure 500 {object} responses.ErrorResponse "Internal server error"
// @Router /v1/shares/{token}/data [get]
func (route *PublicShareRoute) resolveShare(reqCtx *gin.Context) {
	ctx := reqCtx.Request.Context()

	response, err := route.handler.ResolveShare(ctx, reqCtx.Param("token"))
	if err != nil {
		responses.HandleError(reqCtx, err, "Failed to resolve share link")
		metrics.RecordPublicShareRequest(reqCtx.Request.Method, strconv.Itoa(reqCtx.Writer.Status()))
		return
	}
	metrics.RecordPublicShareRequest(reqCtx.Request.Method, strconv.Itoa(http.StatusOK))

	if reqCtx.Request.Method == http.MethodHead {
		reqCtx.Status(http.StatusOK)
		return
	}
	reqCtx.JSON(http.StatusOK, response)
}
