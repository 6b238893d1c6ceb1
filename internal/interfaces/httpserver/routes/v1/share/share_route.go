package share

import (
	"net/http"

	"jan-server/services/thread-api/internal/interfaces/httpserver/handlers/authhandler"
	"jan-server/services/thread-api/internal/interfaces/httpserver/handlers/sharehandler"
	sharerequests "jan-server/services/thread-api/internal/interfaces/httpserver/requests/share"
	"jan-server/services/thread-api/internal/interfaces/httpserver/responses"
	_ "jan-server/services/thread-api/internal/interfaces/httpserver/responses/share"
	"jan-server/services/thread-api/internal/utils/platformerrors"

	"github.com/gin-gonic/gin"
)

type ShareRoute struct {
	handler     *sharehandler.ShareHandler
	authHandler *authhandler.AuthHandler
}

func NewShareRoute(
	handler *sharehandler.ShareHandler,
	authHandler *authhandler.AuthHandler,
) *ShareRoute {
	return &ShareRoute{
		handler:     handler,
		authHandler: authHandler,
	}
}

func (route *ShareRoute) RegisterRouter(router gin.IRouter) {
	shares := router.Group("/shares")
	shares.POST("", route.authHandler.WithUserAuthChain(route.createShare)...)
	shares.GET("", route.authHandler.WithUserAuthChain(route.listShares)...)
	shares.DELETE("/:token", route.authHandler.WithUserAuthChain(route.deleteShare)...)
}

// createShare godoc
// @Summary Create a share link
// @Description Create a share link for a thread, pinned to the thread's latest message at creation time. Recreating a share for the same thread advances the pin.
// @Tags Shares API
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body sharerequests.CreateShareRequest true "Thread to share"
// @Success 201 {object} shareresponses.ShareLinkResponse "Successfully created share link"
// @Failure 400 {object} responses.ErrorResponse "Invalid request or thread has no messages"
// @Failure 401 {object} responses.ErrorResponse "Unauthorized - missing or invalid authentication"
// @Failure 403 {object} responses.ErrorResponse "Only the owner may share a thread"
// @Failure 404 {object} responses.ErrorResponse "Thread not found"
// @Failure 500 {object} responses.ErrorResponse "Internal server error"
// @Router /v1/shares [post]
func (route *ShareRoute) createShare(reqCtx *gin.Context) {
	ctx := reqCtx.Request.Context()

	requester, ok := authhandler.GetRequesterFromContext(reqCtx)
	if !ok {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeUnauthorized, "authentication required", "2e80f6b9-47d1-4c35-a9e8-6b02d4f7c591")
		return
	}

	var req sharerequests.CreateShareRequest
	if err := reqCtx.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeValidation, "invalid request body", "c57a2d90-1e86-4b43-92f7-0d34e8a6b125")
		return
	}

	response, err := route.handler.CreateShare(ctx, requester.ID, req)
	if err != nil {
		responses.HandleError(reqCtx, err, "Failed to create share link")
		return
	}
	reqCtx.JSON(http.StatusCreated, response)
}

// listShares godoc
// @Summary List share links
// @Description List the authenticated user's share links, newest first.
// @Tags Shares API
// @Security BearerAuth
// @Produce json
// @Success 200 {object} shareresponses.ShareLinkListResponse "Successfully retrieved share links"
// @Failure 401 {object} responses.ErrorResponse "Unauthorized - missing or invalid authentication"
// @Failure 500 {object} responses.ErrorResponse "Internal server error"
// @Router /v1/shares [get]
func (route *ShareRoute) listShares(reqCtx *gin.Context) {
	ctx := reqCtx.Request.Context()

	requester, ok := authhandler.GetRequesterFromContext(reqCtx)
	if !ok {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeUnauthorized, "authentication required", "2e80f6b9-47d1-4c35-a9e8-6b02d4f7c591")
		return
	}

	response, err := route.handler.ListShares(ctx, requester.ID, nil)
	if err != nil {
		responses.HandleError(reqCtx, err, "Failed to list share links")
		return
	}
	reqCtx.JSON(http.StatusOK, response)
}

// deleteShare godoc
// @Summary Revoke a share link
// @Description Delete a share link by token. The shared thread itself is untouched.
// @Tags Shares API
// @Security BearerAuth
// @Param token path string true "Share token"
// @Success 204 "Share link deleted"
// @Failure 401 {object} responses.ErrorResponse "Unauthorized - missing or invalid authentication"
// @Failure 403 {object} responses.ErrorResponse "Only the owner may revoke a share link"
// @Failure 404 {object} responses.ErrorResponse "Share link not found"
// @Failure 500 {object} responses.ErrorResponse "Internal server error"
// @Router /v1/shares/{token} [delete]
func (route *ShareRoute) deleteShare(reqCtx *gin.Context) {
	ctx := reqCtx.Request.Context()

	requester, ok := authhandler.GetRequesterFromContext(reqCtx)
	if !ok {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeUnauthorized, "authentication required", "2e80f6b9-47d1-4c35-a9e8-6b02d4f7c591")
		return
	}

	if err := route.handler.DeleteShare(ctx, requester.ID, reqCtx.Param("token")); err != nil {
		responses.HandleError(reqCtx, err, "Failed to delete share link")
		return
	}
	reqCtx.Status(http.StatusNoContent)
}
