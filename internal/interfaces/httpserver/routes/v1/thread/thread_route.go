package thread

import (
	"net/http"

	"jan-server/services/thread-api/internal/interfaces/httpserver/handlers/authhandler"
	"jan-server/services/thread-api/internal/interfaces/httpserver/handlers/threadhandler"
	"jan-server/services/thread-api/internal/interfaces/httpserver/requests"
	threadrequests "jan-server/services/thread-api/internal/interfaces/httpserver/requests/threadreq"
	"jan-server/services/thread-api/internal/interfaces/httpserver/responses"
	_ "jan-server/services/thread-api/internal/interfaces/httpserver/responses/threadres"
	"jan-server/services/thread-api/internal/utils/platformerrors"

	"github.com/gin-gonic/gin"
)

type ThreadRoute struct {
	handler     *threadhandler.ThreadHandler
	authHandler *authhandler.AuthHandler
}

func NewThreadRoute(
	handler *threadhandler.ThreadHandler,
	authHandler *authhandler.AuthHandler,
) *ThreadRoute {
	return &ThreadRoute{
		handler:     handler,
		authHandler: authHandler,
	}
}

func (route *ThreadRoute) RegisterRouter(router gin.IRouter) {
	threads := router.Group("/threads")
	threads.POST("", route.authHandler.WithUserAuthChain(route.createThread)...)
	threads.GET("", route.authHandler.WithUserAuthChain(route.listThreads)...)
	threads.GET("/:thread_public_id", route.authHandler.WithUserAuthChain(route.getThread)...)
	threads.DELETE("/:thread_public_id", route.authHandler.WithUserAuthChain(route.deleteThread)...)
	threads.PUT("/:thread_public_id/visibility", route.authHandler.WithUserAuthChain(route.setVisibility)...)
	threads.POST("/:thread_public_id/branch", route.authHandler.WithUserAuthChain(route.branchThread)...)
	threads.POST("/:thread_public_id/generate-title", route.authHandler.WithUserAuthChain(route.generateTitle)...)
}

// createThread godoc
// @Summary Create a thread
// @Description Create a new conversation thread owned by the authenticated user. Threads start private unless a visibility is given.
// @Tags Threads API
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body threadrequests.CreateThreadRequest true "Create thread request"
// @Success 201 {object} threadresponses.ThreadResponse "Successfully created thread"
// @Failure 400 {object} responses.ErrorResponse "Invalid request body"
// @Failure 401 {object} responses.ErrorResponse "Unauthorized - missing or invalid authentication"
// @Failure 500 {object} responses.ErrorResponse "Internal server error"
// @Router /v1/threads [post]
func (route *ThreadRoute) createThread(reqCtx *gin.Context) {
	ctx := reqCtx.Request.Context()

	requester, ok := authhandler.GetRequesterFromContext(reqCtx)
	if !ok {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeUnauthorized, "authentication required", "9b06f2d4-8e51-4c73-a2b9-5d30e7f8c164")
		return
	}

	var req threadrequests.CreateThreadRequest
	if err := reqCtx.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeValidation, "invalid request body", "1e85c3a2-7d40-4f96-b6e8-0a29d5c7f413")
		return
	}

	response, err := route.handler.CreateThread(ctx, requester.ID, req)
	if err != nil {
		responses.HandleError(reqCtx, err, "Failed to create thread")
		return
	}
	reqCtx.JSON(http.StatusCreated, response)
}

// listThreads godoc
// @Summary List threads
// @Description List the authenticated user's threads ordered by most recent activity, with cursor pagination.
// @Tags Threads API
// @Security BearerAuth
// @Produce json
// @Param limit query int false "Maximum number of threads to return (1-100)" default(20)
// @Param after query string false "Return threads after the given thread ID"
// @Param order query string false "Sort order (asc or desc)" default(desc)
// @Success 200 {object} threadresponses.ThreadListResponse "Successfully retrieved threads"
// @Failure 400 {object} responses.ErrorResponse "Invalid request parameters"
// @Failure 401 {object} responses.ErrorResponse "Unauthorized - missing or invalid authentication"
// @Failure 500 {object} responses.ErrorResponse "Internal server error"
// @Router /v1/threads [get]
func (route *ThreadRoute) listThreads(reqCtx *gin.Context) {
	ctx := reqCtx.Request.Context()

	requester, ok := authhandler.GetRequesterFromContext(reqCtx)
	if !ok {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeUnauthorized, "authentication required", "9b06f2d4-8e51-4c73-a2b9-5d30e7f8c164")
		return
	}

	pagination, err := requests.GetCursorPaginationFromQuery(reqCtx, func(publicID string) (*uint, error) {
		id, err := route.handler.ResolveThreadPublicIDToNumericID(ctx, requester.ID, publicID)
		if err != nil {
			return nil, platformerrors.AsError(ctx, platformerrors.LayerHandler, err, "invalid cursor: thread not found or not accessible")
		}
		return id, nil
	})
	if err != nil {
		responses.HandleError(reqCtx, err, "Failed to process pagination")
		return
	}

	response, err := route.handler.ListThreads(ctx, requester.ID, pagination)
	if err != nil {
		responses.HandleError(reqCtx, err, "Failed to list threads")
		return
	}
	reqCtx.JSON(http.StatusOK, response)
}

// getThread godoc
// @Summary Get a thread
// @Description Retrieve a thread by ID. Owners can always read their threads; public threads are readable by any authenticated user.
// @Tags Threads API
// @Security BearerAuth
// @Produce json
// @Param thread_public_id path string true "Thread ID (format: th_xxxxx)"
// @Success 200 {object} threadresponses.ThreadResponse "Successfully retrieved thread"
// @Failure 401 {object} responses.ErrorResponse "Unauthorized - missing or invalid authentication"
// @Failure 404 {object} responses.ErrorResponse "Thread not found or access denied"
// @Failure 500 {object} responses.ErrorResponse "Internal server error"
// @Router /v1/threads/{thread_public_id} [get]
func (route *ThreadRoute) getThread(reqCtx *gin.Context) {
	ctx := reqCtx.Request.Context()

	requester, ok := authhandler.GetRequesterFromContext(reqCtx)
	if !ok {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeUnauthorized, "authentication required", "9b06f2d4-8e51-4c73-a2b9-5d30e7f8c164")
		return
	}

	response, err := route.handler.GetThread(ctx, requester.ID, reqCtx.Param("thread_public_id"))
	if err != nil {
		responses.HandleError(reqCtx, err, "Failed to get thread")
		return
	}
	reqCtx.JSON(http.StatusOK, response)
}

// deleteThread godoc
// @Summary Delete a thread
// @Description Permanently delete a thread together with its messages and any share links pointing at it.
// @Tags Threads API
// @Security BearerAuth
// @Param thread_public_id path string true "Thread ID (format: th_xxxxx)"
// @Success 204 "Thread deleted"
// @Failure 401 {object} responses.ErrorResponse "Unauthorized - missing or invalid authentication"
// @Failure 403 {object} responses.ErrorResponse "Only the owner may delete a thread"
// @Failure 404 {object} responses.ErrorResponse "Thread not found"
// @Failure 500 {object} responses.ErrorResponse "Internal server error"
// @Router /v1/threads/{thread_public_id} [delete]
func (route *ThreadRoute) deleteThread(reqCtx *gin.Context) {
	ctx := reqCtx.Request.Context()

	requester, ok := authhandler.GetRequesterFromContext(reqCtx)
	if !ok {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeUnauthorized, "authentication required", "9b06f2d4-8e51-4c73-a2b9-5d30e7f8c164")
		return
	}

	if err := route.handler.DeleteThread(ctx, requester.ID, reqCtx.Param("thread_public_id")); err != nil {
		responses.HandleError(reqCtx, err, "Failed to delete thread")
		return
	}
	reqCtx.Status(http.StatusNoContent)
}

// setVisibility godoc
// @Summary Update thread visibility
// @Description Switch a thread between private and public visibility. Only the owner may change visibility.
// @Tags Threads API
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param thread_public_id path string true "Thread ID (format: th_xxxxx)"
// @Param request body threadrequests.UpdateVisibilityRequest true "New visibility"
// @Success 200 {object} threadresponses.ThreadResponse "Successfully updated thread"
// @Failure 400 {object} responses.ErrorResponse "Invalid request body"
// @Failure 401 {object} responses.ErrorResponse "Unauthorized - missing or invalid authentication"
// @Failure 403 {object} responses.ErrorResponse "Only the owner may change visibility"
// @Failure 404 {object} responses.ErrorResponse "Thread not found"
// @Failure 500 {object} responses.ErrorResponse "Internal server error"
// @Router /v1/threads/{thread_public_id}/visibility [put]
func (route *ThreadRoute) setVisibility(reqCtx *gin.Context) {
	ctx := reqCtx.Request.Context()

	requester, ok := authhandler.GetRequesterFromContext(reqCtx)
	if !ok {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeUnauthorized, "authentication required", "9b06f2d4-8e51-4c73-a2b9-5d30e7f8c164")
		return
	}

	var req threadrequests.UpdateVisibilityRequest
	if err := reqCtx.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeValidation, "invalid request body", "f24e8c51-6a93-4d07-b5e2-8c10d9f3a647")
		return
	}

	response, err := route.handler.SetVisibility(ctx, requester.ID, reqCtx.Param("thread_public_id"), req)
	if err != nil {
		responses.HandleError(reqCtx, err, "Failed to update thread visibility")
		return
	}
	reqCtx.JSON(http.StatusOK, response)
}

// branchThread godoc
// @Summary Branch a thread
// @Description Fork a thread at an anchor message. The new thread copies all messages up to and including the anchor and records its origin.
// @Tags Threads API
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param thread_public_id path string true "Thread ID to branch from (format: th_xxxxx)"
// @Param request body threadrequests.BranchThreadRequest true "Anchor message and optional new thread ID"
// @Success 201 {object} threadresponses.ThreadResponse "Successfully created branched thread"
// @Failure 400 {object} responses.ErrorResponse "Invalid request or anchor outside the thread"
// @Failure 401 {object} responses.ErrorResponse "Unauthorized - missing or invalid authentication"
// @Failure 404 {object} responses.ErrorResponse "Thread or anchor message not found"
// @Failure 409 {object} responses.ErrorResponse "Requested thread ID already in use"
// @Failure 500 {object} responses.ErrorResponse "Internal server error"
// @Router /v1/threads/{thread_public_id}/branch [post]
func (route *ThreadRoute) branchThread(reqCtx *gin.Context) {
	ctx := reqCtx.Request.Context()

	requester, ok := authhandler.GetRequesterFromContext(reqCtx)
	if !ok {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeUnauthorized, "authentication required", "9b06f2d4-8e51-4c73-a2b9-5d30e7f8c164")
		return
	}

	var req threadrequests.BranchThreadRequest
	if err := reqCtx.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeValidation, "invalid request body", "53a7d0e8-2c16-4b94-a8f3-6e01b5d9c728")
		return
	}

	response, err := route.handler.BranchThread(ctx, requester.ID, reqCtx.Param("thread_public_id"), req)
	if err != nil {
		responses.HandleError(reqCtx, err, "Failed to branch thread")
		return
	}
	reqCtx.JSON(http.StatusCreated, response)
}

// generateTitle godoc
// @Summary Generate a thread title
// @Description Derive a short title for the thread from a user query and persist it on the thread.
// @Tags Threads API
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param thread_public_id path string true "Thread ID (format: th_xxxxx)"
// @Param request body threadrequests.GenerateTitleRequest true "Query to derive the title from"
// @Success 200 {object} threadresponses.ThreadResponse "Thread with the generated title"
// @Failure 400 {object} responses.ErrorResponse "Invalid request body"
// @Failure 401 {object} responses.ErrorResponse "Unauthorized - missing or invalid authentication"
// @Failure 403 {object} responses.ErrorResponse "Only the owner may generate a title"
// @Failure 404 {object} responses.ErrorResponse "Thread not found"
// @Failure 502 {object} responses.ErrorResponse "Title generation upstream failed"
// @Router /v1/threads/{thread_public_id}/generate-title [post]
func (route *ThreadRoute) generateTitle(reqCtx *gin.Context) {
	ctx := reqCtx.Request.Context()

	requester, ok := authhandler.GetRequesterFromContext(reqCtx)
	if !ok {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeUnauthorized, "authentication required", "9b06f2d4-8e51-4c73-a2b9-5d30e7f8c164")
		return
	}

	var req threadrequests.GenerateTitleRequest
	if err := reqCtx.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeValidation, "invalid request body", "b90c4e67-d1a8-4f25-93b0-7e58a2c6d134")
		return
	}

	response, err := route.handler.GenerateTitle(ctx, requester.ID, reqCtx.Param("thread_public_id"), req)
	if err != nil {
		responses.HandleError(reqCtx, err, "Failed to generate thread title")
		return
	}
	reqCtx.JSON(http.StatusOK, response)
}
