package message

import (
	"net/http"

	"jan-server/services/thread-api/internal/interfaces/httpserver/handlers/authhandler"
	"jan-server/services/thread-api/internal/interfaces/httpserver/handlers/messagehandler"
	messagerequests "jan-server/services/thread-api/internal/interfaces/httpserver/requests/messagereq"
	"jan-server/services/thread-api/internal/interfaces/httpserver/responses"
	_ "jan-server/services/thread-api/internal/interfaces/httpserver/responses/messageres"
	"jan-server/services/thread-api/internal/utils/platformerrors"

	"github.com/gin-gonic/gin"
)

type MessageRoute struct {
	handler     *messagehandler.MessageHandler
	authHandler *authhandler.AuthHandler
}

func NewMessageRoute(
	handler *messagehandler.MessageHandler,
	authHandler *authhandler.AuthHandler,
) *MessageRoute {
	return &MessageRoute{
		handler:     handler,
		authHandler: authHandler,
	}
}

func (route *MessageRoute) RegisterRouter(router gin.IRouter) {
	threads := router.Group("/threads")
	threads.POST("/:thread_public_id/messages", route.authHandler.WithUserAuthChain(route.postMessage)...)
	threads.GET("/:thread_public_id/messages", route.authHandler.WithUserAuthChain(route.listMessages)...)

	messages := router.Group("/messages")
	messages.PUT("/:message_public_id", route.authHandler.WithUserAuthChain(route.updateMessage)...)
	messages.DELETE("/:message_public_id", route.authHandler.WithUserAuthChain(route.deleteMessage)...)
	messages.POST("/:message_public_id/delete-trailing", route.authHandler.WithUserAuthChain(route.deleteTrailing)...)
	messages.POST("/:message_public_id/delete-inclusive-trailing", route.authHandler.WithUserAuthChain(route.deleteInclusiveTrailing)...)
}

// postMessage godoc
// @Summary Append a message to a thread
// @Description Append a message at the end of the thread's conversation order. Only the thread owner may post.
// @Tags Messages API
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param thread_public_id path string true "Thread ID (format: th_xxxxx)"
// @Param request body messagerequests.CreateMessageRequest true "Message to append"
// @Success 201 {object} messageresponses.MessageResponse "Successfully created message"
// @Failure 400 {object} responses.ErrorResponse "Invalid request body"
// @Failure 401 {object} responses.ErrorResponse "Unauthorized - missing or invalid authentication"
// @Failure 403 {object} responses.ErrorResponse "Only the owner may post messages"
// @Failure 404 {object} responses.ErrorResponse "Thread not found"
// @Failure 500 {object} responses.ErrorResponse "Internal server error"
// @Router /v1/threads/{thread_public_id}/messages [post]
func (route *MessageRoute) postMessage(reqCtx *gin.Context) {
	ctx := reqCtx.Request.Context()

	requester, ok := authhandler.GetRequesterFromContext(reqCtx)
	if !ok {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeUnauthorized, "authentication required", "4c61a9d3-0f28-4e57-b1c6-9d84e2a7f305")
		return
	}

	var req messagerequests.CreateMessageRequest
	if err := reqCtx.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeValidation, "invalid request body", "e10b7f42-9c58-4da6-83e1-2f64a0c9b573")
		return
	}

	response, err := route.handler.PostMessage(ctx, requester.ID, reqCtx.Param("thread_public_id"), req)
	if err != nil {
		responses.HandleError(reqCtx, err, "Failed to create message")
		return
	}
	reqCtx.JSON(http.StatusCreated, response)
}

// listMessages godoc
// @Summary List a thread's messages
// @Description Return the thread's messages in conversation order. Owners see their threads; public threads are visible to any authenticated user.
// @Tags Messages API
// @Security BearerAuth
// @Produce json
// @Param thread_public_id path string true "Thread ID (format: th_xxxxx)"
// @Success 200 {object} messageresponses.MessageListResponse "Successfully retrieved messages"
// @Failure 401 {object} responses.ErrorResponse "Unauthorized - missing or invalid authentication"
// @Failure 404 {object} responses.ErrorResponse "Thread not found or access denied"
// @Failure 500 {object} responses.ErrorResponse "Internal server error"
// @Router /v1/threads/{thread_public_id}/messages [get]
func (route *MessageRoute) listMessages(reqCtx *gin.Context) {
	ctx := reqCtx.Request.Context()

	requester, ok := authhandler.GetRequesterFromContext(reqCtx)
	if !ok {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeUnauthorized, "authentication required", "4c61a9d3-0f28-4e57-b1c6-9d84e2a7f305")
		return
	}

	response, err := route.handler.ListMessages(ctx, requester.ID, reqCtx.Param("thread_public_id"))
	if err != nil {
		responses.HandleError(reqCtx, err, "Failed to list messages")
		return
	}
	reqCtx.JSON(http.StatusOK, response)
}

// updateMessage godoc
// @Summary Update a message
// @Description Apply a partial update to a message's content, status, or annotations. Only the thread owner may update.
// @Tags Messages API
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param message_public_id path string true "Message ID (format: msg_xxxxx)"
// @Param request body messagerequests.UpdateMessageRequest true "Fields to update"
// @Success 200 {object} messageresponses.MessageResponse "Successfully updated message"
// @Failure 400 {object} responses.ErrorResponse "Invalid request body"
// @Failure 401 {object} responses.ErrorResponse "Unauthorized - missing or invalid authentication"
// @Failure 403 {object} responses.ErrorResponse "Only the owner may update messages"
// @Failure 404 {object} responses.ErrorResponse "Message not found"
// @Failure 500 {object} responses.ErrorResponse "Internal server error"
// @Router /v1/messages/{message_public_id} [put]
func (route *MessageRoute) updateMessage(reqCtx *gin.Context) {
	ctx := reqCtx.Request.Context()

	requester, ok := authhandler.GetRequesterFromContext(reqCtx)
	if !ok {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeUnauthorized, "authentication required", "4c61a9d3-0f28-4e57-b1c6-9d84e2a7f305")
		return
	}

	var req messagerequests.UpdateMessageRequest
	if err := reqCtx.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeValidation, "invalid request body", "0d93b6e1-5a72-4c48-9f0e-8b21c7d4a659")
		return
	}

	response, err := route.handler.UpdateMessage(ctx, requester.ID, reqCtx.Param("message_public_id"), req)
	if err != nil {
		responses.HandleError(reqCtx, err, "Failed to update message")
		return
	}
	reqCtx.JSON(http.StatusOK, response)
}

// deleteMessage godoc
// @Summary Delete a message
// @Description Delete a single message. Later messages keep their positions in the conversation order.
// @Tags Messages API
// @Security BearerAuth
// @Param message_public_id path string true "Message ID (format: msg_xxxxx)"
// @Success 204 "Message deleted"
// @Failure 401 {object} responses.ErrorResponse "Unauthorized - missing or invalid authentication"
// @Failure 403 {object} responses.ErrorResponse "Only the owner may delete messages"
// @Failure 404 {object} responses.ErrorResponse "Message not found"
// @Failure 500 {object} responses.ErrorResponse "Internal server error"
// @Router /v1/messages/{message_public_id} [delete]
func (route *MessageRoute) deleteMessage(reqCtx *gin.Context) {
	ctx := reqCtx.Request.Context()

	requester, ok := authhandler.GetRequesterFromContext(reqCtx)
	if !ok {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeUnauthorized, "authentication required", "4c61a9d3-0f28-4e57-b1c6-9d84e2a7f305")
		return
	}

	if err := route.handler.DeleteMessage(ctx, requester.ID, reqCtx.Param("message_public_id")); err != nil {
		responses.HandleError(reqCtx, err, "Failed to delete message")
		return
	}
	reqCtx.Status(http.StatusNoContent)
}

// deleteTrailing godoc
// @Summary Delete messages after an anchor
// @Description Delete every message that comes after the anchor message in conversation order. The anchor itself is kept.
// @Tags Messages API
// @Security BearerAuth
// @Produce json
// @Param message_public_id path string true "Anchor message ID (format: msg_xxxxx)"
// @Success 200 {object} messageresponses.TrailingDeleteResponse "Deleted count and the surviving anchor"
// @Failure 401 {object} responses.ErrorResponse "Unauthorized - missing or invalid authentication"
// @Failure 403 {object} responses.ErrorResponse "Only the owner may delete messages"
// @Failure 404 {object} responses.ErrorResponse "Message not found"
// @Failure 500 {object} responses.ErrorResponse "Internal server error"
// @Router /v1/messages/{message_public_id}/delete-trailing [post]
func (route *MessageRoute) deleteTrailing(reqCtx *gin.Context) {
	route.handleTrailingDelete(reqCtx, false)
}

// deleteInclusiveTrailing godoc
// @Summary Delete an anchor and everything after it
// @Description Delete the anchor message and every message after it in conversation order.
// @Tags Messages API
// @Security BearerAuth
// @Produce json
// @Param message_public_id path string true "Anchor message ID (format: msg_xxxxx)"
// @Success 200 {object} messageresponses.TrailingDeleteResponse "Deleted count; message is null when the anchor was removed"
// @Failure 401 {object} responses.ErrorResponse "Unauthorized - missing or invalid authentication"
// @Failure 403 {object} responses.ErrorResponse "Only the owner may delete messages"
// @Failure 404 {object} responses.ErrorResponse "Message not found"
// @Failure 500 {object} responses.ErrorResponse "Internal server error"
// @Router /v1/messages/{message_public_id}/delete-inclusive-trailing [post]
func (route *MessageRoute) deleteInclusiveTrailing(reqCtx *gin.Context) {
	route.handleTrailingDelete(reqCtx, true)
}

func (route *MessageRoute) handleTrailingDelete(reqCtx *gin.Context, inclusive bool) {
	ctx := reqCtx.Request.Context()

	requester, ok := authhandler.GetRequesterFromContext(reqCtx)
	if !ok {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeUnauthorized, "authentication required", "4c61a9d3-0f28-4e57-b1c6-9d84e2a7f305")
		return
	}

	response, err := route.handler.DeleteTrailing(ctx, requester.ID, reqCtx.Param("message_public_id"), inclusive)
	if err != nil {
		responses.HandleError(reqCtx, err, "Failed to delete trailing messages")
		return
	}
	reqCtx.JSON(http.StatusOK, response)
}
