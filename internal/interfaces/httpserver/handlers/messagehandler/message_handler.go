package messagehandler

import (
	"context"

	"jan-server/services/thread-api/internal/domain/thread"
	messagerequests "jan-server/services/thread-api/internal/interfaces/httpserver/requests/messagereq"
	messageresponses "jan-server/services/thread-api/internal/interfaces/httpserver/responses/messageres"
	"jan-server/services/thread-api/internal/utils/platformerrors"
)

// MessageHandler handles message-related HTTP requests
type MessageHandler struct {
	messageService *thread.MessageService
}

// NewMessageHandler creates a new message handler
func NewMessageHandler(messageService *thread.MessageService) *MessageHandler {
	return &MessageHandler{messageService: messageService}
}

// PostMessage appends a message at the end of the thread
func (h *MessageHandler) PostMessage(
	ctx context.Context,
	userID string,
	threadID string,
	req messagerequests.CreateMessageRequest,
) (*messageresponses.MessageResponse, error) {
	var status *thread.MessageStatus
	if req.Status != nil {
		status = thread.ToMessageStatusPtr(thread.MessageStatus(*req.Status))
	}

	m, err := h.messageService.PostMessage(ctx, thread.PostMessageInput{
		RequesterID: userID,
		ThreadID:    threadID,
		Role:        thread.MessageRole(req.Role),
		Content:     req.Content,
		Parts:       req.Parts,
		Model:       req.Model,
		Status:      status,
		Annotations: req.Annotations,
	})
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerHandler, err, "failed to create message")
	}
	return messageresponses.NewMessageResponse(m, threadID), nil
}

// ListMessages returns the thread's messages in conversation order
func (h *MessageHandler) ListMessages(
	ctx context.Context,
	userID string,
	threadID string,
) (*messageresponses.MessageListResponse, error) {
	messages, err := h.messageService.ListMessages(ctx, userID, threadID)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerHandler, err, "failed to list messages")
	}
	return messageresponses.NewMessageListResponse(messages, threadID, false), nil
}

// UpdateMessage applies a partial update to a message
func (h *MessageHandler) UpdateMessage(
	ctx context.Context,
	userID string,
	messageID string,
	req messagerequests.UpdateMessageRequest,
) (*messageresponses.MessageResponse, error) {
	var status *thread.MessageStatus
	if req.Status != nil {
		status = thread.ToMessageStatusPtr(thread.MessageStatus(*req.Status))
	}

	m, err := h.messageService.UpdateMessage(ctx, userID, messageID, thread.UpdateMessageInput{
		Content:      req.Content,
		Parts:        req.Parts,
		Status:       status,
		ErrorMessage: req.ErrorMessage,
	})
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerHandler, err, "failed to update message")
	}
	return messageresponses.NewMessageResponse(m, ""), nil
}

// DeleteMessage removes exactly one message
func (h *MessageHandler) DeleteMessage(ctx context.Context, userID string, messageID string) error {
	if err := h.messageService.DeleteMessage(ctx, userID, messageID); err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerHandler, err, "failed to delete message")
	}
	return nil
}

// DeleteTrailing removes the messages after the anchor; when inclusive, the
// anchor goes too.
func (h *MessageHandler) DeleteTrailing(
	ctx context.Context,
	userID string,
	messageID string,
	inclusive bool,
) (*messageresponses.TrailingDeleteResponse, error) {
	deleted, err := h.messageService.DeleteTrailing(ctx, userID, messageID, inclusive)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerHandler, err, "failed to delete trailing messages")
	}
	return messageresponses.NewTrailingDeleteResponse(int(deleted)), nil
}
