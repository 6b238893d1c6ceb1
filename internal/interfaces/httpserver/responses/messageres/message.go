package messageresponses

import (
	"fmt"

	"jan-server/services/thread-api/internal/domain/thread"
)

// MessageResponse represents a message in API responses
type MessageResponse struct {
	ID           string              `json:"id"`
	Object       string              `json:"object"`
	ThreadID     string              `json:"thread_id,omitempty"`
	Role         string              `json:"role"`
	Content      *string             `json:"content"`
	Parts        []thread.Part       `json:"parts,omitempty"`
	Model        *string             `json:"model,omitempty"`
	Status       string              `json:"status"`
	IsErrored    bool                `json:"is_errored"`
	IsStopped    bool                `json:"is_stopped"`
	Annotations  []thread.Annotation `json:"annotations,omitempty"`
	ErrorMessage *string             `json:"error_message,omitempty"`
	CreatedAt    int64               `json:"created_at"`
	UpdatedAt    int64               `json:"updated_at"`
}

// MessageListResponse represents a paginated list of messages
type MessageListResponse struct {
	Object  string            `json:"object"`
	Data    []MessageResponse `json:"data"`
	FirstID string            `json:"first_id"`
	LastID  string            `json:"last_id"`
	HasMore bool              `json:"has_more"`
}

// MessageDeletedResponse represents the delete confirmation response
type MessageDeletedResponse struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	Deleted bool   `json:"deleted"`
}

// TrailingDeleteResponse reports how many messages a trailing delete removed
type TrailingDeleteResponse struct {
	DeletedCount int    `json:"deleted_count"`
	Message      string `json:"message"`
}

// NewMessageResponse creates a response from a domain message
func NewMessageResponse(m *thread.Message, threadPublicID string) *MessageResponse {
	return &MessageResponse{
		ID:           m.PublicID,
		Object:       "thread.message",
		ThreadID:     threadPublicID,
		Role:         string(m.Role),
		Content:      m.Content,
		Parts:        m.Parts,
		Model:        m.Model,
		Status:       string(m.Status),
		IsErrored:    m.IsErrored(),
		IsStopped:    m.IsStopped(),
		Annotations:  m.Annotations,
		ErrorMessage: m.ErrorMessage,
		CreatedAt:    m.CreatedAt.Unix(),
		UpdatedAt:    m.UpdatedAt.Unix(),
	}
}

// NewMessageListResponse creates a message list response
func NewMessageListResponse(messages []*thread.Message, threadPublicID string, hasMore bool) *MessageListResponse {
	data := make([]MessageResponse, 0, len(messages))
	for _, m := range messages {
		if m == nil {
			continue
		}
		data = append(data, *NewMessageResponse(m, threadPublicID))
	}

	firstID := ""
	lastID := ""
	if len(data) > 0 {
		firstID = data[0].ID
		lastID = data[len(data)-1].ID
	}

	return &MessageListResponse{
		Object:  "list",
		Data:    data,
		FirstID: firstID,
		LastID:  lastID,
		HasMore: hasMore,
	}
}

// NewMessageDeletedResponse creates a delete response
func NewMessageDeletedResponse(publicID string) *MessageDeletedResponse {
	return &MessageDeletedResponse{
		ID:      publicID,
		Object:  "thread.message.deleted",
		Deleted: true,
	}
}

// NewTrailingDeleteResponse creates a trailing delete confirmation
func NewTrailingDeleteResponse(deletedCount int) *TrailingDeleteResponse {
	return &TrailingDeleteResponse{
		DeletedCount: deletedCount,
		Message:      fmt.Sprintf("Successfully deleted %d trailing messages.", deletedCount),
	}
}
