package messagerequests

import "jan-server/services/thread-api/internal/domain/thread"

// CreateMessageRequest represents the request to append a message to a thread
type CreateMessageRequest struct {
	Role        string              `json:"role" binding:"required,oneof=user assistant system"`
	Content     *string             `json:"content,omitempty"`
	Parts       []thread.Part       `json:"parts,omitempty"`
	Model       *string             `json:"model,omitempty"`
	Status      *string             `json:"status,omitempty" binding:"omitempty,oneof=pending streaming done error stopped"`
	Annotations []thread.Annotation `json:"annotations,omitempty"`
}

// UpdateMessageRequest carries a partial update; absent fields keep their
// stored values.
type UpdateMessageRequest struct {
	Content      *string             `json:"content,omitempty"`
	Parts        []thread.Part       `json:"parts,omitempty"`
	Status       *string             `json:"status,omitempty" binding:"omitempty,oneof=pending streaming done error stopped"`
	ErrorMessage *string             `json:"error_message,omitempty"`
	Annotations  []thread.Annotation `json:"annotations,omitempty"`
}
