package threadrequests

// CreateThreadRequest represents the request to create a thread
type CreateThreadRequest struct {
	Title      *string `json:"title,omitempty"`
	Visibility *string `json:"visibility,omitempty" binding:"omitempty,oneof=private public"`
}

// UpdateVisibilityRequest toggles a thread between private and public
type UpdateVisibilityRequest struct {
	Visibility string `json:"visibility" binding:"required,oneof=private public"`
}

// BranchThreadRequest represents the request to branch a thread at a message
type BranchThreadRequest struct {
	MessageID string `json:"message_id" binding:"required,messageid"`
	// ThreadID optionally suggests a public ID for the new thread; a taken
	// ID is rejected with a conflict.
	ThreadID *string `json:"thread_id,omitempty" binding:"omitempty,threadid"`
}

// GenerateTitleRequest represents the request to generate a thread title
type GenerateTitleRequest struct {
	Query string `json:"query" binding:"required"`
}

// GenerateRequest starts a streaming generation over the thread history
type GenerateRequest struct {
	Model *string `json:"model,omitempty"`
	// Stream defaults to true; false waits for the terminal message.
	Stream *bool `json:"stream,omitempty"`
}
