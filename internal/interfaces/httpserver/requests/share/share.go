package sharerequests

// CreateShareRequest represents the request to create a share link
type CreateShareRequest struct {
	ThreadID  string `json:"thread_id" binding:"required,threadid"`
	MessageID string `json:"message_id" binding:"required,messageid"`
	// Token optionally supplies a client-chosen token; a taken token is
	// rejected with a conflict.
	Token *string `json:"token,omitempty"`
}
