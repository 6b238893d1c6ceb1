package shareresponses

import (
	"jan-server/services/thread-api/internal/domain/share"
	messageresponses "jan-server/services/thread-api/internal/interfaces/httpserver/responses/messageres"
	threadresponses "jan-server/services/thread-api/internal/interfaces/httpserver/responses/threadres"
)

// ShareLinkResponse represents a share link in API responses
type ShareLinkResponse struct {
	Token               string `json:"token"`
	Object              string `json:"object"`
	ThreadID            string `json:"thread_id"`
	UserID              string `json:"user_id"`
	SharedUpToMessageID string `json:"shared_up_to_message_id"`
	ShareURL            string `json:"share_url"`
	CreatedAt           int64  `json:"created_at"`
}

// ShareLinkListResponse represents a list of share links
type ShareLinkListResponse struct {
	Object string              `json:"object"`
	Data   []ShareLinkResponse `json:"data"`
	Total  int64               `json:"total"`
}

// ShareLinkDeletedResponse represents the delete confirmation response
type ShareLinkDeletedResponse struct {
	Token   string `json:"token"`
	Object  string `json:"object"`
	Deleted bool   `json:"deleted"`
}

// SharedThreadDataResponse is the public payload served for a share token:
// the thread plus its messages up to the pinned cutoff.
type SharedThreadDataResponse struct {
	Object   string                             `json:"object"`
	Thread   threadresponses.ThreadResponse     `json:"thread"`
	Messages []messageresponses.MessageResponse `json:"messages"`
}

// NewShareLinkResponse creates a ShareLinkResponse from a domain link
func NewShareLinkResponse(l *share.ShareLink, baseURL string) *ShareLinkResponse {
	return &ShareLinkResponse{
		Token:               l.Token,
		Object:              "thread.share_link",
		ThreadID:            l.ThreadPublicID,
		UserID:              l.OwnerID,
		SharedUpToMessageID: l.SharedUpToMessageID,
		ShareURL:            l.GetShareURL(baseURL),
		CreatedAt:           l.CreatedAt.Unix(),
	}
}

// NewShareLinkListResponse creates a ShareLinkListResponse from domain links
func NewShareLinkListResponse(links []*share.ShareLink, baseURL string, total int64) *ShareLinkListResponse {
	data := make([]ShareLinkResponse, 0, len(links))
	for _, l := range links {
		data = append(data, *NewShareLinkResponse(l, baseURL))
	}
	return &ShareLinkListResponse{
		Object: "list",
		Data:   data,
		Total:  total,
	}
}

// NewShareLinkDeletedResponse creates a delete confirmation response
func NewShareLinkDeletedResponse(token string) *ShareLinkDeletedResponse {
	return &ShareLinkDeletedResponse{
		Token:   token,
		Object:  "thread.share_link.deleted",
		Deleted: true,
	}
}

// NewSharedThreadDataResponse creates the public share payload
func NewSharedThreadDataResponse(out *share.ResolveShareOutput) *SharedThreadDataResponse {
	messages := make([]messageresponses.MessageResponse, 0, len(out.Messages))
	for _, m := range out.Messages {
		messages = append(messages, *messageresponses.NewMessageResponse(m, out.Thread.PublicID))
	}
	return &SharedThreadDataResponse{
		Object:   "thread.shared_data",
		Thread:   *threadresponses.NewThreadResponse(out.Thread),
		Messages: messages,
	}
}
