package threadresponses

import (
	"jan-server/services/thread-api/internal/domain/thread"
)

// ThreadResponse represents a thread in API responses
type ThreadResponse struct {
	ID             string  `json:"id"`
	Object         string  `json:"object"`
	Title          *string `json:"title,omitempty"`
	UserID         string  `json:"user_id"`
	Visibility     string  `json:"visibility"`
	OriginThreadID *string `json:"origin_thread_id,omitempty"`
	CreatedAt      int64   `json:"created_at"`
	UpdatedAt      int64   `json:"updated_at"`
}

// ThreadListResponse represents a paginated list of threads
type ThreadListResponse struct {
	Object  string           `json:"object"`
	Data    []ThreadResponse `json:"data"`
	FirstID string           `json:"first_id"`
	LastID  string           `json:"last_id"`
	HasMore bool             `json:"has_more"`
	Total   int64            `json:"total"`
}

// ThreadDeletedResponse represents the delete confirmation response
type ThreadDeletedResponse struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	Deleted bool   `json:"deleted"`
}

// NewThreadResponse creates a response from a domain thread
func NewThreadResponse(t *thread.Thread) *ThreadResponse {
	return &ThreadResponse{
		ID:             t.PublicID,
		Object:         "thread",
		Title:          t.Title,
		UserID:         t.OwnerID,
		Visibility:     string(t.Visibility),
		OriginThreadID: t.OriginThreadID,
		CreatedAt:      t.CreatedAt.Unix(),
		UpdatedAt:      t.UpdatedAt.Unix(),
	}
}

// NewThreadListResponse creates a thread list response
func NewThreadListResponse(threads []*thread.Thread, hasMore bool, total int64) *ThreadListResponse {
	data := make([]ThreadResponse, 0, len(threads))
	for _, t := range threads {
		if t == nil {
			continue
		}
		data = append(data, *NewThreadResponse(t))
	}

	firstID := ""
	lastID := ""
	if len(data) > 0 {
		firstID = data[0].ID
		lastID = data[len(data)-1].ID
	}

	return &ThreadListResponse{
		Object:  "list",
		Data:    data,
		FirstID: firstID,
		LastID:  lastID,
		HasMore: hasMore,
		Total:   total,
	}
}

// NewThreadDeletedResponse creates a delete response
func NewThreadDeletedResponse(publicID string) *ThreadDeletedResponse {
	return &ThreadDeletedResponse{
		ID:      publicID,
		Object:  "thread.deleted",
		Deleted: true,
	}
}
