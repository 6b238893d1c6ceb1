package share

import (
	"context"
	"time"

	"jan-server/services/thread-api/internal/domain/query"
)

// ===============================================
// Share link entity
// ===============================================

// ShareLink exposes a read-only view of a thread up to a fixed message.
// The cutoff is pinned at creation time, so messages appended after the
// link was made are never visible through it.
type ShareLink struct {
	ID                  uint      `json:"-"`
	Token               string    `json:"token"`
	ThreadID            uint      `json:"-"`
	ThreadPublicID      string    `json:"thread_id"`
	OwnerID             string    `json:"user_id"`
	SharedUpToMessageID string    `json:"shared_up_to_message_id"`
	CutoffSequence      int       `json:"-"`
	CreatedAt           time.Time `json:"created_at"`
}

// IsOwnedBy returns true if the link belongs to the given user.
func (l *ShareLink) IsOwnedBy(userID string) bool {
	return l.OwnerID == userID
}

// GetShareURL returns the full public URL for the link.
func (l *ShareLink) GetShareURL(baseURL string) string {
	return baseURL + "/v1/shares/" + l.Token + "/data"
}

// ===============================================
// Filter and repository
// ===============================================

// ShareLinkFilter defines criteria for querying share links.
type ShareLinkFilter struct {
	ID       *uint
	Token    *string
	ThreadID *uint
	OwnerID  *string
}

// ShareLinkRepository defines the data access interface for share links.
type ShareLinkRepository interface {
	Create(ctx context.Context, link *ShareLink) error
	FindByFilter(ctx context.Context, filter ShareLinkFilter, pagination *query.Pagination) ([]*ShareLink, error)
	Count(ctx context.Context, filter ShareLinkFilter) (int64, error)
	FindByID(ctx context.Context, id uint) (*ShareLink, error)
	FindByToken(ctx context.Context, token string) (*ShareLink, error)
	TokenExists(ctx context.Context, token string) (bool, error)
	// Delete removes the link only. The underlying thread and its
	// messages are untouched.
	Delete(ctx context.Context, id uint) error
	// DeleteDangling removes links whose thread or cutoff message no
	// longer exists and returns how many were removed. Deletes keep
	// links consistent transactionally; this is the safety net behind
	// them.
	DeleteDangling(ctx context.Context) (int64, error)
}
