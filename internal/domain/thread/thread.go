package thread

import (
	"context"
	"time"

	"jan-server/services/thread-api/internal/domain/query"
)

// ===============================================
// Thread Types
// ===============================================

// @Enum(private, public)
type Visibility string

const (
	VisibilityPrivate Visibility = "private"
	VisibilityPublic  Visibility = "public"
)

func ValidateVisibility(input string) bool {
	switch Visibility(input) {
	case VisibilityPrivate, VisibilityPublic:
		return true
	default:
		return false
	}
}

// ===============================================
// Thread Structure
// ===============================================

type Thread struct {
	ID             uint       `json:"-"`
	PublicID       string     `json:"id"` // String ID like "th_abc123"
	OwnerID        string     `json:"user_id"`
	Title          *string    `json:"title"`
	Visibility     Visibility `json:"visibility"`
	OriginThreadID *string    `json:"origin_thread_id"` // Public ID of the thread this was branched from; dangling after origin deletion
	Messages       []Message  `json:"messages,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// IsOwnedBy reports whether ownerID owns the thread.
func (t *Thread) IsOwnedBy(ownerID string) bool {
	return t.OwnerID == ownerID
}

// IsReadableBy reports whether requesterID may read the thread: the owner
// always can, anyone can when the thread is public.
func (t *Thread) IsReadableBy(requesterID string) bool {
	if t.Visibility == VisibilityPublic {
		return true
	}
	return t.IsOwnedBy(requesterID)
}

// Touch bumps UpdatedAt so recency-ordered listings surface the thread.
func (t *Thread) Touch() {
	t.UpdatedAt = time.Now()
}

// ===============================================
// Thread Repository
// ===============================================

type ThreadFilter struct {
	ID       *uint
	PublicID *string
	OwnerID  *string
}

type ThreadRepository interface {
	Create(ctx context.Context, thread *Thread) error
	FindByFilter(ctx context.Context, filter ThreadFilter, pagination *query.Pagination) ([]*Thread, error)
	Count(ctx context.Context, filter ThreadFilter) (int64, error)
	FindByID(ctx context.Context, id uint) (*Thread, error)
	FindByPublicID(ctx context.Context, publicID string) (*Thread, error)
	Update(ctx context.Context, thread *Thread) error
	// Delete removes the thread together with its messages and share links
	// in a single transaction.
	Delete(ctx context.Context, id uint) error
}

// ===============================================
// Thread Factory Functions
// ===============================================

// NewThread creates a thread owned by ownerID. Visibility defaults to
// private when empty.
func NewThread(publicID string, ownerID string, title *string, visibility Visibility) *Thread {
	now := time.Now()
	if visibility == "" {
		visibility = VisibilityPrivate
	}
	return &Thread{
		PublicID:   publicID,
		OwnerID:    ownerID,
		Title:      title,
		Visibility: visibility,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}
