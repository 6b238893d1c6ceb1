package thread

import (
	"context"
	"strings"

	"jan-server/services/thread-api/internal/domain/query"
	"jan-server/services/thread-api/internal/utils/idgen"
	"jan-server/services/thread-api/internal/utils/platformerrors"
	"jan-server/services/thread-api/internal/utils/stringutils"
)

// TitleGenerator is the external title-generation collaborator. Failures
// surface as external errors and leave the stored title unchanged.
type TitleGenerator interface {
	GenerateTitle(ctx context.Context, userQuery string) (string, error)
}

// ThreadService handles business logic for threads
type ThreadService struct {
	threads   ThreadRepository
	messages  MessageRepository
	titleGen  TitleGenerator
	validator *Validator
}

// NewThreadService creates a new thread service
func NewThreadService(threads ThreadRepository, messages MessageRepository, titleGen TitleGenerator) *ThreadService {
	return &ThreadService{
		threads:   threads,
		messages:  messages,
		titleGen:  titleGen,
		validator: NewValidator(nil),
	}
}

// ===============================================
// Core CRUD Operations
// ===============================================

// CreateThreadInput represents the input for creating a thread
type CreateThreadInput struct {
	OwnerID    string
	Title      *string
	Visibility Visibility
}

// CreateThread creates a new thread owned by the requester
func (s *ThreadService) CreateThread(ctx context.Context, input CreateThreadInput) (*Thread, error) {
	publicID, err := idgen.GenerateSecureID("th", 16)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to generate thread ID")
	}

	t := NewThread(publicID, input.OwnerID, input.Title, input.Visibility)
	if err := s.validator.ValidateThread(t); err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, "thread validation failed", err, "74c1a2ce-09cf-4a35-9f5e-1d2b8a7c4e90")
	}

	if err := s.threads.Create(ctx, t); err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to create thread")
	}
	return t, nil
}

// ListThreads returns the requester's threads ordered most-recently-active
// first, with the total count for pagination.
func (s *ThreadService) ListThreads(ctx context.Context, ownerID string, pagination *query.Pagination) ([]*Thread, int64, error) {
	filter := ThreadFilter{OwnerID: &ownerID}

	threads, err := s.threads.FindByFilter(ctx, filter, pagination)
	if err != nil {
		return nil, 0, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to list threads")
	}

	total, err := s.threads.Count(ctx, filter)
	if err != nil {
		return nil, 0, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to count threads")
	}
	return threads, total, nil
}

// GetThread retrieves a thread, enforcing read access: missing threads are
// not found, private threads are forbidden to non-owners.
func (s *ThreadService) GetThread(ctx context.Context, requesterID, publicID string) (*Thread, error) {
	if err := s.validator.ValidateThreadID(publicID); err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, "invalid thread ID", err, "0c3f5a18-64f2-4d2b-8cf1-9be2a74d310a")
	}

	t, err := s.threads.FindByPublicID(ctx, publicID)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "thread not found")
	}

	if !t.IsReadableBy(requesterID) {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeForbidden, "you don't have permission to view this thread", nil, "58a9d4f1-7e26-4b03-bc4d-f12e60c89b77")
	}
	return t, nil
}

// GetOwnedThread retrieves a thread, requiring the requester to own it.
// Used by every mutation path.
func (s *ThreadService) GetOwnedThread(ctx context.Context, ownerID, publicID string) (*Thread, error) {
	if err := s.validator.ValidateThreadID(publicID); err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, "invalid thread ID", err, "c61b2a9e-38d0-4f74-9b8f-5a4ce2d7013f")
	}

	t, err := s.threads.FindByPublicID(ctx, publicID)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "thread not found")
	}

	if !t.IsOwnedBy(ownerID) {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeForbidden, "you don't have permission to modify this thread", nil, "9f7d0b2c-1ae4-45f8-8d36-eb5c92a1470d")
	}
	return t, nil
}

// DeleteThread removes a thread together with all its messages and share
// links. A second call for the same ID fails with not found.
func (s *ThreadService) DeleteThread(ctx context.Context, ownerID, publicID string) error {
	t, err := s.GetOwnedThread(ctx, ownerID, publicID)
	if err != nil {
		return err
	}

	if err := s.threads.Delete(ctx, t.ID); err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to delete thread")
	}
	return nil
}

// SetVisibility toggles a thread between private and public
func (s *ThreadService) SetVisibility(ctx context.Context, ownerID, publicID string, visibility Visibility) (*Thread, error) {
	if !ValidateVisibility(string(visibility)) {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, "invalid visibility value", nil, "2d8ea6c0-4571-4f3b-a9d2-7c0b14f8e365")
	}

	t, err := s.GetOwnedThread(ctx, ownerID, publicID)
	if err != nil {
		return nil, err
	}

	t.Visibility = visibility
	t.Touch()
	if err := s.threads.Update(ctx, t); err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to update thread visibility")
	}
	return t, nil
}

// ===============================================
// Branching
// ===============================================

// BranchThreadInput represents the input for branching a thread
type BranchThreadInput struct {
	RequesterID      string
	OriginalThreadID string
	AnchorMessageID  string
	// NewThreadID is an optional client-suggested public ID for the branch;
	// collisions are rejected with a conflict.
	NewThreadID *string
}

// BranchThread creates a new thread seeded with copies of the original
// thread's messages up to and including the anchor. The copies get fresh
// identities and keep their relative order; the new thread records the
// origin for lookup.
func (s *ThreadService) BranchThread(ctx context.Context, input BranchThreadInput) (*Thread, error) {
	original, err := s.GetThread(ctx, input.RequesterID, input.OriginalThreadID)
	if err != nil {
		return nil, err
	}

	if err := s.validator.ValidateMessageID(input.AnchorMessageID); err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, "invalid anchor message ID", err, "e40c81b5-6af9-4728-93d1-0b5f27ac8e46")
	}

	anchor, err := s.messages.FindByPublicID(ctx, input.AnchorMessageID)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "anchor message not found")
	}
	if anchor.ThreadID != original.ID {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, "anchor message does not belong to the original thread", nil, "7b1f4e92-d380-4c65-a217-c9d52f60ab38")
	}

	newPublicID := ""
	if input.NewThreadID != nil && *input.NewThreadID != "" {
		if err := s.validator.ValidateThreadID(*input.NewThreadID); err != nil {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, "invalid new thread ID", err, "1ad6f083-92b7-4ec1-bd45-38e0c6a2f719")
		}
		if existing, findErr := s.threads.FindByPublicID(ctx, *input.NewThreadID); findErr == nil && existing != nil {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeConflict, "thread ID already in use", nil, "b3e07c54-f1a8-4d92-86c3-da412b95e670")
		}
		newPublicID = *input.NewThreadID
	} else {
		newPublicID, err = idgen.GenerateSecureID("th", 16)
		if err != nil {
			return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to generate thread ID")
		}
	}

	branched := NewThread(newPublicID, input.RequesterID, original.Title, VisibilityPrivate)
	branched.OriginThreadID = &original.PublicID
	if err := s.threads.Create(ctx, branched); err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to create branched thread")
	}

	prefix, err := s.messages.FindByThreadIDUpTo(ctx, original.ID, anchor.Sequence)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to load messages to copy")
	}

	copies := make([]*Message, 0, len(prefix))
	for _, m := range prefix {
		msgID, genErr := idgen.GenerateSecureID("msg", 16)
		if genErr != nil {
			return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, genErr, "failed to generate message ID")
		}
		copies = append(copies, m.CopyForBranch(msgID, branched.ID))
	}

	if len(copies) > 0 {
		if err := s.messages.BulkCreate(ctx, copies); err != nil {
			return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to copy messages into branch")
		}
	}
	return branched, nil
}

// ===============================================
// Title Generation
// ===============================================

// GenerateTitle asks the external title generator for a short title derived
// from the user's query and persists it on the thread.
func (s *ThreadService) GenerateTitle(ctx context.Context, ownerID, publicID, userQuery string) (*Thread, error) {
	if strings.TrimSpace(userQuery) == "" {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, "user query cannot be empty", nil, "6e92cb07-3f41-48da-b1e6-50c78d2a43f9")
	}

	t, err := s.GetOwnedThread(ctx, ownerID, publicID)
	if err != nil {
		return nil, err
	}

	title, err := s.titleGen.GenerateTitle(ctx, userQuery)
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeExternal, "title generation failed", err, "f85a31d6-0cb2-4e97-ad04-217e9b6c58f1")
	}

	shaped := stringutils.ShapeTitle(title)
	t.Title = &shaped
	t.Touch()
	if err := s.threads.Update(ctx, t); err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to persist generated title")
	}
	return t, nil
}
