package share

import (
	"context"

	"jan-server/services/thread-api/internal/domain/query"
	"jan-server/services/thread-api/internal/domain/thread"
	"jan-server/services/thread-api/internal/utils/platformerrors"
)

// ShareService handles business logic for thread sharing.
type ShareService struct {
	repo           ShareLinkRepository
	threadRepo     thread.ThreadRepository
	messageRepo    thread.MessageRepository
	tokenGenerator *TokenGenerator
}

// NewShareService creates a new share service.
func NewShareService(repo ShareLinkRepository, threadRepo thread.ThreadRepository, messageRepo thread.MessageRepository) *ShareService {
	return &ShareService{
		repo:           repo,
		threadRepo:     threadRepo,
		messageRepo:    messageRepo,
		tokenGenerator: NewTokenGenerator(repo),
	}
}

// CreateShareInput contains the input for creating a share link.
type CreateShareInput struct {
	OwnerID             string
	ThreadPublicID      string
	SharedUpToMessageID string
	// Token optionally pins a client-chosen token. When nil a random
	// one is generated server-side.
	Token *string
}

// CreateShare creates a share link for a thread up to a given message.
// Only the thread owner may share, and the cutoff message must belong to
// the thread being shared.
func (s *ShareService) CreateShare(ctx context.Context, input CreateShareInput) (*ShareLink, error) {
	th, err := s.threadRepo.FindByPublicID(ctx, input.ThreadPublicID)
	if err != nil {
		return nil, platformerrors.AsErrorWithUUID(ctx, platformerrors.LayerDomain, err, "thread not found", "b41f8d02-6a3e-4c95-8d17-2f0e9a5c7b36")
	}

	if !th.IsOwnedBy(input.OwnerID) {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeForbidden,
			"you do not have permission to share this thread", nil, "3c7a1e95-8f40-4d26-b3a8-5e9d0c2f6a14")
	}

	cutoff, err := s.messageRepo.FindByPublicID(ctx, input.SharedUpToMessageID)
	if err != nil {
		return nil, platformerrors.AsErrorWithUUID(ctx, platformerrors.LayerDomain, err, "cutoff message not found", "9d5b2c80-4e17-4f63-a29b-7c1f8e0d4a52")
	}
	if cutoff.ThreadID != th.ID {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"message does not belong to the shared thread", nil, "6e0c4f29-1b7d-4a85-9c36-d82e5f1a0b73")
	}

	var token string
	if input.Token != nil && *input.Token != "" {
		if !ValidateToken(*input.Token) {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
				"token must be 8-64 base62 characters", nil, "2a8e6d13-9c50-4b78-8f24-1e7b3d9c5f06")
		}
		exists, err := s.repo.TokenExists(ctx, *input.Token)
		if err != nil {
			return nil, platformerrors.AsErrorWithUUID(ctx, platformerrors.LayerDomain, err, "failed to check token", "7f3d9a46-0e82-4c15-b6d9-4a28c7e1f503")
		}
		if exists {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeConflict,
				"share token already exists", nil, "e15c7b38-2d94-4f60-a7c1-8b5e0d3f9a27")
		}
		token = *input.Token
	} else {
		token, err = s.tokenGenerator.GenerateUniqueToken(ctx)
		if err != nil {
			return nil, platformerrors.AsErrorWithUUID(ctx, platformerrors.LayerDomain, err, "failed to generate share token", "48a2f6e0-7c19-4d53-9b84-e30d1c5a7f62")
		}
	}

	link := &ShareLink{
		Token:               token,
		ThreadID:            th.ID,
		ThreadPublicID:      th.PublicID,
		OwnerID:             input.OwnerID,
		SharedUpToMessageID: cutoff.PublicID,
		CutoffSequence:      cutoff.Sequence,
	}

	if err := s.repo.Create(ctx, link); err != nil {
		// A racing insert can still trip the unique token constraint.
		if platformerrors.IsErrorType(err, platformerrors.ErrorTypeConflict) {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeConflict,
				"share token already exists", err, "5b9e1d74-3f06-4a82-c5d7-0e2a8c4f6b19")
		}
		return nil, platformerrors.AsErrorWithUUID(ctx, platformerrors.LayerDomain, err, "failed to create share link", "0d6f2a85-4b13-4e97-8a60-c71e9d3b5f24")
	}

	return link, nil
}

// ListShares lists all share links owned by a user.
func (s *ShareService) ListShares(ctx context.Context, ownerID string, pagination *query.Pagination) ([]*ShareLink, error) {
	filter := ShareLinkFilter{OwnerID: &ownerID}

	links, err := s.repo.FindByFilter(ctx, filter, pagination)
	if err != nil {
		return nil, platformerrors.AsErrorWithUUID(ctx, platformerrors.LayerDomain, err, "failed to list share links", "c38a5e16-9d72-4f04-b1c8-6e0f2d7a4b93")
	}

	return links, nil
}

// DeleteShare removes a share link by token. Links owned by other users
// are reported as not found rather than forbidden so tokens cannot be
// probed for existence.
func (s *ShareService) DeleteShare(ctx context.Context, ownerID string, token string) error {
	link, err := s.repo.FindByToken(ctx, token)
	if err != nil {
		return platformerrors.AsErrorWithUUID(ctx, platformerrors.LayerDomain, err, "share link not found", "1e7c4b90-5a28-4d36-9f15-b82d0e6a3c57")
	}

	if !link.IsOwnedBy(ownerID) {
		return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound,
			"share link not found", nil, "a92d6f35-0c81-4e47-b3a9-7d14e8c0f5b6")
	}

	return s.repo.Delete(ctx, link.ID)
}

// PurgeDangling removes share links whose thread or cutoff message is
// gone. It returns the number of links removed.
func (s *ShareService) PurgeDangling(ctx context.Context) (int64, error) {
	purged, err := s.repo.DeleteDangling(ctx)
	if err != nil {
		return 0, platformerrors.AsErrorWithUUID(ctx, platformerrors.LayerDomain, err, "failed to purge dangling share links", "d94a2e57-1c80-4b36-9f62-7e05b3d8a1c4")
	}
	return purged, nil
}

// ResolveShareOutput is the public payload a share token resolves to.
type ResolveShareOutput struct {
	Thread   *thread.Thread
	Messages []*thread.Message
}

// ResolveShare resolves a token into the shared thread and the messages
// up to and including the pinned cutoff in conversation order. It needs
// no authentication and ignores the thread's visibility.
func (s *ShareService) ResolveShare(ctx context.Context, token string) (*ResolveShareOutput, error) {
	if !ValidateToken(token) {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound,
			"share link not found", nil, "f60b3d28-7e95-4a14-c8b2-5d07f1e9a3c4")
	}

	link, err := s.repo.FindByToken(ctx, token)
	if err != nil {
		return nil, platformerrors.AsErrorWithUUID(ctx, platformerrors.LayerDomain, err, "share link not found", "84e1c5a7-2f39-4b06-9d58-0c6b3e7f2a91")
	}

	th, err := s.threadRepo.FindByID(ctx, link.ThreadID)
	if err != nil {
		return nil, platformerrors.AsErrorWithUUID(ctx, platformerrors.LayerDomain, err, "shared thread no longer exists", "37f0a8d2-6b54-4c91-8e23-d95a1f4c0e68")
	}

	messages, err := s.messageRepo.FindByThreadIDUpTo(ctx, link.ThreadID, link.CutoffSequence)
	if err != nil {
		return nil, platformerrors.AsErrorWithUUID(ctx, platformerrors.LayerDomain, err, "failed to load shared messages", "b05d9e41-8a27-4f63-a1c5-3e82d6f0b794")
	}

	return &ResolveShareOutput{
		Thread:   th,
		Messages: messages,
	}, nil
}
