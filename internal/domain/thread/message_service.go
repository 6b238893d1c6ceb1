package thread

import (
	"context"

	"jan-server/services/thread-api/internal/infrastructure/logger"
	"jan-server/services/thread-api/internal/utils/idgen"
	"jan-server/services/thread-api/internal/utils/platformerrors"
)

// MessageService handles message submission, edits, and the trailing
// deletion operations behind "regenerate from here".
type MessageService struct {
	threads   ThreadRepository
	messages  MessageRepository
	validator *Validator
}

// NewMessageService creates a new message service
func NewMessageService(threads ThreadRepository, messages MessageRepository) *MessageService {
	return &MessageService{
		threads:   threads,
		messages:  messages,
		validator: NewValidator(nil),
	}
}

// ===============================================
// Message Submission and Listing
// ===============================================

// PostMessageInput represents the input for appending a message
type PostMessageInput struct {
	RequesterID string
	ThreadID    string // Thread public ID
	Role        MessageRole
	Content     *string
	Parts       []Part
	Model       *string
	Status      *MessageStatus
	Annotations []Annotation
}

// PostMessage appends a message at the end of the thread's order. Only the
// thread owner may write.
func (s *MessageService) PostMessage(ctx context.Context, input PostMessageInput) (*Message, error) {
	t, err := s.ownedThread(ctx, input.RequesterID, input.ThreadID)
	if err != nil {
		return nil, err
	}

	publicID, err := idgen.GenerateSecureID("msg", 16)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to generate message ID")
	}

	m := NewMessage(publicID, t.ID, input.Role, input.Content, input.Parts)
	m.Model = input.Model
	m.Annotations = input.Annotations
	if input.Status != nil {
		m.Status = *input.Status
	}

	if err := s.validator.ValidateNewMessage(m); err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, "message validation failed", err, "38b4f2d7-91ce-4a60-b5d8-e7013fa6c924")
	}

	if err := s.messages.Create(ctx, m); err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to create message")
	}

	s.touchThread(ctx, t)
	return m, nil
}

// ListMessages returns the thread's messages in ascending creation order.
// Read access follows the thread's visibility.
func (s *MessageService) ListMessages(ctx context.Context, requesterID, threadPublicID string) ([]*Message, error) {
	if err := s.validator.ValidateThreadID(threadPublicID); err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, "invalid thread ID", err, "a27e50b9-c4d3-4f18-9e62-08b1f5da7c36")
	}

	t, err := s.threads.FindByPublicID(ctx, threadPublicID)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "thread not found")
	}
	if !t.IsReadableBy(requesterID) {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeForbidden, "you don't have permission to view this thread", nil, "5c0d92e8-71bf-4a43-b6d0-e9f8234a16c5")
	}

	messages, err := s.messages.FindByThreadID(ctx, t.ID)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to list messages")
	}
	return messages, nil
}

// GetOwnedMessage retrieves a message, requiring the requester to own the
// parent thread.
func (s *MessageService) GetOwnedMessage(ctx context.Context, ownerID, messagePublicID string) (*Message, *Thread, error) {
	if err := s.validator.ValidateMessageID(messagePublicID); err != nil {
		return nil, nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, "invalid message ID", err, "d91c3b07-28ea-4f56-a0d4-7cb65e19f283")
	}

	m, err := s.messages.FindByPublicID(ctx, messagePublicID)
	if err != nil {
		return nil, nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "message not found")
	}

	t, err := s.threads.FindByID(ctx, m.ThreadID)
	if err != nil {
		return nil, nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "thread not found for message")
	}
	if !t.IsOwnedBy(ownerID) {
		return nil, nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeForbidden, "you don't have permission to modify this message", nil, "3f6a81d2-b09c-4e75-92f8-c54d07be31a6")
	}
	return m, t, nil
}

// ===============================================
// Message Mutation
// ===============================================

// UpdateMessageInput represents a partial message update; nil fields are
// left unchanged.
type UpdateMessageInput struct {
	Content      *string
	Parts        []Part
	Status       *MessageStatus
	ErrorMessage *string
}

// UpdateMessage applies a partial update to a message owned by the
// requester's thread.
func (s *MessageService) UpdateMessage(ctx context.Context, ownerID, messagePublicID string, input UpdateMessageInput) (*Message, error) {
	m, _, err := s.GetOwnedMessage(ctx, ownerID, messagePublicID)
	if err != nil {
		return nil, err
	}

	if input.Content != nil {
		m.Content = input.Content
	}
	if input.Parts != nil {
		if err := s.validator.ValidateParts(input.Parts); err != nil {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, "invalid message parts", err, "80d5c2f9-4ab7-4631-9ce0-16f3a8d27b54")
		}
		m.Parts = input.Parts
	}
	if input.Status != nil {
		if !ValidateMessageStatus(string(*input.Status)) {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, "invalid message status", nil, "47e9b0a3-d18c-4f27-85b6-92c04fe6d1a8")
		}
		m.Status = *input.Status
	}
	if input.ErrorMessage != nil {
		if err := s.validator.ValidateErrorMessage(*input.ErrorMessage); err != nil {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, "invalid error message", err, "be25d708-63fa-4c19-a840-5d97c13e20f6")
		}
		m.ErrorMessage = input.ErrorMessage
	}

	if err := s.messages.Update(ctx, m); err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to update message")
	}
	return m, nil
}

// DeleteMessage removes exactly one message. Share links whose cutoff was
// this message are removed with it at the storage layer.
func (s *MessageService) DeleteMessage(ctx context.Context, ownerID, messagePublicID string) error {
	m, t, err := s.GetOwnedMessage(ctx, ownerID, messagePublicID)
	if err != nil {
		return err
	}

	if err := s.messages.Delete(ctx, m.ID); err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to delete message")
	}

	s.touchThread(ctx, t)
	return nil
}

// DeleteTrailing deletes all messages in the same thread with creation
// order strictly after the given message; when inclusive, the message
// itself is deleted too. Returns the number of deleted messages.
func (s *MessageService) DeleteTrailing(ctx context.Context, ownerID, messagePublicID string, inclusive bool) (int64, error) {
	m, t, err := s.GetOwnedMessage(ctx, ownerID, messagePublicID)
	if err != nil {
		return 0, err
	}

	deletedIDs, err := s.messages.DeleteTrailing(ctx, m.ThreadID, m.Sequence, inclusive)
	if err != nil {
		return 0, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to delete trailing messages")
	}

	s.touchThread(ctx, t)
	return int64(len(deletedIDs)), nil
}

// touchThread bumps the thread's recency timestamp. The caller's primary
// write already succeeded, so a failure here is logged rather than returned.
func (s *MessageService) touchThread(ctx context.Context, t *Thread) {
	t.Touch()
	if err := s.threads.Update(ctx, t); err != nil {
		log := logger.GetLogger()
		log.Warn().Err(err).Str("thread_id", t.PublicID).Msg("failed to touch thread after message write")
	}
}

func (s *MessageService) ownedThread(ctx context.Context, ownerID, threadPublicID string) (*Thread, error) {
	if err := s.validator.ValidateThreadID(threadPublicID); err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, "invalid thread ID", err, "16c80f5d-a924-4be3-b7d1-03f6e5a29c48")
	}

	t, err := s.threads.FindByPublicID(ctx, threadPublicID)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "thread not found")
	}
	if !t.IsOwnedBy(ownerID) {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeForbidden, "you don't have permission to post to this thread", nil, "ab42e617-09dc-4358-bf20-6c1d87e3f095")
	}
	return t, nil
}
