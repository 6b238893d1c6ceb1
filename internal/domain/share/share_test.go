package share_test

import (
	"context"
	"errors"
	"testing"

	"jan-server/services/thread-api/internal/domain/query"
	"jan-server/services/thread-api/internal/domain/share"
	"jan-server/services/thread-api/internal/domain/thread"
	"jan-server/services/thread-api/internal/utils/platformerrors"
)

// mockShareLinkRepository is an in-memory ShareLinkRepository for testing
type mockShareLinkRepository struct {
	links  map[string]*share.ShareLink
	nextID uint
}

func newMockShareLinkRepository() *mockShareLinkRepository {
	return &mockShareLinkRepository{links: make(map[string]*share.ShareLink)}
}

func (m *mockShareLinkRepository) Create(ctx context.Context, link *share.ShareLink) error {
	if _, ok := m.links[link.Token]; ok {
		return errors.New("duplicate key value violates unique constraint")
	}
	m.nextID++
	link.ID = m.nextID
	m.links[link.Token] = link
	return nil
}

func (m *mockShareLinkRepository) FindByFilter(ctx context.Context, filter share.ShareLinkFilter, pagination *query.Pagination) ([]*share.ShareLink, error) {
	var out []*share.ShareLink
	for _, l := range m.links {
		if filter.OwnerID != nil && l.OwnerID != *filter.OwnerID {
			continue
		}
		if filter.ThreadID != nil && l.ThreadID != *filter.ThreadID {
			continue
		}
		out = append(out, l)
	}
	return out, nil
}

func (m *mockShareLinkRepository) Count(ctx context.Context, filter share.ShareLinkFilter) (int64, error) {
	links, _ := m.FindByFilter(ctx, filter, nil)
	return int64(len(links)), nil
}

func (m *mockShareLinkRepository) FindByID(ctx context.Context, id uint) (*share.ShareLink, error) {
	for _, l := range m.links {
		if l.ID == id {
			return l, nil
		}
	}
	return nil, platformerrors.NewError(context.Background(), platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound, "share link not found", nil, "00000000-0000-4000-8000-000000000001")
}

func (m *mockShareLinkRepository) FindByToken(ctx context.Context, token string) (*share.ShareLink, error) {
	if l, ok := m.links[token]; ok {
		return l, nil
	}
	return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound, "share link not found", nil, "00000000-0000-4000-8000-000000000002")
}

func (m *mockShareLinkRepository) TokenExists(ctx context.Context, token string) (bool, error) {
	_, ok := m.links[token]
	return ok, nil
}

func (m *mockShareLinkRepository) Delete(ctx context.Context, id uint) error {
	for token, l := range m.links {
		if l.ID == id {
			delete(m.links, token)
			return nil
		}
	}
	return platformerrors.NewError(context.Background(), platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound, "share link not found", nil, "00000000-0000-4000-8000-000000000003")
}

func (m *mockShareLinkRepository) DeleteDangling(ctx context.Context) (int64, error) {
	return 0, nil
}

// mockThreadRepository serves fixed threads keyed by public ID
type mockThreadRepository struct {
	threads map[string]*thread.Thread
}

func (m *mockThreadRepository) Create(ctx context.Context, th *thread.Thread) error { return nil }
func (m *mockThreadRepository) FindByFilter(ctx context.Context, filter thread.ThreadFilter, pagination *query.Pagination) ([]*thread.Thread, error) {
	return nil, nil
}
func (m *mockThreadRepository) Count(ctx context.Context, filter thread.ThreadFilter) (int64, error) {
	return 0, nil
}
func (m *mockThreadRepository) FindByID(ctx context.Context, id uint) (*thread.Thread, error) {
	for _, th := range m.threads {
		if th.ID == id {
			return th, nil
		}
	}
	return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound, "thread not found", nil, "00000000-0000-4000-8000-000000000004")
}
func (m *mockThreadRepository) FindByPublicID(ctx context.Context, publicID string) (*thread.Thread, error) {
	if th, ok := m.threads[publicID]; ok {
		return th, nil
	}
	return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound, "thread not found", nil, "00000000-0000-4000-8000-000000000005")
}
func (m *mockThreadRepository) Update(ctx context.Context, th *thread.Thread) error { return nil }
func (m *mockThreadRepository) Delete(ctx context.Context, id uint) error           { return nil }

// mockMessageRepository serves fixed messages in conversation order
type mockMessageRepository struct {
	messages []*thread.Message
}

func (m *mockMessageRepository) Create(ctx context.Context, msg *thread.Message) error { return nil }
func (m *mockMessageRepository) BulkCreate(ctx context.Context, msgs []*thread.Message) error {
	return nil
}
func (m *mockMessageRepository) FindByID(ctx context.Context, id uint) (*thread.Message, error) {
	return nil, nil
}
func (m *mockMessageRepository) FindByPublicID(ctx context.Context, publicID string) (*thread.Message, error) {
	for _, msg := range m.messages {
		if msg.PublicID == publicID {
			return msg, nil
		}
	}
	return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound, "message not found", nil, "00000000-0000-4000-8000-000000000006")
}
func (m *mockMessageRepository) FindByThreadID(ctx context.Context, threadID uint) ([]*thread.Message, error) {
	var out []*thread.Message
	for _, msg := range m.messages {
		if msg.ThreadID == threadID {
			out = append(out, msg)
		}
	}
	return out, nil
}
func (m *mockMessageRepository) FindByThreadIDUpTo(ctx context.Context, threadID uint, maxSequence int) ([]*thread.Message, error) {
	var out []*thread.Message
	for _, msg := range m.messages {
		if msg.ThreadID == threadID && msg.Sequence <= maxSequence {
			out = append(out, msg)
		}
	}
	return out, nil
}
func (m *mockMessageRepository) Count(ctx context.Context, filter thread.MessageFilter) (int64, error) {
	return int64(len(m.messages)), nil
}
func (m *mockMessageRepository) Update(ctx context.Context, msg *thread.Message) error { return nil }
func (m *mockMessageRepository) Delete(ctx context.Context, id uint) error             { return nil }
func (m *mockMessageRepository) DeleteTrailing(ctx context.Context, threadID uint, sequence int, inclusive bool) ([]string, error) {
	return nil, nil
}

func strPtr(s string) *string { return &s }

func newFixture() (*share.ShareService, *mockShareLinkRepository) {
	threads := &mockThreadRepository{threads: map[string]*thread.Thread{
		"th_alpha1234567890ab": {ID: 1, PublicID: "th_alpha1234567890ab", OwnerID: "user_1", Visibility: thread.VisibilityPrivate},
	}}
	messages := &mockMessageRepository{messages: []*thread.Message{
		{ID: 10, ThreadID: 1, PublicID: "msg_a000000000000000", Role: thread.MessageRoleUser, Content: strPtr("first"), Sequence: 1},
		{ID: 11, ThreadID: 1, PublicID: "msg_b000000000000000", Role: thread.MessageRoleAssistant, Content: strPtr("second"), Sequence: 2},
		{ID: 12, ThreadID: 1, PublicID: "msg_c000000000000000", Role: thread.MessageRoleUser, Content: strPtr("third"), Sequence: 3},
		{ID: 20, ThreadID: 2, PublicID: "msg_other00000000000", Role: thread.MessageRoleUser, Content: strPtr("elsewhere"), Sequence: 1},
	}}
	repo := newMockShareLinkRepository()
	return share.NewShareService(repo, threads, messages), repo
}

func TestCreateShare_OwnerOnly(t *testing.T) {
	svc, _ := newFixture()

	_, err := svc.CreateShare(context.Background(), share.CreateShareInput{
		OwnerID:             "user_2",
		ThreadPublicID:      "th_alpha1234567890ab",
		SharedUpToMessageID: "msg_b000000000000000",
	})
	if err == nil {
		t.Fatal("expected error for non-owner share attempt")
	}
	if !platformerrors.IsErrorType(err, platformerrors.ErrorTypeForbidden) {
		t.Errorf("expected forbidden error, got %v", err)
	}
}

func TestCreateShare_CutoffMustBelongToThread(t *testing.T) {
	svc, _ := newFixture()

	_, err := svc.CreateShare(context.Background(), share.CreateShareInput{
		OwnerID:             "user_1",
		ThreadPublicID:      "th_alpha1234567890ab",
		SharedUpToMessageID: "msg_other00000000000",
	})
	if err == nil {
		t.Fatal("expected error for cutoff from another thread")
	}
	if !platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestCreateShare_GeneratesToken(t *testing.T) {
	svc, _ := newFixture()

	link, err := svc.CreateShare(context.Background(), share.CreateShareInput{
		OwnerID:             "user_1",
		ThreadPublicID:      "th_alpha1234567890ab",
		SharedUpToMessageID: "msg_b000000000000000",
	})
	if err != nil {
		t.Fatalf("CreateShare() error = %v", err)
	}
	if !share.ValidateToken(link.Token) {
		t.Errorf("generated token %q is not valid base62", link.Token)
	}
	if len(link.Token) != share.TokenLength {
		t.Errorf("token length = %d, want %d", len(link.Token), share.TokenLength)
	}
	if link.SharedUpToMessageID != "msg_b000000000000000" {
		t.Errorf("cutoff message = %q, want msg_b000000000000000", link.SharedUpToMessageID)
	}
	if link.CutoffSequence != 2 {
		t.Errorf("cutoff sequence = %d, want 2", link.CutoffSequence)
	}
}

func TestCreateShare_ClientTokenCollision(t *testing.T) {
	svc, _ := newFixture()

	token := "customtoken12345"
	_, err := svc.CreateShare(context.Background(), share.CreateShareInput{
		OwnerID:             "user_1",
		ThreadPublicID:      "th_alpha1234567890ab",
		SharedUpToMessageID: "msg_a000000000000000",
		Token:               &token,
	})
	if err != nil {
		t.Fatalf("first CreateShare() error = %v", err)
	}

	_, err = svc.CreateShare(context.Background(), share.CreateShareInput{
		OwnerID:             "user_1",
		ThreadPublicID:      "th_alpha1234567890ab",
		SharedUpToMessageID: "msg_b000000000000000",
		Token:               &token,
	})
	if err == nil {
		t.Fatal("expected error for duplicate token")
	}
	if !platformerrors.IsErrorType(err, platformerrors.ErrorTypeConflict) {
		t.Errorf("expected conflict error, got %v", err)
	}
}

func TestResolveShare_MessagesUpToCutoff(t *testing.T) {
	svc, _ := newFixture()

	link, err := svc.CreateShare(context.Background(), share.CreateShareInput{
		OwnerID:             "user_1",
		ThreadPublicID:      "th_alpha1234567890ab",
		SharedUpToMessageID: "msg_b000000000000000",
	})
	if err != nil {
		t.Fatalf("CreateShare() error = %v", err)
	}

	out, err := svc.ResolveShare(context.Background(), link.Token)
	if err != nil {
		t.Fatalf("ResolveShare() error = %v", err)
	}
	if out.Thread.PublicID != "th_alpha1234567890ab" {
		t.Errorf("resolved thread = %q, want th_alpha1234567890ab", out.Thread.PublicID)
	}
	if len(out.Messages) != 2 {
		t.Fatalf("resolved %d messages, want 2", len(out.Messages))
	}
	if out.Messages[0].PublicID != "msg_a000000000000000" || out.Messages[1].PublicID != "msg_b000000000000000" {
		t.Errorf("resolved wrong messages: %s, %s", out.Messages[0].PublicID, out.Messages[1].PublicID)
	}
}

func TestResolveShare_UnknownToken(t *testing.T) {
	svc, _ := newFixture()

	_, err := svc.ResolveShare(context.Background(), "nosuchtoken000000000AA")
	if err == nil {
		t.Fatal("expected error for unknown token")
	}
	if !platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound) {
		t.Errorf("expected not_found error, got %v", err)
	}
}

func TestDeleteShare_NotOwnerReportsNotFound(t *testing.T) {
	svc, repo := newFixture()

	link, err := svc.CreateShare(context.Background(), share.CreateShareInput{
		OwnerID:             "user_1",
		ThreadPublicID:      "th_alpha1234567890ab",
		SharedUpToMessageID: "msg_a000000000000000",
	})
	if err != nil {
		t.Fatalf("CreateShare() error = %v", err)
	}

	err = svc.DeleteShare(context.Background(), "user_2", link.Token)
	if err == nil {
		t.Fatal("expected error deleting another user's share")
	}
	if !platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound) {
		t.Errorf("expected not_found error, got %v", err)
	}
	if len(repo.links) != 1 {
		t.Errorf("link should still exist, repo has %d links", len(repo.links))
	}

	if err := svc.DeleteShare(context.Background(), "user_1", link.Token); err != nil {
		t.Fatalf("owner DeleteShare() error = %v", err)
	}
	if len(repo.links) != 0 {
		t.Errorf("link should be gone, repo has %d links", len(repo.links))
	}
}

func TestListShares_FiltersByOwner(t *testing.T) {
	svc, _ := newFixture()

	for _, cutoff := range []string{"msg_a000000000000000", "msg_b000000000000000"} {
		if _, err := svc.CreateShare(context.Background(), share.CreateShareInput{
			OwnerID:             "user_1",
			ThreadPublicID:      "th_alpha1234567890ab",
			SharedUpToMessageID: cutoff,
		}); err != nil {
			t.Fatalf("CreateShare() error = %v", err)
		}
	}

	links, err := svc.ListShares(context.Background(), "user_1", nil)
	if err != nil {
		t.Fatalf("ListShares() error = %v", err)
	}
	if len(links) != 2 {
		t.Errorf("ListShares() returned %d links, want 2", len(links))
	}

	other, err := svc.ListShares(context.Background(), "user_2", nil)
	if err != nil {
		t.Fatalf("ListShares() error = %v", err)
	}
	if len(other) != 0 {
		t.Errorf("ListShares() for other user returned %d links, want 0", len(other))
	}
}

func TestShareLink_GetShareURL(t *testing.T) {
	l := &share.ShareLink{Token: "ABCDEFGHIJKLMNOPQRSTuv"}
	expected := "https://example.com/v1/shares/ABCDEFGHIJKLMNOPQRSTuv/data"

	if got := l.GetShareURL("https://example.com"); got != expected {
		t.Errorf("GetShareURL() = %q, want %q", got, expected)
	}
}
