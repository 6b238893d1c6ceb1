package thread_test

import (
	"context"
	"errors"
	"testing"

	"jan-server/services/thread-api/internal/domain/thread"
	"jan-server/services/thread-api/internal/utils/platformerrors"
)

func newMessageFixture(t *testing.T) (*thread.MessageService, *thread.Thread, *memMessageRepo) {
	t.Helper()
	threads := newMemThreadRepo()
	messages := newMemMessageRepo()
	threadSvc := thread.NewThreadService(threads, messages, &fakeTitleGenerator{title: "t"})
	th := mustCreateThread(t, threadSvc, "user_1")
	return thread.NewMessageService(threads, messages), th, messages
}

func TestPostMessage_AssignsSequenceInOrder(t *testing.T) {
	svc, th, _ := newMessageFixture(t)

	for _, text := range []string{"first", "second", "third"} {
		content := text
		if _, err := svc.PostMessage(context.Background(), thread.PostMessageInput{
			RequesterID: "user_1",
			ThreadID:    th.PublicID,
			Role:        thread.MessageRoleUser,
			Content:     &content,
		}); err != nil {
			t.Fatalf("PostMessage(%q) error = %v", text, err)
		}
	}

	listed, err := svc.ListMessages(context.Background(), "user_1", th.PublicID)
	if err != nil {
		t.Fatalf("ListMessages() error = %v", err)
	}
	if len(listed) != 3 {
		t.Fatalf("listed %d messages, want 3", len(listed))
	}
	for i, want := range []string{"first", "second", "third"} {
		if listed[i].Content == nil || *listed[i].Content != want {
			t.Errorf("message %d content = %v, want %q", i, listed[i].Content, want)
		}
		if listed[i].Sequence != i+1 {
			t.Errorf("message %d sequence = %d, want %d", i, listed[i].Sequence, i+1)
		}
	}
}

func TestPostMessage_OwnerOnly(t *testing.T) {
	svc, th, _ := newMessageFixture(t)

	content := "hi"
	_, err := svc.PostMessage(context.Background(), thread.PostMessageInput{
		RequesterID: "user_2",
		ThreadID:    th.PublicID,
		Role:        thread.MessageRoleUser,
		Content:     &content,
	})
	if !platformerrors.IsErrorType(err, platformerrors.ErrorTypeForbidden) {
		t.Errorf("expected forbidden, got %v", err)
	}
}

func TestPostMessage_RequiresContentOrParts(t *testing.T) {
	svc, th, _ := newMessageFixture(t)

	_, err := svc.PostMessage(context.Background(), thread.PostMessageInput{
		RequesterID: "user_1",
		ThreadID:    th.PublicID,
		Role:        thread.MessageRoleUser,
	})
	if !platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestListMessages_VisibilityRules(t *testing.T) {
	threads := newMemThreadRepo()
	messages := newMemMessageRepo()
	threadSvc := thread.NewThreadService(threads, messages, &fakeTitleGenerator{title: "t"})
	svc := thread.NewMessageService(threads, messages)
	th := mustCreateThread(t, threadSvc, "user_1")
	seedMessages(t, messages, th.ID, "msg_a000000000000000")

	_, err := svc.ListMessages(context.Background(), "user_2", th.PublicID)
	if !platformerrors.IsErrorType(err, platformerrors.ErrorTypeForbidden) {
		t.Errorf("expected forbidden for private thread, got %v", err)
	}

	if _, err := threadSvc.SetVisibility(context.Background(), "user_1", th.PublicID, thread.VisibilityPublic); err != nil {
		t.Fatalf("SetVisibility() error = %v", err)
	}
	listed, err := svc.ListMessages(context.Background(), "user_2", th.PublicID)
	if err != nil {
		t.Fatalf("public ListMessages() error = %v", err)
	}
	if len(listed) != 1 {
		t.Errorf("listed %d messages, want 1", len(listed))
	}
}

func TestUpdateMessage_PartialUpdate(t *testing.T) {
	svc, th, messages := newMessageFixture(t)
	seedMessages(t, messages, th.ID, "msg_a000000000000000")

	newContent := "edited"
	updated, err := svc.UpdateMessage(context.Background(), "user_1", "msg_a000000000000000", thread.UpdateMessageInput{
		Content: &newContent,
	})
	if err != nil {
		t.Fatalf("UpdateMessage() error = %v", err)
	}
	if updated.Content == nil || *updated.Content != "edited" {
		t.Errorf("content = %v, want %q", updated.Content, "edited")
	}
	// Untouched fields survive.
	if updated.Role != thread.MessageRoleUser {
		t.Errorf("role = %s, want user", updated.Role)
	}
	if updated.Status != thread.MessageStatusDone {
		t.Errorf("status = %s, want done", updated.Status)
	}

	status := thread.MessageStatusError
	errText := "boom"
	updated, err = svc.UpdateMessage(context.Background(), "user_1", "msg_a000000000000000", thread.UpdateMessageInput{
		Status:       &status,
		ErrorMessage: &errText,
	})
	if err != nil {
		t.Fatalf("UpdateMessage() error = %v", err)
	}
	if updated.Status != thread.MessageStatusError {
		t.Errorf("status = %s, want error", updated.Status)
	}
	if updated.Content == nil || *updated.Content != "edited" {
		t.Errorf("content changed unexpectedly: %v", updated.Content)
	}
}

func TestUpdateMessage_InvalidStatus(t *testing.T) {
	svc, th, messages := newMessageFixture(t)
	seedMessages(t, messages, th.ID, "msg_a000000000000000")

	status := thread.MessageStatus("finished")
	_, err := svc.UpdateMessage(context.Background(), "user_1", "msg_a000000000000000", thread.UpdateMessageInput{
		Status: &status,
	})
	if !platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestDeleteMessage_RemovesExactlyOne(t *testing.T) {
	svc, th, messages := newMessageFixture(t)
	seedMessages(t, messages, th.ID,
		"msg_a000000000000000", "msg_b000000000000000", "msg_c000000000000000")

	if err := svc.DeleteMessage(context.Background(), "user_1", "msg_b000000000000000"); err != nil {
		t.Fatalf("DeleteMessage() error = %v", err)
	}

	remaining, _ := messages.FindByThreadID(context.Background(), th.ID)
	if len(remaining) != 2 {
		t.Fatalf("%d messages remain, want 2", len(remaining))
	}
	if remaining[0].PublicID != "msg_a000000000000000" || remaining[1].PublicID != "msg_c000000000000000" {
		t.Errorf("remaining = %s, %s; want a and c", remaining[0].PublicID, remaining[1].PublicID)
	}
}

func TestDeleteTrailing_Exclusive(t *testing.T) {
	svc, th, messages := newMessageFixture(t)
	seedMessages(t, messages, th.ID,
		"msg_a000000000000000", "msg_b000000000000000", "msg_c000000000000000", "msg_d000000000000000")

	count, err := svc.DeleteTrailing(context.Background(), "user_1", "msg_b000000000000000", false)
	if err != nil {
		t.Fatalf("DeleteTrailing() error = %v", err)
	}
	if count != 2 {
		t.Errorf("deleted count = %d, want 2", count)
	}

	remaining, _ := messages.FindByThreadID(context.Background(), th.ID)
	if len(remaining) != 2 {
		t.Fatalf("%d messages remain, want 2", len(remaining))
	}
	if remaining[0].PublicID != "msg_a000000000000000" || remaining[1].PublicID != "msg_b000000000000000" {
		t.Errorf("remaining = %s, %s; want a and b", remaining[0].PublicID, remaining[1].PublicID)
	}
}

func TestDeleteTrailing_Inclusive(t *testing.T) {
	svc, th, messages := newMessageFixture(t)
	seedMessages(t, messages, th.ID,
		"msg_a000000000000000", "msg_b000000000000000", "msg_c000000000000000", "msg_d000000000000000")

	count, err := svc.DeleteTrailing(context.Background(), "user_1", "msg_b000000000000000", true)
	if err != nil {
		t.Fatalf("DeleteTrailing() error = %v", err)
	}
	if count != 3 {
		t.Errorf("deleted count = %d, want 3", count)
	}

	remaining, _ := messages.FindByThreadID(context.Background(), th.ID)
	if len(remaining) != 1 || remaining[0].PublicID != "msg_a000000000000000" {
		t.Errorf("only msg_a should remain, got %d messages", len(remaining))
	}
}

func TestDeleteTrailing_LastMessageExclusiveDeletesNothing(t *testing.T) {
	svc, th, messages := newMessageFixture(t)
	seedMessages(t, messages, th.ID, "msg_a000000000000000", "msg_b000000000000000")

	count, err := svc.DeleteTrailing(context.Background(), "user_1", "msg_b000000000000000", false)
	if err != nil {
		t.Fatalf("DeleteTrailing() error = %v", err)
	}
	if count != 0 {
		t.Errorf("deleted count = %d, want 0", count)
	}
}

func TestDeleteTrailing_OwnerOnly(t *testing.T) {
	svc, th, messages := newMessageFixture(t)
	seedMessages(t, messages, th.ID, "msg_a000000000000000")

	_, err := svc.DeleteTrailing(context.Background(), "user_2", "msg_a000000000000000", false)
	if !platformerrors.IsErrorType(err, platformerrors.ErrorTypeForbidden) {
		t.Errorf("expected forbidden, got %v", err)
	}
}

func TestPostMessage_SucceedsWhenThreadTouchFails(t *testing.T) {
	threads := newMemThreadRepo()
	messages := newMemMessageRepo()
	threadSvc := thread.NewThreadService(threads, messages, &fakeTitleGenerator{title: "t"})
	svc := thread.NewMessageService(threads, messages)
	th := mustCreateThread(t, threadSvc, "user_1")

	threads.updateErr = errors.New("connection reset")

	content := "hi"
	m, err := svc.PostMessage(context.Background(), thread.PostMessageInput{
		RequesterID: "user_1",
		ThreadID:    th.PublicID,
		Role:        thread.MessageRoleUser,
		Content:     &content,
	})
	if err != nil {
		t.Fatalf("PostMessage() error = %v, want nil despite failed recency bump", err)
	}

	stored, _ := messages.FindByThreadID(context.Background(), th.ID)
	if len(stored) != 1 || stored[0].PublicID != m.PublicID {
		t.Errorf("message not persisted, got %d messages", len(stored))
	}
}

func TestDeleteTrailing_SucceedsWhenThreadTouchFails(t *testing.T) {
	threads := newMemThreadRepo()
	messages := newMemMessageRepo()
	threadSvc := thread.NewThreadService(threads, messages, &fakeTitleGenerator{title: "t"})
	svc := thread.NewMessageService(threads, messages)
	th := mustCreateThread(t, threadSvc, "user_1")
	seedMessages(t, messages, th.ID,
		"msg_a000000000000000", "msg_b000000000000000", "msg_c000000000000000")

	threads.updateErr = errors.New("connection reset")

	count, err := svc.DeleteTrailing(context.Background(), "user_1", "msg_a000000000000000", false)
	if err != nil {
		t.Fatalf("DeleteTrailing() error = %v, want nil despite failed recency bump", err)
	}
	if count != 2 {
		t.Errorf("deleted count = %d, want 2", count)
	}
}

func TestDeleteTrailing_UnknownMessage(t *testing.T) {
	svc, _, _ := newMessageFixture(t)

	_, err := svc.DeleteTrailing(context.Background(), "user_1", "msg_missing000000000", false)
	if !platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound) {
		t.Errorf("expected not_found, got %v", err)
	}
}
