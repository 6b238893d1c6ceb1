package generation_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"jan-server/services/thread-api/internal/domain/generation"
	"jan-server/services/thread-api/internal/domain/query"
	"jan-server/services/thread-api/internal/domain/thread"
	"jan-server/services/thread-api/internal/utils/platformerrors"
)

// fakeModelClient replays a scripted stream. Chunks are released one at a
// time so tests control pacing.
type fakeModelClient struct {
	chunks []generation.Chunk
	err    error
	// block keeps the stream open until the run context is cancelled.
	block bool
}

func (f *fakeModelClient) StreamCompletion(ctx context.Context, model string, prompt []generation.PromptMessage) (<-chan generation.Chunk, <-chan error) {
	chunks := make(chan generation.Chunk)
	errs := make(chan error, 1)

	go func() {
		defer close(chunks)
		for _, c := range f.chunks {
			select {
			case chunks <- c:
			case <-ctx.Done():
				return
			}
		}
		if f.err != nil {
			errs <- f.err
			<-ctx.Done()
			return
		}
		if f.block {
			<-ctx.Done()
		}
	}()

	return chunks, errs
}

// mockThreadRepository holds a single fixed thread.
type mockThreadRepository struct {
	mu     sync.Mutex
	thread *thread.Thread
}

func (m *mockThreadRepository) Create(ctx context.Context, th *thread.Thread) error { return nil }
func (m *mockThreadRepository) FindByFilter(ctx context.Context, filter thread.ThreadFilter, pagination *query.Pagination) ([]*thread.Thread, error) {
	return nil, nil
}
func (m *mockThreadRepository) Count(ctx context.Context, filter thread.ThreadFilter) (int64, error) {
	return 0, nil
}
func (m *mockThreadRepository) FindByID(ctx context.Context, id uint) (*thread.Thread, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.thread != nil && m.thread.ID == id {
		return m.thread, nil
	}
	return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound, "thread not found", nil, "00000000-0000-4000-8000-000000000101")
}
func (m *mockThreadRepository) FindByPublicID(ctx context.Context, publicID string) (*thread.Thread, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.thread != nil && m.thread.PublicID == publicID {
		return m.thread, nil
	}
	return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound, "thread not found", nil, "00000000-0000-4000-8000-000000000102")
}
func (m *mockThreadRepository) Update(ctx context.Context, th *thread.Thread) error { return nil }
func (m *mockThreadRepository) Delete(ctx context.Context, id uint) error           { return nil }

// mockMessageRepository records creates and updates.
type mockMessageRepository struct {
	mu       sync.Mutex
	messages []*thread.Message
	updates  map[string]*thread.Message
	nextSeq  int
}

func newMockMessageRepository(seed []*thread.Message) *mockMessageRepository {
	repo := &mockMessageRepository{updates: make(map[string]*thread.Message)}
	for _, msg := range seed {
		repo.nextSeq++
		msg.Sequence = repo.nextSeq
		repo.messages = append(repo.messages, msg)
	}
	return repo
}

func (m *mockMessageRepository) Create(ctx context.Context, msg *thread.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextSeq++
	msg.Sequence = m.nextSeq
	m.messages = append(m.messages, msg)
	return nil
}
func (m *mockMessageRepository) BulkCreate(ctx context.Context, msgs []*thread.Message) error {
	return nil
}
func (m *mockMessageRepository) FindByID(ctx context.Context, id uint) (*thread.Message, error) {
	return nil, nil
}
func (m *mockMessageRepository) FindByPublicID(ctx context.Context, publicID string) (*thread.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, msg := range m.messages {
		if msg.PublicID == publicID {
			return msg, nil
		}
	}
	return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound, "message not found", nil, "00000000-0000-4000-8000-000000000103")
}
func (m *mockMessageRepository) FindByThreadID(ctx context.Context, threadID uint) ([]*thread.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*thread.Message
	for _, msg := range m.messages {
		if msg.ThreadID == threadID {
			out = append(out, msg)
		}
	}
	return out, nil
}
func (m *mockMessageRepository) FindByThreadIDUpTo(ctx context.Context, threadID uint, maxSequence int) ([]*thread.Message, error) {
	return nil, nil
}
func (m *mockMessageRepository) Count(ctx context.Context, filter thread.MessageFilter) (int64, error) {
	return 0, nil
}
func (m *mockMessageRepository) Update(ctx context.Context, msg *thread.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	snapshot := *msg
	m.updates[msg.PublicID] = &snapshot
	return nil
}
func (m *mockMessageRepository) Delete(ctx context.Context, id uint) error { return nil }
func (m *mockMessageRepository) DeleteTrailing(ctx context.Context, threadID uint, sequence int, inclusive bool) ([]string, error) {
	return nil, nil
}

func (m *mockMessageRepository) lastUpdate(publicID string) *thread.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.updates[publicID]
}

func strPtr(s string) *string { return &s }

func newFixture(client generation.ModelClient) (*generation.GenerationService, *generation.Registry, *mockMessageRepository) {
	threads := &mockThreadRepository{thread: &thread.Thread{
		ID: 1, PublicID: "th_fixture000000000a", OwnerID: "user_1", Visibility: thread.VisibilityPrivate,
	}}
	messages := newMockMessageRepository([]*thread.Message{
		{ID: 10, ThreadID: 1, PublicID: "msg_seed000000000000", Role: thread.MessageRoleUser, Content: strPtr("hello"), Status: thread.MessageStatusDone},
	})
	registry := generation.NewRegistry()
	svc := generation.NewGenerationService(registry, threads, messages, client, "test-model")
	return svc, registry, messages
}

// drain consumes the stream until the terminal event.
func drain(t *testing.T, stream *generation.GenerationStream) (string, generation.Event) {
	t.Helper()
	var content string
	for event := range stream.Events {
		switch event.Type {
		case generation.EventTypeDelta:
			content += event.Delta
		case generation.EventTypeDone, generation.EventTypeError:
			return content, event
		}
	}
	t.Fatal("stream closed without terminal event")
	return "", generation.Event{}
}

func TestStartGeneration_StreamsToCompletion(t *testing.T) {
	client := &fakeModelClient{chunks: []generation.Chunk{
		{Delta: "Hello"}, {Delta: ", "}, {Delta: "world"},
	}}
	svc, registry, messages := newFixture(client)

	stream, err := svc.StartGeneration(context.Background(), generation.StartGenerationInput{
		RequesterID:    "user_1",
		ThreadPublicID: "th_fixture000000000a",
	})
	if err != nil {
		t.Fatalf("StartGeneration() error = %v", err)
	}

	content, terminal := drain(t, stream)
	if terminal.Type != generation.EventTypeDone {
		t.Fatalf("terminal event = %s, want done", terminal.Type)
	}
	if content != "Hello, world" {
		t.Errorf("streamed content = %q, want %q", content, "Hello, world")
	}

	final := messages.lastUpdate(stream.MessagePublicID)
	if final == nil {
		t.Fatal("final message state was never persisted")
	}
	if final.Status != thread.MessageStatusDone {
		t.Errorf("persisted status = %s, want done", final.Status)
	}
	if final.Content == nil || *final.Content != "Hello, world" {
		t.Errorf("persisted content = %v, want %q", final.Content, "Hello, world")
	}

	waitForRelease(t, registry)
}

func TestStartGeneration_SecondRunConflicts(t *testing.T) {
	client := &fakeModelClient{block: true}
	svc, _, _ := newFixture(client)

	stream, err := svc.StartGeneration(context.Background(), generation.StartGenerationInput{
		RequesterID:    "user_1",
		ThreadPublicID: "th_fixture000000000a",
	})
	if err != nil {
		t.Fatalf("first StartGeneration() error = %v", err)
	}

	_, err = svc.StartGeneration(context.Background(), generation.StartGenerationInput{
		RequesterID:    "user_1",
		ThreadPublicID: "th_fixture000000000a",
	})
	if err == nil {
		t.Fatal("expected conflict for second concurrent generation")
	}
	if !platformerrors.IsErrorType(err, platformerrors.ErrorTypeConflict) {
		t.Errorf("expected conflict error, got %v", err)
	}

	// Stop the first run to terminate it.
	if err := svc.StopGeneration(context.Background(), "user_1", "th_fixture000000000a"); err != nil {
		t.Fatalf("StopGeneration() error = %v", err)
	}
	_, terminal := drain(t, stream)
	if terminal.Type != generation.EventTypeDone {
		t.Fatalf("terminal event = %s, want done for stopped run", terminal.Type)
	}
	if terminal.Message.Status != thread.MessageStatusStopped {
		t.Errorf("stopped message status = %s, want stopped", terminal.Message.Status)
	}
}

func TestStartGeneration_OwnerOnly(t *testing.T) {
	svc, _, _ := newFixture(&fakeModelClient{})

	_, err := svc.StartGeneration(context.Background(), generation.StartGenerationInput{
		RequesterID:    "user_2",
		ThreadPublicID: "th_fixture000000000a",
	})
	if err == nil {
		t.Fatal("expected error for non-owner generation")
	}
	if !platformerrors.IsErrorType(err, platformerrors.ErrorTypeForbidden) {
		t.Errorf("expected forbidden error, got %v", err)
	}
}

func TestStartGeneration_UpstreamErrorPersistsPartial(t *testing.T) {
	client := &fakeModelClient{
		chunks: []generation.Chunk{{Delta: "partial "}, {Delta: "answer"}},
		err:    errors.New("upstream exploded"),
	}
	svc, _, messages := newFixture(client)

	stream, err := svc.StartGeneration(context.Background(), generation.StartGenerationInput{
		RequesterID:    "user_1",
		ThreadPublicID: "th_fixture000000000a",
	})
	if err != nil {
		t.Fatalf("StartGeneration() error = %v", err)
	}

	content, terminal := drain(t, stream)
	if terminal.Type != generation.EventTypeError {
		t.Fatalf("terminal event = %s, want error", terminal.Type)
	}
	if !platformerrors.IsErrorType(terminal.Err, platformerrors.ErrorTypeExternal) {
		t.Errorf("expected external error, got %v", terminal.Err)
	}
	if content != "partial answer" {
		t.Errorf("streamed content = %q, want %q", content, "partial answer")
	}

	final := messages.lastUpdate(stream.MessagePublicID)
	if final == nil {
		t.Fatal("final message state was never persisted")
	}
	if final.Status != thread.MessageStatusError {
		t.Errorf("persisted status = %s, want error", final.Status)
	}
	if final.Content == nil || *final.Content != "partial answer" {
		t.Errorf("partial content not retained: %v", final.Content)
	}
	if final.ErrorMessage == nil || *final.ErrorMessage == "" {
		t.Error("error message should be recorded on the message")
	}
}

func TestStopGeneration_NoActiveRun(t *testing.T) {
	svc, _, _ := newFixture(&fakeModelClient{})

	err := svc.StopGeneration(context.Background(), "user_1", "th_fixture000000000a")
	if err == nil {
		t.Fatal("expected error stopping with no active run")
	}
	if !platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound) {
		t.Errorf("expected not_found error, got %v", err)
	}
}

func TestStartGeneration_EmptyThreadRejected(t *testing.T) {
	client := &fakeModelClient{}
	threads := &mockThreadRepository{thread: &thread.Thread{
		ID: 2, PublicID: "th_empty00000000000b", OwnerID: "user_1",
	}}
	messages := newMockMessageRepository(nil)
	svc := generation.NewGenerationService(generation.NewRegistry(), threads, messages, client, "test-model")

	_, err := svc.StartGeneration(context.Background(), generation.StartGenerationInput{
		RequesterID:    "user_1",
		ThreadPublicID: "th_empty00000000000b",
	})
	if err == nil {
		t.Fatal("expected error for empty thread")
	}
	if !platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestRegistry_AcquireRelease(t *testing.T) {
	registry := generation.NewRegistry()

	if !registry.Acquire(1, "msg_a", func() {}) {
		t.Fatal("first Acquire() should succeed")
	}
	if registry.Acquire(1, "msg_b", func() {}) {
		t.Fatal("second Acquire() on same thread should fail")
	}
	if !registry.Acquire(2, "msg_c", func() {}) {
		t.Fatal("Acquire() on other thread should succeed")
	}

	if id, ok := registry.Active(1); !ok || id != "msg_a" {
		t.Errorf("Active(1) = %q, %v; want msg_a, true", id, ok)
	}

	registry.Release(1)
	if _, ok := registry.Active(1); ok {
		t.Error("slot should be free after Release")
	}
	if !registry.Acquire(1, "msg_d", func() {}) {
		t.Error("Acquire() should succeed after Release")
	}
}

func TestRegistry_SweepStale(t *testing.T) {
	registry := generation.NewRegistry()

	cancelled := false
	registry.Acquire(1, "msg_old", func() { cancelled = true })

	// Nothing is older than an hour yet.
	if swept := registry.SweepStale(time.Hour); len(swept) != 0 {
		t.Errorf("SweepStale(1h) = %v, want none", swept)
	}

	time.Sleep(10 * time.Millisecond)
	swept := registry.SweepStale(time.Millisecond)
	if len(swept) != 1 || swept[0] != "msg_old" {
		t.Fatalf("SweepStale() = %v, want [msg_old]", swept)
	}
	if !cancelled {
		t.Error("stale run should have been cancelled")
	}
}

func waitForRelease(t *testing.T, registry *generation.Registry) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if registry.Len() == 0 {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("generation slot was never released")
}
