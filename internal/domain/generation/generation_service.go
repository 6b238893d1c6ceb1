package generation

import (
	"context"
	"errors"
	"strings"
	"time"

	"jan-server/services/thread-api/internal/domain/thread"
	"jan-server/services/thread-api/internal/infrastructure/logger"
	"jan-server/services/thread-api/internal/utils/idgen"
	"jan-server/services/thread-api/internal/utils/platformerrors"
)

const (
	// checkpointChunkInterval is how many chunks may accumulate before the
	// partial content is persisted.
	checkpointChunkInterval = 25

	// checkpointTimeInterval bounds how long a checkpoint may lag even on a
	// slow stream.
	checkpointTimeInterval = 2 * time.Second

	// defaultRunTimeout caps a single generation run end to end.
	defaultRunTimeout = 120 * time.Second

	// persistTimeout bounds the final write after the run context is gone.
	persistTimeout = 10 * time.Second

	eventBufferSize = 100
)

// ===============================================
// Stream events
// ===============================================

type EventType string

const (
	EventTypeDelta EventType = "delta"
	EventTypeDone  EventType = "done"
	EventTypeError EventType = "error"
)

// Event is one item on a generation stream. Delta events carry incremental
// text; the terminal done/error event carries the persisted message.
type Event struct {
	Type    EventType
	Delta   string
	Message *thread.Message
	Err     error
}

// GenerationStream is the consumer side of a running generation. The
// channel is closed after the terminal event.
type GenerationStream struct {
	MessagePublicID string
	Events          <-chan Event
}

// ===============================================
// Generation service
// ===============================================

// GenerationService coordinates streamed assistant responses. Each thread
// can have at most one run in flight; a second start reports a conflict
// while the first still holds the slot.
type GenerationService struct {
	registry     *Registry
	threads      thread.ThreadRepository
	messages     thread.MessageRepository
	client       ModelClient
	defaultModel string
	runTimeout   time.Duration
	usage        UsageRecorder
}

// NewGenerationService creates a new generation service.
func NewGenerationService(
	registry *Registry,
	threads thread.ThreadRepository,
	messages thread.MessageRepository,
	client ModelClient,
	defaultModel string,
) *GenerationService {
	return &GenerationService{
		registry:     registry,
		threads:      threads,
		messages:     messages,
		client:       client,
		defaultModel: defaultModel,
		runTimeout:   defaultRunTimeout,
	}
}

// WithUsageRecorder attaches a usage recorder to completed runs.
func (s *GenerationService) WithUsageRecorder(recorder UsageRecorder) *GenerationService {
	s.usage = recorder
	return s
}

// WithRunTimeout overrides the end-to-end cap on a single run.
func (s *GenerationService) WithRunTimeout(timeout time.Duration) *GenerationService {
	if timeout > 0 {
		s.runTimeout = timeout
	}
	return s
}

// StartGenerationInput contains the input for starting a generation run.
type StartGenerationInput struct {
	RequesterID    string
	ThreadPublicID string
	Model          *string
}

// StartGeneration creates a pending assistant message and begins streaming
// the model response into it. The returned stream delivers delta events as
// chunks arrive and a terminal event with the persisted message.
func (s *GenerationService) StartGeneration(ctx context.Context, input StartGenerationInput) (*GenerationStream, error) {
	th, err := s.threads.FindByPublicID(ctx, input.ThreadPublicID)
	if err != nil {
		return nil, platformerrors.AsErrorWithUUID(ctx, platformerrors.LayerDomain, err, "thread not found", "d27a5f80-3c91-4e46-b8a2-605e1d9f4c73")
	}
	if !th.IsOwnedBy(input.RequesterID) {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeForbidden,
			"you do not have permission to generate in this thread", nil, "4b8e2d61-7f05-4a39-9c84-e20d6b1f5a97")
	}

	history, err := s.messages.FindByThreadID(ctx, th.ID)
	if err != nil {
		return nil, platformerrors.AsErrorWithUUID(ctx, platformerrors.LayerDomain, err, "failed to load thread messages", "91c6e0b4-2d78-4f13-a5c9-8e347f0d2b61")
	}
	if len(history) == 0 {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"thread has no messages to respond to", nil, "5f3a9c27-8e14-4b60-d2a7-16c08e5b4f93")
	}

	model := s.defaultModel
	if input.Model != nil && *input.Model != "" {
		model = *input.Model
	}

	publicID, err := idgen.GenerateSecureID("msg", 16)
	if err != nil {
		return nil, platformerrors.AsErrorWithUUID(ctx, platformerrors.LayerDomain, err, "failed to generate message id", "a04d7e52-6b39-4c18-8f2e-3d95a1c7b064")
	}

	runCtx, cancel := context.WithTimeout(context.Background(), s.runTimeout)

	if !s.registry.Acquire(th.ID, publicID, cancel) {
		cancel()
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeConflict,
			"a generation is already running for this thread", nil, "e83b0f61-4d27-4a95-b1c6-79f2e5a0d348")
	}

	msg := thread.NewPendingAssistantMessage(publicID, th.ID, model)
	if err := s.messages.Create(ctx, msg); err != nil {
		s.registry.Release(th.ID)
		cancel()
		return nil, platformerrors.AsErrorWithUUID(ctx, platformerrors.LayerDomain, err, "failed to create assistant message", "78f2c5d0-1a86-4e34-9b07-c4e61d8a2f59")
	}

	events := make(chan Event, eventBufferSize)
	go s.run(runCtx, cancel, th, msg, buildPrompt(history), model, events)

	return &GenerationStream{
		MessagePublicID: msg.PublicID,
		Events:          events,
	}, nil
}

// StopGeneration cancels the active run for a thread. The run loop marks
// the message stopped, keeping the partial content streamed so far.
func (s *GenerationService) StopGeneration(ctx context.Context, requesterID string, threadPublicID string) error {
	th, err := s.threads.FindByPublicID(ctx, threadPublicID)
	if err != nil {
		return platformerrors.AsErrorWithUUID(ctx, platformerrors.LayerDomain, err, "thread not found", "0c5d8f23-6e91-4a47-b8d0-2f7a4e1c9b36")
	}
	if !th.IsOwnedBy(requesterID) {
		return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeForbidden,
			"you do not have permission to stop generation in this thread", nil, "3e9a1b74-0d52-4c86-a3f7-8b64d0e2c519")
	}

	if !s.registry.Stop(th.ID) {
		return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound,
			"no active generation for this thread", nil, "b61f4e08-9c35-4d72-8a19-5e0c7f3a2d84")
	}
	return nil
}

// SweepStale cancels runs older than maxAge and marks their messages as
// errored. It returns the number of runs swept.
func (s *GenerationService) SweepStale(ctx context.Context, maxAge time.Duration) int {
	swept := s.registry.SweepStale(maxAge)
	log := logger.GetLogger()
	for _, messageID := range swept {
		log.Warn().Str("message_id", messageID).Msg("swept stale generation run")
	}
	return len(swept)
}

// run is the generation loop. It owns the pending message from here on:
// whatever happens, the message ends in a terminal status and the thread's
// slot is released.
func (s *GenerationService) run(
	ctx context.Context,
	cancel context.CancelFunc,
	th *thread.Thread,
	msg *thread.Message,
	prompt []PromptMessage,
	model string,
	events chan<- Event,
) {
	defer close(events)
	defer s.registry.Release(th.ID)
	defer cancel()

	var content strings.Builder

	if s.usage != nil {
		s.usage.GenerationStarted(model)
		start := time.Now()
		defer func() {
			s.usage.GenerationFinished(model, prompt, content.String(), time.Since(start), string(msg.Status))
		}()
	}

	chunks, errs := s.client.StreamCompletion(ctx, model, prompt)

	sinceCheckpoint := 0
	lastCheckpoint := time.Now()

	for {
		select {
		case chunk, ok := <-chunks:
			if !ok {
				// A stream can close because we cancelled it; that is not
				// a completed run.
				if ctx.Err() != nil {
					s.finishCancelled(ctx, th, msg, content.String(), events)
					return
				}
				s.finish(th, msg, thread.MessageStatusDone, content.String(), nil, events)
				return
			}
			if chunk.Delta == "" {
				continue
			}
			content.WriteString(chunk.Delta)
			s.emit(ctx, events, Event{Type: EventTypeDelta, Delta: chunk.Delta})

			sinceCheckpoint++
			if sinceCheckpoint >= checkpointChunkInterval || time.Since(lastCheckpoint) >= checkpointTimeInterval {
				s.checkpoint(msg, content.String())
				sinceCheckpoint = 0
				lastCheckpoint = time.Now()
			}

		case err, ok := <-errs:
			if !ok || err == nil {
				continue
			}
			genErr := s.classifyUpstreamError(err)
			s.finish(th, msg, thread.MessageStatusError, content.String(), genErr, events)
			return

		case <-ctx.Done():
			s.finishCancelled(ctx, th, msg, content.String(), events)
			return
		}
	}
}

// finishCancelled resolves a cancelled run: a deadline becomes an errored
// message, an explicit stop keeps the partial content as stopped.
func (s *GenerationService) finishCancelled(ctx context.Context, th *thread.Thread, msg *thread.Message, content string, events chan<- Event) {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		genErr := platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeTimeout,
			"upstream generation timed out", ctx.Err(), "f42d8a16-7b90-4e53-c8a1-0d6e2f9b4c75")
		s.finish(th, msg, thread.MessageStatusError, content, genErr, events)
		return
	}
	s.finish(th, msg, thread.MessageStatusStopped, content, nil, events)
}

// checkpoint persists the partial content so a crash or disconnect loses
// at most one checkpoint interval of text.
func (s *GenerationService) checkpoint(msg *thread.Message, content string) {
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	msg.Content = &content
	msg.Status = thread.MessageStatusStreaming
	msg.UpdatedAt = time.Now()

	if err := s.messages.Update(ctx, msg); err != nil {
		log := logger.GetLogger()
		log.Warn().Err(err).Str("message_id", msg.PublicID).Msg("failed to checkpoint generation")
	}
}

// finish persists the terminal state of the message and emits the closing
// event. The run context may already be cancelled, so writes use a fresh
// context.
func (s *GenerationService) finish(
	th *thread.Thread,
	msg *thread.Message,
	status thread.MessageStatus,
	content string,
	genErr error,
	events chan<- Event,
) {
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	msg.Content = &content
	msg.Status = status
	msg.UpdatedAt = time.Now()
	if genErr != nil {
		errText := platformerrors.MessageOf(genErr)
		msg.ErrorMessage = &errText
	}

	if err := s.messages.Update(ctx, msg); err != nil {
		log := logger.GetLogger()
		log.Error().Err(err).Str("message_id", msg.PublicID).Msg("failed to persist final generation state")
	}

	th.Touch()
	if err := s.threads.Update(ctx, th); err != nil {
		log := logger.GetLogger()
		log.Warn().Err(err).Str("thread_id", th.PublicID).Msg("failed to touch thread after generation")
	}

	terminal := Event{Type: EventTypeDone, Message: msg}
	if genErr != nil {
		terminal = Event{Type: EventTypeError, Message: msg, Err: genErr}
	}
	// Non-blocking: a consumer that stopped draining must not pin the run.
	select {
	case events <- terminal:
	default:
	}
}

// emit delivers a delta without blocking a cancelled run. Terminal events
// always fit because the buffer outlives the last delta.
func (s *GenerationService) emit(ctx context.Context, events chan<- Event, event Event) {
	select {
	case events <- event:
	case <-ctx.Done():
	}
}

func (s *GenerationService) classifyUpstreamError(err error) error {
	ctx := context.Background()
	if errors.Is(err, context.DeadlineExceeded) {
		return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeTimeout,
			"upstream generation timed out", err, "6a0e3d85-2c47-4f91-b6d3-8e15a7c0f429")
	}
	return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeExternal,
		"generation failed", err, "2d7b9f40-5e83-4a16-c0b8-94f6e1d3a257")
}

// buildPrompt maps the stored history into the upstream request shape,
// skipping messages that never produced text.
func buildPrompt(history []*thread.Message) []PromptMessage {
	prompt := make([]PromptMessage, 0, len(history))
	for _, msg := range history {
		text := msg.Text()
		if text == "" {
			continue
		}
		prompt = append(prompt, PromptMessage{
			Role:    string(msg.Role),
			Content: text,
		})
	}
	return prompt
}
