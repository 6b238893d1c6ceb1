package generation

import (
	"context"
	"time"
)

// PromptMessage is one turn of the conversation history sent upstream.
type PromptMessage struct {
	Role    string
	Content string
}

// Chunk is one incremental piece of a streamed completion.
type Chunk struct {
	Delta          string
	ReasoningDelta string
}

// ModelClient streams completions from an upstream model provider. The
// chunk channel is closed when the stream finishes cleanly; a send on the
// error channel terminates the run.
type ModelClient interface {
	StreamCompletion(ctx context.Context, model string, prompt []PromptMessage) (<-chan Chunk, <-chan error)
}

// UsageRecorder observes run lifecycle for accounting. Implementations
// must not block; recording failures never affect the run itself.
type UsageRecorder interface {
	GenerationStarted(model string)
	GenerationFinished(model string, prompt []PromptMessage, completion string, duration time.Duration, status string)
}
