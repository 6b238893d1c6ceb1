package inference

import (
	"bufio"
	"context"
	"encoding/json"
	"strings"

	"jan-server/services/thread-api/internal/domain/generation"
	"jan-server/services/thread-api/internal/infrastructure/logger"
	"jan-server/services/thread-api/internal/utils/httpclients/chat"

	"github.com/sashabaranov/go-openai"
)

const (
	dataPrefix           = "data: "
	doneMarker           = "[DONE]"
	chunkBufferSize      = 100
	errorBufferSize      = 10
	scannerInitialBuffer = 12 * 1024        // 12KB
	scannerMaxBuffer     = 10 * 1024 * 1024 // 10MB
)

// CompletionStreamer adapts the upstream chat-completions endpoint to the
// generation stream contract. One instance is shared across runs.
type CompletionStreamer struct {
	client *chat.ChatCompletionClient
	apiKey string
}

var _ generation.ModelClient = (*CompletionStreamer)(nil)

func NewCompletionStreamer(client *chat.ChatCompletionClient, apiKey string) *CompletionStreamer {
	return &CompletionStreamer{
		client: client,
		apiKey: apiKey,
	}
}

// StreamCompletion opens a streamed completion and decodes SSE frames into
// chunks. The chunk channel closes when the upstream finishes; failures go
// to the error channel and end the stream.
func (s *CompletionStreamer) StreamCompletion(ctx context.Context, model string, prompt []generation.PromptMessage) (<-chan generation.Chunk, <-chan error) {
	chunks := make(chan generation.Chunk, chunkBufferSize)
	errs := make(chan error, errorBufferSize)

	request := openai.ChatCompletionRequest{
		Model:    model,
		Messages: buildChatMessages(prompt),
		Stream:   true,
	}

	body, err := s.client.CreateChatCompletionStream(ctx, s.apiKey, request)
	if err != nil {
		errs <- err
		close(chunks)
		return chunks, errs
	}

	go func() {
		defer close(chunks)
		defer body.Close()

		scanner := bufio.NewScanner(body)
		scanner.Buffer(make([]byte, 0, scannerInitialBuffer), scannerMaxBuffer)

		for scanner.Scan() {
			data, found := strings.CutPrefix(scanner.Text(), dataPrefix)
			if !found {
				continue
			}
			if data == doneMarker {
				return
			}

			chunk, ok := decodeChunk(data)
			if !ok {
				continue
			}

			select {
			case chunks <- chunk:
			case <-ctx.Done():
				return
			}
		}

		if err := scanner.Err(); err != nil && ctx.Err() == nil {
			select {
			case errs <- err:
			default:
			}
		}
	}()

	return chunks, errs
}

// decodeChunk folds the choices of one SSE frame into a single chunk.
func decodeChunk(data string) (generation.Chunk, bool) {
	var frame struct {
		Choices []struct {
			Delta struct {
				Content          string `json:"content"`
				ReasoningContent string `json:"reasoning_content"`
			} `json:"delta"`
		} `json:"choices"`
	}
	if err := json.Unmarshal([]byte(data), &frame); err != nil {
		log := logger.GetLogger()
		log.Error().Err(err).Str("data", data).Msg("failed to parse stream chunk JSON")
		return generation.Chunk{}, false
	}

	var chunk generation.Chunk
	for _, choice := range frame.Choices {
		chunk.Delta += choice.Delta.Content
		chunk.ReasoningDelta += choice.Delta.ReasoningContent
	}
	return chunk, chunk.Delta != "" || chunk.ReasoningDelta != ""
}

func buildChatMessages(prompt []generation.PromptMessage) []openai.ChatCompletionMessage {
	messages := make([]openai.ChatCompletionMessage, 0, len(prompt))
	for _, turn := range prompt {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    turn.Role,
			Content: turn.Content,
		})
	}
	return messages
}
