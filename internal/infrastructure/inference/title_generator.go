package inference

import (
	"context"
	"strings"

	"jan-server/services/thread-api/internal/domain/thread"
	"jan-server/services/thread-api/internal/utils/platformerrors"

	"github.com/sashabaranov/go-openai"
)

const (
	titleSystemPrompt = "Generate a concise title (5 words or less) for a conversation that starts with the following message. Respond with the title only, no quotes."
	titleMaxTokens    = 20
	titleTemperature  = 0.5
	titleMaxRunes     = 256
)

// OpenAITitleGenerator produces short thread titles through the upstream
// chat-completions endpoint.
type OpenAITitleGenerator struct {
	client *openai.Client
	model  string
}

var _ thread.TitleGenerator = (*OpenAITitleGenerator)(nil)

func NewOpenAITitleGenerator(baseURL, apiKey, model string) *OpenAITitleGenerator {
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	return &OpenAITitleGenerator{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

func (g *OpenAITitleGenerator) GenerateTitle(ctx context.Context, userQuery string) (string, error) {
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       g.model,
		MaxTokens:   titleMaxTokens,
		Temperature: titleTemperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: titleSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userQuery},
		},
	})
	if err != nil {
		return "", platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeExternal,
			"title generation request failed", err, "9f3b6a82-4d15-4c70-a2e8-7b09d5f1c364")
	}
	if len(resp.Choices) == 0 {
		return "", platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeExternal,
			"title generation returned no choices", nil, "61e8d2f5-0a47-4b93-c6d1-3f82a9e0b475")
	}

	title := sanitizeTitle(resp.Choices[0].Message.Content)
	if title == "" {
		return "", platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeExternal,
			"title generation returned empty title", nil, "c05a7f39-8e61-4d24-b9a3-2d76f4e8c150")
	}
	return title, nil
}

// sanitizeTitle strips quoting and newlines the model occasionally adds.
func sanitizeTitle(raw string) string {
	title := strings.TrimSpace(raw)
	title = strings.Trim(title, "\"'")
	if idx := strings.IndexAny(title, "\r\n"); idx >= 0 {
		title = title[:idx]
	}
	title = strings.TrimSpace(title)
	runes := []rune(title)
	if len(runes) > titleMaxRunes {
		title = string(runes[:titleMaxRunes])
	}
	return title
}
