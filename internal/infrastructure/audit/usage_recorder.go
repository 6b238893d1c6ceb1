package audit

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"jan-server/services/thread-api/internal/config"
	"jan-server/services/thread-api/internal/domain/generation"
	"jan-server/services/thread-api/internal/infrastructure/logger"
	"jan-server/services/thread-api/internal/infrastructure/metrics"
)

var tokensPerMillion = decimal.NewFromInt(1_000_000)

// UsageRecorder turns finished generation runs into audit log records and
// usage metrics. Costs come from the allowlist pricing and stay decimal
// until the final metric export, so repeated small charges do not drift.
type UsageRecorder struct {
	allowlist *config.ModelAllowlist
}

var _ generation.UsageRecorder = (*UsageRecorder)(nil)

func NewUsageRecorder(allowlist *config.ModelAllowlist) *UsageRecorder {
	return &UsageRecorder{allowlist: allowlist}
}

func (r *UsageRecorder) GenerationStarted(model string) {
	metrics.IncrementActiveGenerations(model)
}

func (r *UsageRecorder) GenerationFinished(model string, prompt []generation.PromptMessage, completion string, duration time.Duration, status string) {
	metrics.DecrementActiveGenerations(model)
	metrics.RecordGeneration(model, status, duration.Seconds())

	promptTokens := estimatePromptTokens(prompt)
	completionTokens := estimateTokens(completion)
	metrics.RecordTokens(model, promptTokens, completionTokens)

	cost := r.estimateCost(model, promptTokens, completionTokens)
	if cost.IsPositive() {
		costFloat, _ := cost.Float64()
		metrics.RecordUsageCost(model, costFloat)
	}

	log := logger.GetLogger()
	log.Info().
		Str("model", model).
		Str("status", status).
		Int("prompt_tokens", promptTokens).
		Int("completion_tokens", completionTokens).
		Str("cost_usd", cost.StringFixed(6)).
		Dur("duration", duration).
		Msg("generation usage")
}

// estimateCost prices the run from the allowlist entry. Unknown or
// unpriced models cost zero.
func (r *UsageRecorder) estimateCost(model string, promptTokens, completionTokens int) decimal.Decimal {
	entry, ok := r.allowlist.Lookup(model)
	if !ok {
		return decimal.Zero
	}
	promptCost := entry.PromptPricePer1M.
		Mul(decimal.NewFromInt(int64(promptTokens))).
		Div(tokensPerMillion)
	completionCost := entry.CompletionPricePer1M.
		Mul(decimal.NewFromInt(int64(completionTokens))).
		Div(tokensPerMillion)
	return promptCost.Add(completionCost)
}

func estimatePromptTokens(prompt []generation.PromptMessage) int {
	total := 0
	for _, turn := range prompt {
		total += estimateTokens(turn.Content)
	}
	return total
}

// estimateTokens approximates token usage by word count. The upstream does
// not report usage on streamed runs, so an estimate is the best we get.
func estimateTokens(text string) int {
	return len(strings.Fields(text))
}
