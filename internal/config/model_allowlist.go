package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"jan-server/services/thread-api/internal/infrastructure/logger"
)

// ModelAllowlistEntry describes one model that generation requests may use.
type ModelAllowlistEntry struct {
	ID          string
	DisplayName string
	// Pricing is per one million tokens, in USD. Zero means unpriced.
	PromptPricePer1M     decimal.Decimal
	CompletionPricePer1M decimal.Decimal
}

// ModelAllowlist restricts which upstream models generation may target.
// An empty allowlist permits every model the upstream exposes.
type ModelAllowlist struct {
	entries []ModelAllowlistEntry
	byID    map[string]ModelAllowlistEntry
}

// Entries returns a copy of the configured entries.
func (a *ModelAllowlist) Entries() []ModelAllowlistEntry {
	if a == nil || len(a.entries) == 0 {
		return nil
	}
	result := make([]ModelAllowlistEntry, len(a.entries))
	copy(result, a.entries)
	return result
}

// IsAllowed reports whether the model may be used for generation. A nil or
// empty allowlist allows everything.
func (a *ModelAllowlist) IsAllowed(model string) bool {
	if a == nil || len(a.byID) == 0 {
		return true
	}
	_, ok := a.byID[strings.TrimSpace(model)]
	return ok
}

// Lookup returns the allowlist entry for a model, if one is configured.
func (a *ModelAllowlist) Lookup(model string) (ModelAllowlistEntry, bool) {
	if a == nil || len(a.byID) == 0 {
		return ModelAllowlistEntry{}, false
	}
	entry, ok := a.byID[strings.TrimSpace(model)]
	return entry, ok
}

type modelAllowlistEntryDoc struct {
	ID                   string `yaml:"id"`
	DisplayName          string `yaml:"display_name"`
	PromptPricePer1M     string `yaml:"prompt_price_per_1m"`
	CompletionPricePer1M string `yaml:"completion_price_per_1m"`
}

// LoadModelAllowlist parses the yaml file at the provided path. An empty
// path yields an allow-everything list.
func LoadModelAllowlist(path string) (*ModelAllowlist, error) {
	if strings.TrimSpace(path) == "" {
		return &ModelAllowlist{}, nil
	}

	log := logger.GetLogger()
	cleanPath := filepath.Clean(path)
	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("read model allowlist %q: %w", cleanPath, err)
	}
	log.Info().Str("path", cleanPath).Msg("loading model allowlist file")

	var doc struct {
		Models []modelAllowlistEntryDoc `yaml:"models"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse model allowlist %q: %w", cleanPath, err)
	}

	result := &ModelAllowlist{
		byID: make(map[string]ModelAllowlistEntry, len(doc.Models)),
	}
	for idx, raw := range doc.Models {
		entry, err := normalizeAllowlistEntry(raw)
		if err != nil {
			return nil, fmt.Errorf("models[%d]: %w", idx, err)
		}
		if _, dup := result.byID[entry.ID]; dup {
			continue
		}
		result.byID[entry.ID] = entry
		result.entries = append(result.entries, entry)
	}

	return result, nil
}

func normalizeAllowlistEntry(raw modelAllowlistEntryDoc) (ModelAllowlistEntry, error) {
	entry := ModelAllowlistEntry{
		ID:          strings.TrimSpace(raw.ID),
		DisplayName: strings.TrimSpace(raw.DisplayName),
	}
	if entry.ID == "" {
		return ModelAllowlistEntry{}, fmt.Errorf("id is required")
	}
	if entry.DisplayName == "" {
		entry.DisplayName = entry.ID
	}

	var err error
	if entry.PromptPricePer1M, err = parsePrice(raw.PromptPricePer1M); err != nil {
		return ModelAllowlistEntry{}, fmt.Errorf("prompt_price_per_1m: %w", err)
	}
	if entry.CompletionPricePer1M, err = parsePrice(raw.CompletionPricePer1M); err != nil {
		return ModelAllowlistEntry{}, fmt.Errorf("completion_price_per_1m: %w", err)
	}
	return entry, nil
}

func parsePrice(raw string) (decimal.Decimal, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return decimal.Zero, nil
	}
	price, err := decimal.NewFromString(trimmed)
	if err != nil {
		return decimal.Zero, err
	}
	if price.IsNegative() {
		return decimal.Zero, fmt.Errorf("price must not be negative")
	}
	return price, nil
}
