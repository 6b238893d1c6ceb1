package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
)

func writeAllowlistFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "models.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write allowlist file: %v", err)
	}
	return path
}

func TestLoadModelAllowlist(t *testing.T) {
	path := writeAllowlistFile(t, `
models:
  - id: qwen3-4b
    display_name: Qwen3 4B
    prompt_price_per_1m: "0.15"
    completion_price_per_1m: "0.60"
  - id: llama-3-8b
`)

	allowlist, err := LoadModelAllowlist(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(allowlist.Entries()) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(allowlist.Entries()))
	}
	if !allowlist.IsAllowed("qwen3-4b") {
		t.Error("qwen3-4b should be allowed")
	}
	if allowlist.IsAllowed("gpt-4o") {
		t.Error("unlisted model should not be allowed")
	}

	entry, ok := allowlist.Lookup("qwen3-4b")
	if !ok {
		t.Fatal("expected lookup hit for qwen3-4b")
	}
	if entry.DisplayName != "Qwen3 4B" {
		t.Errorf("expected display name, got %q", entry.DisplayName)
	}
	want := decimal.RequireFromString("0.15")
	if !entry.PromptPricePer1M.Equal(want) {
		t.Errorf("expected prompt price 0.15, got %s", entry.PromptPricePer1M)
	}

	// Entry with no prices defaults to zero cost.
	entry, ok = allowlist.Lookup("llama-3-8b")
	if !ok {
		t.Fatal("expected lookup hit for llama-3-8b")
	}
	if !entry.PromptPricePer1M.IsZero() || !entry.CompletionPricePer1M.IsZero() {
		t.Error("unpriced entry should default to zero")
	}
}

func TestLoadModelAllowlistEmptyPathAllowsEverything(t *testing.T) {
	allowlist, err := LoadModelAllowlist("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !allowlist.IsAllowed("anything") {
		t.Error("empty allowlist should allow all models")
	}
	if len(allowlist.Entries()) != 0 {
		t.Error("empty allowlist should have no entries")
	}
}

func TestLoadModelAllowlistRejectsNegativePrice(t *testing.T) {
	path := writeAllowlistFile(t, `
models:
  - id: bad
    prompt_price_per_1m: "-1"
`)
	if _, err := LoadModelAllowlist(path); err == nil {
		t.Fatal("expected error for negative price")
	}
}

func TestLoadModelAllowlistRejectsMissingID(t *testing.T) {
	path := writeAllowlistFile(t, `
models:
  - display_name: No ID
`)
	if _, err := LoadModelAllowlist(path); err == nil {
		t.Fatal("expected error for entry without id")
	}
}

func TestLoadModelAllowlistMissingFile(t *testing.T) {
	if _, err := LoadModelAllowlist(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
