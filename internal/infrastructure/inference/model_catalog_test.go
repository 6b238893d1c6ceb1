package inference

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"jan-server/services/thread-api/internal/config"
	"jan-server/services/thread-api/internal/utils/httpclients"
	"jan-server/services/thread-api/internal/utils/httpclients/chat"
)

func allowlistFromYAML(t *testing.T, content string) *config.ModelAllowlist {
	t.Helper()
	path := filepath.Join(t.TempDir(), "models.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write allowlist: %v", err)
	}
	allowlist, err := config.LoadModelAllowlist(path)
	if err != nil {
		t.Fatalf("load allowlist: %v", err)
	}
	return allowlist
}

func modelClientFor(t *testing.T, handler http.HandlerFunc) (*chat.ChatModelClient, func()) {
	t.Helper()
	server := httptest.NewServer(handler)
	client := chat.NewChatModelClient(httpclients.NewClient("test"), "test", server.URL)
	return client, server.Close
}

func TestListModelsFiltersByAllowlist(t *testing.T) {
	client, cleanup := modelClientFor(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/models" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"object": "list",
			"data": [
				{"id": "qwen3-4b", "owned_by": "jan", "created": 1700000000},
				{"id": "gpt-4o", "owned_by": "openai", "created": 1700000001}
			]
		}`))
	})
	defer cleanup()

	allowlist := allowlistFromYAML(t, "models:\n  - id: qwen3-4b\n    display_name: Qwen3 4B\n")
	catalog := NewModelCatalog(allowlist, client)

	models, err := catalog.ListModels(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(models) != 1 {
		t.Fatalf("expected 1 allowed model, got %d", len(models))
	}
	if models[0].ID != "qwen3-4b" {
		t.Errorf("expected qwen3-4b, got %q", models[0].ID)
	}
	if models[0].OwnedBy != "jan" {
		t.Errorf("expected upstream owned_by, got %q", models[0].OwnedBy)
	}
}

func TestListModelsEmptyAllowlistPassesEverything(t *testing.T) {
	client, cleanup := modelClientFor(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"object": "list", "data": [{"id": "a"}, {"id": "b"}]}`))
	})
	defer cleanup()

	catalog := NewModelCatalog(&config.ModelAllowlist{}, client)

	models, err := catalog.ListModels(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(models) != 2 {
		t.Fatalf("expected 2 models, got %d", len(models))
	}
}

func TestListModelsFallsBackToAllowlistOnUpstreamFailure(t *testing.T) {
	client, cleanup := modelClientFor(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	defer cleanup()

	allowlist := allowlistFromYAML(t, "models:\n  - id: qwen3-4b\n    display_name: Qwen3 4B\n")
	catalog := NewModelCatalog(allowlist, client)

	models, err := catalog.ListModels(context.Background())
	if err != nil {
		t.Fatalf("expected allowlist fallback, got error: %v", err)
	}
	if len(models) != 1 || models[0].ID != "qwen3-4b" {
		t.Fatalf("expected allowlist entry, got %v", models)
	}
	if models[0].DisplayName != "Qwen3 4B" {
		t.Errorf("expected configured display name, got %q", models[0].DisplayName)
	}
}

func TestListModelsUpstreamFailureWithoutAllowlist(t *testing.T) {
	client, cleanup := modelClientFor(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	defer cleanup()

	catalog := NewModelCatalog(&config.ModelAllowlist{}, client)

	if _, err := catalog.ListModels(context.Background()); err == nil {
		t.Fatal("expected error when upstream is down and no allowlist is configured")
	}
}

func TestCatalogIsAllowed(t *testing.T) {
	allowlist := allowlistFromYAML(t, "models:\n  - id: qwen3-4b\n")
	catalog := NewModelCatalog(allowlist, nil)

	if !catalog.IsAllowed("qwen3-4b") {
		t.Error("listed model should be allowed")
	}
	if catalog.IsAllowed("other") {
		t.Error("unlisted model should be rejected")
	}
}
