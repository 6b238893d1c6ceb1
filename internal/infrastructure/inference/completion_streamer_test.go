package inference

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"jan-server/services/thread-api/internal/domain/generation"
	"jan-server/services/thread-api/internal/utils/httpclients"
	"jan-server/services/thread-api/internal/utils/httpclients/chat"
)

func streamerFor(t *testing.T, handler http.HandlerFunc) (*CompletionStreamer, func()) {
	t.Helper()
	server := httptest.NewServer(handler)
	client := chat.NewChatCompletionClient(httpclients.NewClient("test"), "test", server.URL)
	return NewCompletionStreamer(client, "test-key"), server.Close
}

func sseFrame(content string) string {
	payload, _ := json.Marshal(map[string]any{
		"choices": []map[string]any{
			{"delta": map[string]any{"content": content}},
		},
	})
	return fmt.Sprintf("data: %s\n\n", payload)
}

func collectChunks(t *testing.T, chunks <-chan generation.Chunk, errs <-chan error) []generation.Chunk {
	t.Helper()
	var got []generation.Chunk
	for {
		select {
		case chunk, ok := <-chunks:
			if !ok {
				return got
			}
			got = append(got, chunk)
		case err := <-errs:
			t.Fatalf("unexpected stream error: %v", err)
		case <-time.After(5 * time.Second):
			t.Fatal("timed out waiting for stream")
		}
	}
}

func TestStreamCompletionDecodesFrames(t *testing.T) {
	streamer, cleanup := streamerFor(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Errorf("unexpected authorization header %q", auth)
		}
		var req map[string]any
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if stream, _ := req["stream"].(bool); !stream {
			t.Error("expected stream=true in upstream request")
		}

		w.Header().Set("Content-Type", "text/event-stream")
		w.Write([]byte(sseFrame("Hello")))
		w.Write([]byte(sseFrame(", world")))
		w.Write([]byte(": keep-alive comment\n\n"))
		w.Write([]byte("data: [DONE]\n\n"))
	})
	defer cleanup()

	chunks, errs := streamer.StreamCompletion(context.Background(), "qwen3-4b", []generation.PromptMessage{
		{Role: "user", Content: "hi"},
	})

	got := collectChunks(t, chunks, errs)
	var content strings.Builder
	for _, chunk := range got {
		content.WriteString(chunk.Delta)
	}
	if content.String() != "Hello, world" {
		t.Fatalf("expected \"Hello, world\", got %q", content.String())
	}
}

func TestStreamCompletionReasoningDeltas(t *testing.T) {
	streamer, cleanup := streamerFor(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.Write([]byte(`data: {"choices":[{"delta":{"reasoning_content":"thinking..."}}]}` + "\n\n"))
		w.Write([]byte(sseFrame("answer")))
		w.Write([]byte("data: [DONE]\n\n"))
	})
	defer cleanup()

	chunks, errs := streamer.StreamCompletion(context.Background(), "qwen3-4b", nil)

	got := collectChunks(t, chunks, errs)
	if len(got) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(got))
	}
	if got[0].ReasoningDelta != "thinking..." {
		t.Errorf("expected reasoning delta, got %q", got[0].ReasoningDelta)
	}
	if got[1].Delta != "answer" {
		t.Errorf("expected content delta, got %q", got[1].Delta)
	}
}

func TestStreamCompletionSkipsMalformedFrames(t *testing.T) {
	streamer, cleanup := streamerFor(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.Write([]byte("data: {not json}\n\n"))
		w.Write([]byte(sseFrame("ok")))
		w.Write([]byte("data: [DONE]\n\n"))
	})
	defer cleanup()

	chunks, errs := streamer.StreamCompletion(context.Background(), "qwen3-4b", nil)

	got := collectChunks(t, chunks, errs)
	if len(got) != 1 || got[0].Delta != "ok" {
		t.Fatalf("malformed frame should be skipped, got %v", got)
	}
}

func TestStreamCompletionUpstreamError(t *testing.T) {
	streamer, cleanup := streamerFor(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	defer cleanup()

	chunks, errs := streamer.StreamCompletion(context.Background(), "qwen3-4b", nil)

	for chunk := range chunks {
		t.Fatalf("expected no chunks from a failed request, got %v", chunk)
	}
	select {
	case err := <-errs:
		if err == nil {
			t.Fatal("expected error")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for error")
	}
}
