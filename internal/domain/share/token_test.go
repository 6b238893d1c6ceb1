package share_test

import (
	"context"
	"testing"

	"jan-server/services/thread-api/internal/domain/share"
)

func TestGenerateToken_Format(t *testing.T) {
	token, err := share.GenerateToken()
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}
	if len(token) != share.TokenLength {
		t.Errorf("token length = %d, want %d", len(token), share.TokenLength)
	}
	if !share.ValidateToken(token) {
		t.Errorf("generated token %q failed validation", token)
	}
}

func TestGenerateToken_Uniqueness(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		token, err := share.GenerateToken()
		if err != nil {
			t.Fatalf("GenerateToken() error = %v", err)
		}
		if seen[token] {
			t.Fatalf("duplicate token generated: %s", token)
		}
		seen[token] = true
	}
}

func TestValidateToken(t *testing.T) {
	tests := []struct {
		name  string
		token string
		want  bool
	}{
		{"generated length", "ABCDEFGHIJKLMNOPQRSTuv", true},
		{"short client token", "mylink12", true},
		{"digits only", "12345678", true},
		{"too short", "short1", false},
		{"empty", "", false},
		{"hyphen", "my-link-token", false},
		{"underscore", "my_link_token", false},
		{"space", "my link token", false},
		{"unicode", "tökenAAAAAAA", false},
		{"too long", "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := share.ValidateToken(tt.token); got != tt.want {
				t.Errorf("ValidateToken(%q) = %v, want %v", tt.token, got, tt.want)
			}
		})
	}
}

func TestGenerateUniqueToken_RetriesOnCollision(t *testing.T) {
	repo := newMockShareLinkRepository()
	gen := share.NewTokenGenerator(repo)

	token, err := gen.GenerateUniqueToken(context.Background())
	if err != nil {
		t.Fatalf("GenerateUniqueToken() error = %v", err)
	}
	if len(token) != share.TokenLength {
		t.Errorf("token length = %d, want %d", len(token), share.TokenLength)
	}
}

func BenchmarkGenerateToken(b *testing.B) {
	for i := 0; i < b.N; i++ {
		if _, err := share.GenerateToken(); err != nil {
			b.Fatal(err)
		}
	}
}
