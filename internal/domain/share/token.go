package share

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	// TokenLength is the length of the random token (22 chars = ~131 bits of entropy in base62)
	TokenLength = 22

	// Base62Charset contains alphanumeric characters for URL-safe tokens
	Base62Charset = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

	// MaxTokenRetries is the maximum number of attempts to generate a unique token
	MaxTokenRetries = 5
)

// TokenGenerator generates cryptographically random tokens for share URLs
type TokenGenerator struct {
	repo ShareLinkRepository
}

// NewTokenGenerator creates a new token generator
func NewTokenGenerator(repo ShareLinkRepository) *TokenGenerator {
	return &TokenGenerator{repo: repo}
}

// GenerateUniqueToken generates a unique, cryptographically random 22-character
// base62 token, retrying up to MaxTokenRetries times if a collision is detected
func (g *TokenGenerator) GenerateUniqueToken(ctx context.Context) (string, error) {
	for i := 0; i < MaxTokenRetries; i++ {
		token, err := GenerateToken()
		if err != nil {
			return "", fmt.Errorf("failed to generate token: %w", err)
		}

		exists, err := g.repo.TokenExists(ctx, token)
		if err != nil {
			return "", fmt.Errorf("failed to check token existence: %w", err)
		}

		if !exists {
			return token, nil
		}
		// Collision detected, retry
	}

	return "", fmt.Errorf("failed to generate unique token after %d attempts", MaxTokenRetries)
}

// GenerateToken generates a cryptographically random 22-character base62 token
func GenerateToken() (string, error) {
	charsetLen := big.NewInt(int64(len(Base62Charset)))
	result := make([]byte, TokenLength)

	for i := 0; i < TokenLength; i++ {
		randomIndex, err := rand.Int(rand.Reader, charsetLen)
		if err != nil {
			return "", fmt.Errorf("failed to generate random number: %w", err)
		}
		result[i] = Base62Charset[randomIndex.Int64()]
	}

	return string(result), nil
}

// ValidateToken checks if a token has an acceptable format. Client-supplied
// tokens may be shorter than generated ones, but must be base62 and within
// sane length bounds.
func ValidateToken(token string) bool {
	if len(token) < 8 || len(token) > 64 {
		return false
	}

	for _, c := range token {
		if !isBase62Char(c) {
			return false
		}
	}

	return true
}

func isBase62Char(c rune) bool {
	return (c >= '0' && c <= '9') || (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}
