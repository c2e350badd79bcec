package random

import (
	"crypto/rand"
	"encoding/base64"
)

// TokenSource produces opaque session tokens and can be mocked for testing
type TokenSource interface {
	// Token returns a new unguessable token with the given prefix
	Token(prefix string) string
}

// CryptoTokens implements TokenSource using crypto/rand
type CryptoTokens struct {
	// Bytes of entropy per token; defaults to 16
	Bytes int
}

// New creates a new CryptoTokens
func New() *CryptoTokens {
	return &CryptoTokens{Bytes: 16}
}

// Token returns prefix followed by URL-safe random bytes
func (r *CryptoTokens) Token(prefix string) string {
	n := r.Bytes
	if n <= 0 {
		n = 16
	}
	b := make([]byte, n)
	// crypto/rand.Read never fails on supported platforms
	_, _ = rand.Read(b)
	return prefix + base64.RawURLEncoding.EncodeToString(b)
}
