package mocks

import (
	"fmt"
	"sync"

	"github.com/mcoot/pixelcanvas/internal/dependencies/random"
)

// MockTokens is a mock implementation of TokenSource for testing
type MockTokens struct {
	mu     sync.Mutex
	queued []string
	issued int
}

// Ensure MockTokens implements TokenSource
var _ random.TokenSource = (*MockTokens)(nil)

// NewMockTokens creates a new MockTokens
func NewMockTokens() *MockTokens {
	return &MockTokens{}
}

// Token returns the next queued token, or prefix plus a counter once the
// queue is empty
func (r *MockTokens) Token(prefix string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.issued++
	if len(r.queued) > 0 {
		t := r.queued[0]
		r.queued = r.queued[1:]
		return t
	}
	return fmt.Sprintf("%stest-%d", prefix, r.issued)
}

// Queue adds tokens to be returned in order
func (r *MockTokens) Queue(tokens ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.queued = append(r.queued, tokens...)
}

// Issued returns how many tokens have been handed out
func (r *MockTokens) Issued() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.issued
}
