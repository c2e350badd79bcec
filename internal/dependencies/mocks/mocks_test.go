package mocks

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMockClockAdvanceAndSet(t *testing.T) {
	start := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	c := NewMockClock(start)

	c.Advance(5 * time.Minute)
	assert.Equal(t, start.Add(5*time.Minute), c.Now())

	c.Set(start)
	assert.Equal(t, start, c.Now())
}

func TestMockTokensQueueThenCounter(t *testing.T) {
	tokens := NewMockTokens()
	tokens.Queue("first")

	assert.Equal(t, "first", tokens.Token("sess_"))
	assert.Equal(t, "sess_test-2", tokens.Token("sess_"))
	assert.Equal(t, 2, tokens.Issued())
}
