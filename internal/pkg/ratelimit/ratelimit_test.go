package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestKeyedLimiter_BurstPerKey(t *testing.T) {
	l := NewPerMinute(60, 2)
	fixed := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return fixed }
	l.lastCleanup = fixed

	assert.True(t, l.Allow("10.0.0.1"))
	assert.True(t, l.Allow("10.0.0.1"))
	assert.False(t, l.Allow("10.0.0.1"))

	// other clients have their own bucket
	assert.True(t, l.Allow("10.0.0.2"))

	// one token per second refills
	fixed = fixed.Add(time.Second)
	assert.True(t, l.Allow("10.0.0.1"))
}

func TestKeyedLimiter_PeriodicReset(t *testing.T) {
	l := NewPerMinute(1, 1)
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	current := start
	l.now = func() time.Time { return current }
	l.lastCleanup = start

	assert.True(t, l.Allow("a"))
	assert.True(t, l.Allow("b"))
	assert.Equal(t, 2, l.Len())

	current = start.Add(2 * time.Hour)
	assert.True(t, l.Allow("a"))
	assert.Equal(t, 1, l.Len())
}
