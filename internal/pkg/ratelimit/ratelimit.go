// Package ratelimit keeps one token bucket per client key.
package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// KeyedLimiter hands out a rate.Limiter per key (usually a client IP).
type KeyedLimiter struct {
	mu          sync.Mutex
	limiters    map[string]*rate.Limiter
	limit       rate.Limit
	burst       int
	resetEvery  time.Duration
	lastCleanup time.Time
	now         func() time.Time
}

// NewPerMinute allows perMinute events per key with the given burst.
func NewPerMinute(perMinute, burst int) *KeyedLimiter {
	if burst < 1 {
		burst = 1
	}
	return &KeyedLimiter{
		limiters:    make(map[string]*rate.Limiter),
		limit:       rate.Limit(float64(perMinute) / 60.0),
		burst:       burst,
		resetEvery:  time.Hour,
		lastCleanup: time.Now(),
		now:         time.Now,
	}
}

// Allow reports whether an event for key may happen now.
func (l *KeyedLimiter) Allow(key string) bool {
	return l.get(key).AllowN(l.now(), 1)
}

func (l *KeyedLimiter) get(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	// Drop all buckets periodically so the map does not grow without bound.
	if l.now().Sub(l.lastCleanup) > l.resetEvery {
		l.limiters = make(map[string]*rate.Limiter)
		l.lastCleanup = l.now()
	}

	limiter, ok := l.limiters[key]
	if !ok {
		limiter = rate.NewLimiter(l.limit, l.burst)
		l.limiters[key] = limiter
	}
	return limiter
}

// Len returns the number of tracked keys
func (l *KeyedLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.limiters)
}
