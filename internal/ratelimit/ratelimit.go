// Package ratelimit implements token bucket rate limiting for the public
// API: one global bucket protecting the upstream fan-out, plus per-client
// buckets keyed by IP.
package ratelimit

import (
	"sync"
	"time"
)

// Limiter is a token bucket. Tokens refill continuously at refillRate per
// second up to maxTokens; each allowed request consumes one token. Safe for
// concurrent use.
type Limiter struct {
	mu         sync.Mutex
	tokens     float64
	maxTokens  float64
	refillRate float64
	lastRefill time.Time
}

// New creates a limiter with the given burst capacity and refill rate in
// tokens per second. The bucket starts full.
func New(maxTokens, refillRate float64) *Limiter {
	return &Limiter{
		tokens:     maxTokens,
		maxTokens:  maxTokens,
		refillRate: refillRate,
		lastRefill: time.Now(),
	}
}

// refill must be called with mu held.
func (l *Limiter) refill() {
	now := time.Now()
	l.tokens += now.Sub(l.lastRefill).Seconds() * l.refillRate
	if l.tokens > l.maxTokens {
		l.tokens = l.maxTokens
	}
	l.lastRefill = now
}

// Allow consumes one token if available and reports whether it did.
func (l *Limiter) Allow() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.refill()
	if l.tokens >= 1 {
		l.tokens--
		return true
	}
	return false
}

// Available returns the current token count, for diagnostics.
func (l *Limiter) Available() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.refill()
	return l.tokens
}

// IsFull reports whether the bucket is back at capacity. A full bucket
// means the client has been idle long enough that its limiter can be
// dropped.
func (l *Limiter) IsFull() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.refill()
	return l.tokens >= l.maxTokens
}

// Reset refills the bucket to capacity.
func (l *Limiter) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.tokens = l.maxTokens
	l.lastRefill = time.Now()
}
