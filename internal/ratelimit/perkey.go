package ratelimit

import (
	"sync"
	"time"
)

// PerKeyConfig configures a PerKeyLimiter.
type PerKeyConfig struct {
	MaxTokens     float64       // Burst capacity per key
	RefillRate    float64       // Tokens per second per key
	CleanupPeriod time.Duration // How often idle buckets are dropped
}

// PerKeyLimiter maintains one token bucket per key (client IP). Buckets are
// created on first use and dropped once idle long enough to refill fully.
type PerKeyLimiter struct {
	mu       sync.RWMutex
	limiters map[string]*Limiter
	config   PerKeyConfig
	onDrop   func()
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewPerKeyLimiter creates a per-key limiter and starts its cleanup loop.
// Call Stop when done.
func NewPerKeyLimiter(cfg PerKeyConfig) *PerKeyLimiter {
	pkl := &PerKeyLimiter{
		limiters: make(map[string]*Limiter),
		config:   cfg,
		stopCh:   make(chan struct{}),
	}
	go pkl.cleanupLoop()
	return pkl
}

// OnDrop registers a callback invoked whenever a request is rejected. Set
// it before serving traffic; it is read without synchronization afterwards.
func (pkl *PerKeyLimiter) OnDrop(fn func()) {
	pkl.onDrop = fn
}

// Allow consumes a token from the key's bucket, creating the bucket on
// first use. An empty key is never limited.
func (pkl *PerKeyLimiter) Allow(key string) bool {
	if key == "" {
		return true
	}

	pkl.mu.RLock()
	limiter, exists := pkl.limiters[key]
	pkl.mu.RUnlock()

	if !exists {
		pkl.mu.Lock()
		limiter, exists = pkl.limiters[key]
		if !exists {
			limiter = New(pkl.config.MaxTokens, pkl.config.RefillRate)
			pkl.limiters[key] = limiter
		}
		pkl.mu.Unlock()
	}

	allowed := limiter.Allow()
	if !allowed && pkl.onDrop != nil {
		pkl.onDrop()
	}
	return allowed
}

// ActiveCount returns the number of live buckets.
func (pkl *PerKeyLimiter) ActiveCount() int {
	pkl.mu.RLock()
	defer pkl.mu.RUnlock()
	return len(pkl.limiters)
}

func (pkl *PerKeyLimiter) cleanupLoop() {
	ticker := time.NewTicker(pkl.config.CleanupPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-pkl.stopCh:
			return
		case <-ticker.C:
			pkl.mu.Lock()
			for key, limiter := range pkl.limiters {
				if limiter.IsFull() {
					delete(pkl.limiters, key)
				}
			}
			pkl.mu.Unlock()
		}
	}
}

// Stop terminates the cleanup loop. Safe to call multiple times.
func (pkl *PerKeyLimiter) Stop() {
	pkl.stopOnce.Do(func() { close(pkl.stopCh) })
}
