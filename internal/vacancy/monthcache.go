package vacancy

import (
	"context"
	"sync"
	"time"

	"github.com/vakansdata/vakansdata-go/internal/dateutil"
	"github.com/vakansdata/vakansdata-go/internal/logger"
	"github.com/vakansdata/vakansdata-go/internal/metrics"
)

// MonthCache is an in-memory TTL cache for per-month counts. Month-level
// history never changes once published upstream, so entries stay valid for
// a long TTL (30 days by default). Entries are evicted lazily on read and
// in bulk by Sweep.
type MonthCache struct {
	mu      sync.RWMutex
	entries map[string]monthEntry
	ttl     time.Duration
	metrics *metrics.Metrics
	now     func() time.Time
}

type monthEntry struct {
	count     int
	expiresAt time.Time
}

// NewMonthCache creates a month result cache. Metrics may be nil.
func NewMonthCache(ttl time.Duration, m *metrics.Metrics) *MonthCache {
	return &MonthCache{
		entries: make(map[string]monthEntry),
		ttl:     ttl,
		metrics: m,
		now:     time.Now,
	}
}

func cacheKey(month dateutil.Month, region, occupation string) string {
	return month.String() + "|" + region + "|" + occupation
}

// Get returns the cached count for the tuple, or false on miss/expiry.
func (c *MonthCache) Get(month dateutil.Month, region, occupation string) (int, bool) {
	key := cacheKey(month, region, occupation)

	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if ok && c.now().Before(entry.expiresAt) {
		if c.metrics != nil {
			c.metrics.MonthCacheHitsTotal.Inc()
		}
		return entry.count, true
	}

	if ok {
		c.mu.Lock()
		// Re-check under the write lock; another goroutine may have
		// refreshed the entry in the meantime.
		if entry, ok = c.entries[key]; ok && !c.now().Before(entry.expiresAt) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
	}

	if c.metrics != nil {
		c.metrics.MonthCacheMissesTotal.Inc()
	}
	return 0, false
}

// Put stores the count for the tuple with the configured TTL.
func (c *MonthCache) Put(month dateutil.Month, region, occupation string, count int) {
	key := cacheKey(month, region, occupation)
	c.mu.Lock()
	c.entries[key] = monthEntry{count: count, expiresAt: c.now().Add(c.ttl)}
	c.mu.Unlock()
}

// Len returns the number of entries, expired ones included.
func (c *MonthCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Sweep removes expired entries and returns how many were removed.
func (c *MonthCache) Sweep() int {
	now := c.now()
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for key, entry := range c.entries {
		if !now.Before(entry.expiresAt) {
			delete(c.entries, key)
			removed++
		}
	}
	return removed
}

// StartSweeping runs Sweep on the given interval until ctx is canceled.
func (c *MonthCache) StartSweeping(ctx context.Context, interval time.Duration, log *logger.Logger) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if removed := c.Sweep(); removed > 0 {
					log.WithField("removed", removed).Debug("Swept expired month cache entries")
				}
			}
		}
	}()
}
