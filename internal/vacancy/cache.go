package vacancy

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/vakansdata/vakansdata-go/internal/dateutil"
	"github.com/vakansdata/vakansdata-go/internal/logger"
	"github.com/vakansdata/vakansdata-go/internal/metrics"
)

// MonthFetcher issues one upstream query for a single month. Implemented by
// jobtech.Client; test doubles substitute it freely.
type MonthFetcher interface {
	FetchMonth(ctx context.Context, month dateutil.Month, region, occupation string) (Record, error)
}

// cutoffSlot is one immutable cache generation. Refresh replaces the slot,
// it never mutates an existing one.
type cutoffSlot struct {
	month     dateutil.Month
	ok        bool
	expiresAt time.Time
}

// CutoffCache memoizes the detected data cutoff with a TTL. A cache miss
// triggers at most one detection batch system-wide (singleflight); the
// detection fetches the trailing unfiltered window through the MonthFetcher
// and runs DetectCutoff over it. Detection failures are logged and memoized
// as "no cutoff" so a persistently failing upstream is not hammered.
type CutoffCache struct {
	fetcher      MonthFetcher
	ttl          time.Duration
	threshold    int
	windowMonths int
	log          *logger.Logger
	metrics      *metrics.Metrics
	now          func() time.Time

	group singleflight.Group
	mu    sync.Mutex
	slot  *cutoffSlot
}

// NewCutoffCache creates a cutoff cache. Metrics may be nil.
func NewCutoffCache(fetcher MonthFetcher, ttl time.Duration, threshold, windowMonths int, log *logger.Logger, m *metrics.Metrics) *CutoffCache {
	if threshold <= 0 {
		threshold = DefaultCutoffThreshold
	}
	if windowMonths <= 0 {
		windowMonths = DefaultCutoffWindowMonths
	}
	return &CutoffCache{
		fetcher:      fetcher,
		ttl:          ttl,
		threshold:    threshold,
		windowMonths: windowMonths,
		log:          log.WithModule("cutoff"),
		metrics:      m,
		now:          time.Now,
	}
}

// Get returns the cached cutoff month if present and unexpired; otherwise it
// runs one detection batch and memoizes the result (including a "none"
// result) for the TTL. Get never returns an error: detection is a
// best-effort optimization and failures simply report no cutoff.
func (c *CutoffCache) Get(ctx context.Context) (dateutil.Month, bool) {
	c.mu.Lock()
	slot := c.slot
	c.mu.Unlock()

	if slot != nil && c.now().Before(slot.expiresAt) {
		if c.metrics != nil {
			c.metrics.CutoffCacheHitsTotal.Inc()
		}
		return slot.month, slot.ok
	}

	if c.metrics != nil {
		c.metrics.CutoffCacheMissesTotal.Inc()
	}

	// Detection runs detached from the triggering request so one caller's
	// cancellation cannot poison the shared result.
	detachedCtx := context.WithoutCancel(ctx)

	result, _, shared := c.group.Do("cutoff", func() (any, error) {
		fresh := c.detect(detachedCtx)
		c.mu.Lock()
		c.slot = fresh
		c.mu.Unlock()
		return fresh, nil
	})
	if shared && c.metrics != nil {
		c.metrics.SingleflightDedupTotal.Inc()
	}

	fresh := result.(*cutoffSlot)
	return fresh.month, fresh.ok
}

// Cached returns the memoized value without triggering detection. The third
// return is the expiry instant of the current slot (zero when empty).
func (c *CutoffCache) Cached() (dateutil.Month, bool, time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.slot == nil || !c.now().Before(c.slot.expiresAt) {
		return dateutil.Month{}, false, time.Time{}
	}
	return c.slot.month, c.slot.ok, c.slot.expiresAt
}

// Invalidate clears the memoized value, forcing recomputation on the next
// Get. Safe to call concurrently with in-flight Get calls; a detection
// started before invalidation completes normally and populates the new slot.
func (c *CutoffCache) Invalidate() {
	c.mu.Lock()
	c.slot = nil
	c.mu.Unlock()
	c.log.Info("Cutoff cache invalidated")
}

// Threshold returns the detection threshold in use.
func (c *CutoffCache) Threshold() int {
	return c.threshold
}

// TTL returns the configured cache lifetime.
func (c *CutoffCache) TTL() time.Duration {
	return c.ttl
}

// detect fetches the trailing unfiltered window and runs the detector over
// it. Months that fail to fetch contribute zero-count placeholders, which
// simply cannot exceed the threshold.
func (c *CutoffCache) detect(ctx context.Context) *cutoffSlot {
	to := dateutil.MonthOf(c.now())
	from := to.AddMonths(-(c.windowMonths - 1))
	months := dateutil.MonthsBetween(from, to)

	records := make([]Record, len(months))
	var failures []string
	var mu sync.Mutex
	var wg sync.WaitGroup

	for i, m := range months {
		wg.Add(1)
		go func(i int, m dateutil.Month) {
			defer wg.Done()
			rec, err := c.fetcher.FetchMonth(ctx, m, "", "")
			if err != nil {
				mu.Lock()
				failures = append(failures, fmt.Sprintf("%s: %v", m, err))
				mu.Unlock()
				rec = Placeholder(m, "", "")
			}
			records[i] = rec
		}(i, m)
	}
	wg.Wait()

	if len(failures) > 0 {
		c.log.WithField("failures", failures).Warn("Cutoff detection window partially failed")
	}

	slot := &cutoffSlot{expiresAt: c.now().Add(c.ttl)}
	slot.month, slot.ok = DetectCutoff(records, c.threshold)

	switch {
	case slot.ok:
		c.log.WithField("cutoff", slot.month.String()).Info("Data cutoff detected and cached")
		c.record("detected")
	case len(failures) == len(months):
		c.log.Warn("Cutoff detection failed for every month in the window")
		c.record("error")
	default:
		c.log.Warn("No month in the window exceeded the cutoff threshold")
		c.record("none")
	}
	return slot
}

func (c *CutoffCache) record(result string) {
	if c.metrics != nil {
		c.metrics.CutoffDetectionsTotal.WithLabelValues(result).Inc()
	}
}
