package vacancy

import (
	"context"
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vakansdata/vakansdata-go/internal/dateutil"
	"github.com/vakansdata/vakansdata-go/internal/logger"
)

// fakeFetcher is a scriptable MonthFetcher shared by the cache and
// aggregator tests.
type fakeFetcher struct {
	calls atomic.Int64
	fn    func(ctx context.Context, month dateutil.Month, region, occupation string) (Record, error)
}

func (f *fakeFetcher) FetchMonth(ctx context.Context, month dateutil.Month, region, occupation string) (Record, error) {
	f.calls.Add(1)
	return f.fn(ctx, month, region, occupation)
}

// countsByMonth returns a fetcher that reports the given count per month and
// zero for months not listed.
func countsByMonth(counts map[string]int) *fakeFetcher {
	return &fakeFetcher{fn: func(_ context.Context, month dateutil.Month, region, occupation string) (Record, error) {
		return NewRecord(month, region, occupation, counts[month.String()]), nil
	}}
}

func testLogger() *logger.Logger {
	return logger.NewWithWriter("error", io.Discard)
}

func newTestCutoffCache(fetcher MonthFetcher, now time.Time) *CutoffCache {
	c := NewCutoffCache(fetcher, 7*24*time.Hour, 10, 12, testLogger(), nil)
	c.now = func() time.Time { return now }
	return c
}

func TestCutoffCacheDetectsAndMemoizes(t *testing.T) {
	now := time.Date(2024, time.December, 15, 12, 0, 0, 0, time.UTC)
	fetcher := countsByMonth(map[string]int{
		"2024-10": 5000,
		"2024-11": 3,
		"2024-12": 0,
	})
	// Months before 2024-10 report zero, so 2024-10 is the cutoff.
	c := newTestCutoffCache(fetcher, now)

	month, ok := c.Get(context.Background())
	require.True(t, ok)
	assert.Equal(t, "2024-10", month.String())
	assert.Equal(t, int64(12), fetcher.calls.Load())

	// Second call is served from the slot without touching upstream.
	month, ok = c.Get(context.Background())
	require.True(t, ok)
	assert.Equal(t, "2024-10", month.String())
	assert.Equal(t, int64(12), fetcher.calls.Load())
}

func TestCutoffCacheSingleFlight(t *testing.T) {
	now := time.Date(2024, time.December, 15, 12, 0, 0, 0, time.UTC)

	release := make(chan struct{})
	fetcher := &fakeFetcher{fn: func(_ context.Context, month dateutil.Month, region, occupation string) (Record, error) {
		<-release
		return NewRecord(month, region, occupation, 5000), nil
	}}
	c := newTestCutoffCache(fetcher, now)

	const callers = 20
	var wg sync.WaitGroup
	results := make([]bool, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = c.Get(context.Background())
		}(i)
	}

	// Let the in-flight detection start, then unblock it.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	for i := 0; i < callers; i++ {
		assert.True(t, results[i])
	}
	// One detection batch for all callers: exactly one window of fetches.
	assert.Equal(t, int64(12), fetcher.calls.Load())
}

func TestCutoffCacheExpiry(t *testing.T) {
	now := time.Date(2024, time.December, 15, 12, 0, 0, 0, time.UTC)
	fetcher := countsByMonth(map[string]int{"2024-12": 5000})
	c := newTestCutoffCache(fetcher, now)

	_, ok := c.Get(context.Background())
	require.True(t, ok)
	require.Equal(t, int64(12), fetcher.calls.Load())

	// Advance past the TTL; the next Get re-runs detection.
	c.now = func() time.Time { return now.Add(8 * 24 * time.Hour) }
	_, ok = c.Get(context.Background())
	require.True(t, ok)
	assert.Equal(t, int64(24), fetcher.calls.Load())
}

func TestCutoffCacheMemoizesNoCutoff(t *testing.T) {
	now := time.Date(2024, time.December, 15, 12, 0, 0, 0, time.UTC)
	fetcher := countsByMonth(nil) // every month reports zero
	c := newTestCutoffCache(fetcher, now)

	_, ok := c.Get(context.Background())
	assert.False(t, ok)
	require.Equal(t, int64(12), fetcher.calls.Load())

	// A "none" result is memoized too; no re-detection within the TTL.
	_, ok = c.Get(context.Background())
	assert.False(t, ok)
	assert.Equal(t, int64(12), fetcher.calls.Load())
}

func TestCutoffCacheMemoizesTotalFailure(t *testing.T) {
	now := time.Date(2024, time.December, 15, 12, 0, 0, 0, time.UTC)
	fetcher := &fakeFetcher{fn: func(_ context.Context, _ dateutil.Month, _, _ string) (Record, error) {
		return Record{}, errors.New("upstream down")
	}}
	c := newTestCutoffCache(fetcher, now)

	_, ok := c.Get(context.Background())
	assert.False(t, ok)
	require.Equal(t, int64(12), fetcher.calls.Load())

	_, ok = c.Get(context.Background())
	assert.False(t, ok)
	assert.Equal(t, int64(12), fetcher.calls.Load())
}

func TestCutoffCacheInvalidate(t *testing.T) {
	now := time.Date(2024, time.December, 15, 12, 0, 0, 0, time.UTC)
	fetcher := countsByMonth(map[string]int{"2024-12": 5000})
	c := newTestCutoffCache(fetcher, now)

	_, ok := c.Get(context.Background())
	require.True(t, ok)
	require.Equal(t, int64(12), fetcher.calls.Load())

	c.Invalidate()

	_, _, expiry := c.Cached()
	assert.True(t, expiry.IsZero())

	_, ok = c.Get(context.Background())
	require.True(t, ok)
	assert.Equal(t, int64(24), fetcher.calls.Load())
}

func TestCutoffCacheGetSurvivesCallerCancellation(t *testing.T) {
	now := time.Date(2024, time.December, 15, 12, 0, 0, 0, time.UTC)
	fetcher := &fakeFetcher{fn: func(ctx context.Context, month dateutil.Month, region, occupation string) (Record, error) {
		if err := ctx.Err(); err != nil {
			return Record{}, err
		}
		return NewRecord(month, region, occupation, 5000), nil
	}}
	c := newTestCutoffCache(fetcher, now)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// Detection runs on a detached context, so an already-canceled caller
	// still produces a usable cutoff.
	month, ok := c.Get(ctx)
	require.True(t, ok)
	assert.Equal(t, "2024-12", month.String())
}

func TestCutoffCacheCached(t *testing.T) {
	now := time.Date(2024, time.December, 15, 12, 0, 0, 0, time.UTC)
	fetcher := countsByMonth(map[string]int{"2024-12": 5000})
	c := newTestCutoffCache(fetcher, now)

	// Cached never triggers detection.
	_, _, expiry := c.Cached()
	assert.True(t, expiry.IsZero())
	assert.Equal(t, int64(0), fetcher.calls.Load())

	_, ok := c.Get(context.Background())
	require.True(t, ok)

	month, ok, expiry := c.Cached()
	require.True(t, ok)
	assert.Equal(t, "2024-12", month.String())
	assert.Equal(t, now.Add(7*24*time.Hour), expiry)
}
