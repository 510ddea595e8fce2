// Package warmup pre-detects the data cutoff and prefetches the default
// dashboard range at startup so the first real request is served from
// cache.
package warmup

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/vakansdata/vakansdata-go/internal/dateutil"
	"github.com/vakansdata/vakansdata-go/internal/logger"
	"github.com/vakansdata/vakansdata-go/internal/vacancy"
)

// Stats tracks warmup results. Fields use atomic operations for concurrent
// access.
type Stats struct {
	CutoffDetected   atomic.Bool
	MonthsPrefetched atomic.Int64
}

// Run detects the cutoff and prefetches the default trailing range without
// filters. Cutoff detection never errors (a failed detection just reports
// no cutoff), so Run only returns an error when the series prefetch fails
// outright.
func Run(ctx context.Context, cutoff *vacancy.CutoffCache, agg *vacancy.Aggregator, log *logger.Logger) (*Stats, error) {
	stats := &Stats{}
	startTime := time.Now()

	if _, ok := cutoff.Get(ctx); ok {
		stats.CutoffDetected.Store(true)
	}

	from, to := dateutil.DefaultRange(time.Now())
	records, _, warnings, err := agg.Aggregate(ctx,
		from.Start().Format(dateutil.InstantLayout),
		to.End().Format(dateutil.InstantLayout),
		"", "")
	if err != nil {
		return stats, err
	}
	stats.MonthsPrefetched.Store(int64(len(records) - len(warnings)))

	log.WithField("duration", time.Since(startTime)).
		WithField("cutoff_detected", stats.CutoffDetected.Load()).
		WithField("months_prefetched", stats.MonthsPrefetched.Load()).
		Info("Warmup complete")

	return stats, nil
}

// RunInBackground executes warmup asynchronously and marks readiness when
// it finishes. It detaches from the caller's context so shutdown of the
// triggering request cannot abort the shared caches mid-fill.
func RunInBackground(cutoff *vacancy.CutoffCache, agg *vacancy.Aggregator, readiness *ReadinessState, log *logger.Logger) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.WithField("panic", r).Error("Panic in background warmup")
			}
		}()

		log.Info("Starting background warmup")

		_, err := Run(context.Background(), cutoff, agg, log)
		if err != nil {
			log.WithError(err).Warn("Background warmup finished with errors")
		}
		if readiness != nil {
			readiness.MarkReady()
		}
	}()
}
