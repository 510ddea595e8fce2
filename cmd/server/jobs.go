package main

import (
	"context"
	"time"

	"github.com/vakansdata/vakansdata-go/internal/logger"
	"github.com/vakansdata/vakansdata-go/internal/vacancy"
	"github.com/vakansdata/vakansdata-go/internal/warmup"
)

// refreshHour is when the daily refresh runs (local time). The upstream
// loads new data in a nightly batch, so refreshing in the early morning
// picks up a freshly extended coverage horizon.
const refreshHour = 5

// dailyRefresh invalidates the cutoff and re-runs warmup once a day so the
// first dashboard request after an upstream data load sees the new months.
func dailyRefresh(ctx context.Context, cutoff *vacancy.CutoffCache, agg *vacancy.Aggregator, log *logger.Logger) {
	for {
		next := nextRunTime(time.Now())
		log.WithField("next_run", next.Format(time.RFC3339)).Debug("Daily refresh scheduled")

		select {
		case <-ctx.Done():
			return
		case <-time.After(time.Until(next)):
		}

		cutoff.Invalidate()
		if _, err := warmup.Run(ctx, cutoff, agg, log); err != nil {
			log.WithError(err).Warn("Daily refresh finished with errors")
		}
	}
}

// nextRunTime returns the next occurrence of refreshHour after now.
func nextRunTime(now time.Time) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), refreshHour, 0, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}
