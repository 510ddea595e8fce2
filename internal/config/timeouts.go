// Package config provides centralized timeout constants for the application.
//
// These values are tuned for the JobTech historical search API, which serves
// immutable month-level aggregates: individual queries are cheap, but a
// single dashboard request fans out to one upstream call per month (times 21
// regions in map mode), so per-call timeouts must stay well below the HTTP
// write timeout of the server itself.
package config

import "time"

// Upstream timeouts
const (
	// UpstreamRequest is the per-call timeout for one JobTech search query.
	// A hung upstream call degrades that single month to a placeholder
	// rather than stalling the whole page request.
	UpstreamRequest = 15 * time.Second

	// UpstreamRetryInitial is the initial delay before retrying a failed
	// request. Uses exponential backoff: 1s -> 2s -> 4s.
	UpstreamRetryInitial = 1 * time.Second
)

// HTTP server timeouts
const (
	// ServerHTTPRead is the HTTP server read timeout. Requests carry only
	// query parameters, so this can be short.
	ServerHTTPRead = 10 * time.Second

	// ServerHTTPWrite must accommodate a full map-mode aggregation:
	// months x regions concurrent upstream calls including retries.
	ServerHTTPWrite = 90 * time.Second

	// ServerHTTPIdle is the idle timeout for keep-alive connections.
	ServerHTTPIdle = 120 * time.Second
)

// Cache lifetimes
const (
	// CutoffCacheTTL is how long a detected data cutoff stays valid.
	// Upstream coverage moves monthly, so a week of staleness is fine.
	CutoffCacheTTL = 7 * 24 * time.Hour

	// MonthCacheTTL is how long fetched month counts stay cached.
	// Historical data never changes once published.
	MonthCacheTTL = 30 * 24 * time.Hour

	// MonthCacheSweepInterval is how often expired month entries are purged.
	MonthCacheSweepInterval = 12 * time.Hour
)

// Warmup
const (
	// WarmupReadinessTimeout is how long the readiness probe waits for the
	// initial warmup before reporting ready anyway. Serving uncached (slower)
	// requests beats staying out of rotation behind a sluggish upstream.
	WarmupReadinessTimeout = 2 * time.Minute
)

// Rate limiter maintenance
const (
	// RateLimiterCleanupInterval is how often inactive client rate
	// limiters are cleaned up.
	RateLimiterCleanupInterval = 5 * time.Minute
)

// Graceful shutdown
const (
	// GracefulShutdown is the timeout for graceful server shutdown.
	// Allows in-flight requests to complete before forceful termination.
	GracefulShutdown = 30 * time.Second
)
