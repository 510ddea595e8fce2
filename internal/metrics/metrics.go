// Package metrics defines the Prometheus instrumentation for the vacancy API.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Upstream metrics
	UpstreamRequestsTotal   *prometheus.CounterVec
	UpstreamDurationSeconds prometheus.Histogram

	// Cache metrics
	MonthCacheHitsTotal    prometheus.Counter
	MonthCacheMissesTotal  prometheus.Counter
	CutoffCacheHitsTotal   prometheus.Counter
	CutoffCacheMissesTotal prometheus.Counter

	// Cutoff detection metrics
	CutoffDetectionsTotal *prometheus.CounterVec

	// Singleflight metrics
	SingleflightDedupTotal prometheus.Counter

	// Aggregation metrics
	AggregationDurationSeconds *prometheus.HistogramVec
	AggregationDegradedMonths  prometheus.Counter

	// HTTP metrics
	HTTPErrorsTotal *prometheus.CounterVec

	// Rate limiter metrics
	RateLimiterDropped prometheus.Counter
}

// New creates a new Metrics instance with all metrics registered
func New(registry *prometheus.Registry) *Metrics {
	return &Metrics{
		UpstreamRequestsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "vakans_upstream_requests_total",
				Help: "Total number of JobTech search requests by status",
			},
			[]string{"status"}, // status: success, error, timeout
		),

		UpstreamDurationSeconds: promauto.With(registry).NewHistogram(
			prometheus.HistogramOpts{
				Name:    "vakans_upstream_duration_seconds",
				Help:    "JobTech search request duration in seconds",
				Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 15}, // Matches 15s per-call timeout
			},
		),

		MonthCacheHitsTotal: promauto.With(registry).NewCounter(
			prometheus.CounterOpts{
				Name: "vakans_month_cache_hits_total",
				Help: "Total number of month result cache hits",
			},
		),

		MonthCacheMissesTotal: promauto.With(registry).NewCounter(
			prometheus.CounterOpts{
				Name: "vakans_month_cache_misses_total",
				Help: "Total number of month result cache misses",
			},
		),

		CutoffCacheHitsTotal: promauto.With(registry).NewCounter(
			prometheus.CounterOpts{
				Name: "vakans_cutoff_cache_hits_total",
				Help: "Total number of cutoff cache hits",
			},
		),

		CutoffCacheMissesTotal: promauto.With(registry).NewCounter(
			prometheus.CounterOpts{
				Name: "vakans_cutoff_cache_misses_total",
				Help: "Total number of cutoff cache misses triggering detection",
			},
		),

		CutoffDetectionsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "vakans_cutoff_detections_total",
				Help: "Total number of cutoff detection runs by result",
			},
			[]string{"result"}, // result: detected, none, error
		),

		SingleflightDedupTotal: promauto.With(registry).NewCounter(
			prometheus.CounterOpts{
				Name: "vakans_singleflight_dedup_total",
				Help: "Total number of cutoff detections deduplicated by singleflight",
			},
		),

		AggregationDurationSeconds: promauto.With(registry).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "vakans_aggregation_duration_seconds",
				Help:    "Range aggregation duration in seconds by mode",
				Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
			},
			[]string{"mode"}, // mode: series, map
		),

		AggregationDegradedMonths: promauto.With(registry).NewCounter(
			prometheus.CounterOpts{
				Name: "vakans_aggregation_degraded_months_total",
				Help: "Total number of months degraded to placeholder records",
			},
		),

		HTTPErrorsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "vakans_http_errors_total",
				Help: "Total HTTP errors by type and endpoint",
			},
			[]string{"error_type", "endpoint"}, // error_type: bad_request, upstream, rate_limit
		),

		RateLimiterDropped: promauto.With(registry).NewCounter(
			prometheus.CounterOpts{
				Name: "vakans_rate_limiter_dropped_total",
				Help: "Total number of requests dropped by rate limiting",
			},
		),
	}
}
