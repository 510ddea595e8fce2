// Package config defines environment variable keys for configuration.
package config

//nolint:gosec,revive // Environment variable keys are not credentials and do not need per-const comments.
const (
	// Server
	EnvPort            = "VAKANS_PORT"
	EnvLogLevel        = "VAKANS_LOG_LEVEL"
	EnvShutdownTimeout = "VAKANS_SHUTDOWN_TIMEOUT"
	EnvEnvironment     = "VAKANS_ENVIRONMENT"

	// Upstream (JobTech historical search API)
	EnvUpstreamBaseURL    = "VAKANS_UPSTREAM_BASE_URL"
	EnvUpstreamTimeout    = "VAKANS_UPSTREAM_TIMEOUT"
	EnvUpstreamMaxRetries = "VAKANS_UPSTREAM_MAX_RETRIES"

	// Cutoff detection
	EnvCutoffTTL       = "VAKANS_CUTOFF_TTL"
	EnvCutoffThreshold = "VAKANS_CUTOFF_THRESHOLD"
	EnvCutoffWindow    = "VAKANS_CUTOFF_WINDOW_MONTHS"

	// Month result cache
	EnvMonthCacheTTL = "VAKANS_MONTH_CACHE_TTL"

	// Warmup
	EnvWarmupEnabled = "VAKANS_WARMUP_ENABLED"

	// Rate Limits
	EnvGlobalRateRPS    = "VAKANS_GLOBAL_RATE_RPS"
	EnvClientRateBurst  = "VAKANS_CLIENT_RATE_BURST"
	EnvClientRateRefill = "VAKANS_CLIENT_RATE_REFILL"

	// Sentry Feature
	EnvSentryEnabled     = "VAKANS_SENTRY_ENABLED"
	EnvSentryDSN         = "VAKANS_SENTRY_DSN"
	EnvSentryEnvironment = "VAKANS_SENTRY_ENVIRONMENT"
	EnvSentrySampleRate  = "VAKANS_SENTRY_SAMPLE_RATE"

	// Better Stack Feature
	EnvBetterStackEnabled  = "VAKANS_BETTERSTACK_ENABLED"
	EnvBetterStackToken    = "VAKANS_BETTERSTACK_TOKEN"
	EnvBetterStackEndpoint = "VAKANS_BETTERSTACK_ENDPOINT"

	// Metrics Auth Feature
	EnvMetricsAuthEnabled = "VAKANS_METRICS_AUTH_ENABLED"
	EnvMetricsUsername    = "VAKANS_METRICS_USERNAME"
	EnvMetricsPassword    = "VAKANS_METRICS_PASSWORD"
)
