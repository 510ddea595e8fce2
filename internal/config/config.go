// Package config provides application configuration management.
// It loads settings from environment variables and provides defaults for
// the server, the upstream JobTech client, cache lifetimes, and rate limits.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// DefaultUpstreamBaseURL is the JobTech historical search API endpoint.
const DefaultUpstreamBaseURL = "https://historical.api.jobtechdev.se"

// Config holds all application configuration.
type Config struct {
	// Server Configuration
	Port            string
	LogLevel        string
	Environment     string
	ShutdownTimeout time.Duration

	// Upstream Configuration
	UpstreamBaseURL    string
	UpstreamTimeout    time.Duration
	UpstreamMaxRetries int

	// Cutoff detection
	CutoffTTL          time.Duration // TTL for the detected data cutoff (default: 7 days)
	CutoffThreshold    int           // Minimum count treated as real data (default: 10)
	CutoffWindowMonths int           // Trailing window inspected for the cutoff (default: 12)

	// Month result cache
	MonthCacheTTL time.Duration // TTL for cached month counts (default: 30 days)

	// Warmup
	WarmupEnabled bool // Pre-detect the cutoff in the background at startup

	// Rate Limits (Token Bucket Algorithm)
	GlobalRateRPS    float64 // Global rate limit in requests per second (default: 100)
	ClientRateBurst  float64 // Maximum burst tokens per client IP (default: 30)
	ClientRateRefill float64 // Tokens refilled per second per client IP (default: 5)

	// Sentry Configuration
	SentryEnabled    bool
	SentryDSN        string
	SentryEnv        string
	SentrySampleRate float64

	// Better Stack Configuration
	BetterStackEnabled  bool
	BetterStackToken    string
	BetterStackEndpoint string

	// Metrics Authentication
	MetricsAuthEnabled bool
	MetricsUsername    string
	MetricsPassword    string
}

// Load reads configuration from environment variables.
// It attempts to load a .env file first, then reads from env vars.
func Load() (*Config, error) {
	// Try to load .env file (ignore error if file doesn't exist)
	_ = godotenv.Load()

	cfg := &Config{
		Port:            getEnv(EnvPort, "10000"),
		LogLevel:        getEnv(EnvLogLevel, "info"),
		Environment:     getEnv(EnvEnvironment, "production"),
		ShutdownTimeout: getEnvDuration(EnvShutdownTimeout, GracefulShutdown),

		UpstreamBaseURL:    getEnv(EnvUpstreamBaseURL, DefaultUpstreamBaseURL),
		UpstreamTimeout:    getEnvDuration(EnvUpstreamTimeout, UpstreamRequest),
		UpstreamMaxRetries: getEnvInt(EnvUpstreamMaxRetries, 2),

		CutoffTTL:          getEnvDuration(EnvCutoffTTL, CutoffCacheTTL),
		CutoffThreshold:    getEnvInt(EnvCutoffThreshold, 10),
		CutoffWindowMonths: getEnvInt(EnvCutoffWindow, 12),

		MonthCacheTTL: getEnvDuration(EnvMonthCacheTTL, MonthCacheTTL),

		WarmupEnabled: getEnvBool(EnvWarmupEnabled, true),

		GlobalRateRPS:    getEnvFloat(EnvGlobalRateRPS, 100),
		ClientRateBurst:  getEnvFloat(EnvClientRateBurst, 30),
		ClientRateRefill: getEnvFloat(EnvClientRateRefill, 5),

		SentryEnabled:    getEnvBool(EnvSentryEnabled, false),
		SentryDSN:        getEnv(EnvSentryDSN, ""),
		SentryEnv:        getEnv(EnvSentryEnvironment, getEnv(EnvEnvironment, "production")),
		SentrySampleRate: getEnvFloat(EnvSentrySampleRate, 1.0),

		BetterStackEnabled:  getEnvBool(EnvBetterStackEnabled, false),
		BetterStackToken:    getEnv(EnvBetterStackToken, ""),
		BetterStackEndpoint: getEnv(EnvBetterStackEndpoint, ""),

		MetricsAuthEnabled: getEnvBool(EnvMetricsAuthEnabled, false),
		MetricsUsername:    getEnv(EnvMetricsUsername, "prometheus"),
		MetricsPassword:    getEnv(EnvMetricsPassword, ""),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.UpstreamBaseURL == "" {
		return fmt.Errorf("%s must not be empty", EnvUpstreamBaseURL)
	}
	if c.UpstreamTimeout <= 0 {
		return fmt.Errorf("%s must be positive", EnvUpstreamTimeout)
	}
	if c.UpstreamMaxRetries < 0 {
		return fmt.Errorf("%s must not be negative", EnvUpstreamMaxRetries)
	}
	if c.CutoffThreshold < 0 {
		return fmt.Errorf("%s must not be negative", EnvCutoffThreshold)
	}
	if c.CutoffWindowMonths < 1 {
		return fmt.Errorf("%s must be at least 1", EnvCutoffWindow)
	}
	if c.SentryEnabled && c.SentryDSN == "" {
		return fmt.Errorf("%s is required when Sentry is enabled", EnvSentryDSN)
	}
	if c.BetterStackEnabled && c.BetterStackToken == "" {
		return fmt.Errorf("%s is required when Better Stack is enabled", EnvBetterStackToken)
	}
	if c.MetricsAuthEnabled && c.MetricsPassword == "" {
		return fmt.Errorf("%s is required when metrics auth is enabled", EnvMetricsPassword)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
