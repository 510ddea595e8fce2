package main

import (
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/vakansdata/vakansdata-go/internal/logger"
	"github.com/vakansdata/vakansdata-go/internal/metrics"
	"github.com/vakansdata/vakansdata-go/internal/ratelimit"
)

const requestIDHeader = "X-Request-ID"

// securityHeadersMiddleware adds security headers to all responses.
func securityHeadersMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Header("Permissions-Policy", "geolocation=(), microphone=(), camera=()")
		c.Header("Content-Security-Policy", "default-src 'self'")
		c.Next()
	}
}

// requestIDMiddleware assigns each request an ID, honoring one supplied by
// an upstream proxy, and echoes it in the response.
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

// loggingMiddleware logs completed HTTP requests.
func loggingMiddleware(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		status := c.Writer.Status()
		entry := log.WithField("method", method).
			WithField("path", path).
			WithField("status", status).
			WithField("duration_ms", time.Since(start).Milliseconds()).
			WithField("ip", c.ClientIP())
		if id, ok := c.Get("request_id"); ok {
			entry = entry.WithField("request_id", id)
		}

		switch {
		case len(c.Errors) > 0:
			entry.WithField("errors", c.Errors.String()).Error("Request completed with errors")
		case status >= 500:
			entry.Error("Request failed")
		case status >= 400:
			entry.Warn("Request completed with client error")
		default:
			entry.Debug("Request completed")
		}
	}
}

// rateLimitMiddleware enforces the global and per-client limits on the API
// group. The global bucket caps total upstream fan-out; the per-client
// buckets keep one dashboard from starving the others.
func rateLimitMiddleware(global *ratelimit.Limiter, perClient *ratelimit.PerKeyLimiter, m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !global.Allow() {
			if m != nil {
				m.RateLimiterDropped.Inc()
				m.HTTPErrorsTotal.WithLabelValues("rate_limit", c.FullPath()).Inc()
			}
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		if !perClient.Allow(c.ClientIP()) {
			if m != nil {
				m.HTTPErrorsTotal.WithLabelValues("rate_limit", c.FullPath()).Inc()
			}
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}

// basicAuthMiddleware guards the metrics endpoint with constant-time
// credential comparison.
func basicAuthMiddleware(username, password string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, pass, ok := c.Request.BasicAuth()
		if !ok ||
			subtle.ConstantTimeCompare([]byte(user), []byte(username)) != 1 ||
			subtle.ConstantTimeCompare([]byte(pass), []byte(password)) != 1 {
			c.Header("WWW-Authenticate", `Basic realm="metrics"`)
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		c.Next()
	}
}
