package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vakansdata/vakansdata-go/internal/api"
	"github.com/vakansdata/vakansdata-go/internal/buildinfo"
	"github.com/vakansdata/vakansdata-go/internal/config"
	"github.com/vakansdata/vakansdata-go/internal/metrics"
	"github.com/vakansdata/vakansdata-go/internal/ratelimit"
	"github.com/vakansdata/vakansdata-go/internal/vacancy"
	"github.com/vakansdata/vakansdata-go/internal/warmup"
)

// setupRoutes configures all HTTP routes.
func setupRoutes(
	router *gin.Engine,
	handler *api.Handler,
	cutoff *vacancy.CutoffCache,
	readiness *warmup.ReadinessState,
	registry *prometheus.Registry,
	cfg *config.Config,
	globalLimiter *ratelimit.Limiter,
	clientLimiter *ratelimit.PerKeyLimiter,
	m *metrics.Metrics,
) {
	rootHandler := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service": "vakansdata",
			"version": buildinfo.Version,
		})
	}
	router.GET("/", rootHandler)
	router.HEAD("/", rootHandler)

	// Liveness probe. Never checks dependencies, only that the process is
	// serving.
	healthHandler := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"version": buildinfo.Version,
		})
	}
	router.GET("/healthz", healthHandler)
	router.HEAD("/healthz", healthHandler)

	// Readiness probe. Not ready until the initial warmup completes or its
	// timeout elapses.
	readyHandler := func(c *gin.Context) {
		status := readiness.Status()
		code := http.StatusOK
		if !status.Ready {
			code = http.StatusServiceUnavailable
		}
		_, cutoffCached, _ := cutoff.Cached()
		c.JSON(code, gin.H{
			"ready":           status.Ready,
			"reason":          status.Reason,
			"elapsed_seconds": status.ElapsedSeconds,
			"cutoff_cached":   cutoffCached,
		})
	}
	router.GET("/ready", readyHandler)
	router.HEAD("/ready", readyHandler)

	v1 := router.Group("/api/v1")
	v1.Use(rateLimitMiddleware(globalLimiter, clientLimiter, m))
	{
		v1.GET("/vacancies", handler.GetVacancies)
		v1.GET("/vacancies/map", handler.GetVacanciesMap)
		v1.GET("/cutoff", handler.GetCutoff)
		v1.POST("/cutoff/refresh", handler.RefreshCutoff)
		v1.GET("/regions", handler.GetRegions)
		v1.GET("/occupation-groups", handler.GetOccupationGroups)
	}

	metricsHandler := gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	if cfg.MetricsAuthEnabled {
		router.GET("/metrics", basicAuthMiddleware(cfg.MetricsUsername, cfg.MetricsPassword), metricsHandler)
	} else {
		router.GET("/metrics", metricsHandler)
	}
}
