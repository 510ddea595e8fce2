// Package main provides the vacancy statistics API server entry point.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/vakansdata/vakansdata-go/internal/api"
	"github.com/vakansdata/vakansdata-go/internal/buildinfo"
	"github.com/vakansdata/vakansdata-go/internal/config"
	"github.com/vakansdata/vakansdata-go/internal/jobtech"
	"github.com/vakansdata/vakansdata-go/internal/logger"
	"github.com/vakansdata/vakansdata-go/internal/metrics"
	"github.com/vakansdata/vakansdata-go/internal/ratelimit"
	"github.com/vakansdata/vakansdata-go/internal/sentry"
	"github.com/vakansdata/vakansdata-go/internal/taxonomy"
	"github.com/vakansdata/vakansdata-go/internal/vacancy"
	"github.com/vakansdata/vakansdata-go/internal/warmup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	var logOpts logger.Options
	if cfg.BetterStackEnabled {
		logOpts.BetterStackToken = cfg.BetterStackToken
		logOpts.BetterStackEndpoint = cfg.BetterStackEndpoint
	}
	log := logger.NewWithOptions(cfg.LogLevel, os.Stdout, logOpts)
	log.WithField("version", buildinfo.Version).Info("Starting vacancy statistics server")

	if cfg.SentryEnabled {
		if err := sentry.Initialize(sentry.Config{
			DSN:         cfg.SentryDSN,
			Environment: cfg.SentryEnv,
			Release:     buildinfo.Version,
			SampleRate:  cfg.SentrySampleRate,
		}); err != nil {
			log.WithError(err).Fatal("Failed to initialize Sentry")
		}
		defer sentry.Flush(2 * time.Second)
		log.Info("Sentry initialized")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	registry.MustRegister(collectors.NewBuildInfoCollector())
	m := metrics.New(registry)
	log.Info("Metrics initialized")

	dict := taxonomy.NewDictionary()

	client := jobtech.NewClient(
		cfg.UpstreamBaseURL,
		cfg.UpstreamTimeout,
		cfg.UpstreamMaxRetries,
		dict,
		log,
		m,
	)
	log.WithField("base_url", cfg.UpstreamBaseURL).Info("JobTech client created")

	cutoff := vacancy.NewCutoffCache(client, cfg.CutoffTTL, cfg.CutoffThreshold, cfg.CutoffWindowMonths, log, m)
	monthCache := vacancy.NewMonthCache(cfg.MonthCacheTTL, m)
	agg := vacancy.NewAggregator(client, vacancy.NewClipper(cutoff), monthCache, dict, log, m)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	monthCache.StartSweeping(ctx, config.MonthCacheSweepInterval, log.WithModule("monthcache"))

	readiness := warmup.NewReadinessState(config.WarmupReadinessTimeout)
	if cfg.WarmupEnabled {
		warmup.RunInBackground(cutoff, agg, readiness, log.WithModule("warmup"))
		log.Info("Background warmup started")
	} else {
		readiness.MarkReady()
	}

	globalLimiter := ratelimit.New(cfg.GlobalRateRPS, cfg.GlobalRateRPS)
	clientLimiter := ratelimit.NewPerKeyLimiter(ratelimit.PerKeyConfig{
		MaxTokens:     cfg.ClientRateBurst,
		RefillRate:    cfg.ClientRateRefill,
		CleanupPeriod: config.RateLimiterCleanupInterval,
	})
	defer clientLimiter.Stop()
	clientLimiter.OnDrop(m.RateLimiterDropped.Inc)

	handler := api.NewHandler(agg, cutoff, dict, log, m)

	if cfg.LogLevel == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	if cfg.SentryEnabled {
		router.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	router.Use(securityHeadersMiddleware())
	router.Use(requestIDMiddleware())
	router.Use(loggingMiddleware(log))

	setupRoutes(router, handler, cutoff, readiness, registry, cfg, globalLimiter, clientLimiter, m)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  config.ServerHTTPRead,
		WriteTimeout: config.ServerHTTPWrite,
		IdleTimeout:  config.ServerHTTPIdle,
	}

	// Daily refresh keeps the cutoff and the default range warm after the
	// upstream's nightly batch load.
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer func() {
			if r := recover(); r != nil {
				log.WithField("panic", r).Error("Panic in daily refresh goroutine")
			}
		}()
		dailyRefresh(ctx, cutoff, agg, log.WithModule("refresh"))
	}()

	go func() {
		log.WithField("port", cfg.Port).Info("Server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")
	cancel()

	goDone := make(chan struct{})
	go func() {
		wg.Wait()
		close(goDone)
	}()
	select {
	case <-goDone:
		log.Info("All background goroutines stopped")
	case <-time.After(5 * time.Second):
		log.Warn("Timeout waiting for goroutines to stop")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Server forced to shutdown")
	}

	log.Info("Server stopped")
}
