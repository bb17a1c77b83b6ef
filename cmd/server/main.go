package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/dukerupert/megapdv/internal"
	"github.com/dukerupert/megapdv/internal/auth"
	"github.com/dukerupert/megapdv/internal/events"
	"github.com/dukerupert/megapdv/internal/handler/api"
	"github.com/dukerupert/megapdv/internal/jobs"
	"github.com/dukerupert/megapdv/internal/memory"
	"github.com/dukerupert/megapdv/internal/middleware"
	"github.com/dukerupert/megapdv/internal/router"
	"github.com/dukerupert/megapdv/internal/routes"
	"github.com/dukerupert/megapdv/internal/service"
	"github.com/dukerupert/megapdv/internal/telemetry"
	"github.com/dukerupert/megapdv/internal/worker"
)

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	// Configure logger
	logger := internal.NewLogger(os.Stdout, cfg.Env, cfg.LogLevel)

	// Initialize Sentry
	flushSentry, err := telemetry.InitSentry(telemetry.SentryConfig{
		DSN:              cfg.Sentry.DSN,
		Enabled:          cfg.Sentry.Enabled,
		Environment:      cfg.Sentry.Environment,
		Release:          cfg.Sentry.Release,
		SampleRate:       cfg.Sentry.SampleRate,
		TracesSampleRate: cfg.Sentry.TracesSampleRate,
		Debug:            cfg.Sentry.Debug,
	}, logger)
	if err != nil {
		return fmt.Errorf("sentry initialization failed: %w", err)
	}
	defer flushSentry()

	// Initialize Prometheus registry
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	businessMetrics := telemetry.NewBusinessMetrics("megapdv", reg)

	// Initialize the in-memory store and demo data
	store := memory.New()
	if err := memory.Seed(ctx, store, memory.SeedConfig{
		AdminPassword:   cfg.Seed.AdminPassword,
		ManagerPassword: cfg.Seed.ManagerPassword,
		CashierPassword: cfg.Seed.CashierPassword,
	}, logger); err != nil {
		return fmt.Errorf("failed to seed store: %w", err)
	}

	// Initialize sale event publisher
	var publisher events.Publisher = events.NoopPublisher{}
	if cfg.NATS.URL != "" {
		logger.Info("Connecting to NATS...", "url", cfg.NATS.URL)
		natsPublisher, err := events.NewNATSPublisher(events.NATSConfig{
			URL:     cfg.NATS.URL,
			Subject: cfg.NATS.Subject,
		}, logger)
		if err != nil {
			return fmt.Errorf("nats connection failed: %w", err)
		}
		publisher = natsPublisher
		logger.Info("NATS publisher initialized", "subject", cfg.NATS.Subject)
	} else {
		logger.Info("NATS_URL not set, sale events are not published")
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.Warn("failed to close event publisher", "error", err)
		}
	}()

	// Initialize services
	tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)
	productService := service.NewProductService(store, businessMetrics)
	userService := service.NewUserService(store, businessMetrics)
	checkoutService := service.NewCheckoutService(store, store, publisher, businessMetrics, logger)
	salesService := service.NewSalesService(store)
	reportService := service.NewReportService(store, store, businessMetrics, cfg.StoreName)

	// ==========================================================================
	// Background jobs
	// ==========================================================================

	janitor := worker.NewWorker(worker.Config{
		PollInterval: cfg.JanitorInterval,
	}, logger,
		jobs.NewCleanupIdleSessions(checkoutService, cfg.SessionMaxIdle, logger),
		jobs.NewStockSnapshot(productService, logger),
	)
	workerDone := make(chan struct{})
	go func() {
		defer close(workerDone)
		if err := janitor.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("worker stopped", "error", err)
		}
	}()

	// ==========================================================================
	// Initialize middleware
	// ==========================================================================

	httpMetrics := middleware.NewMetrics("megapdv", reg)

	securityConfig := middleware.DefaultSecurityHeadersConfig()
	if cfg.Env == "dev" {
		securityConfig.HSTSMaxAge = 0 // Disable HSTS in development
	}

	defaultRateLimiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
		BurstSize:         cfg.RateLimit.Burst,
	})
	defer defaultRateLimiter.Stop()

	loginRateLimiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		RequestsPerSecond: cfg.RateLimit.LoginRequestsPerSecond,
		BurstSize:         cfg.RateLimit.LoginBurst,
	})
	defer loginRateLimiter.Stop()

	// ==========================================================================
	// Create router and register routes
	// ==========================================================================

	r := router.New(
		router.Recovery(logger),
		middleware.RequestID,
		middleware.WithClientIP(),
		telemetry.SentryMiddleware(),
		httpMetrics.Middleware,
		router.CORS(cfg.CORSOrigins),
		middleware.SecurityHeaders(securityConfig),
		middleware.MaxBodySize(middleware.DefaultMaxBodySize),
		middleware.Timeout(middleware.DefaultTimeout),
		defaultRateLimiter.Middleware,
		router.Logger(logger),
	)

	routes.RegisterOpsRoutes(r, routes.OpsDeps{
		MetricsHandler: middleware.Handler(reg),
	})

	routes.RegisterAPIRoutes(r, routes.APIDeps{
		Logger:           logger,
		Tokens:           tokens,
		Users:            userService,
		LoginRateLimiter: loginRateLimiter,
		AuthHandler:      api.NewAuthHandler(userService, tokens, logger),
		ProductHandler:   api.NewProductHandler(productService),
		UserHandler:      api.NewUserHandler(userService),
		CheckoutHandler:  api.NewCheckoutHandler(checkoutService, productService),
		SalesHandler:     api.NewSalesHandler(salesService),
		ReportHandler:    api.NewReportHandler(reportService),
	})

	// ==========================================================================
	// Start server
	// ==========================================================================

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Starting PDV server", "address", srv.Addr, "env", cfg.Env, "store", cfg.StoreName)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	stop()
	<-workerDone

	logger.Info("Server stopped")
	return nil
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
