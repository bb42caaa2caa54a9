package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/anyulbade/agency-platform/internal/analytics"
	"github.com/anyulbade/agency-platform/internal/auth"
	"github.com/anyulbade/agency-platform/internal/cache"
	"github.com/anyulbade/agency-platform/internal/config"
	"github.com/anyulbade/agency-platform/internal/database"
	"github.com/anyulbade/agency-platform/internal/handler"
	"github.com/anyulbade/agency-platform/internal/metrics"
	"github.com/anyulbade/agency-platform/internal/middleware"
	"github.com/anyulbade/agency-platform/internal/repository"
	"github.com/anyulbade/agency-platform/internal/service"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Caller().Logger()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	gin.SetMode(cfg.GinMode)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := database.NewPool(ctx, cfg.DatabaseURL())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()

	if cfg.AutoMigrate {
		if err := database.RunMigrations(cfg.DatabaseURL()); err != nil {
			log.Fatal().Err(err).Msg("failed to run migrations")
		}
		if err := database.SeedData(context.Background(), pool); err != nil {
			log.Fatal().Err(err).Msg("failed to seed data")
		}
	}

	verifier := auth.NewVerifier(cfg.JWTSecret)

	router := gin.New()
	router.Use(middleware.Logger())
	router.Use(metrics.Middleware())
	router.Use(middleware.ErrorHandler())
	router.Use(gin.Recovery())
	router.Use(middleware.Actor(verifier))

	reportStore, cachePinger := newReportStore(cfg, pool)

	healthHandler := handler.NewHealthHandler(pool, cachePinger)
	router.GET("/health", healthHandler.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	handler.SetupSwagger(router)
	setupAPIRoutes(router, cfg, pool, reportStore, verifier)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Str("cache", cfg.CacheBackend).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited")
}

func newReportStore(cfg *config.Config, pool *pgxpool.Pool) (service.ReportStore, handler.Pinger) {
	if cfg.CacheBackend != "redis" {
		return repository.NewReportCacheRepository(pool), nil
	}

	client, err := cache.NewRedisClient(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	store := cache.NewRedisReportStore(client, cfg.ReportCacheTTL)
	return store, store
}

func setupAPIRoutes(router *gin.Engine, cfg *config.Config, pool *pgxpool.Pool, reportStore service.ReportStore, verifier *auth.Verifier) {
	settingsRepo := repository.NewSettingsRepository(pool)
	clientRepo := repository.NewClientRepository(pool)
	usageRepo := repository.NewUsageLogRepository(pool)
	integrationRepo := repository.NewIntegrationRepository(pool)

	searchConsole := analytics.NewSearchConsole(analytics.Config{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RedirectURL:  cfg.GoogleRedirectURL,
		APIBaseURL:   cfg.AnalyticsAPIURL,
	}, integrationRepo)

	var source service.AnalyticsSource
	if cfg.AnalyticsConfigured() {
		source = searchConsole
	} else {
		log.Warn().Msg("analytics integration not configured, reports will be simulated")
	}

	// One seed cache for the process lifetime.
	simulator := service.NewSimulator(service.NewSeedCache())

	paymentService := service.NewPaymentService(settingsRepo, clientRepo)
	trafficService := service.NewTrafficService(reportStore, source, usageRepo, simulator,
		service.WithValidity(cfg.ReportCacheTTL),
		service.WithAnalyticsTimeout(cfg.AnalyticsTimeout),
	)
	reportService := service.NewReportService(trafficService)

	paymentHandler := handler.NewPaymentHandler(paymentService)
	settingsHandler := handler.NewSettingsHandler(paymentService)
	clientHandler := handler.NewClientHandler(paymentService)
	trafficHandler := handler.NewTrafficHandler(trafficService, reportService)
	usageHandler := handler.NewUsageHandler(usageRepo)
	integrationHandler := handler.NewIntegrationHandler(searchConsole, verifier, cfg.GinMode == gin.ReleaseMode)

	api := router.Group("/api/v1")
	{
		api.POST("/payments/methods", paymentHandler.AvailableMethods)
		api.POST("/payments/quote", paymentHandler.Quote)
		api.GET("/traffic/analysis", trafficHandler.GetAnalysis)
		api.GET("/traffic/report", trafficHandler.GetReport)
		api.GET("/integrations/google/callback", integrationHandler.Callback)
	}

	admin := api.Group("", middleware.RequireActor())
	{
		admin.GET("/settings/payment-methods", settingsHandler.GetPaymentMethods)
		admin.PUT("/settings/payment-methods", settingsHandler.PutPaymentMethods)
		admin.GET("/settings/payment-global", settingsHandler.GetGlobalSettings)
		admin.PUT("/settings/payment-global", settingsHandler.PutGlobalSettings)
		admin.PUT("/clients/:id/payment-score", clientHandler.UpdatePaymentScore)
		admin.GET("/usage-logs", usageHandler.List)
		admin.GET("/integrations/google/connect", integrationHandler.Connect)
		admin.GET("/integrations/google/status", integrationHandler.Status)
		admin.DELETE("/integrations/google", integrationHandler.Disconnect)
	}
}
