package main

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/matheusmosca/growth-storefront/internal/auth"
	"github.com/matheusmosca/growth-storefront/internal/catalog"
	"github.com/matheusmosca/growth-storefront/internal/config"
	"github.com/matheusmosca/growth-storefront/internal/database"
	"github.com/matheusmosca/growth-storefront/internal/goals"
	"github.com/matheusmosca/growth-storefront/internal/httpapi"
	"github.com/matheusmosca/growth-storefront/internal/logging"
	"github.com/matheusmosca/growth-storefront/internal/metrics"
	"github.com/matheusmosca/growth-storefront/internal/monitor"
	"github.com/matheusmosca/growth-storefront/internal/orders"
	"github.com/matheusmosca/growth-storefront/internal/telemetry"
	"github.com/matheusmosca/growth-storefront/internal/wallet"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API and the AI monitor",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if err := cfg.ValidateServe(); err != nil {
				return err
			}
			return runServe(cmd.Context(), cfg)
		},
	}
}

func runServe(ctx context.Context, cfg *config.Config) error {
	logger := logging.New(cfg.LogLevel, cfg.LogFormat)
	if logger.GetLevel() < logrus.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}

	shutdownTelemetry := setupTelemetry(ctx, cfg, logger)
	defer shutdownTelemetry()

	pool, err := database.Connect(ctx, cfg.DSN(), logger)
	if err != nil {
		return err
	}
	defer pool.Close()

	maxDeposit, err := cfg.MaxDepositAmount()
	if err != nil {
		return err
	}

	var cache catalog.Cache
	if cfg.RedisAddr != "" {
		client, err := catalog.ConnectRedis(ctx, cfg.RedisAddr)
		if err != nil {
			logger.WithError(err).Warn("⚠️ Redis unavailable, catalog cache disabled")
		} else {
			defer client.Close()
			cache = catalog.NewRedisCache(client)
			logger.Infof("✅ Catalog cache connected to %s", cfg.RedisAddr)
		}
	}

	tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)
	tracer := telemetry.Tracer()

	walletUseCase := wallet.NewUseCase(wallet.NewRepository(pool), cfg.WalletCurrency, maxDeposit, logger)
	catalogUseCase := catalog.NewUseCase(catalog.NewRepository(pool), cache, cfg.CatalogCacheTTL, logger)
	goalsUseCase := goals.NewUseCase(goals.NewRepository(pool), logger)
	authUseCase := auth.NewUseCase(auth.NewRepository(pool), walletUseCase, tokens, logger)
	ordersUseCase := orders.NewUseCase(orders.NewRepository(pool), catalogUseCase, walletUseCase, goalsUseCase, logger)

	limiter := httpapi.NewRateLimiter(cfg.AuthRateLimit, cfg.AuthRateBurst)
	go limiter.Run(ctx, time.Minute)

	if cfg.GeminiAPIKey != "" {
		mon := newMonitor(cfg, pool, logger)
		scheduler := monitor.NewCron(logger)
		if _, err := mon.Schedule(scheduler, cfg.MonitorSchedule); err != nil {
			return err
		}
		scheduler.Start()
		defer func() { <-scheduler.Stop().Done() }()
		logger.Infof("🤖 AI Monitor scheduled (%s)", cfg.MonitorSchedule)
	} else {
		logger.Warn("⚠️ GEMINI_API_KEY not set, AI Monitor disabled")
	}

	router := httpapi.NewRouter(httpapi.Handlers{
		Auth:    auth.NewHandler(authUseCase, tracer),
		Catalog: catalog.NewHandler(catalogUseCase),
		Wallet:  wallet.NewHandler(walletUseCase, tracer),
		Orders:  orders.NewHandler(ordersUseCase, tracer),
		Goals:   goals.NewHandler(goalsUseCase),
	}, httpapi.Options{
		ServiceName:    cfg.ServiceName,
		TracingEnabled: cfg.OTelEnabled,
		AllowedOrigins: cfg.AllowedOrigins(),
		WebDistDir:     cfg.WebDistDir,
		Tokens:         tokens,
		AuthLimiter:    limiter,
		Metrics:        metrics.New(),
		Health:         pool,
		Logger:         logger,
	})

	return httpapi.Serve(ctx, ":"+cfg.Port, router, logger)
}

// setupTelemetry liga o OpenTelemetry quando OTEL_ENABLED e devolve o shutdown
func setupTelemetry(ctx context.Context, cfg *config.Config, logger logrus.FieldLogger) func() {
	if !cfg.OTelEnabled {
		return func() {}
	}

	providers, err := telemetry.Init(ctx, cfg.ServiceName, cfg.OTelEndpoint)
	if err != nil {
		logger.WithError(err).Warn("⚠️ Failed to initialize telemetry, continuing without it")
		return func() {}
	}
	logger.Infof("✅ Telemetry exporting to %s", cfg.OTelEndpoint)

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := providers.Shutdown(shutdownCtx); err != nil {
			logger.WithError(err).Warn("Error shutting down telemetry")
		}
	}
}
