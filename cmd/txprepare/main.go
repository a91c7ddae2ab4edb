package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math/big"
	"net/http"
	"os"
	"time"

	slogzap "github.com/samber/slog-zap/v2"
	"go.uber.org/zap"

	"txprepare/internal/app/port"
	"txprepare/internal/app/provider"
	"txprepare/internal/app/service"
	"txprepare/internal/config"
	"txprepare/internal/infrastructure/analytics"
	"txprepare/internal/infrastructure/feeoracle"
	"txprepare/internal/infrastructure/network/client"
	"txprepare/internal/infrastructure/restapi"
	"txprepare/internal/infrastructure/tokenloader"
	"txprepare/internal/pkg/logger"
)

const warmUpTimeout = 30 * time.Second

func main() {
	configPath := flag.String("config", "config.yml", "path to the configuration file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "CRITICAL: failed to load configuration from %s: %v\n", *configPath, err)
		os.Exit(1)
	}

	zapLogger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "CRITICAL: failed to initialize zap logger: %v\n", err)
		os.Exit(1)
	}
	defer zapLogger.Sync()

	slogHandler := slogzap.Option{
		Level:  logger.ParseLevel(cfg.Logging.Level),
		Logger: zapLogger,
	}.NewZapHandler()
	logger.InitWithHandler(slogHandler)
	appLogger := logger.NewSlogAdapter()

	logger.Info("Transaction preparation service starting...")

	clientProvider := client.NewEVMClientProvider(cfg, appLogger)
	warmCtx, cancelWarmUp := context.WithTimeout(context.Background(), warmUpTimeout)
	if err := clientProvider.WarmUp(warmCtx, cfg.Definitions()); err != nil {
		// Unreachable networks fail their preparation calls later instead.
		logger.Warn("Not all networks warmed up", "error", err)
	}
	cancelWarmUp()

	feeSource := feeoracle.NewCachedFeeSource(
		clientProvider,
		time.Duration(cfg.FeeOracle.CacheTTLSeconds)*time.Second,
		time.Duration(cfg.FeeOracle.CleanupIntervalSeconds)*time.Second,
		zapLogger,
	)

	var sink port.AnalyticsSink = analytics.NopSink{}
	if cfg.Analytics.CollectorURL != "" {
		sink = analytics.NewHTTPSink(
			cfg.Analytics.CollectorURL,
			time.Duration(cfg.Analytics.RequestTimeoutMillis)*time.Millisecond,
			zapLogger,
		)
	}

	registry := provider.NewTokenRegistry(
		tokenloader.NewTokenLoader(cfg.Registry.TokenDirectory, appLogger),
		appLogger,
	)

	multiplier := new(big.Rat).SetFloat64(cfg.Preparation.DecreasedAmountGasFeeMultiplier)
	preparer := service.NewPreparationService(
		cfg.DefinitionsByID(),
		clientProvider,
		feeSource,
		sink,
		appLogger,
		multiplier,
	)

	prepareHandler := restapi.NewPrepareHandler(preparer, registry, cfg.DefinitionsByID(), appLogger)
	router := restapi.SetupRouter(prepareHandler)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	logger.Info("Listening for prepare requests", "port", cfg.Server.Port)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("Server terminated unexpectedly", "error", err)
	}
}
