package main

import (
	"context"
	"log"

	"go.uber.org/zap"

	"mangrove-addresses/internal/adapter/rpc"
	"mangrove-addresses/internal/adapter/storage/addressfile"
	"mangrove-addresses/internal/adapter/storage/deployments"
	"mangrove-addresses/internal/application"
	"mangrove-addresses/internal/config"
	"mangrove-addresses/internal/domain/service"
	"mangrove-addresses/internal/logger"
)

func main() {
	// --- Configuration ---
	cfgPath := "configs"
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("Failed to load configuration from %s: %v", cfgPath, err)
	}

	// --- Logger ---
	appLogger, err := logger.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("Failed to setup logger: %v", err)
	}
	defer func() { _ = appLogger.Sync() }()
	appLogger = appLogger.Named("copy-deployments")

	// --- Dependency Injection (Manual) ---
	deploymentRepo := deployments.NewRepository(*cfg, appLogger)
	sink := addressfile.NewSink(cfg.Output.BaseDir, appLogger)

	var codeChecker service.CodeChecker
	if cfg.Verify.Enabled {
		codeChecker = rpc.NewChecker(appLogger)
	}

	aggregator := application.NewAddressAggregator(deploymentRepo, sink, codeChecker, appLogger, *cfg)

	if err := aggregator.Run(context.Background()); err != nil {
		appLogger.Fatal("Failed to copy deployment addresses", zap.Error(err))
	}
}
