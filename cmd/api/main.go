package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	delivery "mangrove-addresses/internal/adapter/delivery/http"
	handler "mangrove-addresses/internal/adapter/handler/http"
	"mangrove-addresses/internal/adapter/storage/deployments"
	"mangrove-addresses/internal/adapter/storage/memory"
	"mangrove-addresses/internal/application"
	"mangrove-addresses/internal/config"
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
	appLogger.Info("Logger initialized", zap.Any("config", cfg.Logger))

	rootCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Dependency Injection (Manual) ---
	appLogger.Info("Initializing dependencies...")

	deploymentRepo := deployments.NewRepository(*cfg, appLogger)
	cacheRepo := memory.NewCacheRepository(cfg.Cache, appLogger)

	// The API only collects; refreshed books replace the cached one whole.
	aggregator := application.NewAddressAggregator(deploymentRepo, nil, nil, appLogger, *cfg)
	addressService := application.NewAddressService(rootCtx, aggregator, cacheRepo, appLogger, *cfg)

	if err := addressService.Refresh(rootCtx); err != nil {
		appLogger.Warn("Initial address book refresh failed, retrying on first request", zap.Error(err))
	}

	addressHandler := handler.NewAddressHandler(addressService, appLogger)

	// --- HTTP Router & Server ---
	r := router.New()
	delivery.RegisterRoutes(r, addressHandler, appLogger)

	loggingMiddleware := func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			appLogger.Debug("Request received",
				zap.ByteString("method", ctx.Method()),
				zap.ByteString("uri", ctx.RequestURI()))
			next(ctx)
		}
	}

	server := &fasthttp.Server{
		Handler: loggingMiddleware(r.Handler),
		Name:    cfg.App.Name,
	}

	go func() {
		<-rootCtx.Done()
		appLogger.Info("Shutting down HTTP server")
		if err := server.Shutdown(); err != nil {
			appLogger.Error("HTTP server shutdown failed", zap.Error(err))
		}
	}()

	serverAddr := ":" + cfg.Server.Port
	appLogger.Info("Starting HTTP server", zap.String("address", serverAddr))
	if err := server.ListenAndServe(serverAddr); err != nil {
		appLogger.Fatal("Failed to start server", zap.Error(err))
	}
}
