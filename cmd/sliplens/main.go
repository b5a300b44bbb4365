package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"sliplens/internal/api"
	"sliplens/internal/api/handlers"
	"sliplens/internal/archive"
	"sliplens/internal/client"
	"sliplens/internal/embedding"
	"sliplens/internal/service"
	"sliplens/internal/vision"
	"sliplens/pkg/config"
	"sliplens/pkg/logger"

	"go.uber.org/zap"
)

// @title Sliplens API
// @version 1.0
// @description Payment-slip extraction and classification service

// @host localhost:8080
// @BasePath /

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize global logger
	if err := logger.Init(cfg.Logger.Level); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	appLogger := logger.Get()
	appLogger.Info("Starting sliplens service")

	ctx := context.Background()

	// Model handles are process singletons loaded up front; a request that
	// reaches an unloaded model fails with a model-unavailable diagnostic
	// rather than taking the process down.
	scorer := vision.NewInferenceClient(&cfg.Inference, appLogger)
	if err := scorer.Load(ctx); err != nil {
		appLogger.Warn("Anomaly model server not ready at startup", zap.Error(err))
	}

	embeddings := embedding.NewStore(cfg.Embedding.Path, appLogger)
	if err := embeddings.Load(); err != nil {
		appLogger.Warn("Word embeddings not loaded at startup", zap.Error(err))
	}

	// Initialize collaborators and pipeline stages
	ledgerClient := client.NewLedgerClient(&cfg.Ledger, appLogger)
	archiveReader := archive.NewReader(appLogger)

	anomalyService := service.NewAnomalyService(scorer, cfg.Pipeline.AnomalyThreshold, appLogger)
	qrGateService := service.NewQRGateService(service.QRDecoderFunc(vision.DecodeQR), appLogger)
	ocrService := service.NewOCRService(cfg.OCR.Languages, appLogger)
	extractService := service.NewExtractService(appLogger)
	categorizeService := service.NewCategorizeService(embeddings, cfg.Pipeline.CategoryThreshold, cfg.Pipeline.CategorizeAllTokens, appLogger)

	slipService := service.NewSlipService(
		archiveReader,
		ledgerClient,
		anomalyService,
		qrGateService,
		ocrService,
		extractService,
		categorizeService,
		appLogger,
	)

	// Initialize handlers and router
	slipHandler := handlers.NewSlipHandler(slipService, appLogger)
	app := api.SetupRouter(slipHandler)

	// Start server
	go func() {
		addr := ":" + cfg.Server.Port
		appLogger.Info("Server starting", zap.String("address", addr))
		if err := app.Listen(addr); err != nil {
			appLogger.Fatal("Server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server")
	if err := app.Shutdown(); err != nil {
		appLogger.Error("Server shutdown error", zap.Error(err))
	}
}
