package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/birbparty/clusterapi/internal/mockapi"
	"github.com/birbparty/clusterapi/internal/telemetry"
)

func main() {
	// A local .env is optional
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Fatalf("Failed to load .env: %v", err)
	}

	ctx := context.Background()
	telemetryCfg := telemetry.NewConfigFromEnv("clusterapi-mock")
	if err := telemetry.Init(ctx, telemetryCfg); err != nil {
		log.Fatalf("Failed to initialize telemetry: %v", err)
	}
	logger := telemetry.L()

	cfg, err := mockapi.LoadConfig()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}

	srv, err := mockapi.NewServer(cfg, logger, telemetry.NewMetrics("clusterapi_mock"))
	if err != nil {
		logger.WithError(err).Fatal("Failed to create server")
	}

	// Handle graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan

		logger.WithField("signal", sig.String()).Info("Shutting down gracefully")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), time.Duration(cfg.ShutdownTimeout)*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.WithError(err).Error("Server forced to shutdown")
		}
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			log.Printf("Telemetry shutdown failed: %v", err)
		}
	}()

	if err := srv.Listen(); err != nil {
		logger.WithError(err).Fatal("Failed to start server")
	}
}
