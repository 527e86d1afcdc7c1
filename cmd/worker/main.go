package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/birbparty/clusterapi/internal/queue"
	"github.com/birbparty/clusterapi/internal/telemetry"
	"github.com/birbparty/clusterapi/internal/worker"
	"github.com/birbparty/clusterapi/sdk"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Fatalf("Failed to load .env: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	telemetryCfg := telemetry.NewConfigFromEnv("clusterapi-worker")
	if err := telemetry.Init(ctx, telemetryCfg); err != nil {
		log.Fatalf("Failed to initialize telemetry: %v", err)
	}
	logger := telemetry.L()
	promMetrics := telemetry.NewMetrics("clusterapi_worker")

	// Initialize configurations
	workerConfig, err := worker.NewConfigFromEnv()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load worker config")
	}
	queueConfig, err := queue.NewConfigFromEnv()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load queue config")
	}
	apiConfig, err := sdk.LoadConfigFromEnv()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load cluster API config")
	}

	client, err := sdk.NewClient(apiConfig.
		WithLogger(logger).
		WithCircuitBreaker(sdk.DefaultCircuitBreakerConfig()).
		WithObserver(sdk.NewCompositeObserver(
			&sdk.LogObserver{Logger: logger},
			sdk.NewPrometheusObserver(promMetrics.Registry()),
		)))
	if err != nil {
		logger.WithError(err).Fatal("Failed to create cluster API client")
	}
	defer client.Close()

	queueClient, err := queue.NewClient(queueConfig, logger, promMetrics)
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to NATS")
	}
	defer queueClient.Close()
	logger.Info("Connected to NATS JetStream")

	metrics := worker.NewMetrics()
	processor := worker.NewProcessor(workerConfig, worker.NewClusterSyncer(client, logger), metrics, logger)

	healthServer := startHealthServer(workerConfig.HealthCheckPort, metrics, queueClient, promMetrics, logger)

	if err := processor.Start(ctx, queueClient); err != nil {
		logger.WithError(err).Error("Processor error")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = healthServer.Shutdown(shutdownCtx)
	if err := telemetry.Shutdown(shutdownCtx); err != nil {
		log.Printf("Telemetry shutdown failed: %v", err)
	}
}

func startHealthServer(port int, metrics *worker.Metrics, queueClient *queue.Client, promMetrics *telemetry.Metrics, logger *logrus.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		status, code := "healthy", http.StatusOK
		if !metrics.IsHealthy() || queueClient.Health() != nil {
			status, code = "unhealthy", http.StatusServiceUnavailable
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":  status,
			"service": "clusterapi-worker",
			"stats":   metrics.GetStats(),
		})
	})
	mux.Handle("/metrics", promMetrics.Handler())

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.WithField("port", port).Info("Health check server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Error("Health server error")
		}
	}()
	return srv
}
