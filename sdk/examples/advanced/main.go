package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/birbparty/clusterapi/sdk"
	"github.com/birbparty/clusterapi/sdk/models"
)

// Colors for terminal output
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorBold   = "\033[1m"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	logger.SetLevel(logrus.InfoLevel)

	reg := prometheus.NewRegistry()
	metrics := sdk.NewMetricsCollector()
	observer := sdk.NewCompositeObserver(
		metrics,
		sdk.NewPrometheusObserver(reg),
		&sdk.LogObserver{Logger: logger},
	)

	config, err := sdk.LoadConfigFromEnv()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	config = config.
		WithLogger(logger).
		WithObserver(observer).
		WithHeader("X-Client", "clusterapi-advanced-example").
		WithCircuitBreaker(sdk.CircuitBreakerConfig{
			FailureThreshold: 5,
			SuccessThreshold: 2,
			Timeout:          10 * time.Second,
			HalfOpenRequests: 1,
			PerResource:      true,
		})
	config.RetryConfig = sdk.RetryConfig{
		MaxRetries:      4,
		InitialInterval: 200 * time.Millisecond,
		MaxInterval:     2 * time.Second,
		Multiplier:      2,
	}

	client, err := sdk.NewClient(config)
	if err != nil {
		log.Fatalf("Failed to create client: %v", err)
	}
	defer client.Close()

	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		logger.Info("Serving client metrics on :9102/metrics")
		if err := http.ListenAndServe(":9102", mux); err != nil {
			logger.WithError(err).Warn("Metrics server stopped")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("%s%sCluster API resilience demo%s\n\n", colorBold, colorCyan, colorReset)

	clusters, err := sdk.Result[[]*models.Cluster](client.Clusters().List(ctx, nil))(sdk.KeyClusters)
	if err != nil {
		log.Fatalf("Failed to list clusters: %v", err)
	}
	fmt.Printf("Found %d clusters\n", len(clusters))

	// Fan out reads across clusters. Each call is an independent chain of
	// requests; the client is shared.
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		affected sdk.AffectedClusters
	)
	for _, cluster := range clusters {
		wg.Add(1)
		go func(cluster *models.Cluster) {
			defer wg.Done()
			describeCluster(ctx, client, cluster, &mu, &affected)
		}(cluster)
	}
	wg.Wait()

	printSummary(metrics, &affected)
}

func describeCluster(ctx context.Context, client *sdk.Client, cluster *models.Cluster, mu *sync.Mutex, affected *sdk.AffectedClusters) {
	filter := sdk.NewListFilter()
	_ = filter.AddFilter("cluster_id", fmt.Sprint(*cluster.ID()))
	_ = filter.SetLimit(50)

	resp, err := client.VirtualHosts().List(ctx, filter)
	switch {
	case errors.Is(err, sdk.ErrCircuitOpen):
		fmt.Printf("%s⚡ %s: circuit open, skipped%s\n", colorYellow, cluster.Name(), colorReset)
		return
	case err != nil:
		fmt.Printf("%s✗ %s: %v%s\n", colorRed, cluster.Name(), err, colorReset)
		return
	case !resp.IsSuccess():
		fmt.Printf("%s✗ %s: %s%s\n", colorRed, cluster.Name(), resp.ErrorMessage(), colorReset)
		return
	}

	hosts, _ := sdk.DataAs[[]*models.VirtualHost](resp, sdk.KeyVirtualHosts)
	fmt.Printf("%s✓ %s: %d virtual hosts%s\n", colorGreen, cluster.Name(), len(hosts), colorReset)

	mu.Lock()
	defer mu.Unlock()
	affected.Merge(resp)
}

func printSummary(metrics *sdk.MetricsCollector, affected *sdk.AffectedClusters) {
	snapshot := metrics.GetMetrics()
	fmt.Printf("\n%sSummary%s\n", colorBold, colorReset)
	for key, count := range snapshot["requests"].(map[string]int64) {
		fmt.Printf("  %-28s %d requests\n", key, count)
	}
	for key, count := range snapshot["retries"].(map[string]int64) {
		fmt.Printf("  %-28s %d retries\n", key, count)
	}
	for resource, count := range snapshot["circuit_breaker_state_changes"].(map[string]int64) {
		fmt.Printf("  circuit %-20s %d state changes\n", resource, count)
	}
	fmt.Printf("  affected clusters: %v\n", affected.Unique())
}
