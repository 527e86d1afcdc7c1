// Package sdk provides a Go client library for the cluster management API.
// It covers CMS installations, mail accounts, virtual hosts, Passenger apps,
// domain routers, clusters and Borg archives.
//
// # Features
//
// The SDK provides:
//   - Typed models with validated setters and map round-tripping
//   - A uniform Response envelope: status, raw payload and decoded data
//   - Compound actions that re-fetch the parent object after a change
//   - Tracking of the clusters each mutating operation touched
//   - Automatic retries of idempotent requests with exponential backoff
//   - Circuit breaker protection, globally or per resource
//   - OpenTelemetry client spans and Prometheus metrics
//
// # Basic Usage
//
//	package main
//
//	import (
//	    "context"
//	    "log"
//
//	    "github.com/birbparty/clusterapi/sdk"
//	    "github.com/birbparty/clusterapi/sdk/models"
//	)
//
//	func main() {
//	    client, err := sdk.NewClient(sdk.DefaultConfig().WithToken("secret"))
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    defer client.Close()
//
//	    ctx := context.Background()
//
//	    resp, err := client.Cmses().Get(ctx, 5)
//	    if err != nil {
//	        log.Fatal(err) // transport fault, no answer from the API
//	    }
//	    if !resp.IsSuccess() {
//	        log.Fatalf("API error: %s", resp.ErrorMessage())
//	    }
//	    cms, _ := sdk.DataAs[*models.Cms](resp, sdk.KeyCms)
//	    log.Printf("CMS %d runs %s", *cms.ID(), cms.SoftwareName())
//	}
//
// # Responses and Errors
//
// Operations return (*Response, error). The three outcomes are kept apart:
//
//	resp, err := client.MailAccounts().Create(ctx, account)
//	switch {
//	case sdk.IsValidationError(err):
//	    // a required field was missing; nothing was sent
//	case err != nil:
//	    // transport fault or undecodable answer
//	case !resp.IsSuccess():
//	    // the API refused; resp.Detail() explains why
//	default:
//	    created, _ := sdk.DataAs[*models.MailAccount](resp, sdk.KeyMailAccount)
//	    _ = created
//	}
//
// # Affected Clusters
//
// Successful mutating operations report the clusters they touched, both on
// the response and through Observer.OnClustersAffected:
//
//	var affected sdk.AffectedClusters
//	for _, id := range ids {
//	    resp, err := client.Cmses().RegenerateSalts(ctx, id)
//	    if err == nil {
//	        affected.Merge(resp)
//	    }
//	}
//	reloadClusters(affected.Unique())
//
// # Listing
//
//	filter := sdk.NewListFilter()
//	_ = filter.AddFilter("cluster_id", "3")
//	_ = filter.AddSort("id", sdk.SortAscending)
//	resp, err := client.VirtualHosts().List(ctx, filter)
//
// # Configuration
//
//	config := sdk.DefaultConfig().
//	    WithBaseURL("https://core-api.example.com/api/v1/").
//	    WithToken(token).
//	    WithTimeout(10 * time.Second).
//	    WithRetries(5).
//	    WithCircuitBreaker(sdk.CircuitBreakerConfig{
//	        FailureThreshold: 5,
//	        Timeout:          30 * time.Second,
//	        PerResource:      true,
//	    })
//
// LoadConfigFromEnv reads the same settings from CLUSTER_API_* variables.
//
// # Observability
//
//	reg := prometheus.NewRegistry()
//	config.WithObserver(sdk.NewCompositeObserver(
//	    sdk.NewPrometheusObserver(reg),
//	    &sdk.LogObserver{Logger: logger},
//	)).WithTracerProvider(tp)
package sdk
