package sdk

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PrometheusObserver exports client metrics. Create one per registry:
// registering the same collectors twice panics.
//
// Example:
//
//	reg := prometheus.NewRegistry()
//	config := sdk.DefaultConfig().WithObserver(sdk.NewPrometheusObserver(reg))
type PrometheusObserver struct {
	requestsTotal       *prometheus.CounterVec
	requestDuration     *prometheus.HistogramVec
	retriesTotal        *prometheus.CounterVec
	circuitState        *prometheus.GaugeVec
	affectedClusters    *prometheus.CounterVec
	transportErrorTotal *prometheus.CounterVec
}

// NewPrometheusObserver registers the client collectors on reg.
func NewPrometheusObserver(reg prometheus.Registerer) *PrometheusObserver {
	factory := promauto.With(reg)
	return &PrometheusObserver{
		requestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "clusterapi_client_requests_total",
			Help: "Total number of cluster API requests",
		}, []string{"method", "resource", "status"}),
		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "clusterapi_client_request_duration_seconds",
			Help:    "Cluster API request duration in seconds",
			Buckets: []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}, []string{"method", "resource"}),
		retriesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "clusterapi_client_retries_total",
			Help: "Total number of retried cluster API requests",
		}, []string{"method", "resource"}),
		circuitState: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "clusterapi_client_circuit_state",
			Help: "Circuit breaker state (0=closed, 1=open, 2=half-open)",
		}, []string{"resource"}),
		affectedClusters: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "clusterapi_client_affected_clusters_total",
			Help: "Total number of cluster IDs recorded as affected",
		}, []string{"operation"}),
		transportErrorTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "clusterapi_client_transport_errors_total",
			Help: "Total number of requests that failed before a response was received",
		}, []string{"method", "resource"}),
	}
}

func (p *PrometheusObserver) OnRequestStart(method, path string) {}

func (p *PrometheusObserver) OnRequestEnd(method, path string, status int, duration time.Duration, err error) {
	resource := resourceOf(path)
	p.requestDuration.WithLabelValues(method, resource).Observe(duration.Seconds())
	if err != nil {
		p.transportErrorTotal.WithLabelValues(method, resource).Inc()
		return
	}
	p.requestsTotal.WithLabelValues(method, resource, strconv.Itoa(status)).Inc()
}

func (p *PrometheusObserver) OnRetryAttempt(method, path string, attempt int, delay time.Duration, err error) {
	p.retriesTotal.WithLabelValues(method, resourceOf(path)).Inc()
}

func (p *PrometheusObserver) OnCircuitBreakerStateChange(resource string, oldState, newState CircuitState) {
	p.circuitState.WithLabelValues(resource).Set(float64(newState))
}

func (p *PrometheusObserver) OnClustersAffected(operation string, clusterIDs []int) {
	p.affectedClusters.WithLabelValues(operation).Add(float64(len(clusterIDs)))
}
