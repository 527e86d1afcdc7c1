package telemetry

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the process metrics shared by the binaries. Each set is
// bound to its own registry so tests and multiple servers do not collide.
type Metrics struct {
	registry *prometheus.Registry

	// HTTP server metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	ActiveConnections   prometheus.Gauge

	// Publisher metrics
	MessagesPublishedTotal *prometheus.CounterVec
	PublishDuration        prometheus.Histogram

	// Task callback delivery
	CallbacksTotal     *prometheus.CounterVec
	CallbackQueueDepth prometheus.Gauge

	// Cluster bookkeeping
	ClustersAffectedTotal *prometheus.CounterVec

	ServiceUp prometheus.Gauge
}

// NewMetrics registers a fresh metric set under namespace.
func NewMetrics(namespace string) *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	m := &Metrics{
		registry: reg,
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		ActiveConnections: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_active_requests",
			Help:      "Number of requests in flight",
		}),
		MessagesPublishedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "messages_published_total",
				Help:      "Total number of messages published",
			},
			[]string{"subject", "status"},
		),
		PublishDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "publish_duration_seconds",
			Help:      "Time spent publishing a message",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}),
		CallbacksTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "callbacks_total",
				Help:      "Task callbacks by outcome",
			},
			[]string{"result"},
		),
		CallbackQueueDepth: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "callback_queue_depth",
			Help:      "Current depth of the callback queue",
		}),
		ClustersAffectedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "clusters_affected_total",
				Help:      "Cluster IDs reported as affected by an operation",
			},
			[]string{"operation"},
		),
		ServiceUp: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "up",
			Help:      "Whether the service is up",
		}),
	}
	m.ServiceUp.Set(1)
	return m
}

// Registry exposes the underlying registry, for extra collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the metric set in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) RecordHTTPRequest(method, route, status string, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func (m *Metrics) RecordPublish(subject string, err error, duration time.Duration) {
	status := "success"
	if err != nil {
		status = "error"
	}
	m.MessagesPublishedTotal.WithLabelValues(subject, status).Inc()
	m.PublishDuration.Observe(duration.Seconds())
}

func (m *Metrics) RecordCallback(result string, queueDepth int) {
	m.CallbacksTotal.WithLabelValues(result).Inc()
	m.CallbackQueueDepth.Set(float64(queueDepth))
}

func (m *Metrics) RecordClustersAffected(operation string, count int) {
	if count <= 0 {
		return
	}
	m.ClustersAffectedTotal.WithLabelValues(operation).Add(float64(count))
}
