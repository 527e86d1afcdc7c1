package sdk

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Observer receives events from the client and its transport. Implementations
// must be safe for concurrent use.
//
// Paths passed to observers are relative request paths without a query
// string. Implementations that export metrics should aggregate by resource
// (the first path segment) to keep label cardinality bounded.
//
// Example:
//
//	type LogObserver struct{ sdk.NoopObserver }
//
//	func (LogObserver) OnClustersAffected(op string, ids []int) {
//	    log.Printf("%s touched clusters %v", op, ids)
//	}
type Observer interface {
	// OnRequestStart is called before a request is sent
	OnRequestStart(method, path string)

	// OnRequestEnd is called when a request completes. status is zero when
	// err is a transport fault.
	OnRequestEnd(method, path string, status int, duration time.Duration, err error)

	// OnRetryAttempt is called before a retry is attempted
	OnRetryAttempt(method, path string, attempt int, delay time.Duration, err error)

	// OnCircuitBreakerStateChange is called when a circuit changes state
	OnCircuitBreakerStateChange(resource string, oldState, newState CircuitState)

	// OnClustersAffected is called once per mutating operation that recorded
	// affected clusters
	OnClustersAffected(operation string, clusterIDs []int)
}

// NoopObserver is an observer that does nothing
type NoopObserver struct{}

func (NoopObserver) OnRequestStart(method, path string) {}

func (NoopObserver) OnRequestEnd(method, path string, status int, duration time.Duration, err error) {
}

func (NoopObserver) OnRetryAttempt(method, path string, attempt int, delay time.Duration, err error) {
}

func (NoopObserver) OnCircuitBreakerStateChange(resource string, oldState, newState CircuitState) {
}

func (NoopObserver) OnClustersAffected(operation string, clusterIDs []int) {}

// MetricsCollector is an in-memory observer, mostly useful in tests and for
// ad-hoc debugging. Counters are keyed by "METHOD resource".
type MetricsCollector struct {
	mu                  sync.RWMutex
	requestCount        map[string]int64
	latencies           map[string][]time.Duration
	errorCount          map[string]int64
	statusCount         map[int]int64
	retryCount          map[string]int64
	circuitStateChanges map[string]int64
	affected            map[string][]int
}

// NewMetricsCollector creates a new metrics collector
func NewMetricsCollector() *MetricsCollector {
	return &MetricsCollector{
		requestCount:        make(map[string]int64),
		latencies:           make(map[string][]time.Duration),
		errorCount:          make(map[string]int64),
		statusCount:         make(map[int]int64),
		retryCount:          make(map[string]int64),
		circuitStateChanges: make(map[string]int64),
		affected:            make(map[string][]int),
	}
}

func metricsKey(method, path string) string {
	return method + " " + resourceOf(path)
}

func (m *MetricsCollector) OnRequestStart(method, path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestCount[metricsKey(method, path)]++
}

func (m *MetricsCollector) OnRequestEnd(method, path string, status int, duration time.Duration, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := metricsKey(method, path)
	m.latencies[key] = append(m.latencies[key], duration)
	if err != nil {
		m.errorCount[key]++
		return
	}
	m.statusCount[status]++
}

func (m *MetricsCollector) OnRetryAttempt(method, path string, attempt int, delay time.Duration, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.retryCount[metricsKey(method, path)]++
}

func (m *MetricsCollector) OnCircuitBreakerStateChange(resource string, oldState, newState CircuitState) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.circuitStateChanges[resource]++
}

func (m *MetricsCollector) OnClustersAffected(operation string, clusterIDs []int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.affected[operation] = append(m.affected[operation], clusterIDs...)
}

// GetMetrics returns a snapshot of the collected metrics.
func (m *MetricsCollector) GetMetrics() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	latencies := make(map[string][]time.Duration, len(m.latencies))
	for k, v := range m.latencies {
		latencies[k] = append([]time.Duration(nil), v...)
	}
	affected := make(map[string][]int, len(m.affected))
	for k, v := range m.affected {
		affected[k] = append([]int(nil), v...)
	}

	return map[string]interface{}{
		"requests":                      copyCounts(m.requestCount),
		"latencies":                     latencies,
		"errors":                        copyCounts(m.errorCount),
		"statuses":                      copyCounts(m.statusCount),
		"retries":                       copyCounts(m.retryCount),
		"circuit_breaker_state_changes": copyCounts(m.circuitStateChanges),
		"affected_clusters":             affected,
	}
}

func copyCounts[K comparable](in map[K]int64) map[K]int64 {
	out := make(map[K]int64, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// LogObserver logs transport events through logrus.
type LogObserver struct {
	Logger *logrus.Logger
}

func (o *LogObserver) OnRequestStart(method, path string) {}

func (o *LogObserver) OnRequestEnd(method, path string, status int, duration time.Duration, err error) {
	entry := o.Logger.WithFields(logrus.Fields{
		"method":   method,
		"path":     path,
		"status":   status,
		"duration": duration,
	})
	switch {
	case err != nil:
		entry.WithError(err).Warn("Cluster API request failed")
	case status >= 400:
		entry.Warn("Cluster API returned an error")
	default:
		entry.Debug("Cluster API request completed")
	}
}

func (o *LogObserver) OnRetryAttempt(method, path string, attempt int, delay time.Duration, err error) {
	o.Logger.WithFields(logrus.Fields{
		"method":  method,
		"path":    path,
		"attempt": attempt,
		"delay":   delay,
	}).WithError(err).Info("Retrying cluster API request")
}

func (o *LogObserver) OnCircuitBreakerStateChange(resource string, oldState, newState CircuitState) {
	o.Logger.WithFields(logrus.Fields{
		"resource": resource,
		"from":     oldState.String(),
		"to":       newState.String(),
	}).Warn("Circuit breaker state changed")
}

func (o *LogObserver) OnClustersAffected(operation string, clusterIDs []int) {
	o.Logger.WithFields(logrus.Fields{
		"operation":   operation,
		"cluster_ids": clusterIDs,
	}).Info("Clusters affected")
}

// CompositeObserver fans events out to several observers. A panicking
// observer does not prevent the others from being notified.
type CompositeObserver struct {
	observers []Observer
}

// NewCompositeObserver creates an observer that notifies multiple observers
func NewCompositeObserver(observers ...Observer) Observer {
	return &CompositeObserver{observers: observers}
}

func (c *CompositeObserver) each(fn func(Observer)) {
	for _, obs := range c.observers {
		func() {
			defer func() { _ = recover() }()
			fn(obs)
		}()
	}
}

func (c *CompositeObserver) OnRequestStart(method, path string) {
	c.each(func(o Observer) { o.OnRequestStart(method, path) })
}

func (c *CompositeObserver) OnRequestEnd(method, path string, status int, duration time.Duration, err error) {
	c.each(func(o Observer) { o.OnRequestEnd(method, path, status, duration, err) })
}

func (c *CompositeObserver) OnRetryAttempt(method, path string, attempt int, delay time.Duration, err error) {
	c.each(func(o Observer) { o.OnRetryAttempt(method, path, attempt, delay, err) })
}

func (c *CompositeObserver) OnCircuitBreakerStateChange(resource string, oldState, newState CircuitState) {
	c.each(func(o Observer) { o.OnCircuitBreakerStateChange(resource, oldState, newState) })
}

func (c *CompositeObserver) OnClustersAffected(operation string, clusterIDs []int) {
	c.each(func(o Observer) { o.OnClustersAffected(operation, clusterIDs) })
}
