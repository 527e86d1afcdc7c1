package worker

import (
	"sync"
	"time"
)

// unhealthyAfter is the number of consecutive batches without a single
// successful sync after which the worker reports unhealthy.
const unhealthyAfter = 5

// Metrics holds worker metrics
type Metrics struct {
	mu sync.RWMutex

	// Report metrics
	reportsReceived int64

	// Sync metrics
	clustersSynced  int64
	clustersFailed  int64
	clustersDropped int64

	// Batch metrics
	batchesProcessed    int64
	batchProcessingTime time.Duration
	avgBatchSize        float64
	failedBatchStreak   int

	// Worker status
	startTime       time.Time
	lastProcessedAt time.Time
}

// NewMetrics creates a new metrics instance
func NewMetrics() *Metrics {
	return &Metrics{startTime: time.Now()}
}

// RecordReport records a received report
func (m *Metrics) RecordReport() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reportsReceived++
}

// RecordBatch records a flushed batch
func (m *Metrics) RecordBatch(size, succeeded, failed int, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.batchesProcessed++
	m.batchProcessingTime += duration
	m.clustersSynced += int64(succeeded)
	m.clustersFailed += int64(failed)
	m.lastProcessedAt = time.Now()

	// Running average
	m.avgBatchSize += (float64(size) - m.avgBatchSize) / float64(m.batchesProcessed)

	if succeeded == 0 && failed > 0 {
		m.failedBatchStreak++
	} else {
		m.failedBatchStreak = 0
	}
}

// RecordDropped records a cluster given up after its last attempt
func (m *Metrics) RecordDropped() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clustersDropped++
}

// IsHealthy reports whether recent batches synced anything
func (m *Metrics) IsHealthy() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.failedBatchStreak < unhealthyAfter
}

// GetStats returns a snapshot of the counters
func (m *Metrics) GetStats() map[string]any {
	m.mu.RLock()
	defer m.mu.RUnlock()

	avgProcessingMs := 0.0
	if m.batchesProcessed > 0 {
		avgProcessingMs = float64(m.batchProcessingTime.Milliseconds()) / float64(m.batchesProcessed)
	}

	stats := map[string]any{
		"uptime_seconds":         time.Since(m.startTime).Seconds(),
		"reports_received":       m.reportsReceived,
		"batches_processed":      m.batchesProcessed,
		"clusters_synced":        m.clustersSynced,
		"clusters_failed":        m.clustersFailed,
		"clusters_dropped":       m.clustersDropped,
		"avg_batch_size":         m.avgBatchSize,
		"avg_processing_time_ms": avgProcessingMs,
	}
	if !m.lastProcessedAt.IsZero() {
		stats["last_processed_at"] = m.lastProcessedAt.UTC().Format(time.RFC3339)
	}
	return stats
}
