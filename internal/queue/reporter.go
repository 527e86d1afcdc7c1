package queue

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/birbparty/clusterapi/sdk"
)

// Reporter is an sdk.Observer that publishes every affected-cluster event
// from a background goroutine, so that client operations never wait on
// NATS. Close flushes what is queued.
type Reporter struct {
	sdk.NoopObserver

	publisher Publisher
	source    string
	timeout   time.Duration
	logger    *logrus.Logger

	queue chan *ClustersAffectedMessage
	done  chan struct{}

	mu     sync.RWMutex
	closed bool

	statsMu   sync.Mutex
	published int
	failed    int
	dropped   int
}

// ReporterStats counts what happened to reports
type ReporterStats struct {
	Published int
	Failed    int
	Dropped   int
}

// NewReporter starts a reporter publishing through p. source is copied
// into every message.
func NewReporter(p Publisher, source string, timeout time.Duration, logger *logrus.Logger) *Reporter {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	r := &Reporter{
		publisher: p,
		source:    source,
		timeout:   timeout,
		logger:    logger,
		queue:     make(chan *ClustersAffectedMessage, 256),
		done:      make(chan struct{}),
	}
	go r.run()
	return r
}

// OnClustersAffected implements sdk.Observer
func (r *Reporter) OnClustersAffected(operation string, clusterIDs []int) {
	if len(clusterIDs) == 0 {
		return
	}
	msg := NewClustersAffectedMessage(operation, clusterIDs, r.source)

	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		r.count(&r.dropped)
		return
	}
	select {
	case r.queue <- msg:
	default:
		r.logger.WithField("operation", operation).Warn("Report queue full, dropping report")
		r.count(&r.dropped)
	}
}

func (r *Reporter) run() {
	defer close(r.done)
	for msg := range r.queue {
		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		err := r.publisher.PublishClustersAffected(ctx, msg)
		cancel()
		if err != nil {
			r.logger.WithError(err).WithField("operation", msg.Operation).Error("Failed to publish affected clusters")
			r.count(&r.failed)
			continue
		}
		r.count(&r.published)
	}
}

func (r *Reporter) count(n *int) {
	r.statsMu.Lock()
	*n++
	r.statsMu.Unlock()
}

// Stats returns the report counters
func (r *Reporter) Stats() ReporterStats {
	r.statsMu.Lock()
	defer r.statsMu.Unlock()
	return ReporterStats{Published: r.published, Failed: r.failed, Dropped: r.dropped}
}

// Close stops accepting reports and waits until the queued ones are
// published or ctx is done.
func (r *Reporter) Close(ctx context.Context) error {
	r.mu.Lock()
	if !r.closed {
		r.closed = true
		close(r.queue)
	}
	r.mu.Unlock()

	select {
	case <-r.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
