package worker

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/birbparty/clusterapi/internal/queue"
)

// Syncer brings one cluster up to date
type Syncer interface {
	Sync(ctx context.Context, cs ClusterSync) error
}

// SyncerFunc adapts a function to Syncer
type SyncerFunc func(ctx context.Context, cs ClusterSync) error

// Sync implements Syncer
func (f SyncerFunc) Sync(ctx context.Context, cs ClusterSync) error { return f(ctx, cs) }

// Subscriber delivers affected-cluster reports. *queue.Client is one.
type Subscriber interface {
	Subscribe(ctx context.Context, handler queue.Handler) error
}

// FlushResult summarizes one flush
type FlushResult struct {
	Synced   int
	Failed   int
	Requeued int
	Dropped  int
}

// Processor turns a stream of affected-cluster reports into at most one
// sync per cluster and batch.
type Processor struct {
	config  *Config
	syncer  Syncer
	metrics *Metrics
	logger  *logrus.Logger

	batchMu sync.Mutex
	batch   *Batch

	// flushMu serializes flushes
	flushMu sync.Mutex
}

// NewProcessor creates a new processor
func NewProcessor(config *Config, syncer Syncer, metrics *Metrics, logger *logrus.Logger) *Processor {
	return &Processor{
		config:  config,
		syncer:  syncer,
		metrics: metrics,
		logger:  logger,
		batch:   NewBatch(),
	}
}

// Handle implements queue.Handler. The report is acknowledged once it is
// batched; a full batch is flushed before returning.
func (p *Processor) Handle(ctx context.Context, msg *queue.ClustersAffectedMessage) error {
	p.metrics.RecordReport()

	p.batchMu.Lock()
	p.batch.Add(msg)
	full := p.batch.Len() >= p.config.BatchSize
	p.batchMu.Unlock()

	if full {
		p.Flush(ctx)
	}
	return nil
}

// Pending returns the number of clusters waiting for the next flush
func (p *Processor) Pending() int {
	p.batchMu.Lock()
	defer p.batchMu.Unlock()
	return p.batch.Len()
}

// Start consumes reports from sub until ctx is done, flushing every
// BatchTimeout. What is still batched is flushed before Start returns.
func (p *Processor) Start(ctx context.Context, sub Subscriber) error {
	p.logger.WithFields(logrus.Fields{
		"worker_id":     p.config.WorkerID,
		"batch_size":    p.config.BatchSize,
		"batch_timeout": p.config.BatchTimeout,
	}).Info("Cluster sync worker starting")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	tickerDone := make(chan struct{})
	go func() {
		defer close(tickerDone)
		ticker := time.NewTicker(p.config.BatchTimeout)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				p.Flush(ctx)
			}
		}
	}()

	err := sub.Subscribe(ctx, p.Handle)
	cancel()
	<-tickerDone

	flushCtx, flushCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer flushCancel()
	p.Flush(flushCtx)

	p.logger.WithField("worker_id", p.config.WorkerID).Info("Cluster sync worker stopped")
	return err
}

// Flush syncs the batched clusters with at most ProcessingConcurrency
// syncs in flight. Failed clusters are carried into the next batch until
// they reach MaxAttempts.
func (p *Processor) Flush(ctx context.Context) FlushResult {
	p.flushMu.Lock()
	defer p.flushMu.Unlock()

	p.batchMu.Lock()
	items := p.batch.Drain()
	p.batchMu.Unlock()

	var result FlushResult
	if len(items) == 0 {
		return result
	}
	start := time.Now()

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		failed []ClusterSync
	)
	sem := make(chan struct{}, p.config.ProcessingConcurrency)
	for _, cs := range items {
		cs := cs
		wg.Add(1)
		go func() {
			defer wg.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			err := p.syncer.Sync(ctx, cs)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				p.logger.WithError(err).WithFields(logrus.Fields{
					"cluster_id": cs.ClusterID,
					"attempt":    cs.Attempt,
				}).Warn("Cluster sync failed")
				failed = append(failed, cs)
				return
			}
			result.Synced++
		}()
	}
	wg.Wait()

	result.Failed = len(failed)
	p.batchMu.Lock()
	for _, cs := range failed {
		if cs.Attempt < p.config.MaxAttempts {
			p.batch.Retry(cs)
			result.Requeued++
			continue
		}
		p.logger.WithFields(logrus.Fields{
			"cluster_id": cs.ClusterID,
			"operations": cs.Operations,
		}).Error("Giving up on cluster sync")
		p.metrics.RecordDropped()
		result.Dropped++
	}
	p.batchMu.Unlock()

	p.metrics.RecordBatch(len(items), result.Synced, result.Failed, time.Since(start))
	p.logger.WithFields(logrus.Fields{
		"clusters": len(items),
		"synced":   result.Synced,
		"failed":   result.Failed,
	}).Debug("Flushed cluster sync batch")
	return result
}
