package mockapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/birbparty/clusterapi/internal/telemetry"
)

// Callback outcomes, used as the metric label
const (
	callbackDelivered = "delivered"
	callbackFailed    = "failed"
	callbackDropped   = "dropped"
)

// CallbackConfig sizes the dispatcher
type CallbackConfig struct {
	QueueSize       int
	Workers         int
	MaxRetries      int
	InitialInterval time.Duration
	Timeout         time.Duration
}

// CallbackDispatcherStats provides statistics about the dispatcher
type CallbackDispatcherStats struct {
	QueueDepth    int `json:"queue_depth"`
	QueueCapacity int `json:"queue_capacity"`
	WorkerCount   int `json:"worker_count"`
}

type callbackRequest struct {
	ctx  context.Context
	url  string
	body TaskCallback
}

// CallbackDispatcher notifies callback URLs of finished tasks in the
// background. Tasks in the mock finish as soon as they are created.
type CallbackDispatcher struct {
	cfg     CallbackConfig
	client  *http.Client
	queue   chan callbackRequest
	logger  *logrus.Logger
	metrics *telemetry.Metrics

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewCallbackDispatcher creates a dispatcher and starts its workers
func NewCallbackDispatcher(cfg CallbackConfig, logger *logrus.Logger, metrics *telemetry.Metrics) *CallbackDispatcher {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 100
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.InitialInterval <= 0 {
		cfg.InitialInterval = 500 * time.Millisecond
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}

	d := &CallbackDispatcher{
		cfg:     cfg,
		client:  &http.Client{},
		queue:   make(chan callbackRequest, cfg.QueueSize),
		logger:  logger,
		metrics: metrics,
	}

	for i := 0; i < cfg.Workers; i++ {
		d.wg.Add(1)
		go d.worker(i)
	}
	return d
}

// Enqueue schedules a callback for task. It reports false when the queue is
// full or the dispatcher is shut down.
func (d *CallbackDispatcher) Enqueue(ctx context.Context, url string, task Record) bool {
	req := callbackRequest{
		// Keep the trace, drop the request's cancellation.
		ctx: trace.ContextWithSpanContext(context.Background(), trace.SpanContextFromContext(ctx)),
		url: url,
		body: TaskCallback{
			TaskCollectionUUID: fmt.Sprint(task["uuid"]),
			ObjectID:           intOf(task["object_id"]),
			ClusterID:          task.ClusterID(),
			Success:            true,
		},
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return false
	}

	select {
	case d.queue <- req:
		return true
	default:
		d.logger.WithFields(logrus.Fields{
			"url":  url,
			"uuid": req.body.TaskCollectionUUID,
		}).Warn("Callback queue full, dropping callback")
		d.record(callbackDropped)
		return false
	}
}

func (d *CallbackDispatcher) worker(id int) {
	defer d.wg.Done()
	for req := range d.queue {
		err := d.deliver(req)
		entry := d.logger.WithFields(logrus.Fields{
			"worker": id,
			"url":    req.url,
			"uuid":   req.body.TaskCollectionUUID,
		})
		if err != nil {
			entry.WithError(err).Warn("Callback delivery failed")
			d.record(callbackFailed)
			continue
		}
		entry.Debug("Callback delivered")
		d.record(callbackDelivered)
	}
}

// deliver POSTs the callback, retrying network errors and 5xx answers
// with exponential backoff. 4xx answers are final.
func (d *CallbackDispatcher) deliver(req callbackRequest) error {
	ctx, span := telemetry.StartSpan(req.ctx, "callback.deliver",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("url.full", req.url)))
	defer span.End()

	raw, err := json.Marshal(req.body)
	if err != nil {
		return err
	}

	attempt := 0
	op := func() error {
		attempt++
		reqCtx, cancel := context.WithTimeout(ctx, d.cfg.Timeout)
		defer cancel()

		httpReq, err := http.NewRequestWithContext(reqCtx, http.MethodPost, req.url, bytes.NewReader(raw))
		if err != nil {
			return backoff.Permanent(err)
		}
		httpReq.Header.Set("Content-Type", "application/json")
		otel.GetTextMapPropagator().Inject(reqCtx, propagation.HeaderCarrier(httpReq.Header))

		resp, err := d.client.Do(httpReq)
		if err != nil {
			return err
		}
		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		switch {
		case resp.StatusCode >= 500:
			return fmt.Errorf("callback answered %d", resp.StatusCode)
		case resp.StatusCode >= 400:
			return backoff.Permanent(fmt.Errorf("callback answered %d", resp.StatusCode))
		}
		return nil
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = d.cfg.InitialInterval
	err = backoff.Retry(op, backoff.WithContext(backoff.WithMaxRetries(b, uint64(d.cfg.MaxRetries)), ctx))

	span.SetAttributes(attribute.Int("http.request.resend_count", attempt-1))
	if err != nil {
		telemetry.RecordError(ctx, err)
		telemetry.SetErrorStatus(ctx, err.Error())
	}
	return err
}

func (d *CallbackDispatcher) record(result string) {
	if d.metrics != nil {
		d.metrics.RecordCallback(result, len(d.queue))
	}
}

// Stats returns current statistics
func (d *CallbackDispatcher) Stats() CallbackDispatcherStats {
	return CallbackDispatcherStats{
		QueueDepth:    len(d.queue),
		QueueCapacity: cap(d.queue),
		WorkerCount:   d.cfg.Workers,
	}
}

// Shutdown stops accepting callbacks and waits until the queued ones are
// delivered or given up.
func (d *CallbackDispatcher) Shutdown() {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()
	d.wg.Wait()
}
