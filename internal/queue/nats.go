package queue

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/birbparty/clusterapi/internal/telemetry"
)

// Publisher sends affected-cluster reports
type Publisher interface {
	PublishClustersAffected(ctx context.Context, msg *ClustersAffectedMessage) error
}

// Handler processes one report. A returned error asks for redelivery.
type Handler func(ctx context.Context, msg *ClustersAffectedMessage) error

// Client represents a NATS JetStream client
type Client struct {
	nc      *nats.Conn
	js      nats.JetStreamContext
	config  *Config
	logger  *logrus.Logger
	metrics *telemetry.Metrics
	dlq     *DLQHandler
}

// NewClient connects to NATS and makes sure the streams exist. metrics may
// be nil.
func NewClient(config *Config, logger *logrus.Logger, metrics *telemetry.Metrics) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	opts := []nats.Option{
		nats.Name(config.Name),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2 * time.Second),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			if err != nil {
				logger.WithError(err).Warn("NATS disconnected")
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.WithField("url", nc.ConnectedUrl()).Info("NATS reconnected")
		}),
		nats.ErrorHandler(func(nc *nats.Conn, sub *nats.Subscription, err error) {
			logger.WithError(err).Error("NATS error")
		}),
	}

	// Add authentication if provided
	if config.User != "" && config.Password != "" {
		opts = append(opts, nats.UserInfo(config.User, config.Password))
	}

	nc, err := nats.Connect(config.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := nc.JetStream()
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	client := &Client{
		nc:      nc,
		js:      js,
		config:  config,
		logger:  logger,
		metrics: metrics,
	}
	client.dlq = NewDLQHandler(client)

	if err := client.initializeStreams(); err != nil {
		nc.Close()
		return nil, fmt.Errorf("failed to initialize streams: %w", err)
	}
	return client, nil
}

func (c *Client) initializeStreams() error {
	streams := []*nats.StreamConfig{
		{
			Name:        c.config.StreamName,
			Description: "Clusters affected by cluster API operations",
			Subjects:    []string{SubjectClustersAffected},
			Retention:   nats.LimitsPolicy,
			MaxAge:      c.config.StreamMaxAge,
			MaxBytes:    c.config.StreamMaxBytes,
			MaxMsgs:     c.config.StreamMaxMsgs,
			Replicas:    c.config.StreamReplicas,
			Duplicates:  5 * time.Minute,
			Storage:     nats.FileStorage,
		},
		{
			Name:        c.config.DLQStreamName,
			Description: "Undeliverable affected-cluster reports",
			Subjects:    []string{SubjectDLQ},
			Retention:   nats.LimitsPolicy,
			MaxAge:      c.config.StreamMaxAge,
			MaxBytes:    c.config.StreamMaxBytes / 10,
			MaxMsgs:     c.config.StreamMaxMsgs / 10,
			Replicas:    c.config.StreamReplicas,
			Storage:     nats.FileStorage,
		},
	}

	for _, cfg := range streams {
		if _, err := c.js.AddStream(cfg); err != nil {
			// Try to update if stream exists
			if _, err := c.js.UpdateStream(cfg); err != nil {
				return fmt.Errorf("failed to create/update stream %s: %w", cfg.Name, err)
			}
		}
	}
	return nil
}

// PublishClustersAffected publishes a report and waits for the stream to
// acknowledge it. The message id doubles as the deduplication id.
func (c *Client) PublishClustersAffected(ctx context.Context, msg *ClustersAffectedMessage) error {
	data, err := msg.Marshal()
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	start := time.Now()
	err = c.publish(ctx, &nats.Msg{Subject: SubjectClustersAffected, Data: data, Header: nats.Header{}}, msg.ID)
	if c.metrics != nil {
		c.metrics.RecordPublish(SubjectClustersAffected, err, time.Since(start))
	}
	if err != nil {
		return fmt.Errorf("failed to publish report: %w", err)
	}

	c.logger.WithFields(logrus.Fields{
		"id":          msg.ID,
		"operation":   msg.Operation,
		"cluster_ids": msg.ClusterIDs,
	}).Debug("Published affected clusters")
	return nil
}

func (c *Client) publish(ctx context.Context, msg *nats.Msg, msgID string) error {
	ctx, span := telemetry.StartSpan(ctx, "nats.publish "+msg.Subject,
		trace.WithSpanKind(trace.SpanKindProducer),
		trace.WithAttributes(
			attribute.String("messaging.system", "nats"),
			attribute.String("messaging.destination.name", msg.Subject),
			attribute.String("messaging.message.id", msgID),
		))
	defer span.End()

	if c.config.PublishTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.config.PublishTimeout)
		defer cancel()
	}

	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(http.Header(msg.Header)))

	opts := []nats.PubOpt{}
	if msgID != "" {
		opts = append(opts, nats.MsgId(msgID))
	}
	pubAck, err := c.js.PublishMsgAsync(msg, opts...)
	if err != nil {
		telemetry.RecordError(ctx, err)
		return err
	}

	select {
	case <-pubAck.Ok():
		return nil
	case err := <-pubAck.Err():
		telemetry.RecordError(ctx, err)
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Subscribe consumes reports with a durable pull consumer until ctx is
// done. Undecodable reports and reports that failed ConsumerMaxDeliver
// times are moved to the DLQ.
func (c *Client) Subscribe(ctx context.Context, handler Handler) error {
	consumer := &nats.ConsumerConfig{
		Durable:       c.config.ConsumerName,
		AckPolicy:     nats.AckExplicitPolicy,
		AckWait:       c.config.ConsumerAckWait,
		MaxDeliver:    c.config.ConsumerMaxDeliver,
		ReplayPolicy:  nats.ReplayInstantPolicy,
		DeliverPolicy: nats.DeliverAllPolicy,
		FilterSubject: SubjectClustersAffected,
	}
	if _, err := c.js.AddConsumer(c.config.StreamName, consumer); err != nil {
		if _, err := c.js.UpdateConsumer(c.config.StreamName, consumer); err != nil {
			return fmt.Errorf("failed to create/update consumer: %w", err)
		}
	}

	sub, err := c.js.PullSubscribe(
		SubjectClustersAffected,
		c.config.ConsumerName,
		nats.ManualAck(),
		nats.Bind(c.config.StreamName, c.config.ConsumerName),
	)
	if err != nil {
		return fmt.Errorf("failed to create subscription: %w", err)
	}
	defer sub.Unsubscribe()

	for {
		if ctx.Err() != nil {
			return nil
		}
		msgs, err := sub.Fetch(c.config.BatchSize, nats.MaxWait(c.config.BatchTimeout))
		if err != nil {
			if errors.Is(err, nats.ErrTimeout) || errors.Is(err, context.DeadlineExceeded) {
				continue
			}
			if errors.Is(err, nats.ErrConnectionClosed) {
				return nil
			}
			return fmt.Errorf("failed to fetch reports: %w", err)
		}
		for _, msg := range msgs {
			c.handle(ctx, msg, handler)
		}
	}
}

func (c *Client) handle(ctx context.Context, msg *nats.Msg, handler Handler) {
	ctx = otel.GetTextMapPropagator().Extract(ctx, propagation.HeaderCarrier(http.Header(msg.Header)))

	report, err := UnmarshalClustersAffectedMessage(msg.Data)
	if err != nil {
		c.deadLetter(ctx, msg, err)
		return
	}

	err = handler(ctx, report)
	if err == nil {
		_ = msg.Ack()
		return
	}

	entry := c.logger.WithError(err).WithField("id", report.ID)
	if meta, metaErr := msg.Metadata(); metaErr == nil && meta.NumDelivered >= uint64(c.config.ConsumerMaxDeliver) {
		entry.Warn("Report failed on its last delivery")
		c.deadLetter(ctx, msg, err)
		return
	}
	entry.Warn("Report failed, asking for redelivery")
	_ = msg.Nak()
}

func (c *Client) deadLetter(ctx context.Context, msg *nats.Msg, cause error) {
	if err := c.dlq.SendToDLQ(ctx, msg, cause); err != nil {
		c.logger.WithError(err).Error("Failed to move report to the DLQ")
		_ = msg.Nak()
		return
	}
	_ = msg.Ack()
}

// Health checks the NATS connection health
func (c *Client) Health() error {
	if !c.nc.IsConnected() {
		return fmt.Errorf("NATS is not connected")
	}

	if _, err := c.js.AccountInfo(); err != nil {
		return fmt.Errorf("JetStream health check failed: %w", err)
	}
	return nil
}

// StreamInfo returns information about a stream
func (c *Client) StreamInfo(streamName string) (*nats.StreamInfo, error) {
	return c.js.StreamInfo(streamName)
}

// Close drains pending publishes and closes the connection
func (c *Client) Close() error {
	if c.nc == nil {
		return nil
	}
	select {
	case <-c.js.PublishAsyncComplete():
	case <-time.After(c.config.PublishTimeout):
	}
	c.nc.Close()
	return nil
}
