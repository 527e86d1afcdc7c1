package queue

import (
	"context"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
)

// DLQHandler moves messages that cannot be processed to the dead letter
// stream, keeping the original payload and subject.
type DLQHandler struct {
	client *Client
}

// NewDLQHandler creates a new DLQ handler
func NewDLQHandler(client *Client) *DLQHandler {
	return &DLQHandler{client: client}
}

// NewDLQMessage wraps a failed message
func NewDLQMessage(original *nats.Msg, cause error) *DLQMessage {
	msg := &DLQMessage{
		OriginalMessage: original.Data,
		OriginalSubject: original.Subject,
		Error:           cause.Error(),
		FailedAt:        time.Now().UTC(),
	}
	if meta, err := original.Metadata(); err == nil {
		msg.Deliveries = meta.NumDelivered
	}
	return msg
}

// SendToDLQ sends a failed message to the dead letter queue
func (h *DLQHandler) SendToDLQ(ctx context.Context, original *nats.Msg, cause error) error {
	dlqMsg := NewDLQMessage(original, cause)
	data, err := dlqMsg.Marshal()
	if err != nil {
		return fmt.Errorf("failed to marshal DLQ message: %w", err)
	}

	headers := nats.Header{}
	headers.Set("X-Original-Subject", original.Subject)
	headers.Set("X-Failed-At", dlqMsg.FailedAt.Format(time.RFC3339))
	headers.Set("X-Deliveries", fmt.Sprintf("%d", dlqMsg.Deliveries))

	err = h.client.publish(ctx, &nats.Msg{Subject: SubjectDLQ, Data: data, Header: headers}, "")
	if h.client.metrics != nil {
		h.client.metrics.RecordPublish(SubjectDLQ, err, 0)
	}
	if err != nil {
		return fmt.Errorf("failed to publish to DLQ: %w", err)
	}
	return nil
}
