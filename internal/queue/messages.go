package queue

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// MessageType represents the type of queue message
type MessageType string

const (
	// MessageTypeClustersAffected reports clusters touched by an API operation
	MessageTypeClustersAffected MessageType = "clusters_affected"
)

// Subject names for different message types
const (
	SubjectClustersAffected = "clusterapi.clusters.affected"
	SubjectDLQ              = "clusterapi.dlq"
)

// BaseMessage contains common fields for all messages
type BaseMessage struct {
	ID        string      `json:"id"`
	Type      MessageType `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
}

// ClustersAffectedMessage tells consumers which clusters need to converge
// after a mutating operation.
type ClustersAffectedMessage struct {
	BaseMessage
	// Operation is the SDK operation name, like cmses.install
	Operation  string `json:"operation"`
	ClusterIDs []int  `json:"cluster_ids"`
	// Source identifies the publishing process
	Source string `json:"source,omitempty"`
}

// DLQMessage represents a dead letter queue message
type DLQMessage struct {
	OriginalMessage json.RawMessage `json:"original_message"`
	OriginalSubject string          `json:"original_subject"`
	Error           string          `json:"error"`
	FailedAt        time.Time       `json:"failed_at"`
	Deliveries      uint64          `json:"deliveries"`
}

// NewClustersAffectedMessage creates a report for op. Duplicate IDs are
// collapsed, keeping the order of first appearance.
func NewClustersAffectedMessage(op string, clusterIDs []int, source string) *ClustersAffectedMessage {
	return &ClustersAffectedMessage{
		BaseMessage: BaseMessage{
			ID:        uuid.NewString(),
			Type:      MessageTypeClustersAffected,
			Timestamp: time.Now().UTC(),
		},
		Operation:  op,
		ClusterIDs: lo.Uniq(clusterIDs),
		Source:     source,
	}
}

// Marshal converts the message to JSON bytes
func (m *ClustersAffectedMessage) Marshal() ([]byte, error) {
	return json.Marshal(m)
}

// Marshal converts the message to JSON bytes
func (m *DLQMessage) Marshal() ([]byte, error) {
	return json.Marshal(m)
}

// UnmarshalClustersAffectedMessage decodes and checks a report
func UnmarshalClustersAffectedMessage(data []byte) (*ClustersAffectedMessage, error) {
	var msg ClustersAffectedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.Type != MessageTypeClustersAffected {
		return nil, fmt.Errorf("unexpected message type %q", msg.Type)
	}
	if msg.ID == "" || msg.Operation == "" {
		return nil, fmt.Errorf("message is missing id or operation")
	}
	return &msg, nil
}

// UnmarshalDLQMessage unmarshals a DLQ message from JSON
func UnmarshalDLQMessage(data []byte) (*DLQMessage, error) {
	var msg DLQMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
