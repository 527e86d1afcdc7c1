package queue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePublisher struct {
	mu   sync.Mutex
	msgs []*ClustersAffectedMessage
	err  error
}

func (f *fakePublisher) PublishClustersAffected(ctx context.Context, msg *ClustersAffectedMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msg)
	return nil
}

func (f *fakePublisher) published() []*ClustersAffectedMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*ClustersAffectedMessage(nil), f.msgs...)
}

func TestReporter_PublishesOnClose(t *testing.T) {
	pub := &fakePublisher{}
	logger, _ := test.NewNullLogger()
	r := NewReporter(pub, "test", time.Second, logger)

	r.OnClustersAffected("cmses.create", []int{2})
	r.OnClustersAffected("cmses.delete", nil)
	r.OnClustersAffected("mail_accounts.update", []int{1, 1})

	require.NoError(t, r.Close(context.Background()))

	msgs := pub.published()
	require.Len(t, msgs, 2, "events without clusters are not reported")
	assert.Equal(t, "cmses.create", msgs[0].Operation)
	assert.Equal(t, []int{1}, msgs[1].ClusterIDs)
	assert.Equal(t, "test", msgs[1].Source)
	assert.Equal(t, ReporterStats{Published: 2}, r.Stats())

	r.OnClustersAffected("cmses.create", []int{2})
	assert.Equal(t, 1, r.Stats().Dropped, "reports after Close are dropped")
	require.NoError(t, r.Close(context.Background()))
}

func TestReporter_CountsFailures(t *testing.T) {
	pub := &fakePublisher{err: errors.New("no responders")}
	logger, hook := test.NewNullLogger()
	r := NewReporter(pub, "test", time.Second, logger)

	r.OnClustersAffected("cmses.install", []int{4})
	require.NoError(t, r.Close(context.Background()))

	assert.Equal(t, ReporterStats{Failed: 1}, r.Stats())
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, "Failed to publish affected clusters", hook.LastEntry().Message)
}

func TestNewClient_Unreachable(t *testing.T) {
	cfg := DefaultConfig()
	cfg.URL = "nats://127.0.0.1:1"
	logger, _ := test.NewNullLogger()

	_, err := NewClient(cfg, logger, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to connect to NATS")

	cfg.StreamName = ""
	_, err = NewClient(cfg, logger, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid queue configuration")
}
