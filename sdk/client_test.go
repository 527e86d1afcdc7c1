package sdk

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/birbparty/clusterapi/sdk/testdata"
)

func TestNewClient(t *testing.T) {
	t.Run("nil config uses defaults", func(t *testing.T) {
		client, err := NewClient(nil)
		require.NoError(t, err)
		defer client.Close()

		assert.Equal(t, DefaultBaseURL, client.Config().BaseURL)
		assert.NotNil(t, client.Config().Logger)
		assert.IsType(t, &httpTransport{}, client.transport)
	})

	t.Run("invalid config", func(t *testing.T) {
		_, err := NewClient(DefaultConfig().WithBaseURL("not a url"))
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})

	t.Run("custom transport", func(t *testing.T) {
		api := newFakeAPI(t)
		client, err := NewClient(DefaultConfig().WithTransport(api))
		require.NoError(t, err)
		assert.Same(t, api, client.transport)
	})

	t.Run("endpoints", func(t *testing.T) {
		client, _, _ := newFakeClient(t)
		assert.NotNil(t, client.Cmses())
		assert.NotNil(t, client.MailAccounts())
		assert.NotNil(t, client.VirtualHosts())
		assert.NotNil(t, client.PassengerApps())
		assert.NotNil(t, client.DomainRouters())
		assert.NotNil(t, client.Clusters())
		assert.NotNil(t, client.BorgArchives())
		assert.Same(t, client, client.Cmses().client)
	})
}

func TestClient_Close(t *testing.T) {
	client, api, _ := newFakeClient(t)
	api.on(http.MethodGet, "cmses/5", http.StatusOK, testdata.CmsPayload(5, 3))

	require.NoError(t, client.Close())
	require.NoError(t, client.Close(), "closing twice is harmless")

	_, err := client.Cmses().Get(context.Background(), 5)
	assert.ErrorIs(t, err, ErrClientClosed)
	assert.Empty(t, api.requests())
}

func TestClient_Request(t *testing.T) {
	t.Run("raw request", func(t *testing.T) {
		client, api, _ := newFakeClient(t)
		api.on(http.MethodGet, "clusters?limit=1", http.StatusOK, []any{testdata.ClusterPayload(1)})

		req, err := NewRequest(http.MethodGet, "clusters?limit=1", nil)
		require.NoError(t, err)
		resp, err := client.Request(context.Background(), req)
		require.NoError(t, err)
		assert.True(t, resp.IsSuccess())
		assert.Len(t, resp.Payload(), 1)
		assert.Nil(t, resp.Data(), "raw requests carry no typed results")
	})

	t.Run("transport without a response", func(t *testing.T) {
		client, err := NewClient(DefaultConfig().WithTransport(TransportFunc(
			func(context.Context, *Request) (*Response, error) { return nil, nil },
		)))
		require.NoError(t, err)
		defer client.Close()

		resp, err := client.Clusters().Get(context.Background(), 1)
		require.ErrorIs(t, err, ErrInvalidResponse)
		assert.Nil(t, resp)
	})

	t.Run("logs API errors", func(t *testing.T) {
		logger, hook := test.NewNullLogger()
		api := newFakeAPI(t)
		api.on(http.MethodGet, "cmses/5", http.StatusNotFound, map[string]any{"detail": "Object not found"})
		client, err := NewClient(DefaultConfig().WithTransport(api).WithLogger(logger))
		require.NoError(t, err)

		resp, err := client.Cmses().Get(context.Background(), 5)
		require.NoError(t, err)
		assert.False(t, resp.IsSuccess())

		entry := hook.LastEntry()
		require.NotNil(t, entry)
		assert.Equal(t, logrus.WarnLevel, entry.Level)
		assert.Equal(t, "Object not found", entry.Data["detail"])
		assert.Equal(t, http.StatusNotFound, entry.Data["status"])
	})

	t.Run("logs affected clusters", func(t *testing.T) {
		logger, hook := test.NewNullLogger()
		logger.SetLevel(logrus.DebugLevel)
		api := newFakeAPI(t)
		api.on(http.MethodGet, "cmses/5", http.StatusOK, testdata.CmsPayload(5, 3))
		api.on(http.MethodDelete, "cmses/5", http.StatusNoContent, nil)
		client, err := NewClient(DefaultConfig().WithTransport(api).WithLogger(logger))
		require.NoError(t, err)

		_, err = client.Cmses().Delete(context.Background(), 5)
		require.NoError(t, err)

		entry := hook.LastEntry()
		require.NotNil(t, entry)
		assert.Equal(t, "Clusters affected", entry.Message)
		assert.Equal(t, "cmses.delete", entry.Data["operation"])
		assert.Equal(t, []int{3}, entry.Data["cluster_ids"])
	})
}

func TestClient_ContextCancellation(t *testing.T) {
	ts := testdata.NewTestSuite(t)
	ts.Server.WithDelayedResponse("GET /cmses/5", 500*time.Millisecond, func(w http.ResponseWriter, r *http.Request) (int, interface{}) {
		return http.StatusOK, testdata.CmsPayload(5, 3)
	})

	client, err := NewClient(DefaultConfig().WithBaseURL(ts.BaseURL).WithRetries(0))
	require.NoError(t, err)
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err = client.Cmses().Get(ctx, 5)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTimeout)
	assert.True(t, IsTransportError(err))
}

func TestClient_ConcurrentOperations(t *testing.T) {
	ts := testdata.NewTestSuite(t)
	ts.Server.RegisterHandler("GET /cmses/", func(w http.ResponseWriter, r *http.Request) (int, interface{}) {
		return http.StatusOK, testdata.CmsPayload(5, 3)
	})

	client, err := NewClient(DefaultConfig().WithBaseURL(ts.BaseURL))
	require.NoError(t, err)
	defer client.Close()

	const workers = 10
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, err := client.Cmses().Get(ts.Context, 5)
			if err == nil && !resp.IsSuccess() {
				err = assert.AnError
			}
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
	ts.RequireRequestCount(workers)
}
