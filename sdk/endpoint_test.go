package sdk

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/birbparty/clusterapi/sdk/models"
	"github.com/birbparty/clusterapi/sdk/testdata"
)

func TestCompoundAction_Transitions(t *testing.T) {
	t.Run("legal path", func(t *testing.T) {
		a := &compoundAction{op: "test"}
		for _, to := range []actionState{actionRequested, actionSucceeded, actionRefetching, actionConfirmed} {
			require.NoError(t, a.transition(to), "to %s", to)
		}
		assert.Equal(t, actionConfirmed, a.state)
		assert.Equal(t, []actionState{actionRequested, actionSucceeded, actionRefetching, actionConfirmed}, a.trail)
	})

	illegal := []struct {
		name string
		from actionState
		to   actionState
	}{
		{"skip request", actionPending, actionSucceeded},
		{"confirm before answer", actionRequested, actionConfirmed},
		{"leave failure", actionFailed, actionRefetching},
		{"leave confirmation", actionConfirmed, actionRequested},
		{"leave refetch failure", actionRefetchFailed, actionConfirmed},
		{"refetch failure without refetch", actionSucceeded, actionRefetchFailed},
	}
	for _, tt := range illegal {
		t.Run(tt.name, func(t *testing.T) {
			a := &compoundAction{op: "test", state: tt.from}
			err := a.transition(tt.to)
			assert.ErrorIs(t, err, ErrIllegalTransition)
			assert.Equal(t, tt.from, a.state, "state is unchanged")
			assert.Empty(t, a.trail)
		})
	}
}

func TestCompoundAction_Run(t *testing.T) {
	t.Run("self-sufficient", func(t *testing.T) {
		client, api, _ := newFakeClient(t)
		api.on(http.MethodGet, "cmses/5/one-time-login", http.StatusOK, map[string]any{"url": "https://x"})

		a := &compoundAction{
			op:      "test",
			request: mustRequest(http.MethodGet, "cmses/5/one-time-login", nil),
		}
		resp, err := a.run(context.Background(), &client.cmses.endpoint)
		require.NoError(t, err)
		assert.True(t, resp.IsSuccess())
		assert.Equal(t, []actionState{actionRequested, actionSucceeded, actionConfirmed}, a.trail)
	})

	t.Run("action failed", func(t *testing.T) {
		client, api, _ := newFakeClient(t)
		api.on(http.MethodPost, "cmses/5/regenerate-salts", http.StatusForbidden, map[string]any{"detail": "No"})

		a := &compoundAction{
			op:        "test",
			request:   mustRequest(http.MethodPost, "cmses/5/regenerate-salts", nil),
			refetch:   client.Cmses().refetch(5),
			parentKey: KeyCms,
		}
		resp, err := a.run(context.Background(), &client.cmses.endpoint)
		require.NoError(t, err)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode())
		assert.Equal(t, []actionState{actionRequested, actionFailed}, a.trail)
	})

	t.Run("refetch failed", func(t *testing.T) {
		client, api, _ := newFakeClient(t)
		api.on(http.MethodPost, "cmses/5/regenerate-salts", http.StatusNoContent, nil)
		api.on(http.MethodGet, "cmses/5", http.StatusBadGateway, map[string]any{"detail": "Upstream"})

		a := &compoundAction{
			op:        "test",
			request:   mustRequest(http.MethodPost, "cmses/5/regenerate-salts", nil),
			refetch:   client.Cmses().refetch(5),
			parentKey: KeyCms,
		}
		resp, err := a.run(context.Background(), &client.cmses.endpoint)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadGateway, resp.StatusCode())
		assert.Equal(t, []actionState{actionRequested, actionSucceeded, actionRefetching, actionRefetchFailed}, a.trail)
	})

	t.Run("cannot run twice", func(t *testing.T) {
		client, api, _ := newFakeClient(t)
		api.on(http.MethodGet, "cmses/5/one-time-login", http.StatusOK, map[string]any{"url": "https://x"})

		a := &compoundAction{op: "test", request: mustRequest(http.MethodGet, "cmses/5/one-time-login", nil)}
		_, err := a.run(context.Background(), &client.cmses.endpoint)
		require.NoError(t, err)

		_, err = a.run(context.Background(), &client.cmses.endpoint)
		assert.ErrorIs(t, err, ErrIllegalTransition)
		assert.Len(t, api.requests(), 1)
	})
}

func TestValidateRequired(t *testing.T) {
	cms := &models.Cms{}
	err := validateRequired(cms, []string{"is_manually_created", "software_name"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "software_name", "defaults count as present")

	assert.NoError(t, validateRequired(cms, nil))
}

func TestFilterFields(t *testing.T) {
	data := map[string]any{"a": 1, "b": nil, "c": 3}
	assert.Equal(t, map[string]any{"a": 1, "b": nil}, filterFields(data, []string{"a", "b", "missing"}))
	assert.Empty(t, filterFields(data, nil))
}

func TestEndpoint_AffectedAccumulatesAcrossOperations(t *testing.T) {
	client, api, metrics := newFakeClient(t)
	api.on(http.MethodPost, "cmses/1/regenerate-salts", http.StatusNoContent, nil)
	api.on(http.MethodPost, "cmses/2/regenerate-salts", http.StatusNoContent, nil)
	api.on(http.MethodGet, "cmses/1", http.StatusOK, testdata.CmsPayload(1, 3))
	api.on(http.MethodGet, "cmses/2", http.StatusOK, testdata.CmsPayload(2, 3))

	var affected AffectedClusters
	for _, id := range []int{1, 2} {
		resp, err := client.Cmses().RegenerateSalts(context.Background(), id)
		require.NoError(t, err)
		affected.Merge(resp)
	}

	assert.Equal(t, []int{3, 3}, affected.IDs())
	assert.Equal(t, []int{3}, affected.Unique())
	recorded := metrics.GetMetrics()["affected_clusters"].(map[string][]int)
	assert.Equal(t, []int{3, 3}, recorded["cmses.regenerate_salts"])
}
