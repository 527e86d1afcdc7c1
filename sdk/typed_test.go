package sdk

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/birbparty/clusterapi/sdk/models"
)

func TestResult(t *testing.T) {
	cms := &models.Cms{}
	ok := NewResponse(http.StatusOK, nil, nil).withData(map[string]any{KeyCms: cms})

	t.Run("value", func(t *testing.T) {
		got, err := Result[*models.Cms](ok, nil)(KeyCms)
		require.NoError(t, err)
		assert.Same(t, cms, got)
	})

	t.Run("error passes through", func(t *testing.T) {
		_, err := Result[*models.Cms](nil, ErrClientClosed)(KeyCms)
		assert.ErrorIs(t, err, ErrClientClosed)
	})

	t.Run("api error", func(t *testing.T) {
		resp := NewResponse(http.StatusConflict, map[string]any{"detail": "Already exists"}, nil)
		_, err := Result[*models.Cms](resp, nil)(KeyCms)
		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusConflict, apiErr.StatusCode)
		assert.Equal(t, "cluster API error (HTTP 409): Already exists", apiErr.Error())
	})

	t.Run("missing or mistyped key", func(t *testing.T) {
		_, err := Result[*models.Cms](ok, nil)("nope")
		assert.ErrorIs(t, err, ErrInvalidResponse)

		_, err = Result[*models.Cluster](ok, nil)(KeyCms)
		assert.ErrorIs(t, err, ErrInvalidResponse)
	})
}

func TestCheck(t *testing.T) {
	assert.NoError(t, Check(NewResponse(http.StatusNoContent, nil, nil), nil))
	assert.ErrorIs(t, Check(nil, ErrTimeout), ErrTimeout)

	err := Check(NewResponse(http.StatusForbidden, nil, nil), nil)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "HTTP 403 Forbidden", apiErr.Detail)
}

func TestDecodePayload(t *testing.T) {
	t.Run("numbers keep their precision", func(t *testing.T) {
		payload, err := decodePayload([]byte(`{"id": 9007199254740993, "usage": 1.5}`))
		require.NoError(t, err)
		obj := payload.(map[string]any)
		assert.Equal(t, json.Number("9007199254740993"), obj["id"])
		assert.Equal(t, json.Number("1.5"), obj["usage"])
	})

	t.Run("empty body", func(t *testing.T) {
		payload, err := decodePayload([]byte(" \n"))
		require.NoError(t, err)
		assert.Nil(t, payload)
	})

	t.Run("invalid", func(t *testing.T) {
		_, err := decodePayload([]byte("<html>"))
		assert.Error(t, err)
	})

	t.Run("error bodies", func(t *testing.T) {
		assert.Equal(t, map[string]any{"detail": "upstream timed out"}, decodeErrorPayload([]byte("upstream timed out\n")))
		assert.Equal(t, map[string]any{"detail": "x"}, decodeErrorPayload([]byte(`{"detail":"x"}`)))
		assert.Nil(t, decodeErrorPayload(nil))
	})
}

func TestEncodeBody(t *testing.T) {
	data, err := encodeBody(map[string]any{"quota": nil, "aliases": []string{}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"quota": null, "aliases": []}`, string(data))

	_, err = encodeBody(map[string]any{"bad": make(chan int)})
	assert.Error(t, err)
}
