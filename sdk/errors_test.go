package sdk

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/birbparty/clusterapi/sdk/validation"
)

type timeoutNetError struct{ timeout bool }

func (e timeoutNetError) Error() string   { return "net failure" }
func (e timeoutNetError) Timeout() bool   { return e.timeout }
func (e timeoutNetError) Temporary() bool { return false }

var _ net.Error = timeoutNetError{}

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorType
	}{
		{"nil", nil, ErrorTypeUnknown},
		{"circuit open", fmt.Errorf("%w: half-open limit reached", ErrCircuitOpen), ErrorTypeCircuitOpen},
		{"deadline", context.DeadlineExceeded, ErrorTypeTimeout},
		{"wrapped deadline", fmt.Errorf("get: %w", context.DeadlineExceeded), ErrorTypeTimeout},
		{"canceled", context.Canceled, ErrorTypeCanceled},
		{"net timeout", timeoutNetError{timeout: true}, ErrorTypeTimeout},
		{"net error", timeoutNetError{}, ErrorTypeNetwork},
		{"refused", &net.OpError{Op: "dial", Err: errors.New("connection refused")}, ErrorTypeNetwork},
		{"anything else", errors.New("boom"), ErrorTypeNetwork},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classifyError(tt.err))
		})
	}
}

func TestTransportError(t *testing.T) {
	t.Run("sentinels", func(t *testing.T) {
		timeout := newTransportError("send", context.DeadlineExceeded)
		assert.ErrorIs(t, timeout, ErrTransport)
		assert.ErrorIs(t, timeout, ErrTimeout)
		assert.ErrorIs(t, timeout, context.DeadlineExceeded)
		assert.NotErrorIs(t, timeout, ErrCircuitOpen)

		open := newTransportError("send", ErrCircuitOpen)
		assert.ErrorIs(t, open, ErrCircuitOpen)
		assert.NotErrorIs(t, open, ErrTimeout)
	})

	t.Run("retryable", func(t *testing.T) {
		assert.True(t, newTransportError("send", timeoutNetError{}).IsRetryable())
		assert.True(t, newTransportError("send", context.DeadlineExceeded).IsRetryable())
		assert.False(t, newTransportError("send", context.Canceled).IsRetryable())
		assert.False(t, newTransportError("send", ErrCircuitOpen).IsRetryable())
		assert.False(t, (&TransportError{Type: ErrorTypeEncoding, Op: "decode"}).IsRetryable())
	})

	t.Run("message", func(t *testing.T) {
		err := &TransportError{Type: ErrorTypeNetwork, Op: "send", Err: errors.New("refused")}
		assert.Equal(t, "network error during send: refused", err.Error())

		err.Context = &ErrorContext{URL: "https://api/cmses", Method: "GET", Duration: time.Second, RetryCount: 2}
		assert.Equal(t, "network error during send: refused (url: https://api/cmses, retries: 2)", err.Error())
	})
}

func TestResponseError(t *testing.T) {
	cause := validation.Required("software_name")
	err := &ResponseError{Op: "cms", StatusCode: 200, Err: cause}

	assert.ErrorIs(t, err, ErrInvalidResponse)
	assert.ErrorIs(t, err, validation.ErrInvalid)
	assert.False(t, IsValidationError(err), "decode failures are not local validation errors")
	assert.False(t, IsTransportError(err))
	assert.Contains(t, err.Error(), "decoding cms (status 200)")
}

func TestErrorPredicates(t *testing.T) {
	verr := validation.Required("password")
	assert.True(t, IsValidationError(verr))
	assert.True(t, IsValidationError(fmt.Errorf("create: %w", verr)))
	assert.False(t, IsValidationError(nil))
	assert.False(t, IsValidationError(ErrTimeout))

	tErr := newTransportError("send", timeoutNetError{timeout: true})
	assert.True(t, IsTransportError(tErr))
	assert.True(t, IsRetryable(fmt.Errorf("get: %w", tErr)))
	assert.False(t, IsRetryable(verr))
	assert.False(t, IsRetryable(errors.New("boom")))
}

func TestErrorTypeString(t *testing.T) {
	assert.Equal(t, "network", ErrorTypeNetwork.String())
	assert.Equal(t, "timeout", ErrorTypeTimeout.String())
	assert.Equal(t, "canceled", ErrorTypeCanceled.String())
	assert.Equal(t, "circuit_open", ErrorTypeCircuitOpen.String())
	assert.Equal(t, "encoding", ErrorTypeEncoding.String())
	assert.Equal(t, "unknown", ErrorTypeUnknown.String())
}
