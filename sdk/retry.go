package sdk

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// retryableStatuses are gateway answers that mean the request never reached
// a healthy backend.
var retryableStatuses = map[int]bool{
	http.StatusBadGateway:         true,
	http.StatusServiceUnavailable: true,
	http.StatusGatewayTimeout:     true,
}

// isIdempotent reports whether a request may be sent twice. POST actions
// such as install or create are never retried.
func isIdempotent(method string) bool {
	switch method {
	case http.MethodGet, http.MethodPut, http.MethodDelete:
		return true
	}
	return false
}

type retryableStatusError struct{ status int }

func (e *retryableStatusError) Error() string {
	return fmt.Sprintf("retryable status %d", e.status)
}

// retryExecutor retries idempotent requests with exponential backoff and
// jitter.
type retryExecutor struct {
	config   RetryConfig
	observer Observer
}

func newRetryExecutor(config RetryConfig, observer Observer) *retryExecutor {
	return &retryExecutor{config: config, observer: observer}
}

func (re *retryExecutor) newBackOff(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = re.config.InitialInterval
	b.MaxInterval = re.config.MaxInterval
	b.Multiplier = re.config.Multiplier
	b.RandomizationFactor = 0.3
	b.MaxElapsedTime = 0
	return backoff.WithContext(backoff.WithMaxRetries(b, uint64(re.config.MaxRetries)), ctx)
}

// Execute sends the request through fn until it succeeds, fails permanently
// or the retry budget is spent. A response with a retryable status that
// survives every attempt is returned as a response, not as an error. The
// second return value is the number of retries performed.
func (re *retryExecutor) Execute(ctx context.Context, method, path string, fn func() (*Response, error)) (*Response, int, error) {
	if !isIdempotent(method) || re.config.MaxRetries <= 0 {
		resp, err := fn()
		return resp, 0, err
	}

	var (
		resp     *Response
		attempts int
	)
	op := func() error {
		attempts++
		var err error
		resp, err = fn()
		if err != nil {
			if IsRetryable(err) {
				return err
			}
			return backoff.Permanent(err)
		}
		if retryableStatuses[resp.StatusCode()] {
			return &retryableStatusError{status: resp.StatusCode()}
		}
		return nil
	}
	notify := func(err error, delay time.Duration) {
		re.observer.OnRetryAttempt(method, path, attempts, delay, err)
	}

	err := backoff.RetryNotify(op, re.newBackOff(ctx), notify)
	retries := attempts - 1

	var statusErr *retryableStatusError
	if errors.As(err, &statusErr) {
		return resp, retries, nil
	}
	if err != nil {
		var tErr *TransportError
		if !errors.As(err, &tErr) {
			// The context ended while waiting between attempts.
			tErr = newTransportError("retry", err)
		}
		return nil, retries, tErr
	}
	return resp, retries, nil
}
