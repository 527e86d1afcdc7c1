package sdk

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/birbparty/clusterapi/sdk/validation"
)

// Common errors returned by the SDK. These can be used with errors.Is()
// to check for specific error conditions.
//
// API failures (4xx/5xx answers) are not errors: they come back as a
// *Response whose IsSuccess reports false. The error return of an endpoint
// operation is reserved for local validation failures, transport faults and
// undecodable success payloads.
//
// Example:
//
//	resp, err := client.Cmses().Get(ctx, 5)
//	switch {
//	case sdk.IsValidationError(err):
//	    // rejected before any request was sent
//	case errors.Is(err, sdk.ErrTransport):
//	    // the API could not be reached
//	case err != nil:
//	    // the API answered with a payload we could not decode
//	case !resp.IsSuccess():
//	    log.Printf("API error: %s", resp.ErrorMessage())
//	}
var (
	// ErrInvalidConfig is returned when the configuration is invalid
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrInvalidRequest is returned when a request cannot be constructed
	ErrInvalidRequest = errors.New("invalid request")

	// ErrTransport matches every *TransportError
	ErrTransport = errors.New("transport failure")

	// ErrTimeout is returned when a request times out
	ErrTimeout = errors.New("request timeout")

	// ErrInvalidResponse is returned when a success payload cannot be decoded
	ErrInvalidResponse = errors.New("invalid response from server")

	// ErrCircuitOpen is returned when the circuit breaker is open
	ErrCircuitOpen = errors.New("circuit breaker is open")

	// ErrClientClosed is returned by operations on a closed client
	ErrClientClosed = errors.New("client is closed")

	// ErrIllegalTransition is returned when a compound action is driven
	// through a transition its state machine does not allow
	ErrIllegalTransition = errors.New("illegal action state transition")
)

// ErrorType categorizes transport faults for retry decisions.
type ErrorType int

const (
	// ErrorTypeUnknown represents an unknown or unclassified error
	ErrorTypeUnknown ErrorType = iota
	// ErrorTypeNetwork represents network-related errors (connection refused, DNS, etc.)
	ErrorTypeNetwork
	// ErrorTypeTimeout represents timeout errors (request timeout, context deadline)
	ErrorTypeTimeout
	// ErrorTypeCanceled represents a caller-canceled context
	ErrorTypeCanceled
	// ErrorTypeCircuitOpen represents circuit breaker open state errors
	ErrorTypeCircuitOpen
	// ErrorTypeEncoding represents a body that could not be encoded or decoded
	ErrorTypeEncoding
)

// String returns the string representation of the error type
func (et ErrorType) String() string {
	switch et {
	case ErrorTypeNetwork:
		return "network"
	case ErrorTypeTimeout:
		return "timeout"
	case ErrorTypeCanceled:
		return "canceled"
	case ErrorTypeCircuitOpen:
		return "circuit_open"
	case ErrorTypeEncoding:
		return "encoding"
	default:
		return "unknown"
	}
}

// ErrorContext provides additional context about the request that failed.
type ErrorContext struct {
	// URL is the full URL of the failed request
	URL string `json:"url,omitempty"`
	// Method is the HTTP method used
	Method string `json:"method,omitempty"`
	// Duration is how long the operation took before failing
	Duration time.Duration `json:"duration,omitempty"`
	// RetryCount is the number of retry attempts made
	RetryCount int `json:"retry_count,omitempty"`
}

// TransportError is the only error a Transport returns. It is never produced
// for an HTTP status: a reachable API that answers 4xx/5xx yields a Response.
//
// Example:
//
//	var tErr *sdk.TransportError
//	if errors.As(err, &tErr) {
//	    log.Printf("%s failed after %d retries: %v",
//	        tErr.Context.URL, tErr.Context.RetryCount, tErr.Err)
//	}
type TransportError struct {
	// Type categorizes the fault
	Type ErrorType
	// Op is the step that failed ("encode", "send", "read", "decode")
	Op string
	// Context describes the request, if one was built
	Context *ErrorContext
	// Err is the underlying error
	Err error
}

// Error implements the error interface
func (e *TransportError) Error() string {
	if e.Context != nil && e.Context.URL != "" {
		return fmt.Sprintf("%s error during %s: %v (url: %s, retries: %d)",
			e.Type, e.Op, e.Err, e.Context.URL, e.Context.RetryCount)
	}
	return fmt.Sprintf("%s error during %s: %v", e.Type, e.Op, e.Err)
}

// Unwrap returns the wrapped error
func (e *TransportError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is
func (e *TransportError) Is(target error) bool {
	switch target {
	case ErrTransport:
		return true
	case ErrTimeout:
		return e.Type == ErrorTypeTimeout
	case ErrCircuitOpen:
		return e.Type == ErrorTypeCircuitOpen
	}
	return false
}

// IsRetryable returns true if resending the same request may succeed
func (e *TransportError) IsRetryable() bool {
	return e.Type == ErrorTypeNetwork || e.Type == ErrorTypeTimeout
}

func newTransportError(op string, err error) *TransportError {
	return &TransportError{Type: classifyError(err), Op: op, Err: err}
}

// classifyError maps a low-level failure to an ErrorType.
func classifyError(err error) ErrorType {
	var netErr net.Error
	switch {
	case err == nil:
		return ErrorTypeUnknown
	case errors.Is(err, ErrCircuitOpen):
		return ErrorTypeCircuitOpen
	case errors.Is(err, context.DeadlineExceeded):
		return ErrorTypeTimeout
	case errors.Is(err, context.Canceled):
		return ErrorTypeCanceled
	case errors.As(err, &netErr) && netErr.Timeout():
		return ErrorTypeTimeout
	case errors.As(err, &netErr):
		return ErrorTypeNetwork
	}
	return ErrorTypeNetwork
}

// ResponseError reports a success payload that did not decode into the
// expected model. It wraps both ErrInvalidResponse and the decoding error,
// which is usually a *validation.ValidationError.
type ResponseError struct {
	// Op names what was being decoded, e.g. "cms" or "cmses"
	Op string
	// StatusCode is the status of the undecodable response
	StatusCode int
	// Err is the decoding error
	Err error
}

// Error implements the error interface
func (e *ResponseError) Error() string {
	return fmt.Sprintf("%v: decoding %s (status %d): %v", ErrInvalidResponse, e.Op, e.StatusCode, e.Err)
}

// Unwrap returns the decoding error
func (e *ResponseError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is
func (e *ResponseError) Is(target error) bool {
	return target == ErrInvalidResponse
}

// IsTransportError reports whether err is a transport fault.
func IsTransportError(err error) bool {
	return errors.Is(err, ErrTransport)
}

// IsValidationError reports whether err was raised locally before any
// request was sent. Decode failures of server payloads are not validation
// errors even though they wrap one.
func IsValidationError(err error) bool {
	return errors.Is(err, validation.ErrInvalid) && !errors.Is(err, ErrInvalidResponse)
}

// IsRetryable checks if an error is a transport fault worth retrying.
// Validation errors, decode errors and an open circuit are not retryable.
func IsRetryable(err error) bool {
	var tErr *TransportError
	if errors.As(err, &tErr) {
		return tErr.IsRetryable()
	}
	return false
}
