package sdk

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"go.opentelemetry.io/otel/trace"
)

// Transport sends a Request to the cluster API.
//
// An HTTP error status is not an error: the transport returns a Response
// whose IsSuccess is false. The error return is reserved for faults where no
// answer was obtained (DNS, refused connections, timeouts, an open circuit,
// an unreadable body) and is always a *TransportError.
type Transport interface {
	Send(ctx context.Context, req *Request) (*Response, error)
}

// TransportFunc adapts a function to the Transport interface.
type TransportFunc func(ctx context.Context, req *Request) (*Response, error)

// Send implements Transport.
func (f TransportFunc) Send(ctx context.Context, req *Request) (*Response, error) {
	return f(ctx, req)
}

// httpTransport is the default Transport, built on net/http. It owns every
// resilience policy of the client: retries, circuit breaking, timeouts and
// tracing. Endpoint operations never retry.
type httpTransport struct {
	// client is the underlying HTTP client
	client *http.Client
	// config holds the SDK configuration
	config *Config
	// baseURL is the parsed base URL for the API
	baseURL *url.URL
	// circuitBreaker provides fault tolerance for the whole API
	circuitBreaker CircuitBreaker
	// resourceCircuitBreaker replaces circuitBreaker when circuits are per resource
	resourceCircuitBreaker *resourceCircuitBreaker
	// retryExecutor handles retry logic
	retryExecutor *retryExecutor
	// observer for monitoring operations
	observer Observer
	// tracer creates client spans
	tracer trace.Tracer
}

// buildPath builds a URL path with proper escaping for path parameters.
// It replaces placeholders like {0}, {1}, etc. with the provided arguments,
// ensuring all special characters are properly URL-encoded.
//
// Example:
//
//	path := buildPath("cmses/{0}/configuration-constants/{1}", "5", "WP_DEBUG")
//	// Result: "cmses/5/configuration-constants/WP_DEBUG"
//
// The function uses QueryEscape for encoding, then replaces '+' with '%20'
// to ensure proper space encoding in URL paths (as '+' is only valid in
// query strings, not paths).
func buildPath(pattern string, args ...any) string {
	path := pattern
	for i, arg := range args {
		placeholder := fmt.Sprintf("{%d}", i)
		escaped := url.QueryEscape(fmt.Sprint(arg))
		escaped = strings.ReplaceAll(escaped, "+", "%20")
		path = strings.Replace(path, placeholder, escaped, 1)
	}
	return path
}
