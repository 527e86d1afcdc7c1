package sdk

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/birbparty/clusterapi/sdk"

// errServerStatus marks a 5xx answer as a circuit breaker failure.
var errServerStatus = errors.New("server error status")

// newHTTPTransport creates the default net/http transport
func newHTTPTransport(config *Config) (*httpTransport, error) {
	baseURL, err := url.Parse(config.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid base URL: %v", ErrInvalidConfig, err)
	}
	if baseURL.Scheme == "" || baseURL.Host == "" {
		return nil, fmt.Errorf("%w: base URL must have a scheme and host", ErrInvalidConfig)
	}
	if !strings.HasSuffix(baseURL.Path, "/") {
		baseURL.Path += "/"
	}

	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        config.TransportConfig.MaxIdleConns,
		MaxConnsPerHost:     config.TransportConfig.MaxConnsPerHost,
		IdleConnTimeout:     config.TransportConfig.IdleConnTimeout,
		TLSHandshakeTimeout: 10 * time.Second,
	}

	t := &httpTransport{
		client:         &http.Client{Transport: transport, Timeout: config.Timeout},
		config:         config,
		baseURL:        baseURL,
		circuitBreaker: noopCircuitBreaker{},
		retryExecutor:  newRetryExecutor(config.RetryConfig, config.Observer),
		observer:       config.Observer,
	}

	if cb := config.CircuitBreakerConfig; cb != nil {
		if cb.PerResource {
			t.resourceCircuitBreaker = newResourceCircuitBreaker(*cb, config.Observer.OnCircuitBreakerStateChange)
		} else {
			t.circuitBreaker = NewCircuitBreaker(*cb, func(from, to CircuitState) {
				config.Observer.OnCircuitBreakerStateChange("default", from, to)
			})
		}
	}

	tp := config.TracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	t.tracer = tp.Tracer(tracerName)

	return t, nil
}

func (t *httpTransport) breakerFor(path string) CircuitBreaker {
	if t.resourceCircuitBreaker != nil {
		return t.resourceCircuitBreaker.forPath(path)
	}
	return t.circuitBreaker
}

// Send implements Transport.
func (t *httpTransport) Send(ctx context.Context, req *Request) (*Response, error) {
	path := req.Path()
	fullURL, err := t.resolve(req)
	if err != nil {
		return nil, &TransportError{Type: ErrorTypeEncoding, Op: "encode", Err: err}
	}

	ctx, span := t.tracer.Start(ctx, req.Method()+" "+resourceOf(path),
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", req.Method()),
			attribute.String("url.full", fullURL),
		),
	)
	defer span.End()

	t.observer.OnRequestStart(req.Method(), path)
	start := time.Now()

	var (
		resp    *Response
		retries int
	)
	err = t.breakerFor(path).Execute(func() error {
		var sendErr error
		resp, retries, sendErr = t.retryExecutor.Execute(ctx, req.Method(), path, func() (*Response, error) {
			return t.performHTTPRequest(ctx, req, fullURL)
		})
		if sendErr == nil && resp.StatusCode() >= 500 {
			return errServerStatus
		}
		return sendErr
	})
	if errors.Is(err, errServerStatus) {
		err = nil
	}

	duration := time.Since(start)
	if err != nil {
		tErr := asTransportError(err)
		tErr.Context = &ErrorContext{
			URL:        fullURL,
			Method:     req.Method(),
			Duration:   duration,
			RetryCount: retries,
		}
		span.RecordError(tErr)
		span.SetStatus(codes.Error, tErr.Type.String())
		t.observer.OnRequestEnd(req.Method(), path, 0, duration, tErr)
		return nil, tErr
	}

	span.SetAttributes(
		attribute.Int("http.response.status_code", resp.StatusCode()),
		attribute.Int("http.request.resend_count", retries),
	)
	if resp.StatusCode() >= 500 {
		span.SetStatus(codes.Error, http.StatusText(resp.StatusCode()))
	}
	t.observer.OnRequestEnd(req.Method(), path, resp.StatusCode(), duration, nil)
	return resp, nil
}

func (t *httpTransport) resolve(req *Request) (string, error) {
	ref, err := url.Parse(req.URL())
	if err != nil {
		return "", err
	}
	return t.baseURL.ResolveReference(ref).String(), nil
}

// performHTTPRequest performs a single HTTP request
func (t *httpTransport) performHTTPRequest(ctx context.Context, req *Request, fullURL string) (*Response, error) {
	var bodyReader io.Reader
	if req.HasBody() {
		data, err := encodeBody(req.Body())
		if err != nil {
			return nil, &TransportError{Type: ErrorTypeEncoding, Op: "encode", Err: err}
		}
		bodyReader = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method(), fullURL, bodyReader)
	if err != nil {
		return nil, &TransportError{Type: ErrorTypeEncoding, Op: "encode", Err: err}
	}

	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", t.config.UserAgent)
	if bodyReader != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if t.config.Token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+t.config.Token)
	}
	for key, value := range t.config.Headers {
		httpReq.Header.Set(key, value)
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(httpReq.Header))

	httpResp, err := t.client.Do(httpReq)
	if err != nil {
		return nil, newTransportError("send", err)
	}
	defer httpResp.Body.Close()

	raw, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, newTransportError("read", err)
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		return NewResponse(httpResp.StatusCode, decodeErrorPayload(raw), httpResp.Header), nil
	}
	payload, err := decodePayload(raw)
	if err != nil {
		return nil, &TransportError{Type: ErrorTypeEncoding, Op: "decode", Err: err}
	}

	return NewResponse(httpResp.StatusCode, payload, httpResp.Header), nil
}

func asTransportError(err error) *TransportError {
	var tErr *TransportError
	if errors.As(err, &tErr) {
		return tErr
	}
	return newTransportError("send", err)
}

// close releases idle connections
func (t *httpTransport) close() error {
	t.client.CloseIdleConnections()
	return nil
}
