package testdata

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// APIPrefix is the path the mock API is mounted under.
const APIPrefix = "/api/v1"

// MockServer provides a configurable fake of the cluster API.
type MockServer struct {
	*httptest.Server
	mu           sync.RWMutex
	handlers     map[string]HandlerFunc
	requestCount atomic.Int32
	requests     []RecordedRequest
}

// HandlerFunc answers a request with a status and a JSON-encodable body.
// A nil body sends no content.
type HandlerFunc func(w http.ResponseWriter, r *http.Request) (int, interface{})

// Reply is one canned answer.
type Reply struct {
	Status int
	Body   interface{}
}

// RecordedRequest stores information about a received request
type RecordedRequest struct {
	Method  string
	Path    string
	Query   url.Values
	Headers http.Header
	Body    []byte
	Time    time.Time
}

// JSON decodes the recorded body. It returns nil for an empty body.
func (r RecordedRequest) JSON() map[string]interface{} {
	if len(r.Body) == 0 {
		return nil
	}
	var out map[string]interface{}
	if err := json.Unmarshal(r.Body, &out); err != nil {
		return nil
	}
	return out
}

// NewMockServer creates a new mock server. BaseURL returns the URL clients
// should be configured with.
func NewMockServer() *MockServer {
	ms := &MockServer{
		handlers: make(map[string]HandlerFunc),
		requests: make([]RecordedRequest, 0),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", ms.handleRequest)

	ms.Server = httptest.NewServer(mux)
	return ms
}

// BaseURL returns the API base URL, with a trailing slash.
func (ms *MockServer) BaseURL() string {
	return ms.URL + APIPrefix + "/"
}

// RegisterHandler registers a handler for "METHOD /path", the path being
// relative to APIPrefix. A pattern ending in "/" matches every path below it.
func (ms *MockServer) RegisterHandler(pattern string, handler HandlerFunc) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.handlers[pattern] = handler
}

// handleRequest routes requests to appropriate handlers
func (ms *MockServer) handleRequest(w http.ResponseWriter, r *http.Request) {
	body := make([]byte, 0)
	if r.Body != nil {
		body, _ = io.ReadAll(r.Body)
		r.Body = io.NopCloser(bytes.NewReader(body))
	}

	path := strings.TrimPrefix(r.URL.Path, APIPrefix)

	ms.mu.Lock()
	ms.requests = append(ms.requests, RecordedRequest{
		Method:  r.Method,
		Path:    path,
		Query:   r.URL.Query(),
		Headers: r.Header.Clone(),
		Body:    body,
		Time:    time.Now(),
	})
	ms.mu.Unlock()

	ms.requestCount.Add(1)

	pattern := r.Method + " " + path
	ms.mu.RLock()
	handler, exact := ms.handlers[pattern]
	if !exact {
		// Try prefix match for dynamic paths
		for p, h := range ms.handlers {
			if strings.HasSuffix(p, "/") && strings.HasPrefix(pattern, p) {
				handler = h
				break
			}
		}
	}
	ms.mu.RUnlock()

	if handler == nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Not Found"})
		return
	}

	status, response := handler(w, r)

	if text, ok := response.(string); ok {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(status)
		io.WriteString(w, text)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if response != nil {
		json.NewEncoder(w).Encode(response)
	}
}

// GetRequestCount returns the total number of requests received
func (ms *MockServer) GetRequestCount() int {
	return int(ms.requestCount.Load())
}

// GetRequests returns all recorded requests
func (ms *MockServer) GetRequests() []RecordedRequest {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	result := make([]RecordedRequest, len(ms.requests))
	copy(result, ms.requests)
	return result
}

// LastRequest returns the most recent request. It panics when none was
// received.
func (ms *MockServer) LastRequest() RecordedRequest {
	reqs := ms.GetRequests()
	return reqs[len(reqs)-1]
}

// Reset clears all recorded requests
func (ms *MockServer) Reset() {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	ms.requestCount.Store(0)
	ms.requests = ms.requests[:0]
}

// WithJSON answers pattern with a fixed status and body.
func (ms *MockServer) WithJSON(pattern string, status int, body interface{}) {
	ms.RegisterHandler(pattern, func(w http.ResponseWriter, r *http.Request) (int, interface{}) {
		return status, body
	})
}

// WithErrorResponse answers pattern with a detail message.
func (ms *MockServer) WithErrorResponse(pattern string, statusCode int, detail string) {
	ms.WithJSON(pattern, statusCode, map[string]string{"detail": detail})
}

// WithTextResponse answers pattern with a plain text body, the way a proxy
// in front of the API does.
func (ms *MockServer) WithTextResponse(pattern string, statusCode int, text string) {
	ms.WithJSON(pattern, statusCode, text)
}

// WithDelayedResponse sets up a handler that delays before responding
func (ms *MockServer) WithDelayedResponse(pattern string, delay time.Duration, handler HandlerFunc) {
	ms.RegisterHandler(pattern, func(w http.ResponseWriter, r *http.Request) (int, interface{}) {
		time.Sleep(delay)
		return handler(w, r)
	})
}

// WithSequence answers pattern with replies in order, repeating the last
// one once the sequence is exhausted.
func (ms *MockServer) WithSequence(pattern string, replies ...Reply) {
	var attempts atomic.Int32
	ms.RegisterHandler(pattern, func(w http.ResponseWriter, r *http.Request) (int, interface{}) {
		i := int(attempts.Add(1)) - 1
		if i >= len(replies) {
			i = len(replies) - 1
		}
		return replies[i].Status, replies[i].Body
	})
}

// WithRetryResponse sets up a handler that fails N times before succeeding
func (ms *MockServer) WithRetryResponse(pattern string, failCount int, failStatus int, success interface{}) {
	replies := make([]Reply, 0, failCount+1)
	for i := 0; i < failCount; i++ {
		replies = append(replies, Reply{Status: failStatus, Body: map[string]string{"detail": "Temporary failure"}})
	}
	replies = append(replies, Reply{Status: http.StatusOK, Body: success})
	ms.WithSequence(pattern, replies...)
}

// Close shuts down the mock server
func (ms *MockServer) Close() {
	if ms.Server != nil {
		ms.Server.Close()
	}
}
