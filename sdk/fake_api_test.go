package sdk

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// fakeAPI is an in-memory Transport. Replies are keyed by "METHOD url" where
// url is the relative request URL including its query string.
type fakeAPI struct {
	t *testing.T

	mu      sync.Mutex
	replies map[string][]*Response
	errs    map[string]error
	calls   []*Request
}

func newFakeAPI(t *testing.T) *fakeAPI {
	return &fakeAPI{
		t:       t,
		replies: make(map[string][]*Response),
		errs:    make(map[string]error),
	}
}

// wire round-trips payload through JSON so that tests see what the HTTP
// transport would produce.
func wire(t *testing.T, payload any) any {
	t.Helper()
	if payload == nil {
		return nil
	}
	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	decoded, err := decodePayload(raw)
	require.NoError(t, err)
	return decoded
}

// on queues a reply. Several replies for one key are served in order and the
// last one repeats.
func (f *fakeAPI) on(method, url string, status int, payload any) *fakeAPI {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := method + " " + url
	f.replies[key] = append(f.replies[key], NewResponse(status, wire(f.t, payload), http.Header{}))
	return f
}

func (f *fakeAPI) fail(method, url string, err error) *fakeAPI {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs[method+" "+url] = err
	return f
}

func (f *fakeAPI) Send(ctx context.Context, req *Request) (*Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, req)

	key := req.Method() + " " + req.URL()
	if err, ok := f.errs[key]; ok {
		return nil, err
	}
	queue := f.replies[key]
	if len(queue) == 0 {
		return NewResponse(http.StatusNotFound, map[string]any{"detail": "Not Found"}, nil), nil
	}
	resp := queue[0]
	if len(queue) > 1 {
		f.replies[key] = queue[1:]
	}
	return resp, nil
}

func (f *fakeAPI) requests() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.calls))
	for _, c := range f.calls {
		out = append(out, c.String())
	}
	return out
}

func (f *fakeAPI) lastCall() *Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[len(f.calls)-1]
}

// newFakeClient returns a client wired to a fresh fakeAPI and a metrics
// collector.
func newFakeClient(t *testing.T) (*Client, *fakeAPI, *MetricsCollector) {
	t.Helper()
	api := newFakeAPI(t)
	metrics := NewMetricsCollector()
	client, err := NewClient(DefaultConfig().WithTransport(api).WithObserver(metrics))
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	return client, api, metrics
}
