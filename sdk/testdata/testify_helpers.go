package testdata

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSuite provides common test setup and utilities
type TestSuite struct {
	T          *testing.T
	Server     *MockServer
	BaseURL    string
	Context    context.Context
	CancelFunc context.CancelFunc
}

// NewTestSuite creates a new test suite with mock server. Cleanup is
// registered on t.
func NewTestSuite(t *testing.T) *TestSuite {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	server := NewMockServer()

	ts := &TestSuite{
		T:          t,
		Server:     server,
		BaseURL:    server.BaseURL(),
		Context:    ctx,
		CancelFunc: cancel,
	}
	t.Cleanup(ts.Cleanup)
	return ts
}

// Cleanup cleans up test resources
func (ts *TestSuite) Cleanup() {
	if ts.CancelFunc != nil {
		ts.CancelFunc()
	}
	if ts.Server != nil {
		ts.Server.Close()
	}
}

// AssertRequests checks the method and path of every recorded request, in
// order. Each expectation is "METHOD /path".
func (ts *TestSuite) AssertRequests(expected ...string) {
	ts.T.Helper()
	reqs := ts.Server.GetRequests()
	actual := make([]string, 0, len(reqs))
	for _, r := range reqs {
		actual = append(actual, r.Method+" "+r.Path)
	}
	assert.Equal(ts.T, expected, actual, "request sequence mismatch")
}

// RequireRequestCount requires exactly n requests to have been received.
func (ts *TestSuite) RequireRequestCount(n int) {
	ts.T.Helper()
	require.Equal(ts.T, n, ts.Server.GetRequestCount(), "request count mismatch")
}

// AssertBodyKeys checks the set of keys of a recorded JSON body.
func AssertBodyKeys(t *testing.T, req RecordedRequest, keys ...string) {
	t.Helper()
	body := req.JSON()
	require.NotNil(t, body, "request has no JSON body")
	actual := make([]string, 0, len(body))
	for k := range body {
		actual = append(actual, k)
	}
	assert.ElementsMatch(t, keys, actual, "body keys mismatch")
}

// AssertEventuallyConsistent checks that a condition becomes true within timeout
func AssertEventuallyConsistent(t *testing.T, condition func() bool, timeout time.Duration, tick time.Duration, msgAndArgs ...interface{}) {
	assert.Eventually(t, condition, timeout, tick, msgAndArgs...)
}

// ConcurrentTestHelper helps with concurrent testing
type ConcurrentTestHelper struct {
	t         *testing.T
	wg        sync.WaitGroup
	errors    []error
	errorsMux sync.Mutex
}

// NewConcurrentTestHelper creates a new concurrent test helper
func NewConcurrentTestHelper(t *testing.T) *ConcurrentTestHelper {
	return &ConcurrentTestHelper{
		t:      t,
		errors: make([]error, 0),
	}
}

// Run executes a function concurrently
func (cth *ConcurrentTestHelper) Run(numGoroutines int, fn func(id int) error) {
	cth.wg.Add(numGoroutines)

	for i := 0; i < numGoroutines; i++ {
		go func(id int) {
			defer cth.wg.Done()

			if err := fn(id); err != nil {
				cth.errorsMux.Lock()
				cth.errors = append(cth.errors, fmt.Errorf("goroutine %d: %w", id, err))
				cth.errorsMux.Unlock()
			}
		}(i)
	}
}

// Wait waits for all goroutines to complete and checks for errors
func (cth *ConcurrentTestHelper) Wait() {
	cth.wg.Wait()

	cth.errorsMux.Lock()
	defer cth.errorsMux.Unlock()

	if len(cth.errors) > 0 {
		for _, err := range cth.errors {
			cth.t.Error(err)
		}
		cth.t.Fatalf("Concurrent test failed with %d errors", len(cth.errors))
	}
}
