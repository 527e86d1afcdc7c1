package sdk

import (
	"fmt"
	"maps"
	"net/http"
	"net/url"
	"strings"
)

// Request is an immutable description of one API call. Its URL is relative
// to the configured base URL and may carry a query string.
type Request struct {
	method string
	url    string
	body   map[string]any
}

// NewRequest validates and builds a request. The method must be one of GET,
// POST, PUT or DELETE and the URL must be relative.
func NewRequest(method, rawURL string, body map[string]any) (*Request, error) {
	switch method {
	case http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete:
	default:
		return nil, fmt.Errorf("%w: unsupported method %q", ErrInvalidRequest, method)
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	if u.IsAbs() || u.Host != "" || strings.HasPrefix(rawURL, "/") {
		return nil, fmt.Errorf("%w: url %q must be relative to the base URL", ErrInvalidRequest, rawURL)
	}
	return &Request{method: method, url: rawURL, body: maps.Clone(body)}, nil
}

// mustRequest builds a request from endpoint code, where method and URL are
// constants and a failure is a programming error.
func mustRequest(method, rawURL string, body map[string]any) *Request {
	req, err := NewRequest(method, rawURL, body)
	if err != nil {
		panic(err)
	}
	return req
}

// Method returns the HTTP method.
func (r *Request) Method() string { return r.method }

// URL returns the relative URL including any query string.
func (r *Request) URL() string { return r.url }

// Path returns the URL without its query string.
func (r *Request) Path() string {
	path, _, _ := strings.Cut(r.url, "?")
	return path
}

// Query returns the parsed query string.
func (r *Request) Query() url.Values {
	_, raw, _ := strings.Cut(r.url, "?")
	q, _ := url.ParseQuery(raw)
	return q
}

// Body returns a copy of the request body, or nil when there is none.
func (r *Request) Body() map[string]any { return maps.Clone(r.body) }

// HasBody reports whether the request carries a body.
func (r *Request) HasBody() bool { return r.body != nil }

// String implements fmt.Stringer
func (r *Request) String() string { return r.method + " " + r.url }

// withQuery appends q to path. Empty values are expected to have been left
// out by the caller so that unset optional parameters never appear.
func withQuery(path string, q url.Values) string {
	if enc := q.Encode(); enc != "" {
		return path + "?" + enc
	}
	return path
}

// optionalQuery returns a url.Values holding only the non-empty pairs.
func optionalQuery(pairs ...string) url.Values {
	q := url.Values{}
	for i := 0; i+1 < len(pairs); i += 2 {
		if pairs[i+1] != "" {
			q.Set(pairs[i], pairs[i+1])
		}
	}
	return q
}
