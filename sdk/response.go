package sdk

import (
	"fmt"
	"maps"
	"net/http"
	"slices"

	"github.com/birbparty/clusterapi/sdk/models"
)

// Response is the outcome of an API call that reached the server.
//
// A transport returns the raw decoded JSON as Payload. Endpoint operations
// then attach typed results under semantic keys (for example "cms" or
// "taskCollection") retrievable with DataAs. Compound actions merge the
// results of several calls into the Data of one Response.
type Response struct {
	statusCode int
	header     http.Header
	payload    any
	data       map[string]any
	affected   []int
}

// NewResponse wraps a decoded payload. payload is whatever the JSON body
// decoded to (map[string]any, []any, a scalar, or nil for an empty body).
func NewResponse(statusCode int, payload any, header http.Header) *Response {
	return &Response{
		statusCode: statusCode,
		header:     header.Clone(),
		payload:    payload,
	}
}

// StatusCode returns the HTTP status.
func (r *Response) StatusCode() int { return r.statusCode }

// IsSuccess reports whether the status is 2xx.
func (r *Response) IsSuccess() bool { return r.statusCode >= 200 && r.statusCode < 300 }

// Header returns a copy of the response headers.
func (r *Response) Header() http.Header { return r.header.Clone() }

// Payload returns the raw decoded body.
func (r *Response) Payload() any { return r.payload }

// Data returns a copy of the typed results attached by the endpoint.
func (r *Response) Data() map[string]any { return maps.Clone(r.data) }

// Get returns the typed result stored under key, or nil.
func (r *Response) Get(key string) any { return r.data[key] }

// AffectedClusters returns the cluster IDs the operation that produced this
// response touched, in the order they were recorded.
func (r *Response) AffectedClusters() []int { return slices.Clone(r.affected) }

// Detail parses the structured error body of a failed response. It returns
// nil for successful responses and for bodies that are not a valid detail
// message, such as the list-shaped detail of a request validation error.
func (r *Response) Detail() *models.DetailMessage {
	if r.IsSuccess() {
		return nil
	}
	obj, ok := r.payload.(map[string]any)
	if !ok {
		return nil
	}
	detail, err := models.Decode[models.DetailMessage](obj)
	if err != nil {
		return nil
	}
	return detail
}

// ErrorMessage returns a human-readable description of a failed response
// and the empty string for a successful one.
func (r *Response) ErrorMessage() string {
	if r.IsSuccess() {
		return ""
	}
	if d := r.Detail(); d != nil {
		return d.Detail()
	}
	if obj, ok := r.payload.(map[string]any); ok {
		if detail, ok := obj["detail"]; ok {
			return fmt.Sprintf("%v", detail)
		}
	}
	if text := http.StatusText(r.statusCode); text != "" {
		return fmt.Sprintf("HTTP %d %s", r.statusCode, text)
	}
	return fmt.Sprintf("HTTP %d", r.statusCode)
}

// withData returns a copy of r carrying data in place of its current results.
func (r *Response) withData(data map[string]any) *Response {
	out := *r
	out.data = maps.Clone(data)
	return &out
}

// withAffected returns a copy of r recording ids as affected clusters.
func (r *Response) withAffected(ids []int) *Response {
	out := *r
	out.affected = slices.Clone(ids)
	return &out
}

// DataAs returns the typed result stored under key.
//
// Example:
//
//	cms, ok := sdk.DataAs[*models.Cms](resp, "cms")
func DataAs[T any](r *Response, key string) (T, bool) {
	v, ok := r.data[key].(T)
	return v, ok
}
