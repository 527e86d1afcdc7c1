package sdk

import (
	"context"
	"fmt"
	"net/http"
	"slices"

	"github.com/samber/lo"

	"github.com/birbparty/clusterapi/sdk/models"
	"github.com/birbparty/clusterapi/sdk/validation"
)

// modelPtr is satisfied by pointers to model structs.
type modelPtr[T any] interface {
	*T
	models.Model
}

// endpoint is embedded in every resource endpoint.
type endpoint struct {
	client *Client
}

func (e *endpoint) send(ctx context.Context, req *Request) (*Response, error) {
	return e.client.Request(ctx, req)
}

// finish attaches the recorded clusters to resp and reports them.
func (e *endpoint) finish(op string, resp *Response, affected *AffectedClusters) *Response {
	ids := affected.IDs()
	if len(ids) == 0 {
		return resp
	}
	e.client.clustersAffected(op, ids)
	return resp.withAffected(ids)
}

// validateRequired fails with the first required key that is nil in the
// model's wire form. Defaults count as present.
func validateRequired(m models.Model, required []string) error {
	data := m.ToMap()
	for _, key := range required {
		if data[key] == nil {
			return validation.Required(key)
		}
	}
	return nil
}

// filterFields keeps only the allow-listed keys of an outgoing body.
func filterFields(data map[string]any, allowed []string) map[string]any {
	return lo.PickByKeys(data, allowed)
}

func decodeOne[T any, PT modelPtr[T]](resp *Response, key string) (*T, error) {
	obj, ok := resp.Payload().(map[string]any)
	if !ok {
		return nil, &ResponseError{Op: key, StatusCode: resp.StatusCode(),
			Err: fmt.Errorf("expected object, got %T", resp.Payload())}
	}
	m, err := models.Decode[T, PT](obj)
	if err != nil {
		return nil, &ResponseError{Op: key, StatusCode: resp.StatusCode(), Err: err}
	}
	return m, nil
}

func decodeMany[T any, PT modelPtr[T]](resp *Response, key string) ([]*T, error) {
	items, ok := resp.Payload().([]any)
	if !ok {
		return nil, &ResponseError{Op: key, StatusCode: resp.StatusCode(),
			Err: fmt.Errorf("expected list, got %T", resp.Payload())}
	}
	out, err := models.DecodeList[T, PT](items)
	if err != nil {
		return nil, &ResponseError{Op: key, StatusCode: resp.StatusCode(), Err: err}
	}
	return out, nil
}

func clusterOf(m any) *int {
	if scoped, ok := m.(models.ClusterScoped); ok {
		return scoped.ClusterID()
	}
	return nil
}

// listResources issues GET path?filter and decodes every element under key.
func listResources[T any, PT modelPtr[T]](ctx context.Context, e *endpoint, path, key string, filter *ListFilter) (*Response, error) {
	resp, err := e.send(ctx, mustRequest(http.MethodGet, withQuery(path, filter.Values()), nil))
	if err != nil || !resp.IsSuccess() {
		return resp, err
	}
	items, err := decodeMany[T, PT](resp, key)
	if err != nil {
		return nil, err
	}
	return resp.withData(map[string]any{key: items}), nil
}

// getResource issues GET path and decodes the payload under key.
func getResource[T any, PT modelPtr[T]](ctx context.Context, e *endpoint, path, key string) (*Response, error) {
	resp, err := e.send(ctx, mustRequest(http.MethodGet, path, nil))
	if err != nil || !resp.IsSuccess() {
		return resp, err
	}
	m, err := decodeOne[T, PT](resp, key)
	if err != nil {
		return nil, err
	}
	return resp.withData(map[string]any{key: m}), nil
}

// writeSpec describes a create or update call.
type writeSpec struct {
	op       string
	method   string
	path     string
	key      string
	required []string
	allowed  []string
}

// writeResource validates m, sends the allow-listed body and records the
// cluster of the returned object.
func writeResource[T any, PT modelPtr[T]](ctx context.Context, e *endpoint, spec writeSpec, m PT) (*Response, error) {
	if err := validateRequired(m, spec.required); err != nil {
		return nil, err
	}
	body := filterFields(m.ToMap(), spec.allowed)

	resp, err := e.send(ctx, mustRequest(spec.method, spec.path, body))
	if err != nil || !resp.IsSuccess() {
		return resp, err
	}
	out, err := decodeOne[T, PT](resp, spec.key)
	if err != nil {
		return nil, err
	}

	var affected AffectedClusters
	affected.AddRef(clusterOf(any(out)))
	return e.finish(spec.op, resp.withData(map[string]any{spec.key: out}), &affected), nil
}

// deleteResource looks the object up for bookkeeping, then deletes it. A
// transport fault on the lookup aborts the delete; an API error or an
// undecodable object only skips the bookkeeping. The cluster found by the
// lookup is recorded whatever the outcome of the DELETE.
func deleteResource[T any, PT modelPtr[T]](ctx context.Context, e *endpoint, op, path, key string) (*Response, error) {
	var affected AffectedClusters
	found, err := getResource[T, PT](ctx, e, path, key)
	if err != nil && IsTransportError(err) {
		return nil, err
	}
	if err == nil && found.IsSuccess() {
		if m, ok := DataAs[*T](found, key); ok {
			affected.AddRef(clusterOf(any(m)))
		}
	}

	resp, err := e.send(ctx, mustRequest(http.MethodDelete, path, nil))
	if err != nil {
		return nil, err
	}
	return e.finish(op, resp, &affected), nil
}

// actionState is a step of a compound action.
type actionState int

const (
	actionPending actionState = iota
	actionRequested
	actionSucceeded
	actionFailed
	actionRefetching
	actionConfirmed
	actionRefetchFailed
)

func (s actionState) String() string {
	switch s {
	case actionPending:
		return "pending"
	case actionRequested:
		return "requested"
	case actionSucceeded:
		return "action-succeeded"
	case actionFailed:
		return "action-failed"
	case actionRefetching:
		return "refetching"
	case actionConfirmed:
		return "confirmed"
	case actionRefetchFailed:
		return "refetch-failed"
	}
	return "unknown"
}

var actionTransitions = map[actionState][]actionState{
	actionPending:    {actionRequested},
	actionRequested:  {actionSucceeded, actionFailed},
	actionSucceeded:  {actionRefetching, actionConfirmed},
	actionRefetching: {actionConfirmed, actionRefetchFailed},
}

// compoundAction sends an action request and, unless the action's own
// result is self-sufficient, re-fetches the parent object to confirm it and
// to learn its cluster. Only a confirmed action yields a success response;
// otherwise the first failing response is returned as is.
type compoundAction struct {
	op      string
	request *Request
	// decode turns the action's success response into result entries.
	decode func(*Response) (map[string]any, error)
	// refetch re-reads the parent; nil for self-sufficient actions.
	refetch func(context.Context) (*Response, error)
	// parentKey is the data key of the re-fetched parent.
	parentKey string

	state actionState
	trail []actionState
}

func (a *compoundAction) transition(to actionState) error {
	if !slices.Contains(actionTransitions[a.state], to) {
		return fmt.Errorf("%w: %s: %s -> %s", ErrIllegalTransition, a.op, a.state, to)
	}
	a.state = to
	a.trail = append(a.trail, to)
	return nil
}

func (a *compoundAction) run(ctx context.Context, e *endpoint) (*Response, error) {
	if err := a.transition(actionRequested); err != nil {
		return nil, err
	}
	resp, err := e.send(ctx, a.request)
	if err != nil {
		return nil, err
	}
	if !resp.IsSuccess() {
		return resp, a.transition(actionFailed)
	}
	if err := a.transition(actionSucceeded); err != nil {
		return nil, err
	}

	data := map[string]any{}
	if a.decode != nil {
		if data, err = a.decode(resp); err != nil {
			return nil, err
		}
	}

	if a.refetch == nil {
		if err := a.transition(actionConfirmed); err != nil {
			return nil, err
		}
		return resp.withData(data), nil
	}

	if err := a.transition(actionRefetching); err != nil {
		return nil, err
	}
	fresh, err := a.refetch(ctx)
	if err != nil {
		return nil, err
	}
	if !fresh.IsSuccess() {
		return fresh, a.transition(actionRefetchFailed)
	}

	parent := fresh.Get(a.parentKey)
	data[a.parentKey] = parent
	var affected AffectedClusters
	affected.AddRef(clusterOf(parent))

	if err := a.transition(actionConfirmed); err != nil {
		return nil, err
	}
	return e.finish(a.op, resp.withData(data), &affected), nil
}

// decodeInto returns a compoundAction decoder storing the payload as T
// under key.
func decodeInto[T any, PT modelPtr[T]](key string) func(*Response) (map[string]any, error) {
	return func(resp *Response) (map[string]any, error) {
		m, err := decodeOne[T, PT](resp, key)
		if err != nil {
			return nil, err
		}
		return map[string]any{key: m}, nil
	}
}

func errMissingKey(key string) error {
	return fmt.Errorf("missing key %q", key)
}
