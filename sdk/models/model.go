// Package models holds the typed resources exchanged with the cluster API.
//
// Every resource converts to and from the generic wire dictionary the API
// speaks (snake_case keys, JSON values):
//
//	var vh models.VirtualHost
//	if err := vh.FromMap(payload); err != nil {
//	    // payload violated a field constraint, vh is unchanged
//	}
//	body := vh.ToMap()
//
// Setters of constrained fields validate before assigning and return a
// *validation.ValidationError on rejection. Fields without a documented
// default are stored as pointers so that an unset field is emitted as nil by
// ToMap, which is what the endpoint layer uses to detect missing required
// fields.
package models

import (
	"encoding/json"
	"fmt"
	"maps"
	"math"
	"slices"

	"github.com/birbparty/clusterapi/sdk/validation"
)

// Model is implemented by every resource and action parameter object.
type Model interface {
	// FromMap replaces the receiver with the decoded dictionary. On error the
	// receiver is left untouched.
	FromMap(data map[string]any) error
	// ToMap returns the wire dictionary. Unset optional fields are nil.
	ToMap() map[string]any
}

// ClusterScoped is implemented by resources that live on a cluster.
type ClusterScoped interface {
	ClusterID() *int
}

// reader applies wire values to setters in a fixed order and remembers the
// first failure. Once failed, every further read is a no-op.
type reader struct {
	data map[string]any
	err  error
}

func newReader(data map[string]any) *reader {
	return &reader{data: data}
}

func (r *reader) lookup(key string) (any, bool) {
	v, ok := r.data[key]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

func (r *reader) done() error {
	return r.err
}

// field reads key, falling back to def when the key is missing or null.
func field[T any](r *reader, key string, def T, conv func(any) (T, bool), set func(T) error) {
	if r.err != nil {
		return
	}
	raw, ok := r.lookup(key)
	if !ok {
		r.err = set(def)
		return
	}
	v, ok := conv(raw)
	if !ok {
		r.err = typeError(key, raw)
		return
	}
	r.err = set(v)
}

// required reads key and fails when it is missing or null.
func required[T any](r *reader, key string, conv func(any) (T, bool), set func(T) error) {
	if r.err != nil {
		return
	}
	raw, ok := r.lookup(key)
	if !ok {
		r.err = validation.Required(key)
		return
	}
	v, ok := conv(raw)
	if !ok {
		r.err = typeError(key, raw)
		return
	}
	r.err = set(v)
}

// optional reads a nullable key; a missing key sets nil.
func optional[T any](r *reader, key string, conv func(any) (T, bool), set func(*T) error) {
	if r.err != nil {
		return
	}
	raw, ok := r.lookup(key)
	if !ok {
		r.err = set(nil)
		return
	}
	v, ok := conv(raw)
	if !ok {
		r.err = typeError(key, raw)
		return
	}
	r.err = set(&v)
}

// maybe reads key only when present. Used for write-only fields such as
// passwords that the API never echoes back.
func maybe[T any](r *reader, key string, conv func(any) (T, bool), set func(T) error) {
	if r.err != nil {
		return
	}
	raw, ok := r.lookup(key)
	if !ok {
		return
	}
	v, ok := conv(raw)
	if !ok {
		r.err = typeError(key, raw)
		return
	}
	r.err = set(v)
}

// plain adapts a setter without constraints to the reader signature.
func plain[T any](set func(T)) func(T) error {
	return func(v T) error {
		set(v)
		return nil
	}
}

func typeError(key string, raw any) error {
	return validation.NewError(key, validation.ConstraintType, raw, "unexpected type %T", raw)
}

func asString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}
		return int(n), true
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, false
		}
		return int(i), true
	}
	return 0, false
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

func asBool(v any) (bool, bool) {
	b, ok := v.(bool)
	return b, ok
}

func asStrings(v any) ([]string, bool) {
	switch items := v.(type) {
	case []string:
		return slices.Clone(items), true
	case []any:
		out := make([]string, 0, len(items))
		for _, item := range items {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	}
	return nil, false
}

func asStringMap(v any) (map[string]string, bool) {
	switch m := v.(type) {
	case map[string]string:
		return maps.Clone(m), true
	case map[string]any:
		out := make(map[string]string, len(m))
		for k, item := range m {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			out[k] = s
		}
		return out, true
	case []any:
		// an empty object may arrive encoded as an empty list
		if len(m) == 0 {
			return map[string]string{}, true
		}
	}
	return nil, false
}

func asScalar(v any) (any, bool) {
	switch v.(type) {
	case string, bool, int, int64, float64, json.Number:
		return v, true
	}
	return nil, false
}

// val dereferences p for ToMap, turning a nil pointer into an untyped nil.
func val[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

func ref[T any](v T) *T {
	return &v
}

func refCopy[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// Decode builds a fresh model of type T from data.
func Decode[T any, PT interface {
	*T
	Model
}](data map[string]any) (*T, error) {
	m := PT(new(T))
	if err := m.FromMap(data); err != nil {
		return nil, err
	}
	return (*T)(m), nil
}

// DecodeList decodes every element of a payload sequence into T.
func DecodeList[T any, PT interface {
	*T
	Model
}](items []any) ([]*T, error) {
	out := make([]*T, 0, len(items))
	for i, item := range items {
		data, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("element %d: expected object, got %T", i, item)
		}
		m, err := Decode[T, PT](data)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		out = append(out, m)
	}
	return out, nil
}
