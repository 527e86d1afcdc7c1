package sdk

import (
	"fmt"
	"net/url"
	"slices"

	"github.com/gorilla/schema"

	"github.com/birbparty/clusterapi/sdk/validation"
)

// SortOrder is the direction of a list sort.
type SortOrder string

const (
	SortAscending  SortOrder = "ASC"
	SortDescending SortOrder = "DESC"
)

var queryEncoder = schema.NewEncoder()

// listQuery is the wire shape of a list filter.
type listQuery struct {
	Skip   int      `schema:"skip,omitempty"`
	Limit  int      `schema:"limit,omitempty"`
	Filter []string `schema:"filter,omitempty"`
	Sort   []string `schema:"sort,omitempty"`
}

// ListFilter narrows and orders list operations. The zero value and a nil
// *ListFilter both mean "no constraints".
//
// Example:
//
//	filter := sdk.NewListFilter()
//	_ = filter.AddFilter("virtual_host_id", "12")
//	_ = filter.AddSort("id", sdk.SortDescending)
//	resp, err := client.Cmses().List(ctx, filter)
type ListFilter struct {
	skip    int
	limit   int
	filters []string
	sort    []string
}

// NewListFilter returns an empty filter.
func NewListFilter() *ListFilter {
	return &ListFilter{}
}

// SetSkip sets the number of leading results to skip.
func (f *ListFilter) SetSkip(skip int) error {
	if skip < 0 {
		return validation.NewError("skip", validation.ConstraintType, skip, "must not be negative")
	}
	f.skip = skip
	return nil
}

// SetLimit caps the number of results. Zero leaves the server default.
func (f *ListFilter) SetLimit(limit int) error {
	if limit < 0 {
		return validation.NewError("limit", validation.ConstraintType, limit, "must not be negative")
	}
	f.limit = limit
	return nil
}

// AddFilter restricts results to those whose field equals value.
func (f *ListFilter) AddFilter(field, value string) error {
	if err := validation.Value("filter", field).Pattern(`[a-z0-9_]+`).Validate(); err != nil {
		return err
	}
	f.filters = append(f.filters, fmt.Sprintf("%s:%s", field, value))
	return nil
}

// AddSort orders results by field. Sorts apply in the order they are added.
func (f *ListFilter) AddSort(field string, order SortOrder) error {
	if err := validation.Value("sort", field).Pattern(`[a-z0-9_]+`).Validate(); err != nil {
		return err
	}
	if err := validation.Value("order", string(order)).ValueIn(string(SortAscending), string(SortDescending)).Validate(); err != nil {
		return err
	}
	f.sort = append(f.sort, fmt.Sprintf("%s:%s", field, order))
	return nil
}

// Values returns the filter as query values.
func (f *ListFilter) Values() url.Values {
	values := url.Values{}
	if f == nil {
		return values
	}
	q := listQuery{
		Skip:   f.skip,
		Limit:  f.limit,
		Filter: slices.Clone(f.filters),
		Sort:   slices.Clone(f.sort),
	}
	if err := queryEncoder.Encode(q, values); err != nil {
		// listQuery only holds encodable kinds.
		panic(err)
	}
	return values
}

// Query returns the canonical query string: keys sorted, repeated keys in
// insertion order, and the empty string when no constraint is set.
func (f *ListFilter) Query() string {
	return f.Values().Encode()
}
