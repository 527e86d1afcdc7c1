package mockapi

import (
	"cmp"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/schema"
	"github.com/samber/lo"
)

// Collection names, which double as the URL segment of each resource.
const (
	KindClusters        = "clusters"
	KindCmses           = "cmses"
	KindMailAccounts    = "mail-accounts"
	KindVirtualHosts    = "virtual-hosts"
	KindPassengerApps   = "passenger-apps"
	KindDomainRouters   = "domain-routers"
	KindTaskCollections = "task-collections"
)

// ErrInvalidQuery is returned for list queries the API would reject.
var ErrInvalidQuery = errors.New("invalid list query")

// Record is a stored object in its wire form.
type Record map[string]any

// ID returns the record id, or 0 when it has none.
func (r Record) ID() int {
	return intOf(r["id"])
}

// ClusterID returns the record cluster, or 0 when it has none.
func (r Record) ClusterID() int {
	return intOf(r["cluster_id"])
}

func intOf(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case float64:
		return int(n)
	}
	return 0
}

type collection struct {
	records map[int]Record
	nextID  int
}

// Store keeps every collection in memory. Records go in and come out as
// deep copies, so callers never share state with the store.
type Store struct {
	mu          sync.RWMutex
	collections map[string]*collection
	now         func() time.Time
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		collections: make(map[string]*collection),
		now:         time.Now,
	}
}

func (s *Store) collection(kind string) *collection {
	c, ok := s.collections[kind]
	if !ok {
		c = &collection{records: make(map[int]Record), nextID: 1}
		s.collections[kind] = c
	}
	return c
}

func (s *Store) timestamp() string {
	return s.now().UTC().Format(time.RFC3339)
}

// Insert stores rec, assigning an id unless it carries one, and stamps
// created_at and updated_at.
func (s *Store) Insert(kind string, rec Record) (Record, error) {
	stored, err := normalize(rec)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.collection(kind)

	id := stored.ID()
	if id == 0 {
		id = c.nextID
	}
	if _, exists := c.records[id]; exists {
		return nil, fmt.Errorf("%s %d already exists", kind, id)
	}
	c.nextID = max(c.nextID, id+1)

	ts := s.timestamp()
	stored["id"] = id
	if _, ok := stored["created_at"]; !ok {
		stored["created_at"] = ts
	}
	stored["updated_at"] = ts
	c.records[id] = stored

	return clone(stored), nil
}

// Get returns a copy of one record
func (s *Store) Get(kind string, id int) (Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.collections[kind]
	if !ok {
		return nil, false
	}
	rec, ok := c.records[id]
	if !ok {
		return nil, false
	}
	return clone(rec), true
}

// Replace overwrites an existing record. id, cluster_id and created_at are
// kept from the stored version.
func (s *Store) Replace(kind string, id int, rec Record) (Record, bool, error) {
	stored, err := normalize(rec)
	if err != nil {
		return nil, false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.collection(kind)
	old, ok := c.records[id]
	if !ok {
		return nil, false, nil
	}

	stored["id"] = id
	stored["cluster_id"] = old["cluster_id"]
	stored["created_at"] = old["created_at"]
	stored["updated_at"] = s.timestamp()
	c.records[id] = stored
	return clone(stored), true, nil
}

// Touch bumps updated_at of a record
func (s *Store) Touch(kind string, id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.collection(kind).records[id]
	if ok {
		rec["updated_at"] = s.timestamp()
	}
	return ok
}

// Delete removes a record, reporting whether it existed
func (s *Store) Delete(kind string, id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.collection(kind)
	if _, ok := c.records[id]; !ok {
		return false
	}
	delete(c.records, id)
	return true
}

// Count returns the number of records of kind
func (s *Store) Count(kind string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if c, ok := s.collections[kind]; ok {
		return len(c.records)
	}
	return 0
}

// ListQuery is the decoded form of the list query string.
type ListQuery struct {
	Skip   int      `schema:"skip"`
	Limit  int      `schema:"limit"`
	Filter []string `schema:"filter"`
	Sort   []string `schema:"sort"`
}

var queryDecoder = func() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	return d
}()

// ParseListQuery decodes skip, limit, filter and sort parameters.
func ParseListQuery(values url.Values) (*ListQuery, error) {
	var q ListQuery
	if err := queryDecoder.Decode(&q, values); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidQuery, err)
	}
	if q.Skip < 0 || q.Limit < 0 {
		return nil, fmt.Errorf("%w: skip and limit must not be negative", ErrInvalidQuery)
	}
	for _, f := range q.Filter {
		if field, _, ok := strings.Cut(f, ":"); !ok || field == "" {
			return nil, fmt.Errorf("%w: filter %q is not field:value", ErrInvalidQuery, f)
		}
	}
	for _, s := range q.Sort {
		field, order, ok := strings.Cut(s, ":")
		if !ok || field == "" || (order != "ASC" && order != "DESC") {
			return nil, fmt.Errorf("%w: sort %q is not field:ASC or field:DESC", ErrInvalidQuery, s)
		}
	}
	return &q, nil
}

// List returns the records of kind matching every filter, sorted, then
// windowed by skip and limit. Without a sort, records come in id order.
func (s *Store) List(kind string, q *ListQuery) []Record {
	if q == nil {
		q = &ListQuery{}
	}

	s.mu.RLock()
	var all []Record
	if c, ok := s.collections[kind]; ok {
		all = make([]Record, 0, len(c.records))
		for _, rec := range c.records {
			all = append(all, rec)
		}
	}
	s.mu.RUnlock()

	matched := lo.Filter(all, func(rec Record, _ int) bool {
		return lo.EveryBy(q.Filter, func(f string) bool {
			field, value, _ := strings.Cut(f, ":")
			return fmt.Sprint(rec[field]) == value
		})
	})

	slices.SortFunc(matched, func(a, b Record) int {
		for _, s := range q.Sort {
			field, order, _ := strings.Cut(s, ":")
			c := compareValues(a[field], b[field])
			if order == "DESC" {
				c = -c
			}
			if c != 0 {
				return c
			}
		}
		return cmp.Compare(a.ID(), b.ID())
	})

	window := lo.Slice(matched, q.Skip, len(matched))
	if q.Limit > 0 && len(window) > q.Limit {
		window = window[:q.Limit]
	}
	return lo.Map(window, func(rec Record, _ int) Record { return clone(rec) })
}

func compareValues(a, b any) int {
	fa, aNum := number(a)
	fb, bNum := number(b)
	if aNum && bNum {
		return cmp.Compare(fa, fb)
	}
	return cmp.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

// normalize round-trips rec through JSON so that stored values have the
// same types a decoded request body has.
func normalize(rec Record) (Record, error) {
	raw, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("record is not JSON: %w", err)
	}
	var out Record
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = Record{}
	}
	if id := out.ID(); id != 0 {
		out["id"] = id
	}
	if cid := out.ClusterID(); cid != 0 {
		out["cluster_id"] = cid
	}
	return out, nil
}

func clone(rec Record) Record {
	out, _ := normalize(rec)
	return out
}
