package request

import (
	"fmt"

	"github.com/kailas-cloud/studiodex/internal/domain/search/filter"
)

// Search parameter limits.
const (
	// MaxQueryLength is the maximum allowed search query length.
	MaxQueryLength = 4096
	// DefaultPageSize is the page size used when take is not given.
	DefaultPageSize = 24
)

// ShuffleSort is the sort sentinel for seeded pseudo-random order.
const ShuffleSort = "$shuffle"

// Sort is a validated sort clause.
// For ShuffleSort the seed is set and the value type is empty.
type Sort struct {
	by        string
	ascending bool
	valueType filter.ValueType
	seed      string
}

// NewSort creates a field sort. An empty value type means the field is not
// declared sortable; the engine decides whether it can sort by it.
func NewSort(by string, ascending bool, vt filter.ValueType) (Sort, error) {
	if by == "" {
		return Sort{}, fmt.Errorf("sort field is required")
	}
	if by == ShuffleSort {
		return Sort{}, fmt.Errorf("use NewShuffle for %q", ShuffleSort)
	}
	if vt != "" && !vt.IsValid() {
		return Sort{}, fmt.Errorf("invalid sort type %q", vt)
	}
	return Sort{by: by, ascending: ascending, valueType: vt}, nil
}

// NewShuffle creates a seeded shuffle sort. The direction is always descending.
func NewShuffle(seed string) Sort {
	return Sort{by: ShuffleSort, seed: seed}
}

// By returns the sort field or ShuffleSort.
func (s Sort) By() string { return s.by }

// Ascending reports the sort direction.
func (s Sort) Ascending() bool { return s.ascending }

// Type returns the field value type (empty for shuffle and unknown fields).
func (s Sort) Type() filter.ValueType { return s.valueType }

// Seed returns the shuffle seed.
func (s Sort) Seed() string { return s.seed }

// IsShuffle reports whether s is a seeded shuffle.
func (s Sort) IsShuffle() bool { return s.by == ShuffleSort }

// Request is a validated search request against one index.
type Request struct {
	query  string
	fields []string
	root   filter.Grouping
	sort   *Sort
	skip   int
	take   int
}

// New validates search parameters.
// fields is the free-text field allow-list the query is matched against.
func New(query string, fields []string, root filter.Grouping, sort *Sort, skip, take int) (*Request, error) {
	if len(query) > MaxQueryLength {
		return nil, fmt.Errorf("query too long (max %d chars)", MaxQueryLength)
	}
	if skip < 0 {
		return nil, fmt.Errorf("skip must be non-negative, got %d", skip)
	}
	if take <= 0 {
		return nil, fmt.Errorf("take must be positive, got %d", take)
	}
	if !root.IsEmpty() && root.Type() == "" {
		return nil, fmt.Errorf("filter root has no grouping type")
	}

	return &Request{
		query:  query,
		fields: fields,
		root:   root,
		sort:   sort,
		skip:   skip,
		take:   take,
	}, nil
}

// Query returns the free-text query (may be empty).
func (r *Request) Query() string { return r.query }

// Fields returns the free-text field allow-list.
func (r *Request) Fields() []string { return r.fields }

// Root returns the compiled root grouping, empty or not.
func (r *Request) Root() filter.Grouping { return r.root }

// Filter returns the root grouping to send to the engine.
// ok is false when the root has no children and must be omitted.
func (r *Request) Filter() (filter.Grouping, bool) {
	if r.root.IsEmpty() {
		return filter.Grouping{}, false
	}
	return r.root, true
}

// Sort returns the sort clause or nil for engine default order.
func (r *Request) Sort() *Sort { return r.sort }

// Skip returns the zero-based offset.
func (r *Request) Skip() int { return r.skip }

// Take returns the page size.
func (r *Request) Take() int { return r.take }
