// Package query holds the structured query options produced by query extraction.
package query

// Sort directions.
const (
	Asc  = "asc"
	Desc = "desc"
)

// Options is an already validated, structured search query.
type Options struct {
	Query    string
	Favorite bool
	Bookmark bool
	// Include and Exclude are label IDs, in caller order.
	Include []string
	Exclude []string
	SortBy  string
	SortDir string
	// Skip and Take override Page when set.
	Skip *int
	Take *int
	Page int
}

// Ascending reports whether the sort direction is ascending.
func (o Options) Ascending() bool { return o.SortDir == Asc }
