package db

import "github.com/kailas-cloud/studiodex/internal/domain/search/filter"

// Query is the input for a single engine search.
type Query struct {
	IndexName string
	// Text is matched against TextFields; empty matches every document.
	Text       string
	TextFields []string
	// Filter is nil when no filter applies.
	Filter filter.Node
	// SortBy is empty for engine default order.
	SortBy    string
	SortAsc   bool
	Offset    int
	Limit     int
}

// SearchResult is the output of a search operation.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// SearchEntry is a single document hit from a search.
// Key is the document ID, not the storage key.
type SearchEntry struct {
	Key   string
	Score float64
}
