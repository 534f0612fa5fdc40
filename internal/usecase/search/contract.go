package search

import (
	"context"

	"github.com/kailas-cloud/studiodex/internal/domain/search/request"
	"github.com/kailas-cloud/studiodex/internal/domain/search/result"
)

// Searcher runs one search against the live index.
type Searcher interface {
	Search(ctx context.Context, req *request.Request) (*result.Page, error)
}

// Readiness reports whether an index generation is live.
type Readiness interface {
	Ready() bool
}
