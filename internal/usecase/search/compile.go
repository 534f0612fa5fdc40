package search

import (
	"fmt"

	"github.com/kailas-cloud/studiodex/internal/domain"
	"github.com/kailas-cloud/studiodex/internal/domain/document"
	"github.com/kailas-cloud/studiodex/internal/domain/search/filter"
	"github.com/kailas-cloud/studiodex/internal/domain/search/query"
	"github.com/kailas-cloud/studiodex/internal/domain/search/request"
)

// Compile translates query options into a search request.
// Filter rules apply independently under one root AND:
//   - Favorite adds favorite = true
//   - Bookmark adds bookmark > 0
//   - Include adds a nested AND of label membership conditions
//   - Exclude adds one NOT grouping per label
//
// The free-text query travels beside the filter, matched against document.TextFields.
func Compile(opts query.Options, seed string) (*request.Request, error) {
	skip, take := window(opts)
	req, err := request.New(opts.Query, document.TextFields, compileFilter(opts), compileSort(opts, seed), skip, take)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidQuery, err)
	}
	return req, nil
}

func compileFilter(opts query.Options) filter.Grouping {
	var children []filter.Node

	if opts.Favorite {
		children = append(children, filter.Equals(document.FieldFavorite, true))
	}
	if opts.Bookmark {
		children = append(children, filter.GreaterThan(document.FieldBookmark, 0))
	}
	if len(opts.Include) > 0 {
		include := make([]filter.Node, len(opts.Include))
		for i, id := range opts.Include {
			include[i] = filter.Contains(document.FieldLabels, id)
		}
		children = append(children, filter.AllOf(include...))
	}
	for _, id := range opts.Exclude {
		children = append(children, filter.NoneOf(filter.Contains(document.FieldLabels, id)))
	}

	return filter.AllOf(children...)
}

// compileSort returns nil when no sort field is given (engine default order).
// Fields outside the schema keep an empty type and are left to the engine.
func compileSort(opts query.Options, seed string) *request.Sort {
	switch opts.SortBy {
	case "":
		return nil
	case request.ShuffleSort:
		s := request.NewShuffle(seed)
		return &s
	}
	s, err := request.NewSort(opts.SortBy, opts.Ascending(), document.SortType(opts.SortBy))
	if err != nil {
		return nil
	}
	return &s
}

// window resolves pagination: explicit skip/take win, otherwise page * DefaultPageSize.
// A take below 1 falls back to DefaultPageSize and a negative offset starts at 0.
func window(opts query.Options) (skip, take int) {
	take = request.DefaultPageSize
	if opts.Take != nil && *opts.Take > 0 {
		take = *opts.Take
	}
	if opts.Skip != nil {
		skip = *opts.Skip
	} else {
		skip = opts.Page * request.DefaultPageSize
	}
	return max(skip, 0), take
}
