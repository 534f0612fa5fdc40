// Package search compiles structured query options into index searches.
package search

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/studiodex/internal/domain"
	"github.com/kailas-cloud/studiodex/internal/domain/search/query"
	"github.com/kailas-cloud/studiodex/internal/domain/search/result"
	"github.com/kailas-cloud/studiodex/internal/metrics"
)

// DefaultSeed is the shuffle seed used when the caller gives none.
const DefaultSeed = "default"

// Service searches the live studio index.
type Service struct {
	index       Searcher
	ready       Readiness
	defaultSeed string
	logger      *zap.Logger
}

// New creates a search service.
func New(index Searcher, ready Readiness, logger *zap.Logger) *Service {
	return &Service{index: index, ready: ready, defaultSeed: DefaultSeed, logger: logger}
}

// WithDefaultSeed overrides the shuffle seed used for empty seeds.
func (s *Service) WithDefaultSeed(seed string) *Service {
	if seed != "" {
		s.defaultSeed = seed
	}
	return s
}

// Search compiles opts and issues exactly one search. The page is returned unchanged.
func (s *Service) Search(ctx context.Context, opts query.Options, seed string) (*result.Page, error) {
	if !s.ready.Ready() {
		return nil, domain.ErrIndexNotBuilt
	}
	if seed == "" {
		seed = s.defaultSeed
	}

	req, err := Compile(opts, seed)
	if err != nil {
		return nil, err
	}

	s.logger.Debug(fmt.Sprintf("Searching studios for '%s'...", opts.Query),
		zap.Int("skip", req.Skip()),
		zap.Int("take", req.Take()),
		zap.String("sort", opts.SortBy),
	)

	sortLabel := metrics.SortLabel(opts.SortBy)
	start := time.Now()
	page, err := s.index.Search(ctx, req)
	metrics.SearchRequestDuration.WithLabelValues(sortLabel).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.SearchRequestsTotal.WithLabelValues(sortLabel, "error").Inc()
		return nil, fmt.Errorf("search studios: %w", err)
	}
	metrics.SearchRequestsTotal.WithLabelValues(sortLabel, "ok").Inc()
	metrics.SearchHitsTotal.Add(float64(len(page.Hits())))
	return page, nil
}
