// Package indexer builds and refreshes the studio search index.
package indexer

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kailas-cloud/studiodex/internal/domain"
	"github.com/kailas-cloud/studiodex/internal/domain/document"
	"github.com/kailas-cloud/studiodex/internal/domain/studio"
	"github.com/kailas-cloud/studiodex/internal/metrics"
)

// DefaultSliceSize is the maximum number of documents sent in one index call.
const DefaultSliceSize = 5000

// Service drives full builds and incremental updates.
type Service struct {
	client    IndexClient
	catalog   Catalog
	mapper    Mapper
	handle    *Handle
	alias     string
	sliceSize int
	logger    *zap.Logger
	newID     func() string
}

// New creates an indexer for the index reachable as alias.
func New(client IndexClient, catalog Catalog, mapper Mapper, handle *Handle, alias string, logger *zap.Logger) *Service {
	return &Service{
		client:    client,
		catalog:   catalog,
		mapper:    mapper,
		handle:    handle,
		alias:     alias,
		sliceSize: DefaultSliceSize,
		logger:    logger,
		newID:     uuid.NewString,
	}
}

// WithSliceSize overrides the slice size.
func (s *Service) WithSliceSize(n int) *Service {
	if n > 0 {
		s.sliceSize = n
	}
	return s
}

// Alias returns the name readers query.
func (s *Service) Alias() string { return s.alias }

// Attach marks the alias live if a previous build already promoted it.
func (s *Service) Attach(ctx context.Context) (bool, error) {
	ok, err := s.client.Exists(ctx, s.alias)
	if err != nil {
		return false, fmt.Errorf("attach %s: %w", s.alias, err)
	}
	if ok {
		s.handle.set(s.alias)
	}
	return ok, nil
}

// IndexAll maps studios and writes them to w in slices of at most sliceSize documents.
// Slices are flushed sequentially; the first error aborts the run and already
// flushed slices stay in w. Returns the sum of the counts the engine reported.
func (s *Service) IndexAll(ctx context.Context, w Writer, studios []studio.Studio) (int, error) {
	total := 0
	docs := make([]document.Document, 0, min(len(studios), s.sliceSize))

	for i := range studios {
		doc, err := s.mapper.Map(ctx, studios[i])
		if err != nil {
			return total, fmt.Errorf("map studio: %w", err)
		}
		docs = append(docs, doc)

		if len(docs) == s.sliceSize {
			n, err := s.flush(ctx, w, docs)
			total += n
			if err != nil {
				return total, err
			}
			docs = docs[:0]
		}
	}
	if len(docs) > 0 {
		n, err := s.flush(ctx, w, docs)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

func (s *Service) flush(ctx context.Context, w Writer, docs []document.Document) (int, error) {
	s.logger.Info(fmt.Sprintf("Indexing %d items...", len(docs)), zap.String("index", w.Name()))
	start := time.Now()

	n, err := w.Index(ctx, docs, document.TextFields)
	elapsed := time.Since(start)
	metrics.IndexSliceDuration.WithLabelValues(s.alias).Observe(elapsed.Seconds())
	if err != nil {
		metrics.IndexSlicesTotal.WithLabelValues(s.alias, "error").Inc()
		return n, fmt.Errorf("index slice of %d: %w", len(docs), err)
	}
	metrics.IndexSlicesTotal.WithLabelValues(s.alias, "ok").Inc()
	metrics.IndexDocumentsTotal.WithLabelValues(s.alias, "index").Add(float64(n))

	s.logger.Info("slice indexed",
		zap.String("index", w.Name()),
		zap.Int("documents", n),
		zap.Duration("duration", elapsed),
	)
	return n, nil
}

// Build creates a fresh generation, fills it from the catalog and promotes it under
// the alias. On failure the new generation is dropped and the live index is untouched.
func (s *Service) Build(ctx context.Context) (int, error) {
	start := time.Now()
	generation := s.alias + "-" + s.newID()
	log := s.logger.With(zap.String("index", s.alias), zap.String("generation", generation))
	log.Info("Building studio index...")

	n, err := s.build(ctx, generation, log)
	if err != nil {
		metrics.IndexBuildsTotal.WithLabelValues(s.alias, "error").Inc()
		return 0, err
	}

	elapsed := time.Since(start)
	metrics.IndexBuildsTotal.WithLabelValues(s.alias, "ok").Inc()
	metrics.IndexBuildDuration.WithLabelValues(s.alias).Observe(elapsed.Seconds())
	metrics.IndexSize.WithLabelValues(s.alias).Set(float64(n))

	log.Info(fmt.Sprintf("Build done in %.3fs.", elapsed.Seconds()))
	log.Info(fmt.Sprintf("Index size: %d items", n))
	return n, nil
}

func (s *Service) build(ctx context.Context, generation string, log *zap.Logger) (int, error) {
	idx, err := s.client.Create(ctx, generation)
	if err != nil {
		return 0, fmt.Errorf("create generation: %w", err)
	}

	studios, err := s.catalog.All(ctx)
	if err != nil {
		s.discard(ctx, generation, log)
		return 0, fmt.Errorf("load studios: %w", err)
	}

	n, err := s.IndexAll(ctx, idx, studios)
	if err != nil {
		s.discard(ctx, generation, log)
		return 0, fmt.Errorf("index studios: %w", err)
	}

	superseded, err := s.client.Promote(ctx, s.alias, generation)
	if err != nil {
		s.discard(ctx, generation, log)
		return 0, fmt.Errorf("promote generation: %w", err)
	}
	s.handle.set(s.alias)

	if superseded != "" {
		if err := s.client.Drop(ctx, superseded); err != nil {
			log.Warn("drop superseded index failed", zap.String("superseded", superseded), zap.Error(err))
		}
	}
	return n, nil
}

// discard drops a generation that never went live. Failures are logged, the build error wins.
func (s *Service) discard(ctx context.Context, generation string, log *zap.Logger) {
	if err := s.client.Drop(context.WithoutCancel(ctx), generation); err != nil {
		log.Warn("drop failed generation", zap.Error(err))
	}
}

// Update maps studios and refreshes them in the live index with a single update call.
func (s *Service) Update(ctx context.Context, studios []studio.Studio) (int, error) {
	if !s.handle.Ready() {
		return 0, domain.ErrIndexNotBuilt
	}
	if len(studios) == 0 {
		return 0, nil
	}
	docs, err := s.mapper.MapAll(ctx, studios)
	if err != nil {
		return 0, fmt.Errorf("map studios: %w", err)
	}

	name, _ := s.handle.Name()
	n, err := s.client.Open(name).Update(ctx, docs, document.TextFields)
	if err != nil {
		return n, fmt.Errorf("update studios: %w", err)
	}
	metrics.IndexDocumentsTotal.WithLabelValues(s.alias, "update").Add(float64(n))
	s.logger.Info("studios updated", zap.String("index", name), zap.Int("documents", n))
	return n, nil
}

// UpdateByID loads studios from the catalog and refreshes them.
// IDs missing from the catalog are skipped.
func (s *Service) UpdateByID(ctx context.Context, ids []string) (int, error) {
	studios, err := s.catalog.ByIDs(ctx, ids)
	if err != nil {
		return 0, fmt.Errorf("load studios: %w", err)
	}
	if skipped := len(ids) - len(studios); skipped > 0 {
		s.logger.Debug("studios not in catalog", zap.Int("skipped", skipped))
	}
	return s.Update(ctx, studios)
}
