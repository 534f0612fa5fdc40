// Package catalog reads studios, labels and scenes from the PostgreSQL catalog.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/kailas-cloud/studiodex/internal/domain"
	"github.com/kailas-cloud/studiodex/internal/domain/studio"
)

// querier is the consumer interface over a pgx pool (ISP).
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Ping(ctx context.Context) error
}

// Repo is the read-only domain store backing the indexer.
type Repo struct {
	db querier
}

// New creates a catalog repository.
func New(q querier) *Repo {
	return &Repo{db: q}
}

// Ping checks the catalog connection.
func (r *Repo) Ping(ctx context.Context) error {
	if err := r.db.Ping(ctx); err != nil {
		return wrap(err, "ping")
	}
	return nil
}

// All returns every studio ordered by ID.
func (r *Repo) All(ctx context.Context) ([]studio.Studio, error) {
	rows, err := r.db.Query(ctx, queryAllStudios)
	if err != nil {
		return nil, wrap(err, "list studios")
	}
	out, err := pgx.CollectRows(rows, scanStudio)
	if err != nil {
		return nil, wrap(err, "scan studios")
	}
	return out, nil
}

// ByIDs returns the studios with the given IDs in request order.
// IDs that no longer exist are skipped.
func (r *Repo) ByIDs(ctx context.Context, ids []string) ([]studio.Studio, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := r.db.Query(ctx, queryStudiosByIDs, ids)
	if err != nil {
		return nil, wrap(err, "get studios")
	}
	out, err := pgx.CollectRows(rows, scanStudio)
	if err != nil {
		return nil, wrap(err, "scan studios")
	}
	return out, nil
}

// Labels returns the labels attached to s, in the studio's label order.
func (r *Repo) Labels(ctx context.Context, s studio.Studio) ([]studio.Label, error) {
	ids := s.LabelIDs()
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := r.db.Query(ctx, queryLabels, ids)
	if err != nil {
		return nil, wrap(err, "get labels of "+s.ID())
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (studio.Label, error) {
		var l studio.Label
		err := row.Scan(&l.ID, &l.Name, &l.Aliases)
		return l, err
	})
	if err != nil {
		return nil, wrap(err, "scan labels of "+s.ID())
	}
	return out, nil
}

// Scenes returns the scenes of s.
func (r *Repo) Scenes(ctx context.Context, s studio.Studio) ([]studio.Scene, error) {
	rows, err := r.db.Query(ctx, queryScenes, s.ID())
	if err != nil {
		return nil, wrap(err, "get scenes of "+s.ID())
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (studio.Scene, error) {
		var sc studio.Scene
		err := row.Scan(&sc.ID, &sc.Name, &sc.StudioID)
		return sc, err
	})
	if err != nil {
		return nil, wrap(err, "scan scenes of "+s.ID())
	}
	return out, nil
}

func scanStudio(row pgx.CollectableRow) (studio.Studio, error) {
	var (
		id, name string
		addedOn  time.Time
		bookmark *time.Time
		favorite bool
		labelIDs []string
	)
	if err := row.Scan(&id, &name, &addedOn, &bookmark, &favorite, &labelIDs); err != nil {
		return studio.Studio{}, err
	}
	return studio.Reconstruct(id, name, addedOn, labelIDs, bookmark, favorite), nil
}

func wrap(err error, action string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("catalog %s: %w", action, domain.ErrNotFound)
	}
	return fmt.Errorf("catalog %s: %w", action, err)
}
