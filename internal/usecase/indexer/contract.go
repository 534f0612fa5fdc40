package indexer

import (
	"context"

	"github.com/kailas-cloud/studiodex/internal/domain/document"
	"github.com/kailas-cloud/studiodex/internal/domain/studio"
	"github.com/kailas-cloud/studiodex/internal/repository/searchindex"
)

// Writer writes search documents into one index.
type Writer interface {
	Name() string
	Index(ctx context.Context, docs []document.Document, fields []string) (int, error)
	Update(ctx context.Context, docs []document.Document, fields []string) (int, error)
}

// IndexClient manages index generations on the engine.
type IndexClient interface {
	Create(ctx context.Context, name string) (*searchindex.Index, error)
	Open(name string) *searchindex.Index
	Exists(ctx context.Context, name string) (bool, error)
	Promote(ctx context.Context, alias, generation string) (string, error)
	Drop(ctx context.Context, name string) error
}

// Catalog loads studios from the domain store.
type Catalog interface {
	All(ctx context.Context) ([]studio.Studio, error)
	ByIDs(ctx context.Context, ids []string) ([]studio.Studio, error)
}

// Mapper projects studios into search documents.
type Mapper interface {
	Map(ctx context.Context, s studio.Studio) (document.Document, error)
	MapAll(ctx context.Context, studios []studio.Studio) ([]document.Document, error)
}
