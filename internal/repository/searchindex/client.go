// Package searchindex is the typed adapter between the studio document schema
// and an engine driver.
package searchindex

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/studiodex/internal/db"
	"github.com/kailas-cloud/studiodex/internal/domain"
	"github.com/kailas-cloud/studiodex/internal/domain/document"
	"github.com/kailas-cloud/studiodex/internal/domain/search/filter"
)

// DefaultScanSize is the page size used to collect IDs for shuffled searches.
const DefaultScanSize = 1000

// store is the consumer interface for engine operations (ISP).
type store interface {
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	DropIndex(ctx context.Context, name string) error
	IndexExists(ctx context.Context, name string) (bool, error)
	Promote(ctx context.Context, alias, generation string) (string, error)
	IndexDocuments(ctx context.Context, index string, docs []db.Document) (int, error)
	UpdateDocuments(ctx context.Context, index string, docs []db.Document) (int, error)
	Search(ctx context.Context, q *db.Query) (*db.SearchResult, error)
}

// Client creates and opens studio indexes on one engine.
type Client struct {
	store    store
	scanSize int
}

// New creates an index client.
func New(s store) *Client {
	return &Client{store: s, scanSize: DefaultScanSize}
}

// WithScanSize sets the page size for shuffle ID collection.
func (c *Client) WithScanSize(n int) *Client {
	if n > 0 {
		c.scanSize = n
	}
	return c
}

// Create creates a new engine index for the studio schema.
// It is not idempotent: an existing index yields db.ErrIndexExists.
func (c *Client) Create(ctx context.Context, name string) (*Index, error) {
	def, err := Definition(name)
	if err != nil {
		return nil, err
	}
	if err := c.store.CreateIndex(ctx, def); err != nil {
		return nil, fmt.Errorf("create index %s: %w", name, err)
	}
	return c.Open(name), nil
}

// Open returns a handle for an existing index or alias without touching the engine.
func (c *Client) Open(name string) *Index {
	return &Index{name: name, client: c}
}

// Exists reports whether name resolves to an index.
func (c *Client) Exists(ctx context.Context, name string) (bool, error) {
	ok, err := c.store.IndexExists(ctx, name)
	if err != nil {
		return false, fmt.Errorf("index exists %s: %w", name, err)
	}
	return ok, nil
}

// Promote makes generation reachable as alias. It returns the index that is
// no longer reachable through the alias and can be dropped ("" if none).
func (c *Client) Promote(ctx context.Context, alias, generation string) (string, error) {
	superseded, err := c.store.Promote(ctx, alias, generation)
	if err != nil {
		return "", fmt.Errorf("promote %s to %s: %w", generation, alias, err)
	}
	return superseded, nil
}

// Drop deletes an index and its documents.
func (c *Client) Drop(ctx context.Context, name string) error {
	if err := c.store.DropIndex(ctx, name); err != nil {
		return fmt.Errorf("drop index %s: %w", name, err)
	}
	return nil
}

// Definition builds the engine index definition from document.Schema.
func Definition(name string) (*db.IndexDefinition, error) {
	b := db.NewIndex(name, document.FieldID)
	for _, f := range document.Schema {
		switch {
		case f.Text:
			b.Text(f.Name)
		case f.Type == filter.TypeNumber:
			b.Numeric(f.Name)
		default:
			b.Tag(f.Name)
		}
		if f.Sortable {
			b.Sortable()
		}
	}
	def, err := b.Build()
	if err != nil {
		return nil, fmt.Errorf("index definition %s: %w", name, err)
	}
	return def, nil
}

// checkTextFields verifies that every field is a schema text field.
func checkTextFields(fields []string) error {
	for _, name := range fields {
		f, ok := document.Lookup(name)
		if !ok || !f.Text {
			return domain.NewUnknownField(name, "text")
		}
	}
	return nil
}

// checkFilter verifies the tree shape and that every filtered property is a
// filterable schema field.
func checkFilter(n filter.Node) error {
	if err := filter.Validate(n); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrInvalidQuery, err)
	}
	for _, name := range filter.Properties(n) {
		f, ok := document.Lookup(name)
		if !ok || !f.Filterable {
			return domain.NewUnknownField(name, "filterable")
		}
	}
	return nil
}
