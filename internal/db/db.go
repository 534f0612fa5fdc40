package db

import (
	"context"
	"time"
)

// Store is the search engine facade combining all sub-interfaces.
//
//nolint:interfacebloat // consumers use the narrow sub-interfaces
type Store interface {
	Pinger
	IndexManager
	DocumentWriter
	Searcher
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks engine connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// IndexManager provides index lifecycle operations.
type IndexManager interface {
	CreateIndex(ctx context.Context, def *IndexDefinition) error
	// DropIndex removes an index together with its documents.
	DropIndex(ctx context.Context, name string) error
	IndexExists(ctx context.Context, name string) (bool, error)
	// Promote points alias at generation and returns the name of the index
	// that is no longer reachable through the alias ("" if none).
	Promote(ctx context.Context, alias, generation string) (string, error)
}

// DocumentWriter writes documents into an index or alias.
// Both methods return the number of documents the engine accepted.
type DocumentWriter interface {
	// IndexDocuments writes documents with replace semantics.
	IndexDocuments(ctx context.Context, index string, docs []Document) (int, error)
	// UpdateDocuments writes documents with the engine's update semantics.
	UpdateDocuments(ctx context.Context, index string, docs []Document) (int, error)
}

// Searcher runs a single search against an index or alias.
type Searcher interface {
	Search(ctx context.Context, q *Query) (*SearchResult, error)
}

// Document is one engine document: an ID plus field values.
// Values are int64, float64, string, []string, bool or nil (absent).
type Document struct {
	ID     string
	Fields map[string]any
}
