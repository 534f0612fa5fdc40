package searchindex

import (
	"context"
	"testing"

	"github.com/kailas-cloud/studiodex/internal/db"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	createIndexFn     func(ctx context.Context, def *db.IndexDefinition) error
	dropIndexFn       func(ctx context.Context, name string) error
	indexExistsFn     func(ctx context.Context, name string) (bool, error)
	promoteFn         func(ctx context.Context, alias, generation string) (string, error)
	indexDocumentsFn  func(ctx context.Context, index string, docs []db.Document) (int, error)
	updateDocumentsFn func(ctx context.Context, index string, docs []db.Document) (int, error)
	searchFn          func(ctx context.Context, q *db.Query) (*db.SearchResult, error)
}

func (m *mockStore) CreateIndex(ctx context.Context, def *db.IndexDefinition) error {
	if m.createIndexFn != nil {
		return m.createIndexFn(ctx, def)
	}
	return nil
}

func (m *mockStore) DropIndex(ctx context.Context, name string) error {
	if m.dropIndexFn != nil {
		return m.dropIndexFn(ctx, name)
	}
	return nil
}

func (m *mockStore) IndexExists(ctx context.Context, name string) (bool, error) {
	if m.indexExistsFn != nil {
		return m.indexExistsFn(ctx, name)
	}
	return false, nil
}

func (m *mockStore) Promote(ctx context.Context, alias, generation string) (string, error) {
	if m.promoteFn != nil {
		return m.promoteFn(ctx, alias, generation)
	}
	return "", nil
}

func (m *mockStore) IndexDocuments(ctx context.Context, index string, docs []db.Document) (int, error) {
	if m.indexDocumentsFn != nil {
		return m.indexDocumentsFn(ctx, index, docs)
	}
	return len(docs), nil
}

func (m *mockStore) UpdateDocuments(ctx context.Context, index string, docs []db.Document) (int, error) {
	if m.updateDocumentsFn != nil {
		return m.updateDocumentsFn(ctx, index, docs)
	}
	return len(docs), nil
}

func (m *mockStore) Search(ctx context.Context, q *db.Query) (*db.SearchResult, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, q)
	}
	return &db.SearchResult{}, nil
}

func newTestClient(t *testing.T) (*Client, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	return New(ms), ms
}
