package meili

import (
	"context"
	"fmt"

	"github.com/meilisearch/meilisearch-go"

	"github.com/kailas-cloud/studiodex/internal/db"
)

// IndexDocuments adds or replaces documents and waits for the task.
func (s *Store) IndexDocuments(ctx context.Context, index string, docs []db.Document) (int, error) {
	if len(docs) == 0 {
		return 0, nil
	}
	payload, err := s.toPayload(docs)
	if err != nil {
		return 0, err
	}

	info, err := s.client.Index(index).AddDocumentsWithContext(ctx, payload, s.documentOptions())
	if err != nil {
		return 0, &db.Error{Op: db.OpMeiliAddDocs, Err: err}
	}
	task, err := s.wait(ctx, db.OpMeiliAddDocs, info)
	if err != nil {
		return 0, err
	}
	return indexedCount(task, len(docs)), nil
}

// UpdateDocuments merges documents into existing ones (partial update) and waits for the task.
func (s *Store) UpdateDocuments(ctx context.Context, index string, docs []db.Document) (int, error) {
	if len(docs) == 0 {
		return 0, nil
	}
	payload, err := s.toPayload(docs)
	if err != nil {
		return 0, err
	}

	info, err := s.client.Index(index).UpdateDocumentsWithContext(ctx, payload, s.documentOptions())
	if err != nil {
		return 0, &db.Error{Op: db.OpMeiliUpdateDocs, Err: err}
	}
	task, err := s.wait(ctx, db.OpMeiliUpdateDocs, info)
	if err != nil {
		return 0, err
	}
	return indexedCount(task, len(docs)), nil
}

func (s *Store) documentOptions() *meilisearch.DocumentOptions {
	pk := s.primaryKey
	return &meilisearch.DocumentOptions{PrimaryKey: &pk}
}

// toPayload flattens documents into JSON objects keyed by the primary key.
// Nil values are kept so null fields overwrite stale ones.
func (s *Store) toPayload(docs []db.Document) ([]map[string]any, error) {
	out := make([]map[string]any, len(docs))
	for i := range docs {
		if docs[i].ID == "" {
			return nil, fmt.Errorf("document %d: ID is required", i)
		}
		m := make(map[string]any, len(docs[i].Fields)+1)
		for k, v := range docs[i].Fields {
			m[k] = v
		}
		m[s.primaryKey] = docs[i].ID
		out[i] = m
	}
	return out, nil
}

// indexedCount prefers the count the engine reports over the submitted count.
func indexedCount(task *meilisearch.Task, submitted int) int {
	if task != nil && task.Details.IndexedDocuments > 0 {
		return int(task.Details.IndexedDocuments)
	}
	return submitted
}
