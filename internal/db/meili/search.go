package meili

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/meilisearch/meilisearch-go"

	"github.com/kailas-cloud/studiodex/internal/db"
)

// Search runs one search request against an index.
func (s *Store) Search(ctx context.Context, q *db.Query) (*db.SearchResult, error) {
	if q.IndexName == "" {
		return nil, fmt.Errorf("index name is required")
	}

	resp, err := s.client.Index(q.IndexName).SearchWithContext(ctx, q.Text, s.buildRequest(q))
	if err != nil {
		if isNotFound(err) {
			return nil, db.ErrIndexNotFound
		}
		return nil, &db.Error{Op: db.OpMeiliSearch, Err: err}
	}

	entries, err := s.parseHits(resp.Hits)
	if err != nil {
		return nil, err
	}
	return &db.SearchResult{Total: int(resp.EstimatedTotalHits), Entries: entries}, nil
}

func (s *Store) buildRequest(q *db.Query) *meilisearch.SearchRequest {
	req := &meilisearch.SearchRequest{
		Offset:               int64(q.Offset),
		Limit:                int64(q.Limit),
		AttributesToRetrieve: []string{s.primaryKey},
		ShowRankingScore:     true,
	}
	if q.Text != "" && len(q.TextFields) > 0 {
		req.AttributesToSearchOn = q.TextFields
	}
	if q.Filter != nil {
		if f := buildFilter(q.Filter); f != "" {
			req.Filter = f
		}
	}
	if q.SortBy != "" {
		req.Sort = []string{buildSort(q.SortBy, q.SortAsc)}
	}
	return req
}

func buildSort(field string, asc bool) string {
	if asc {
		return field + ":asc"
	}
	return field + ":desc"
}

// parseHits extracts the primary key and ranking score of each hit.
func (s *Store) parseHits(hits any) ([]db.SearchEntry, error) {
	raw, err := json.Marshal(hits)
	if err != nil {
		return nil, fmt.Errorf("encode hits: %w", err)
	}
	var decoded []map[string]json.RawMessage
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("decode hits: %w", err)
	}

	entries := make([]db.SearchEntry, 0, len(decoded))
	for _, h := range decoded {
		var id string
		if err := json.Unmarshal(h[s.primaryKey], &id); err != nil || id == "" {
			continue
		}
		var score float64
		if rs, ok := h["_rankingScore"]; ok {
			_ = json.Unmarshal(rs, &score)
		}
		entries = append(entries, db.SearchEntry{Key: id, Score: score})
	}
	return entries, nil
}
