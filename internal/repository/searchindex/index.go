package searchindex

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/studiodex/internal/db"
	"github.com/kailas-cloud/studiodex/internal/domain/document"
	"github.com/kailas-cloud/studiodex/internal/domain/search/request"
	"github.com/kailas-cloud/studiodex/internal/domain/search/result"
	"github.com/kailas-cloud/studiodex/internal/shuffle"
)

// Index is a handle for one named index or alias.
type Index struct {
	name   string
	client *Client
}

// Name returns the index or alias name.
func (i *Index) Name() string { return i.name }

// Index writes documents with replace semantics and returns the count the engine reports.
// fields is the free-text field list and must be a subset of the schema text fields.
func (i *Index) Index(ctx context.Context, docs []document.Document, fields []string) (int, error) {
	if err := checkTextFields(fields); err != nil {
		return 0, err
	}
	n, err := i.client.store.IndexDocuments(ctx, i.name, toDB(docs))
	if err != nil {
		return n, fmt.Errorf("index %d documents into %s: %w", len(docs), i.name, err)
	}
	return n, nil
}

// Update writes documents with the engine's update semantics.
func (i *Index) Update(ctx context.Context, docs []document.Document, fields []string) (int, error) {
	if err := checkTextFields(fields); err != nil {
		return 0, err
	}
	n, err := i.client.store.UpdateDocuments(ctx, i.name, toDB(docs))
	if err != nil {
		return n, fmt.Errorf("update %d documents in %s: %w", len(docs), i.name, err)
	}
	return n, nil
}

// Search runs one search. Shuffled requests collect every matching ID and
// order them locally by seed, since no engine sorts by a seeded hash.
func (i *Index) Search(ctx context.Context, req *request.Request) (*result.Page, error) {
	if err := checkTextFields(req.Fields()); err != nil {
		return nil, err
	}
	q := &db.Query{
		IndexName:  i.name,
		Text:       req.Query(),
		TextFields: req.Fields(),
		Offset:     req.Skip(),
		Limit:      req.Take(),
	}
	if root, ok := req.Filter(); ok {
		if err := checkFilter(root); err != nil {
			return nil, err
		}
		q.Filter = root
	}

	if s := req.Sort(); s != nil {
		if s.IsShuffle() {
			return i.searchShuffled(ctx, q, s.Seed())
		}
		q.SortBy = s.By()
		q.SortAsc = s.Ascending()
	}

	sr, err := i.client.store.Search(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", i.name, err)
	}
	return toPage(sr), nil
}

func (i *Index) searchShuffled(ctx context.Context, q *db.Query, seed string) (*result.Page, error) {
	skip, take := q.Offset, q.Limit
	scan := *q
	scan.Limit = i.client.scanSize

	var ids []string
	total := 0
	for offset := 0; ; offset += scan.Limit {
		scan.Offset = offset
		sr, err := i.client.store.Search(ctx, &scan)
		if err != nil {
			return nil, fmt.Errorf("shuffle scan %s at %d: %w", i.name, offset, err)
		}
		if offset == 0 {
			total = sr.Total
		}
		for _, e := range sr.Entries {
			ids = append(ids, e.Key)
		}
		if len(sr.Entries) < scan.Limit || len(ids) >= sr.Total {
			break
		}
	}

	shuffle.Sort(seed, ids)
	window := shuffle.Window(ids, skip, take)
	hits := make([]result.Hit, len(window))
	for j, id := range window {
		hits[j] = result.NewHit(id, 0)
	}
	if total < len(ids) {
		total = len(ids)
	}
	return result.NewPage(total, hits), nil
}

func toDB(docs []document.Document) []db.Document {
	out := make([]db.Document, len(docs))
	for j := range docs {
		out[j] = db.Document{ID: docs[j].ID, Fields: docs[j].Fields()}
	}
	return out
}

func toPage(sr *db.SearchResult) *result.Page {
	if sr == nil {
		return result.NewPage(0, nil)
	}
	hits := make([]result.Hit, 0, len(sr.Entries))
	for _, e := range sr.Entries {
		hits = append(hits, result.NewHit(e.Key, e.Score))
	}
	return result.NewPage(sr.Total, hits)
}
