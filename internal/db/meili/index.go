package meili

import (
	"context"

	"github.com/meilisearch/meilisearch-go"

	"github.com/kailas-cloud/studiodex/internal/db"
)

// CreateIndex creates the index and applies searchable, filterable and sortable attributes.
func (s *Store) CreateIndex(ctx context.Context, def *db.IndexDefinition) error {
	if err := def.Validate(); err != nil {
		return err
	}

	info, err := s.client.CreateIndexWithContext(ctx, &meilisearch.IndexConfig{
		Uid:        def.Name,
		PrimaryKey: def.PrimaryKey,
	})
	if err != nil {
		return &db.Error{Op: db.OpMeiliCreateIndex, Err: err}
	}
	if _, err := s.wait(ctx, db.OpMeiliCreateIndex, info); err != nil {
		return err
	}

	return s.applySettings(ctx, def)
}

func (s *Store) applySettings(ctx context.Context, def *db.IndexDefinition) error {
	idx := s.client.Index(def.Name)
	st := settingsFor(def)

	steps := []func() (*meilisearch.TaskInfo, error){
		func() (*meilisearch.TaskInfo, error) {
			return idx.UpdateSearchableAttributesWithContext(ctx, &st.searchable)
		},
		func() (*meilisearch.TaskInfo, error) {
			return idx.UpdateFilterableAttributesWithContext(ctx, &st.filterable)
		},
		func() (*meilisearch.TaskInfo, error) {
			return idx.UpdateSortableAttributesWithContext(ctx, &st.sortable)
		},
		func() (*meilisearch.TaskInfo, error) {
			return idx.UpdatePaginationWithContext(ctx, &meilisearch.Pagination{MaxTotalHits: s.maxTotalHits})
		},
	}
	for _, step := range steps {
		info, err := step()
		if err != nil {
			return &db.Error{Op: db.OpMeiliSettings, Err: err}
		}
		if _, err := s.wait(ctx, db.OpMeiliSettings, info); err != nil {
			return err
		}
	}
	return nil
}

type indexSettings struct {
	searchable []string
	filterable []any
	sortable   []string
}

// settingsFor maps an index definition onto Meilisearch attribute settings.
// Text fields are searchable; tag and numeric fields are filterable.
func settingsFor(def *db.IndexDefinition) indexSettings {
	st := indexSettings{
		searchable: append([]string{}, def.FieldNames(db.IndexFieldText)...),
		filterable: []any{},
		sortable:   append([]string{}, def.SortableNames()...),
	}
	for _, t := range []db.IndexFieldType{db.IndexFieldTag, db.IndexFieldNumeric} {
		for _, name := range def.FieldNames(t) {
			st.filterable = append(st.filterable, name)
		}
	}
	return st
}

// DropIndex deletes the index and its documents.
func (s *Store) DropIndex(ctx context.Context, name string) error {
	info, err := s.client.DeleteIndexWithContext(ctx, name)
	if err != nil {
		if isNotFound(err) {
			return db.ErrIndexNotFound
		}
		return &db.Error{Op: db.OpMeiliDeleteIndex, Err: err}
	}
	_, err = s.wait(ctx, db.OpMeiliDeleteIndex, info)
	return err
}

// IndexExists reports whether an index with this uid exists.
func (s *Store) IndexExists(ctx context.Context, name string) (bool, error) {
	if _, err := s.client.GetIndexWithContext(ctx, name); err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, &db.Error{Op: db.OpMeiliGetIndex, Err: err}
	}
	return true, nil
}

// Promote swaps the contents of alias and generation. Meilisearch has no
// aliases, so the alias is a real index; after the swap the generation index
// holds the superseded documents and is returned for dropping.
func (s *Store) Promote(ctx context.Context, alias, generation string) (string, error) {
	exists, err := s.IndexExists(ctx, alias)
	if err != nil {
		return "", err
	}
	if !exists {
		info, err := s.client.CreateIndexWithContext(ctx, &meilisearch.IndexConfig{
			Uid:        alias,
			PrimaryKey: s.primaryKey,
		})
		if err != nil {
			return "", &db.Error{Op: db.OpMeiliCreateIndex, Err: err}
		}
		if _, err := s.wait(ctx, db.OpMeiliCreateIndex, info); err != nil {
			return "", err
		}
	}

	info, err := s.client.SwapIndexesWithContext(ctx, []*meilisearch.SwapIndexesParams{
		{Indexes: []string{alias, generation}},
	})
	if err != nil {
		return "", &db.Error{Op: db.OpMeiliSwap, Err: err}
	}
	if _, err := s.wait(ctx, db.OpMeiliSwap, info); err != nil {
		return "", err
	}
	return generation, nil
}
