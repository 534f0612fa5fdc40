// Package mapper projects catalog studios into search documents.
package mapper

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/studiodex/internal/domain/document"
	"github.com/kailas-cloud/studiodex/internal/domain/studio"
)

// Service builds search documents from studios.
type Service struct {
	labels LabelReader
	scenes SceneReader
}

// New creates a mapper service.
func New(labels LabelReader, scenes SceneReader) *Service {
	return &Service{labels: labels, scenes: scenes}
}

// Map resolves the labels and scenes of s concurrently and returns its search document.
// s is not modified. Lookup errors are returned as is, wrapped with the studio ID.
func (s *Service) Map(ctx context.Context, st studio.Studio) (document.Document, error) {
	var (
		labels []studio.Label
		scenes []studio.Scene
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		labels, err = s.labels.Labels(gctx, st)
		if err != nil {
			return fmt.Errorf("labels of studio %s: %w", st.ID(), err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		scenes, err = s.scenes.Scenes(gctx, st)
		if err != nil {
			return fmt.Errorf("scenes of studio %s: %w", st.ID(), err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return document.Document{}, err
	}
	return build(st, labels, len(scenes)), nil
}

// MapAll maps studios in order and stops at the first error.
func (s *Service) MapAll(ctx context.Context, studios []studio.Studio) ([]document.Document, error) {
	docs := make([]document.Document, 0, len(studios))
	for i := range studios {
		doc, err := s.Map(ctx, studios[i])
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func build(st studio.Studio, labels []studio.Label, numScenes int) document.Document {
	doc := document.Document{
		ID:         st.ID(),
		AddedOn:    st.AddedOn().UnixMilli(),
		Name:       st.Name(),
		Labels:     make([]string, 0, len(labels)),
		LabelNames: make([]string, 0, len(labels)),
		Favorite:   st.Favorite(),
		NumScenes:  numScenes,
	}
	for _, l := range labels {
		doc.Labels = append(doc.Labels, l.ID)
		doc.LabelNames = append(doc.LabelNames, l.Names()...)
	}
	if b := st.Bookmark(); b != nil {
		ms := b.UnixMilli()
		doc.Bookmark = &ms
	}
	return doc
}
