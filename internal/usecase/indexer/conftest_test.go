package indexer

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/studiodex/internal/db"
	"github.com/kailas-cloud/studiodex/internal/domain/document"
	"github.com/kailas-cloud/studiodex/internal/domain/studio"
	"github.com/kailas-cloud/studiodex/internal/repository/searchindex"
)

// --- Mocks ---

type mockWriter struct {
	name   string
	sizes  []int
	report func(call, size int) int
	failAt int // 1-based call that fails; 0 never fails
	err    error
}

func (m *mockWriter) Name() string { return m.name }

func (m *mockWriter) Index(_ context.Context, docs []document.Document, _ []string) (int, error) {
	m.sizes = append(m.sizes, len(docs))
	call := len(m.sizes)
	if m.failAt == call {
		return 0, m.err
	}
	if m.report != nil {
		return m.report(call, len(docs)), nil
	}
	return len(docs), nil
}

func (m *mockWriter) Update(_ context.Context, docs []document.Document, _ []string) (int, error) {
	return len(docs), nil
}

type mockCatalog struct {
	studios []studio.Studio
	err     error
}

func (m *mockCatalog) All(context.Context) ([]studio.Studio, error) {
	return m.studios, m.err
}

func (m *mockCatalog) ByIDs(_ context.Context, ids []string) ([]studio.Studio, error) {
	if m.err != nil {
		return nil, m.err
	}
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var out []studio.Studio
	for _, s := range m.studios {
		if want[s.ID()] {
			out = append(out, s)
		}
	}
	return out, nil
}

type mockMapper struct {
	err   error
	calls int
}

func (m *mockMapper) Map(_ context.Context, s studio.Studio) (document.Document, error) {
	m.calls++
	if m.err != nil {
		return document.Document{}, m.err
	}
	return document.Document{ID: s.ID(), Name: s.Name()}, nil
}

func (m *mockMapper) MapAll(ctx context.Context, studios []studio.Studio) ([]document.Document, error) {
	out := make([]document.Document, 0, len(studios))
	for _, s := range studios {
		d, err := m.Map(ctx, s)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

// fakeEngine is an in-memory engine driver behind a real searchindex.Client.
type fakeEngine struct {
	mu       sync.Mutex
	indexes  map[string]map[string]db.Document
	aliases  map[string]string
	dropped  []string
	writeErr error
	updates  []string
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{indexes: map[string]map[string]db.Document{}, aliases: map[string]string{}}
}

func (f *fakeEngine) resolve(name string) string {
	if gen, ok := f.aliases[name]; ok {
		return gen
	}
	return name
}

func (f *fakeEngine) CreateIndex(_ context.Context, def *db.IndexDefinition) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.indexes[def.Name]; ok {
		return db.ErrIndexExists
	}
	f.indexes[def.Name] = map[string]db.Document{}
	return nil
}

func (f *fakeEngine) DropIndex(_ context.Context, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.indexes[name]; !ok {
		return db.ErrIndexNotFound
	}
	delete(f.indexes, name)
	f.dropped = append(f.dropped, name)
	return nil
}

func (f *fakeEngine) IndexExists(_ context.Context, name string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.indexes[f.resolve(name)]
	return ok, nil
}

func (f *fakeEngine) Promote(_ context.Context, alias, generation string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.indexes[generation]; !ok {
		return "", db.ErrIndexNotFound
	}
	previous := f.aliases[alias]
	f.aliases[alias] = generation
	return previous, nil
}

func (f *fakeEngine) write(index string, docs []db.Document) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.writeErr != nil {
		return 0, f.writeErr
	}
	idx, ok := f.indexes[f.resolve(index)]
	if !ok {
		return 0, db.ErrIndexNotFound
	}
	for _, d := range docs {
		idx[d.ID] = d
	}
	return len(docs), nil
}

func (f *fakeEngine) IndexDocuments(_ context.Context, index string, docs []db.Document) (int, error) {
	return f.write(index, docs)
}

func (f *fakeEngine) UpdateDocuments(_ context.Context, index string, docs []db.Document) (int, error) {
	f.mu.Lock()
	f.updates = append(f.updates, index)
	f.mu.Unlock()
	return f.write(index, docs)
}

func (f *fakeEngine) Search(context.Context, *db.Query) (*db.SearchResult, error) {
	return &db.SearchResult{}, nil
}

func (f *fakeEngine) size(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.indexes[f.resolve(name)])
}

// --- Helpers ---

func makeStudios(t *testing.T, n int) []studio.Studio {
	t.Helper()
	out := make([]studio.Studio, n)
	for i := range out {
		s, err := studio.New(fmt.Sprintf("st_%05d", i), fmt.Sprintf("Studio %d", i), time.Unix(int64(i), 0), nil, nil, false)
		if err != nil {
			t.Fatalf("studio.New: %v", err)
		}
		out[i] = s
	}
	return out
}

type fixture struct {
	svc     *Service
	engine  *fakeEngine
	catalog *mockCatalog
	mapper  *mockMapper
	handle  *Handle
}

func newFixture(t *testing.T, studios []studio.Studio) *fixture {
	t.Helper()
	f := &fixture{
		engine:  newFakeEngine(),
		catalog: &mockCatalog{studios: studios},
		mapper:  &mockMapper{},
		handle:  NewHandle(),
	}
	seq := 0
	f.svc = New(searchindex.New(f.engine), f.catalog, f.mapper, f.handle, "studios", zap.NewNop())
	f.svc.newID = func() string {
		seq++
		return fmt.Sprintf("g%d", seq)
	}
	return f
}
