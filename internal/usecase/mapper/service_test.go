package mapper

import (
	"context"
	"errors"
	"reflect"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kailas-cloud/studiodex/internal/domain/studio"
)

// --- Mocks ---

type mockLabels struct {
	labels map[string][]studio.Label
	err    error
	calls  atomic.Int32
}

func (m *mockLabels) Labels(_ context.Context, s studio.Studio) ([]studio.Label, error) {
	m.calls.Add(1)
	if m.err != nil {
		return nil, m.err
	}
	return m.labels[s.ID()], nil
}

type mockScenes struct {
	counts map[string]int
	err    error
}

func (m *mockScenes) Scenes(_ context.Context, s studio.Studio) ([]studio.Scene, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := make([]studio.Scene, m.counts[s.ID()])
	for i := range out {
		out[i] = studio.Scene{StudioID: s.ID()}
	}
	return out, nil
}

// --- Tests ---

var added = time.Date(2023, 5, 17, 9, 30, 0, 0, time.UTC)

func acme(t *testing.T) studio.Studio {
	t.Helper()
	marked := added.Add(24 * time.Hour)
	s, err := studio.New("st_1", "Acme", added, []string{"lb_1", "lb_2"}, &marked, true)
	if err != nil {
		t.Fatalf("studio.New: %v", err)
	}
	return s
}

func newService() (*Service, *mockLabels, *mockScenes) {
	l := &mockLabels{labels: map[string][]studio.Label{
		"st_1": {
			{ID: "lb_1", Name: "Outdoor", Aliases: []string{"Outside", "Open air"}},
			{ID: "lb_2", Name: "Studio"},
		},
	}}
	sc := &mockScenes{counts: map[string]int{"st_1": 3}}
	return New(l, sc), l, sc
}

func TestMap(t *testing.T) {
	svc, _, _ := newService()
	st := acme(t)

	doc, err := svc.Map(context.Background(), st)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if doc.ID != "st_1" || doc.Name != "Acme" || !doc.Favorite {
		t.Errorf("unexpected document: %+v", doc)
	}
	if doc.AddedOn != added.UnixMilli() {
		t.Errorf("AddedOn = %d, want %d", doc.AddedOn, added.UnixMilli())
	}
	if doc.Bookmark == nil || *doc.Bookmark != added.Add(24*time.Hour).UnixMilli() {
		t.Errorf("Bookmark = %v", doc.Bookmark)
	}
	if !reflect.DeepEqual(doc.Labels, []string{"lb_1", "lb_2"}) {
		t.Errorf("Labels = %v", doc.Labels)
	}
	wantNames := []string{"Outdoor", "Outside", "Open air", "Studio"}
	if !reflect.DeepEqual(doc.LabelNames, wantNames) {
		t.Errorf("LabelNames = %v, want %v", doc.LabelNames, wantNames)
	}
	if doc.NumScenes != 3 {
		t.Errorf("NumScenes = %d, want 3", doc.NumScenes)
	}
}

func TestMap_Deterministic(t *testing.T) {
	svc, _, _ := newService()
	st := acme(t)

	a, err := svc.Map(context.Background(), st)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := svc.Map(context.Background(), st)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Errorf("mapping twice differs:\n%+v\n%+v", a, b)
	}
}

func TestMap_DoesNotMutateStudio(t *testing.T) {
	svc, _, _ := newService()
	st := acme(t)
	before := st.LabelIDs()[0]

	doc, err := svc.Map(context.Background(), st)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	doc.Labels[0] = "changed"
	if st.LabelIDs()[0] != before {
		t.Error("document labels must not alias studio label IDs")
	}
}

func TestMap_NoBookmarkNoLabels(t *testing.T) {
	svc, _, _ := newService()
	st, err := studio.New("st_2", "Bolt", added, nil, nil, false)
	if err != nil {
		t.Fatalf("studio.New: %v", err)
	}

	doc, err := svc.Map(context.Background(), st)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Bookmark != nil {
		t.Errorf("Bookmark = %v, want nil", *doc.Bookmark)
	}
	if doc.Labels == nil || len(doc.Labels) != 0 {
		t.Errorf("Labels = %#v, want empty", doc.Labels)
	}
	if doc.NumScenes != 0 {
		t.Errorf("NumScenes = %d", doc.NumScenes)
	}
}

func TestMap_LabelError(t *testing.T) {
	svc, l, _ := newService()
	boom := errors.New("catalog down")
	l.err = boom

	_, err := svc.Map(context.Background(), acme(t))
	if !errors.Is(err, boom) {
		t.Errorf("expected wrapped error, got %v", err)
	}
}

func TestMap_SceneError(t *testing.T) {
	svc, _, sc := newService()
	boom := errors.New("timeout")
	sc.err = boom

	_, err := svc.Map(context.Background(), acme(t))
	if !errors.Is(err, boom) {
		t.Errorf("expected wrapped error, got %v", err)
	}
}

func TestMapAll_StopsAtFirstError(t *testing.T) {
	svc, l, _ := newService()
	boom := errors.New("boom")
	l.err = boom

	studios := []studio.Studio{acme(t), acme(t), acme(t)}
	docs, err := svc.MapAll(context.Background(), studios)
	if !errors.Is(err, boom) {
		t.Fatalf("expected error, got %v", err)
	}
	if docs != nil {
		t.Errorf("docs = %v, want nil", docs)
	}
	if n := l.calls.Load(); n != 1 {
		t.Errorf("label lookups = %d, want 1", n)
	}
}

func TestMapAll_PreservesOrder(t *testing.T) {
	svc, _, _ := newService()
	a := acme(t)
	b, _ := studio.New("st_2", "Bolt", added, nil, nil, false)

	docs, err := svc.MapAll(context.Background(), []studio.Studio{b, a})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(docs) != 2 || docs[0].ID != "st_2" || docs[1].ID != "st_1" {
		t.Errorf("unexpected order: %v", docs)
	}
}
