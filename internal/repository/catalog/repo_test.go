package catalog

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/kailas-cloud/studiodex/internal/domain"
	"github.com/kailas-cloud/studiodex/internal/domain/studio"
)

func TestAll(t *testing.T) {
	added := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	marked := added.Add(time.Hour)
	rows := &fakeRows{rows: [][]any{
		{"st_1", "Acme", added, &marked, true, []string{"lb_1", "lb_2"}},
		{"st_2", "Bolt", added, (*time.Time)(nil), false, []string{}},
	}}
	m := &mockDB{queryFn: func(_ context.Context, sql string, args ...any) (pgx.Rows, error) {
		if sql != queryAllStudios {
			t.Errorf("unexpected query: %s", sql)
		}
		if len(args) != 0 {
			t.Errorf("unexpected args: %v", args)
		}
		return rows, nil
	}}

	got, err := New(m).All(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].ID() != "st_1" || got[0].Name() != "Acme" || !got[0].Favorite() {
		t.Errorf("unexpected first studio: %+v", got[0])
	}
	if got[0].Bookmark() == nil || !got[0].Bookmark().Equal(marked) {
		t.Errorf("Bookmark() = %v, want %v", got[0].Bookmark(), marked)
	}
	if !reflect.DeepEqual(got[0].LabelIDs(), []string{"lb_1", "lb_2"}) {
		t.Errorf("LabelIDs() = %v", got[0].LabelIDs())
	}
	if got[1].Bookmark() != nil {
		t.Errorf("second studio should not be bookmarked")
	}
	if !rows.closed {
		t.Error("rows must be closed")
	}
}

func TestAll_QueryError(t *testing.T) {
	boom := errors.New("connection reset")
	m := &mockDB{queryFn: func(context.Context, string, ...any) (pgx.Rows, error) { return nil, boom }}

	_, err := New(m).All(context.Background())
	if !errors.Is(err, boom) {
		t.Errorf("expected wrapped error, got %v", err)
	}
}

func TestAll_RowsError(t *testing.T) {
	boom := errors.New("stream broke")
	m := &mockDB{queryFn: func(context.Context, string, ...any) (pgx.Rows, error) {
		return &fakeRows{err: boom}, nil
	}}

	_, err := New(m).All(context.Background())
	if !errors.Is(err, boom) {
		t.Errorf("expected wrapped error, got %v", err)
	}
}

func TestByIDs(t *testing.T) {
	var gotArgs []any
	m := &mockDB{queryFn: func(_ context.Context, sql string, args ...any) (pgx.Rows, error) {
		if sql != queryStudiosByIDs {
			t.Errorf("unexpected query: %s", sql)
		}
		gotArgs = args
		return &fakeRows{rows: [][]any{
			{"st_2", "Bolt", time.Unix(0, 0), (*time.Time)(nil), false, []string{}},
		}}, nil
	}}

	got, err := New(m).ByIDs(context.Background(), []string{"st_2", "st_gone"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].ID() != "st_2" {
		t.Errorf("unexpected studios: %v", got)
	}
	if !reflect.DeepEqual(gotArgs, []any{[]string{"st_2", "st_gone"}}) {
		t.Errorf("args = %v", gotArgs)
	}
}

func TestByIDs_Empty(t *testing.T) {
	m := &mockDB{queryFn: func(context.Context, string, ...any) (pgx.Rows, error) {
		t.Fatal("query must not run for empty IDs")
		return nil, nil
	}}

	got, err := New(m).ByIDs(context.Background(), nil)
	if err != nil || len(got) != 0 {
		t.Errorf("got %v, %v", got, err)
	}
}

func TestLabels(t *testing.T) {
	m := &mockDB{queryFn: func(_ context.Context, sql string, args ...any) (pgx.Rows, error) {
		if sql != queryLabels {
			t.Errorf("unexpected query: %s", sql)
		}
		return &fakeRows{rows: [][]any{
			{"lb_1", "Outdoor", []string{"Outside"}},
			{"lb_2", "Studio", []string{}},
		}}, nil
	}}
	s := studio.Reconstruct("st_1", "Acme", time.Now(), []string{"lb_1", "lb_2"}, nil, false)

	got, err := New(m).Labels(context.Background(), s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []studio.Label{
		{ID: "lb_1", Name: "Outdoor", Aliases: []string{"Outside"}},
		{ID: "lb_2", Name: "Studio", Aliases: []string{}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Labels() = %+v, want %+v", got, want)
	}
}

func TestLabels_NoLabelsSkipsQuery(t *testing.T) {
	m := &mockDB{queryFn: func(context.Context, string, ...any) (pgx.Rows, error) {
		t.Fatal("query must not run without label IDs")
		return nil, nil
	}}
	s := studio.Reconstruct("st_1", "Acme", time.Now(), nil, nil, false)

	got, err := New(m).Labels(context.Background(), s)
	if err != nil || got != nil {
		t.Errorf("got %v, %v", got, err)
	}
}

func TestScenes(t *testing.T) {
	m := &mockDB{queryFn: func(_ context.Context, sql string, args ...any) (pgx.Rows, error) {
		if len(args) != 1 || args[0] != "st_1" {
			t.Errorf("args = %v", args)
		}
		return &fakeRows{rows: [][]any{
			{"sc_1", "Opening", "st_1"},
			{"sc_2", "Finale", "st_1"},
		}}, nil
	}}
	s := studio.Reconstruct("st_1", "Acme", time.Now(), nil, nil, false)

	got, err := New(m).Scenes(context.Background(), s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[1].Name != "Finale" {
		t.Errorf("Scenes() = %+v", got)
	}
}

func TestWrap_NoRows(t *testing.T) {
	err := wrap(pgx.ErrNoRows, "get studio")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestPing(t *testing.T) {
	boom := errors.New("down")
	m := &mockDB{pingFn: func(context.Context) error { return boom }}
	if err := New(m).Ping(context.Background()); !errors.Is(err, boom) {
		t.Errorf("expected wrapped error, got %v", err)
	}
}
