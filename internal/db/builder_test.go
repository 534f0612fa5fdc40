package db

import (
	"reflect"
	"strings"
	"testing"
)

func TestIndexBuilder_Simple(t *testing.T) {
	idx := NewIndex("studios-1", "_id").
		Prefix("studiodex:studios-1:").
		Text("name").Sortable().
		Tag("labels").
		Numeric("addedOn").Sortable().
		MustBuild()

	if err := idx.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if idx.Name != "studios-1" {
		t.Errorf("name = %q", idx.Name)
	}
	if idx.PrimaryKey != "_id" {
		t.Errorf("primary key = %q", idx.PrimaryKey)
	}
	if idx.StorageType != StorageHash {
		t.Errorf("storage = %q, want HASH", idx.StorageType)
	}
	if len(idx.Fields) != 3 {
		t.Fatalf("fields count = %d, want 3", len(idx.Fields))
	}
	if f := idx.Fields[1]; f.Type != IndexFieldTag || f.TagSeparator != DefaultTagSeparator || !f.TagCaseSensitive {
		t.Errorf("field[1] = %+v, want case-sensitive TAG with default separator", f)
	}
	if !reflect.DeepEqual(idx.SortableNames(), []string{"name", "addedOn"}) {
		t.Errorf("SortableNames() = %v", idx.SortableNames())
	}
	if !reflect.DeepEqual(idx.FieldNames(IndexFieldText), []string{"name"}) {
		t.Errorf("FieldNames(text) = %v", idx.FieldNames(IndexFieldText))
	}
}

func TestIndexBuilder_TagWithOpts(t *testing.T) {
	idx := NewIndex("idx", "_id").TagWithOpts("labels", "|", false).MustBuild()
	f := idx.Fields[0]
	if f.TagSeparator != "|" || f.TagCaseSensitive {
		t.Errorf("field = %+v", f)
	}
}

func TestIndexBuilder_SortableWithoutField(t *testing.T) {
	b := NewIndex("idx", "_id").Sortable().Numeric("n")
	idx := b.MustBuild()
	if idx.Fields[0].Sortable {
		t.Error("Sortable() before any field must be a no-op")
	}
}

func TestIndexBuilder_BuildCopies(t *testing.T) {
	b := NewIndex("idx", "_id").Numeric("a")
	first := b.MustBuild()
	b.Numeric("b")
	if len(first.Fields) != 1 {
		t.Errorf("built definition changed after builder reuse: %d fields", len(first.Fields))
	}
}

func TestIndexDefinition_Validate(t *testing.T) {
	tests := []struct {
		name    string
		def     IndexDefinition
		wantErr string
	}{
		{"no name", IndexDefinition{PrimaryKey: "_id", Fields: []IndexField{{Name: "a"}}}, "name is required"},
		{"bad name", IndexDefinition{Name: "a b", PrimaryKey: "_id", Fields: []IndexField{{Name: "a"}}}, "invalid characters"},
		{"no primary key", IndexDefinition{Name: "x", Fields: []IndexField{{Name: "a"}}}, "primary key"},
		{"no fields", IndexDefinition{Name: "x", PrimaryKey: "_id"}, "at least one field"},
		{"empty field", IndexDefinition{Name: "x", PrimaryKey: "_id", Fields: []IndexField{{}}}, "field name is required"},
		{"pk collision", IndexDefinition{Name: "x", PrimaryKey: "_id", Fields: []IndexField{{Name: "_id"}}}, "collides"},
		{"duplicate", IndexDefinition{Name: "x", PrimaryKey: "_id", Fields: []IndexField{{Name: "a"}, {Name: "a"}}}, "duplicate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.def.Validate()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want substring %q", err, tt.wantErr)
			}
		})
	}
}

func TestIndexBuilder_MustBuildPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	NewIndex("", "_id").MustBuild()
}

func TestIndexDefinition_String(t *testing.T) {
	idx := NewIndex("s", "_id").Prefix("p:").Text("name").Sortable().Tag("labels").MustBuild()
	want := "FT.CREATE s ON HASH PREFIX p: SCHEMA name TEXT SORTABLE labels TAG"
	if got := idx.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestIsValidIdentifier(t *testing.T) {
	valid := []string{"studios", "studios-0f8c", "a:b_c"}
	for _, s := range valid {
		if !IsValidIdentifier(s) {
			t.Errorf("IsValidIdentifier(%q) = false", s)
		}
	}
	invalid := []string{"", "a b", "a*", "ü"}
	for _, s := range invalid {
		if IsValidIdentifier(s) {
			t.Errorf("IsValidIdentifier(%q) = true", s)
		}
	}
}
