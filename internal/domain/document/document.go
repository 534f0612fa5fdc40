package document

import (
	"github.com/kailas-cloud/studiodex/internal/domain/search/filter"
)

// Search document field names.
const (
	FieldID         = "_id"
	FieldAddedOn    = "addedOn"
	FieldName       = "name"
	FieldLabels     = "labels"
	FieldLabelNames = "labelNames"
	FieldBookmark   = "bookmark"
	FieldFavorite   = "favorite"
	FieldNumScenes  = "numScenes"
)

// Document is the flat search projection of a studio.
// Timestamps are unix milliseconds; Bookmark is nil when the studio is not bookmarked.
type Document struct {
	ID         string   `json:"_id"`
	AddedOn    int64    `json:"addedOn"`
	Name       string   `json:"name"`
	Labels     []string `json:"labels"`
	LabelNames []string `json:"labelNames"`
	Bookmark   *int64   `json:"bookmark"`
	Favorite   bool     `json:"favorite"`
	NumScenes  int      `json:"numScenes"`
}

// Fields returns the document as a field map keyed by schema name, without the ID.
// Values are int64, string, []string, bool or nil.
func (d *Document) Fields() map[string]any {
	var bookmark any
	if d.Bookmark != nil {
		bookmark = *d.Bookmark
	}
	return map[string]any{
		FieldAddedOn:    d.AddedOn,
		FieldName:       d.Name,
		FieldLabels:     nonNil(d.Labels),
		FieldLabelNames: nonNil(d.LabelNames),
		FieldBookmark:   bookmark,
		FieldFavorite:   d.Favorite,
		FieldNumScenes:  int64(d.NumScenes),
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// FieldSpec declares one schema field and its roles.
type FieldSpec struct {
	Name       string
	Type       filter.ValueType
	Text       bool
	Filterable bool
	Sortable   bool
}

// Schema is the static studio document schema, in document order (ID excluded).
var Schema = []FieldSpec{
	{Name: FieldAddedOn, Type: filter.TypeNumber, Filterable: true, Sortable: true},
	{Name: FieldName, Type: filter.TypeString, Text: true, Sortable: true},
	{Name: FieldLabels, Type: filter.TypeArray, Filterable: true},
	{Name: FieldLabelNames, Type: filter.TypeArray, Text: true},
	{Name: FieldBookmark, Type: filter.TypeNumber, Filterable: true, Sortable: true},
	{Name: FieldFavorite, Type: filter.TypeBoolean, Filterable: true},
	{Name: FieldNumScenes, Type: filter.TypeNumber, Filterable: true, Sortable: true},
}

// TextFields is the free-text field list every index and update call sends.
var TextFields = FieldsWhere(func(f FieldSpec) bool { return f.Text })

// Lookup returns the schema entry for name.
func Lookup(name string) (FieldSpec, bool) {
	for _, f := range Schema {
		if f.Name == name {
			return f, true
		}
	}
	return FieldSpec{}, false
}

// SortType returns the value type of a sortable field, or "" when the field is not sortable.
func SortType(name string) filter.ValueType {
	f, ok := Lookup(name)
	if !ok || !f.Sortable {
		return ""
	}
	return f.Type
}

// FieldsWhere returns the names of schema fields matching pred, in schema order.
func FieldsWhere(pred func(FieldSpec) bool) []string {
	var out []string
	for _, f := range Schema {
		if pred(f) {
			out = append(out, f.Name)
		}
	}
	return out
}
