package db

import (
	"errors"
	"strconv"
)

// StorageType defines the document storage backend for FT indexes.
type StorageType string

const (
	// StorageHash stores documents as Redis hashes.
	StorageHash StorageType = "HASH"
)

// IndexFieldType enumerates supported index field types.
type IndexFieldType int

const (
	// IndexFieldNumeric is a numeric field (filterable by range).
	IndexFieldNumeric IndexFieldType = iota
	// IndexFieldTag is an exact-match field (filterable by membership).
	IndexFieldTag
	// IndexFieldText is a full-text field.
	IndexFieldText
)

// DefaultTagSeparator joins multi-valued tag fields in hash storage.
const DefaultTagSeparator = ","

// IndexField describes a single field in an index schema.
type IndexField struct {
	Name     string
	Type     IndexFieldType
	Sortable bool

	// TAG options
	TagSeparator     string
	TagCaseSensitive bool
}

// IndexDefinition is a complete index definition.
type IndexDefinition struct {
	Name        string
	PrimaryKey  string
	StorageType StorageType
	Prefixes    []string
	Fields      []IndexField
}

// Validate checks that the index definition is well-formed.
func (idx *IndexDefinition) Validate() error {
	if idx.Name == "" {
		return errors.New("index name is required")
	}
	if !IsValidIdentifier(idx.Name) {
		return errors.New("index name contains invalid characters")
	}
	if idx.PrimaryKey == "" {
		return errors.New("primary key is required")
	}
	if len(idx.Fields) == 0 {
		return errors.New("at least one field is required")
	}

	seen := make(map[string]bool)
	for i := range idx.Fields {
		f := &idx.Fields[i]
		if f.Name == "" {
			return errors.New("field name is required at index " + strconv.Itoa(i))
		}
		if f.Name == idx.PrimaryKey {
			return errors.New("field " + f.Name + " collides with the primary key")
		}
		if seen[f.Name] {
			return errors.New("duplicate field name: " + f.Name)
		}
		seen[f.Name] = true
	}

	return nil
}

// FieldNames returns the names of fields of type t, in definition order.
func (idx *IndexDefinition) FieldNames(t IndexFieldType) []string {
	var out []string
	for i := range idx.Fields {
		if idx.Fields[i].Type == t {
			out = append(out, idx.Fields[i].Name)
		}
	}
	return out
}

// SortableNames returns the names of sortable fields, in definition order.
func (idx *IndexDefinition) SortableNames() []string {
	var out []string
	for i := range idx.Fields {
		if idx.Fields[i].Sortable {
			out = append(out, idx.Fields[i].Name)
		}
	}
	return out
}

// IsValidIdentifier returns true if s matches [a-zA-Z0-9_:-]+.
func IsValidIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		isAlpha := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		isDigit := r >= '0' && r <= '9'
		isSpecial := r == '_' || r == ':' || r == '-'
		if !isAlpha && !isDigit && !isSpecial {
			return false
		}
	}
	return true
}
