package studio

import (
	"fmt"
	"time"
)

// Studio is a catalog studio entity (read-only to the search module).
type Studio struct {
	id       string
	name     string
	addedOn  time.Time
	labelIDs []string
	bookmark *time.Time
	favorite bool
}

// New validates and creates a Studio.
func New(id, name string, addedOn time.Time, labelIDs []string, bookmark *time.Time, favorite bool) (Studio, error) {
	if id == "" {
		return Studio{}, fmt.Errorf("studio ID is required")
	}
	if name == "" {
		return Studio{}, fmt.Errorf("studio %q: name is required", id)
	}
	return Reconstruct(id, name, addedOn, labelIDs, bookmark, favorite), nil
}

// Reconstruct creates a Studio without validation (storage hydration).
func Reconstruct(id, name string, addedOn time.Time, labelIDs []string, bookmark *time.Time, favorite bool) Studio {
	ids := make([]string, len(labelIDs))
	copy(ids, labelIDs)
	return Studio{id: id, name: name, addedOn: addedOn, labelIDs: ids, bookmark: bookmark, favorite: favorite}
}

// ID returns the studio identifier.
func (s *Studio) ID() string { return s.id }

// Name returns the display name.
func (s *Studio) Name() string { return s.name }

// AddedOn returns the creation timestamp.
func (s *Studio) AddedOn() time.Time { return s.addedOn }

// LabelIDs returns the IDs of labels attached to the studio.
func (s *Studio) LabelIDs() []string { return s.labelIDs }

// Bookmark returns the bookmark timestamp, nil when not bookmarked.
func (s *Studio) Bookmark() *time.Time { return s.bookmark }

// Favorite reports the favorite flag.
func (s *Studio) Favorite() bool { return s.favorite }

// Label is a catalog label with optional aliases.
type Label struct {
	ID      string
	Name    string
	Aliases []string
}

// Names returns the label name followed by its aliases.
func (l Label) Names() []string {
	out := make([]string, 0, 1+len(l.Aliases))
	out = append(out, l.Name)
	return append(out, l.Aliases...)
}

// Scene is the part of a catalog scene the index cares about.
type Scene struct {
	ID       string
	Name     string
	StudioID string
}
