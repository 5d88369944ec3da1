package session

import "github.com/alphikemal/web-GIS-tryon/internal/geo"

// Entry ties a selected identity to its feature. Insertion order drives row
// numbering and export order.
type Entry struct {
	ID      int
	Feature *geo.Feature
}

// SelectionStore tracks which loaded features are currently selected.
// Operations never fail; unknown ids are ignored.
type SelectionStore struct {
	order   []int
	entries map[int]*Entry
}

func NewSelectionStore() *SelectionStore {
	return &SelectionStore{entries: make(map[int]*Entry)}
}

func (s *SelectionStore) Len() int { return len(s.order) }

func (s *SelectionStore) Has(id int) bool {
	_, ok := s.entries[id]
	return ok
}

// Entries returns the current selection in insertion order.
func (s *SelectionStore) Entries() []*Entry {
	out := make([]*Entry, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.entries[id])
	}
	return out
}

// Toggle removes the feature if present, otherwise adds it. The returned
// flag reports whether the feature is selected afterwards.
func (s *SelectionStore) Toggle(f *geo.Feature) bool {
	if f == nil {
		return false
	}
	if s.Has(f.ID) {
		s.remove(f.ID)
		return false
	}
	s.add(f)
	return true
}

// Union adds any features not already present, never removing existing
// entries. Returns the entries actually added, in input order.
func (s *SelectionStore) Union(fs []*geo.Feature) []*Entry {
	var added []*Entry
	for _, f := range fs {
		if f == nil || s.Has(f.ID) {
			continue
		}
		added = append(added, s.add(f))
	}
	return added
}

// SelectAll behaves like Union over the whole collection.
func (s *SelectionStore) SelectAll(fs []*geo.Feature) []*Entry {
	return s.Union(fs)
}

// Clear removes every entry and returns them so callers can reset visual
// state.
func (s *SelectionStore) Clear() []*Entry {
	removed := s.Entries()
	s.order = s.order[:0]
	s.entries = make(map[int]*Entry)
	return removed
}

func (s *SelectionStore) add(f *geo.Feature) *Entry {
	e := &Entry{ID: f.ID, Feature: f}
	s.entries[f.ID] = e
	s.order = append(s.order, f.ID)
	return e
}

func (s *SelectionStore) remove(id int) {
	delete(s.entries, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}
