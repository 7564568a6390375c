package lifecycle

import (
	"slices"
	"sync"
)

// Selection is the set of resource ids targeted by bulk actions, kept in
// the order they were selected.
type Selection struct {
	mu  sync.Mutex
	ids []string
}

// NewSelection creates an empty selection.
func NewSelection() *Selection {
	return &Selection{}
}

// Toggle adds or removes id and reports whether it is now selected.
func (s *Selection) Toggle(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := slices.Index(s.ids, id); i >= 0 {
		s.ids = slices.Delete(s.ids, i, i+1)
		return false
	}
	s.ids = append(s.ids, id)
	return true
}

// Set replaces the selection, dropping duplicates.
func (s *Selection) Set(ids []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ids = s.ids[:0]
	for _, id := range ids {
		if id != "" && !slices.Contains(s.ids, id) {
			s.ids = append(s.ids, id)
		}
	}
}

// Retain drops ids that are not in keep.
func (s *Selection) Retain(keep []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ids = slices.DeleteFunc(s.ids, func(id string) bool { return !slices.Contains(keep, id) })
}

// Clear empties the selection.
func (s *Selection) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ids = nil
}

// IDs returns a copy of the selected ids.
func (s *Selection) IDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]string{}, s.ids...)
}

// Len returns the number of selected ids.
func (s *Selection) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.ids)
}
