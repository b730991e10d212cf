package store

import (
	"clementus360/doit/types"
	"iter"
	"strings"
)

// Matches reports whether t contains search (case-insensitive) and belongs
// to the category filter. An empty filter behaves like AllCategories.
func Matches(t types.Task, search, filter string) bool {
	if !filterable(t, filter) {
		return false
	}
	return strings.Contains(strings.ToLower(t.Text), strings.ToLower(search))
}

// Query returns the tasks matching search and filter in list order. The
// sequence is lazy and can be ranged over repeatedly; each pass reads the
// state current at the time it starts.
func (s *Store) Query(search, filter string) iter.Seq[types.Task] {
	return func(yield func(types.Task) bool) {
		for _, t := range s.Snapshot().Tasks {
			if !Matches(t, search, filter) {
				continue
			}
			if !yield(t) {
				return
			}
		}
	}
}
