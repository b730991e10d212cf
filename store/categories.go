package store

import (
	"clementus360/doit/types"
	"context"
	"slices"
	"strings"
)

// BuiltinCategories always exist and cannot be deleted.
var BuiltinCategories = []string{"Personal", "Work", "Urgent"}

func IsBuiltinCategory(name string) bool {
	return slices.Contains(BuiltinCategories, name)
}

// mergeCategories puts the built-ins first, followed by the remote names in
// their original order without duplicates.
func mergeCategories(remote []string) []string {
	merged := slices.Clone(BuiltinCategories)
	for _, name := range remote {
		if name == "" || slices.Contains(merged, name) {
			continue
		}
		merged = append(merged, name)
	}
	return merged
}

// Categories returns the current category names.
func (s *Store) Categories() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.categories)
}

// CreateCategory adds name to the category set. Empty names and names
// already present (exact, case-sensitive match) are ignored.
func (s *Store) CreateCategory(ctx context.Context, name string) {
	if strings.TrimSpace(name) == "" {
		return
	}

	s.mu.Lock()
	if slices.Contains(s.categories, name) {
		s.mu.Unlock()
		return
	}
	s.categories = append(s.categories, name)
	ident := s.mirrorTarget(s.identity)
	snap, ver := s.changedLocked()
	s.mu.Unlock()

	s.publish(snap, ver)

	if ident != nil {
		if err := s.remote.InsertCategory(ctx, *ident, name); err != nil {
			s.log.WithError(err).WithField("category", name).Warn("Remote category insert failed")
		}
	}
}

// DeleteCategory removes a user-created category. Built-ins and unknown
// names are ignored. Tasks still referencing the name keep it.
func (s *Store) DeleteCategory(ctx context.Context, name string) {
	if IsBuiltinCategory(name) {
		return
	}

	s.mu.Lock()
	i := slices.Index(s.categories, name)
	if i < 0 {
		s.mu.Unlock()
		return
	}
	s.categories = slices.Delete(s.categories, i, i+1)
	ident := s.mirrorTarget(s.identity)
	snap, ver := s.changedLocked()
	s.mu.Unlock()

	s.publish(snap, ver)

	if ident != nil {
		if err := s.remote.DeleteCategory(ctx, *ident, name); err != nil {
			s.log.WithError(err).WithField("category", name).Warn("Remote category delete failed")
		}
	}
}

// filterable reports whether tasks can match the category filter name.
func filterable(t types.Task, filter string) bool {
	return filter == "" || filter == AllCategories || t.Category == filter
}
