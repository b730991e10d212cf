package store_test

import (
	"clementus360/doit/store"
	"clementus360/doit/types"
	"context"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func texts(seq []types.Task) []string {
	out := make([]string, len(seq))
	for i, t := range seq {
		out[i] = t.Text
	}
	return out
}

func TestQuery_CaseInsensitiveSubstring(t *testing.T) {
	s := newGuestStore(t, []types.Task{{Text: "Buy milk"}, {Text: "Call mom"}})

	got := slices.Collect(s.Query("b", store.AllCategories))

	assert.Equal(t, []string{"Buy milk"}, texts(got))
}

func TestQuery_CategoryFilter(t *testing.T) {
	s := newGuestStore(t, []types.Task{
		{Text: "Report", Category: "Work"},
		{Text: "Gym", Category: "Personal"},
		{Text: "Review", Category: "Work"},
		{Text: "Stale", Category: "Deleted"},
	})

	assert.Equal(t, []string{"Report", "Review"}, texts(slices.Collect(s.Query("", "Work"))))
	assert.Equal(t, []string{"Review"}, texts(slices.Collect(s.Query("VIEW", "Work"))))
	assert.Empty(t, slices.Collect(s.Query("", "work")), "category match is exact")
	assert.Len(t, slices.Collect(s.Query("", store.AllCategories)), 4)
	assert.Len(t, slices.Collect(s.Query("", "")), 4)
}

func TestQuery_IsRestartableAndLive(t *testing.T) {
	s := newGuestStore(t, []types.Task{{Text: "alpha"}})
	seq := s.Query("a", store.AllCategories)

	assert.Len(t, slices.Collect(seq), 1)

	s.Add(context.Background(), "beta", "")

	assert.Len(t, slices.Collect(seq), 2)
}

func TestQuery_DoesNotMutate(t *testing.T) {
	s := newGuestStore(t, []types.Task{{Text: "B"}, {Text: "A"}})
	before := s.Snapshot()

	for range s.Query("a", "Personal") {
		break
	}

	assert.Equal(t, before, s.Snapshot())
}
