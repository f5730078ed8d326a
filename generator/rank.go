package generator

import (
	"cmp"
	"slices"
	"strings"
)

// RankFragments returns a copy of fragments ordered by rank, most important first.
// Fragments sharing a rank keep their input order.
func RankFragments(fragments []Fragment) []Fragment {
	ranked := slices.Clone(fragments)
	slices.SortStableFunc(ranked, func(a, b Fragment) int {
		return cmp.Compare(a.Rank, b.Rank)
	})
	return ranked
}

func wordCount(text string) int {
	return len(strings.Fields(text))
}
