package generator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRankFragments_SortsAscending(t *testing.T) {
	in := []Fragment{
		{Text: "flood coverage", Rank: 1},
		{Text: "interview transcript", Rank: 3},
		{Text: "volunteer profile", Rank: 2},
	}

	got := RankFragments(in)

	require.Len(t, got, 3)
	assert.Equal(t, []Fragment{
		{Text: "flood coverage", Rank: 1},
		{Text: "volunteer profile", Rank: 2},
		{Text: "interview transcript", Rank: 3},
	}, got)
	assert.Equal(t, "interview transcript", in[1].Text, "input must not be reordered")
}

func TestRankFragments_StableForEqualRanks(t *testing.T) {
	in := []Fragment{
		{Text: "b", Rank: 2},
		{Text: "a1", Rank: 1},
		{Text: "c", Rank: 3},
		{Text: "a2", Rank: 1},
		{Text: "b2", Rank: 2},
	}

	got := RankFragments(in)

	var texts []string
	for _, f := range got {
		texts = append(texts, f.Text)
	}
	assert.Equal(t, []string{"a1", "a2", "b", "b2", "c"}, texts)
}

func TestRankFragments_IsPermutation(t *testing.T) {
	in := []Fragment{
		{Text: "x", Rank: 5},
		{Text: "y", Rank: -1},
		{Text: "z", Rank: 5},
		{Text: "w", Rank: 0},
	}

	got := RankFragments(in)

	assert.ElementsMatch(t, in, got)
	for i := 1; i < len(got); i++ {
		assert.LessOrEqual(t, got[i-1].Rank, got[i].Rank)
	}
}

func TestRankFragments_ExtremeRanks(t *testing.T) {
	in := []Fragment{
		{Text: "max", Rank: math.MaxInt},
		{Text: "min", Rank: math.MinInt},
		{Text: "neg", Rank: -1},
		{Text: "one", Rank: 1},
	}

	got := RankFragments(in)

	var texts []string
	for _, f := range got {
		texts = append(texts, f.Text)
	}
	assert.Equal(t, []string{"min", "neg", "one", "max"}, texts)
}

func TestRankFragments_Empty(t *testing.T) {
	assert.Empty(t, RankFragments(nil))
}
