package generator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func words(n int) string {
	return strings.TrimSpace(strings.Repeat("word ", n))
}

func TestPlanCompression_Errors(t *testing.T) {
	_, err := PlanCompression(nil, 300)
	assert.ErrorIs(t, err, ErrNoFragments)

	_, err = PlanCompression([]Fragment{{Text: "a", Rank: 1}}, 0)
	assert.ErrorIs(t, err, ErrInvalidMaxWords)

	_, err = PlanCompression([]Fragment{{Text: "a", Rank: 1}}, -5)
	assert.ErrorIs(t, err, ErrInvalidMaxWords)
}

func TestPlanCompression_FloodExample(t *testing.T) {
	ranked := RankFragments([]Fragment{
		{Text: words(250), Rank: 1},
		{Text: words(400), Rank: 3},
		{Text: words(300), Rank: 2},
	})

	plan, err := PlanCompression(ranked, 300)
	require.NoError(t, err)
	require.Len(t, plan, 3)

	// floor(3/2) = 1, so positions 2 and 3 are candidates; both exceed 100 words.
	assert.False(t, plan[0].Compress)
	assert.Equal(t, CompressionDecision{Compress: true, TargetWords: 100}, plan[1])
	assert.Equal(t, CompressionDecision{Compress: true, TargetWords: 90}, plan[2])
}

func TestPlanCompression_SoleCandidateWhenOthersShort(t *testing.T) {
	ranked := RankFragments([]Fragment{
		{Text: words(250), Rank: 1},
		{Text: words(140), Rank: 3},
		{Text: words(80), Rank: 2},
	})

	plan, err := PlanCompression(ranked, 300)
	require.NoError(t, err)

	assert.False(t, plan[0].Compress)
	assert.False(t, plan[1].Compress, "80 words is under the 100 word budget")
	assert.True(t, plan[2].Compress)
}

func TestPlanCompression_FirstHalfNeverCompressed(t *testing.T) {
	for n := 1; n <= 9; n++ {
		ranked := make([]Fragment, n)
		for i := range ranked {
			ranked[i] = Fragment{Text: words(1000), Rank: i + 1}
		}

		plan, err := PlanCompression(ranked, 10)
		require.NoError(t, err)

		for i, d := range plan {
			candidate := i+1 > n/2
			assert.Equal(t, candidate, d.Compress, "n=%d i=%d", n, i)
		}
	}
}

func TestPlanCompression_ShortFragmentsPassThrough(t *testing.T) {
	ranked := []Fragment{
		{Text: words(10), Rank: 1},
		{Text: words(10), Rank: 2},
		{Text: words(50), Rank: 3},
		{Text: words(49), Rank: 4},
	}

	plan, err := PlanCompression(ranked, 200)
	require.NoError(t, err)

	for i, d := range plan {
		assert.False(t, d.Compress, "index %d", i)
	}
}

func TestPlanCompression_TargetClampedToOneWord(t *testing.T) {
	ranked := make([]Fragment, 10)
	for i := range ranked {
		ranked[i] = Fragment{Text: words(200), Rank: i + 1}
	}

	plan, err := PlanCompression(ranked, 100)
	require.NoError(t, err)

	// budget 10: index 5 -> 10-50+10 = -30, index 9 -> -70.
	for i := 5; i < 10; i++ {
		require.True(t, plan[i].Compress)
		assert.Equal(t, 1, plan[i].TargetWords, "index %d", i)
	}
}

func TestPlanCompression_FractionalBudget(t *testing.T) {
	ranked := []Fragment{
		{Text: words(1), Rank: 1},
		{Text: words(1), Rank: 2},
		{Text: words(34), Rank: 3},
	}

	plan, err := PlanCompression(ranked, 100)
	require.NoError(t, err)

	// 34 > 33.33; target = int(33.33 - 20 + 10) = 23.
	assert.Equal(t, CompressionDecision{Compress: true, TargetWords: 23}, plan[2])
}
