package generator

import (
	"fmt"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var detailLineRe = regexp.MustCompile(`(?m)^Detail (\d+) \(Rank (-?\d+)\): `)

func TestBuildStoryPrompt_Structure(t *testing.T) {
	ranked := []Fragment{
		{Text: "flood coverage", Rank: 1},
		{Text: "volunteer profile", Rank: 2},
		{Text: "interview transcript", Rank: 3},
	}

	req := BuildStoryPrompt(ranked, StyleArticle, 300)
	text := req.Instruction

	assert.Equal(t, DefaultMaxTokens, req.MaxTokens)
	assert.True(t, strings.HasPrefix(text, rankPreamble))

	directive, ok := StyleDirective(StyleArticle)
	require.True(t, ok)
	iPre := strings.Index(text, "more important")
	iDir := strings.Index(text, directive)
	iLen := strings.Index(text, "Keep the Article under 300 words.")
	iDet := strings.Index(text, "Detail 1 (Rank 1): flood coverage")
	assert.True(t, iPre >= 0 && iPre < iDir && iDir < iLen && iLen < iDet, "sections out of order:\n%s", text)

	matches := detailLineRe.FindAllStringSubmatch(text, -1)
	require.Len(t, matches, 3)
	for i, m := range matches {
		assert.Equal(t, fmt.Sprint(i+1), m[1])
		assert.Equal(t, fmt.Sprint(ranked[i].Rank), m[2])
	}
	assert.Contains(t, text, "Detail 2 (Rank 2): volunteer profile\n")
	assert.Contains(t, text, "Detail 3 (Rank 3): interview transcript\n")
}

func TestBuildStoryPrompt_StyleDirectives(t *testing.T) {
	ranked := []Fragment{{Text: "only detail", Rank: 1}}

	tests := []struct {
		style Style
		want  string
	}{
		{StyleArticle, "lead paragraph, followed by a well-organized body"},
		{StyleBlog, "opinionated"},
		{StyleSocial, "relevant hashtags"},
	}
	for _, tt := range tests {
		t.Run(string(tt.style), func(t *testing.T) {
			text := BuildStoryPrompt(ranked, tt.style, 120).Instruction
			assert.Contains(t, text, tt.want)
			assert.Contains(t, text, fmt.Sprintf("Keep the %s under 120 words.", tt.style))
			for other, d := range styleDirectives {
				if other != tt.style {
					assert.NotContains(t, text, d)
				}
			}
		})
	}
}

func TestBuildStoryPrompt_UnknownStyleOmitsDirective(t *testing.T) {
	ranked := []Fragment{
		{Text: "first", Rank: 1},
		{Text: "second", Rank: 4},
	}

	text := BuildStoryPrompt(ranked, Style("Podcast"), 50).Instruction

	for _, d := range styleDirectives {
		assert.NotContains(t, text, d)
	}
	assert.True(t, strings.HasPrefix(text, rankPreamble))
	assert.Contains(t, text, "Keep the Podcast under 50 words.")
	assert.Len(t, detailLineRe.FindAllString(text, -1), 2)
}

func TestBuildRevisionPrompt(t *testing.T) {
	narrative := "# Riverbend floods\n\nThe river rose overnight."

	req := BuildRevisionPrompt(narrative, "make it shorter")

	assert.Equal(t, DefaultMaxTokens, req.MaxTokens)
	i := strings.Index(req.Instruction, narrative)
	require.GreaterOrEqual(t, i, 0)
	rest := req.Instruction[i+len(narrative):]
	assert.True(t, strings.HasSuffix(rest, "Update the story so that make it shorter"), rest)
}

func TestBuildSummaryPrompt(t *testing.T) {
	req := BuildSummaryPrompt("a long transcript", 42)

	assert.Contains(t, req.Instruction, "under 42 words")
	assert.Contains(t, req.Instruction, "notable quotes")
	assert.True(t, strings.HasSuffix(req.Instruction, "a long transcript"))
}
