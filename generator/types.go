package generator

import "time"

// Style selects the shape of the narrative.
type Style string

const (
	StyleArticle Style = "Article"
	StyleBlog    Style = "Blog"
	StyleSocial  Style = "Social"
)

// Known reports whether s has a dedicated directive.
func (s Style) Known() bool {
	switch s {
	case StyleArticle, StyleBlog, StyleSocial:
		return true
	}
	return false
}

// Fragment is one piece of source material. Rank 1 is the most important.
type Fragment struct {
	Text string `json:"text" yaml:"text"`
	Rank int    `json:"rank" yaml:"rank"`
}

// StoryRequest describes one generation call.
type StoryRequest struct {
	Fragments []Fragment `json:"fragments"`
	Style     Style      `json:"style"`
	MaxWords  int        `json:"max_words"`
}

// GenerationRequest is what gets sent to the text generation service.
type GenerationRequest struct {
	Instruction string
	MaxTokens   int
}

// CompressionDecision is the planner's verdict for a single ranked fragment.
type CompressionDecision struct {
	Compress    bool
	TargetWords int
}

// Draft is the narrative returned by the service plus derived metadata.
type Draft struct {
	Title     string `json:"title"`
	Digest    string `json:"digest"`
	Markdown  string `json:"markdown"`
	WordCount int    `json:"word_count"`
}

// Turn records one generation or revision in a session.
type Turn struct {
	Instruction string    `json:"instruction"`
	Draft       Draft     `json:"draft"`
	Summary     string    `json:"summary"`
	CreatedAt   time.Time `json:"created_at"`
}
