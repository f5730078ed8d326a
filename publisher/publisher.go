package publisher

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"go.uber.org/zap"

	"story_assembler/generator"
	"story_assembler/store"
)

var (
	ErrMissingUser  = errors.New("user id is required")
	ErrMissingTitle = errors.New("title is required when the narrative has no heading")
)

// StoryStore is the persistence the publisher writes to.
type StoryStore interface {
	Save(ctx context.Context, story *store.Story) error
}

// PublishParams describes the narrative to be saved.
type PublishParams struct {
	UserID   string
	Title    string
	Style    generator.Style
	MaxWords int
	Draft    generator.Draft
	// InlineStyles rewrites headings as styled paragraphs for pasting into editors that drop <h*> tags.
	InlineStyles bool
}

// Publisher renders finished narratives and saves them to the story library.
type Publisher struct {
	store  StoryStore
	logger *zap.Logger
}

func New(s StoryStore, logger *zap.Logger) (*Publisher, error) {
	if s == nil {
		return nil, errors.New("story store is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Publisher{store: s, logger: logger}, nil
}

// Publish converts the draft to HTML, fills title and digest, and saves it.
func (p *Publisher) Publish(ctx context.Context, params PublishParams) (*store.Story, error) {
	if params.UserID == "" {
		return nil, ErrMissingUser
	}
	md := params.Draft.Markdown
	if strings.TrimSpace(md) == "" {
		return nil, generator.ErrEmptyNarrative
	}

	title := strings.TrimSpace(params.Title)
	if title == "" {
		title = params.Draft.Title
	}
	if title == "" {
		return nil, ErrMissingTitle
	}

	digest := params.Draft.Digest
	if digest == "" {
		digest = generator.DefaultDigest(md, 120)
	}

	html, err := RenderHTML(md)
	if err != nil {
		return nil, err
	}
	if params.InlineStyles {
		html = convertHeadings(html)
	}

	story := &store.Story{
		UserID:   params.UserID,
		Title:    title,
		Style:    string(params.Style),
		MaxWords: params.MaxWords,
		Digest:   digest,
		Markdown: md,
		HTML:     html,
	}
	if err := p.store.Save(ctx, story); err != nil {
		return nil, err
	}
	p.logger.Info("story published",
		zap.String("id", story.ID),
		zap.String("user_id", story.UserID),
		zap.String("title", story.Title),
	)
	return story, nil
}

var renderer = goldmark.New(goldmark.WithExtensions(extension.GFM))

// RenderHTML converts narrative markdown to HTML.
func RenderHTML(source string) (string, error) {
	var buf bytes.Buffer
	if err := renderer.Convert([]byte(source), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return buf.String(), nil
}

var headingRe = regexp.MustCompile(`(?s)<h([1-6])[^>]*>(.*?)</h[1-6]>`)

var headingSizes = map[string]string{
	"1": "24px",
	"2": "22px",
	"3": "20px",
	"4": "18px",
	"5": "16px",
	"6": "15px",
}

func convertHeadings(html string) string {
	return headingRe.ReplaceAllStringFunc(html, func(block string) string {
		parts := headingRe.FindStringSubmatch(block)
		if len(parts) != 3 {
			return block
		}
		size := headingSizes[parts[1]]
		if size == "" {
			size = "18px"
		}
		text := strings.TrimSpace(parts[2])
		return fmt.Sprintf(`<p style="font-size:%s;font-weight:700;margin:1em 0 0.6em;">%s</p>`, size, text)
	})
}
