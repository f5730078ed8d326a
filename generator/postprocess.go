package generator

import (
	"regexp"
	"strings"
)

var titleRe = regexp.MustCompile(`(?m)^#\s+(.+)$`)

// PostProcess keeps raw as the narrative and derives title, digest and word count from it.
func PostProcess(raw string) (Draft, error) {
	if strings.TrimSpace(raw) == "" {
		return Draft{}, ErrEmptyNarrative
	}

	digest := extractDigest(raw)
	if digest == "" {
		digest = DefaultDigest(raw, 120)
	}

	return Draft{
		Title:     extractTitle(raw),
		Digest:    digest,
		Markdown:  raw,
		WordCount: wordCount(raw),
	}, nil
}

func extractTitle(md string) string {
	m := titleRe.FindStringSubmatch(md)
	if len(m) >= 2 {
		return strings.TrimSpace(m[1])
	}
	return ""
}

// 摘要取首段（去掉标题行）。
func extractDigest(md string) string {
	var parts []string
	for _, line := range strings.Split(md, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "#") {
			if len(parts) > 0 {
				break
			}
			continue
		}
		if line == "" {
			if len(parts) > 0 {
				break
			}
			continue
		}
		parts = append(parts, line)
	}
	return strings.Join(parts, " ")
}

// DefaultDigest collapses whitespace and cuts md to at most limit runes.
func DefaultDigest(md string, limit int) string {
	joined := strings.Join(strings.Fields(md), " ")
	r := []rune(joined)
	if len(r) <= limit {
		return joined
	}
	return string(r[:limit])
}
