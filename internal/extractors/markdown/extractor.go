// Package markdown provides the extractor for Markdown documents.
package markdown

import (
	"context"
	"regexp"
	"strings"

	"github.com/quarry-labs/corpus/internal/core/domain"
	"github.com/quarry-labs/corpus/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor handles Markdown documents.
type Extractor struct{}

// New creates a new Markdown extractor.
func New() *Extractor {
	return &Extractor{}
}

// Types returns the document types this extractor handles.
func (e *Extractor) Types() []domain.DocumentType {
	return []domain.DocumentType{domain.TypeMarkdown}
}

// Extract converts Markdown to plain text, deriving the title from the
// first H1 heading.
func (e *Extractor) Extract(_ context.Context, raw *domain.RawDocument) (*driven.ExtractResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	rawContent := string(raw.Content)
	return &driven.ExtractResult{
		Content: stripMarkdown(rawContent),
		Title:   headingTitle(rawContent),
	}, nil
}

// headingTitle returns the first H1 heading, or the empty string.
func headingTitle(content string) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "# ") {
			return strings.TrimSpace(strings.TrimPrefix(line, "#"))
		}
	}
	return ""
}

var (
	codeBlock    = regexp.MustCompile("(?s)```[^`]*```")
	inlineCode   = regexp.MustCompile("`[^`]+`")
	images       = regexp.MustCompile(`!\[[^\]]*\]\([^)]+\)`)
	links        = regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`)
	headings     = regexp.MustCompile(`(?m)^#{1,6}\s+`)
	blockquote   = regexp.MustCompile(`(?m)^>\s*`)
	hr           = regexp.MustCompile(`(?m)^[-*_]{3,}\s*$`)
	listMarkers  = regexp.MustCompile(`(?m)^\s*[-*+]\s+`)
	numberedList = regexp.MustCompile(`(?m)^\s*\d+\.\s+`)
	multiBlank   = regexp.MustCompile(`\n{3,}`)
)

// stripMarkdown removes common markdown formatting for plain text
// content. This is a simplified implementation handling the common
// cases.
func stripMarkdown(content string) string {
	content = codeBlock.ReplaceAllString(content, "")
	content = inlineCode.ReplaceAllString(content, "")
	content = images.ReplaceAllString(content, "")
	content = links.ReplaceAllString(content, "$1")
	content = headings.ReplaceAllString(content, "")

	content = strings.ReplaceAll(content, "**", "")
	content = strings.ReplaceAll(content, "__", "")
	content = strings.ReplaceAll(content, "*", "")
	content = strings.ReplaceAll(content, "_", " ")

	content = blockquote.ReplaceAllString(content, "")
	content = hr.ReplaceAllString(content, "")
	content = listMarkers.ReplaceAllString(content, "")
	content = numberedList.ReplaceAllString(content, "")
	content = multiBlank.ReplaceAllString(content, "\n\n")

	return strings.TrimSpace(content)
}
