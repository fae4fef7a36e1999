// Package plaintext provides the extractor for plain text documents.
package plaintext

import (
	"context"
	"strings"

	"github.com/quarry-labs/corpus/internal/core/domain"
	"github.com/quarry-labs/corpus/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// maxTitleLength caps the derived title so a wall of text on the first
// line never becomes one.
const maxTitleLength = 120

// Extractor handles plain text documents.
type Extractor struct{}

// New creates a new plain text extractor.
func New() *Extractor {
	return &Extractor{}
}

// Types returns the document types this extractor handles.
func (e *Extractor) Types() []domain.DocumentType {
	return []domain.DocumentType{domain.TypeText}
}

// Extract passes the raw bytes through unchanged, deriving a title
// from the first short non-empty line.
func (e *Extractor) Extract(_ context.Context, raw *domain.RawDocument) (*driven.ExtractResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	content := string(raw.Content)
	return &driven.ExtractResult{
		Content: content,
		Title:   FirstLineTitle(content),
	}, nil
}

// FirstLineTitle returns the first non-empty line when it is short
// enough to plausibly be a title, or the empty string.
func FirstLineTitle(content string) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if len(line) > maxTitleLength {
			return ""
		}
		return line
	}
	return ""
}
