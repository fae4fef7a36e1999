package driven

import (
	"context"

	"github.com/quarry-labs/corpus/internal/core/domain"
)

// Extractor converts raw document bytes of a declared type into text.
// Each extractor handles specific document types (e.g., PDF, Markdown).
type Extractor interface {
	// Types returns the document types this extractor handles.
	Types() []domain.DocumentType

	// Extract converts raw bytes into text. Failures wrap
	// domain.ErrExtraction.
	Extract(ctx context.Context, raw *domain.RawDocument) (*ExtractResult, error)
}

// ExtractResult contains the output of extraction.
type ExtractResult struct {
	// Content is the extracted plain text.
	Content string

	// Title is a best-effort title derived from the content, used when
	// the caller declared none.
	Title string
}

// ExtractorRegistry selects the extractor for a document type.
type ExtractorRegistry interface {
	// Register adds an extractor for each of its declared types.
	Register(e Extractor) error

	// ForType returns the extractor for the given type, or
	// domain.ErrUnsupportedType when none is registered.
	ForType(t domain.DocumentType) (Extractor, error)
}

// CommandRunner executes an external command and returns its combined
// output. It exists so extractors that shell out (pdftotext) stay
// testable.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}
