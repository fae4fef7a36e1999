package driving

import (
	"context"

	"github.com/quarry-labs/corpus/internal/core/domain"
)

// Ingestor feeds raw documents through extraction, chunking, embedding
// and indexing.
type Ingestor interface {
	// IngestDocument processes a single raw document. Unsupported
	// types fail fast with domain.ErrUnsupportedType; extraction
	// failures wrap domain.ErrExtraction. Re-ingesting an existing
	// document fully replaces its chunk set.
	IngestDocument(ctx context.Context, raw domain.RawDocument) (*domain.Document, error)

	// IngestBatch processes many documents. A failing document never
	// aborts the rest; per-document failures are reported in the
	// result.
	IngestBatch(ctx context.Context, raws []domain.RawDocument) []IngestResult

	// RemoveDocument deletes a document's vectors and its stored
	// record.
	RemoveDocument(ctx context.Context, id string) error
}

// IngestResult reports the outcome of one document in a batch.
type IngestResult struct {
	// Document is the stored document, nil on failure.
	Document *domain.Document

	// Err is the per-document failure, nil on success.
	Err error
}
