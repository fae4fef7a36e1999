package driven

import (
	"context"

	"github.com/quarry-labs/corpus/internal/core/domain"
)

// DocumentStore persists documents and chunks. It is the external
// persistence collaborator of the pipeline: the core reads documents
// back out of it at query time (hydration) and writes chunk-derived
// state into it at ingestion time.
type DocumentStore interface {
	// SaveDocument stores or updates a document.
	SaveDocument(ctx context.Context, doc *domain.Document) error

	// FindDocument retrieves a document by ID. Returns
	// domain.ErrNotFound when the id does not resolve.
	FindDocument(ctx context.Context, id string) (*domain.Document, error)

	// ListDocuments returns all stored documents.
	ListDocuments(ctx context.Context) ([]domain.Document, error)

	// ListChunks retrieves all chunks for a document, ordered by index.
	ListChunks(ctx context.Context, documentID string) ([]domain.Chunk, error)

	// ReplaceChunks atomically replaces all chunks of a document.
	// Re-ingestion fully replaces a document's chunk set, never
	// patches it.
	ReplaceChunks(ctx context.Context, documentID string, chunks []domain.Chunk) error

	// DeleteDocument removes a document and its chunks. Unknown ids
	// return domain.ErrNotFound.
	DeleteDocument(ctx context.Context, id string) error

	// SearchText performs a lexical title/content substring search,
	// honouring the given filters. It backs the non-vector fallback
	// path.
	SearchText(ctx context.Context, query string, filters domain.SearchFilters) ([]domain.Document, error)

	// Close releases resources.
	Close() error
}
