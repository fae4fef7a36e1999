package driven

import (
	"context"

	"github.com/quarry-labs/corpus/internal/core/domain"
)

// VectorIndex provides nearest-neighbour similarity search over stored
// embeddings. Two interchangeable backends exist: a remote managed
// index and a local in-process index, selected at construction time.
//
// Failure semantics: any transport or backend error wraps
// domain.ErrVectorIndex and is never silently swallowed into an empty
// result. Empty results mean zero matches.
type VectorIndex interface {
	// Store upserts a vector with its metadata. Calling Store with an
	// existing id overwrites both vector and metadata.
	Store(ctx context.Context, id string, vector []float32, metadata map[string]any) error

	// Update is semantically identical to Store. Implementations must
	// not require a prior Store call.
	Update(ctx context.Context, id string, vector []float32, metadata map[string]any) error

	// Search returns at most limit results ordered by descending
	// similarity score, ties broken by insertion order. When filters
	// is non-empty, candidates are restricted by metadata equality
	// before scoring.
	Search(ctx context.Context, vector []float32, limit int, filters map[string]any) ([]domain.SearchResult, error)

	// Delete removes a vector. Deleting a nonexistent id is a no-op.
	Delete(ctx context.Context, id string) error

	// Close releases resources.
	Close() error
}
