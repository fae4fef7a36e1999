// Package memory provides the local in-process vector index, used when
// no remote backend is configured. Search is brute-force cosine
// similarity, which is exact and fast enough for corpora that fit in
// one process.
package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/quarry-labs/corpus/internal/core/domain"
	"github.com/quarry-labs/corpus/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

type entry struct {
	id       string
	vector   []float32
	metadata map[string]any
}

// Index stores vectors in memory and answers nearest-neighbour queries
// by scanning all entries. Insertion order is preserved across upserts
// so equal scores tie-break deterministically.
type Index struct {
	mu      sync.RWMutex
	entries []entry
	byID    map[string]int
}

// New creates an empty in-memory index.
func New() *Index {
	return &Index{byID: make(map[string]int)}
}

// Store upserts a vector. An existing id keeps its original insertion
// position; vector and metadata are overwritten.
func (idx *Index) Store(_ context.Context, id string, vector []float32, metadata map[string]any) error {
	if len(vector) == 0 {
		return fmt.Errorf("%w: empty vector for id %s", domain.ErrVectorIndex, id)
	}

	stored := make([]float32, len(vector))
	copy(stored, vector)

	idx.mu.Lock()
	defer idx.mu.Unlock()

	if pos, ok := idx.byID[id]; ok {
		idx.entries[pos].vector = stored
		idx.entries[pos].metadata = metadata
		return nil
	}

	idx.byID[id] = len(idx.entries)
	idx.entries = append(idx.entries, entry{id: id, vector: stored, metadata: metadata})
	return nil
}

// Update is identical to Store: upsert with no prior-call requirement.
func (idx *Index) Update(ctx context.Context, id string, vector []float32, metadata map[string]any) error {
	return idx.Store(ctx, id, vector, metadata)
}

// Search returns at most limit entries ordered by descending cosine
// similarity (normalised to [0,1]), ties kept in insertion order.
// Entries failing a metadata-equality filter never appear regardless
// of score.
func (idx *Index) Search(
	_ context.Context, vector []float32, limit int, filters map[string]any,
) ([]domain.SearchResult, error) {
	if len(vector) == 0 {
		return nil, fmt.Errorf("%w: empty query vector", domain.ErrVectorIndex)
	}
	if limit <= 0 {
		return []domain.SearchResult{}, nil
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	results := make([]domain.SearchResult, 0, len(idx.entries))
	for _, e := range idx.entries {
		if !matchesFilters(e.metadata, filters) {
			continue
		}
		if len(e.vector) != len(vector) {
			return nil, fmt.Errorf("%w: dimension mismatch for id %s (%d != %d)",
				domain.ErrVectorIndex, e.id, len(e.vector), len(vector))
		}
		results = append(results, domain.SearchResult{
			ID:       e.id,
			Score:    cosineSimilarity(e.vector, vector),
			Metadata: e.metadata,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// Delete removes an entry. Deleting a nonexistent id is a no-op.
func (idx *Index) Delete(_ context.Context, id string) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	pos, ok := idx.byID[id]
	if !ok {
		return nil
	}

	idx.entries = append(idx.entries[:pos], idx.entries[pos+1:]...)
	delete(idx.byID, id)
	for i := pos; i < len(idx.entries); i++ {
		idx.byID[idx.entries[i].id] = i
	}
	return nil
}

// Close releases resources.
func (idx *Index) Close() error {
	return nil
}

// cosineSimilarity maps the cosine of the angle between a and b from
// [-1,1] into [0,1] so scores are comparable with remote backends.
func cosineSimilarity(a, b []float32) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	cos := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	return (cos + 1) / 2
}

func matchesFilters(metadata, filters map[string]any) bool {
	for k, want := range filters {
		if metadata == nil {
			return false
		}
		if have, ok := metadata[k]; !ok || have != want {
			return false
		}
	}
	return true
}
