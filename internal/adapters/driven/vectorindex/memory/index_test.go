package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quarry-labs/corpus/internal/core/domain"
)

func TestSelfMatch(t *testing.T) {
	idx := New()
	ctx := context.Background()

	require.NoError(t, idx.Store(ctx, "a", []float32{1, 0, 0}, nil))
	require.NoError(t, idx.Store(ctx, "b", []float32{0, 1, 0}, nil))
	require.NoError(t, idx.Store(ctx, "c", []float32{0.5, 0.5, 0}, nil))

	results, err := idx.Search(ctx, []float32{1, 0, 0}, 3, nil)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, "a", results[0].ID, "stored vector must be its own best match")
	assert.InDelta(t, 1.0, results[0].Score, 1e-9)
}

func TestSearchLimitAndOrder(t *testing.T) {
	idx := New()
	ctx := context.Background()

	require.NoError(t, idx.Store(ctx, "far", []float32{-1, 0}, nil))
	require.NoError(t, idx.Store(ctx, "near", []float32{1, 0.1}, nil))
	require.NoError(t, idx.Store(ctx, "mid", []float32{1, 1}, nil))

	results, err := idx.Search(ctx, []float32{1, 0}, 2, nil)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "near", results[0].ID)
	assert.Equal(t, "mid", results[1].ID)
	assert.Greater(t, results[0].Score, results[1].Score)
}

func TestTiesKeepInsertionOrder(t *testing.T) {
	idx := New()
	ctx := context.Background()

	// Identical vectors score identically.
	require.NoError(t, idx.Store(ctx, "first", []float32{1, 2}, nil))
	require.NoError(t, idx.Store(ctx, "second", []float32{1, 2}, nil))
	require.NoError(t, idx.Store(ctx, "third", []float32{1, 2}, nil))

	results, err := idx.Search(ctx, []float32{1, 2}, 3, nil)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, []string{"first", "second", "third"},
		[]string{results[0].ID, results[1].ID, results[2].ID})
}

func TestUpsertOverwrites(t *testing.T) {
	idx := New()
	ctx := context.Background()

	require.NoError(t, idx.Store(ctx, "a", []float32{1, 0}, map[string]any{"v": 1}))
	require.NoError(t, idx.Update(ctx, "a", []float32{0, 1}, map[string]any{"v": 2}))

	results, err := idx.Search(ctx, []float32{0, 1}, 1, nil)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "a", results[0].ID)
	assert.InDelta(t, 1.0, results[0].Score, 1e-9)
	assert.Equal(t, 2, results[0].Metadata["v"])
}

func TestUpdateWithoutPriorStore(t *testing.T) {
	idx := New()
	ctx := context.Background()

	require.NoError(t, idx.Update(ctx, "fresh", []float32{1}, nil))

	results, err := idx.Search(ctx, []float32{1}, 1, nil)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "fresh", results[0].ID)
}

func TestDeleteIdempotent(t *testing.T) {
	idx := New()
	ctx := context.Background()

	require.NoError(t, idx.Store(ctx, "a", []float32{1, 0}, nil))
	require.NoError(t, idx.Store(ctx, "b", []float32{0, 1}, nil))

	require.NoError(t, idx.Delete(ctx, "a"))
	require.NoError(t, idx.Delete(ctx, "a"), "second delete must not error")
	require.NoError(t, idx.Delete(ctx, "never-existed"))

	results, err := idx.Search(ctx, []float32{1, 0}, 10, nil)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "b", results[0].ID)
}

func TestMetadataFilters(t *testing.T) {
	idx := New()
	ctx := context.Background()

	require.NoError(t, idx.Store(ctx, "hr1", []float32{1, 0}, map[string]any{"category": "hr"}))
	require.NoError(t, idx.Store(ctx, "eng1", []float32{1, 0}, map[string]any{"category": "eng"}))
	require.NoError(t, idx.Store(ctx, "untagged", []float32{1, 0}, nil))

	results, err := idx.Search(ctx, []float32{1, 0}, 10, map[string]any{"category": "hr"})
	require.NoError(t, err)
	require.Len(t, results, 1, "entries failing the filter must not appear regardless of score")
	assert.Equal(t, "hr1", results[0].ID)
}

func TestSearchErrors(t *testing.T) {
	idx := New()
	ctx := context.Background()

	_, err := idx.Search(ctx, nil, 5, nil)
	assert.ErrorIs(t, err, domain.ErrVectorIndex)

	require.NoError(t, idx.Store(ctx, "a", []float32{1, 0}, nil))
	_, err = idx.Search(ctx, []float32{1, 0, 0}, 5, nil)
	assert.ErrorIs(t, err, domain.ErrVectorIndex, "dimension mismatch is a backend failure, not zero matches")
}
