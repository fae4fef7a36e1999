package cache

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingEmbedder records provider calls and derives vectors from
// text length so results are distinguishable.
type countingEmbedder struct {
	mu         sync.Mutex
	embedCalls int
	batchCalls int
	batchTexts [][]string
	err        error
}

func (c *countingEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.embedCalls++
	if c.err != nil {
		return nil, c.err
	}
	return []float32{float32(len(text))}, nil
}

func (c *countingEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.batchCalls++
	c.batchTexts = append(c.batchTexts, append([]string(nil), texts...))
	if c.err != nil {
		return nil, c.err
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = []float32{float32(len(t))}
	}
	return out, nil
}

func (c *countingEmbedder) Dimensions() int { return 1 }

func (c *countingEmbedder) ModelName() string { return "counting-embed" }

func TestEmbed_CachesRepeatedText(t *testing.T) {
	inner := &countingEmbedder{}
	e := New(inner)
	ctx := context.Background()

	first, err := e.Embed(ctx, "hello")
	require.NoError(t, err)
	second, err := e.Embed(ctx, "hello")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, inner.embedCalls)
	assert.Equal(t, 1, e.Size())
}

func TestEmbed_DistinctTextsMiss(t *testing.T) {
	inner := &countingEmbedder{}
	e := New(inner)
	ctx := context.Background()

	_, err := e.Embed(ctx, "alpha")
	require.NoError(t, err)
	_, err = e.Embed(ctx, "beta gamma")
	require.NoError(t, err)

	assert.Equal(t, 2, inner.embedCalls)
	assert.Equal(t, 2, e.Size())
}

func TestEmbed_WhitespaceVariantsShareEntry(t *testing.T) {
	inner := &countingEmbedder{}
	e := New(inner)
	ctx := context.Background()

	first, err := e.Embed(ctx, "vacation  policy")
	require.NoError(t, err)
	second, err := e.Embed(ctx, "vacation policy")
	require.NoError(t, err)
	third, err := e.Embed(ctx, "  vacation\tpolicy\n")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, first, third)
	assert.Equal(t, 1, inner.embedCalls, "texts with the same normalised form should share one provider call")
	assert.Equal(t, 1, e.Size())
}

func TestEmbed_ErrorNotCached(t *testing.T) {
	inner := &countingEmbedder{err: errors.New("provider down")}
	e := New(inner)
	ctx := context.Background()

	_, err := e.Embed(ctx, "hello")
	require.Error(t, err)
	assert.Zero(t, e.Size())

	inner.err = nil
	vec, err := e.Embed(ctx, "hello")
	require.NoError(t, err)
	assert.Equal(t, []float32{5}, vec)
}

func TestEmbedBatch_OnlyMissesForwarded(t *testing.T) {
	inner := &countingEmbedder{}
	e := New(inner)
	ctx := context.Background()

	_, err := e.Embed(ctx, "cached")
	require.NoError(t, err)

	result, err := e.EmbedBatch(ctx, []string{"new one", "cached", "another new"})
	require.NoError(t, err)

	require.Len(t, result, 3)
	assert.Equal(t, []float32{7}, result[0])
	assert.Equal(t, []float32{6}, result[1])
	assert.Equal(t, []float32{11}, result[2])

	require.Equal(t, 1, inner.batchCalls)
	assert.Equal(t, []string{"new one", "another new"}, inner.batchTexts[0])
}

func TestEmbedBatch_AllCachedSkipsProvider(t *testing.T) {
	inner := &countingEmbedder{}
	e := New(inner)
	ctx := context.Background()

	_, err := e.EmbedBatch(ctx, []string{"a", "bb"})
	require.NoError(t, err)
	require.Equal(t, 1, inner.batchCalls)

	result, err := e.EmbedBatch(ctx, []string{"bb", "a"})
	require.NoError(t, err)

	assert.Equal(t, 1, inner.batchCalls, "second batch should be fully cached")
	assert.Equal(t, []float32{2}, result[0])
	assert.Equal(t, []float32{1}, result[1])
}

func TestEmbedBatch_EmptyInput(t *testing.T) {
	inner := &countingEmbedder{}
	e := New(inner)

	result, err := e.EmbedBatch(context.Background(), nil)

	require.NoError(t, err)
	assert.Nil(t, result)
	assert.Zero(t, inner.batchCalls)
}

func TestConcurrentAccess(t *testing.T) {
	inner := &countingEmbedder{}
	e := New(inner)
	ctx := context.Background()

	var wg sync.WaitGroup
	texts := []string{"one", "two", "three", "four"}
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := e.Embed(ctx, texts[i%len(texts)])
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, len(texts), e.Size())
}

func TestDelegatedMetadata(t *testing.T) {
	e := New(&countingEmbedder{})

	assert.Equal(t, 1, e.Dimensions())
	assert.Equal(t, "counting-embed", e.ModelName())
}
