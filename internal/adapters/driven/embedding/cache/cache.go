// Package cache provides a caching decorator around an embedding
// provider. Repeated requests for the same text are served from memory
// instead of hitting the provider again.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sync"

	"github.com/quarry-labs/corpus/internal/adapters/driven/embedding/openai"
	"github.com/quarry-labs/corpus/internal/core/ports/driven"
)

// Ensure Embedder implements the interface.
var _ driven.Embedder = (*Embedder)(nil)

// Embedder wraps another embedder with an in-memory cache. Entries are
// keyed by model name and normalised text, so switching models never
// serves stale vectors and whitespace variants of the same text share
// one entry. The cache has no expiry; eviction is the caller's concern,
// bounded only by process lifetime.
type Embedder struct {
	inner driven.Embedder

	mu      sync.RWMutex
	entries map[string][]float32
}

// New wraps an embedder with caching.
func New(inner driven.Embedder) *Embedder {
	return &Embedder{
		inner:   inner,
		entries: make(map[string][]float32),
	}
}

// Embed returns the cached vector for text, calling the wrapped
// provider only on a miss.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	key := e.key(text)

	if vec, ok := e.get(key); ok {
		return vec, nil
	}

	vec, err := e.inner.Embed(ctx, text)
	if err != nil {
		return nil, err
	}

	e.put(key, vec)
	return vec, nil
}

// EmbedBatch serves cached entries and forwards only the misses to the
// wrapped provider, preserving positional alignment with the input.
func (e *Embedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	result := make([][]float32, len(texts))
	var missTexts []string
	var missSlots []int

	for i, text := range texts {
		if vec, ok := e.get(e.key(text)); ok {
			result[i] = vec
			continue
		}
		missTexts = append(missTexts, text)
		missSlots = append(missSlots, i)
	}

	if len(missTexts) == 0 {
		return result, nil
	}

	fresh, err := e.inner.EmbedBatch(ctx, missTexts)
	if err != nil {
		return nil, err
	}

	for j, slot := range missSlots {
		result[slot] = fresh[j]
		e.put(e.key(missTexts[j]), fresh[j])
	}

	return result, nil
}

// Dimensions returns the wrapped provider's vector size.
func (e *Embedder) Dimensions() int {
	return e.inner.Dimensions()
}

// ModelName returns the wrapped provider's model name.
func (e *Embedder) ModelName() string {
	return e.inner.ModelName()
}

// Size returns the number of cached entries.
func (e *Embedder) Size() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.entries)
}

// key hashes the model name and the normalised text. Normalising here
// matches what the provider embeds, so inputs that only differ in
// whitespace resolve to the same entry.
func (e *Embedder) key(text string) string {
	h := sha256.New()
	h.Write([]byte(e.inner.ModelName()))
	h.Write([]byte{0})
	h.Write([]byte(openai.NormaliseText(text)))
	return hex.EncodeToString(h.Sum(nil))
}

func (e *Embedder) get(key string) ([]float32, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	vec, ok := e.entries[key]
	return vec, ok
}

func (e *Embedder) put(key string, vec []float32) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.entries[key] = vec
}
