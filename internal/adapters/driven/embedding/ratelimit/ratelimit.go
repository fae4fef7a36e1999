// Package ratelimit provides a throttling decorator around an
// embedding provider, keeping request volume under the provider's
// quota with a token bucket.
package ratelimit

import (
	"context"

	"golang.org/x/time/rate"

	"github.com/quarry-labs/corpus/internal/core/ports/driven"
)

// Ensure Embedder implements the interface.
var _ driven.Embedder = (*Embedder)(nil)

// DefaultRequestsPerSecond keeps well under typical provider quotas.
const DefaultRequestsPerSecond = 5

// Embedder wraps another embedder with proactive request throttling.
// Each provider call consumes one token; a batch counts as a single
// request regardless of its input count.
type Embedder struct {
	inner  driven.Embedder
	bucket *rate.Limiter
}

// New wraps an embedder with a token bucket allowing rps requests per
// second with a burst of one. A non-positive rps applies the default.
func New(inner driven.Embedder, rps float64) *Embedder {
	if rps <= 0 {
		rps = DefaultRequestsPerSecond
	}
	return &Embedder{
		inner:  inner,
		bucket: rate.NewLimiter(rate.Limit(rps), 1),
	}
}

// Embed waits for a token, then delegates.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := e.bucket.Wait(ctx); err != nil {
		return nil, err
	}
	return e.inner.Embed(ctx, text)
}

// EmbedBatch waits for a token, then delegates.
func (e *Embedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	if err := e.bucket.Wait(ctx); err != nil {
		return nil, err
	}
	return e.inner.EmbedBatch(ctx, texts)
}

// Dimensions returns the wrapped provider's vector size.
func (e *Embedder) Dimensions() int {
	return e.inner.Dimensions()
}

// ModelName returns the wrapped provider's model name.
func (e *Embedder) ModelName() string {
	return e.inner.ModelName()
}
