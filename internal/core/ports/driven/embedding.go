package driven

import "context"

// Embedder generates vector embeddings from text.
//
// Note: this is separate from VectorIndex, which stores and searches
// vectors. Embedder generates vectors; VectorIndex stores them.
//
// Implementations may include:
//   - OpenAI-compatible HTTP providers (text-embedding-3-small, ...)
//   - Decorators adding caching or rate limiting around a provider
type Embedder interface {
	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts. Output order
	// matches input order: index i of the result corresponds to
	// texts[i]. This is a hard contract: chunk-to-embedding
	// association depends on positional alignment.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding vector size (e.g., 768, 1536).
	// This is determined by the model and must match the VectorIndex
	// configuration.
	Dimensions() int

	// ModelName returns the name of the embedding model being used.
	ModelName() string
}
