package driving

import (
	"context"

	"github.com/quarry-labs/corpus/internal/core/domain"
)

// Retriever answers queries against the ingested corpus.
type Retriever interface {
	// RetrieveDocuments embeds the query, searches the vector index,
	// hydrates full documents from the persistence store and ranks
	// them. When the vector path is unavailable it falls back to
	// lexical search; the caller never sees the index error.
	RetrieveDocuments(ctx context.Context, query string, filters domain.SearchFilters) ([]domain.RankedDocument, error)

	// SearchSemantic returns raw similarity hits for a query without
	// hydration or ranking.
	SearchSemantic(ctx context.Context, query string, limit int) ([]domain.SearchResult, error)

	// RankDocuments scores and orders documents against a query. It is
	// deterministic and order-stable.
	RankDocuments(docs []domain.Document, query string) []domain.RankedDocument
}
