package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/quarry-labs/corpus/internal/core/domain"
	"github.com/quarry-labs/corpus/internal/core/ports/driven"
	"github.com/quarry-labs/corpus/internal/core/ports/driving"
	"github.com/quarry-labs/corpus/internal/logger"
)

// Ensure Retriever implements the interface.
var _ driving.Retriever = (*Retriever)(nil)

// Metadata keys stored alongside vectors at ingestion time. The
// retriever uses them to resolve hits back into documents and to
// push category filtering down into the index.
const (
	metaDocumentID = "document_id"
	metaChunkIndex = "chunk_index"
	metaCategory   = "category"
	metaSection    = "section"
)

// Retriever orchestrates query-time retrieval: embed the query, search
// the vector index, hydrate full documents from the persistence store
// and rank them. When the vector path fails it degrades to lexical
// search instead of propagating the failure.
type Retriever struct {
	docStore driven.DocumentStore
	index    driven.VectorIndex
	embedder driven.Embedder
	weights  domain.RankingWeights
	now      func() time.Time
}

// RetrieverOption configures the retriever.
type RetrieverOption func(*Retriever)

// WithRankingWeights overrides the default ranking constants.
func WithRankingWeights(w domain.RankingWeights) RetrieverOption {
	return func(r *Retriever) {
		r.weights = w
	}
}

// WithClock overrides the recency clock. Useful for testing.
func WithClock(now func() time.Time) RetrieverOption {
	return func(r *Retriever) {
		r.now = now
	}
}

// NewRetriever creates a retriever over the given collaborators.
func NewRetriever(
	docStore driven.DocumentStore,
	index driven.VectorIndex,
	embedder driven.Embedder,
	opts ...RetrieverOption,
) *Retriever {
	r := &Retriever{
		docStore: docStore,
		index:    index,
		embedder: embedder,
		weights:  domain.DefaultRankingWeights(),
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// RetrieveDocuments answers a query with ranked documents. A failing
// vector index or embedding provider triggers the lexical fallback; a
// search hit whose document no longer resolves is logged and skipped.
func (r *Retriever) RetrieveDocuments(
	ctx context.Context, query string, filters domain.SearchFilters,
) ([]domain.RankedDocument, error) {
	logger.Section("Retrieval")
	logger.Debug("Query: %q", query)

	query = strings.TrimSpace(query)
	if query == "" {
		logger.Debug("Empty query, returning no results")
		return []domain.RankedDocument{}, nil
	}

	limit := filters.EffectiveLimit()

	hits, err := r.searchSemantic(ctx, query, limit, indexFilters(filters))
	if err != nil {
		if !errors.Is(err, domain.ErrVectorIndex) && !errors.Is(err, domain.ErrEmbeddingProvider) {
			return nil, err
		}
		logger.Warn("Vector path unavailable (%v), falling back to text search", err)
		return r.fallbackSearch(ctx, query, filters)
	}

	logger.Debug("Vector search: %d hits", len(hits))

	docs := r.hydrate(ctx, hits, filters)
	logger.Debug("Hydrated %d documents", len(docs))

	ranked := r.RankDocuments(docs, query)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].RelevanceScore > ranked[j].RelevanceScore
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	logger.Info("Final results: %d", len(ranked))
	return ranked, nil
}

// SearchSemantic returns raw similarity hits without hydration.
func (r *Retriever) SearchSemantic(ctx context.Context, query string, limit int) ([]domain.SearchResult, error) {
	if limit <= 0 {
		limit = domain.DefaultSearchLimit
	}
	return r.searchSemantic(ctx, strings.TrimSpace(query), limit, nil)
}

// RankDocuments scores and orders are deterministic: the same document
// set and query always produce identical scores, and equal scores keep
// input order.
func (r *Retriever) RankDocuments(docs []domain.Document, query string) []domain.RankedDocument {
	return newRanker(r.weights, r.now).rank(docs, query)
}

func (r *Retriever) searchSemantic(
	ctx context.Context, query string, limit int, filters map[string]any,
) ([]domain.SearchResult, error) {
	embedding, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	logger.Debug("Query embedding: %d dimensions", len(embedding))

	hits, err := r.index.Search(ctx, embedding, limit, filters)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}

	return hits, nil
}

// hydrate resolves search hits into full documents. Hits referencing
// documents that no longer resolve are skipped with a warning, so a
// single gap never fails the whole query. Multiple hits against the
// same document collapse into one entry, keeping hit order.
func (r *Retriever) hydrate(
	ctx context.Context, hits []domain.SearchResult, filters domain.SearchFilters,
) []domain.Document {
	docs := make([]domain.Document, 0, len(hits))
	seen := make(map[string]bool, len(hits))

	for _, hit := range hits {
		docID, _ := hit.Metadata[metaDocumentID].(string)
		if docID == "" {
			// Older entries were keyed directly by document id.
			docID = hit.ID
		}
		if seen[docID] {
			continue
		}
		seen[docID] = true

		doc, err := r.docStore.FindDocument(ctx, docID)
		if err != nil {
			logger.Warn("Skipping hit %s: document %s failed to hydrate: %v", hit.ID, docID, err)
			continue
		}

		if !filters.Match(doc) {
			continue
		}

		docs = append(docs, *doc)
	}

	return docs
}

// fallbackSearch serves a query through the lexical path, applying the
// same filters as the vector path. Scores come from position-weighted
// substring matching and are comparable to, but not numerically
// identical with, the ranked path.
func (r *Retriever) fallbackSearch(
	ctx context.Context, query string, filters domain.SearchFilters,
) ([]domain.RankedDocument, error) {
	docs, err := r.docStore.SearchText(ctx, query, filters)
	if err != nil {
		return nil, fmt.Errorf("fallback text search: %w", err)
	}

	results := make([]domain.RankedDocument, 0, len(docs))
	for i := range docs {
		score := lexicalScore(&docs[i], query)
		results = append(results, domain.RankedDocument{
			Document:       docs[i],
			RelevanceScore: score,
			Confidence:     score,
			Highlights:     generateHighlights(docs[i].Content, strings.ToLower(query)),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].RelevanceScore > results[j].RelevanceScore
	})

	limit := filters.EffectiveLimit()
	if len(results) > limit {
		results = results[:limit]
	}

	return results, nil
}

// indexFilters translates retrieval filters into metadata-equality
// filters the vector index understands. Only category pushes down;
// tags and date ranges are applied after hydration.
func indexFilters(filters domain.SearchFilters) map[string]any {
	if filters.Category == "" {
		return nil
	}
	return map[string]any{metaCategory: filters.Category}
}
