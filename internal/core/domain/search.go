package domain

import "time"

// DefaultSearchLimit is applied when a caller does not set Filters.Limit.
const DefaultSearchLimit = 10

// SearchFilters restricts retrieval candidates. The same filters apply
// to both the vector path and the lexical fallback so callers observe
// consistent filtering semantics across the two code paths.
type SearchFilters struct {
	// Limit is the maximum number of results (default 10).
	Limit int

	// Category restricts results to documents of the given category.
	Category string

	// Tags restricts results to documents carrying all given tags.
	Tags []string

	// UpdatedAfter / UpdatedBefore bound the document update time.
	// Zero values disable the bound.
	UpdatedAfter  time.Time
	UpdatedBefore time.Time
}

// EffectiveLimit returns the limit with the default applied.
func (f SearchFilters) EffectiveLimit() int {
	if f.Limit <= 0 {
		return DefaultSearchLimit
	}
	return f.Limit
}

// Match reports whether a document passes the category, tag and date
// filters. Limit is not a match criterion.
func (f SearchFilters) Match(doc *Document) bool {
	if f.Category != "" && doc.Category != f.Category {
		return false
	}
	for _, want := range NormaliseTags(f.Tags) {
		found := false
		for _, have := range doc.Tags {
			if have == want {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if !f.UpdatedAfter.IsZero() && doc.UpdatedAt.Before(f.UpdatedAfter) {
		return false
	}
	if !f.UpdatedBefore.IsZero() && doc.UpdatedAt.After(f.UpdatedBefore) {
		return false
	}
	return true
}

// SearchResult is a single similarity hit returned by a vector index.
type SearchResult struct {
	// ID references the stored chunk.
	ID string

	// Score is the backend-normalised similarity in [0,1].
	Score float64

	// Metadata is the opaque metadata map stored with the vector.
	Metadata map[string]any
}

// RankedDocument pairs a hydrated document with the scores computed by
// the ranking step. It is ephemeral: constructed per query, never
// persisted.
type RankedDocument struct {
	Document Document

	// RelevanceScore is the primary ranking signal in [0,1].
	RelevanceScore float64

	// Confidence is the boost-adjusted secondary score in [0,1].
	Confidence float64

	// Highlights contains up to three snippets with matched terms.
	Highlights []string
}

// RankingWeights holds the constants of the relevance and confidence
// formulas. The defaults are design constants; they are exposed as
// configuration rather than literals so they can be tuned without
// breaking compatibility.
type RankingWeights struct {
	// Relevance is a weighted sum of three sub-scores, clamped at 1.
	Title   float64
	Content float64
	Tag     float64

	// Additive confidence boosts.
	ExactTitleBoost float64
	RecencyBoost    float64
	LengthBoost     float64

	// RecencyWindow is the update-time window for the recency boost.
	RecencyWindow time.Duration

	// LengthThreshold is the content length for the length boost.
	LengthThreshold int
}

// DefaultRankingWeights returns the compatibility defaults.
func DefaultRankingWeights() RankingWeights {
	return RankingWeights{
		Title:           0.4,
		Content:         0.5,
		Tag:             0.1,
		ExactTitleBoost: 0.2,
		RecencyBoost:    0.1,
		LengthBoost:     0.05,
		RecencyWindow:   30 * 24 * time.Hour,
		LengthThreshold: 1000,
	}
}
