package services

import (
	"strings"

	"github.com/quarry-labs/corpus/internal/core/domain"
)

// Weights of the fallback path's position-weighted substring score.
// This score is intentionally simpler than the ranked path's
// relevance/confidence pair: the two paths are comparable, not
// numerically identical.
const (
	lexicalTitleWeight   = 0.6
	lexicalContentWeight = 0.4
)

// lexicalScore computes the fallback match score in [0,1]. A substring
// match earlier in a field scores higher than a late one; a document
// matching in neither field scores 0.
func lexicalScore(doc *domain.Document, query string) float64 {
	queryLower := strings.ToLower(strings.TrimSpace(query))
	if queryLower == "" {
		return 0
	}

	score := lexicalTitleWeight*positionScore(doc.Title, queryLower) +
		lexicalContentWeight*positionScore(doc.Content, queryLower)
	return clamp01(score)
}

// positionScore returns 1 for a match at the start of the field,
// decaying linearly towards 0.1 for a match at the very end, and 0 for
// no match at all.
func positionScore(field, queryLower string) float64 {
	fieldLower := strings.ToLower(field)
	pos := strings.Index(fieldLower, queryLower)
	if pos < 0 {
		return 0
	}
	if len(fieldLower) == len(queryLower) {
		return 1
	}

	frac := float64(pos) / float64(len(fieldLower)-len(queryLower)+1)
	return 1 - 0.9*frac
}
