package services

import (
	"strings"
	"time"

	"github.com/quarry-labs/corpus/internal/core/domain"
)

// ranker computes relevance and confidence scores for hydrated
// documents. All sub-scores live in [0,1]; the combined relevance is
// clamped at 1 and confidence is clamped to [0,1] after boosts.
type ranker struct {
	weights domain.RankingWeights
	now     func() time.Time
}

func newRanker(weights domain.RankingWeights, now func() time.Time) *ranker {
	if now == nil {
		now = time.Now
	}
	return &ranker{weights: weights, now: now}
}

// rank scores documents against a query. It never fails: a zero-word
// query degrades to zero scores. The output preserves input order;
// sorting is the caller's concern.
func (r *ranker) rank(docs []domain.Document, query string) []domain.RankedDocument {
	ranked := make([]domain.RankedDocument, 0, len(docs))
	queryLower := strings.ToLower(strings.TrimSpace(query))

	for i := range docs {
		doc := docs[i]

		relevance := r.weights.Title*textSimilarity(doc.Title, queryLower) +
			r.weights.Content*textSimilarity(doc.Content, queryLower) +
			r.weights.Tag*tagRelevance(doc.Tags, queryLower)
		if relevance > 1 {
			relevance = 1
		}

		confidence := relevance
		if queryLower != "" && strings.Contains(strings.ToLower(doc.Title), queryLower) {
			confidence += r.weights.ExactTitleBoost
		}
		if r.now().Sub(doc.UpdatedAt) <= r.weights.RecencyWindow {
			confidence += r.weights.RecencyBoost
		}
		if len(doc.Content) > r.weights.LengthThreshold {
			confidence += r.weights.LengthBoost
		}
		confidence = clamp01(confidence)

		ranked = append(ranked, domain.RankedDocument{
			Document:       doc,
			RelevanceScore: relevance,
			Confidence:     confidence,
			Highlights:     generateHighlights(doc.Content, queryLower),
		})
	}

	return ranked
}

// textSimilarity returns 1 when the lowercased field contains the
// query verbatim, otherwise the fraction of distinct query words found
// in the field. A zero-word query scores 0.
func textSimilarity(field, queryLower string) float64 {
	if queryLower == "" {
		return 0
	}

	fieldLower := strings.ToLower(field)
	if strings.Contains(fieldLower, queryLower) {
		return 1
	}

	queryWords := wordSet(queryLower)
	if len(queryWords) == 0 {
		return 0
	}
	fieldWords := wordSet(fieldLower)

	matched := 0
	for w := range queryWords {
		if _, ok := fieldWords[w]; ok {
			matched++
		}
	}

	return float64(matched) / float64(len(queryWords))
}

// tagRelevance returns the fraction of tags containing the lowercased
// query as a substring. Documents without tags score 0.
func tagRelevance(tags []string, queryLower string) float64 {
	if len(tags) == 0 || queryLower == "" {
		return 0
	}

	matched := 0
	for _, tag := range tags {
		if strings.Contains(strings.ToLower(tag), queryLower) {
			matched++
		}
	}

	return float64(matched) / float64(len(tags))
}

func wordSet(s string) map[string]struct{} {
	fields := strings.Fields(s)
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// generateHighlights creates up to three sentence snippets containing
// query terms.
func generateHighlights(content, queryLower string) []string {
	queryTerms := strings.Fields(queryLower)
	if len(queryTerms) == 0 {
		return nil
	}

	var highlights []string
	for _, sentence := range splitHighlightSentences(content) {
		sentence = strings.TrimSpace(sentence)
		if sentence == "" {
			continue
		}

		sentenceLower := strings.ToLower(sentence)
		for _, term := range queryTerms {
			if strings.Contains(sentenceLower, term) {
				if len(sentence) > 200 {
					sentence = sentence[:200] + "..."
				}
				highlights = append(highlights, sentence)
				break
			}
		}

		if len(highlights) >= 3 {
			break
		}
	}

	return highlights
}

// splitHighlightSentences splits content on common terminators.
func splitHighlightSentences(content string) []string {
	var sentences []string
	var current strings.Builder

	for _, r := range content {
		current.WriteRune(r)
		if r == '.' || r == '!' || r == '?' || r == '\n' {
			if s := strings.TrimSpace(current.String()); s != "" {
				sentences = append(sentences, s)
			}
			current.Reset()
		}
	}

	if s := strings.TrimSpace(current.String()); s != "" {
		sentences = append(sentences, s)
	}

	return sentences
}
