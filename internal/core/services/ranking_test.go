package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quarry-labs/corpus/internal/core/domain"
)

func testRanker() *ranker {
	return newRanker(domain.DefaultRankingWeights(), fixedClock())
}

func TestRank_TitleOutweighedByContent(t *testing.T) {
	// A verbatim content match (0.5) beats a verbatim title match (0.4)
	// when the other field has no overlap.
	docs := []domain.Document{
		{ID: "title-only", Title: "Kubernetes", Content: "Container orchestration notes."},
		{ID: "content-only", Title: "Cluster Notes", Content: "All about kubernetes networking."},
	}

	ranked := testRanker().rank(docs, "kubernetes")

	require.Len(t, ranked, 2)
	byID := map[string]domain.RankedDocument{}
	for _, r := range ranked {
		byID[r.Document.ID] = r
	}

	assert.InDelta(t, 0.4, byID["title-only"].RelevanceScore, 1e-9)
	assert.InDelta(t, 0.5, byID["content-only"].RelevanceScore, 1e-9)
}

func TestRank_RelevanceClampedAtOne(t *testing.T) {
	weights := domain.DefaultRankingWeights()
	weights.Title = 0.8
	weights.Content = 0.8
	r := newRanker(weights, fixedClock())

	docs := []domain.Document{{
		Title:   "payroll",
		Content: "payroll details",
	}}

	ranked := r.rank(docs, "payroll")

	require.Len(t, ranked, 1)
	assert.Equal(t, 1.0, ranked[0].RelevanceScore)
}

func TestRank_EmptyQueryScoresZero(t *testing.T) {
	docs := []domain.Document{{Title: "Anything", Content: "Anything at all."}}

	ranked := testRanker().rank(docs, "   ")

	require.Len(t, ranked, 1)
	assert.Zero(t, ranked[0].RelevanceScore)
	assert.Empty(t, ranked[0].Highlights)
}

func TestRank_PreservesInputOrder(t *testing.T) {
	docs := []domain.Document{
		{ID: "a", Title: "same", Content: "same"},
		{ID: "b", Title: "same", Content: "same"},
		{ID: "c", Title: "same", Content: "same"},
	}

	ranked := testRanker().rank(docs, "same")

	require.Len(t, ranked, 3)
	assert.Equal(t, "a", ranked[0].Document.ID)
	assert.Equal(t, "b", ranked[1].Document.ID)
	assert.Equal(t, "c", ranked[2].Document.ID)
}

func TestRank_ConfidenceBoosts(t *testing.T) {
	now := fixedClock()

	tests := []struct {
		name       string
		doc        domain.Document
		confidence float64
	}{
		{
			name: "no boosts",
			doc: domain.Document{
				Title:     "Other",
				Content:   "Contains the query term budget once.",
				UpdatedAt: now().Add(-90 * 24 * time.Hour),
			},
			// Content verbatim match only: 0.5, no boosts.
			confidence: 0.5,
		},
		{
			name: "exact title boost",
			doc: domain.Document{
				Title:     "Budget",
				Content:   "Nothing relevant here.",
				UpdatedAt: now().Add(-90 * 24 * time.Hour),
			},
			// Title 0.4 + exact-title boost 0.2.
			confidence: 0.6,
		},
		{
			name: "recency boost",
			doc: domain.Document{
				Title:     "Other",
				Content:   "Contains the query term budget once.",
				UpdatedAt: now().Add(-10 * 24 * time.Hour),
			},
			confidence: 0.6,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ranked := testRanker().rank([]domain.Document{tt.doc}, "budget")
			require.Len(t, ranked, 1)
			assert.InDelta(t, tt.confidence, ranked[0].Confidence, 1e-9)
		})
	}
}

func TestTextSimilarity(t *testing.T) {
	tests := []struct {
		name     string
		field    string
		query    string
		expected float64
	}{
		{"verbatim match", "The vacation policy document", "vacation policy", 1.0},
		{"case insensitive", "VACATION POLICY", "vacation policy", 1.0},
		{"partial word overlap", "the policy archive", "vacation policy", 0.5},
		{"no overlap", "deployment runbook", "vacation policy", 0.0},
		{"empty query", "anything", "", 0.0},
		{"empty field", "", "vacation", 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, textSimilarity(tt.field, tt.query), 1e-9)
		})
	}
}

func TestTagRelevance(t *testing.T) {
	tests := []struct {
		name     string
		tags     []string
		query    string
		expected float64
	}{
		{"no tags", nil, "policy", 0.0},
		{"one of two matches", []string{"policy", "travel"}, "policy", 0.5},
		{"substring match", []string{"hr-policies"}, "policies", 1.0},
		{"no match", []string{"ops"}, "policy", 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, tagRelevance(tt.tags, tt.query), 1e-9)
		})
	}
}

func TestGenerateHighlights(t *testing.T) {
	t.Run("caps at three snippets", func(t *testing.T) {
		content := "Budget one. Budget two. Budget three. Budget four. Budget five."
		highlights := generateHighlights(content, "budget")
		assert.Len(t, highlights, 3)
	})

	t.Run("no match yields none", func(t *testing.T) {
		highlights := generateHighlights("Nothing relevant here.", "budget")
		assert.Empty(t, highlights)
	})

	t.Run("long sentences are truncated", func(t *testing.T) {
		long := "budget "
		for len(long) < 400 {
			long += "and more words "
		}
		highlights := generateHighlights(long+".", "budget")
		require.NotEmpty(t, highlights)
		assert.LessOrEqual(t, len(highlights[0]), 203)
	})
}

func TestLexicalScore(t *testing.T) {
	t.Run("title match at start scores highest", func(t *testing.T) {
		front := &domain.Document{Title: "vacation policy", Content: "other text"}
		back := &domain.Document{Title: "company handbook vacation", Content: "other text"}

		assert.Greater(t, lexicalScore(front, "vacation"), lexicalScore(back, "vacation"))
	})

	t.Run("title outweighs content", func(t *testing.T) {
		inTitle := &domain.Document{Title: "vacation", Content: "nothing"}
		inContent := &domain.Document{Title: "nothing", Content: "vacation"}

		assert.Greater(t, lexicalScore(inTitle, "vacation"), lexicalScore(inContent, "vacation"))
	})

	t.Run("no match scores zero", func(t *testing.T) {
		doc := &domain.Document{Title: "alpha", Content: "beta"}
		assert.Zero(t, lexicalScore(doc, "gamma"))
	})
}
