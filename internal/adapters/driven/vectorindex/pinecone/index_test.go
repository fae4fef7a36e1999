package pinecone

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quarry-labs/corpus/internal/core/domain"
)

func newTestIndex(t *testing.T, handler http.HandlerFunc) *Index {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	idx, err := New(Config{BaseURL: srv.URL, APIKey: "test-key", Namespace: "docs"})
	require.NoError(t, err)
	return idx
}

func TestNew(t *testing.T) {
	t.Run("requires base URL", func(t *testing.T) {
		_, err := New(Config{APIKey: "k"})
		assert.Error(t, err)
	})

	t.Run("requires API key", func(t *testing.T) {
		_, err := New(Config{BaseURL: "http://localhost"})
		assert.Error(t, err)
	})
}

func TestStore(t *testing.T) {
	var captured upsertRequest

	idx := newTestIndex(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/vectors/upsert", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("Api-Key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.WriteHeader(http.StatusOK)
	})

	err := idx.Store(context.Background(), "chunk-1", []float32{0.1, 0.2}, map[string]any{
		"document_id": "doc-1",
	})
	require.NoError(t, err)

	require.Len(t, captured.Vectors, 1)
	assert.Equal(t, "chunk-1", captured.Vectors[0].ID)
	assert.Equal(t, []float32{0.1, 0.2}, captured.Vectors[0].Values)
	assert.Equal(t, "doc-1", captured.Vectors[0].Metadata["document_id"])
	assert.Equal(t, "docs", captured.Namespace)
}

func TestSearch(t *testing.T) {
	var captured queryRequest

	idx := newTestIndex(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/query", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		resp := map[string]any{
			"matches": []map[string]any{
				{"id": "chunk-1", "score": 0.92, "metadata": map[string]any{"document_id": "doc-1"}},
				{"id": "chunk-2", "score": 0.71, "metadata": map[string]any{"document_id": "doc-2"}},
			},
		}
		json.NewEncoder(w).Encode(resp)
	})

	results, err := idx.Search(context.Background(), []float32{0.5, 0.5}, 5, map[string]any{"category": "hr"})
	require.NoError(t, err)

	assert.Equal(t, 5, captured.TopK)
	assert.True(t, captured.IncludeMetadata)
	assert.Equal(t, "hr", captured.Filter["category"])

	require.Len(t, results, 2)
	assert.Equal(t, "chunk-1", results[0].ID)
	assert.InDelta(t, 0.92, results[0].Score, 1e-9)
	assert.Equal(t, "doc-1", results[0].Metadata["document_id"])
}

func TestSearchZeroLimit(t *testing.T) {
	idx := newTestIndex(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected for zero limit")
	})

	results, err := idx.Search(context.Background(), []float32{1}, 0, nil)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearchClampsScores(t *testing.T) {
	idx := newTestIndex(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"matches": []map[string]any{
				{"id": "a", "score": 1.3},
				{"id": "b", "score": -0.1},
			},
		})
	})

	results, err := idx.Search(context.Background(), []float32{1}, 10, nil)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, 1.0, results[0].Score)
	assert.Equal(t, 0.0, results[1].Score)
}

func TestDelete(t *testing.T) {
	var captured deleteRequest

	idx := newTestIndex(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/vectors/delete", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.WriteHeader(http.StatusOK)
	})

	require.NoError(t, idx.Delete(context.Background(), "chunk-9"))
	assert.Equal(t, []string{"chunk-9"}, captured.IDs)
}

func TestErrorsWrapVectorIndex(t *testing.T) {
	t.Run("server error", func(t *testing.T) {
		idx := newTestIndex(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "index unavailable", http.StatusServiceUnavailable)
		})

		_, err := idx.Search(context.Background(), []float32{1}, 3, nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrVectorIndex)
		assert.Contains(t, err.Error(), "503")
	})

	t.Run("malformed response", func(t *testing.T) {
		idx := newTestIndex(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("not json"))
		})

		_, err := idx.Search(context.Background(), []float32{1}, 3, nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrVectorIndex)
	})

	t.Run("unreachable host", func(t *testing.T) {
		idx, err := New(Config{BaseURL: "http://127.0.0.1:1", APIKey: "k"})
		require.NoError(t, err)

		storeErr := idx.Store(context.Background(), "id", []float32{1}, nil)
		require.Error(t, storeErr)
		assert.ErrorIs(t, storeErr, domain.ErrVectorIndex)
	})
}
