// Package pinecone provides a remote vector index adapter speaking the
// Pinecone-style HTTP API: upsert with {id, values, metadata}, query
// with {vector, topK, includeMetadata, filter}, delete with {ids}.
package pinecone

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/quarry-labs/corpus/internal/core/domain"
	"github.com/quarry-labs/corpus/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// DefaultTimeout is the per-request timeout.
const DefaultTimeout = 30 * time.Second

// Config holds configuration for the remote index.
type Config struct {
	// BaseURL is the index endpoint (required), e.g.
	// https://myindex-abc123.svc.us-east-1.pinecone.io
	BaseURL string

	// APIKey authenticates requests (required).
	APIKey string

	// Namespace scopes all operations. Optional.
	Namespace string

	// Timeout is the request timeout (default: 30s).
	Timeout time.Duration
}

// Index talks to a remote managed vector index over HTTP.
type Index struct {
	client    *http.Client
	baseURL   string
	apiKey    string
	namespace string
}

type vectorPayload struct {
	ID       string         `json:"id"`
	Values   []float32      `json:"values"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

type upsertRequest struct {
	Vectors   []vectorPayload `json:"vectors"`
	Namespace string          `json:"namespace,omitempty"`
}

type queryRequest struct {
	Vector          []float32      `json:"vector"`
	TopK            int            `json:"topK"`
	IncludeMetadata bool           `json:"includeMetadata"`
	Filter          map[string]any `json:"filter,omitempty"`
	Namespace       string         `json:"namespace,omitempty"`
}

type queryResponse struct {
	Matches []struct {
		ID       string         `json:"id"`
		Score    float64        `json:"score"`
		Metadata map[string]any `json:"metadata"`
	} `json:"matches"`
}

type deleteRequest struct {
	IDs       []string `json:"ids"`
	Namespace string   `json:"namespace,omitempty"`
}

// New creates a remote index client.
func New(cfg Config) (*Index, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("pinecone: base URL is required")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("pinecone: API key is required")
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Index{
		client:    &http.Client{Timeout: cfg.Timeout},
		baseURL:   cfg.BaseURL,
		apiKey:    cfg.APIKey,
		namespace: cfg.Namespace,
	}, nil
}

// Store upserts a vector with its metadata.
func (idx *Index) Store(ctx context.Context, id string, vector []float32, metadata map[string]any) error {
	req := upsertRequest{
		Vectors:   []vectorPayload{{ID: id, Values: vector, Metadata: metadata}},
		Namespace: idx.namespace,
	}
	return idx.post(ctx, "/vectors/upsert", req, nil)
}

// Update is identical to Store: the remote API upserts.
func (idx *Index) Update(ctx context.Context, id string, vector []float32, metadata map[string]any) error {
	return idx.Store(ctx, id, vector, metadata)
}

// Search queries the remote index for the nearest neighbours.
func (idx *Index) Search(
	ctx context.Context, vector []float32, limit int, filters map[string]any,
) ([]domain.SearchResult, error) {
	if limit <= 0 {
		return []domain.SearchResult{}, nil
	}

	req := queryRequest{
		Vector:          vector,
		TopK:            limit,
		IncludeMetadata: true,
		Filter:          filters,
		Namespace:       idx.namespace,
	}

	var resp queryResponse
	if err := idx.post(ctx, "/query", req, &resp); err != nil {
		return nil, err
	}

	results := make([]domain.SearchResult, len(resp.Matches))
	for i, m := range resp.Matches {
		results[i] = domain.SearchResult{
			ID:       m.ID,
			Score:    clampScore(m.Score),
			Metadata: m.Metadata,
		}
	}
	return results, nil
}

// Delete removes a vector. The remote API treats unknown ids as a
// no-op, which matches the port contract.
func (idx *Index) Delete(ctx context.Context, id string) error {
	return idx.post(ctx, "/vectors/delete", deleteRequest{IDs: []string{id}, Namespace: idx.namespace}, nil)
}

// Close releases resources.
func (idx *Index) Close() error {
	return nil
}

// post sends a JSON request and decodes the response into out when out
// is non-nil. All transport and status failures wrap
// domain.ErrVectorIndex.
func (idx *Index) post(ctx context.Context, path string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, idx.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Api-Key", idx.apiKey)

	resp, err := idx.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrVectorIndex, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %s: read response: %v", domain.ErrVectorIndex, path, err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %s: status %d: %s", domain.ErrVectorIndex, path, resp.StatusCode, string(raw))
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("%w: %s: malformed response: %v", domain.ErrVectorIndex, path, err)
		}
	}
	return nil
}

// clampScore keeps remote scores inside the contract's [0,1] range.
func clampScore(s float64) float64 {
	if s < 0 {
		return 0
	}
	if s > 1 {
		return 1
	}
	return s
}
