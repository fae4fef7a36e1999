package mcp

import (
	"context"

	"github.com/quarry-labs/corpus/internal/core/domain"
)

// mockRetriever is a mock implementation of driving.Retriever.
type mockRetriever struct {
	results []domain.RankedDocument
	hits    []domain.SearchResult
	err     error

	lastQuery   string
	lastFilters domain.SearchFilters
}

func (m *mockRetriever) RetrieveDocuments(
	_ context.Context,
	query string,
	filters domain.SearchFilters,
) ([]domain.RankedDocument, error) {
	m.lastQuery = query
	m.lastFilters = filters
	return m.results, m.err
}

func (m *mockRetriever) SearchSemantic(_ context.Context, _ string, _ int) ([]domain.SearchResult, error) {
	return m.hits, m.err
}

func (m *mockRetriever) RankDocuments(_ []domain.Document, _ string) []domain.RankedDocument {
	return m.results
}

// mockDocumentStore is a mock implementation of driven.DocumentStore.
type mockDocumentStore struct {
	documents []domain.Document
	document  *domain.Document
	err       error
}

func (m *mockDocumentStore) SaveDocument(_ context.Context, _ *domain.Document) error {
	return m.err
}

func (m *mockDocumentStore) FindDocument(_ context.Context, _ string) (*domain.Document, error) {
	return m.document, m.err
}

func (m *mockDocumentStore) ListDocuments(_ context.Context) ([]domain.Document, error) {
	return m.documents, m.err
}

func (m *mockDocumentStore) ListChunks(_ context.Context, _ string) ([]domain.Chunk, error) {
	return nil, m.err
}

func (m *mockDocumentStore) ReplaceChunks(_ context.Context, _ string, _ []domain.Chunk) error {
	return m.err
}

func (m *mockDocumentStore) DeleteDocument(_ context.Context, _ string) error {
	return m.err
}

func (m *mockDocumentStore) SearchText(
	_ context.Context,
	_ string,
	_ domain.SearchFilters,
) ([]domain.Document, error) {
	return m.documents, m.err
}

func (m *mockDocumentStore) Close() error {
	return nil
}
