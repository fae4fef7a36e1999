// Package memory provides an in-memory document store. It backs tests
// and single-shot runs that do not need persistence across processes.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/quarry-labs/corpus/internal/core/domain"
	"github.com/quarry-labs/corpus/internal/core/ports/driven"
)

// Ensure DocumentStore implements the interface.
var _ driven.DocumentStore = (*DocumentStore)(nil)

// DocumentStore is an in-memory implementation of driven.DocumentStore.
type DocumentStore struct {
	mu        sync.RWMutex
	documents map[string]domain.Document
	chunks    map[string][]domain.Chunk
	order     []string
}

// NewDocumentStore creates a new in-memory document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		documents: make(map[string]domain.Document),
		chunks:    make(map[string][]domain.Chunk),
	}
}

// SaveDocument stores or updates a document.
func (s *DocumentStore) SaveDocument(_ context.Context, doc *domain.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.documents[doc.ID]; !ok {
		s.order = append(s.order, doc.ID)
	}
	s.documents[doc.ID] = *doc
	return nil
}

// FindDocument retrieves a document by ID.
func (s *DocumentStore) FindDocument(_ context.Context, id string) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.documents[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &doc, nil
}

// ListDocuments returns all documents in insertion order.
func (s *DocumentStore) ListDocuments(_ context.Context) ([]domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	docs := make([]domain.Document, 0, len(s.documents))
	for _, id := range s.order {
		if doc, ok := s.documents[id]; ok {
			docs = append(docs, doc)
		}
	}
	return docs, nil
}

// ListChunks retrieves all chunks for a document, ordered by index.
func (s *DocumentStore) ListChunks(_ context.Context, documentID string) ([]domain.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	chunks := s.chunks[documentID]
	out := make([]domain.Chunk, len(chunks))
	copy(out, chunks)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out, nil
}

// ReplaceChunks replaces the whole chunk set of a document.
func (s *DocumentStore) ReplaceChunks(_ context.Context, documentID string, chunks []domain.Chunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	replacement := make([]domain.Chunk, len(chunks))
	copy(replacement, chunks)
	s.chunks[documentID] = replacement
	return nil
}

// DeleteDocument removes a document and its chunks.
func (s *DocumentStore) DeleteDocument(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.documents[id]; !ok {
		return fmt.Errorf("%w: document %s", domain.ErrNotFound, id)
	}
	delete(s.documents, id)
	delete(s.chunks, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// SearchText performs a lexical substring search over title and
// content, honouring the given filters.
func (s *DocumentStore) SearchText(
	_ context.Context, query string, filters domain.SearchFilters,
) ([]domain.Document, error) {
	queryLower := strings.ToLower(strings.TrimSpace(query))

	s.mu.RLock()
	defer s.mu.RUnlock()

	var matches []domain.Document
	for _, id := range s.order {
		doc, ok := s.documents[id]
		if !ok {
			continue
		}
		if !filters.Match(&doc) {
			continue
		}
		if queryLower == "" {
			continue
		}
		if strings.Contains(strings.ToLower(doc.Title), queryLower) ||
			strings.Contains(strings.ToLower(doc.Content), queryLower) {
			matches = append(matches, doc)
		}
	}

	return matches, nil
}

// Close releases resources.
func (s *DocumentStore) Close() error {
	return nil
}
