package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/quarry-labs/corpus/internal/core/domain"
	"github.com/quarry-labs/corpus/internal/core/ports/driven"
	"github.com/quarry-labs/corpus/internal/core/ports/driving"
	"github.com/quarry-labs/corpus/internal/logger"
)

// Ensure Ingestor implements the interface.
var _ driving.Ingestor = (*Ingestor)(nil)

// DefaultEmbedConcurrency bounds in-flight embedding requests while
// ingesting a single document's chunks.
const DefaultEmbedConcurrency = 4

// Splitter turns document content into chunks. Implemented by the
// chunker package.
type Splitter interface {
	Chunk(content, sourceTitle string) []domain.Chunk
}

// Ingestor runs the ingestion pipeline: extract raw bytes, chunk the
// text, embed the chunks and push vectors into the index, with full
// chunk replacement in the persistence store.
//
// Ingestion of one document's chunks is not atomic: cancellation can
// leave a partial chunk set behind. Re-running ingestion replaces the
// whole set and reaches consistency.
type Ingestor struct {
	extractors  driven.ExtractorRegistry
	splitter    Splitter
	embedder    driven.Embedder
	index       driven.VectorIndex
	docStore    driven.DocumentStore
	concurrency int
	now         func() time.Time
}

// IngestorOption configures the ingestor.
type IngestorOption func(*Ingestor)

// WithEmbedConcurrency sets the bound on in-flight embedding requests.
func WithEmbedConcurrency(n int) IngestorOption {
	return func(i *Ingestor) {
		if n > 0 {
			i.concurrency = n
		}
	}
}

// NewIngestor creates an ingestor over the given collaborators.
func NewIngestor(
	extractors driven.ExtractorRegistry,
	splitter Splitter,
	embedder driven.Embedder,
	index driven.VectorIndex,
	docStore driven.DocumentStore,
	opts ...IngestorOption,
) *Ingestor {
	ing := &Ingestor{
		extractors:  extractors,
		splitter:    splitter,
		embedder:    embedder,
		index:       index,
		docStore:    docStore,
		concurrency: DefaultEmbedConcurrency,
		now:         time.Now,
	}

	for _, opt := range opts {
		opt(ing)
	}

	return ing
}

// IngestDocument processes one raw document through the full pipeline.
// Unsupported types fail before any extraction is attempted. When the
// raw document carries a SourceRef matching an already-stored document,
// that document is re-ingested in place: same id, bumped version, chunk
// set fully replaced.
func (i *Ingestor) IngestDocument(ctx context.Context, raw domain.RawDocument) (*domain.Document, error) {
	if !domain.ValidType(raw.Type) {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedType, raw.Type)
	}

	extractor, err := i.extractors.ForType(raw.Type)
	if err != nil {
		return nil, err
	}

	result, err := extractor.Extract(ctx, &raw)
	if err != nil {
		return nil, err
	}

	doc, err := i.buildDocument(ctx, &raw, result)
	if err != nil {
		return nil, err
	}

	logger.Section("Ingestion")
	logger.Info("Ingesting %q (%s, %d chars)", doc.Title, doc.Type, len(doc.Content))

	chunks := i.splitter.Chunk(doc.Content, doc.Title)
	for idx := range chunks {
		chunks[idx].DocumentID = doc.ID
	}
	logger.Debug("Split into %d chunks", len(chunks))

	if err := i.embedChunks(ctx, chunks); err != nil {
		return nil, err
	}

	if err := i.docStore.SaveDocument(ctx, doc); err != nil {
		return nil, fmt.Errorf("save document: %w", err)
	}

	// Drop stale vectors before the store forgets the old chunk ids.
	if err := i.dropVectors(ctx, doc.ID); err != nil {
		return nil, err
	}

	if err := i.docStore.ReplaceChunks(ctx, doc.ID, chunks); err != nil {
		return nil, fmt.Errorf("replace chunks: %w", err)
	}

	for idx := range chunks {
		meta := map[string]any{
			metaDocumentID: doc.ID,
			metaChunkIndex: chunks[idx].Index,
			metaCategory:   doc.Category,
			metaSection:    chunks[idx].Section,
		}
		if err := i.index.Store(ctx, chunks[idx].ID, chunks[idx].Embedding, meta); err != nil {
			return nil, fmt.Errorf("index chunk %d: %w", idx, err)
		}
	}

	logger.Info("Ingested %s: %d chunks indexed", doc.ID, len(chunks))
	return doc, nil
}

// IngestBatch processes documents independently: one malformed document
// fails its own slot and never aborts the rest.
func (i *Ingestor) IngestBatch(ctx context.Context, raws []domain.RawDocument) []driving.IngestResult {
	results := make([]driving.IngestResult, len(raws))
	for idx := range raws {
		doc, err := i.IngestDocument(ctx, raws[idx])
		if err != nil {
			logger.Warn("Batch ingest: document %d failed: %v", idx, err)
		}
		results[idx] = driving.IngestResult{Document: doc, Err: err}
	}
	return results
}

// RemoveDocument deletes the document's vectors and its stored record.
// Vector deletion is idempotent, so removing an already-removed
// document only fails when the store does.
func (i *Ingestor) RemoveDocument(ctx context.Context, id string) error {
	if err := i.dropVectors(ctx, id); err != nil {
		return err
	}
	if err := i.docStore.DeleteDocument(ctx, id); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	return nil
}

// buildDocument assembles the Document record, reusing identity and
// creation time when a SourceRef matches an existing document.
func (i *Ingestor) buildDocument(
	ctx context.Context, raw *domain.RawDocument, result *driven.ExtractResult,
) (*domain.Document, error) {
	title := raw.Title
	if title == "" {
		title = result.Title
	}

	now := i.now()
	doc := &domain.Document{
		ID:        uuid.New().String(),
		Title:     title,
		Content:   result.Content,
		Type:      raw.Type,
		Category:  raw.Category,
		Tags:      domain.NormaliseTags(raw.Tags),
		SourceRef: raw.SourceRef,
		Version:   1,
		Metadata:  raw.Metadata,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if raw.SourceRef == "" {
		return doc, nil
	}

	existing, err := i.findBySourceRef(ctx, raw.SourceRef)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		doc.ID = existing.ID
		doc.Version = existing.Version + 1
		doc.CreatedAt = existing.CreatedAt
	}

	return doc, nil
}

func (i *Ingestor) findBySourceRef(ctx context.Context, ref string) (*domain.Document, error) {
	docs, err := i.docStore.ListDocuments(ctx)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	for idx := range docs {
		if docs[idx].SourceRef == ref {
			return &docs[idx], nil
		}
	}
	return nil, nil
}

// embedChunks fills in chunk embeddings, issuing at most i.concurrency
// provider calls at a time. Completion order is irrelevant: each result
// lands at its chunk's slot.
func (i *Ingestor) embedChunks(ctx context.Context, chunks []domain.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	sem := make(chan struct{}, i.concurrency)
	errs := make([]error, len(chunks))
	var wg sync.WaitGroup

	for idx := range chunks {
		if ctx.Err() != nil {
			break
		}

		wg.Add(1)
		sem <- struct{}{}
		go func(idx int) {
			defer wg.Done()
			defer func() { <-sem }()

			embedding, err := i.embedder.Embed(ctx, chunks[idx].Content)
			if err != nil {
				errs[idx] = fmt.Errorf("embed chunk %d: %w", idx, err)
				return
			}
			chunks[idx].Embedding = embedding
		}(idx)
	}

	wg.Wait()

	if err := ctx.Err(); err != nil {
		return err
	}
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// dropVectors removes the index entries of a document's current chunks.
func (i *Ingestor) dropVectors(ctx context.Context, documentID string) error {
	old, err := i.docStore.ListChunks(ctx, documentID)
	if err != nil {
		return fmt.Errorf("list chunks: %w", err)
	}
	for idx := range old {
		if err := i.index.Delete(ctx, old[idx].ID); err != nil {
			return fmt.Errorf("delete vector %s: %w", old[idx].ID, err)
		}
	}
	return nil
}
