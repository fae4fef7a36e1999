package domain

import (
	"strings"
	"time"
)

// DocumentType is the declared file type of an ingested document.
// The set is closed: raw bytes of any other type are rejected before
// extraction is attempted.
type DocumentType string

const (
	TypePDF      DocumentType = "pdf"
	TypeDOCX     DocumentType = "docx"
	TypeText     DocumentType = "txt"
	TypeMarkdown DocumentType = "md"
	TypeHTML     DocumentType = "html"
)

// ValidType reports whether t belongs to the supported type set.
func ValidType(t DocumentType) bool {
	switch t {
	case TypePDF, TypeDOCX, TypeText, TypeMarkdown, TypeHTML:
		return true
	}
	return false
}

// Document represents an ingested document with metadata.
// It is the canonical representation after extraction.
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// Title is the human-readable title.
	Title string

	// Content is the full text content after extraction.
	// This is the complete document text before chunking.
	Content string

	// Type is the declared file type the document was ingested as.
	Type DocumentType

	// Category is a free-form business category used for filtering.
	Category string

	// Tags is a deduplicated, lowercased set of labels.
	Tags []string

	// SourceRef is an optional reference to the external origin
	// (file path, URL, ticket id).
	SourceRef string

	// Version is bumped on re-ingestion.
	Version int

	// Metadata contains arbitrary key-value pairs.
	Metadata map[string]any

	// CreatedAt is when the document was first ingested.
	CreatedAt time.Time

	// UpdatedAt is when the document was last re-ingested.
	UpdatedAt time.Time
}

// Chunk represents a bounded contiguous slice of a document's text.
// Chunks are the unit of embedding and retrieval; a chunk cannot
// outlive its document.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// DocumentID links to the parent Document.
	DocumentID string

	// Index is the zero-based ordinal position within the document.
	Index int

	// Content is the text content of this chunk.
	Content string

	// StartOffset and EndOffset are character offsets into the
	// document content. Ranges are non-decreasing in Index and may
	// overlap by at most the configured overlap window.
	StartOffset int
	EndOffset   int

	// WordCount is the number of whitespace-separated words.
	WordCount int

	// TokenCount is a crude token estimate (ceil of char length / 4).
	TokenCount int

	// Section is a best-effort label of the section the chunk falls in.
	Section string

	// Embedding is the vector representation for semantic search.
	Embedding []float32

	// Metadata contains chunk-specific key-value pairs.
	Metadata map[string]any
}

// RawDocument represents opaque bytes handed to ingestion together
// with a declared type. It is the input before extraction.
type RawDocument struct {
	// Title is the caller-declared title (may be empty; extraction
	// fills in a best-effort title when possible).
	Title string

	// Type is the declared file type.
	Type DocumentType

	// Content is the raw bytes.
	Content []byte

	// Category, Tags and SourceRef carry straight through to the
	// resulting Document.
	Category  string
	Tags      []string
	SourceRef string

	// Metadata contains caller-specific key-value pairs.
	Metadata map[string]any
}

// NormaliseTags lowercases, trims and deduplicates tags, preserving
// first-seen order.
func NormaliseTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
