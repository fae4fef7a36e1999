package domain

import "errors"

// Domain errors represent pipeline failures at the I/O boundaries.
// Chunking and ranking never fail for malformed-but-present input;
// they degrade to empty or zero results instead.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates a declared document type outside
	// the supported set. Ingestion fails fast before extraction.
	ErrUnsupportedType = errors.New("unsupported document type")

	// ErrExtraction indicates raw bytes could not be converted to text
	// for the declared type. Fatal for the document, never for a batch.
	ErrExtraction = errors.New("extraction failed")

	// ErrEmbeddingProvider indicates the external embedding call failed
	// or returned malformed data. Not retried internally; retry policy
	// belongs to the caller.
	ErrEmbeddingProvider = errors.New("embedding provider error")

	// ErrVectorIndex indicates a vector index backend failure. Empty
	// results are reserved for zero matches, never for failures.
	ErrVectorIndex = errors.New("vector index error")
)
