// Package domain defines the core business entities for corpus.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: An ingested document with metadata
//   - Chunk: The unit of embedding and retrieval within a document
//   - RawDocument: Opaque bytes plus a declared type, before extraction
//   - SearchResult / RankedDocument: Retrieval outputs
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
