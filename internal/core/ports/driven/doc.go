// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - Extractor: Converts raw bytes of a declared type into text
//   - ExtractorRegistry: Selects the extractor for a document type
//   - DocumentStore: Document and chunk persistence
//   - VectorIndex: Vector storage and nearest-neighbour search
//   - Embedder: Generates vector embeddings
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or extractor package
package driven
