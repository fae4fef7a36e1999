package mcp

import (
	"github.com/quarry-labs/corpus/internal/core/ports/driven"
	"github.com/quarry-labs/corpus/internal/core/ports/driving"
)

// Ports aggregates the interfaces the MCP server needs. It is the
// single injection point for dependency wiring.
type Ports struct {
	// Retriever answers search requests.
	Retriever driving.Retriever

	// Documents backs the document resources. Optional: without it
	// only the search tool is served.
	Documents driven.DocumentStore
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Retriever == nil {
		return ErrMissingRetriever
	}
	return nil
}
