package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/quarry-labs/corpus/internal/core/domain"
)

// SearchInput is the input schema for the search tool.
type SearchInput struct {
	Query    string   `json:"query" jsonschema:"the search query to find documents"`
	Limit    int      `json:"limit,omitempty" jsonschema:"maximum number of results to return (default 10)"`
	Category string   `json:"category,omitempty" jsonschema:"restrict results to a document category"`
	Tags     []string `json:"tags,omitempty" jsonschema:"require all given tags on matching documents"`
}

// SearchOutput is the output schema for the search tool.
type SearchOutput struct {
	Results []SearchResultOutput `json:"results"`
	Count   int                  `json:"count"`
}

// SearchResultOutput represents a single search result.
type SearchResultOutput struct {
	DocumentID string   `json:"document_id"`
	Title      string   `json:"title"`
	Category   string   `json:"category,omitempty"`
	Relevance  float64  `json:"relevance"`
	Confidence float64  `json:"confidence"`
	Highlights []string `json:"highlights,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search",
		Description: "Search across all ingested documents",
	}, s.handleSearch)
}

// handleSearch handles the search tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	filters := domain.SearchFilters{
		Limit:    input.Limit,
		Category: input.Category,
		Tags:     input.Tags,
	}

	results, err := s.ports.Retriever.RetrieveDocuments(ctx, input.Query, filters)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	output := SearchOutput{
		Results: make([]SearchResultOutput, len(results)),
		Count:   len(results),
	}

	for i := range results {
		output.Results[i] = SearchResultOutput{
			DocumentID: results[i].Document.ID,
			Title:      results[i].Document.Title,
			Category:   results[i].Document.Category,
			Relevance:  results[i].RelevanceScore,
			Confidence: results[i].Confidence,
			Highlights: results[i].Highlights,
		}
	}

	return nil, output, nil
}
