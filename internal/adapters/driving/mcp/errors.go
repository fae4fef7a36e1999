// Package mcp provides an MCP (Model Context Protocol) server adapter
// for corpus. It lets AI assistants search the ingested documents.
package mcp

import "errors"

// ErrMissingRetriever is returned when the retriever is not provided.
var ErrMissingRetriever = errors.New("mcp: retriever is required")
