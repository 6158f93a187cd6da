// Package mcp provides an MCP (Model Context Protocol) server adapter for KanoonSetu.
// It lets AI assistants ask legal questions and analyse documents against
// Indian case law.
package mcp

import "errors"

// ErrMissingAdvisoryService is returned when the advisory service is not provided.
var ErrMissingAdvisoryService = errors.New("mcp: advisory service is required")
