package mcp

import (
	"github.com/custodia-labs/kanoonsetu/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Advisory answers questions and analyses documents.
	Advisory driving.AdvisoryService

	// Settings exposes the current configuration as a resource.
	Settings driving.SettingsService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Advisory == nil {
		return ErrMissingAdvisoryService
	}
	// Settings is optional
	return nil
}
