// Package tui provides an interactive terminal user interface for KanoonSetu.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/kanoonsetu/internal/core/ports/driving"
)

// Ports aggregates the driving ports used by the TUI.
type Ports struct {
	// Advisory answers legal questions.
	Advisory driving.AdvisoryService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil || p.Advisory == nil {
		return ErrMissingAdvisoryService
	}
	return nil
}
