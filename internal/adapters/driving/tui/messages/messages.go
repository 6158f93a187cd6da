// Package messages defines Bubbletea message types for the TUI.
package messages

import (
	"github.com/custodia-labs/kanoonsetu/internal/core/domain"
)

// AdvisoryCompleted carries the outcome of one question.
type AdvisoryCompleted struct {
	Query    string
	Advisory *domain.Advisory
	Err      error
}
