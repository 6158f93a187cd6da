package driven

import (
	"context"

	"github.com/custodia-labs/kanoonsetu/internal/core/domain"
)

// Extractor converts the bytes of one or more document formats into plain text.
// Implementations wrap parse failures with domain.ErrExtractionFailure.
type Extractor interface {
	// SupportedFormats returns the formats this extractor handles.
	SupportedFormats() []domain.Format

	// Extract converts a document into plain text.
	// A document that legitimately contains no text yields an empty result, not an error.
	Extract(ctx context.Context, doc domain.SourceDocument) (domain.ExtractedText, error)
}
