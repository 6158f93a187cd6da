package driving

import (
	"context"

	"github.com/custodia-labs/kanoonsetu/internal/core/domain"
)

// AdvisoryService answers legal questions and analyses documents against
// Indian case law. Failures are returned as *domain.AdvisoryError.
type AdvisoryService interface {
	// Ask answers a free-text legal question.
	Ask(ctx context.Context, req domain.AskRequest) (*domain.Advisory, error)

	// Analyze extracts an uploaded document and produces a structured analysis.
	Analyze(ctx context.Context, req domain.AnalyzeRequest) (*domain.Advisory, error)
}

// ExtractionService converts uploaded documents into plain text.
type ExtractionService interface {
	// Extract dispatches the document to the extractor for its format.
	Extract(ctx context.Context, doc domain.SourceDocument) (domain.ExtractedText, error)

	// SupportedFormats returns the formats with a registered extractor.
	SupportedFormats() []domain.Format
}
