// Package pdf extracts text from PDF uploads page by page.
package pdf

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/custodia-labs/kanoonsetu/internal/core/domain"
	"github.com/custodia-labs/kanoonsetu/internal/core/ports/driven"
	"github.com/custodia-labs/kanoonsetu/internal/extractors"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor handles PDF documents.
type Extractor struct{}

// New creates a new PDF extractor.
func New() *Extractor {
	return &Extractor{}
}

// SupportedFormats returns the formats this extractor handles.
func (e *Extractor) SupportedFormats() []domain.Format {
	return []domain.Format{domain.FormatPDF}
}

// Extract concatenates the text of every page in page order.
// Pages without extractable text contribute nothing.
func (e *Extractor) Extract(ctx context.Context, doc domain.SourceDocument) (result domain.ExtractedText, err error) {
	// The parser panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			result = domain.ExtractedText{}
			err = fmt.Errorf("%w: pdf parser panic: %v", domain.ErrExtractionFailure, r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(doc.Content), int64(len(doc.Content)))
	if err != nil {
		return domain.ExtractedText{}, fmt.Errorf("%w: open pdf: %w", domain.ErrExtractionFailure, err)
	}

	var text strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return domain.ExtractedText{}, fmt.Errorf("%w: %w", domain.ErrExtractionFailure, err)
		}

		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return domain.ExtractedText{}, fmt.Errorf("%w: page %d: %w", domain.ErrExtractionFailure, i, err)
		}
		text.WriteString(pageText)
	}

	return domain.ExtractedText{
		Text:   extractors.Sanitise(text.String()),
		Format: domain.FormatPDF,
	}, nil
}
