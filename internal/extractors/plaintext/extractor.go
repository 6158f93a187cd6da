package plaintext

import (
	"bytes"
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/custodia-labs/kanoonsetu/internal/core/domain"
	"github.com/custodia-labs/kanoonsetu/internal/core/ports/driven"
	"github.com/custodia-labs/kanoonsetu/internal/extractors"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Extractor handles plain UTF-8 text uploads.
type Extractor struct{}

// New creates a new plain text extractor.
func New() *Extractor {
	return &Extractor{}
}

// SupportedFormats returns the formats this extractor handles.
func (e *Extractor) SupportedFormats() []domain.Format {
	return []domain.Format{domain.FormatText}
}

// Extract decodes the document as UTF-8.
// Bytes that are not valid UTF-8 fail the extraction rather than being replaced.
func (e *Extractor) Extract(_ context.Context, doc domain.SourceDocument) (domain.ExtractedText, error) {
	content := bytes.TrimPrefix(doc.Content, utf8BOM)

	if !utf8.Valid(content) {
		return domain.ExtractedText{}, fmt.Errorf("%w: %s is not valid UTF-8", domain.ErrExtractionFailure, doc.Filename)
	}

	return domain.ExtractedText{
		Text:   extractors.Sanitise(string(content)),
		Format: domain.FormatText,
	}, nil
}
