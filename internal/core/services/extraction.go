package services

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/custodia-labs/kanoonsetu/internal/core/domain"
	"github.com/custodia-labs/kanoonsetu/internal/core/ports/driven"
	"github.com/custodia-labs/kanoonsetu/internal/core/ports/driving"
	"github.com/custodia-labs/kanoonsetu/internal/logger"
)

// Ensure ExtractionService implements the interface.
var _ driving.ExtractionService = (*ExtractionService)(nil)

// ExtractionService dispatches uploads to the extractor registered for their format.
type ExtractionService struct {
	mu         sync.RWMutex
	extractors map[domain.Format]driven.Extractor
}

// NewExtractionService creates an extraction service with the given extractors.
// Later registrations for the same format replace earlier ones.
func NewExtractionService(extractors ...driven.Extractor) *ExtractionService {
	s := &ExtractionService{
		extractors: make(map[domain.Format]driven.Extractor),
	}
	for _, e := range extractors {
		s.Register(e)
	}
	return s
}

// Register adds an extractor for every format it supports.
func (s *ExtractionService) Register(e driven.Extractor) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, f := range e.SupportedFormats() {
		s.extractors[f] = e
	}
}

// SupportedFormats returns the formats with a registered extractor.
func (s *ExtractionService) SupportedFormats() []domain.Format {
	s.mu.RLock()
	defer s.mu.RUnlock()

	formats := make([]domain.Format, 0, len(s.extractors))
	for f := range s.extractors {
		formats = append(formats, f)
	}
	sort.Slice(formats, func(i, j int) bool { return formats[i] < formats[j] })
	return formats
}

// Extract converts the document into plain text.
// Unknown extensions fail with domain.ErrUnsupportedFormat without touching
// any extractor. Extractor errors that carry no domain classification are
// reported as domain.ErrExtractionFailure.
func (s *ExtractionService) Extract(ctx context.Context, doc domain.SourceDocument) (domain.ExtractedText, error) {
	format, ok := doc.Format()
	if !ok {
		return domain.ExtractedText{}, fmt.Errorf("%w: %q", domain.ErrUnsupportedFormat, doc.Extension())
	}

	s.mu.RLock()
	extractor := s.extractors[format]
	s.mu.RUnlock()
	if extractor == nil {
		return domain.ExtractedText{}, fmt.Errorf("%w: no extractor for %s", domain.ErrUnsupportedFormat, format)
	}

	logger.Debug("Extracting %s (%s, %d bytes)", doc.Filename, format, len(doc.Content))

	text, err := extractor.Extract(ctx, doc)
	if err != nil {
		if _, classified := domain.KindOf(err); classified {
			return domain.ExtractedText{}, err
		}
		return domain.ExtractedText{}, fmt.Errorf("%w: %w", domain.ErrExtractionFailure, err)
	}

	logger.Debug("Extracted %d characters from %s", len([]rune(text.Text)), doc.Filename)
	return text, nil
}
