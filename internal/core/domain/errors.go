package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent pipeline failures.
// Adapters wrap their causes with one of these so the orchestrator
// can classify failures with errors.Is.
var (
	// ErrInvalidInput indicates an empty query, a missing file or a document without text.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedFormat indicates the declared file extension is not accepted.
	ErrUnsupportedFormat = errors.New("unsupported format")

	// ErrExtractionFailure indicates a supported document could not be parsed.
	ErrExtractionFailure = errors.New("extraction failure")

	// ErrRetrievalUnavailable indicates the case-law search service failed or timed out.
	ErrRetrievalUnavailable = errors.New("retrieval unavailable")

	// ErrTranslationUnavailable indicates the translation backend failed or timed out.
	ErrTranslationUnavailable = errors.New("translation unavailable")

	// ErrGenerationUnavailable indicates the generation backend failed, timed out
	// or returned no text.
	ErrGenerationUnavailable = errors.New("generation unavailable")

	// ErrNotConfigured indicates a required collaborator has no configuration.
	ErrNotConfigured = errors.New("not configured")
)

// ErrorKind is the user-facing classification of a failed request.
type ErrorKind string

// Error kinds surfaced by the advisory pipeline.
const (
	KindInvalidInput           ErrorKind = "InvalidInput"
	KindUnsupportedFormat      ErrorKind = "UnsupportedFormat"
	KindExtractionFailure      ErrorKind = "ExtractionFailure"
	KindRetrievalUnavailable   ErrorKind = "RetrievalUnavailable"
	KindTranslationUnavailable ErrorKind = "TranslationUnavailable"
	KindGenerationUnavailable  ErrorKind = "GenerationUnavailable"
)

// String returns the string representation.
func (k ErrorKind) String() string {
	return string(k)
}

var kindSentinels = []struct {
	kind ErrorKind
	err  error
}{
	{KindInvalidInput, ErrInvalidInput},
	{KindUnsupportedFormat, ErrUnsupportedFormat},
	{KindExtractionFailure, ErrExtractionFailure},
	{KindRetrievalUnavailable, ErrRetrievalUnavailable},
	{KindTranslationUnavailable, ErrTranslationUnavailable},
	{KindGenerationUnavailable, ErrGenerationUnavailable},
}

// KindOf classifies err by the sentinel it wraps.
// The second return value is false when err wraps none of them.
func KindOf(err error) (ErrorKind, bool) {
	var advErr *AdvisoryError
	if errors.As(err, &advErr) {
		return advErr.Kind, true
	}
	for _, s := range kindSentinels {
		if errors.Is(err, s.err) {
			return s.kind, true
		}
	}
	return "", false
}

// AdvisoryError is the terminal failure of one advisory request.
type AdvisoryError struct {
	// Kind classifies the failure.
	Kind ErrorKind

	// Stage is the pipeline stage that failed.
	Stage Stage

	// Err is the underlying cause.
	Err error
}

// Error returns a human-readable description of the failure.
func (e *AdvisoryError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s during %s", e.Kind, e.Stage)
	}
	return fmt.Sprintf("%s during %s: %v", e.Kind, e.Stage, e.Err)
}

// Unwrap returns the underlying cause.
func (e *AdvisoryError) Unwrap() error {
	return e.Err
}

// Message returns the message shown to end users.
func (e *AdvisoryError) Message() string {
	switch e.Kind {
	case KindInvalidInput:
		return "Please provide a legal query or a document to analyse."
	case KindUnsupportedFormat:
		return "Unsupported file format. Upload a PDF, DOC, DOCX or TXT file."
	case KindExtractionFailure:
		return "The document could not be read. It may be corrupt or password protected."
	case KindRetrievalUnavailable:
		return "Indian Kanoon could not be reached. Please try again later."
	case KindTranslationUnavailable:
		return "The translation service is unavailable. Please try again later."
	case KindGenerationUnavailable:
		return "The legal advisor model is unavailable. Please try again later."
	default:
		return "The request could not be completed."
	}
}
