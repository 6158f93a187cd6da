package domain

import (
	"path/filepath"
	"strings"
)

// Format identifies a supported input document format.
type Format string

// Supported document formats.
const (
	// FormatText is plain UTF-8 text (.txt).
	FormatText Format = "text"

	// FormatPDF is a Portable Document Format file (.pdf).
	FormatPDF Format = "pdf"

	// FormatDoc is a legacy Word binary document (.doc).
	FormatDoc Format = "doc"

	// FormatDocx is a Word XML document (.docx).
	FormatDocx Format = "docx"
)

// FormatFromExtension maps a file extension (with or without the dot,
// any case) to a Format. The boolean is false for unsupported extensions.
func FormatFromExtension(ext string) (Format, bool) {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "txt":
		return FormatText, true
	case "pdf":
		return FormatPDF, true
	case "doc":
		return FormatDoc, true
	case "docx":
		return FormatDocx, true
	default:
		return "", false
	}
}

// AllFormats returns every supported format.
func AllFormats() []Format {
	return []Format{FormatText, FormatPDF, FormatDoc, FormatDocx}
}

// SupportedExtensions returns the accepted file extensions without dots.
func SupportedExtensions() []string {
	return []string{"txt", "pdf", "doc", "docx"}
}

// String returns the string representation.
func (f Format) String() string {
	return string(f)
}

// SourceDocument is an uploaded file awaiting extraction.
// It lives for a single request and is discarded after extraction.
type SourceDocument struct {
	// Filename is the declared name of the upload, including its extension.
	Filename string

	// Content is the raw file bytes.
	Content []byte
}

// Extension returns the lower-cased extension without the leading dot.
func (d SourceDocument) Extension() string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(d.Filename), "."))
}

// Format returns the document format derived from the filename.
func (d SourceDocument) Format() (Format, bool) {
	return FormatFromExtension(d.Extension())
}

// ExtractedText is plain text produced from a SourceDocument.
// Text is always valid UTF-8 in Unicode NFC form.
type ExtractedText struct {
	// Text is the extracted content.
	Text string

	// Format is the format the text was extracted from.
	Format Format
}

// IsBlank reports whether the extraction produced no visible text.
func (t ExtractedText) IsBlank() bool {
	return strings.TrimSpace(t.Text) == ""
}
