// Package word extracts text from Word uploads, both Office Open XML (.docx)
// and legacy binary (.doc) documents.
package word

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"code.sajari.com/docconv/v2"

	"github.com/custodia-labs/kanoonsetu/internal/core/domain"
	"github.com/custodia-labs/kanoonsetu/internal/core/ports/driven"
	"github.com/custodia-labs/kanoonsetu/internal/extractors"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

var (
	zipMagic = []byte("PK\x03\x04")
	oleMagic = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}
)

// wvTextTool is the converter docconv runs for legacy .doc files.
const wvTextTool = "wvText"

// lookPath is replaced in tests.
var lookPath = exec.LookPath

// Extractor handles .doc and .docx documents.
type Extractor struct {
	// tempDir is where uploads are spooled. Empty means os.TempDir.
	tempDir string
}

// New creates a new Word extractor.
func New() *Extractor {
	return &Extractor{}
}

// NewWithTempDir creates a Word extractor that spools uploads under dir.
func NewWithTempDir(dir string) *Extractor {
	return &Extractor{tempDir: dir}
}

// SupportedFormats returns the formats this extractor handles.
func (e *Extractor) SupportedFormats() []domain.Format {
	return []domain.Format{domain.FormatDoc, domain.FormatDocx}
}

// Extract spools the upload to a temporary file and reads it as a Word document.
// A .doc upload that is actually an OOXML container is read as .docx.
// The temporary file is removed before returning.
func (e *Extractor) Extract(_ context.Context, doc domain.SourceDocument) (domain.ExtractedText, error) {
	format, ok := doc.Format()
	if !ok || (format != domain.FormatDoc && format != domain.FormatDocx) {
		return domain.ExtractedText{}, fmt.Errorf("%w: %q", domain.ErrUnsupportedFormat, doc.Extension())
	}

	tmp, err := os.CreateTemp(e.tempDir, "kanoonsetu-*."+doc.Extension())
	if err != nil {
		return domain.ExtractedText{}, fmt.Errorf("%w: create temp file: %w", domain.ErrExtractionFailure, err)
	}
	defer os.Remove(tmp.Name())
	defer tmp.Close()

	if _, err := tmp.Write(doc.Content); err != nil {
		return domain.ExtractedText{}, fmt.Errorf("%w: write temp file: %w", domain.ErrExtractionFailure, err)
	}
	if err := tmp.Sync(); err != nil {
		return domain.ExtractedText{}, fmt.Errorf("%w: sync temp file: %w", domain.ErrExtractionFailure, err)
	}

	var text string
	switch {
	case bytes.HasPrefix(doc.Content, zipMagic):
		text, err = extractDocx(tmp.Name())
	case format == domain.FormatDoc && bytes.HasPrefix(doc.Content, oleMagic):
		text, err = extractDoc(tmp)
	default:
		err = errors.New("not a Word document")
	}
	if err != nil {
		return domain.ExtractedText{}, fmt.Errorf("%w: %s: %w", domain.ErrExtractionFailure, doc.Filename, err)
	}

	return domain.ExtractedText{
		Text:   extractors.Sanitise(text),
		Format: format,
	}, nil
}

// extractDocx reads word/document.xml from the container at path.
func extractDocx(path string) (string, error) {
	reader, err := zip.OpenReader(path)
	if err != nil {
		return "", fmt.Errorf("open container: %w", err)
	}
	defer reader.Close()

	for _, file := range reader.File {
		if file.Name != "word/document.xml" {
			continue
		}

		rc, err := file.Open()
		if err != nil {
			return "", fmt.Errorf("open document.xml: %w", err)
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return "", fmt.Errorf("read document.xml: %w", err)
		}

		return parseDocumentXML(content)
	}
	return "", errors.New("container has no word/document.xml")
}

// extractDoc converts a legacy binary document. It needs wvText on PATH.
func extractDoc(f *os.File) (string, error) {
	if _, err := lookPath(wvTextTool); err != nil {
		return "", fmt.Errorf("legacy .doc conversion needs %s: %w", wvTextTool, err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return "", err
	}
	text, _, err := docconv.ConvertDoc(f)
	if err != nil {
		return "", fmt.Errorf("convert doc: %w", err)
	}
	return normaliseParagraphs(text), nil
}

// parseDocumentXML joins paragraph texts in document order with newlines.
// Text is collected from every w:t inside a run, wherever the run is nested
// (hyperlinks, insertions, smart tags, fields). Breaks become newlines and
// tabs become tab characters.
func parseDocumentXML(content []byte) (string, error) {
	dec := xml.NewDecoder(bytes.NewReader(content))

	var (
		paragraphs []string
		open       []*strings.Builder
		runDepth   int
		inText     bool
	)
	current := func() *strings.Builder {
		if len(open) == 0 {
			return nil
		}
		return open[len(open)-1]
	}

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("parse document.xml: %w", err)
		}

		switch el := tok.(type) {
		case xml.StartElement:
			switch el.Name.Local {
			case "p":
				open = append(open, new(strings.Builder))
			case "r":
				runDepth++
			case "t":
				inText = runDepth > 0
			case "br", "cr":
				if b := current(); b != nil && runDepth > 0 {
					b.WriteByte('\n')
				}
			case "tab":
				// w:tab also defines tab stops inside paragraph properties.
				if b := current(); b != nil && runDepth > 0 {
					b.WriteByte('\t')
				}
			}
		case xml.EndElement:
			switch el.Name.Local {
			case "p":
				if len(open) > 0 {
					paragraphs = append(paragraphs, open[len(open)-1].String())
					open = open[:len(open)-1]
				}
			case "r":
				if runDepth > 0 {
					runDepth--
				}
			case "t":
				inText = false
			}
		case xml.CharData:
			if b := current(); b != nil && inText {
				b.Write(el)
			}
		}
	}

	return strings.TrimSpace(strings.Join(paragraphs, "\n")), nil
}

// normaliseParagraphs trims each converted line and drops blank ones.
func normaliseParagraphs(text string) string {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	kept := lines[:0]
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}
