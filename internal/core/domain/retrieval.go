package domain

import (
	"fmt"
	"sort"
	"strings"
)

// NoRelevantDocuments is the prompt text used when a search finds nothing.
const NoRelevantDocuments = "No relevant documents found in Indian Kanoon."

// RetrievalMode selects how case-law context is gathered.
type RetrievalMode string

// Available retrieval modes.
const (
	// RetrievalModeSnippets aggregates the top three snippets, each enriched
	// with a best-effort metadata lookup.
	RetrievalModeSnippets RetrievalMode = "snippets"

	// RetrievalModeHeadline keeps only the top snippet without metadata.
	RetrievalModeHeadline RetrievalMode = "headline"

	// RetrievalModeDocument fetches the full content of the top-ranked document.
	RetrievalModeDocument RetrievalMode = "document"
)

// IsValid returns true if the retrieval mode is recognised.
func (m RetrievalMode) IsValid() bool {
	switch m {
	case RetrievalModeSnippets, RetrievalModeHeadline, RetrievalModeDocument:
		return true
	default:
		return false
	}
}

// TopK returns how many search results the mode retains.
func (m RetrievalMode) TopK() int {
	switch m {
	case RetrievalModeSnippets:
		return 3
	default:
		return 1
	}
}

// WantsMetadata returns true if each result is paired with a metadata lookup.
func (m RetrievalMode) WantsMetadata() bool {
	return m == RetrievalModeSnippets
}

// String returns the string representation.
func (m RetrievalMode) String() string {
	return string(m)
}

// Description returns a human-readable description of the mode.
func (m RetrievalMode) Description() string {
	switch m {
	case RetrievalModeSnippets:
		return "Snippets (top 3 results with metadata)"
	case RetrievalModeHeadline:
		return "Headline (top result snippet)"
	case RetrievalModeDocument:
		return "Document (full text of the best match)"
	default:
		return unknownDescription
	}
}

// AllRetrievalModes returns all available retrieval modes.
func AllRetrievalModes() []RetrievalMode {
	return []RetrievalMode{
		RetrievalModeSnippets,
		RetrievalModeHeadline,
		RetrievalModeDocument,
	}
}

// SearchResult is one case-law hit returned by the corpus search service.
type SearchResult struct {
	// ID is the corpus document identifier (Indian Kanoon "tid").
	ID string `json:"id"`

	// Title is the plain-text document title.
	Title string `json:"title"`

	// Snippet is the plain-text excerpt matching the query.
	Snippet string `json:"snippet"`

	// Metadata holds the optional per-document metadata lookup.
	// Empty when the lookup was skipped or failed.
	Metadata map[string]any `json:"metadata,omitempty"`
}

// RetrievalContext is the case-law context assembled for one request.
// It is either an ordered list of results, a single resolved document,
// or the Empty sentinel meaning nothing relevant was found.
type RetrievalContext struct {
	// Mode is the retrieval mode that produced this context.
	Mode RetrievalMode `json:"mode"`

	// Results are the retained hits in service-returned order.
	Results []SearchResult `json:"results,omitempty"`

	// DocumentID is the resolved document in document mode.
	DocumentID string `json:"document_id,omitempty"`

	// Title is the resolved document title in document mode.
	Title string `json:"title,omitempty"`

	// Content is the resolved document text in document mode.
	Content string `json:"content,omitempty"`

	// Empty marks the "no relevant documents" sentinel.
	Empty bool `json:"empty"`
}

// EmptyContext returns the sentinel context for a search with no results.
func EmptyContext(mode RetrievalMode) RetrievalContext {
	return RetrievalContext{Mode: mode, Empty: true}
}

// Render formats the context as prompt text.
func (c RetrievalContext) Render() string {
	if c.Empty {
		return NoRelevantDocuments
	}
	if c.Mode == RetrievalModeDocument {
		if c.Title == "" {
			return c.Content
		}
		return c.Title + "\n\n" + c.Content
	}

	parts := make([]string, 0, len(c.Results))
	for i := range c.Results {
		parts = append(parts, renderResult(c.Results[i]))
	}
	return strings.Join(parts, "\n")
}

// Titles returns the titles of the retained results or the resolved document.
func (c RetrievalContext) Titles() []string {
	if c.Empty {
		return nil
	}
	if c.Mode == RetrievalModeDocument {
		return []string{c.Title}
	}
	titles := make([]string, len(c.Results))
	for i := range c.Results {
		titles[i] = c.Results[i].Title
	}
	return titles
}

func renderResult(r SearchResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Title: %s\nSnippet: %s\n", r.Title, r.Snippet)
	if len(r.Metadata) == 0 {
		return b.String()
	}

	keys := make([]string, 0, len(r.Metadata))
	for k := range r.Metadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	b.WriteString("Metadata:\n")
	for _, k := range keys {
		switch v := r.Metadata[k].(type) {
		case string, float64, int, bool:
			fmt.Fprintf(&b, "  %s: %v\n", k, v)
		}
	}
	return b.String()
}
