package driven

import (
	"context"
)

// CorpusClient queries the external case-law search service.
// Calls are never retried; failures are wrapped with domain.ErrRetrievalUnavailable.
type CorpusClient interface {
	// Search runs a free-text query and returns one page of hits in
	// service-returned relevance order.
	Search(ctx context.Context, query string, page int) (*CorpusPage, error)

	// DocumentMeta fetches the metadata record of a single document.
	DocumentMeta(ctx context.Context, id string) (*CorpusPayload, error)

	// Document fetches the full content of a single document.
	Document(ctx context.Context, id string) (*CorpusPayload, error)
}

// CorpusHit is one search hit with plain-text fields.
type CorpusHit struct {
	// ID is the corpus document identifier.
	ID string

	// Title is the document title.
	Title string

	// Snippet is the matching excerpt.
	Snippet string
}

// CorpusPage is one page of search hits.
type CorpusPage struct {
	// Hits are ordered by relevance.
	Hits []CorpusHit

	// Found is the total hit count reported by the service, if any.
	Found string

	// Raw is the undecoded response body, kept for auditing.
	Raw []byte
}

// CorpusPayload is the decoded response of a per-document endpoint.
type CorpusPayload struct {
	// ID is the document identifier the payload belongs to.
	ID string

	// Title is the plain-text title, when the endpoint returns one.
	Title string

	// Content is the plain-text body, when the endpoint returns one.
	Content string

	// Fields holds the remaining scalar fields of the response.
	Fields map[string]any

	// Raw is the undecoded response body, kept for auditing.
	Raw []byte
}
