package driven

import "context"

// Well-known audit artefact names.
const (
	// ArtifactSearchResponse is the raw body of the search call.
	ArtifactSearchResponse = "search_response"

	// ArtifactResponseContext is the raw body of the full-document call.
	ArtifactResponseContext = "response_context"

	// ArtifactDocMetaPrefix prefixes raw metadata bodies, followed by the document id.
	ArtifactDocMetaPrefix = "docmeta_"
)

// AuditSink persists raw retrieval payloads for diagnostics.
// Artefacts are namespaced by request id, written once and never read back
// by the pipeline. Implementations must be safe for concurrent use.
type AuditSink interface {
	// Record stores one raw payload for a request.
	Record(ctx context.Context, requestID, artifact string, payload []byte) error

	// Close releases resources.
	Close() error
}
