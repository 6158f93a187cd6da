package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/custodia-labs/kanoonsetu/internal/core/domain"
	"github.com/custodia-labs/kanoonsetu/internal/core/ports/driven"
	"github.com/custodia-labs/kanoonsetu/internal/logger"
)

// Retriever queries the case-law corpus and assembles retrieval context.
// It is safe for concurrent use; all per-request state lives on the stack.
type Retriever struct {
	client  driven.CorpusClient
	audit   driven.AuditSink
	mode    domain.RetrievalMode
	timeout time.Duration
}

// NewRetriever creates a retriever.
// The audit sink is optional (can be nil). A zero timeout leaves calls
// bounded only by the caller's context.
func NewRetriever(client driven.CorpusClient, audit driven.AuditSink, mode domain.RetrievalMode, timeout time.Duration) *Retriever {
	if !mode.IsValid() {
		mode = domain.RetrievalModeSnippets
	}
	return &Retriever{
		client:  client,
		audit:   audit,
		mode:    mode,
		timeout: timeout,
	}
}

// Mode returns the configured retrieval mode.
func (r *Retriever) Mode() domain.RetrievalMode {
	return r.mode
}

// Retrieve searches the corpus for query and builds the context for one request.
// A search without hits yields the empty sentinel context, not an error.
func (r *Retriever) Retrieve(ctx context.Context, requestID, query string) (domain.RetrievalContext, error) {
	log := logger.Request(requestID)

	if r.client == nil {
		return domain.RetrievalContext{}, fmt.Errorf("%w: corpus client %w", domain.ErrRetrievalUnavailable, domain.ErrNotConfigured)
	}

	log.Debug("Searching corpus (mode=%s): %q", r.mode, truncateRunes(query, 80))

	callCtx, cancel := r.withTimeout(ctx)
	page, err := r.client.Search(callCtx, query, 1)
	cancel()
	if err != nil {
		return domain.RetrievalContext{}, retrievalError(err)
	}
	r.record(ctx, requestID, driven.ArtifactSearchResponse, page.Raw)

	if len(page.Hits) == 0 {
		log.Info("No search results, using sentinel context")
		return domain.EmptyContext(r.mode), nil
	}

	if r.mode == domain.RetrievalModeDocument {
		return r.bestDocument(ctx, requestID, page.Hits[0])
	}
	return r.snippets(ctx, requestID, page.Hits), nil
}

// bestDocument resolves the full content of the top-ranked hit.
func (r *Retriever) bestDocument(ctx context.Context, requestID string, top driven.CorpusHit) (domain.RetrievalContext, error) {
	callCtx, cancel := r.withTimeout(ctx)
	doc, err := r.client.Document(callCtx, top.ID)
	cancel()
	if err != nil {
		return domain.RetrievalContext{}, retrievalError(err)
	}
	r.record(ctx, requestID, driven.ArtifactResponseContext, doc.Raw)

	title := doc.Title
	if title == "" {
		title = top.Title
	}

	logger.Request(requestID).Info("Resolved document %s: %q", top.ID, title)
	return domain.RetrievalContext{
		Mode:       domain.RetrievalModeDocument,
		DocumentID: top.ID,
		Title:      title,
		Content:    doc.Content,
	}, nil
}

// snippets keeps the top-K hits, enriching each with metadata when the mode asks for it.
// Metadata failures degrade to an empty map.
func (r *Retriever) snippets(ctx context.Context, requestID string, hits []driven.CorpusHit) domain.RetrievalContext {
	k := min(len(hits), r.mode.TopK())
	results := make([]domain.SearchResult, k)
	for i := range k {
		results[i] = domain.SearchResult{
			ID:      hits[i].ID,
			Title:   hits[i].Title,
			Snippet: hits[i].Snippet,
		}
	}

	if r.mode.WantsMetadata() {
		var wg sync.WaitGroup
		for i := range results {
			wg.Add(1)
			go func(res *domain.SearchResult) {
				defer wg.Done()
				res.Metadata = r.metadata(ctx, requestID, res.ID)
			}(&results[i])
		}
		wg.Wait()
	}

	logger.Request(requestID).Info("Retained %d of %d search results", k, len(hits))
	return domain.RetrievalContext{Mode: r.mode, Results: results}
}

func (r *Retriever) metadata(ctx context.Context, requestID, id string) map[string]any {
	if id == "" {
		return map[string]any{}
	}

	callCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	meta, err := r.client.DocumentMeta(callCtx, id)
	if err != nil {
		logger.Request(requestID).Warn("Metadata lookup for %s failed: %v", id, err)
		return map[string]any{}
	}
	r.record(ctx, requestID, driven.ArtifactDocMetaPrefix+id, meta.Raw)

	if meta.Fields == nil {
		return map[string]any{}
	}
	return meta.Fields
}

// record writes a raw payload to the audit sink. Failures are logged only.
func (r *Retriever) record(ctx context.Context, requestID, artifact string, payload []byte) {
	if r.audit == nil || len(payload) == 0 {
		return
	}
	if err := r.audit.Record(ctx, requestID, artifact, payload); err != nil {
		logger.Request(requestID).Warn("Audit write %s failed: %v", artifact, err)
	}
}

func (r *Retriever) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, r.timeout)
}

// retrievalError ensures err is classified as a retrieval failure.
func retrievalError(err error) error {
	if errors.Is(err, domain.ErrRetrievalUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %w", domain.ErrRetrievalUnavailable, err)
}

// truncateRunes returns at most n runes of s.
func truncateRunes(s string, n int) string {
	if n < 0 {
		n = 0
	}
	if len(s) <= n {
		return s
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
