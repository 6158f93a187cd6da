package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/kanoonsetu/internal/core/domain"
	"github.com/custodia-labs/kanoonsetu/internal/core/ports/driven"
)

func fiveHits() []driven.CorpusHit {
	return []driven.CorpusHit{
		{ID: "1", Title: "State v. Ram", Snippet: "cheating under section 420"},
		{ID: "2", Title: "Sita v. Union", Snippet: "breach of trust"},
		{ID: "3", Title: "Mohan v. State", Snippet: "dishonest inducement"},
		{ID: "4", Title: "Fourth", Snippet: "four"},
		{ID: "5", Title: "Fifth", Snippet: "five"},
	}
}

func TestNewRetriever_InvalidModeDefaultsToSnippets(t *testing.T) {
	r := NewRetriever(&mockCorpus{}, nil, "bogus", 0)

	assert.Equal(t, domain.RetrievalModeSnippets, r.Mode())
}

func TestRetriever_Snippets_TopThreeWithMetadata(t *testing.T) {
	corpus := &mockCorpus{
		hits: fiveHits(),
		meta: map[string]map[string]any{
			"1": {"court": "Supreme Court"},
			"2": {"court": "Delhi High Court"},
			"3": {"court": "Bombay High Court"},
		},
	}
	audit := &mockAudit{}
	r := NewRetriever(corpus, audit, domain.RetrievalModeSnippets, time.Second)

	rc, err := r.Retrieve(context.Background(), "req-1", "cheating")

	require.NoError(t, err)
	assert.False(t, rc.Empty)
	require.Len(t, rc.Results, 3)
	assert.Equal(t, []string{"State v. Ram", "Sita v. Union", "Mohan v. State"}, rc.Titles())
	assert.Equal(t, "Delhi High Court", rc.Results[1].Metadata["court"])
	assert.ElementsMatch(t, []string{"1", "2", "3"}, corpus.metaIDs)
	assert.ElementsMatch(t, []string{
		"req-1/search_response",
		"req-1/docmeta_1",
		"req-1/docmeta_2",
		"req-1/docmeta_3",
	}, audit.names())
}

func TestRetriever_Snippets_MetadataFailureDegrades(t *testing.T) {
	corpus := &mockCorpus{
		hits:    fiveHits()[:2],
		meta:    map[string]map[string]any{"1": {"court": "Supreme Court"}},
		metaErr: map[string]error{"2": errors.New("503")},
	}
	r := NewRetriever(corpus, nil, domain.RetrievalModeSnippets, 0)

	rc, err := r.Retrieve(context.Background(), "req-2", "trust")

	require.NoError(t, err)
	require.Len(t, rc.Results, 2)
	assert.Equal(t, "Supreme Court", rc.Results[0].Metadata["court"])
	assert.NotNil(t, rc.Results[1].Metadata)
	assert.Empty(t, rc.Results[1].Metadata)
}

func TestRetriever_Headline_TopOnlyWithoutMetadata(t *testing.T) {
	corpus := &mockCorpus{hits: fiveHits()}
	r := NewRetriever(corpus, nil, domain.RetrievalModeHeadline, 0)

	rc, err := r.Retrieve(context.Background(), "req-3", "cheating")

	require.NoError(t, err)
	require.Len(t, rc.Results, 1)
	assert.Equal(t, "cheating under section 420", rc.Results[0].Snippet)
	assert.Empty(t, corpus.metaIDs)
}

func TestRetriever_Document(t *testing.T) {
	tests := []struct {
		name      string
		doc       *driven.CorpusPayload
		wantTitle string
	}{
		{
			name:      "document title wins",
			doc:       &driven.CorpusPayload{ID: "1", Title: "Full Title", Content: "Judgment text", Raw: []byte(`{}`)},
			wantTitle: "Full Title",
		},
		{
			name:      "falls back to hit title",
			doc:       &driven.CorpusPayload{ID: "1", Content: "Judgment text"},
			wantTitle: "State v. Ram",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			corpus := &mockCorpus{hits: fiveHits(), doc: tt.doc}
			r := NewRetriever(corpus, nil, domain.RetrievalModeDocument, 0)

			rc, err := r.Retrieve(context.Background(), "req-4", "cheating")

			require.NoError(t, err)
			assert.Equal(t, domain.RetrievalModeDocument, rc.Mode)
			assert.Equal(t, "1", rc.DocumentID)
			assert.Equal(t, tt.wantTitle, rc.Title)
			assert.Equal(t, "Judgment text", rc.Content)
			assert.Equal(t, []string{"1"}, corpus.docIDs)
		})
	}
}

func TestRetriever_NoHitsYieldsSentinel(t *testing.T) {
	for _, mode := range domain.AllRetrievalModes() {
		t.Run(mode.String(), func(t *testing.T) {
			corpus := &mockCorpus{}
			r := NewRetriever(corpus, nil, mode, 0)

			rc, err := r.Retrieve(context.Background(), "req-5", "nothing matches")

			require.NoError(t, err)
			assert.True(t, rc.Empty)
			assert.Equal(t, domain.NoRelevantDocuments, rc.Render())
			assert.Empty(t, corpus.metaIDs)
			assert.Empty(t, corpus.docIDs)
		})
	}
}

func TestRetriever_Errors(t *testing.T) {
	tests := []struct {
		name   string
		client driven.CorpusClient
		mode   domain.RetrievalMode
	}{
		{
			name:   "no client",
			client: nil,
			mode:   domain.RetrievalModeSnippets,
		},
		{
			name:   "search failure",
			client: &mockCorpus{searchErr: errors.New("connection refused")},
			mode:   domain.RetrievalModeSnippets,
		},
		{
			name:   "document failure",
			client: &mockCorpus{hits: fiveHits(), docErr: errors.New("404")},
			mode:   domain.RetrievalModeDocument,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRetriever(tt.client, nil, tt.mode, 0)

			_, err := r.Retrieve(context.Background(), "req-6", "q")

			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrRetrievalUnavailable)
		})
	}
}

func TestRetriever_Timeout(t *testing.T) {
	corpus := &mockCorpus{blockCtx: true}
	r := NewRetriever(corpus, nil, domain.RetrievalModeSnippets, 20*time.Millisecond)

	start := time.Now()
	_, err := r.Retrieve(context.Background(), "req-7", "slow")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrRetrievalUnavailable)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second)
}

func TestRetriever_AuditFailureIsNotFatal(t *testing.T) {
	corpus := &mockCorpus{hits: fiveHits()}
	r := NewRetriever(corpus, &mockAudit{err: errors.New("disk full")}, domain.RetrievalModeSnippets, 0)

	rc, err := r.Retrieve(context.Background(), "req-8", "cheating")

	require.NoError(t, err)
	assert.Len(t, rc.Results, 3)
}

func TestTruncateRunes(t *testing.T) {
	tests := []struct {
		name string
		in   string
		n    int
		want string
	}{
		{"shorter than limit", "abc", 5, "abc"},
		{"ascii cut", "abcdef", 3, "abc"},
		{"multibyte cut", "विधि कानून", 4, "विधि"},
		{"zero", "abc", 0, ""},
		{"negative", "abc", -1, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, truncateRunes(tt.in, tt.n))
		})
	}
}
