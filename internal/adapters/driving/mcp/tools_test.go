package mcp

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/kanoonsetu/internal/core/domain"
)

func TestServer_handleLegalQuery(t *testing.T) {
	ctx := context.Background()

	t.Run("returns response and case titles", func(t *testing.T) {
		mockAdvisory := &mockAdvisoryService{
			advisory: &domain.Advisory{
				Reference: "Can my landlord evict me without notice?",
				Response:  "No. A notice under Section 106 is required.",
				Context: domain.RetrievalContext{
					Mode: domain.RetrievalModeSnippets,
					Results: []domain.SearchResult{
						{ID: "42", Title: "Case X"},
						{ID: "43", Title: "Case Y"},
					},
				},
			},
		}
		server, err := NewServer(&Ports{Advisory: mockAdvisory})
		require.NoError(t, err)

		_, output, err := server.handleLegalQuery(ctx, nil, LegalQueryInput{Query: "Can my landlord evict me without notice?"})

		require.NoError(t, err)
		assert.Equal(t, "Can my landlord evict me without notice?", mockAdvisory.lastAsk.Query)
		assert.Equal(t, "Can my landlord evict me without notice?", output.Query)
		assert.Equal(t, "No. A notice under Section 106 is required.", output.Response)
		assert.Equal(t, []string{"Case X", "Case Y"}, output.Cases)
	})

	t.Run("no relevant documents has no cases", func(t *testing.T) {
		mockAdvisory := &mockAdvisoryService{
			advisory: &domain.Advisory{
				Reference: "q",
				Response:  "general guidance",
				Context:   domain.EmptyContext(domain.RetrievalModeSnippets),
			},
		}
		server, err := NewServer(&Ports{Advisory: mockAdvisory})
		require.NoError(t, err)

		_, output, err := server.handleLegalQuery(ctx, nil, LegalQueryInput{Query: "q"})

		require.NoError(t, err)
		assert.Empty(t, output.Cases)
	})

	t.Run("pipeline failure returns user message", func(t *testing.T) {
		mockAdvisory := &mockAdvisoryService{
			err: &domain.AdvisoryError{
				Kind:  domain.KindRetrievalUnavailable,
				Stage: domain.StageRetrieved,
				Err:   errors.New("dial tcp: connection refused"),
			},
		}
		server, err := NewServer(&Ports{Advisory: mockAdvisory})
		require.NoError(t, err)

		_, _, err = server.handleLegalQuery(ctx, nil, LegalQueryInput{Query: "q"})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "RetrievalUnavailable")
		assert.Contains(t, err.Error(), "Indian Kanoon could not be reached")
		assert.NotContains(t, err.Error(), "connection refused")
	})

	t.Run("unclassified failure is passed through", func(t *testing.T) {
		server, err := NewServer(&Ports{Advisory: &mockAdvisoryService{err: errors.New("boom")}})
		require.NoError(t, err)

		_, _, err = server.handleLegalQuery(ctx, nil, LegalQueryInput{Query: "q"})

		require.Error(t, err)
		assert.Equal(t, "boom", err.Error())
	})
}

func TestServer_handleAnalyzeDocument(t *testing.T) {
	ctx := context.Background()

	t.Run("decodes content and forwards question", func(t *testing.T) {
		mockAdvisory := &mockAdvisoryService{
			advisory: &domain.Advisory{
				Reference: "lease.txt",
				Response:  "Summary: a residential lease.",
				Context:   domain.RetrievalContext{Mode: domain.RetrievalModeDocument, Title: "Case Z"},
			},
		}
		server, err := NewServer(&Ports{Advisory: mockAdvisory})
		require.NoError(t, err)

		input := AnalyzeDocumentInput{
			Filename:      "lease.txt",
			ContentBase64: base64.StdEncoding.EncodeToString([]byte("This lease is made between...")),
			Question:      "Is the lock-in clause enforceable?",
		}
		_, output, err := server.handleAnalyzeDocument(ctx, nil, input)

		require.NoError(t, err)
		assert.Equal(t, "lease.txt", mockAdvisory.lastAnalyze.Document.Filename)
		assert.Equal(t, []byte("This lease is made between..."), mockAdvisory.lastAnalyze.Document.Content)
		assert.Equal(t, "Is the lock-in clause enforceable?", mockAdvisory.lastAnalyze.Question)
		assert.Equal(t, "lease.txt", output.Document)
		assert.Equal(t, "Summary: a residential lease.", output.Analysis)
		assert.Equal(t, []string{"Case Z"}, output.Cases)
	})

	t.Run("invalid base64 is rejected before the pipeline", func(t *testing.T) {
		mockAdvisory := &mockAdvisoryService{}
		server, err := NewServer(&Ports{Advisory: mockAdvisory})
		require.NoError(t, err)

		_, _, err = server.handleAnalyzeDocument(ctx, nil, AnalyzeDocumentInput{
			Filename:      "lease.txt",
			ContentBase64: "not base64!",
		})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "content_base64")
		assert.Empty(t, mockAdvisory.lastAnalyze.Document.Filename)
	})

	t.Run("unsupported format returns user message", func(t *testing.T) {
		mockAdvisory := &mockAdvisoryService{
			err: &domain.AdvisoryError{Kind: domain.KindUnsupportedFormat, Stage: domain.StageReceived},
		}
		server, err := NewServer(&Ports{Advisory: mockAdvisory})
		require.NoError(t, err)

		_, _, err = server.handleAnalyzeDocument(ctx, nil, AnalyzeDocumentInput{
			Filename:      "notes.rtf",
			ContentBase64: base64.StdEncoding.EncodeToString([]byte("{\\rtf1}")),
		})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "Unsupported file format")
	})
}
