package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRetrievalMode_IsValid(t *testing.T) {
	for _, m := range AllRetrievalModes() {
		assert.True(t, m.IsValid(), m)
		assert.NotEqual(t, unknownDescription, m.Description())
	}
	assert.False(t, RetrievalMode("bm25").IsValid())
	assert.Equal(t, unknownDescription, RetrievalMode("bm25").Description())
}

func TestRetrievalMode_TopK(t *testing.T) {
	assert.Equal(t, 3, RetrievalModeSnippets.TopK())
	assert.Equal(t, 1, RetrievalModeHeadline.TopK())
	assert.Equal(t, 1, RetrievalModeDocument.TopK())
}

func TestRetrievalMode_WantsMetadata(t *testing.T) {
	assert.True(t, RetrievalModeSnippets.WantsMetadata())
	assert.False(t, RetrievalModeHeadline.WantsMetadata())
	assert.False(t, RetrievalModeDocument.WantsMetadata())
}

func TestRetrievalContext_RenderEmpty(t *testing.T) {
	for _, m := range AllRetrievalModes() {
		ctx := EmptyContext(m)
		assert.True(t, ctx.Empty)
		assert.Equal(t, NoRelevantDocuments, ctx.Render())
		assert.Nil(t, ctx.Titles())
	}
}

func TestRetrievalContext_RenderSnippets(t *testing.T) {
	ctx := RetrievalContext{
		Mode: RetrievalModeSnippets,
		Results: []SearchResult{
			{ID: "1", Title: "Case X", Snippet: "held that"},
			{ID: "2", Title: "Case Y", Snippet: "dismissed", Metadata: map[string]any{
				"court":   "Supreme Court of India",
				"numcites": float64(12),
				"nested":  map[string]any{"ignored": true},
			}},
		},
	}

	want := "Title: Case X\nSnippet: held that\n" +
		"\n" +
		"Title: Case Y\nSnippet: dismissed\nMetadata:\n  court: Supreme Court of India\n  numcites: 12\n"
	assert.Equal(t, want, ctx.Render())
	assert.Equal(t, []string{"Case X", "Case Y"}, ctx.Titles())
}

func TestRetrievalContext_RenderDocument(t *testing.T) {
	ctx := RetrievalContext{
		Mode:       RetrievalModeDocument,
		DocumentID: "42",
		Title:      "State v. Rao",
		Content:    "Full judgment text.",
	}
	assert.Equal(t, "State v. Rao\n\nFull judgment text.", ctx.Render())
	assert.Equal(t, []string{"State v. Rao"}, ctx.Titles())

	ctx.Title = ""
	assert.Equal(t, "Full judgment text.", ctx.Render())
}
