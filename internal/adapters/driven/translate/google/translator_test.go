package google

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/kanoonsetu/internal/core/domain"
	"github.com/custodia-labs/kanoonsetu/internal/core/ports/driven"
)

func newTestTranslator(t *testing.T, handler http.HandlerFunc) *Translator {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	tr, err := NewTranslator(context.Background(), Config{
		APIKey:   "test-key",
		Endpoint: server.URL + "/language/translate/",
	})
	require.NoError(t, err)
	return tr
}

func TestNewTranslator_RequiresKey(t *testing.T) {
	_, err := NewTranslator(context.Background(), Config{})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotConfigured)
}

func TestTranslate_Success(t *testing.T) {
	tr := newTestTranslator(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "किरायेदार बेदखली", q.Get("q"))
		assert.Equal(t, "hi", q.Get("source"))
		assert.Equal(t, "en", q.Get("target"))
		assert.Equal(t, "text", q.Get("format"))
		assert.Equal(t, "test-key", q.Get("key"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data": {"translations": [{"translatedText": "tenant eviction"}]}}`))
	})

	out, err := tr.Translate(context.Background(), "किरायेदार बेदखली", "hi-IN", "en")
	require.NoError(t, err)
	assert.Equal(t, "tenant eviction", out)
	assert.Equal(t, "google", tr.Name())
}

func TestTranslate_UnescapesEntities(t *testing.T) {
	tr := newTestTranslator(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data": {"translations": [{"translatedText": "Ram &amp; Shyam&#39;s case"}]}}`))
	})

	out, err := tr.Translate(context.Background(), "x", "en", "hi")
	require.NoError(t, err)
	assert.Equal(t, "Ram & Shyam's case", out)
}

func TestTranslate_BackendError(t *testing.T) {
	tr := newTestTranslator(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error": {"code": 403, "message": "API key not valid"}}`))
	})

	_, err := tr.Translate(context.Background(), "x", "en", "hi")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrTranslationUnavailable)
}

func TestTranslate_EmptyResponse(t *testing.T) {
	tr := newTestTranslator(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data": {"translations": []}}`))
	})

	_, err := tr.Translate(context.Background(), "x", "en", "hi")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrTranslationUnavailable)
}

func TestTranslate_InvalidLanguage(t *testing.T) {
	tr := newTestTranslator(t, func(_ http.ResponseWriter, _ *http.Request) {
		t.Error("backend must not be called")
	})

	_, err := tr.Translate(context.Background(), "x", "??", "hi")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrTranslationUnavailable)
}

func TestInterfaceCompliance(_ *testing.T) {
	var _ driven.Translator = (*Translator)(nil)
}
