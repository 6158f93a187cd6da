// Package libre provides a translator for LibreTranslate-compatible servers.
package libre

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/custodia-labs/kanoonsetu/internal/adapters/driven/translate"
	"github.com/custodia-labs/kanoonsetu/internal/core/domain"
	"github.com/custodia-labs/kanoonsetu/internal/core/ports/driven"
)

// Ensure Translator implements the interface.
var _ driven.Translator = (*Translator)(nil)

// DefaultTimeout bounds a translation request.
const DefaultTimeout = 30 * time.Second

// Config holds configuration for the LibreTranslate translator.
type Config struct {
	// BaseURL is the server root, e.g. http://localhost:5000 (required).
	BaseURL string

	// APIKey is sent when the server requires one.
	APIKey string

	// Timeout is the request timeout (default: 30s).
	Timeout time.Duration
}

// Translator calls POST /translate on a LibreTranslate server.
type Translator struct {
	client  *http.Client
	baseURL string
	apiKey  string
}

// translateRequest is the /translate request format.
type translateRequest struct {
	Q      string `json:"q"`
	Source string `json:"source"`
	Target string `json:"target"`
	Format string `json:"format"`
	APIKey string `json:"api_key,omitempty"`
}

// translateResponse is the /translate response format.
type translateResponse struct {
	TranslatedText string `json:"translatedText"`
	Error          string `json:"error,omitempty"`
}

// NewTranslator creates a new LibreTranslate translator.
func NewTranslator(cfg Config) (*Translator, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("libretranslate: base URL is %w", domain.ErrNotConfigured)
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Translator{
		client:  &http.Client{Timeout: cfg.Timeout},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
	}, nil
}

// Name identifies the backend in logs.
func (t *Translator) Name() string {
	return "libre"
}

// Translate converts text from the source language to the target language.
func (t *Translator) Translate(ctx context.Context, text, source, target string) (string, error) {
	src, err := translate.Normalise(source)
	if err != nil {
		return "", err
	}
	dst, err := translate.Normalise(target)
	if err != nil {
		return "", err
	}

	jsonBody, err := json.Marshal(translateRequest{
		Q:      text,
		Source: src,
		Target: dst,
		Format: "text",
		APIKey: t.apiKey,
	})
	if err != nil {
		return "", fmt.Errorf("%w: marshal request: %w", domain.ErrTranslationUnavailable, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+"/translate", bytes.NewReader(jsonBody))
	if err != nil {
		return "", fmt.Errorf("%w: create request: %w", domain.ErrTranslationUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: send request: %w", domain.ErrTranslationUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read response: %w", domain.ErrTranslationUnavailable, err)
	}

	var out translateResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("%w: decode response (status %d): %w", domain.ErrTranslationUnavailable, resp.StatusCode, err)
	}
	if out.Error != "" {
		return "", fmt.Errorf("%w: libretranslate: %s", domain.ErrTranslationUnavailable, out.Error)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: libretranslate returned status %d", domain.ErrTranslationUnavailable, resp.StatusCode)
	}
	return out.TranslatedText, nil
}
