// Package google provides a translator backed by Google Cloud Translation v2.
package google

import (
	"context"
	"fmt"
	"html"

	"google.golang.org/api/option"
	translatev2 "google.golang.org/api/translate/v2"

	"github.com/custodia-labs/kanoonsetu/internal/adapters/driven/translate"
	"github.com/custodia-labs/kanoonsetu/internal/core/domain"
	"github.com/custodia-labs/kanoonsetu/internal/core/ports/driven"
)

// Ensure Translator implements the interface.
var _ driven.Translator = (*Translator)(nil)

// Config holds configuration for the Google translator.
type Config struct {
	// APIKey is the Cloud Translation API key (required).
	APIKey string

	// Endpoint overrides the API endpoint.
	Endpoint string
}

// Translator translates text with the Cloud Translation v2 API.
type Translator struct {
	svc *translatev2.Service
}

// NewTranslator creates a new Google translator.
func NewTranslator(ctx context.Context, cfg Config) (*Translator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("google translate: API key is %w", domain.ErrNotConfigured)
	}

	opts := []option.ClientOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(cfg.Endpoint))
	}

	svc, err := translatev2.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("google translate: creating service: %w", err)
	}
	return &Translator{svc: svc}, nil
}

// Name identifies the backend in logs.
func (t *Translator) Name() string {
	return "google"
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

	resp, err := t.svc.Translations.List([]string{text}, dst).
		Source(src).
		Format("text").
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("%w: google: %w", domain.ErrTranslationUnavailable, err)
	}
	if len(resp.Translations) == 0 {
		return "", fmt.Errorf("%w: google: no translations returned", domain.ErrTranslationUnavailable)
	}

	// Entities can survive even with the text format.
	return html.UnescapeString(resp.Translations[0].TranslatedText), nil
}
