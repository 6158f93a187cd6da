// Package ai provides factory functions for creating the generation and
// translation adapters from application settings.
package ai

import (
	"context"
	"fmt"
	"time"

	anthropicllm "github.com/custodia-labs/kanoonsetu/internal/adapters/driven/llm/anthropic"
	ollamallm "github.com/custodia-labs/kanoonsetu/internal/adapters/driven/llm/ollama"
	openaillm "github.com/custodia-labs/kanoonsetu/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/kanoonsetu/internal/adapters/driven/translate/google"
	"github.com/custodia-labs/kanoonsetu/internal/adapters/driven/translate/libre"
	"github.com/custodia-labs/kanoonsetu/internal/core/domain"
	"github.com/custodia-labs/kanoonsetu/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// CreateAndValidateLLMService creates an LLM service and pings it before
// handing it out. Long-running surfaces use it so a bad key or a missing
// model shows up at startup rather than on the first request.
func CreateAndValidateLLMService(ctx context.Context, settings *domain.LLMSettings) (driven.LLMService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	svc, err := CreateLLMService(settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w. Run 'kanoonsetu settings llm' to fix",
			domain.ErrGenerationUnavailable, err)
	}

	if svc == nil {
		return nil, nil
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := svc.Ping(pingCtx); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w). Run 'kanoonsetu settings llm' to fix",
			domain.ErrGenerationUnavailable, err)
	}

	return svc, nil
}

// ValidateLLMConfig validates an LLM configuration by creating a service and pinging it.
// This is intended for the settings command to validate credentials on configuration.
func ValidateLLMConfig(settings *domain.LLMSettings) error {
	if settings == nil || !settings.IsConfigured() {
		return nil
	}

	svc, err := CreateLLMService(settings)
	if err != nil {
		return err
	}
	if svc == nil {
		return nil
	}
	defer svc.Close()

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	return svc.Ping(ctx)
}

// CreateLLMService creates the appropriate LLM service based on settings.
// Returns nil if the provider is not configured.
func CreateLLMService(settings *domain.LLMSettings) (driven.LLMService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderHuggingFace:
		return createHuggingFaceLLM(settings)

	case domain.AIProviderOllama:
		return createOllamaLLM(settings), nil

	case domain.AIProviderOpenAI:
		return createOpenAILLM(settings)

	case domain.AIProviderAnthropic:
		return createAnthropicLLM(settings)

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", settings.Provider)
	}
}

// CreateTranslator creates the translation backend selected in settings.
// Returns nil when mediation is disabled.
func CreateTranslator(ctx context.Context, settings *domain.TranslationSettings) (driven.Translator, error) {
	if settings == nil {
		return nil, nil
	}

	switch settings.Provider {
	case "", domain.TranslationProviderNone:
		return nil, nil

	case domain.TranslationProviderGoogle:
		t, err := google.NewTranslator(ctx, google.Config{
			APIKey:   settings.APIKey,
			Endpoint: settings.BaseURL,
		})
		if err != nil {
			return nil, err
		}
		return t, nil

	case domain.TranslationProviderLibre:
		t, err := libre.NewTranslator(libre.Config{
			BaseURL: settings.BaseURL,
			APIKey:  settings.APIKey,
			Timeout: settings.Timeout,
		})
		if err != nil {
			return nil, err
		}
		return t, nil

	default:
		return nil, fmt.Errorf("unsupported translation provider: %s", settings.Provider)
	}
}

func createHuggingFaceLLM(settings *domain.LLMSettings) (driven.LLMService, error) {
	cfg := openaillm.HuggingFace(settings.APIKey, settings.Model, settings.Timeout)
	if settings.BaseURL != "" {
		cfg.BaseURL = settings.BaseURL
	}
	svc, err := openaillm.NewLLMService(cfg)
	if err != nil {
		return nil, err
	}
	return svc, nil
}

func createOllamaLLM(settings *domain.LLMSettings) driven.LLMService {
	return ollamallm.NewLLMService(ollamallm.LLMConfig{
		BaseURL: settings.BaseURL,
		Model:   settings.Model,
		Timeout: settings.Timeout,
	})
}

func createOpenAILLM(settings *domain.LLMSettings) (driven.LLMService, error) {
	svc, err := openaillm.NewLLMService(openaillm.LLMConfig{
		APIKey:  settings.APIKey,
		BaseURL: settings.BaseURL,
		Model:   settings.Model,
		Timeout: settings.Timeout,
	})
	if err != nil {
		return nil, err
	}
	return svc, nil
}

func createAnthropicLLM(settings *domain.LLMSettings) (driven.LLMService, error) {
	svc, err := anthropicllm.NewLLMService(anthropicllm.Config{
		APIKey:  settings.APIKey,
		BaseURL: settings.BaseURL,
		Model:   settings.Model,
		Timeout: settings.Timeout,
	})
	if err != nil {
		return nil, err
	}
	return svc, nil
}
