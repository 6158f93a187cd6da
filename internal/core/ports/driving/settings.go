package driving

import "github.com/custodia-labs/kanoonsetu/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings.
	Get() (*domain.AppSettings, error)

	// Save persists application settings.
	Save(settings *domain.AppSettings) error

	// SetRetrievalMode updates the retrieval mode.
	SetRetrievalMode(mode domain.RetrievalMode) error

	// SetLLMProvider configures the generation provider.
	SetLLMProvider(provider domain.AIProvider, model, apiKey string) error

	// SetTranslationProvider configures the translation backend.
	SetTranslationProvider(provider domain.TranslationProvider, baseURL, apiKey string) error

	// SetLanguages updates the user-facing and pivot languages.
	SetLanguages(user, pivot string) error

	// Validate checks if current settings can serve requests.
	Validate() error

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings

	// ValidateLLMConfig validates the current LLM configuration by pinging the provider.
	ValidateLLMConfig() error
}
