package services

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"

	"github.com/custodia-labs/kanoonsetu/internal/core/domain"
	"github.com/custodia-labs/kanoonsetu/internal/core/ports/driven"
	"github.com/custodia-labs/kanoonsetu/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyMode               = "pipeline.mode"
	keyUserLanguage       = "pipeline.user_language"
	keyPivotLanguage      = "pipeline.pivot_language"
	keyBudgetTotal        = "budget.total_tokens"
	keyBudgetMaxOutput    = "budget.max_output_tokens"
	keyBudgetContextChars = "budget.max_context_chars"
	keyBudgetExcerpt      = "budget.search_excerpt_chars"
	keyLLMProvider        = "llm.provider"
	keyLLMModel           = "llm.model"
	keyLLMBaseURL         = "llm.base_url"
	keyLLMAPIKey          = "llm.api_key"
	keyLLMTimeout         = "llm.timeout"
	keyKanoonBaseURL      = "kanoon.base_url"
	keyKanoonToken        = "kanoon.api_token"
	keyKanoonScheme       = "kanoon.auth_scheme"
	keyKanoonTimeout      = "kanoon.timeout"
	keyKanoonRPS          = "kanoon.requests_per_second"
	keyKanoonBurst        = "kanoon.burst"
	keyTranslateProvider  = "translation.provider"
	keyTranslateBaseURL   = "translation.base_url"
	keyTranslateAPIKey    = "translation.api_key"
	keyTranslateTimeout   = "translation.timeout"
	keyAuditBackend       = "audit.backend"
	keyAuditDir           = "audit.dir"
)

// Environment variables that override stored credentials.
//
//nolint:gosec // G101: These are variable names, not actual credentials.
const (
	EnvLLMAPIKey       = "LLM_API_KEY"
	EnvHFAPIKey        = "HF_API_KEY"
	EnvKanoonAPIKey    = "INDIAN_KANOON_API_KEY"
	EnvTranslateAPIKey = "TRANSLATE_API_KEY"
)

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
	getenv      func(string) string
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore, aiValidator driven.AIConfigValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
	}
}

// SetEnvLookup enables credential overrides from the environment.
// Pass os.Getenv in production; nil disables overrides.
func (s *SettingsService) SetEnvLookup(getenv func(string) string) {
	s.getenv = getenv
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Pipeline: domain.PipelineSettings{
			Mode:          s.getMode(defaults.Pipeline.Mode),
			UserLanguage:  s.getString(keyUserLanguage, defaults.Pipeline.UserLanguage),
			PivotLanguage: s.getString(keyPivotLanguage, defaults.Pipeline.PivotLanguage),
			Budget: domain.Budget{
				TotalTokens:        s.getInt(keyBudgetTotal, defaults.Pipeline.Budget.TotalTokens),
				MaxOutputTokens:    s.getInt(keyBudgetMaxOutput, defaults.Pipeline.Budget.MaxOutputTokens),
				MaxContextChars:    s.getInt(keyBudgetContextChars, defaults.Pipeline.Budget.MaxContextChars),
				SearchExcerptChars: s.getInt(keyBudgetExcerpt, defaults.Pipeline.Budget.SearchExcerptChars),
			},
		},
		LLM: domain.LLMSettings{
			Provider: s.getProvider(defaults.LLM.Provider),
			BaseURL:  s.configStore.GetString(keyLLMBaseURL), // No default - empty selects the provider's endpoint
			APIKey:   s.configStore.GetString(keyLLMAPIKey),
			Timeout:  s.getDuration(keyLLMTimeout, defaults.LLM.Timeout),
		},
		Kanoon: domain.KanoonSettings{
			BaseURL:           s.getString(keyKanoonBaseURL, defaults.Kanoon.BaseURL),
			APIToken:          s.configStore.GetString(keyKanoonToken),
			AuthScheme:        s.getString(keyKanoonScheme, defaults.Kanoon.AuthScheme),
			Timeout:           s.getDuration(keyKanoonTimeout, defaults.Kanoon.Timeout),
			RequestsPerSecond: s.getFloat(keyKanoonRPS, defaults.Kanoon.RequestsPerSecond),
			Burst:             s.getInt(keyKanoonBurst, defaults.Kanoon.Burst),
		},
		Translation: domain.TranslationSettings{
			Provider: s.getTranslationProvider(defaults.Translation.Provider),
			BaseURL:  s.configStore.GetString(keyTranslateBaseURL),
			APIKey:   s.configStore.GetString(keyTranslateAPIKey),
			Timeout:  s.getDuration(keyTranslateTimeout, defaults.Translation.Timeout),
		},
		Audit: domain.AuditSettings{
			Backend: s.getAuditBackend(defaults.Audit.Backend),
			Dir:     s.configStore.GetString(keyAuditDir),
		},
	}

	// Model default follows the selected provider.
	settings.LLM.Model = s.getString(keyLLMModel, domain.DefaultLLMModels()[settings.LLM.Provider])

	s.applyEnv(settings)
	return settings, nil
}

// applyEnv overrides credentials with non-empty environment variables.
func (s *SettingsService) applyEnv(settings *domain.AppSettings) {
	if s.getenv == nil {
		return
	}
	if settings.LLM.Provider == domain.AIProviderHuggingFace {
		if v := s.getenv(EnvHFAPIKey); v != "" {
			settings.LLM.APIKey = v
		}
	}
	if v := s.getenv(EnvLLMAPIKey); v != "" {
		settings.LLM.APIKey = v
	}
	if v := s.getenv(EnvKanoonAPIKey); v != "" {
		settings.Kanoon.APIToken = v
	}
	if v := s.getenv(EnvTranslateAPIKey); v != "" {
		settings.Translation.APIKey = v
	}
}

// Save persists application settings.
// Credentials are only written when set so that environment-supplied keys
// never end up on disk as empty overrides.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	values := []struct {
		key   string
		value any
	}{
		{keyMode, settings.Pipeline.Mode.String()},
		{keyUserLanguage, settings.Pipeline.UserLanguage},
		{keyPivotLanguage, settings.Pipeline.PivotLanguage},
		{keyBudgetTotal, settings.Pipeline.Budget.TotalTokens},
		{keyBudgetMaxOutput, settings.Pipeline.Budget.MaxOutputTokens},
		{keyBudgetContextChars, settings.Pipeline.Budget.MaxContextChars},
		{keyBudgetExcerpt, settings.Pipeline.Budget.SearchExcerptChars},
		{keyLLMProvider, settings.LLM.Provider.String()},
		{keyLLMModel, settings.LLM.Model},
		{keyLLMBaseURL, settings.LLM.BaseURL},
		{keyLLMTimeout, settings.LLM.Timeout.String()},
		{keyKanoonBaseURL, settings.Kanoon.BaseURL},
		{keyKanoonScheme, settings.Kanoon.AuthScheme},
		{keyKanoonTimeout, settings.Kanoon.Timeout.String()},
		{keyKanoonRPS, settings.Kanoon.RequestsPerSecond},
		{keyKanoonBurst, settings.Kanoon.Burst},
		{keyTranslateProvider, settings.Translation.Provider.String()},
		{keyTranslateBaseURL, settings.Translation.BaseURL},
		{keyTranslateTimeout, settings.Translation.Timeout.String()},
		{keyAuditBackend, settings.Audit.Backend.String()},
		{keyAuditDir, settings.Audit.Dir},
	}
	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}

	secrets := []struct {
		key   string
		value string
	}{
		{keyLLMAPIKey, settings.LLM.APIKey},
		{keyKanoonToken, settings.Kanoon.APIToken},
		{keyTranslateAPIKey, settings.Translation.APIKey},
	}
	for _, v := range secrets {
		if v.value == "" {
			continue
		}
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}

	return nil
}

// SetRetrievalMode updates the retrieval mode.
func (s *SettingsService) SetRetrievalMode(mode domain.RetrievalMode) error {
	if !mode.IsValid() {
		return fmt.Errorf("invalid retrieval mode: %s", mode)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}
	settings.Pipeline.Mode = mode
	return s.Save(settings)
}

// SetLLMProvider configures the LLM provider.
func (s *SettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("invalid LLM provider: %s", provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	// Keep an existing key when switching models on the same provider.
	if apiKey == "" && settings.LLM.Provider == provider {
		apiKey = settings.LLM.APIKey
	}
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("API key required for %s", provider)
	}

	settings.LLM.Provider = provider

	// Set model - use provided or default
	if model != "" {
		settings.LLM.Model = model
	} else {
		settings.LLM.Model = domain.DefaultLLMModels()[provider]
	}

	// Local providers need a base URL, cloud providers use their own endpoint.
	if provider.IsLocal() {
		if settings.LLM.BaseURL == "" {
			settings.LLM.BaseURL = "http://localhost:11434"
		}
	} else {
		settings.LLM.BaseURL = ""
	}

	settings.LLM.APIKey = apiKey
	return s.Save(settings)
}

// SetTranslationProvider configures the translation backend.
func (s *SettingsService) SetTranslationProvider(provider domain.TranslationProvider, baseURL, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("invalid translation provider: %s", provider)
	}
	if provider == domain.TranslationProviderGoogle && apiKey == "" {
		return fmt.Errorf("API key required for %s", provider)
	}
	if provider == domain.TranslationProviderLibre && baseURL == "" {
		return fmt.Errorf("base URL required for %s", provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}
	settings.Translation.Provider = provider
	settings.Translation.BaseURL = baseURL
	settings.Translation.APIKey = apiKey
	return s.Save(settings)
}

// SetLanguages updates the user-facing and pivot languages.
func (s *SettingsService) SetLanguages(user, pivot string) error {
	for _, code := range []string{user, pivot} {
		if _, err := language.Parse(code); err != nil {
			return fmt.Errorf("invalid language %q: %w", code, err)
		}
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}
	settings.Pipeline.UserLanguage = user
	settings.Pipeline.PivotLanguage = pivot
	return s.Save(settings)
}

// Validate checks if current settings can serve requests.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	var errs []error
	if !settings.Pipeline.Mode.IsValid() {
		errs = append(errs, fmt.Errorf("invalid retrieval mode: %s", settings.Pipeline.Mode))
	}
	if !settings.LLM.IsConfigured() {
		errs = append(errs, fmt.Errorf("LLM provider %s is not configured", settings.LLM.Provider))
	}
	if !settings.Kanoon.IsConfigured() {
		errs = append(errs, fmt.Errorf("indian kanoon API token is not configured (set %s)", EnvKanoonAPIKey))
	}
	if settings.Pipeline.MediationEnabled() && !settings.Translation.IsConfigured() {
		errs = append(errs, fmt.Errorf(
			"languages %s/%s differ but no translation provider is configured",
			settings.Pipeline.UserLanguage, settings.Pipeline.PivotLanguage,
		))
	}
	b := settings.Pipeline.Budget
	if b.TotalTokens <= 0 || b.MaxOutputTokens <= 0 || b.MaxContextChars <= 0 || b.SearchExcerptChars <= 0 {
		errs = append(errs, errors.New("budget values must be positive"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", domain.ErrNotConfigured, errors.Join(errs...))
	}
	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// ValidateLLMConfig validates the current LLM configuration by pinging the provider.
func (s *SettingsService) ValidateLLMConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateLLM(&settings.LLM)
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val == 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	val, ok := s.configStore.Get(key)
	if !ok {
		return defaultVal
	}
	switch v := val.(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	case int:
		return float64(v)
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func (s *SettingsService) getDuration(key string, defaultVal time.Duration) time.Duration {
	val := s.configStore.GetString(key)
	if val == "" {
		if secs := s.configStore.GetInt(key); secs > 0 {
			return time.Duration(secs) * time.Second
		}
		return defaultVal
	}
	d, err := time.ParseDuration(val)
	if err != nil || d <= 0 {
		return defaultVal
	}
	return d
}

func (s *SettingsService) getMode(defaultVal domain.RetrievalMode) domain.RetrievalMode {
	mode := domain.RetrievalMode(s.configStore.GetString(keyMode))
	if !mode.IsValid() {
		return defaultVal
	}
	return mode
}

func (s *SettingsService) getProvider(defaultVal domain.AIProvider) domain.AIProvider {
	provider := domain.AIProvider(s.configStore.GetString(keyLLMProvider))
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}

func (s *SettingsService) getTranslationProvider(defaultVal domain.TranslationProvider) domain.TranslationProvider {
	provider := domain.TranslationProvider(s.configStore.GetString(keyTranslateProvider))
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}

func (s *SettingsService) getAuditBackend(defaultVal domain.AuditBackend) domain.AuditBackend {
	backend := domain.AuditBackend(s.configStore.GetString(keyAuditBackend))
	if !backend.IsValid() {
		return defaultVal
	}
	return backend
}
