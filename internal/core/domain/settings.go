package domain

import (
	"strings"
	"time"
)

const unknownDescription = "Unknown"

// AIProvider identifies a generation backend provider.
type AIProvider string

// Available AI providers.
const (
	// AIProviderHuggingFace is the Hugging Face inference router (OpenAI-compatible).
	AIProviderHuggingFace AIProvider = "huggingface"

	// AIProviderOllama is local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderAnthropic is Anthropic cloud API.
	AIProviderAnthropic AIProvider = "anthropic"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderHuggingFace, AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderHuggingFace || p == AIProviderOpenAI || p == AIProviderAnthropic
}

// IsLocal returns true if this provider runs locally.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderHuggingFace:
		return "Hugging Face Inference (cloud)"
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	default:
		return unknownDescription
	}
}

// AllLLMProviders returns providers that support generation.
func AllLLMProviders() []AIProvider {
	return []AIProvider{
		AIProviderHuggingFace,
		AIProviderOllama,
		AIProviderOpenAI,
		AIProviderAnthropic,
	}
}

// DefaultLLMModels returns default models for each LLM provider.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderHuggingFace: "meta-llama/Llama-3.2-3B-Instruct",
		AIProviderOllama:      "llama3.2",
		AIProviderOpenAI:      "gpt-4o-mini",
		AIProviderAnthropic:   "claude-3-5-sonnet-latest",
	}
}

// LLMSettings holds generation backend configuration.
type LLMSettings struct {
	// Provider is the LLM service provider.
	Provider AIProvider

	// Model is the LLM model name.
	Model string

	// BaseURL overrides the provider's API endpoint.
	BaseURL string

	// APIKey is the API key (for cloud providers).
	APIKey string

	// Timeout bounds a single generation call.
	Timeout time.Duration
}

// IsConfigured returns true if the LLM provider is set up.
func (l LLMSettings) IsConfigured() bool {
	if !l.Provider.IsValid() {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return false
	}
	return true
}

// KanoonSettings holds Indian Kanoon API configuration.
type KanoonSettings struct {
	// BaseURL is the API root, e.g. https://api.indiankanoon.org.
	BaseURL string

	// APIToken is the credential sent in the Authorization header.
	APIToken string

	// AuthScheme prefixes the token in the Authorization header.
	AuthScheme string

	// Timeout bounds a single API call.
	Timeout time.Duration

	// RequestsPerSecond paces outbound calls. Zero disables pacing.
	RequestsPerSecond float64

	// Burst is the token bucket size used with RequestsPerSecond.
	Burst int
}

// IsConfigured returns true if the API can be called.
func (k KanoonSettings) IsConfigured() bool {
	return k.BaseURL != "" && k.APIToken != ""
}

// TranslationProvider identifies a translation backend.
type TranslationProvider string

// Available translation providers.
const (
	// TranslationProviderNone disables language mediation.
	TranslationProviderNone TranslationProvider = "none"

	// TranslationProviderGoogle is Google Cloud Translation v2.
	TranslationProviderGoogle TranslationProvider = "google"

	// TranslationProviderLibre is a LibreTranslate-compatible server.
	TranslationProviderLibre TranslationProvider = "libre"
)

// IsValid returns true if the translation provider is recognised.
func (p TranslationProvider) IsValid() bool {
	switch p {
	case TranslationProviderNone, TranslationProviderGoogle, TranslationProviderLibre:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (p TranslationProvider) String() string {
	return string(p)
}

// TranslationSettings holds translation backend configuration.
type TranslationSettings struct {
	// Provider is the translation backend.
	Provider TranslationProvider

	// BaseURL overrides the backend endpoint.
	BaseURL string

	// APIKey authenticates against the backend.
	APIKey string

	// Timeout bounds a single translation call.
	Timeout time.Duration
}

// IsConfigured returns true if a translation backend is selected.
func (t TranslationSettings) IsConfigured() bool {
	switch t.Provider {
	case TranslationProviderGoogle:
		return t.APIKey != ""
	case TranslationProviderLibre:
		return t.BaseURL != ""
	default:
		return false
	}
}

// AuditBackend selects where raw retrieval payloads are persisted.
type AuditBackend string

// Available audit backends.
const (
	// AuditBackendNone disables the retrieval log.
	AuditBackendNone AuditBackend = "none"

	// AuditBackendFile writes one directory of JSON files per request.
	AuditBackendFile AuditBackend = "file"

	// AuditBackendSQLite writes rows into a SQLite database.
	AuditBackendSQLite AuditBackend = "sqlite"
)

// IsValid returns true if the audit backend is recognised.
func (b AuditBackend) IsValid() bool {
	switch b {
	case AuditBackendNone, AuditBackendFile, AuditBackendSQLite:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (b AuditBackend) String() string {
	return string(b)
}

// AuditSettings holds retrieval log configuration.
type AuditSettings struct {
	// Backend selects the persistence mechanism.
	Backend AuditBackend

	// Dir is the directory holding audit files or the database.
	Dir string
}

// PipelineSettings parameterises the advisory orchestrator.
type PipelineSettings struct {
	// Mode selects how case-law context is retrieved.
	Mode RetrievalMode

	// UserLanguage is the BCP 47 code of the user-facing language.
	UserLanguage string

	// PivotLanguage is the language used for retrieval and generation.
	PivotLanguage string

	// Budget bounds the prompt and completion.
	Budget Budget
}

// MediationEnabled reports whether user content must be translated.
func (p PipelineSettings) MediationEnabled() bool {
	user := primarySubtag(p.UserLanguage)
	pivot := primarySubtag(p.PivotLanguage)
	return user != "" && pivot != "" && user != pivot
}

// primarySubtag returns the lower-cased language subtag of a BCP 47 code.
func primarySubtag(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	if i := strings.IndexAny(code, "-_"); i >= 0 {
		code = code[:i]
	}
	return code
}

// AppSettings holds all application settings.
type AppSettings struct {
	// Pipeline holds orchestrator settings.
	Pipeline PipelineSettings

	// LLM holds generation backend settings.
	LLM LLMSettings

	// Kanoon holds corpus search settings.
	Kanoon KanoonSettings

	// Translation holds translation backend settings.
	Translation TranslationSettings

	// Audit holds retrieval log settings.
	Audit AuditSettings
}

// DefaultAppSettings returns settings matching the original advisor:
// Hugging Face Llama 3.2, Indian Kanoon with token auth, English only.
// Credentials are left empty and must be supplied by config or environment.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Pipeline: PipelineSettings{
			Mode:          RetrievalModeSnippets,
			UserLanguage:  "en",
			PivotLanguage: "en",
			Budget:        DefaultBudget(),
		},
		LLM: LLMSettings{
			Provider: AIProviderHuggingFace,
			Model:    DefaultLLMModels()[AIProviderHuggingFace],
			Timeout:  120 * time.Second,
		},
		Kanoon: KanoonSettings{
			BaseURL:           "https://api.indiankanoon.org",
			AuthScheme:        "Token",
			Timeout:           30 * time.Second,
			RequestsPerSecond: 2,
			Burst:             4,
		},
		Translation: TranslationSettings{
			Provider: TranslationProviderNone,
			Timeout:  30 * time.Second,
		},
		Audit: AuditSettings{
			Backend: AuditBackendNone,
		},
	}
}
