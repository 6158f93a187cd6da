package ai

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/kanoonsetu/internal/core/domain"
)

func TestCreateLLMService(t *testing.T) {
	tests := []struct {
		name      string
		settings  *domain.LLMSettings
		wantNil   bool
		wantModel string
	}{
		{
			name:     "nil settings returns nil",
			settings: nil,
			wantNil:  true,
		},
		{
			name:     "unconfigured settings returns nil",
			settings: &domain.LLMSettings{},
			wantNil:  true,
		},
		{
			name: "huggingface without key is not configured",
			settings: &domain.LLMSettings{
				Provider: domain.AIProviderHuggingFace,
			},
			wantNil: true,
		},
		{
			name: "huggingface defaults to llama instruct",
			settings: &domain.LLMSettings{
				Provider: domain.AIProviderHuggingFace,
				APIKey:   "hf_test",
			},
			wantModel: "meta-llama/Llama-3.2-3B-Instruct",
		},
		{
			name: "ollama provider creates service",
			settings: &domain.LLMSettings{
				Provider: domain.AIProviderOllama,
				BaseURL:  "http://localhost:11434",
				Model:    "llama3.2",
			},
			wantModel: "llama3.2",
		},
		{
			name: "openai provider creates service",
			settings: &domain.LLMSettings{
				Provider: domain.AIProviderOpenAI,
				APIKey:   "test-key",
				Model:    "gpt-4o-mini",
			},
			wantModel: "gpt-4o-mini",
		},
		{
			name: "anthropic provider creates service",
			settings: &domain.LLMSettings{
				Provider: domain.AIProviderAnthropic,
				APIKey:   "test-key",
			},
			wantModel: "claude-3-5-sonnet-latest",
		},
		{
			name: "unknown provider is not configured",
			settings: &domain.LLMSettings{
				Provider: "unknown",
				APIKey:   "test-key",
			},
			wantNil: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := CreateLLMService(tt.settings)
			require.NoError(t, err)

			if tt.wantNil {
				assert.Nil(t, svc)
				return
			}
			require.NotNil(t, svc)
			defer svc.Close()
			assert.Equal(t, tt.wantModel, svc.ModelName())
		})
	}
}

func TestCreateAndValidateLLMService_PingsProvider(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/models", r.URL.Path)
		assert.Equal(t, "Bearer hf_test", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	svc, err := CreateAndValidateLLMService(context.Background(), &domain.LLMSettings{
		Provider: domain.AIProviderHuggingFace,
		APIKey:   "hf_test",
		BaseURL:  server.URL + "/v1",
	})

	require.NoError(t, err)
	require.NotNil(t, svc)
	assert.NoError(t, svc.Close())
}

func TestCreateAndValidateLLMService_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	svc, err := CreateAndValidateLLMService(context.Background(), &domain.LLMSettings{
		Provider: domain.AIProviderOpenAI,
		APIKey:   "bad-key",
		BaseURL:  server.URL,
	})

	require.Error(t, err)
	assert.Nil(t, svc)
	assert.ErrorIs(t, err, domain.ErrGenerationUnavailable)
	assert.Contains(t, err.Error(), "kanoonsetu settings llm")
}

func TestCreateAndValidateLLMService_NotConfigured(t *testing.T) {
	svc, err := CreateAndValidateLLMService(context.Background(), &domain.LLMSettings{Provider: domain.AIProviderAnthropic})

	assert.NoError(t, err)
	assert.Nil(t, svc)
}

func TestValidateLLMConfig_Ollama(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/tags", r.URL.Path)
		_, _ = w.Write([]byte(`{"models":[{"name":"llama3.2:latest"}]}`))
	}))
	defer server.Close()

	err := ValidateLLMConfig(&domain.LLMSettings{
		Provider: domain.AIProviderOllama,
		BaseURL:  server.URL,
		Model:    "llama3.2",
	})
	assert.NoError(t, err)

	err = ValidateLLMConfig(&domain.LLMSettings{
		Provider: domain.AIProviderOllama,
		BaseURL:  server.URL,
		Model:    "mistral",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ollama pull mistral")
}

func TestCreateTranslator(t *testing.T) {
	tests := []struct {
		name     string
		settings *domain.TranslationSettings
		wantNil  bool
		wantName string
		wantErr  error
	}{
		{
			name:    "nil settings disables mediation",
			wantNil: true,
		},
		{
			name:     "none provider disables mediation",
			settings: &domain.TranslationSettings{Provider: domain.TranslationProviderNone},
			wantNil:  true,
		},
		{
			name: "google provider",
			settings: &domain.TranslationSettings{
				Provider: domain.TranslationProviderGoogle,
				APIKey:   "test-key",
			},
			wantName: "google",
		},
		{
			name: "libre provider",
			settings: &domain.TranslationSettings{
				Provider: domain.TranslationProviderLibre,
				BaseURL:  "http://localhost:5000",
			},
			wantName: "libre",
		},
		{
			name:     "google without key",
			settings: &domain.TranslationSettings{Provider: domain.TranslationProviderGoogle},
			wantNil:  true,
			wantErr:  domain.ErrNotConfigured,
		},
		{
			name:     "libre without base url",
			settings: &domain.TranslationSettings{Provider: domain.TranslationProviderLibre},
			wantNil:  true,
			wantErr:  domain.ErrNotConfigured,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, err := CreateTranslator(context.Background(), tt.settings)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			if tt.wantNil {
				assert.Nil(t, tr)
				return
			}
			require.NotNil(t, tr)
			assert.Equal(t, tt.wantName, tr.Name())
		})
	}
}

func TestCreateTranslator_UnknownProvider(t *testing.T) {
	tr, err := CreateTranslator(context.Background(), &domain.TranslationSettings{Provider: "deepl"})

	require.Error(t, err)
	assert.Nil(t, tr)
	assert.Contains(t, err.Error(), "unsupported translation provider")
}
