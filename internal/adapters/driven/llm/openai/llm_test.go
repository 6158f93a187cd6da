package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/kanoonsetu/internal/core/ports/driven"
)

func TestNewLLMService_RequiresAPIKey(t *testing.T) {
	_, err := NewLLMService(LLMConfig{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "openai: API key is required")

	_, err = NewLLMService(HuggingFace("", "", 0))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "huggingface: API key is required")
}

func TestHuggingFace_Defaults(t *testing.T) {
	cfg := HuggingFace("hf_x", "", 0)

	assert.Equal(t, HuggingFaceBaseURL, cfg.BaseURL)
	assert.Equal(t, HuggingFaceModel, cfg.Model)
	assert.Equal(t, "huggingface", cfg.Name)
}

func TestChat_SendsMessagesAndOptions(t *testing.T) {
	var got chatCompletionRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"Section 420 applies."},"finish_reason":"stop"}]}`))
	}))
	defer server.Close()

	svc, err := NewLLMService(LLMConfig{APIKey: "sk-test", BaseURL: server.URL + "/", Model: "base-model"})
	require.NoError(t, err)

	out, err := svc.Chat(context.Background(), []driven.ChatMessage{
		{Role: driven.RoleSystem, Content: "You are a legal assistant."},
		{Role: driven.RoleUser, Content: "Is cheating an offence?"},
	}, driven.ChatOptions{Model: "override-model", MaxTokens: 300, Temperature: 0.7})

	require.NoError(t, err)
	assert.Equal(t, "Section 420 applies.", out)
	assert.Equal(t, "override-model", got.Model)
	assert.Equal(t, 300, got.MaxTokens)
	assert.InDelta(t, 0.7, got.Temperature, 1e-9)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, "Is cheating an offence?", got.Messages[1].Content)
}

func TestChat_UsesConfiguredModel(t *testing.T) {
	var got chatCompletionRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"ok"}}]}`))
	}))
	defer server.Close()

	svc, err := NewLLMService(LLMConfig{APIKey: "k", BaseURL: server.URL, Model: "base-model"})
	require.NoError(t, err)

	out, err := svc.Chat(context.Background(),
		[]driven.ChatMessage{{Role: driven.RoleUser, Content: "hello"}}, driven.ChatOptions{})

	require.NoError(t, err)
	assert.Equal(t, "ok", out)
	assert.Equal(t, "base-model", got.Model)
	assert.Zero(t, got.MaxTokens)
	assert.Equal(t, "base-model", svc.ModelName())
}

func TestChat_Errors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		contains string
	}{
		{
			name:     "api error with message",
			status:   http.StatusTooManyRequests,
			body:     `{"error":{"message":"rate limited","type":"requests"}}`,
			contains: "huggingface error (status 429): rate limited",
		},
		{
			name:     "non json error",
			status:   http.StatusBadGateway,
			body:     `upstream down`,
			contains: "huggingface error (status 502): upstream down",
		},
		{
			name:     "no choices",
			status:   http.StatusOK,
			body:     `{"choices":[]}`,
			contains: "no response choices",
		},
		{
			name:     "malformed body",
			status:   http.StatusOK,
			body:     `{`,
			contains: "decode response",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			cfg := HuggingFace("hf_x", "", 0)
			cfg.BaseURL = server.URL
			svc, err := NewLLMService(cfg)
			require.NoError(t, err)

			_, err = svc.Chat(context.Background(), []driven.ChatMessage{{Role: driven.RoleUser, Content: "q"}}, driven.ChatOptions{})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestPing(t *testing.T) {
	status := http.StatusOK
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models", r.URL.Path)
		w.WriteHeader(status)
	}))
	defer server.Close()

	svc, err := NewLLMService(LLMConfig{APIKey: "k", BaseURL: server.URL})
	require.NoError(t, err)

	assert.NoError(t, svc.Ping(context.Background()))

	status = http.StatusUnauthorized
	err = svc.Ping(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")
}
