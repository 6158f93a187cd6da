package mcp

import (
	"context"

	"github.com/custodia-labs/kanoonsetu/internal/core/domain"
)

// mockAdvisoryService is a mock implementation of driving.AdvisoryService.
type mockAdvisoryService struct {
	advisory    *domain.Advisory
	err         error
	lastAsk     domain.AskRequest
	lastAnalyze domain.AnalyzeRequest
}

func (m *mockAdvisoryService) Ask(_ context.Context, req domain.AskRequest) (*domain.Advisory, error) {
	m.lastAsk = req
	return m.advisory, m.err
}

func (m *mockAdvisoryService) Analyze(_ context.Context, req domain.AnalyzeRequest) (*domain.Advisory, error) {
	m.lastAnalyze = req
	return m.advisory, m.err
}

// mockSettingsService is a mock implementation of driving.SettingsService.
type mockSettingsService struct {
	settings *domain.AppSettings
	err      error
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	return m.settings, m.err
}

func (m *mockSettingsService) Save(_ *domain.AppSettings) error {
	return m.err
}

func (m *mockSettingsService) SetRetrievalMode(_ domain.RetrievalMode) error {
	return m.err
}

func (m *mockSettingsService) SetLLMProvider(_ domain.AIProvider, _, _ string) error {
	return m.err
}

func (m *mockSettingsService) SetTranslationProvider(_ domain.TranslationProvider, _, _ string) error {
	return m.err
}

func (m *mockSettingsService) SetLanguages(_, _ string) error {
	return m.err
}

func (m *mockSettingsService) Validate() error {
	return m.err
}

func (m *mockSettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

func (m *mockSettingsService) ValidateLLMConfig() error {
	return m.err
}
