package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/custodia-labs/kanoonsetu/internal/core/domain"
)

// mockAdvisoryService implements driving.AdvisoryService for testing.
type mockAdvisoryService struct {
	askFunc     func(ctx context.Context, req domain.AskRequest) (*domain.Advisory, error)
	analyzeFunc func(ctx context.Context, req domain.AnalyzeRequest) (*domain.Advisory, error)
	asked       []domain.AskRequest
	analyzed    []domain.AnalyzeRequest
}

func (m *mockAdvisoryService) Ask(ctx context.Context, req domain.AskRequest) (*domain.Advisory, error) {
	m.asked = append(m.asked, req)
	if m.askFunc != nil {
		return m.askFunc(ctx, req)
	}
	return &domain.Advisory{
		RequestID: "req-1",
		Reference: req.Query,
		Response:  "Answer to: " + req.Query,
		Context: domain.RetrievalContext{
			Mode: domain.RetrievalModeSnippets,
			Results: []domain.SearchResult{
				{ID: "42", Title: "Case X"},
				{ID: "43", Title: "Case Y"},
			},
		},
	}, nil
}

func (m *mockAdvisoryService) Analyze(ctx context.Context, req domain.AnalyzeRequest) (*domain.Advisory, error) {
	m.analyzed = append(m.analyzed, req)
	if m.analyzeFunc != nil {
		return m.analyzeFunc(ctx, req)
	}
	return &domain.Advisory{
		Reference: req.Document.Filename,
		Response:  "Summary: a lease.",
		Context:   domain.EmptyContext(domain.RetrievalModeSnippets),
	}, nil
}

// mockSettingsService implements driving.SettingsService for testing.
type mockSettingsService struct {
	settings    domain.AppSettings
	validateErr error

	mode        domain.RetrievalMode
	llmProvider domain.AIProvider
	llmModel    string
	llmKey      string
	translation domain.TranslationProvider
	transURL    string
	transKey    string
	userLang    string
	pivotLang   string
}

func newMockSettingsService() *mockSettingsService {
	return &mockSettingsService{settings: domain.DefaultAppSettings()}
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	s := m.settings
	return &s, nil
}

func (m *mockSettingsService) Save(settings *domain.AppSettings) error {
	m.settings = *settings
	return nil
}

func (m *mockSettingsService) SetRetrievalMode(mode domain.RetrievalMode) error {
	m.mode = mode
	return nil
}

func (m *mockSettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	m.llmProvider, m.llmModel, m.llmKey = provider, model, apiKey
	return nil
}

func (m *mockSettingsService) SetTranslationProvider(provider domain.TranslationProvider, baseURL, apiKey string) error {
	m.translation, m.transURL, m.transKey = provider, baseURL, apiKey
	return nil
}

func (m *mockSettingsService) SetLanguages(user, pivot string) error {
	m.userLang, m.pivotLang = user, pivot
	return nil
}

func (m *mockSettingsService) Validate() error {
	return m.validateErr
}

func (m *mockSettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

func (m *mockSettingsService) ValidateLLMConfig() error {
	return nil
}

// setupTestPipeline installs svc as the advisory pipeline for one test.
func setupTestPipeline(t *testing.T, svc *mockAdvisoryService) {
	t.Helper()
	origFactory, origPipeline := pipelineFactory, pipeline
	pipelineFactory = func(context.Context, PipelineOptions) (*Pipeline, error) {
		return &Pipeline{Advisory: svc}, nil
	}
	pipeline = nil
	t.Cleanup(func() {
		pipelineFactory, pipeline = origFactory, origPipeline
	})
}

// setupTestSettings installs svc as the settings service for one test.
func setupTestSettings(t *testing.T, svc *mockSettingsService) {
	t.Helper()
	orig := settingsService
	settingsService = svc
	t.Cleanup(func() { settingsService = orig })
}

// runRoot executes the root command with args and stdin, returning combined output.
func runRoot(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
		askJSON = false
		analyzeJSON = false
		analyzeQuestion = ""
	})

	err := rootCmd.Execute()
	return buf.String(), err
}
