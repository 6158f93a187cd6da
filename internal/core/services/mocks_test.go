package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/custodia-labs/kanoonsetu/internal/core/domain"
	"github.com/custodia-labs/kanoonsetu/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockExtractor implements driven.Extractor for testing.
type mockExtractor struct {
	formats []domain.Format
	text    string
	err     error
	calls   int
}

func (m *mockExtractor) SupportedFormats() []domain.Format {
	return m.formats
}

func (m *mockExtractor) Extract(_ context.Context, doc domain.SourceDocument) (domain.ExtractedText, error) {
	m.calls++
	if m.err != nil {
		return domain.ExtractedText{}, m.err
	}
	format, _ := doc.Format()
	return domain.ExtractedText{Text: m.text, Format: format}, nil
}

// mockCorpus implements driven.CorpusClient for testing.
type mockCorpus struct {
	mu sync.Mutex

	hits      []driven.CorpusHit
	searchErr error
	meta      map[string]map[string]any
	metaErr   map[string]error
	doc       *driven.CorpusPayload
	docErr    error

	queries  []string
	metaIDs  []string
	docIDs   []string
	blockCtx bool
}

func (m *mockCorpus) Search(ctx context.Context, query string, _ int) (*driven.CorpusPage, error) {
	m.mu.Lock()
	m.queries = append(m.queries, query)
	m.mu.Unlock()

	if m.blockCtx {
		<-ctx.Done()
		return nil, fmt.Errorf("search: %w", ctx.Err())
	}
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	return &driven.CorpusPage{
		Hits:  m.hits,
		Found: fmt.Sprint(len(m.hits)),
		Raw:   []byte(fmt.Sprintf(`{"found":"%d"}`, len(m.hits))),
	}, nil
}

func (m *mockCorpus) DocumentMeta(_ context.Context, id string) (*driven.CorpusPayload, error) {
	m.mu.Lock()
	m.metaIDs = append(m.metaIDs, id)
	m.mu.Unlock()

	if err := m.metaErr[id]; err != nil {
		return nil, err
	}
	return &driven.CorpusPayload{
		ID:     id,
		Fields: m.meta[id],
		Raw:    []byte(`{"tid":"` + id + `"}`),
	}, nil
}

func (m *mockCorpus) Document(_ context.Context, id string) (*driven.CorpusPayload, error) {
	m.mu.Lock()
	m.docIDs = append(m.docIDs, id)
	m.mu.Unlock()

	if m.docErr != nil {
		return nil, m.docErr
	}
	if m.doc == nil {
		return &driven.CorpusPayload{ID: id}, nil
	}
	return m.doc, nil
}

// mockAudit implements driven.AuditSink for testing.
type mockAudit struct {
	mu        sync.Mutex
	artifacts map[string][]byte
	err       error
}

func (m *mockAudit) Record(_ context.Context, requestID, artifact string, payload []byte) error {
	if m.err != nil {
		return m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.artifacts == nil {
		m.artifacts = make(map[string][]byte)
	}
	m.artifacts[requestID+"/"+artifact] = payload
	return nil
}

func (m *mockAudit) Close() error {
	return nil
}

func (m *mockAudit) names() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, 0, len(m.artifacts))
	for k := range m.artifacts {
		names = append(names, k)
	}
	return names
}

// mockPrompts implements driven.PromptStore for testing.
type mockPrompts struct {
	prompts map[string]string
}

func (m *mockPrompts) Load(name string) (string, error) {
	if p, ok := m.prompts[name]; ok {
		return p, nil
	}
	return "", errors.New("prompt not found")
}

func (m *mockPrompts) Reload() {}

// mockLLMService implements driven.LLMService for testing.
// With no canned response it echoes the user message.
type mockLLMService struct {
	mu       sync.Mutex
	response string
	err      error
	messages []driven.ChatMessage
	opts     driven.ChatOptions
	calls    int
}

func (m *mockLLMService) Chat(_ context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.messages = messages
	m.opts = opts
	if m.err != nil {
		return "", m.err
	}
	if m.response != "" {
		return m.response, nil
	}
	return messages[len(messages)-1].Content, nil
}

func (m *mockLLMService) ModelName() string {
	return "mock-model"
}

func (m *mockLLMService) Ping(_ context.Context) error {
	return nil
}

func (m *mockLLMService) Close() error {
	return nil
}

// mockTranslator implements driven.Translator for testing.
// It tags text with the target language so round trips are observable.
type mockTranslator struct {
	mu    sync.Mutex
	err   error
	calls []string
}

func (m *mockTranslator) Name() string {
	return "mock"
}

func (m *mockTranslator) Translate(_ context.Context, text, source, target string) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, source+">"+target+":"+text)
	m.mu.Unlock()
	if m.err != nil {
		return "", m.err
	}
	prefix := "[" + source + "]"
	if strings.HasPrefix(text, prefix) {
		return strings.TrimPrefix(text, prefix), nil
	}
	return "[" + target + "]" + text, nil
}

// mockConfigStore implements driven.ConfigStore for testing.
type mockConfigStore struct {
	data    map[string]any
	saveErr error
}

func newMockConfigStore() *mockConfigStore {
	return &mockConfigStore{data: make(map[string]any)}
}

func (m *mockConfigStore) Get(key string) (any, bool) {
	v, ok := m.data[key]
	return v, ok
}

func (m *mockConfigStore) GetString(key string) string {
	s, _ := m.data[key].(string)
	return s
}

func (m *mockConfigStore) GetInt(key string) int {
	switch v := m.data[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	default:
		return 0
	}
}

func (m *mockConfigStore) GetBool(key string) bool {
	b, _ := m.data[key].(bool)
	return b
}

func (m *mockConfigStore) GetStringSlice(key string) []string {
	s, _ := m.data[key].([]string)
	return s
}

func (m *mockConfigStore) Set(key string, value any) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.data[key] = value
	return nil
}

func (m *mockConfigStore) Save() error {
	return m.saveErr
}

func (m *mockConfigStore) Load() error {
	return nil
}

func (m *mockConfigStore) Path() string {
	return "/tmp/mock-config.toml"
}

// mockAIValidator implements driven.AIConfigValidator for testing.
type mockAIValidator struct {
	err    error
	called bool
}

func (m *mockAIValidator) ValidateLLM(_ *domain.LLMSettings) error {
	m.called = true
	return m.err
}
