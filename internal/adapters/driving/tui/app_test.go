package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/kanoonsetu/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/kanoonsetu/internal/core/domain"
)

// mockAdvisoryService implements driving.AdvisoryService for testing.
type mockAdvisoryService struct {
	AskFunc func(ctx context.Context, req domain.AskRequest) (*domain.Advisory, error)
}

func (m *mockAdvisoryService) Ask(ctx context.Context, req domain.AskRequest) (*domain.Advisory, error) {
	if m.AskFunc != nil {
		return m.AskFunc(ctx, req)
	}
	return &domain.Advisory{Reference: req.Query, Response: "answer"}, nil
}

func (m *mockAdvisoryService) Analyze(_ context.Context, _ domain.AnalyzeRequest) (*domain.Advisory, error) {
	return &domain.Advisory{}, nil
}

func newTestApp(t *testing.T, svc *mockAdvisoryService) *App {
	t.Helper()
	app, err := NewApp(&Ports{Advisory: svc})
	require.NoError(t, err)
	app.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return app
}

func typeText(app *App, text string) {
	app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
}

func TestNewApp_RequiresAdvisory(t *testing.T) {
	_, err := NewApp(&Ports{})
	assert.ErrorIs(t, err, ErrMissingAdvisoryService)

	_, err = NewApp(nil)
	assert.ErrorIs(t, err, ErrMissingAdvisoryService)
}

func TestApp_ViewBeforeResize(t *testing.T) {
	app, err := NewApp(&Ports{Advisory: &mockAdvisoryService{}})
	require.NoError(t, err)

	assert.Equal(t, "Initialising...", app.View())
	assert.False(t, app.Ready())
}

func TestApp_SubmitRunsAdvisory(t *testing.T) {
	var got string
	svc := &mockAdvisoryService{AskFunc: func(_ context.Context, req domain.AskRequest) (*domain.Advisory, error) {
		got = req.Query
		return &domain.Advisory{
			Reference: req.Query,
			Response:  "A notice under Section 106 is required.",
			Context: domain.RetrievalContext{
				Mode:    domain.RetrievalModeSnippets,
				Results: []domain.SearchResult{{ID: "42", Title: "Case X"}},
			},
		}, nil
	}}
	app := newTestApp(t, svc)
	typeText(app, "eviction notice")

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEnter})

	require.NotNil(t, cmd)
	assert.True(t, app.Pending())
	msg := cmd()
	completed, ok := msg.(messages.AdvisoryCompleted)
	require.True(t, ok)
	assert.Equal(t, "eviction notice", got)

	app.Update(completed)

	assert.False(t, app.Pending())
	require.NotNil(t, app.Advisory())
	view := app.View()
	assert.Contains(t, view, "Section 106")
	assert.Contains(t, view, "Case X")
	assert.Contains(t, view, "Answered from 1 case")
}

func TestApp_BlankSubmitIsIgnored(t *testing.T) {
	app := newTestApp(t, &mockAdvisoryService{AskFunc: func(context.Context, domain.AskRequest) (*domain.Advisory, error) {
		t.Error("advisory must not be called")
		return nil, nil
	}})
	typeText(app, "   ")

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, cmd)
	assert.False(t, app.Pending())
}

func TestApp_SubmitWhilePendingIsIgnored(t *testing.T) {
	app := newTestApp(t, &mockAdvisoryService{})
	typeText(app, "bail")

	_, first := app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	_, second := app.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.NotNil(t, first)
	assert.Nil(t, second)
}

func TestApp_FailureShowsUserMessage(t *testing.T) {
	app := newTestApp(t, &mockAdvisoryService{})

	app.Update(messages.AdvisoryCompleted{
		Query: "q",
		Err: &domain.AdvisoryError{
			Kind:  domain.KindRetrievalUnavailable,
			Stage: domain.StageRetrieved,
			Err:   errors.New("status 500"),
		},
	})

	require.Error(t, app.Err())
	view := app.View()
	assert.Contains(t, view, "Indian Kanoon could not be reached")
	assert.NotContains(t, view, "status 500")
}

func TestApp_ClearResets(t *testing.T) {
	app := newTestApp(t, &mockAdvisoryService{})
	typeText(app, "dowry")
	app.Update(messages.AdvisoryCompleted{Query: "dowry", Advisory: &domain.Advisory{Response: "answer"}})

	app.Update(tea.KeyMsg{Type: tea.KeyCtrlL})

	assert.Nil(t, app.Advisory())
	assert.Empty(t, app.input.Value())
	assert.Contains(t, app.View(), "Ready")
}

func TestApp_Quit(t *testing.T) {
	app := newTestApp(t, &mockAdvisoryService{})

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEsc})

	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestApp_AskUsesContext(t *testing.T) {
	type ctxKey struct{}
	ctx := context.WithValue(context.Background(), ctxKey{}, "marker")
	var seen any
	app := newTestApp(t, &mockAdvisoryService{AskFunc: func(ctx context.Context, _ domain.AskRequest) (*domain.Advisory, error) {
		seen = ctx.Value(ctxKey{})
		return &domain.Advisory{}, nil
	}})
	app.WithContext(ctx)
	typeText(app, "q")

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	cmd()

	assert.Equal(t, "marker", seen)
}
