package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/kanoonsetu/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/kanoonsetu/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/kanoonsetu/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/kanoonsetu/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/kanoonsetu/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/kanoonsetu/internal/core/domain"
)

const disclaimer = "Informational only. Consult a qualified advocate before acting."

// chrome is the number of lines taken by everything except the response pane.
const chrome = 9

// App is the TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	ports  *Ports
	ctx    context.Context
	styles *styles.Styles
	keymap *keymap.KeyMap

	input     *input.QueryInput
	response  viewport.Model
	statusbar *status.Bar

	// advisory is the last successful answer.
	advisory *domain.Advisory

	// err holds the last failure.
	err error

	// pending is true while a question is in flight.
	pending bool

	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	return &App{
		ports:     ports,
		ctx:       context.Background(),
		styles:    s,
		keymap:    km,
		input:     input.NewQueryInput(s),
		response:  viewport.New(80, 24-chrome),
		statusbar: status.NewBar(s, km),
		width:     80,
		height:    24,
	}, nil
}

// WithContext sets the context used for advisory requests.
func (a *App) WithContext(ctx context.Context) *App {
	if ctx != nil {
		a.ctx = ctx
	}
	return a
}

// Init initialises the application.
func (a *App) Init() tea.Cmd {
	return a.input.Init()
}

// Update handles messages and updates the model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.setDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case messages.AdvisoryCompleted:
		a.handleAdvisory(msg)
		return a, nil
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keymap.Quit):
		return a, tea.Quit

	case key.Matches(msg, a.keymap.Submit):
		query := strings.TrimSpace(a.input.Value())
		if query == "" || a.pending {
			return a, nil
		}
		a.pending = true
		a.err = nil
		a.statusbar.SetState(status.StateThinking)
		return a, a.ask(query)

	case key.Matches(msg, a.keymap.Clear):
		a.input.Reset()
		a.advisory = nil
		a.err = nil
		a.response.SetContent("")
		a.statusbar.Clear()
		return a, nil

	case key.Matches(msg, a.keymap.ScrollUp), key.Matches(msg, a.keymap.ScrollDown):
		var cmd tea.Cmd
		a.response, cmd = a.response.Update(msg)
		return a, cmd
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

// ask runs one advisory request off the UI goroutine.
func (a *App) ask(query string) tea.Cmd {
	ctx := a.ctx
	advisory := a.ports.Advisory
	return func() tea.Msg {
		result, err := advisory.Ask(ctx, domain.AskRequest{Query: query})
		return messages.AdvisoryCompleted{Query: query, Advisory: result, Err: err}
	}
}

func (a *App) handleAdvisory(msg messages.AdvisoryCompleted) {
	a.pending = false

	if msg.Err != nil {
		a.err = msg.Err
		a.statusbar.SetState(status.StateError)
		a.statusbar.SetMessage(userMessage(msg.Err))
		return
	}

	a.advisory = msg.Advisory
	a.statusbar.SetState(status.StateAnswered)
	a.statusbar.SetCaseCount(len(msg.Advisory.Context.Titles()))
	a.response.SetContent(a.renderAdvisory())
	a.response.GotoTop()
}

func (a *App) renderAdvisory() string {
	if a.advisory == nil {
		return ""
	}

	wrap := lipgloss.NewStyle().Width(a.response.Width)
	var b strings.Builder
	b.WriteString(wrap.Render(a.styles.Normal.Render(a.advisory.Response)))

	if titles := a.advisory.Context.Titles(); len(titles) > 0 {
		b.WriteString("\n\n")
		b.WriteString(a.styles.Muted.Render("Cases consulted:"))
		for _, title := range titles {
			b.WriteString("\n  ")
			b.WriteString(a.styles.Case.Render(title))
		}
	}
	return b.String()
}

// View renders the current state.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	sections := []string{
		a.styles.Title.Render("KanoonSetu") + "  " + a.styles.Muted.Render("Indian case-law legal advisor"),
		"",
		a.input.View(),
		"",
	}

	if a.err != nil {
		sections = append(sections, a.styles.Error.Render(userMessage(a.err)), "")
	}

	sections = append(sections,
		a.styles.Response.Render(a.response.View()),
		a.styles.Muted.Render(disclaimer),
		a.statusbar.View(),
	)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (a *App) setDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true

	a.input.SetWidth(width)
	a.statusbar.SetWidth(width)

	paneHeight := height - chrome
	if paneHeight < 3 {
		paneHeight = 3
	}
	a.response.Width = width - 4
	a.response.Height = paneHeight
	if a.advisory != nil {
		a.response.SetContent(a.renderAdvisory())
	}
}

// Pending reports whether a question is in flight.
func (a *App) Pending() bool {
	return a.pending
}

// Advisory returns the last successful answer.
func (a *App) Advisory() *domain.Advisory {
	return a.advisory
}

// Err returns the last failure, if any.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has received its first window size.
func (a *App) Ready() bool {
	return a.ready
}

// userMessage returns the end-user text for a pipeline failure.
func userMessage(err error) string {
	var advErr *domain.AdvisoryError
	if errors.As(err, &advErr) {
		return advErr.Message()
	}
	return "Error: " + err.Error()
}
