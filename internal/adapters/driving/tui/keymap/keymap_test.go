package keymap

import (
	"testing"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

func TestDefaultKeyMap_Bindings(t *testing.T) {
	km := DefaultKeyMap()

	tests := []struct {
		name    string
		msg     tea.KeyMsg
		binding key.Binding
	}{
		{"enter submits", tea.KeyMsg{Type: tea.KeyEnter}, km.Submit},
		{"esc quits", tea.KeyMsg{Type: tea.KeyEsc}, km.Quit},
		{"ctrl+c quits", tea.KeyMsg{Type: tea.KeyCtrlC}, km.Quit},
		{"ctrl+l clears", tea.KeyMsg{Type: tea.KeyCtrlL}, km.Clear},
		{"pgdown scrolls", tea.KeyMsg{Type: tea.KeyPgDown}, km.ScrollDown},
		{"pgup scrolls", tea.KeyMsg{Type: tea.KeyPgUp}, km.ScrollUp},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, key.Matches(tt.msg, tt.binding))
		})
	}
}

func TestShortHelp(t *testing.T) {
	km := DefaultKeyMap()

	help := km.ShortHelp()

	assert.Len(t, help, 4)
	assert.Equal(t, "ask", help[0].Help().Desc)
}
