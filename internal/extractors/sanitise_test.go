package extractors

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/unicode/norm"
)

func TestSanitise(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "plain ascii", input: "Section 420 IPC", expected: "Section 420 IPC"},
		{name: "strips bom", input: "\uFEFFhello", expected: "hello"},
		{name: "drops invalid bytes", input: "ok\xff\xfeok", expected: "okok"},
		{name: "composes decomposed accents", input: "Cafe\u0301", expected: "Caf\u00e9"},
		{name: "keeps devanagari", input: "न्यायालय", expected: "न्यायालय"},
		{name: "empty", input: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Sanitise(tt.input)
			assert.Equal(t, tt.expected, got)
			assert.True(t, utf8.ValidString(got))
			assert.True(t, norm.NFC.IsNormalString(got))
		})
	}
}
