package services

import (
	"strings"

	"github.com/custodia-labs/kanoonsetu/internal/core/domain"
	"github.com/custodia-labs/kanoonsetu/internal/core/ports/driven"
	"github.com/custodia-labs/kanoonsetu/internal/logger"
)

// TokenCounter estimates the number of tokens in a text.
type TokenCounter interface {
	Count(text string) int
}

// WordCounter counts whitespace-separated words.
// It is a coarse stand-in for a subword tokenizer.
type WordCounter struct{}

// Count returns the number of words in text.
func (WordCounter) Count(text string) int {
	return len(strings.Fields(text))
}

// Fallback templates used when the prompt store cannot supply one.
const (
	fallbackSystem   = "You are an AI legal assistant specialising in Indian law."
	fallbackQuery    = "Legal query: %s\n\nRelevant case law:\n%s"
	fallbackDocument = "Document:\n%s\n\nRelevant case law:\n%s"
)

var focusLabels = map[string]string{
	"en": "Specific question",
	"hi": "विशिष्ट प्रश्न",
}

// PromptInput is the content to compose into a prompt.
// Exactly one of Query or Document is expected to be set.
type PromptInput struct {
	// Query is a free-text legal question.
	Query string

	// Document is extracted document text.
	Document string

	// Question optionally focuses a document analysis.
	Question string

	// Context is the retrieved case-law context.
	Context domain.RetrievalContext

	// Language selects the template variant, e.g. "hi".
	Language string
}

// Assembler composes prompts within a token budget.
type Assembler struct {
	prompts driven.PromptStore
	counter TokenCounter
	budget  domain.Budget
}

// NewAssembler creates an assembler.
// The prompt store is optional (can be nil); a nil counter defaults to WordCounter.
func NewAssembler(prompts driven.PromptStore, budget domain.Budget, counter TokenCounter) *Assembler {
	if counter == nil {
		counter = WordCounter{}
	}
	return &Assembler{
		prompts: prompts,
		counter: counter,
		budget:  budget,
	}
}

// Budget returns the configured budget.
func (a *Assembler) Budget() domain.Budget {
	return a.budget
}

// Assemble builds the prompt envelope. It never fails.
func (a *Assembler) Assemble(in PromptInput) domain.PromptEnvelope {
	system := a.template(driven.PromptSystem, in.Language, fallbackSystem, 0)
	caseLaw := truncateRunes(in.Context.Render(), a.budget.MaxContextChars)

	var user string
	if in.Document != "" {
		tpl := a.template(driven.PromptDocument, in.Language, fallbackDocument, 2)
		user = fillTemplate(tpl, truncateRunes(in.Document, a.budget.MaxContextChars), caseLaw)
		if q := strings.TrimSpace(in.Question); q != "" {
			user += "\n\n" + focusLabel(in.Language) + ": " + q
		}
	} else {
		tpl := a.template(driven.PromptQuery, in.Language, fallbackQuery, 2)
		user = fillTemplate(tpl, in.Query, caseLaw)
	}

	estimated := a.counter.Count(system + "\n" + user)
	ceiling := min(a.budget.MaxOutputTokens, max(0, a.budget.TotalTokens-estimated))

	logger.Debug("Prompt assembled: ~%d tokens, ceiling %d", estimated, ceiling)

	return domain.PromptEnvelope{
		System:          system,
		User:            user,
		EstimatedTokens: estimated,
		MaxTokens:       ceiling,
	}
}

// template loads the localised template, then the base template, then the fallback.
// Templates with the wrong number of %s placeholders are skipped.
// Any other % in a template is literal text.
func (a *Assembler) template(name, lang, fallback string, placeholders int) string {
	if a.prompts == nil {
		return fallback
	}
	for _, candidate := range []string{driven.LocalisedPrompt(name, lang), name} {
		tpl, err := a.prompts.Load(candidate)
		if err != nil || strings.TrimSpace(tpl) == "" {
			continue
		}
		if strings.Count(tpl, "%s") != placeholders {
			logger.Warn("Prompt %q has %d placeholders, want %d; ignoring", candidate, strings.Count(tpl, "%s"), placeholders)
			continue
		}
		return tpl
	}
	return fallback
}

// fillTemplate replaces each %s in tpl with the next value, in order.
// Values are inserted verbatim, so a %s inside a value is never expanded.
func fillTemplate(tpl string, values ...string) string {
	parts := strings.Split(tpl, "%s")
	var b strings.Builder
	for i, part := range parts {
		b.WriteString(part)
		if i < len(values) && i < len(parts)-1 {
			b.WriteString(values[i])
		}
	}
	return b.String()
}

func focusLabel(lang string) string {
	if label, ok := focusLabels[lang]; ok {
		return label
	}
	return focusLabels["en"]
}
