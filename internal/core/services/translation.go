package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/language"

	"github.com/custodia-labs/kanoonsetu/internal/core/domain"
	"github.com/custodia-labs/kanoonsetu/internal/core/ports/driven"
	"github.com/custodia-labs/kanoonsetu/internal/logger"
)

// Mediator translates user content into the pivot language and results back.
// It is inactive when no translator is configured or both languages match,
// in which case text passes through unchanged.
type Mediator struct {
	translator driven.Translator
	user       string
	pivot      string
	timeout    time.Duration
}

// NewMediator creates a mediator for the given BCP 47 language codes.
// Empty codes default to English. The translator is optional (can be nil).
func NewMediator(translator driven.Translator, user, pivot string, timeout time.Duration) (*Mediator, error) {
	userLang, err := canonicalLanguage(user)
	if err != nil {
		return nil, fmt.Errorf("user language: %w", err)
	}
	pivotLang, err := canonicalLanguage(pivot)
	if err != nil {
		return nil, fmt.Errorf("pivot language: %w", err)
	}
	return &Mediator{
		translator: translator,
		user:       userLang,
		pivot:      pivotLang,
		timeout:    timeout,
	}, nil
}

// canonicalLanguage validates a BCP 47 code and returns its canonical form.
func canonicalLanguage(code string) (string, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return "en", nil
	}
	tag, err := language.Parse(code)
	if err != nil {
		return "", fmt.Errorf("invalid language %q: %w", code, err)
	}
	return tag.String(), nil
}

// Active reports whether text is actually translated. Regional variants of
// one language (en-IN and en) share a base language and need no translation.
func (m *Mediator) Active() bool {
	return m != nil && m.translator != nil && baseLanguage(m.user) != baseLanguage(m.pivot)
}

// baseLanguage returns the ISO 639 base of a canonical tag, e.g. "en" for "en-IN".
func baseLanguage(code string) string {
	tag, err := language.Parse(code)
	if err != nil {
		return code
	}
	base, _ := tag.Base()
	return base.String()
}

// UserLanguage returns the canonical user-facing language.
func (m *Mediator) UserLanguage() string {
	if m == nil {
		return "en"
	}
	return m.user
}

// PromptLanguage returns the base language used to select prompt templates.
func (m *Mediator) PromptLanguage() string {
	tag, err := language.Parse(m.UserLanguage())
	if err != nil {
		return "en"
	}
	base, _ := tag.Base()
	return base.String()
}

// PivotLanguage returns the canonical pivot language.
func (m *Mediator) PivotLanguage() string {
	if m == nil {
		return "en"
	}
	return m.pivot
}

// ToPivot translates user content into the pivot language.
func (m *Mediator) ToPivot(ctx context.Context, text string) (string, error) {
	if !m.Active() {
		return text, nil
	}
	return m.translate(ctx, text, m.user, m.pivot)
}

// FromPivot translates generated content back into the user-facing language.
func (m *Mediator) FromPivot(ctx context.Context, text string) (string, error) {
	if !m.Active() {
		return text, nil
	}
	return m.translate(ctx, text, m.pivot, m.user)
}

func (m *Mediator) translate(ctx context.Context, text, source, target string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return text, nil
	}

	callCtx := ctx
	if m.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}

	logger.Debug("Translating %d characters %s -> %s via %s", len([]rune(text)), source, target, m.translator.Name())

	out, err := m.translator.Translate(callCtx, text, source, target)
	if err != nil {
		if errors.Is(err, domain.ErrTranslationUnavailable) {
			return "", err
		}
		return "", fmt.Errorf("%w: %w", domain.ErrTranslationUnavailable, err)
	}
	return out, nil
}
