package driven

import "context"

// Translator converts text between languages.
// Language codes are BCP 47 tags such as "hi" or "en".
// Failures are wrapped with domain.ErrTranslationUnavailable.
type Translator interface {
	// Translate converts text from the source language to the target language.
	Translate(ctx context.Context, text, source, target string) (string, error)

	// Name identifies the backend in logs.
	Name() string
}
