package translate

import (
	"fmt"

	"golang.org/x/text/language"

	"github.com/custodia-labs/kanoonsetu/internal/core/domain"
)

// Normalise validates a BCP 47 code and returns the base language code
// expected by translation backends, e.g. "hi-IN" becomes "hi".
func Normalise(code string) (string, error) {
	tag, err := language.Parse(code)
	if err != nil {
		return "", fmt.Errorf("%w: invalid language %q: %w", domain.ErrTranslationUnavailable, code, err)
	}
	base, _ := tag.Base()
	return base.String(), nil
}
