package driven

// PromptStore provides access to LLM prompt templates.
// Implementations may load prompts from files, embed them in the binary,
// or fetch them from a remote configuration service.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	// If the prompt is not found, implementations should return a sensible default
	// or an error, depending on whether the prompt is required.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	// This is useful when prompts may have been edited on disk.
	Reload()
}

// Well-known prompt names used throughout the application.
// Localised variants append "_" and the language code, e.g. "query_hi".
const (
	// PromptSystem is the legal advisor system prompt.
	// This prompt has no format placeholders.
	PromptSystem = "system"

	// PromptQuery renders a free-text legal question.
	// The template expects %s (query) and %s (case-law context) placeholders.
	PromptQuery = "query"

	// PromptDocument renders a document analysis request.
	// The template expects %s (document text) and %s (case-law context) placeholders.
	PromptDocument = "document"
)

// LocalisedPrompt returns the prompt name for a language.
// English and empty languages use the base name.
func LocalisedPrompt(name, lang string) string {
	if lang == "" || lang == "en" {
		return name
	}
	return name + "_" + lang
}
