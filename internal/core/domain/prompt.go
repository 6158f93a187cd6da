package domain

// Budget bounds the prompt handed to the generation backend.
// Token counts are estimates; see services.TokenCounter.
type Budget struct {
	// TotalTokens is the context window shared by prompt and completion.
	TotalTokens int

	// MaxOutputTokens caps the generation ceiling of every call.
	MaxOutputTokens int

	// MaxContextChars truncates the document text and the rendered
	// retrieval context before they are embedded in the prompt.
	MaxContextChars int

	// SearchExcerptChars is how much of an uploaded document is sent
	// to the corpus search service as the query.
	SearchExcerptChars int
}

// DefaultBudget returns the budget used by the original advisor.
func DefaultBudget() Budget {
	return Budget{
		TotalTokens:        4096,
		MaxOutputTokens:    1500,
		MaxContextChars:    2000,
		SearchExcerptChars: 500,
	}
}

// PromptEnvelope is the fully composed prompt for one generation call.
// It is built fresh per request and never mutated after the call.
type PromptEnvelope struct {
	// System holds the fixed system instructions.
	System string

	// User holds the composed user section.
	User string

	// EstimatedTokens is the estimated size of System plus User.
	EstimatedTokens int

	// MaxTokens is the generation ceiling, within [0, Budget.MaxOutputTokens].
	MaxTokens int
}
