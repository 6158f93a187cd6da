// Package domain defines the core business entities for KanoonSetu.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - SourceDocument: An uploaded file awaiting extraction
//   - ExtractedText: Plain text produced from a SourceDocument
//   - RetrievalContext: Case-law context pulled from Indian Kanoon
//   - PromptEnvelope: The bounded prompt handed to the generation backend
//   - Advisory: The terminal result of one pipeline request
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
