package domain

// Stage is a step of the advisory pipeline state machine.
// Requests move forward only; any stage may end in StageFailed.
type Stage string

// Pipeline stages in order.
const (
	StageReceived   Stage = "received"
	StageExtracted  Stage = "extracted"
	StageTranslated Stage = "translated"
	StageRetrieved  Stage = "retrieved"
	StageAssembled  Stage = "assembled"
	StageGenerated  Stage = "generated"
	StageDelivered  Stage = "delivered"
	StageFailed     Stage = "failed"
)

// String returns the string representation.
func (s Stage) String() string {
	return string(s)
}

// AskRequest is a free-text legal question.
type AskRequest struct {
	// Query is the user's question in the user-facing language.
	Query string
}

// AnalyzeRequest asks for a structured analysis of an uploaded document.
type AnalyzeRequest struct {
	// Document is the uploaded file.
	Document SourceDocument

	// Question optionally focuses the analysis.
	Question string
}

// Advisory is the successful result of one advisory request.
type Advisory struct {
	// RequestID identifies the request in logs and audit artefacts.
	RequestID string `json:"request_id"`

	// Reference is the query text or the analysed document's filename.
	Reference string `json:"reference"`

	// Response is the generated advisory text in the user-facing language.
	Response string `json:"response"`

	// Context is the case-law context the response was grounded in.
	Context RetrievalContext `json:"context"`

	// Stages lists the pipeline stages the request passed through.
	Stages []Stage `json:"stages"`
}

// Reached reports whether the request passed through stage s.
func (a *Advisory) Reached(s Stage) bool {
	for _, st := range a.Stages {
		if st == s {
			return true
		}
	}
	return false
}
