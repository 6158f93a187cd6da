package mcp

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/kanoonsetu/internal/core/domain"
)

// LegalQueryInput is the input schema for the legal_query tool.
type LegalQueryInput struct {
	Query string `json:"query" jsonschema:"the legal question, in the configured user language"`
}

// LegalQueryOutput is the output schema for the legal_query tool.
type LegalQueryOutput struct {
	Query    string   `json:"query"`
	Response string   `json:"response"`
	Cases    []string `json:"cases,omitempty"`
}

// AnalyzeDocumentInput is the input schema for the analyze_document tool.
type AnalyzeDocumentInput struct {
	Filename      string `json:"filename" jsonschema:"file name including its extension (txt, pdf, doc or docx)"`
	ContentBase64 string `json:"content_base64" jsonschema:"the file content, base64 encoded"`
	Question      string `json:"question,omitempty" jsonschema:"optional question to focus the analysis"`
}

// AnalyzeDocumentOutput is the output schema for the analyze_document tool.
type AnalyzeDocumentOutput struct {
	Document string   `json:"document"`
	Analysis string   `json:"analysis"`
	Cases    []string `json:"cases,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "legal_query",
		Description: "Answer an Indian legal question using relevant case law from Indian Kanoon",
	}, s.handleLegalQuery)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "analyze_document",
		Description: "Analyse a legal document (summary, key terms, risks) against relevant case law",
	}, s.handleAnalyzeDocument)
}

// handleLegalQuery handles the legal_query tool invocation.
func (s *Server) handleLegalQuery(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input LegalQueryInput,
) (*mcp.CallToolResult, LegalQueryOutput, error) {
	advisory, err := s.ports.Advisory.Ask(ctx, domain.AskRequest{Query: input.Query})
	if err != nil {
		return nil, LegalQueryOutput{}, toolError(err)
	}

	return nil, LegalQueryOutput{
		Query:    advisory.Reference,
		Response: advisory.Response,
		Cases:    advisory.Context.Titles(),
	}, nil
}

// handleAnalyzeDocument handles the analyze_document tool invocation.
func (s *Server) handleAnalyzeDocument(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AnalyzeDocumentInput,
) (*mcp.CallToolResult, AnalyzeDocumentOutput, error) {
	content, err := base64.StdEncoding.DecodeString(input.ContentBase64)
	if err != nil {
		return nil, AnalyzeDocumentOutput{}, fmt.Errorf("content_base64 is not valid base64: %w", err)
	}

	advisory, err := s.ports.Advisory.Analyze(ctx, domain.AnalyzeRequest{
		Document: domain.SourceDocument{Filename: input.Filename, Content: content},
		Question: input.Question,
	})
	if err != nil {
		return nil, AnalyzeDocumentOutput{}, toolError(err)
	}

	return nil, AnalyzeDocumentOutput{
		Document: advisory.Reference,
		Analysis: advisory.Response,
		Cases:    advisory.Context.Titles(),
	}, nil
}

// toolError turns a pipeline failure into the message shown to the assistant.
func toolError(err error) error {
	var advErr *domain.AdvisoryError
	if errors.As(err, &advErr) {
		return fmt.Errorf("%s: %s", advErr.Kind, advErr.Message())
	}
	return err
}
