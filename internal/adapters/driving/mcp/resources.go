package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/kanoonsetu/internal/core/domain"
)

const (
	// URIScheme is the custom URI scheme for KanoonSetu resources.
	uriScheme = "kanoonsetu://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "settings",
		Name:        "settings",
		Description: "Pipeline configuration without credentials",
		MIMEType:    "application/json",
	}, s.handleSettingsResource)

	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "formats",
		Name:        "formats",
		Description: "File extensions accepted by analyze_document",
		MIMEType:    "application/json",
	}, s.handleFormatsResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "modes/{mode}",
		Name:        "retrieval-mode",
		Description: "Description of a retrieval mode",
		MIMEType:    "text/plain",
	}, s.handleModeResource)
}

// settingsInfo is the public view of the application settings.
type settingsInfo struct {
	Mode                string `json:"mode"`
	UserLanguage        string `json:"user_language"`
	PivotLanguage       string `json:"pivot_language"`
	LLMProvider         string `json:"llm_provider"`
	LLMModel            string `json:"llm_model"`
	TranslationProvider string `json:"translation_provider"`
	MaxOutputTokens     int    `json:"max_output_tokens"`
}

// handleSettingsResource returns the current settings with secrets removed.
func (s *Server) handleSettingsResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Settings == nil {
		return jsonResource(req.Params.URI, "{}"), nil
	}

	settings, err := s.ports.Settings.Get()
	if err != nil {
		return nil, fmt.Errorf("getting settings: %w", err)
	}

	data, err := json.MarshalIndent(settingsInfo{
		Mode:                settings.Pipeline.Mode.String(),
		UserLanguage:        settings.Pipeline.UserLanguage,
		PivotLanguage:       settings.Pipeline.PivotLanguage,
		LLMProvider:         settings.LLM.Provider.String(),
		LLMModel:            settings.LLM.Model,
		TranslationProvider: settings.Translation.Provider.String(),
		MaxOutputTokens:     settings.Pipeline.Budget.MaxOutputTokens,
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling settings: %w", err)
	}
	return jsonResource(req.Params.URI, string(data)), nil
}

// handleFormatsResource returns the supported upload extensions.
func (s *Server) handleFormatsResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	data, err := json.Marshal(domain.SupportedExtensions())
	if err != nil {
		return nil, fmt.Errorf("marshalling formats: %w", err)
	}
	return jsonResource(req.Params.URI, string(data)), nil
}

// handleModeResource describes one retrieval mode.
func (s *Server) handleModeResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	mode := domain.RetrievalMode(extractMode(req.Params.URI))
	if !mode.IsValid() {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "text/plain",
			Text:     mode.Description(),
		}},
	}, nil
}

func jsonResource(uri, text string) *mcp.ReadResourceResult {
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     text,
		}},
	}
}

// extractMode extracts the mode from a URI like kanoonsetu://modes/{mode}.
func extractMode(uri string) string {
	const prefix = uriScheme + "modes/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	return strings.TrimPrefix(uri, prefix)
}
