package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/kanoonsetu/internal/core/domain"
	"github.com/custodia-labs/kanoonsetu/internal/core/ports/driven"
	"github.com/custodia-labs/kanoonsetu/internal/core/ports/driving"
	"github.com/custodia-labs/kanoonsetu/internal/logger"
)

// Ensure AdvisoryService implements the interface.
var _ driving.AdvisoryService = (*AdvisoryService)(nil)

// AdvisoryConfig holds generation parameters for the orchestrator.
type AdvisoryConfig struct {
	// Model overrides the generation backend's default model.
	Model string

	// GenerationTimeout bounds a single generation call. Zero means unbounded.
	GenerationTimeout time.Duration

	// Temperature is passed through to the generation backend.
	Temperature float64
}

// AdvisoryService sequences extraction, translation, retrieval, assembly
// and generation for one request at a time. It holds no per-request state.
type AdvisoryService struct {
	extraction driving.ExtractionService
	retriever  *Retriever
	assembler  *Assembler
	mediator   *Mediator
	llm        driven.LLMService
	config     AdvisoryConfig
	newID      func() string
}

// NewAdvisoryService creates the orchestrator.
// The mediator is optional (can be nil); without it no translation happens.
func NewAdvisoryService(
	extraction driving.ExtractionService,
	retriever *Retriever,
	assembler *Assembler,
	mediator *Mediator,
	llm driven.LLMService,
	config AdvisoryConfig,
) *AdvisoryService {
	return &AdvisoryService{
		extraction: extraction,
		retriever:  retriever,
		assembler:  assembler,
		mediator:   mediator,
		llm:        llm,
		config:     config,
		newID:      func() string { return uuid.New().String() },
	}
}

// request tracks the progress of one advisory request.
type request struct {
	id     string
	log    *logger.RequestLogger
	stages []domain.Stage
}

func (s *AdvisoryService) begin(kind string) *request {
	id := s.newID()
	r := &request{
		id:     id,
		log:    logger.Request(id),
		stages: []domain.Stage{domain.StageReceived},
	}
	r.log.Info("Received %s request", kind)
	return r
}

func (r *request) reach(stage domain.Stage) {
	for _, s := range r.stages {
		if s == stage {
			return
		}
	}
	r.stages = append(r.stages, stage)
	r.log.Debug("Stage %s", stage)
}

// fail classifies err and returns the terminal error for the request.
func (r *request) fail(stage domain.Stage, fallback domain.ErrorKind, err error) error {
	kind, ok := domain.KindOf(err)
	if !ok {
		kind = fallback
	}
	advErr := &domain.AdvisoryError{Kind: kind, Stage: stage, Err: err}
	r.log.Error("Request failed: %v", advErr)
	return advErr
}

// Ask answers a free-text legal question.
func (s *AdvisoryService) Ask(ctx context.Context, req domain.AskRequest) (*domain.Advisory, error) {
	r := s.begin("query")

	query := strings.TrimSpace(req.Query)
	if query == "" {
		return nil, r.fail(domain.StageReceived, domain.KindInvalidInput,
			fmt.Errorf("%w: query is empty", domain.ErrInvalidInput))
	}

	pivotQuery, err := s.toPivot(ctx, r, query)
	if err != nil {
		return nil, err
	}

	rc, err := s.retrieve(ctx, r, pivotQuery)
	if err != nil {
		return nil, err
	}

	envelope := s.assembler.Assemble(PromptInput{
		Query:    pivotQuery,
		Context:  rc,
		Language: s.mediator.PromptLanguage(),
	})
	r.reach(domain.StageAssembled)

	response, err := s.generateAndDeliver(ctx, r, envelope)
	if err != nil {
		return nil, err
	}

	return &domain.Advisory{
		RequestID: r.id,
		Reference: query,
		Response:  response,
		Context:   rc,
		Stages:    r.stages,
	}, nil
}

// Analyze extracts an uploaded document and produces a structured analysis.
func (s *AdvisoryService) Analyze(ctx context.Context, req domain.AnalyzeRequest) (*domain.Advisory, error) {
	r := s.begin("document")
	doc := req.Document

	if strings.TrimSpace(doc.Filename) == "" || len(doc.Content) == 0 {
		return nil, r.fail(domain.StageReceived, domain.KindInvalidInput,
			fmt.Errorf("%w: no file uploaded", domain.ErrInvalidInput))
	}
	if _, ok := doc.Format(); !ok {
		return nil, r.fail(domain.StageReceived, domain.KindUnsupportedFormat,
			fmt.Errorf("%w: %q", domain.ErrUnsupportedFormat, doc.Extension()))
	}

	extracted, err := s.extraction.Extract(ctx, doc)
	if err != nil {
		return nil, r.fail(domain.StageExtracted, domain.KindExtractionFailure, err)
	}
	if extracted.IsBlank() {
		return nil, r.fail(domain.StageExtracted, domain.KindInvalidInput,
			fmt.Errorf("%w: %s contains no text", domain.ErrInvalidInput, doc.Filename))
	}
	r.reach(domain.StageExtracted)
	r.log.Info("Extracted %d characters from %s", len([]rune(extracted.Text)), doc.Filename)

	budget := s.assembler.Budget()
	excerpt := truncateRunes(extracted.Text, budget.SearchExcerptChars)
	body := truncateRunes(extracted.Text, budget.MaxContextChars)

	pivotExcerpt, err := s.toPivot(ctx, r, excerpt)
	if err != nil {
		return nil, err
	}
	pivotBody, err := s.toPivot(ctx, r, body)
	if err != nil {
		return nil, err
	}
	pivotQuestion, err := s.toPivot(ctx, r, strings.TrimSpace(req.Question))
	if err != nil {
		return nil, err
	}

	rc, err := s.retrieve(ctx, r, pivotExcerpt)
	if err != nil {
		return nil, err
	}

	envelope := s.assembler.Assemble(PromptInput{
		Document: pivotBody,
		Question: pivotQuestion,
		Context:  rc,
		Language: s.mediator.PromptLanguage(),
	})
	r.reach(domain.StageAssembled)

	response, err := s.generateAndDeliver(ctx, r, envelope)
	if err != nil {
		return nil, err
	}

	return &domain.Advisory{
		RequestID: r.id,
		Reference: doc.Filename,
		Response:  response,
		Context:   rc,
		Stages:    r.stages,
	}, nil
}

func (s *AdvisoryService) toPivot(ctx context.Context, r *request, text string) (string, error) {
	if !s.mediator.Active() {
		return text, nil
	}
	out, err := s.mediator.ToPivot(ctx, text)
	if err != nil {
		return "", r.fail(domain.StageTranslated, domain.KindTranslationUnavailable, err)
	}
	r.reach(domain.StageTranslated)
	return out, nil
}

func (s *AdvisoryService) retrieve(ctx context.Context, r *request, query string) (domain.RetrievalContext, error) {
	logger.Section("Retrieval")
	rc, err := s.retriever.Retrieve(ctx, r.id, query)
	if err != nil {
		return domain.RetrievalContext{}, r.fail(domain.StageRetrieved, domain.KindRetrievalUnavailable, err)
	}
	r.reach(domain.StageRetrieved)
	return rc, nil
}

// generateAndDeliver runs the generation call and translates the result back.
func (s *AdvisoryService) generateAndDeliver(ctx context.Context, r *request, envelope domain.PromptEnvelope) (string, error) {
	logger.Section("Generation")
	r.log.Info("Generating with %s, up to %d tokens", s.modelName(), envelope.MaxTokens)
	response, err := s.generate(ctx, envelope)
	if err != nil {
		return "", r.fail(domain.StageGenerated, domain.KindGenerationUnavailable, err)
	}
	r.reach(domain.StageGenerated)
	r.log.Info("Generated %d characters", len([]rune(response)))

	if s.mediator.Active() {
		response, err = s.mediator.FromPivot(ctx, response)
		if err != nil {
			return "", r.fail(domain.StageTranslated, domain.KindTranslationUnavailable, err)
		}
	}

	r.reach(domain.StageDelivered)
	return response, nil
}

// modelName is the model a generation call will use.
func (s *AdvisoryService) modelName() string {
	if s.config.Model != "" {
		return s.config.Model
	}
	if s.llm == nil {
		return "none"
	}
	return s.llm.ModelName()
}

func (s *AdvisoryService) generate(ctx context.Context, envelope domain.PromptEnvelope) (string, error) {
	if s.llm == nil {
		return "", fmt.Errorf("%w: generation backend %w", domain.ErrGenerationUnavailable, domain.ErrNotConfigured)
	}
	if envelope.MaxTokens <= 0 {
		return "", fmt.Errorf("%w: prompt leaves no room for a response (~%d tokens)",
			domain.ErrGenerationUnavailable, envelope.EstimatedTokens)
	}

	callCtx := ctx
	if s.config.GenerationTimeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, s.config.GenerationTimeout)
		defer cancel()
	}

	messages := []driven.ChatMessage{
		{Role: driven.RoleSystem, Content: envelope.System},
		{Role: driven.RoleUser, Content: envelope.User},
	}
	text, err := s.llm.Chat(callCtx, messages, driven.ChatOptions{
		Model:       s.config.Model,
		MaxTokens:   envelope.MaxTokens,
		Temperature: s.config.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrGenerationUnavailable, err)
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: empty completion", domain.ErrGenerationUnavailable)
	}
	return strings.TrimSpace(text), nil
}
