// Package app assembles the advisory pipeline from application settings.
//
// Driving adapters (CLI, HTTP, MCP, TUI) receive the services built here and
// never construct driven adapters themselves.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/custodia-labs/kanoonsetu/internal/adapters/driven/ai"
	"github.com/custodia-labs/kanoonsetu/internal/adapters/driven/config/file"
	"github.com/custodia-labs/kanoonsetu/internal/adapters/driven/kanoon"
	auditfile "github.com/custodia-labs/kanoonsetu/internal/adapters/driven/storage/file"
	"github.com/custodia-labs/kanoonsetu/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/kanoonsetu/internal/core/domain"
	"github.com/custodia-labs/kanoonsetu/internal/core/ports/driven"
	"github.com/custodia-labs/kanoonsetu/internal/core/services"
	"github.com/custodia-labs/kanoonsetu/internal/extractors/pdf"
	"github.com/custodia-labs/kanoonsetu/internal/extractors/plaintext"
	"github.com/custodia-labs/kanoonsetu/internal/extractors/word"
	"github.com/custodia-labs/kanoonsetu/internal/logger"
)

// Options tunes how the pipeline is built.
type Options struct {
	// PromptDir overrides the prompt template directory.
	PromptDir string

	// KanoonHTTPClient overrides the HTTP client used for corpus calls.
	KanoonHTTPClient *http.Client

	// ValidateLLM pings the generation backend while building. A backend
	// that does not answer is dropped and requests fail with
	// GenerationUnavailable.
	ValidateLLM bool
}

// App holds the services of one running pipeline.
type App struct {
	Settings   domain.AppSettings
	Advisory   *services.AdvisoryService
	Extraction *services.ExtractionService
	Prompts    *file.PromptStore

	llm   driven.LLMService
	audit driven.AuditSink
}

// Build constructs every driven adapter and the services on top of them.
//
// A missing corpus token or generation backend is not fatal: requests fail
// later with RetrievalUnavailable or GenerationUnavailable. A translation
// backend that cannot be built while mediation is enabled is fatal.
func Build(ctx context.Context, settings domain.AppSettings, opts Options) (*App, error) {
	a := &App{Settings: settings}

	a.Extraction = services.NewExtractionService(
		plaintext.New(),
		pdf.New(),
		word.New(),
	)

	prompts, err := file.NewPromptStore(opts.PromptDir)
	if err != nil {
		return nil, fmt.Errorf("prompt store: %w", err)
	}
	a.Prompts = prompts

	corpus := buildCorpus(settings.Kanoon, opts.KanoonHTTPClient)

	a.audit, err = buildAudit(settings.Audit)
	if err != nil {
		return nil, err
	}

	a.llm = buildLLM(ctx, &settings.LLM, opts.ValidateLLM)

	var translator driven.Translator
	if settings.Pipeline.MediationEnabled() {
		translator, err = ai.CreateTranslator(ctx, &settings.Translation)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("%w: %w", domain.ErrTranslationUnavailable, err)
		}
	}

	mediator, err := services.NewMediator(
		translator,
		settings.Pipeline.UserLanguage,
		settings.Pipeline.PivotLanguage,
		settings.Translation.Timeout,
	)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.Advisory = services.NewAdvisoryService(
		a.Extraction,
		services.NewRetriever(corpus, a.audit, settings.Pipeline.Mode, settings.Kanoon.Timeout),
		services.NewAssembler(prompts, settings.Pipeline.Budget, nil),
		mediator,
		a.llm,
		services.AdvisoryConfig{
			Model:             settings.LLM.Model,
			GenerationTimeout: settings.LLM.Timeout,
		},
	)

	logger.Debug("Pipeline ready: mode=%s languages=%s/%s llm=%s audit=%s",
		settings.Pipeline.Mode,
		settings.Pipeline.UserLanguage,
		settings.Pipeline.PivotLanguage,
		settings.LLM.Provider,
		settings.Audit.Backend)

	return a, nil
}

// WatchPrompts reloads prompt templates whenever they change on disk until
// ctx is cancelled.
func (a *App) WatchPrompts(ctx context.Context) error {
	changes, err := a.Prompts.Watch(ctx)
	if err != nil {
		return err
	}
	go func() {
		for name := range changes {
			logger.Info("Reloaded prompt %s", name)
		}
	}()
	return nil
}

// Close releases the generation backend and the audit sink.
func (a *App) Close() error {
	var errs []error
	if a.llm != nil {
		errs = append(errs, a.llm.Close())
	}
	if a.audit != nil {
		errs = append(errs, a.audit.Close())
	}
	return errors.Join(errs...)
}

func buildLLM(ctx context.Context, settings *domain.LLMSettings, validate bool) driven.LLMService {
	create := ai.CreateLLMService
	if validate {
		create = func(s *domain.LLMSettings) (driven.LLMService, error) {
			return ai.CreateAndValidateLLMService(ctx, s)
		}
	}

	svc, err := create(settings)
	if err != nil {
		logger.Warn("Generation backend unavailable: %v", err)
		return nil
	}
	if svc == nil {
		logger.Warn("No generation backend configured (provider %s)", settings.Provider)
	}
	return svc
}

func buildCorpus(settings domain.KanoonSettings, httpClient *http.Client) driven.CorpusClient {
	rps := settings.RequestsPerSecond
	if rps == 0 {
		rps = -1 // the client treats zero as "use default"
	}
	client, err := kanoon.NewClient(kanoon.Config{
		BaseURL:           settings.BaseURL,
		Token:             settings.APIToken,
		AuthScheme:        settings.AuthScheme,
		Timeout:           settings.Timeout,
		RequestsPerSecond: rps,
		Burst:             settings.Burst,
		HTTPClient:        httpClient,
	})
	if err != nil {
		logger.Warn("Corpus search unavailable: %v", err)
		return nil
	}
	return client
}

func buildAudit(settings domain.AuditSettings) (driven.AuditSink, error) {
	switch settings.Backend {
	case domain.AuditBackendFile:
		sink, err := auditfile.NewAuditSink(settings.Dir)
		if err != nil {
			return nil, fmt.Errorf("file audit: %w", err)
		}
		return sink, nil
	case domain.AuditBackendSQLite:
		store, err := sqlite.NewStore(settings.Dir)
		if err != nil {
			return nil, fmt.Errorf("sqlite audit: %w", err)
		}
		return store, nil
	default:
		return nil, nil
	}
}
