// Package cli implements the kanoonsetu command line.
package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/kanoonsetu/internal/core/domain"
	"github.com/custodia-labs/kanoonsetu/internal/core/ports/driving"
	"github.com/custodia-labs/kanoonsetu/internal/logger"
)

// version is set at build time via SetVersion.
var version = "dev"

// verbose enables debug logging for every command.
var verbose bool

// settingsService is injected by main.
var settingsService driving.SettingsService

// Pipeline is a running advisory pipeline and its lifecycle hooks.
type Pipeline struct {
	// Advisory answers questions and analyses documents.
	Advisory driving.AdvisoryService

	// WatchPrompts starts hot reload of prompt templates. Optional.
	WatchPrompts func(ctx context.Context) error

	// Close releases the pipeline's resources. Optional.
	Close func() error
}

// PipelineOptions tells the factory how the pipeline will be used.
type PipelineOptions struct {
	// ValidateBackends checks the generation backend before the pipeline
	// is handed out. Set by commands that keep serving requests.
	ValidateBackends bool
}

// PipelineFactory builds the advisory pipeline from the current settings.
type PipelineFactory func(ctx context.Context, opts PipelineOptions) (*Pipeline, error)

var (
	pipelineFactory PipelineFactory
	pipeline        *Pipeline
)

var rootCmd = &cobra.Command{
	Use:   "kanoonsetu",
	Short: "Legal advisory grounded in Indian case law",
	Long: `KanoonSetu answers legal questions and analyses legal documents using
case law retrieved from Indian Kanoon and a large language model.

Responses are informational and are not a substitute for a qualified advocate.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print pipeline diagnostics to stderr")
}

// SetVersion sets the version reported by the version command and the API.
func SetVersion(v string) {
	version = v
}

// SetSettingsService injects the settings service.
func SetSettingsService(s driving.SettingsService) {
	settingsService = s
}

// SetPipelineFactory injects the builder used by commands that need the pipeline.
// The pipeline is built at most once per process.
func SetPipelineFactory(f PipelineFactory) {
	pipelineFactory = f
	pipeline = nil
}

// Execute runs the root command and releases the pipeline afterwards.
func Execute() error {
	defer closePipeline()
	return rootCmd.Execute()
}

func loadPipeline(ctx context.Context, opts PipelineOptions) (*Pipeline, error) {
	if pipeline != nil {
		return pipeline, nil
	}
	if pipelineFactory == nil {
		return nil, errors.New("advisory pipeline not configured")
	}

	p, err := pipelineFactory(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("starting advisory pipeline: %w", err)
	}
	if p == nil || p.Advisory == nil {
		return nil, errors.New("advisory pipeline not configured")
	}
	pipeline = p
	return p, nil
}

func closePipeline() {
	if pipeline == nil {
		return
	}
	if pipeline.Close != nil {
		if err := pipeline.Close(); err != nil {
			logger.Warn("closing pipeline: %v", err)
		}
	}
	pipeline = nil
}

// userError converts a pipeline failure into the message shown on the terminal.
func userError(err error) error {
	var advErr *domain.AdvisoryError
	if errors.As(err, &advErr) {
		logger.Debug("request failed: %v", err)
		return errors.New(advErr.Message())
	}
	return err
}
