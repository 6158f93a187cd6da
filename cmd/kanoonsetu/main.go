package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/kanoonsetu/internal/adapters/driven/ai"
	"github.com/custodia-labs/kanoonsetu/internal/adapters/driven/config/file"
	"github.com/custodia-labs/kanoonsetu/internal/adapters/driving/cli"
	"github.com/custodia-labs/kanoonsetu/internal/app"
	"github.com/custodia-labs/kanoonsetu/internal/core/services"
	"github.com/custodia-labs/kanoonsetu/internal/logger"
)

var version = "dev"

func main() {
	// Credentials may live in a .env file next to the binary's working directory.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Warn("Ignoring .env: %v", err)
	}

	configDir, err := file.DefaultDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to resolve config directory: %v\n", err)
		os.Exit(1)
	}

	configStore, err := file.NewConfigStore(configDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open config: %v\n", err)
		os.Exit(1)
	}

	settingsService := services.NewSettingsService(configStore, ai.NewConfigValidator())
	settingsService.SetEnvLookup(os.Getenv)

	cli.SetVersion(version)
	cli.SetSettingsService(settingsService)
	cli.SetPipelineFactory(func(ctx context.Context, opts cli.PipelineOptions) (*cli.Pipeline, error) {
		settings, err := settingsService.Get()
		if err != nil {
			return nil, fmt.Errorf("loading settings: %w", err)
		}

		a, err := app.Build(ctx, *settings, app.Options{
			PromptDir:   filepath.Join(configDir, "prompts"),
			ValidateLLM: opts.ValidateBackends,
		})
		if err != nil {
			return nil, err
		}

		return &cli.Pipeline{
			Advisory:     a.Advisory,
			WatchPrompts: a.WatchPrompts,
			Close:        a.Close,
		}, nil
	})

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
