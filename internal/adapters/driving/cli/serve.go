package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	httpadapter "github.com/custodia-labs/kanoonsetu/internal/adapters/driving/http"
	"github.com/custodia-labs/kanoonsetu/internal/logger"
)

var (
	serveAddr      string
	serveOrigins   []string
	serveMaxUpload int64
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Start the JSON API used by the web front end.

Endpoints:
  POST /chat     {"query": "..."}            answer a legal question
  POST /analyze  multipart file [+question]  analyse an uploaded document
  GET  /healthz                              liveness check
  GET  /version                              build version

Prompt templates in the prompt directory are reloaded when they change.`,
	RunE: runServe,
}

func init() {
	defaults := httpadapter.DefaultConfig()
	serveCmd.Flags().StringVar(&serveAddr, "addr", defaults.Addr, "listen address")
	serveCmd.Flags().StringSliceVar(&serveOrigins, "allowed-origin", defaults.AllowedOrigins, "CORS allowed origins")
	serveCmd.Flags().Int64Var(&serveMaxUpload, "max-upload", defaults.MaxUploadBytes, "maximum upload size in bytes")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	p, err := loadPipeline(ctx, PipelineOptions{ValidateBackends: true})
	if err != nil {
		return err
	}

	if p.WatchPrompts != nil {
		if err := p.WatchPrompts(ctx); err != nil {
			logger.Warn("prompt hot reload disabled: %v", err)
		}
	}

	server := httpadapter.NewServer(httpadapter.Config{
		Addr:           serveAddr,
		Version:        version,
		AllowedOrigins: serveOrigins,
		MaxUploadBytes: serveMaxUpload,
	}, p.Advisory)

	cmd.Printf("KanoonSetu API listening on %s\n", serveAddr)
	return server.Run(ctx)
}
