// Package http exposes the advisory pipeline over a small JSON API.
package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"

	"github.com/custodia-labs/kanoonsetu/internal/core/ports/driving"
	"github.com/custodia-labs/kanoonsetu/internal/logger"
)

// Config holds server configuration.
type Config struct {
	// Addr is the listen address, e.g. ":8000".
	Addr string

	// Version is reported by GET /version.
	Version string

	// AllowedOrigins lists the CORS origins. Empty allows any origin.
	AllowedOrigins []string

	// MaxUploadBytes bounds the multipart body of POST /analyze.
	MaxUploadBytes int64
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Addr:           ":8000",
		Version:        "dev",
		AllowedOrigins: []string{"*"},
		MaxUploadBytes: 20 << 20,
	}
}

// Server serves the advisory API.
type Server struct {
	httpServer *http.Server
	router     chi.Router
	advisory   driving.AdvisoryService
	validate   *validator.Validate
	version    string
	maxUpload  int64
}

// NewServer creates a new HTTP server.
func NewServer(cfg Config, advisory driving.AdvisoryService) *Server {
	defaults := DefaultConfig()
	if cfg.Addr == "" {
		cfg.Addr = defaults.Addr
	}
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = defaults.AllowedOrigins
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = defaults.MaxUploadBytes
	}

	s := &Server{
		router:    chi.NewRouter(),
		advisory:  advisory,
		validate:  validator.New(validator.WithRequiredStructEnabled()),
		version:   cfg.Version,
		maxUpload: cfg.MaxUploadBytes,
	}
	s.setupRoutes(cfg.AllowedOrigins)

	s.httpServer = &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		// Generation can take minutes on a cold model.
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

func (s *Server) setupRoutes(origins []string) {
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Recoverer)
	s.router.Use(requestLogger)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))

	s.router.Get("/healthz", s.handleHealth)
	s.router.Get("/version", s.handleVersion)
	s.router.Post("/chat", s.handleChat)
	s.router.Post("/analyze", s.handleAnalyze)
}

// Handler returns the root handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	return nil
}

// requestLogger logs one line per request in verbose mode.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		logger.Debug("%s %s -> %d (%s)", r.Method, r.URL.Path, ww.Status(), time.Since(start).Round(time.Millisecond))
	})
}
