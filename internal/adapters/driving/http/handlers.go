package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"path/filepath"

	"github.com/custodia-labs/kanoonsetu/internal/core/domain"
)

// ChatRequest is the POST /chat request body.
type ChatRequest struct {
	Query string `json:"query" validate:"max=20000"`
}

// ChatResponse is the POST /chat response body.
type ChatResponse struct {
	Query    string `json:"query"`
	Response string `json:"response"`
}

// AnalyzeResponse is the POST /analyze response body.
type AnalyzeResponse struct {
	Document string `json:"document"`
	Analysis string `json:"analysis"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"version": s.version})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	if err := dec.Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid request body", domain.KindInvalidInput)
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "query is too long", domain.KindInvalidInput)
		return
	}

	advisory, err := s.advisory.Ask(r.Context(), domain.AskRequest{Query: req.Query})
	if err != nil {
		writeAdvisoryError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, ChatResponse{Query: advisory.Reference, Response: advisory.Response})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.ContentLength > s.maxUpload {
		writeError(w, http.StatusRequestEntityTooLarge, "upload is too large", domain.KindInvalidInput)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
	if err := r.ParseMultipartForm(s.maxUpload); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "upload is too large", domain.KindInvalidInput)
			return
		}
		writeAdvisoryError(w, &domain.AdvisoryError{Kind: domain.KindInvalidInput, Stage: domain.StageReceived, Err: err})
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	var doc domain.SourceDocument
	file, header, err := r.FormFile("file")
	if err == nil {
		defer file.Close()
		content, readErr := io.ReadAll(file)
		if readErr != nil {
			writeError(w, http.StatusBadRequest, "upload could not be read", domain.KindInvalidInput)
			return
		}
		doc = domain.SourceDocument{Filename: filepath.Base(header.Filename), Content: content}
	}

	advisory, err := s.advisory.Analyze(r.Context(), domain.AnalyzeRequest{
		Document: doc,
		Question: r.FormValue("question"),
	})
	if err != nil {
		writeAdvisoryError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, AnalyzeResponse{Document: advisory.Reference, Analysis: advisory.Response})
}

// statusFor maps a failure kind to an HTTP status.
func statusFor(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindInvalidInput, domain.KindUnsupportedFormat:
		return http.StatusBadRequest
	case domain.KindExtractionFailure:
		return http.StatusUnprocessableEntity
	case domain.KindRetrievalUnavailable, domain.KindTranslationUnavailable, domain.KindGenerationUnavailable:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeAdvisoryError(w http.ResponseWriter, err error) {
	var advErr *domain.AdvisoryError
	if !errors.As(err, &advErr) {
		kind, ok := domain.KindOf(err)
		if !ok {
			writeError(w, http.StatusInternalServerError, "internal error", "")
			return
		}
		advErr = &domain.AdvisoryError{Kind: kind, Err: err}
	}
	writeError(w, statusFor(advErr.Kind), advErr.Message(), advErr.Kind)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, kind domain.ErrorKind) {
	writeJSON(w, status, ErrorResponse{Error: message, Kind: kind.String()})
}
