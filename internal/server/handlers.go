package server

import (
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/interview-simulator/internal/content"
	"github.com/jonathan/interview-simulator/internal/feedback"
	"github.com/jonathan/interview-simulator/internal/fetch"
	"github.com/jonathan/interview-simulator/internal/gate"
	"github.com/jonathan/interview-simulator/internal/types"
)

// StatusResponse represents the response for /api/status
type StatusResponse struct {
	Setup         *types.InterviewSetup `json:"setup,omitempty"`
	Progress      gate.Progress         `json:"progress"`
	HasCredential bool                  `json:"hasCredential"`
	DarkMode      bool                  `json:"darkMode"`
}

// CredentialRequest represents the request body for PUT /api/credential
type CredentialRequest struct {
	APIKey string `json:"apiKey"`
}

// ThemeRequest represents the request body for PUT /api/theme
type ThemeRequest struct {
	Dark bool `json:"dark"`
}

// SetupResponse represents the response for POST /api/setup
type SetupResponse struct {
	Setup *types.InterviewSetup `json:"setup"`
	Next  string                `json:"next"`
}

// ImportRequest represents the request body for POST /api/setup/import
type ImportRequest struct {
	URL string `json:"url"`
}

// ImportResponse prefills the setup form from a job posting.
type ImportResponse struct {
	Posting *fetch.Posting     `json:"posting"`
	Form    types.SetupRequest `json:"form"`
}

// handleStatus reports the current interview and settings
func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	sess := s.wizard.Session()
	_, hasKey := sess.Credential()
	resp := StatusResponse{
		Progress:      s.wizard.Status(),
		HasCredential: hasKey,
		DarkMode:      sess.DarkMode(),
	}
	if setup, ok := sess.Setup(); ok {
		resp.Setup = setup
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

// handleSetCredential stores the provider API key
func (s *Server) handleSetCredential(w http.ResponseWriter, r *http.Request) {
	var req CredentialRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.APIKey) == "" {
		s.jsonResponse(w, http.StatusBadRequest, ErrorBody{Error: "Please enter an API key", Field: "apiKey"})
		return
	}
	if err := s.wizard.Session().SetCredential(req.APIKey); err != nil {
		s.handleError(w, r, fmt.Errorf("store credential: %w", err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleClearCredential removes the provider API key
func (s *Server) handleClearCredential(w http.ResponseWriter, r *http.Request) {
	if err := s.wizard.Session().SetCredential(""); err != nil {
		s.handleError(w, r, fmt.Errorf("clear credential: %w", err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleSetTheme stores the theme preference
func (s *Server) handleSetTheme(w http.ResponseWriter, r *http.Request) {
	var req ThemeRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	if err := s.wizard.Session().SetDarkMode(req.Dark); err != nil {
		s.handleError(w, r, fmt.Errorf("store theme: %w", err))
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]bool{"darkMode": req.Dark})
}

// handleSubmitSetup starts a new interview
func (s *Server) handleSubmitSetup(w http.ResponseWriter, r *http.Request) {
	var req types.SetupRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	setup, err := s.wizard.SubmitSetup(req)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, SetupResponse{Setup: setup, Next: routePath(gate.MCQ)})
}

// handleImportSetup fetches a job posting and returns the prefilled setup form.
// Nothing is stored in the session.
func (s *Server) handleImportSetup(w http.ResponseWriter, r *http.Request) {
	if s.importer == nil {
		s.handleError(w, r, ErrImportDisabled)
		return
	}
	var req ImportRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	posting, err := s.importer.Import(r.Context(), req.URL)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, ImportResponse{Posting: posting, Form: posting.SetupRequest()})
}

// handleReset clears the interview but keeps the credential and theme
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if err := s.wizard.Reset(); err != nil {
		s.handleError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"next": "/"})
}

// handlePrefetch generates every round's content in the background of the setup page
func (s *Server) handlePrefetch(w http.ResponseWriter, r *http.Request) {
	results, err := s.wizard.Prefetch(r.Context())
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, results)
}

// handleResults runs the results lifecycle. A missing round is reported in
// the view, not as an error.
func (s *Server) handleResults(w http.ResponseWriter, r *http.Request) {
	view, err := s.wizard.Results(r.Context())
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	resp := ResultsResponse{ResultsView: view}
	if view.Redirect != "" {
		resp.RedirectURL = redirectURL(view.Redirect, view.Notice)
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

// ResultsResponse is the results view plus the route to follow when redirected.
type ResultsResponse struct {
	*feedback.ResultsView
	RedirectURL string `json:"redirectUrl,omitempty"`
}

// handleReportDownload serves the stored report as a text attachment.
func (s *Server) handleReportDownload(w http.ResponseWriter, r *http.Request) {
	text, err := s.wizard.Export()
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", feedback.ExportFilename))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(text)); err != nil {
		s.log.Warn("write report", zap.Error(err))
	}
}

// handleRetry regenerates a round's content
func (s *Server) handleRetry(w http.ResponseWriter, r *http.Request) {
	round, ok := gate.ParseRound(r.PathValue("round"))
	if _, hasContent := content.ForRound(round); !ok || !hasContent {
		s.errorResponse(w, http.StatusNotFound, "Unknown round: "+r.PathValue("round"))
		return
	}
	result, err := s.wizard.Retry(r.Context(), round)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, result)
}
