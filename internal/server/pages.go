package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/jonathan/interview-simulator/internal/gate"
	"github.com/jonathan/interview-simulator/internal/types"
)

// Page is what a navigational route renders. Pages never call the provider;
// clients fetch round content from the API after navigating.
type Page struct {
	Page          string                `json:"page"`
	Title         string                `json:"title"`
	Notice        string                `json:"notice,omitempty"`
	DarkMode      bool                  `json:"darkMode"`
	HasCredential bool                  `json:"hasCredential"`
	Progress      gate.Progress         `json:"progress"`
	Setup         *types.InterviewSetup `json:"setup,omitempty"`

	// Experience lists the choices on the setup page.
	Experience []types.ExperienceLevel `json:"experience,omitempty"`
}

var pageTitles = map[string]string{
	"home":                    "Interview Simulator",
	"credential":              "API Key",
	string(gate.Setup):        "Interview Setup",
	string(gate.MCQ):          "MCQ Round",
	string(gate.Coding):       "Coding Round",
	string(gate.SystemDesign): "System Design Round",
	string(gate.HR):           "HR Round",
	string(gate.Results):      "Interview Results",
	"not-found":               "Page Not Found",
}

func (s *Server) page(r *http.Request, name string) Page {
	sess := s.wizard.Session()
	_, hasKey := sess.Credential()
	p := Page{
		Page:          name,
		Title:         pageTitles[name],
		Notice:        strings.TrimSpace(r.URL.Query().Get("notice")),
		DarkMode:      sess.DarkMode(),
		HasCredential: hasKey,
		Progress:      s.wizard.Status(),
	}
	if setup, ok := sess.Setup(); ok {
		p.Setup = setup
	}
	return p
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, http.StatusOK, s.page(r, "home"))
}

func (s *Server) handleCredentialPage(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, http.StatusOK, s.page(r, "credential"))
}

func (s *Server) handleSetupPage(w http.ResponseWriter, r *http.Request) {
	p := s.page(r, string(gate.Setup))
	p.Experience = types.ExperienceLevels()
	s.jsonResponse(w, http.StatusOK, p)
}

// handleRoundPage enforces the gate. A refused round answers 303 to the
// round the candidate should continue at, with the notice in the query.
func (s *Server) handleRoundPage(w http.ResponseWriter, r *http.Request) {
	round, ok := gate.ParseRound(strings.TrimPrefix(r.URL.Path, "/"))
	if !ok {
		s.handleNotFound(w, r)
		return
	}

	if err := s.wizard.Enter(round); err != nil {
		var missing *gate.MissingPrerequisiteError
		if errors.As(err, &missing) {
			http.Redirect(w, r, redirectURL(missing.Redirect, missing.Notice()), http.StatusSeeOther)
			return
		}
		s.handleError(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, s.page(r, string(round)))
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, http.StatusNotFound, s.page(r, "not-found"))
}
