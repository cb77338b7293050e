// Package types provides type definitions for the data exchanged between the interview rounds,
// the session store and the content provider.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// ExperienceLevel is the seniority the candidate is interviewing for.
type ExperienceLevel string

const (
	ExperienceEntry      ExperienceLevel = "entry-level"
	ExperienceMid        ExperienceLevel = "mid-level"
	ExperienceSenior     ExperienceLevel = "senior"
	ExperienceLeadership ExperienceLevel = "leadership"
)

// DefaultExperience is used when the setup form leaves the level unset.
const DefaultExperience = ExperienceMid

// ExperienceLevels lists the accepted levels in display order.
func ExperienceLevels() []ExperienceLevel {
	return []ExperienceLevel{ExperienceEntry, ExperienceMid, ExperienceSenior, ExperienceLeadership}
}

// InterviewSetup is the record created once when the candidate starts an interview.
// It is immutable for the lifetime of the session.
type InterviewSetup struct {
	JobTitle       string          `json:"jobTitle" validate:"required"`
	Company        string          `json:"company" validate:"required"`
	Experience     ExperienceLevel `json:"experience" validate:"required,oneof=entry-level mid-level senior leadership"`
	JobDescription string          `json:"jobDescription,omitempty"`
	Timestamp      string          `json:"timestamp" validate:"required"`
	// SessionID identifies one run of the wizard. Provider responses that were requested
	// under a different id are discarded.
	SessionID string `json:"sessionId" validate:"required,uuid"`
}

// SetupRequest is the user input accepted by the setup form.
type SetupRequest struct {
	JobTitle       string `json:"jobTitle" validate:"required"`
	Company        string `json:"company" validate:"required"`
	Experience     string `json:"experience,omitempty" validate:"omitempty,oneof=entry-level mid-level senior leadership"`
	JobDescription string `json:"jobDescription,omitempty"`
}

// Normalize trims surrounding whitespace and applies the default experience level.
func (r *SetupRequest) Normalize() {
	r.JobTitle = strings.TrimSpace(r.JobTitle)
	r.Company = strings.TrimSpace(r.Company)
	r.Experience = strings.TrimSpace(r.Experience)
	r.JobDescription = strings.TrimSpace(r.JobDescription)
	if r.Experience == "" {
		r.Experience = string(DefaultExperience)
	}
}

// Validate validates the SetupRequest using the validator.
// Call Normalize first so that whitespace-only titles are rejected.
func (r *SetupRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// NewInterviewSetup builds the immutable setup record for a normalized request.
func NewInterviewSetup(r SetupRequest, sessionID string, now time.Time) *InterviewSetup {
	return &InterviewSetup{
		JobTitle:       r.JobTitle,
		Company:        r.Company,
		Experience:     ExperienceLevel(r.Experience),
		JobDescription: r.JobDescription,
		Timestamp:      now.UTC().Format(time.RFC3339),
		SessionID:      sessionID,
	}
}

// Validate validates a stored setup record.
func (s *InterviewSetup) Validate() error {
	validate := validator.New()
	return validate.Struct(s)
}

var codingRoleKeywords = []string{"developer", "engineer", "programmer", "software", "data", "coding"}

var architectureRoleKeywords = []string{"developer", "engineer", "software", "architect"}

// IsTechnicalRole reports whether the coding round should ask for code rather than a case study.
func (s *InterviewSetup) IsTechnicalRole() bool {
	return titleContainsAny(s.JobTitle, codingRoleKeywords)
}

// IsArchitectureRole reports whether the design round should ask a system design question
// rather than a strategy question.
func (s *InterviewSetup) IsArchitectureRole() bool {
	return titleContainsAny(s.JobTitle, architectureRoleKeywords)
}

// StrategyFocus returns the topic list used for non-architecture design questions.
func (s *InterviewSetup) StrategyFocus() string {
	title := strings.ToLower(s.JobTitle)
	switch {
	case strings.Contains(title, "marketing"):
		return "marketing strategies, campaign planning, and ROI analysis"
	case strings.Contains(title, "sales"):
		return "sales strategies, territory planning, and pipeline management"
	case strings.Contains(title, "hr"):
		return "talent acquisition, employee development, and organizational design"
	case strings.Contains(title, "finance"):
		return "financial planning, risk management, and investment strategy"
	default:
		return "strategic planning, resource allocation, and organizational effectiveness"
	}
}

func titleContainsAny(title string, keywords []string) bool {
	lower := strings.ToLower(title)
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
