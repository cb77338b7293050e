// Package session gives typed access to the interview state kept in a store.Store.
//
// Values that fail to decode are logged and treated as absent.
package session

import (
	"encoding/json"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/jonathan/interview-simulator/internal/gate"
	"github.com/jonathan/interview-simulator/internal/store"
	"github.com/jonathan/interview-simulator/internal/types"
)

// Store keys for session fields.
const (
	KeySetup              = "setup"
	KeyMCQAnswers         = "mcq-answers"
	KeyCodingSubmission   = "coding-submission"
	KeySystemDesignAnswer = "system-design-answer"
	KeyHRAnswers          = "hr-answers"
	KeyFeedbackReport     = "feedback-report"

	// Drafts hold in-progress input that must not satisfy the gate.
	KeyDraftMCQ = "draft:mcq"
	KeyDraftHR  = "draft:hr"

	KeyEvaluationCoding       = "evaluation:coding"
	KeyEvaluationSystemDesign = "evaluation:system-design"

	// Long-form artifacts are also written by autosave, so submission is
	// recorded separately.
	KeySubmittedCoding       = "submitted:coding"
	KeySubmittedSystemDesign = "submitted:system-design"
)

// ContentKey is where generated content of a kind is cached.
func ContentKey(kind string) string {
	return "content:" + kind
}

// Session is a typed view over a store.
type Session struct {
	store store.Store
	log   *zap.Logger

	// mu serializes read-modify-write sequences issued through this view.
	mu sync.Mutex
}

// New wraps s. A nil logger is replaced by a no-op logger.
func New(s store.Store, log *zap.Logger) *Session {
	if log == nil {
		log = zap.NewNop()
	}
	return &Session{store: s, log: log}
}

// Lock and Unlock guard multi-step updates made by callers.
func (s *Session) Lock()   { s.mu.Lock() }
func (s *Session) Unlock() { s.mu.Unlock() }

// Load decodes the JSON value under key into v.
// It returns false when the key is absent or its value is corrupt.
func (s *Session) Load(key string, v any) bool {
	raw, ok := s.store.Get(key)
	if !ok {
		return false
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		s.corrupt(key, err)
		return false
	}
	return true
}

// Save encodes v as JSON under key.
func (s *Session) Save(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.store.Put(key, string(data))
}

// Remove deletes key.
func (s *Session) Remove(key string) error {
	return s.store.Remove(key)
}

// Has reports whether key holds any value.
func (s *Session) Has(key string) bool {
	_, ok := s.store.Get(key)
	return ok
}

// Reset clears the session, keeping the credential and theme.
func (s *Session) Reset() error {
	return s.store.Reset()
}

func (s *Session) corrupt(key string, err error) {
	s.log.Warn("stored value is corrupt, treating as absent",
		zap.String("key", key), zap.Error(err))
}

// Credential returns the stored provider API key.
func (s *Session) Credential() (string, bool) {
	v, ok := s.store.Get(store.KeyCredential)
	v = strings.TrimSpace(v)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// SetCredential stores the provider API key. An empty key removes it.
func (s *Session) SetCredential(key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return s.store.Remove(store.KeyCredential)
	}
	return s.store.Put(store.KeyCredential, key)
}

// DarkMode returns the theme preference.
func (s *Session) DarkMode() bool {
	v, ok := s.store.Get(store.KeyTheme)
	if !ok {
		return false
	}
	dark, err := strconv.ParseBool(v)
	if err != nil {
		s.corrupt(store.KeyTheme, err)
		return false
	}
	return dark
}

// SetDarkMode stores the theme preference.
func (s *Session) SetDarkMode(dark bool) error {
	return s.store.Put(store.KeyTheme, strconv.FormatBool(dark))
}

// Setup returns the interview setup record.
func (s *Session) Setup() (*types.InterviewSetup, bool) {
	var setup types.InterviewSetup
	if !s.Load(KeySetup, &setup) {
		return nil, false
	}
	if err := setup.Validate(); err != nil {
		s.corrupt(KeySetup, err)
		return nil, false
	}
	return &setup, true
}

// SaveSetup stores the interview setup record.
func (s *Session) SaveSetup(setup *types.InterviewSetup) error {
	return s.Save(KeySetup, setup)
}

// MCQAnswers returns the submitted MCQ artifact.
func (s *Session) MCQAnswers() (types.MCQAnswers, bool) {
	var answers types.MCQAnswers
	if !s.Load(KeyMCQAnswers, &answers) || answers == nil {
		return nil, false
	}
	return answers, true
}

// SaveMCQAnswers stores the MCQ artifact.
func (s *Session) SaveMCQAnswers(answers types.MCQAnswers) error {
	return s.Save(KeyMCQAnswers, answers)
}

// MCQDraft returns in-progress MCQ selections.
func (s *Session) MCQDraft() (types.MCQAnswers, bool) {
	var answers types.MCQAnswers
	if !s.Load(KeyDraftMCQ, &answers) || answers == nil {
		return nil, false
	}
	return answers, true
}

// SaveMCQDraft stores in-progress MCQ selections.
func (s *Session) SaveMCQDraft(answers types.MCQAnswers) error {
	return s.Save(KeyDraftMCQ, answers)
}

// CodingSubmission returns the coding artifact.
func (s *Session) CodingSubmission() (*types.CodingSubmission, bool) {
	var sub types.CodingSubmission
	if !s.Load(KeyCodingSubmission, &sub) {
		return nil, false
	}
	return &sub, true
}

// SaveCodingSubmission stores the coding artifact.
func (s *Session) SaveCodingSubmission(sub *types.CodingSubmission) error {
	return s.Save(KeyCodingSubmission, sub)
}

// SystemDesignAnswer returns the system design artifact. It is stored as plain text.
func (s *Session) SystemDesignAnswer() (string, bool) {
	return s.store.Get(KeySystemDesignAnswer)
}

// SaveSystemDesignAnswer stores the system design artifact.
func (s *Session) SaveSystemDesignAnswer(answer string) error {
	return s.store.Put(KeySystemDesignAnswer, answer)
}

// HRAnswers returns the submitted HR artifact.
func (s *Session) HRAnswers() (types.HRAnswers, bool) {
	var answers types.HRAnswers
	if !s.Load(KeyHRAnswers, &answers) || answers == nil {
		return nil, false
	}
	return answers, true
}

// SaveHRAnswers stores the HR artifact.
func (s *Session) SaveHRAnswers(answers types.HRAnswers) error {
	return s.Save(KeyHRAnswers, answers)
}

// HRDraft returns in-progress HR answers.
func (s *Session) HRDraft() (types.HRAnswers, bool) {
	var answers types.HRAnswers
	if !s.Load(KeyDraftHR, &answers) || answers == nil {
		return nil, false
	}
	return answers, true
}

// SaveHRDraft stores in-progress HR answers.
func (s *Session) SaveHRDraft(answers types.HRAnswers) error {
	return s.Save(KeyDraftHR, answers)
}

// Report returns the cached feedback report.
func (s *Session) Report() (*types.FeedbackReport, bool) {
	data, ok := s.store.Get(KeyFeedbackReport)
	if !ok {
		return nil, false
	}
	report, err := types.DecodeFeedbackReport([]byte(data))
	if err == nil {
		err = report.Validate()
	}
	if err != nil {
		s.corrupt(KeyFeedbackReport, err)
		return nil, false
	}
	return report, true
}

// SaveReport stores the feedback report.
func (s *Session) SaveReport(report *types.FeedbackReport) error {
	return s.Save(KeyFeedbackReport, report)
}

// HasSetup implements gate.View.
func (s *Session) HasSetup() bool {
	_, ok := s.Setup()
	return ok
}

// HasArtifact implements gate.View.
func (s *Session) HasArtifact(r gate.Round) bool {
	switch r {
	case gate.MCQ:
		_, ok := s.MCQAnswers()
		return ok
	case gate.Coding:
		_, ok := s.CodingSubmission()
		return ok
	case gate.SystemDesign:
		_, ok := s.SystemDesignAnswer()
		return ok
	case gate.HR:
		_, ok := s.HRAnswers()
		return ok
	case gate.Results:
		_, ok := s.Report()
		return ok
	default:
		return false
	}
}

func submittedKey(r gate.Round) (string, bool) {
	switch r {
	case gate.Coding:
		return KeySubmittedCoding, true
	case gate.SystemDesign:
		return KeySubmittedSystemDesign, true
	default:
		return "", false
	}
}

// Submitted reports whether a long-form round was explicitly submitted.
func (s *Session) Submitted(r gate.Round) bool {
	key, ok := submittedKey(r)
	return ok && s.Has(key)
}

// MarkSubmitted records the submission of a long-form round.
func (s *Session) MarkSubmitted(r gate.Round) error {
	key, ok := submittedKey(r)
	if !ok {
		return nil
	}
	return s.Save(key, true)
}

// Complete reports whether all four round artifacts are present.
func (s *Session) Complete() bool {
	for _, r := range gate.ArtifactRounds {
		if !s.HasArtifact(r) {
			return false
		}
	}
	return true
}
