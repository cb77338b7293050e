package wizard

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/interview-simulator/internal/content"
	"github.com/jonathan/interview-simulator/internal/gate"
	"github.com/jonathan/interview-simulator/internal/round"
	"github.com/jonathan/interview-simulator/internal/session"
	"github.com/jonathan/interview-simulator/internal/types"
)

// MCQItem is a question as shown to the candidate, without the answer key.
type MCQItem struct {
	ID       int      `json:"id"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

// MCQView is the state of the MCQ round.
type MCQView struct {
	Questions        []MCQItem        `json:"questions"`
	Answers          types.MCQAnswers `json:"answers"`
	Answered         int              `json:"answered"`
	RemainingSeconds int              `json:"remainingSeconds"`
	Submitted        bool             `json:"submitted"`
	Fallback         bool             `json:"fallback"`
	Warning          string           `json:"warning,omitempty"`
}

// CodingView is the state of the coding round.
type CodingView struct {
	Problem   *types.CodingProblem `json:"problem"`
	Technical bool                 `json:"technical"`
	Code      string               `json:"code"`
	Language  string               `json:"language"`
	Languages []string             `json:"languages"`
	Submitted bool                 `json:"submitted"`
	Fallback  bool                 `json:"fallback"`
	Warning   string               `json:"warning,omitempty"`
}

// SystemDesignView is the state of the system design round.
type SystemDesignView struct {
	Question         string `json:"question"`
	Answer           string `json:"answer"`
	RemainingSeconds int    `json:"remainingSeconds"`
	Submitted        bool   `json:"submitted"`
	Fallback         bool   `json:"fallback"`
	Warning          string `json:"warning,omitempty"`
}

// HRView is the state of the HR round.
type HRView struct {
	Questions []string        `json:"questions"`
	Answers   types.HRAnswers `json:"answers"`
	Remaining int             `json:"remaining"`
	Submitted bool            `json:"submitted"`
	Fallback  bool            `json:"fallback"`
	Warning   string          `json:"warning,omitempty"`
}

// SubmitResult says where to go after a submission.
type SubmitResult struct {
	Next       gate.Round      `json:"next"`
	Evaluation *content.Result `json:"evaluation,omitempty"`
	// Warning is set when the answer was saved but could not be evaluated.
	Warning string `json:"warning,omitempty"`
}

// EvaluationSkippedWarning is shown when an answer is saved without a review.
const EvaluationSkippedWarning = "Your answer was saved but could not be evaluated."

// MCQ loads the MCQ round and starts its countdown.
func (w *Wizard) MCQ(ctx context.Context) (*MCQView, error) {
	result, err := w.roundContent(ctx, gate.MCQ)
	if err != nil {
		return nil, err
	}
	questions := result.Content.MCQ

	view := &MCQView{
		Questions: make([]MCQItem, len(questions)),
		Fallback:  result.Fallback,
		Warning:   result.Warning,
	}
	for i, q := range questions {
		view.Questions[i] = MCQItem{ID: q.ID, Question: q.Question, Options: q.Options}
	}

	if answers, ok := w.session.MCQAnswers(); ok {
		view.Answers = answers.Fit(len(questions))
		view.Submitted = true
	} else {
		draft, _ := w.session.MCQDraft()
		view.Answers = draft.Fit(len(questions))

		w.mu.Lock()
		c := w.startCountdownLocked(gate.MCQ, w.expireMCQ)
		w.mu.Unlock()
		view.RemainingSeconds = int(c.Remaining() / time.Second)
	}
	view.Answered = view.Answers.AnsweredCount()
	return view, nil
}

func (w *Wizard) mcqQuestions() ([]types.MCQQuestion, error) {
	cached, ok := w.content.Cached(content.KindMCQ)
	if !ok || len(cached.Content.MCQ) == 0 {
		return nil, &ValidationError{Field: "answers", Message: "Questions have not loaded yet"}
	}
	return cached.Content.MCQ, nil
}

// AnswerMCQ records the option chosen for question index. option may be
// types.Unanswered to clear a selection. It returns the updated draft.
func (w *Wizard) AnswerMCQ(index, option int) (types.MCQAnswers, error) {
	if err := w.Enter(gate.MCQ); err != nil {
		return nil, err
	}
	questions, err := w.mcqQuestions()
	if err != nil {
		return nil, err
	}
	if w.session.HasArtifact(gate.MCQ) {
		return nil, &ValidationError{Field: "answers", Message: "The MCQ round has already been submitted"}
	}
	if index < 0 || index >= len(questions) {
		return nil, &ValidationError{Field: "index", Message: fmt.Sprintf("question %d does not exist", index)}
	}
	if option != types.Unanswered && (option < 0 || option >= len(questions[index].Options)) {
		return nil, &ValidationError{Field: "option", Message: fmt.Sprintf("option %d does not exist", option)}
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	draft, _ := w.session.MCQDraft()
	draft = draft.Fit(len(questions))
	draft[index] = option
	if err := w.session.SaveMCQDraft(draft); err != nil {
		return nil, fmt.Errorf("save mcq draft: %w", err)
	}
	return draft, nil
}

// SubmitMCQ stores the answer vector. Unanswered questions stay -1.
func (w *Wizard) SubmitMCQ() (*SubmitResult, error) {
	if err := w.Enter(gate.MCQ); err != nil {
		return nil, err
	}
	questions, err := w.mcqQuestions()
	if err != nil {
		return nil, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	return w.submitMCQLocked(questions)
}

func (w *Wizard) submitMCQLocked(questions []types.MCQQuestion) (*SubmitResult, error) {
	if w.session.HasArtifact(gate.MCQ) {
		w.stopCountdownLocked(gate.MCQ)
		return &SubmitResult{Next: gate.Coding}, nil
	}

	draft, _ := w.session.MCQDraft()
	answers := draft.Fit(len(questions))
	if err := w.session.SaveMCQAnswers(answers); err != nil {
		return nil, fmt.Errorf("save mcq answers: %w", err)
	}
	if err := w.session.Remove(session.KeyDraftMCQ); err != nil {
		w.log.Warn("failed to clear mcq draft", zap.Error(err))
	}
	w.stopCountdownLocked(gate.MCQ)

	w.log.Info("mcq submitted",
		zap.Int("answered", answers.AnsweredCount()),
		zap.Int("questions", len(answers)))
	return &SubmitResult{Next: gate.Coding}, nil
}

// expireMCQ submits the draft when c runs out, unless the round was submitted
// or the session reset since c started.
func (w *Wizard) expireMCQ(c *round.Countdown) {
	questions, err := w.mcqQuestions()
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.ownsTimerLocked(gate.MCQ, c) {
		return
	}
	if err != nil {
		w.log.Warn("automatic mcq submission failed", zap.Error(err))
		return
	}
	w.log.Info("mcq time is up, submitting")
	if _, err := w.submitMCQLocked(questions); err != nil {
		w.log.Warn("automatic mcq submission failed", zap.Error(err))
	}
}

// Coding loads the coding round. The editor starts from the saved
// submission, or from the starter template.
func (w *Wizard) Coding(ctx context.Context) (*CodingView, error) {
	result, err := w.roundContent(ctx, gate.Coding)
	if err != nil {
		return nil, err
	}
	setup, _ := w.session.Setup()

	view := &CodingView{
		Problem:   result.Content.Problem,
		Technical: setup.IsTechnicalRole(),
		Languages: types.Languages,
		Fallback:  result.Fallback,
		Warning:   result.Warning,
	}

	view.Submitted = w.session.Submitted(gate.Coding)

	if sub, ok := w.session.CodingSubmission(); ok {
		view.Code = sub.Code
		view.Language = sub.Language
	}
	if view.Language == "" {
		view.Language = w.language()
	}
	if view.Code == "" {
		if view.Technical {
			view.Code = types.StarterCode(view.Language, view.Problem.Title)
		} else {
			view.Code = types.CaseStudyStarter
		}
	}
	return view, nil
}

func (w *Wizard) language() string {
	w.langMu.Lock()
	defer w.langMu.Unlock()
	return w.codingLanguage
}

func (w *Wizard) setLanguage(language string) error {
	if language == "" {
		return nil
	}
	for _, l := range types.Languages {
		if l == language {
			w.langMu.Lock()
			w.codingLanguage = language
			w.langMu.Unlock()
			return nil
		}
	}
	return &ValidationError{
		Field:   "language",
		Message: "Language must be one of " + strings.Join(types.Languages, ", "),
	}
}

func (w *Wizard) saveCode(code string) error {
	return w.session.SaveCodingSubmission(&types.CodingSubmission{Code: code, Language: w.language()})
}

// UpdateCode hands the editor content to the autosaver.
func (w *Wizard) UpdateCode(code, language string) error {
	if err := w.Enter(gate.Coding); err != nil {
		return err
	}
	if err := w.setLanguage(language); err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.autosaverLocked(gate.Coding, w.saveCode).Update(code)
	return nil
}

// SubmitCoding saves the solution and asks the provider to review it.
func (w *Wizard) SubmitCoding(ctx context.Context, code, language string) (*SubmitResult, error) {
	if err := w.Enter(gate.Coding); err != nil {
		return nil, err
	}
	if err := w.setLanguage(language); err != nil {
		return nil, err
	}
	if strings.TrimSpace(code) == "" {
		return nil, &ValidationError{Field: "code", Message: "Please write your solution before submitting"}
	}
	if cached, ok := w.content.Cached(content.KindCodingProblem); ok && cached.Content.Problem != nil {
		if types.IsUntouchedTemplate(code, w.language(), cached.Content.Problem.Title) {
			return nil, &ValidationError{Field: "code", Message: "Please write your solution before submitting"}
		}
	}

	if err := w.flushLongForm(gate.Coding, code, w.saveCode); err != nil {
		return nil, fmt.Errorf("save coding submission: %w", err)
	}
	w.log.Info("coding submitted", zap.String("language", w.language()), zap.Int("length", len(code)))

	return w.evaluate(ctx, content.KindCodeEval, gate.SystemDesign), nil
}

// SystemDesign loads the system design round and starts its countdown.
func (w *Wizard) SystemDesign(ctx context.Context) (*SystemDesignView, error) {
	result, err := w.roundContent(ctx, gate.SystemDesign)
	if err != nil {
		return nil, err
	}
	view := &SystemDesignView{
		Question: result.Content.Question,
		Fallback: result.Fallback,
		Warning:  result.Warning,
	}
	if answer, ok := w.session.SystemDesignAnswer(); ok {
		view.Answer = answer
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	view.Submitted = w.session.Submitted(gate.SystemDesign)
	if a, ok := w.autosavers[gate.SystemDesign]; ok && a.Latest() != "" {
		view.Answer = a.Latest()
	}
	if !view.Submitted {
		c := w.startCountdownLocked(gate.SystemDesign, w.expireSystemDesign)
		view.RemainingSeconds = int(c.Remaining() / time.Second)
	}
	return view, nil
}

func (w *Wizard) saveDesignAnswer(answer string) error {
	return w.session.SaveSystemDesignAnswer(answer)
}

// UpdateSystemDesign hands the answer draft to the autosaver.
func (w *Wizard) UpdateSystemDesign(answer string) error {
	if err := w.Enter(gate.SystemDesign); err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.autosaverLocked(gate.SystemDesign, w.saveDesignAnswer).Update(answer)
	return nil
}

// SubmitSystemDesign saves the answer and asks the provider to review it.
func (w *Wizard) SubmitSystemDesign(ctx context.Context, answer string) (*SubmitResult, error) {
	if err := w.Enter(gate.SystemDesign); err != nil {
		return nil, err
	}
	if strings.TrimSpace(answer) == "" {
		return nil, &ValidationError{Field: "answer", Message: "Please provide an answer before submitting"}
	}
	if err := w.flushLongForm(gate.SystemDesign, answer, w.saveDesignAnswer); err != nil {
		return nil, fmt.Errorf("save system design answer: %w", err)
	}
	w.log.Info("system design submitted", zap.Int("length", len(answer)))

	return w.evaluate(ctx, content.KindDesignEval, gate.HR), nil
}

// expireSystemDesign submits the latest draft when c runs out, unless the
// round was submitted or the session reset since c started.
func (w *Wizard) expireSystemDesign(c *round.Countdown) {
	w.mu.Lock()
	if !w.ownsTimerLocked(gate.SystemDesign, c) {
		w.mu.Unlock()
		return
	}
	var answer string
	if a, ok := w.autosavers[gate.SystemDesign]; ok {
		answer = a.Latest()
	}
	if answer == "" {
		answer, _ = w.session.SystemDesignAnswer()
	}
	if strings.TrimSpace(answer) == "" {
		w.mu.Unlock()
		w.log.Warn("system design time is up with no answer to submit")
		return
	}
	w.log.Info("system design time is up, submitting")
	err := w.flushLongFormLocked(gate.SystemDesign, answer, w.saveDesignAnswer)
	w.mu.Unlock()
	if err != nil {
		w.log.Warn("automatic system design submission failed", zap.Error(err))
		return
	}
	w.evaluate(context.Background(), content.KindDesignEval, gate.HR)
}

// flushLongForm writes value synchronously, then stops the round's timer and
// autosaver and marks the round submitted.
func (w *Wizard) flushLongForm(r gate.Round, value string, save func(string) error) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.flushLongFormLocked(r, value, save)
}

func (w *Wizard) flushLongFormLocked(r gate.Round, value string, save func(string) error) error {
	if a, ok := w.autosavers[r]; ok {
		a.Update(value)
		if err := a.Flush(); err != nil {
			return err
		}
	} else if err := save(value); err != nil {
		return err
	}
	w.stopAutosaverLocked(r)
	w.stopCountdownLocked(r)
	return w.session.MarkSubmitted(r)
}

func (w *Wizard) evaluate(ctx context.Context, kind content.Kind, next gate.Round) *SubmitResult {
	out := &SubmitResult{Next: next}
	result, err := w.content.Evaluate(ctx, kind)
	if err != nil {
		w.log.Warn("evaluation skipped", zap.String("kind", string(kind)), zap.Error(err))
		out.Warning = EvaluationSkippedWarning
		return out
	}
	out.Evaluation = result
	return out
}

// HR loads the HR round with the saved answers or draft.
func (w *Wizard) HR(ctx context.Context) (*HRView, error) {
	result, err := w.roundContent(ctx, gate.HR)
	if err != nil {
		return nil, err
	}
	questions := result.Content.HRQuestions
	view := &HRView{
		Questions: questions,
		Fallback:  result.Fallback,
		Warning:   result.Warning,
	}
	if answers, ok := w.session.HRAnswers(); ok {
		view.Answers = answers.Restrict(questions)
		view.Submitted = true
	} else {
		draft, _ := w.session.HRDraft()
		view.Answers = draft.Restrict(questions)
	}
	view.Remaining = len(view.Answers.Missing(questions))
	return view, nil
}

func (w *Wizard) hrQuestions() ([]string, error) {
	cached, ok := w.content.Cached(content.KindHRQuestions)
	if !ok || len(cached.Content.HRQuestions) == 0 {
		return nil, &ValidationError{Field: "answers", Message: "Questions have not loaded yet"}
	}
	return cached.Content.HRQuestions, nil
}

// AnswerHR saves the draft answer to one question and returns how many remain blank.
func (w *Wizard) AnswerHR(question, answer string) (int, error) {
	if err := w.Enter(gate.HR); err != nil {
		return 0, err
	}
	questions, err := w.hrQuestions()
	if err != nil {
		return 0, err
	}
	if !slices.Contains(questions, question) {
		return 0, &ValidationError{Field: "question", Message: "Unknown question"}
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	draft, _ := w.session.HRDraft()
	if draft == nil {
		draft = types.HRAnswers{}
	}
	draft[question] = answer
	if err := w.session.SaveHRDraft(draft); err != nil {
		return 0, fmt.Errorf("save hr draft: %w", err)
	}
	return len(draft.Missing(questions)), nil
}

// SubmitHR merges answers into the draft and stores the result when every
// question has a non-blank answer. Otherwise nothing is written.
func (w *Wizard) SubmitHR(answers types.HRAnswers) (*SubmitResult, error) {
	if err := w.Enter(gate.HR); err != nil {
		return nil, err
	}
	questions, err := w.hrQuestions()
	if err != nil {
		return nil, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	merged := types.HRAnswers{}
	if draft, ok := w.session.HRDraft(); ok {
		for q, a := range draft {
			merged[q] = a
		}
	}
	for q, a := range answers {
		merged[q] = a
	}

	if missing := merged.Missing(questions); len(missing) > 0 {
		return nil, &ValidationError{
			Field:     "answers",
			Message:   fmt.Sprintf("Please answer all questions before submitting (%d remaining)", len(missing)),
			Remaining: len(missing),
		}
	}

	if err := w.session.SaveHRAnswers(merged.Restrict(questions)); err != nil {
		return nil, fmt.Errorf("save hr answers: %w", err)
	}
	if err := w.session.Remove(session.KeyDraftHR); err != nil {
		w.log.Warn("failed to clear hr draft", zap.Error(err))
	}
	w.log.Info("hr submitted", zap.Int("questions", len(questions)))
	return &SubmitResult{Next: gate.Results}, nil
}
