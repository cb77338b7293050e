package feedback

import (
	"context"
	"errors"

	"github.com/jonathan/interview-simulator/internal/content"
	"github.com/jonathan/interview-simulator/internal/gate"
	"github.com/jonathan/interview-simulator/internal/types"
)

// State is a step of the results page lifecycle.
type State string

const (
	StateLoading              State = "loading"
	StateHasCachedReport      State = "has-cached-report"
	StateNeedsComputation     State = "needs-computation"
	StateProviderSuccess      State = "provider-success"
	StateProviderFailure      State = "provider-failure"
	StateFallbackApplied      State = "fallback-applied"
	StateMissingPrerequisites State = "missing-prerequisites"
	StateRedirectToGate       State = "redirect-to-gate"
	StateDone                 State = "done"
)

// Transitions lists the allowed next states for each state.
var Transitions = map[State][]State{
	StateLoading:              {StateHasCachedReport, StateNeedsComputation, StateMissingPrerequisites},
	StateHasCachedReport:      {StateDone},
	StateNeedsComputation:     {StateProviderSuccess, StateProviderFailure},
	StateProviderSuccess:      {StateDone},
	StateProviderFailure:      {StateFallbackApplied},
	StateFallbackApplied:      {StateDone},
	StateMissingPrerequisites: {StateRedirectToGate},
}

// CanTransition reports whether to may follow from.
func CanTransition(from, to State) bool {
	for _, next := range Transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Terminal reports whether s ends the lifecycle.
func Terminal(s State) bool {
	return s == StateDone || s == StateRedirectToGate
}

// ResultsView is everything the results page shows.
type ResultsView struct {
	Report  *types.FeedbackReport `json:"report,omitempty"`
	Outcome Outcome               `json:"outcome,omitempty"`
	Trace   []State               `json:"trace"`
	// Redirect and Notice are set when the page must send the user back.
	Redirect gate.Round `json:"redirect,omitempty"`
	Notice   string     `json:"notice,omitempty"`
	// Warning is set when the fallback report is shown.
	Warning string `json:"warning,omitempty"`
}

// State returns the last state reached.
func (v *ResultsView) State() State {
	if len(v.Trace) == 0 {
		return StateLoading
	}
	return v.Trace[len(v.Trace)-1]
}

// Resolve runs the results lifecycle. Missing prerequisites end in
// StateRedirectToGate without an error.
func (a *Aggregator) Resolve(ctx context.Context) (*ResultsView, error) {
	view := &ResultsView{Trace: []State{StateLoading}}

	report, outcome, err := a.ComputeOrFetch(ctx)
	if err != nil {
		var missing *gate.MissingPrerequisiteError
		if errors.Is(err, ErrIncompleteSession) && errors.As(err, &missing) {
			view.Trace = append(view.Trace, StateMissingPrerequisites, StateRedirectToGate)
			view.Redirect = missing.Redirect
			view.Notice = missing.Notice()
			return view, nil
		}
		return nil, err
	}

	view.Report = report
	view.Outcome = outcome
	switch outcome {
	case OutcomeCached:
		view.Trace = append(view.Trace, StateHasCachedReport)
		if report.Source == types.ReportFromFallback {
			view.Warning = content.FallbackWarning(content.KindFullFeedback)
		}
	case OutcomeComputed:
		view.Trace = append(view.Trace, StateNeedsComputation, StateProviderSuccess)
	case OutcomeFallback:
		view.Trace = append(view.Trace, StateNeedsComputation, StateProviderFailure, StateFallbackApplied)
		view.Warning = content.FallbackWarning(content.KindFullFeedback)
	}
	view.Trace = append(view.Trace, StateDone)
	return view, nil
}
