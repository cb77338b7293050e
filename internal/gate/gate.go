// Package gate enforces the fixed order of interview rounds.
//
// Every round entry point asks the gate before rendering. The gate only reads
// session state; it never writes.
package gate

import (
	"fmt"
	"strings"
)

// Round names a stage of the interview.
type Round string

const (
	Setup        Round = "setup"
	MCQ          Round = "mcq"
	Coding       Round = "coding"
	SystemDesign Round = "system-design"
	HR           Round = "hr"
	Results      Round = "results"
)

// Sequence is the fixed round order. Results has no artifact of its own.
var Sequence = []Round{MCQ, Coding, SystemDesign, HR, Results}

// ArtifactRounds are the rounds that produce an artifact, in order.
var ArtifactRounds = []Round{MCQ, Coding, SystemDesign, HR}

// View is the read-only session state the gate needs.
type View interface {
	HasSetup() bool
	HasArtifact(r Round) bool
}

// Definition describes a round's prerequisites.
type Definition struct {
	Round        Round
	Dependencies []Round
}

// Registry holds the prerequisite chain of every gated round.
var Registry = map[Round]Definition{
	MCQ:          {Round: MCQ, Dependencies: []Round{}},
	Coding:       {Round: Coding, Dependencies: []Round{MCQ}},
	SystemDesign: {Round: SystemDesign, Dependencies: []Round{MCQ, Coding}},
	HR:           {Round: HR, Dependencies: []Round{MCQ, Coding, SystemDesign}},
	Results:      {Round: Results, Dependencies: []Round{MCQ, Coding, SystemDesign, HR}},
}

// ParseRound maps a route segment to a Round. Unknown names return false.
func ParseRound(name string) (Round, bool) {
	r := Round(strings.ToLower(strings.TrimSpace(name)))
	if r == Setup {
		return r, true
	}
	_, ok := Registry[r]
	return r, ok
}

// Eligible reports whether round r may be entered given the artifacts in v.
// Unknown rounds are never eligible.
func Eligible(v View, r Round) bool {
	def, ok := Registry[r]
	if !ok {
		return false
	}
	for _, dep := range def.Dependencies {
		if !v.HasArtifact(dep) {
			return false
		}
	}
	return true
}

// Redirect returns the first round, walking from the start of the sequence,
// whose artifact is missing. Without a setup record it returns Setup.
// When every artifact exists it returns Results.
func Redirect(v View) Round {
	if !v.HasSetup() {
		return Setup
	}
	for _, r := range ArtifactRounds {
		if !v.HasArtifact(r) {
			return r
		}
	}
	return Results
}

// MissingPrerequisiteError is returned when a round is requested out of order.
type MissingPrerequisiteError struct {
	Requested Round
	Redirect  Round
	Missing   []Round
}

func (e *MissingPrerequisiteError) Error() string {
	if len(e.Missing) == 0 {
		return fmt.Sprintf("round %q is not available, continue at %q", e.Requested, e.Redirect)
	}
	return fmt.Sprintf("round %q requires %v, continue at %q", e.Requested, e.Missing, e.Redirect)
}

// Notice is the user-facing message for a refused round.
func (e *MissingPrerequisiteError) Notice() string {
	switch {
	case e.Redirect == Setup:
		return "Interview setup not found"
	case e.Requested == Results:
		return "Missing data from one or more interview rounds"
	default:
		return fmt.Sprintf("Please complete the %s round first", Label(e.Redirect))
	}
}

// Check returns nil when r may be entered, or a *MissingPrerequisiteError naming
// where the caller should go instead. Every round requires a setup record.
func Check(v View, r Round) error {
	if r == Setup {
		return nil
	}
	def, known := Registry[r]
	if !v.HasSetup() {
		return &MissingPrerequisiteError{Requested: r, Redirect: Setup}
	}
	if !known {
		return &MissingPrerequisiteError{Requested: r, Redirect: Redirect(v)}
	}

	var missing []Round
	for _, dep := range def.Dependencies {
		if !v.HasArtifact(dep) {
			missing = append(missing, dep)
		}
	}
	if len(missing) > 0 {
		return &MissingPrerequisiteError{Requested: r, Redirect: Redirect(v), Missing: missing}
	}
	return nil
}

// Progress summarizes how far the candidate has come.
type Progress struct {
	HasSetup  bool    `json:"hasSetup"`
	Completed []Round `json:"completed"`
	Next      Round   `json:"next"`
}

// CurrentProgress reports completed rounds and the round to continue at.
func CurrentProgress(v View) Progress {
	p := Progress{HasSetup: v.HasSetup(), Completed: []Round{}}
	for _, r := range ArtifactRounds {
		if v.HasArtifact(r) {
			p.Completed = append(p.Completed, r)
		}
	}
	p.Next = Redirect(v)
	return p
}

// Label returns the display name of a round.
func Label(r Round) string {
	switch r {
	case Setup:
		return "setup"
	case MCQ:
		return "MCQ"
	case Coding:
		return "coding"
	case SystemDesign:
		return "system design"
	case HR:
		return "HR"
	case Results:
		return "results"
	default:
		return string(r)
	}
}
