// Package content generates interview round content and evaluations through a
// provider, falling back to static payloads whenever generation fails.
package content

import (
	"fmt"
	"strings"

	"github.com/jonathan/interview-simulator/internal/gate"
	"github.com/jonathan/interview-simulator/internal/types"
)

// Kind identifies a generation request.
type Kind string

const (
	KindMCQ           Kind = "mcq"
	KindCodingProblem Kind = "coding-problem"
	KindSystemDesign  Kind = "system-design-question"
	KindHRQuestions   Kind = "hr-questions"
	KindCodeEval      Kind = "code-eval"
	KindDesignEval    Kind = "design-eval"
	KindFullFeedback  Kind = "full-feedback"
)

// AllKinds lists every kind in round order.
var AllKinds = []Kind{
	KindMCQ, KindCodingProblem, KindSystemDesign, KindHRQuestions,
	KindCodeEval, KindDesignEval, KindFullFeedback,
}

// RoundKinds are the kinds whose content is shown when a round opens.
var RoundKinds = []Kind{KindMCQ, KindCodingProblem, KindSystemDesign, KindHRQuestions}

// ParseKind converts a string to a Kind.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.TrimSpace(s))
	for _, known := range AllKinds {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown content kind %q", s)
}

// ForRound returns the content kind a round displays.
func ForRound(r gate.Round) (Kind, bool) {
	switch r {
	case gate.MCQ:
		return KindMCQ, true
	case gate.Coding:
		return KindCodingProblem, true
	case gate.SystemDesign:
		return KindSystemDesign, true
	case gate.HR:
		return KindHRQuestions, true
	default:
		return "", false
	}
}

// Context carries everything a prompt may need.
// Evaluation kinds read the artifacts; round kinds only read Setup.
type Context struct {
	Setup types.InterviewSetup

	Questions  []types.MCQQuestion
	MCQAnswers types.MCQAnswers

	Problem    *types.CodingProblem
	Submission *types.CodingSubmission

	DesignQuestion string
	DesignAnswer   string

	HRQuestions []string
	HRAnswers   types.HRAnswers
}

// Request is one generation call.
type Request struct {
	Kind    Kind
	Context Context
}

// Content is the decoded result of a generation call. Only the field matching
// Kind is set.
type Content struct {
	Kind        Kind                    `json:"kind"`
	MCQ         []types.MCQQuestion     `json:"mcq,omitempty"`
	Problem     *types.CodingProblem    `json:"problem,omitempty"`
	Question    string                  `json:"question,omitempty"`
	HRQuestions []string                `json:"hrQuestions,omitempty"`
	CodeEval    *types.CodeEvaluation   `json:"codeEval,omitempty"`
	DesignEval  *types.DesignEvaluation `json:"designEval,omitempty"`
	Report      *types.FeedbackReport   `json:"report,omitempty"`
}

// Empty reports whether the payload for c.Kind is missing or blank.
func (c *Content) Empty() bool {
	if c == nil {
		return true
	}
	switch c.Kind {
	case KindMCQ:
		return len(c.MCQ) == 0
	case KindCodingProblem:
		return c.Problem == nil || strings.TrimSpace(c.Problem.Description) == ""
	case KindSystemDesign:
		return strings.TrimSpace(c.Question) == ""
	case KindHRQuestions:
		return len(c.HRQuestions) == 0
	case KindCodeEval:
		return c.CodeEval == nil
	case KindDesignEval:
		return c.DesignEval == nil
	case KindFullFeedback:
		return c.Report == nil
	default:
		return true
	}
}
