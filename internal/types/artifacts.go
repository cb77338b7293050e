package types

import "strings"

// Unanswered marks an MCQ question with no selected option.
const Unanswered = -1

// MCQAnswers holds one selected option index per question, Unanswered when blank.
type MCQAnswers []int

// NewMCQAnswers returns a blank answer vector for n questions.
func NewMCQAnswers(n int) MCQAnswers {
	answers := make(MCQAnswers, n)
	for i := range answers {
		answers[i] = Unanswered
	}
	return answers
}

// AnsweredCount returns the number of questions with a selection.
func (a MCQAnswers) AnsweredCount() int {
	count := 0
	for _, v := range a {
		if v != Unanswered {
			count++
		}
	}
	return count
}

// Fit returns a copy resized to n questions, padding with Unanswered.
func (a MCQAnswers) Fit(n int) MCQAnswers {
	out := NewMCQAnswers(n)
	copy(out, a)
	return out
}

// CodingSubmission is the coding round artifact.
type CodingSubmission struct {
	Code     string `json:"code"`
	Language string `json:"language,omitempty"`
}

// HRAnswers maps each generated question to the candidate's answer.
type HRAnswers map[string]string

// Missing returns the questions, in display order, whose answers are blank.
func (a HRAnswers) Missing(questions []string) []string {
	var missing []string
	for _, q := range questions {
		if strings.TrimSpace(a[q]) == "" {
			missing = append(missing, q)
		}
	}
	return missing
}

// Restrict returns only the answers whose keys are in questions.
func (a HRAnswers) Restrict(questions []string) HRAnswers {
	out := make(HRAnswers, len(questions))
	for _, q := range questions {
		if v, ok := a[q]; ok {
			out[q] = v
		}
	}
	return out
}
