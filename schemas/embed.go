// Package schemas embeds the JSON Schemas that provider payloads must satisfy.
package schemas

import (
	"embed"
	"fmt"
)

//go:embed *.schema.json
var files embed.FS

// Schema names, without the .schema.json suffix.
const (
	MCQ              = "mcq"
	CodingProblem    = "coding_problem"
	HRQuestions      = "hr_questions"
	CodeEvaluation   = "code_evaluation"
	DesignEvaluation = "design_evaluation"
	FeedbackReport   = "feedback_report"
)

// Names lists every embedded schema.
var Names = []string{MCQ, CodingProblem, HRQuestions, CodeEvaluation, DesignEvaluation, FeedbackReport}

// Load returns the raw schema document for name.
func Load(name string) (string, error) {
	data, err := files.ReadFile(name + ".schema.json")
	if err != nil {
		return "", fmt.Errorf("schema %q not found: %w", name, err)
	}
	return string(data), nil
}
