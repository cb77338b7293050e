package feedback

import (
	"fmt"
	"strings"

	"github.com/jonathan/interview-simulator/internal/types"
)

// ExportFilename is the name offered when the report is downloaded.
const ExportFilename = "interview_report.txt"

// Export renders the report as labeled plain text. It never calls the provider.
func Export(r *types.FeedbackReport) string {
	if r == nil {
		return ""
	}
	var sb strings.Builder

	section := func(title, underline string) {
		sb.WriteString(title + "\n" + underline + "\n")
	}

	section("INTERVIEW PERFORMANCE REPORT", "===========================")
	sb.WriteString("\n")

	section("OVERALL EVALUATION", "-----------------")
	sb.WriteString(r.Overall + "\n\n")
	fmt.Fprintf(&sb, "Overall Score: %d%%\n\n", r.Scores.Overall)

	section("ROUND EVALUATIONS", "----------------")
	rounds := []struct {
		label string
		score types.Score
		text  string
	}{
		{"MCQ Round", r.Scores.MCQ, r.MCQ},
		{"Coding Round", r.Scores.Coding, r.Coding},
		{"System Design Round", r.Scores.SystemDesign, r.SystemDesign},
		{"HR Round", r.Scores.HR, r.HR},
	}
	for _, round := range rounds {
		fmt.Fprintf(&sb, "%s (%d%%):\n%s\n\n", round.label, round.score, round.text)
	}

	section("STRENGTHS", "--------")
	writeNumbered(&sb, r.Strengths)
	sb.WriteString("\n")

	section("AREAS FOR IMPROVEMENT", "-------------------")
	writeNumbered(&sb, r.Weaknesses)
	sb.WriteString("\n")

	section("RECOMMENDATIONS", "-------------")
	writeNumbered(&sb, r.Recommendations)

	return sb.String()
}

func writeNumbered(sb *strings.Builder, items []string) {
	for i, item := range items {
		fmt.Fprintf(sb, "%d. %s\n", i+1, item)
	}
}
