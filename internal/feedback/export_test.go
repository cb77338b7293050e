package feedback

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/interview-simulator/internal/types"
)

func TestExport(t *testing.T) {
	report := &types.FeedbackReport{
		Overall:         "Solid overall.",
		MCQ:             "Good recall.",
		Coding:          "Clean code.",
		SystemDesign:    "Needs caching.",
		HR:              "Clear.",
		Scores:          types.Scores{MCQ: 70, Coding: 85, SystemDesign: 78, HR: 90, Overall: 81},
		Strengths:       []string{"Problem solving", "Communication"},
		Weaknesses:      []string{"Caching"},
		Recommendations: []string{},
	}

	want := "INTERVIEW PERFORMANCE REPORT\n" +
		"===========================\n" +
		"\n" +
		"OVERALL EVALUATION\n" +
		"-----------------\n" +
		"Solid overall.\n" +
		"\n" +
		"Overall Score: 81%\n" +
		"\n" +
		"ROUND EVALUATIONS\n" +
		"----------------\n" +
		"MCQ Round (70%):\nGood recall.\n\n" +
		"Coding Round (85%):\nClean code.\n\n" +
		"System Design Round (78%):\nNeeds caching.\n\n" +
		"HR Round (90%):\nClear.\n\n" +
		"STRENGTHS\n" +
		"--------\n" +
		"1. Problem solving\n" +
		"2. Communication\n" +
		"\n" +
		"AREAS FOR IMPROVEMENT\n" +
		"-------------------\n" +
		"1. Caching\n" +
		"\n" +
		"RECOMMENDATIONS\n" +
		"-------------\n"

	assert.Equal(t, want, Export(report))
}

func TestExport_Nil(t *testing.T) {
	assert.Empty(t, Export(nil))
	assert.Equal(t, "interview_report.txt", ExportFilename)
}
