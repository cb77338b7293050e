package schemas_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/interview-simulator/internal/schemas"
	embedded "github.com/jonathan/interview-simulator/schemas"
)

func TestAllSchemaFiles_ValidJSON(t *testing.T) {
	for _, name := range embedded.Names {
		t.Run(name, func(t *testing.T) {
			data, err := embedded.Load(name)
			require.NoError(t, err, "should be able to load schema file")

			var schemaObj map[string]interface{}
			require.NoError(t, json.Unmarshal([]byte(data), &schemaObj), "schema file should be valid JSON: %s", name)

			_, hasType := schemaObj["type"]
			_, hasSchema := schemaObj["$schema"]
			assert.True(t, hasType && hasSchema, "schema should declare $schema and type")
		})
	}
}

func TestLoad_Unknown(t *testing.T) {
	_, err := embedded.Load("salary_negotiation")
	assert.Error(t, err)
}

func TestSchemas_AcceptExamples(t *testing.T) {
	examples := map[string]string{
		embedded.MCQ: `[{"id": 1, "question": "What does HTTP 503 mean?",
			"options": ["Not found", "Unavailable", "Redirect", "Teapot"], "correctAnswer": 1}]`,
		embedded.CodingProblem: `{"title": "Two Sum", "description": "Find two indices.",
			"examples": ["[2,7] -> [0,1]"], "constraints": [], "complexity": "O(n)"}`,
		embedded.HRQuestions:      `["Why us?", "Tell me about a conflict."]`,
		embedded.CodeEvaluation:   `{"score": "85", "correctness": "ok", "improvements": ["names"]}`,
		embedded.DesignEvaluation: `{"score": 70, "feedback": "Consider caching."}`,
		embedded.FeedbackReport: `{"overall": "o", "mcq": "m", "coding": "c", "systemDesign": "s", "hr": "h",
			"scores": {"mcq": 80, "coding": "75%", "systemDesign": 60.5, "hr": "90", "overall": 77},
			"strengths": [], "weaknesses": ["w"], "recommendations": ["r"]}`,
	}

	for name, doc := range examples {
		t.Run(name, func(t *testing.T) {
			assert.NoError(t, schemas.ValidateDocument(name, doc))
		})
	}
}

func TestSchemas_RejectBadShapes(t *testing.T) {
	tests := []struct {
		name   string
		schema string
		doc    string
	}{
		{name: "mcq with three options", schema: embedded.MCQ,
			doc: `[{"question": "q", "options": ["a", "b", "c"], "correctAnswer": 0}]`},
		{name: "mcq answer out of range", schema: embedded.MCQ,
			doc: `[{"question": "q", "options": ["a", "b", "c", "d"], "correctAnswer": 4}]`},
		{name: "empty mcq list", schema: embedded.MCQ, doc: `[]`},
		{name: "problem without description", schema: embedded.CodingProblem, doc: `{"title": "t"}`},
		{name: "hr questions not strings", schema: embedded.HRQuestions, doc: `[1, 2]`},
		{name: "design eval missing feedback", schema: embedded.DesignEvaluation, doc: `{"score": 5}`},
		{name: "report with word score", schema: embedded.FeedbackReport,
			doc: `{"overall": "o", "mcq": "m", "coding": "c", "systemDesign": "s", "hr": "h",
				"scores": {"mcq": "great", "coding": 1, "systemDesign": 1, "hr": 1, "overall": 1},
				"strengths": [], "weaknesses": [], "recommendations": []}`},
		{name: "report missing lists", schema: embedded.FeedbackReport,
			doc: `{"overall": "o", "mcq": "m", "coding": "c", "systemDesign": "s", "hr": "h",
				"scores": {"mcq": 1, "coding": 1, "systemDesign": 1, "hr": 1, "overall": 1}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := schemas.ValidateDocument(tt.schema, tt.doc)
			var validationErr *schemas.ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.NotEmpty(t, validationErr.Errors)
		})
	}
}
