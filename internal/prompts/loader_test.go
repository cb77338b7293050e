package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_ValidPrompt(t *testing.T) {
	ClearCache()

	prompt, err := Get(RoundsFile, "mcq")
	require.NoError(t, err)
	assert.Contains(t, prompt, "multiple-choice questions")
}

func TestGet_InvalidFile(t *testing.T) {
	ClearCache()

	_, err := Get("nonexistent.json", "some-key")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read prompt file")
}

func TestGet_InvalidKey(t *testing.T) {
	ClearCache()

	_, err := Get(RoundsFile, "nonexistent-key")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestMustGet_Panics(t *testing.T) {
	ClearCache()

	assert.Panics(t, func() {
		MustGet("nonexistent.json", "some-key")
	})
}

func TestRoundsFile_HasEveryKey(t *testing.T) {
	keys, err := List(RoundsFile)
	require.NoError(t, err)

	for _, want := range []string{
		"mcq",
		"coding-problem-technical",
		"coding-problem-case-study",
		"coding-problem-format",
		"system-design-technical",
		"system-design-strategy",
		"hr-questions",
		"code-eval",
		"design-eval",
		"full-feedback",
	} {
		assert.Contains(t, keys, want)
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		template string
		data     map[string]string
		want     string
	}{
		{
			name:     "replaces every occurrence",
			template: "{{.JobTitle}} at {{.Company}}, a {{.JobTitle}} role",
			data:     map[string]string{"JobTitle": "SRE", "Company": "Acme"},
			want:     "SRE at Acme, a SRE role",
		},
		{
			name:     "leaves unknown placeholders",
			template: "{{.JobTitle}} {{.Other}}",
			data:     map[string]string{"JobTitle": "SRE"},
			want:     "SRE {{.Other}}",
		},
		{
			name:     "does not expand values",
			template: "{{.Answer}} / {{.Company}}",
			data:     map[string]string{"Answer": "I wrote {{.Company}}", "Company": "Acme"},
			want:     "I wrote {{.Company}} / Acme",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Format(tt.template, tt.data))
		})
	}
}

func TestPlaceholders(t *testing.T) {
	got := Placeholders("{{.B}} {{.A}} {{.B}} {{ .C }}")
	assert.Equal(t, []string{"A", "B"}, got)
}

func TestRender(t *testing.T) {
	prompt, err := Render("design-eval", map[string]string{
		"Question": "Design a rate limiter.",
		"Answer":   "Token bucket per key.",
	})
	require.NoError(t, err)
	assert.Contains(t, prompt, "QUESTION:\nDesign a rate limiter.")
	assert.NotContains(t, prompt, "{{.")

	_, err = Render("design-eval", map[string]string{"Question": "q"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Answer")
}
