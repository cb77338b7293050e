package llm

import (
	"testing"
)

func TestCleanJSONBlock_MarkdownCodeBlock(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "json code block",
			input:    "```json\n{\"score\": 80}\n```",
			expected: `{"score": 80}`,
		},
		{
			name:     "generic code block",
			input:    "```\n{\"score\": 80}\n```",
			expected: `{"score": 80}`,
		},
		{
			name:     "code block with language",
			input:    "```javascript\n{\"score\": 80}\n```",
			expected: `{"score": 80}`,
		},
		{
			name:     "plain JSON",
			input:    `{"score": 80}`,
			expected: `{"score": 80}`,
		},
		{
			name:     "no JSON at all",
			input:    "Design a URL shortener.",
			expected: "Design a URL shortener.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CleanJSONBlock(tt.input)
			if result != tt.expected {
				t.Errorf("CleanJSONBlock() = %q, want %q", result, tt.expected)
			}
		})
	}
}

func TestCleanJSONBlock_PreambleText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "preamble before JSON object",
			input:    "As requested, here is the evaluation:\n{\"score\": 72}",
			expected: `{"score": 72}`,
		},
		{
			name:     "preamble before JSON array",
			input:    "Here are the questions:\n[\"Why us?\", \"Why now?\"]",
			expected: `["Why us?", "Why now?"]`,
		},
		{
			name:     "JSON with trailing text",
			input:    "{\"score\": 72}\n\nGood luck with your interview!",
			expected: `{"score": 72}`,
		},
		{
			name:     "braces inside strings",
			input:    "Result: {\"feedback\": \"Use a map {key: count} here\"}",
			expected: `{"feedback": "Use a map {key: count} here"}`,
		},
		{
			name:     "JSON with escaped quotes",
			input:    "Result: {\"feedback\": \"You said \\\"cache\\\" twice\"}",
			expected: `{"feedback": "You said \"cache\" twice"}`,
		},
		{
			name:     "fenced with preamble inside",
			input:    "```json\nSure!\n[{\"id\": 1}]\n```",
			expected: `[{"id": 1}]`,
		},
		{
			name:     "unbalanced keeps remainder",
			input:    "Here: {\"score\": 72",
			expected: `{"score": 72`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CleanJSONBlock(tt.input)
			if result != tt.expected {
				t.Errorf("CleanJSONBlock() = %q, want %q", result, tt.expected)
			}
		})
	}
}

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "simple object", input: `{"key": "value"}`, expected: `{"key": "value"}`},
		{name: "nested objects", input: `{"outer": {"inner": "value"}}`, expected: `{"outer": {"inner": "value"}}`},
		{name: "object with array", input: `{"items": [1, 2, 3]}`, expected: `{"items": [1, 2, 3]}`},
		{name: "object with trailing text", input: `{"key": "value"} and more`, expected: `{"key": "value"}`},
		{name: "empty input", input: "", expected: ""},
		{name: "not starting with brace", input: "not json", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := extractJSONObject(tt.input)
			if result != tt.expected {
				t.Errorf("extractJSONObject() = %q, want %q", result, tt.expected)
			}
		})
	}
}

func TestExtractJSONArray(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "simple array", input: `["a", "b"]`, expected: `["a", "b"]`},
		{name: "nested arrays", input: `[[1, 2], [3, 4]]`, expected: `[[1, 2], [3, 4]]`},
		{name: "array of objects", input: `[{"id": 1}, {"id": 2}]`, expected: `[{"id": 1}, {"id": 2}]`},
		{name: "bracket inside string", input: `["a]", "b"] tail`, expected: `["a]", "b"]`},
		{name: "empty input", input: "", expected: ""},
		{name: "not starting with bracket", input: "nope", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := extractJSONArray(tt.input)
			if result != tt.expected {
				t.Errorf("extractJSONArray() = %q, want %q", result, tt.expected)
			}
		})
	}
}
