package content

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"

	"github.com/jonathan/interview-simulator/internal/llm"
	"github.com/jonathan/interview-simulator/internal/types"
)

// MockLLMClient is a mock implementation of llm.Client for testing
type MockLLMClient struct {
	GenerateContentFunc func(ctx context.Context, prompt string, opts llm.GenerateOptions) (string, error)
	GenerateJSONFunc    func(ctx context.Context, prompt string, opts llm.GenerateOptions) (string, error)
	GetModelFunc        func(tier llm.ModelTier) string
	CloseFunc           func() error
}

func (m *MockLLMClient) GenerateContent(ctx context.Context, prompt string, opts llm.GenerateOptions) (string, error) {
	if m.GenerateContentFunc != nil {
		return m.GenerateContentFunc(ctx, prompt, opts)
	}
	return "", nil
}

func (m *MockLLMClient) GenerateJSON(ctx context.Context, prompt string, opts llm.GenerateOptions) (string, error) {
	if m.GenerateJSONFunc != nil {
		return m.GenerateJSONFunc(ctx, prompt, opts)
	}
	return `{}`, nil
}

func (m *MockLLMClient) GetModel(tier llm.ModelTier) string {
	if m.GetModelFunc != nil {
		return m.GetModelFunc(tier)
	}
	return "mock-model"
}

func (m *MockLLMClient) Close() error {
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

func jsonClient(payload string) *MockLLMClient {
	return &MockLLMClient{
		GenerateJSONFunc: func(context.Context, string, llm.GenerateOptions) (string, error) {
			return payload, nil
		},
	}
}

func engineerRequest(kind Kind) Request {
	return Request{Kind: kind, Context: Context{Setup: types.InterviewSetup{
		JobTitle: "Software Engineer", Company: "Acme", Experience: types.ExperienceSenior,
	}}}
}

func TestLLMProvider_MCQ(t *testing.T) {
	payload := "Here you go:\n```json\n[" +
		`{"question": " Which is O(1)? ", "options": ["hash lookup", "sort", "scan", "bfs"], "correctAnswer": 0},` +
		`{"id": 7, "question": "Which is stable?", "options": ["merge", "quick", "heap", "shell"], "correctAnswer": 0}` +
		"]\n```"
	var gotOpts llm.GenerateOptions
	client := jsonClient(payload)
	client.GenerateJSONFunc = func(_ context.Context, prompt string, opts llm.GenerateOptions) (string, error) {
		gotOpts = opts
		assert.Contains(t, prompt, "Software Engineer interview at Acme")
		return payload, nil
	}

	out, err := NewLLMProvider(client, nil).Generate(context.Background(), engineerRequest(KindMCQ))
	require.NoError(t, err)
	require.Len(t, out.MCQ, 2)
	assert.Equal(t, 1, out.MCQ[0].ID)
	assert.Equal(t, "Which is O(1)?", out.MCQ[0].Question)
	assert.Equal(t, 7, out.MCQ[1].ID)
	assert.InDelta(t, 0.2, gotOpts.Temperature, 1e-6)
	assert.Equal(t, int32(4096), gotOpts.MaxOutputTokens)
}

func TestLLMProvider_SchemaViolationIsMalformed(t *testing.T) {
	tests := []struct {
		name    string
		kind    Kind
		payload string
	}{
		{"mcq with two options", KindMCQ, `[{"question": "q", "options": ["a", "b"], "correctAnswer": 0}]`},
		{"problem missing description", KindCodingProblem, `{"title": "t"}`},
		{"hr questions as object", KindHRQuestions, `{"questions": ["a"]}`},
		{"not json", KindDesignEval, `I cannot help with that.`},
		{"report with word score", KindFullFeedback, `{"overall": "o", "mcq": "m", "coding": "c", "systemDesign": "s", "hr": "h",
			"scores": {"mcq": "good", "coding": 1, "systemDesign": 1, "hr": 1, "overall": 1},
			"strengths": [], "weaknesses": [], "recommendations": []}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLLMProvider(jsonClient(tt.payload), nil).Generate(context.Background(), engineerRequest(tt.kind))
			var malformed *MalformedResponseError
			assert.ErrorAs(t, err, &malformed)
		})
	}
}

func TestLLMProvider_HRQuestionsDeduplicated(t *testing.T) {
	client := jsonClient(`["Why us?", " Why us? ", "", "Where next?"]`)
	out, err := NewLLMProvider(client, nil).Generate(context.Background(), engineerRequest(KindHRQuestions))
	require.NoError(t, err)
	assert.Equal(t, []string{"Why us?", "Where next?"}, out.HRQuestions)
}

func TestLLMProvider_SystemDesignText(t *testing.T) {
	var usedText bool
	client := &MockLLMClient{
		GenerateContentFunc: func(_ context.Context, prompt string, opts llm.GenerateOptions) (string, error) {
			usedText = true
			assert.Contains(t, prompt, "scalability, reliability and architectural patterns")
			assert.Equal(t, int32(2048), opts.MaxOutputTokens)
			return "  \"Design a global rate limiter.\"\n", nil
		},
	}

	out, err := NewLLMProvider(client, nil).Generate(context.Background(), engineerRequest(KindSystemDesign))
	require.NoError(t, err)
	assert.True(t, usedText)
	assert.Equal(t, "Design a global rate limiter.", out.Question)

	client.GenerateContentFunc = func(context.Context, string, llm.GenerateOptions) (string, error) {
		return "   ", nil
	}
	_, err = NewLLMProvider(client, nil).Generate(context.Background(), engineerRequest(KindSystemDesign))
	var malformed *MalformedResponseError
	assert.ErrorAs(t, err, &malformed)
}

func TestLLMProvider_FullFeedbackCoercesScores(t *testing.T) {
	payload := `{"overall": "Good", "mcq": "m", "coding": "c", "systemDesign": "s", "hr": "h",
		"scores": {"mcq": "80", "coding": 91.6, "systemDesign": "70%", "hr": 120, "overall": 85},
		"strengths": ["clear"], "weaknesses": [], "recommendations": ["practice"],
		"source": "fallback", "generatedAt": "yesterday"}`

	out, err := NewLLMProvider(jsonClient(payload), nil).Generate(context.Background(), engineerRequest(KindFullFeedback))
	require.NoError(t, err)
	assert.Equal(t, types.Scores{MCQ: 80, Coding: 92, SystemDesign: 70, HR: 100, Overall: 85}, out.Report.Scores)
	assert.Empty(t, out.Report.Source)
	assert.Empty(t, out.Report.GeneratedAt)
}

func TestLLMProvider_ClassifiesClientErrors(t *testing.T) {
	client := &MockLLMClient{
		GenerateJSONFunc: func(context.Context, string, llm.GenerateOptions) (string, error) {
			return "", &googleapi.Error{Code: 429, Message: "quota"}
		},
	}
	_, err := NewLLMProvider(client, nil).Generate(context.Background(), engineerRequest(KindMCQ))
	var auth *AuthError
	assert.ErrorAs(t, err, &auth)

	client.GenerateJSONFunc = func(context.Context, string, llm.GenerateOptions) (string, error) {
		return "", errors.New("connection reset by peer")
	}
	_, err = NewLLMProvider(client, nil).Generate(context.Background(), engineerRequest(KindMCQ))
	var transport *TransportError
	assert.ErrorAs(t, err, &transport)
}

func TestGeminiFactory_MissingCredential(t *testing.T) {
	_, err := GeminiFactory(nil, nil)(context.Background(), "")
	assert.ErrorIs(t, err, ErrMissingCredential)
}
