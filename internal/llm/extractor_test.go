package llm

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockLLMClient is a mock implementation of Client for testing
type MockLLMClient struct {
	GenerateContentFunc func(ctx context.Context, prompt string, opts GenerateOptions) (string, error)
	GenerateJSONFunc    func(ctx context.Context, prompt string, opts GenerateOptions) (string, error)
	GetModelFunc        func(tier ModelTier) string
	CloseFunc           func() error
}

func (m *MockLLMClient) GenerateContent(ctx context.Context, prompt string, opts GenerateOptions) (string, error) {
	if m.GenerateContentFunc != nil {
		return m.GenerateContentFunc(ctx, prompt, opts)
	}
	return "", nil
}

func (m *MockLLMClient) GenerateJSON(ctx context.Context, prompt string, opts GenerateOptions) (string, error) {
	if m.GenerateJSONFunc != nil {
		return m.GenerateJSONFunc(ctx, prompt, opts)
	}
	return `{}`, nil
}

func (m *MockLLMClient) GetModel(tier ModelTier) string {
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

func TestBuildExtractionPrompt(t *testing.T) {
	prompt := BuildExtractionPrompt(JobPostingSchema(), "Senior Go Engineer at Acme")

	assert.Contains(t, prompt, `"job_title": "string" (required) // Title of the role exactly as posted,`)
	assert.Contains(t, prompt, `"experience": "string" // One of entry-level`)
	assert.True(t, strings.HasSuffix(prompt, "Senior Go Engineer at Acme\n\"\"\"\n"))
}

func TestExtractJobPosting(t *testing.T) {
	var gotOpts GenerateOptions
	client := &MockLLMClient{
		GenerateJSONFunc: func(_ context.Context, prompt string, opts GenerateOptions) (string, error) {
			gotOpts = opts
			assert.Contains(t, prompt, "We are hiring")
			return `{"job_title": " Platform Engineer ", "company": "Acme", "experience": "senior", "job_description": "Run Kubernetes"}`, nil
		},
	}

	posting, err := ExtractJobPosting(context.Background(), client, "We are hiring a Platform Engineer")
	require.NoError(t, err)
	assert.Equal(t, "Platform Engineer", posting.JobTitle)
	assert.Equal(t, "Acme", posting.Company)
	assert.Equal(t, "senior", posting.Experience)
	assert.Equal(t, TierLite, gotOpts.Tier)
}

func TestExtractJobPosting_Errors(t *testing.T) {
	bad := &MockLLMClient{
		GenerateJSONFunc: func(context.Context, string, GenerateOptions) (string, error) {
			return `{"job_title": `, nil
		},
	}
	_, err := ExtractJobPosting(context.Background(), bad, "text")
	var malformed *MalformedResponseError
	assert.ErrorAs(t, err, &malformed)

	down := &MockLLMClient{
		GenerateJSONFunc: func(context.Context, string, GenerateOptions) (string, error) {
			return "", &TransportError{Op: "generate", Cause: errors.New("timeout")}
		},
	}
	_, err = ExtractJobPosting(context.Background(), down, "text")
	var transport *TransportError
	assert.ErrorAs(t, err, &transport)
}
