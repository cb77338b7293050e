package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "unauthorized", err: &googleapi.Error{Code: 401}, want: "auth"},
		{name: "forbidden", err: &googleapi.Error{Code: 403}, want: "auth"},
		{name: "quota", err: &googleapi.Error{Code: 429}, want: "auth"},
		{name: "bad key message", err: &googleapi.Error{Code: 400, Message: "API key not valid. Please pass a valid API key."}, want: "auth"},
		{name: "other bad request", err: &googleapi.Error{Code: 400, Message: "invalid argument"}, want: "transport"},
		{name: "server error", err: &googleapi.Error{Code: 503}, want: "transport"},
		{name: "wrapped server error", err: fmt.Errorf("rpc: %w", &googleapi.Error{Code: 500}), want: "transport"},
		{name: "deadline", err: context.DeadlineExceeded, want: "transport"},
		{name: "canceled", err: fmt.Errorf("call: %w", context.Canceled), want: "transport"},
		{name: "network", err: &net.OpError{Op: "dial", Err: errors.New("connection refused")}, want: "transport"},
		{name: "blocked", err: &genai.BlockedError{}, want: "malformed"},
		{name: "plain quota text", err: errors.New("RESOURCE_EXHAUSTED: quota exceeded"), want: "auth"},
		{name: "unknown", err: errors.New("boom"), want: "transport"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify("generate", tt.err)
			require.Error(t, got)
			assert.True(t, IsProviderError(got))

			var auth *AuthError
			var transport *TransportError
			var malformed *MalformedResponseError
			switch tt.want {
			case "auth":
				assert.ErrorAs(t, got, &auth)
			case "transport":
				assert.ErrorAs(t, got, &transport)
			case "malformed":
				assert.ErrorAs(t, got, &malformed)
			}
			assert.ErrorIs(t, got, tt.err)
		})
	}
}

func TestClassify_PassThrough(t *testing.T) {
	assert.NoError(t, Classify("op", nil))
	assert.Same(t, ErrMissingCredential, Classify("op", ErrMissingCredential))

	already := &MalformedResponseError{Op: "decode", Reason: "empty"}
	assert.Same(t, already, Classify("op", already))
}

func TestNewGeminiClient_MissingKey(t *testing.T) {
	_, err := NewGeminiClient(context.Background(), nil, "   ")
	assert.ErrorIs(t, err, ErrMissingCredential)
	assert.False(t, IsProviderError(err))
}

func TestNewClient_MissingKey(t *testing.T) {
	tests := []struct {
		name   string
		config *Config
	}{
		{"nil config", nil},
		{"default config", DefaultConfig()},
		{"unset provider", &Config{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewClient(context.Background(), tt.config, "")
			assert.ErrorIs(t, err, ErrMissingCredential)
		})
	}
}

func TestExtractTextFromResponse(t *testing.T) {
	_, err := extractTextFromResponse(&genai.GenerateContentResponse{})
	var malformed *MalformedResponseError
	require.ErrorAs(t, err, &malformed)

	resp := &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
		Content: &genai.Content{Parts: []genai.Part{genai.Text("Design "), genai.Text("a cache.")}},
	}}}
	text, err := extractTextFromResponse(resp)
	require.NoError(t, err)
	assert.Equal(t, "Design a cache.", text)

	blank := &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
		Content: &genai.Content{Parts: []genai.Part{genai.Text("  ")}},
	}}}
	_, err = extractTextFromResponse(blank)
	require.ErrorAs(t, err, &malformed)
}
