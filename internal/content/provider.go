package content

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/interview-simulator/internal/llm"
	"github.com/jonathan/interview-simulator/internal/schemas"
	"github.com/jonathan/interview-simulator/internal/types"
)

// Provider generates content. Errors are AuthError, TransportError or
// MalformedResponseError.
type Provider interface {
	Generate(ctx context.Context, req Request) (*Content, error)
	Close() error
}

// ProviderFactory opens a provider for a credential.
type ProviderFactory func(ctx context.Context, credential string) (Provider, error)

// GeminiFactory returns a factory backed by llm.NewClient.
func GeminiFactory(config *llm.Config, log *zap.Logger) ProviderFactory {
	return func(ctx context.Context, credential string) (Provider, error) {
		client, err := llm.NewClient(ctx, config, credential)
		if err != nil {
			return nil, err
		}
		return NewLLMProvider(client, log), nil
	}
}

// LLMProvider adapts an llm.Client to Provider.
type LLMProvider struct {
	client llm.Client
	log    *zap.Logger
}

// NewLLMProvider wraps client. A nil logger is replaced by a no-op logger.
func NewLLMProvider(client llm.Client, log *zap.Logger) *LLMProvider {
	if log == nil {
		log = zap.NewNop()
	}
	return &LLMProvider{client: client, log: log}
}

// Close releases the underlying client.
func (p *LLMProvider) Close() error {
	return p.client.Close()
}

// Generate renders the prompt for req, calls the model and decodes the
// validated response.
func (p *LLMProvider) Generate(ctx context.Context, req Request) (*Content, error) {
	ks, ok := kindSpecs[req.Kind]
	if !ok {
		return nil, fmt.Errorf("unknown content kind %q", req.Kind)
	}

	prompt, err := BuildPrompt(req)
	if err != nil {
		return nil, fmt.Errorf("build %s prompt: %w", req.Kind, err)
	}

	p.log.Debug("generating content",
		zap.String("kind", string(req.Kind)),
		zap.String("model", p.client.GetModel(ks.opts.Tier)),
		zap.Int("prompt_chars", len(prompt)))

	if ks.schema == "" {
		text, err := p.client.GenerateContent(ctx, prompt, ks.opts)
		if err != nil {
			return nil, llm.Classify(string(req.Kind), err)
		}
		return decodeText(req.Kind, text)
	}

	raw, err := p.client.GenerateJSON(ctx, prompt, ks.opts)
	if err != nil {
		return nil, llm.Classify(string(req.Kind), err)
	}
	raw = llm.CleanJSONBlock(raw)

	if err := schemas.ValidateDocument(ks.schema, raw); err != nil {
		return nil, &llm.MalformedResponseError{Op: string(req.Kind), Reason: "response does not match schema", Cause: err}
	}
	return decodeJSON(req.Kind, raw)
}

func decodeText(kind Kind, text string) (*Content, error) {
	text = strings.Trim(strings.TrimSpace(text), "\"")
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, &llm.MalformedResponseError{Op: string(kind), Reason: "empty question"}
	}
	return &Content{Kind: kind, Question: text}, nil
}

func decodeJSON(kind Kind, raw string) (*Content, error) {
	out := &Content{Kind: kind}
	var err error

	switch kind {
	case KindMCQ:
		var questions []types.MCQQuestion
		if err = json.Unmarshal([]byte(raw), &questions); err == nil {
			out.MCQ = normalizeMCQ(questions)
		}
	case KindCodingProblem:
		var problem types.CodingProblem
		if err = json.Unmarshal([]byte(raw), &problem); err == nil {
			out.Problem = &problem
		}
	case KindHRQuestions:
		var questions []string
		if err = json.Unmarshal([]byte(raw), &questions); err == nil {
			out.HRQuestions = normalizeHRQuestions(questions)
		}
	case KindCodeEval:
		var eval types.CodeEvaluation
		if err = json.Unmarshal([]byte(raw), &eval); err == nil {
			if eval.Improvements == nil {
				eval.Improvements = []string{}
			}
			out.CodeEval = &eval
		}
	case KindDesignEval:
		var eval types.DesignEvaluation
		if err = json.Unmarshal([]byte(raw), &eval); err == nil {
			out.DesignEval = &eval
		}
	case KindFullFeedback:
		var report *types.FeedbackReport
		if report, err = types.DecodeFeedbackReport([]byte(raw)); err == nil {
			// Provenance is ours to set, not the provider's.
			report.Source = ""
			report.GeneratedAt = ""
			if err = report.Validate(); err == nil {
				out.Report = report
			}
		}
	default:
		return nil, fmt.Errorf("unknown content kind %q", kind)
	}

	if err != nil {
		return nil, &llm.MalformedResponseError{Op: string(kind), Reason: "cannot decode response", Cause: err}
	}
	if out.Empty() {
		return nil, &llm.MalformedResponseError{Op: string(kind), Reason: "empty result"}
	}
	return out, nil
}

// normalizeMCQ numbers questions that came back without ids.
func normalizeMCQ(questions []types.MCQQuestion) []types.MCQQuestion {
	for i := range questions {
		if questions[i].ID == 0 {
			questions[i].ID = i + 1
		}
		questions[i].Question = strings.TrimSpace(questions[i].Question)
	}
	return questions
}

// normalizeHRQuestions trims and de-duplicates questions, since answers are keyed by question text.
func normalizeHRQuestions(questions []string) []string {
	seen := make(map[string]bool, len(questions))
	out := make([]string, 0, len(questions))
	for _, q := range questions {
		q = strings.TrimSpace(q)
		if q == "" || seen[q] {
			continue
		}
		seen[q] = true
		out = append(out, q)
	}
	return out
}
