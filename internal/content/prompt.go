package content

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/jonathan/interview-simulator/internal/llm"
	"github.com/jonathan/interview-simulator/internal/prompts"
	"github.com/jonathan/interview-simulator/internal/types"
	"github.com/jonathan/interview-simulator/schemas"
)

// kindSpec holds how one kind is prompted, shaped and decoded.
type kindSpec struct {
	schema string // empty for free text
	opts   llm.GenerateOptions
}

var kindSpecs = map[Kind]kindSpec{
	KindMCQ: {
		schema: schemas.MCQ,
		opts:   llm.GenerateOptions{Tier: llm.TierStandard, Temperature: 0.2, TopP: 0.8, MaxOutputTokens: 4096},
	},
	KindCodingProblem: {
		schema: schemas.CodingProblem,
		opts:   llm.GenerateOptions{Tier: llm.TierStandard, Temperature: 0.3, TopP: 0.8, MaxOutputTokens: 4096},
	},
	KindSystemDesign: {
		opts: llm.GenerateOptions{Tier: llm.TierLite, Temperature: 0.3, TopP: 0.8, MaxOutputTokens: 2048},
	},
	KindHRQuestions: {
		schema: schemas.HRQuestions,
		opts:   llm.GenerateOptions{Tier: llm.TierStandard, Temperature: 0.3, TopP: 0.8, MaxOutputTokens: 2048},
	},
	KindCodeEval: {
		schema: schemas.CodeEvaluation,
		opts:   llm.GenerateOptions{Tier: llm.TierAdvanced, Temperature: 0.2, TopP: 0.8, MaxOutputTokens: 4096},
	},
	KindDesignEval: {
		schema: schemas.DesignEvaluation,
		opts:   llm.GenerateOptions{Tier: llm.TierAdvanced, Temperature: 0.2, TopP: 0.8, MaxOutputTokens: 4096},
	},
	KindFullFeedback: {
		schema: schemas.FeedbackReport,
		opts:   llm.GenerateOptions{Tier: llm.TierAdvanced, Temperature: 0.2, TopP: 0.8, MaxOutputTokens: 8192},
	},
}

// BuildPrompt renders the prompt for req.
func BuildPrompt(req Request) (string, error) {
	c := req.Context
	data := setupData(c.Setup)

	switch req.Kind {
	case KindMCQ:
		return prompts.Render("mcq", data)

	case KindCodingProblem:
		key := "coding-problem-case-study"
		if c.Setup.IsTechnicalRole() {
			key = "coding-problem-technical"
		}
		body, err := prompts.Render(key, data)
		if err != nil {
			return "", err
		}
		format, err := prompts.Render("coding-problem-format", nil)
		if err != nil {
			return "", err
		}
		return body + "\n\n" + format, nil

	case KindSystemDesign:
		if c.Setup.IsArchitectureRole() {
			return prompts.Render("system-design-technical", data)
		}
		data["Focus"] = c.Setup.StrategyFocus()
		return prompts.Render("system-design-strategy", data)

	case KindHRQuestions:
		return prompts.Render("hr-questions", data)

	case KindCodeEval:
		data["Language"] = submissionLanguage(c.Submission)
		data["Problem"] = FormatProblem(c.Problem)
		data["Solution"] = submissionCode(c.Submission)
		return prompts.Render("code-eval", data)

	case KindDesignEval:
		data["Question"] = c.DesignQuestion
		data["Answer"] = c.DesignAnswer
		return prompts.Render("design-eval", data)

	case KindFullFeedback:
		correct, total := MCQTally(c.Questions, c.MCQAnswers)
		data["MCQCorrect"] = correct
		data["MCQTotal"] = strconv.Itoa(total)
		data["MCQDetail"] = mcqDetail(c.Questions, c.MCQAnswers)
		data["Problem"] = FormatProblem(c.Problem)
		data["Language"] = submissionLanguage(c.Submission)
		data["Solution"] = submissionCode(c.Submission)
		data["Question"] = c.DesignQuestion
		data["Answer"] = c.DesignAnswer
		data["HRTranscript"] = HRTranscript(c.HRQuestions, c.HRAnswers)
		return prompts.Render("full-feedback", data)

	default:
		return "", fmt.Errorf("no prompt for content kind %q", req.Kind)
	}
}

func setupData(s types.InterviewSetup) map[string]string {
	jd := ""
	if strings.TrimSpace(s.JobDescription) != "" {
		jd = "The job description is: " + strings.TrimSpace(s.JobDescription)
	}
	return map[string]string{
		"JobTitle":           s.JobTitle,
		"Company":            s.Company,
		"Experience":         string(s.Experience),
		"JobDescriptionLine": jd,
	}
}

func submissionLanguage(sub *types.CodingSubmission) string {
	if sub == nil || sub.Language == "" {
		return types.DefaultLanguage
	}
	return sub.Language
}

func submissionCode(sub *types.CodingSubmission) string {
	if sub == nil {
		return ""
	}
	return sub.Code
}

// FormatProblem renders a coding problem as plain text for prompts and exports.
func FormatProblem(p *types.CodingProblem) string {
	if p == nil {
		return "(problem unavailable)"
	}
	var sb strings.Builder
	sb.WriteString(p.Title)
	sb.WriteString("\n")
	sb.WriteString(p.Description)
	if len(p.Examples) > 0 {
		sb.WriteString("\nExamples:")
		for _, e := range p.Examples {
			sb.WriteString("\n- " + e)
		}
	}
	if len(p.Constraints) > 0 {
		sb.WriteString("\nConstraints:")
		for _, c := range p.Constraints {
			sb.WriteString("\n- " + c)
		}
	}
	if p.Complexity != "" {
		sb.WriteString("\nComplexity: " + p.Complexity)
	}
	return sb.String()
}

// MCQTally counts selections that match the question keys. The count is only
// passed to the provider as context; it is not a score. When the questions are
// unknown the count is reported as unknown.
func MCQTally(questions []types.MCQQuestion, answers types.MCQAnswers) (string, int) {
	total := len(answers)
	if len(questions) == 0 {
		return "an unknown number", total
	}
	matched := 0
	for i, a := range answers {
		if i < len(questions) && a == questions[i].CorrectAnswer {
			matched++
		}
	}
	return strconv.Itoa(matched), total
}

func mcqDetail(questions []types.MCQQuestion, answers types.MCQAnswers) string {
	if len(questions) == 0 {
		return ""
	}
	var lines []string
	for i, q := range questions {
		selected := "(unanswered)"
		if i < len(answers) && answers[i] >= 0 && answers[i] < len(q.Options) {
			selected = q.Options[answers[i]]
		}
		expected := ""
		if q.CorrectAnswer >= 0 && q.CorrectAnswer < len(q.Options) {
			expected = q.Options[q.CorrectAnswer]
		}
		lines = append(lines, fmt.Sprintf("- Q%d: %s | chosen: %s | key: %s", i+1, q.Question, selected, expected))
	}
	return strings.Join(lines, "\n")
}

// HRTranscript pairs questions and answers, in question order when known.
func HRTranscript(questions []string, answers types.HRAnswers) string {
	order := questions
	if len(order) == 0 {
		order = make([]string, 0, len(answers))
		for q := range answers {
			order = append(order, q)
		}
		sort.Strings(order)
	}

	pairs := make([]string, 0, len(order))
	for _, q := range order {
		a, ok := answers[q]
		if !ok {
			continue
		}
		pairs = append(pairs, "Q: "+q+"\nA: "+a)
	}
	return strings.Join(pairs, "\n\n")
}
