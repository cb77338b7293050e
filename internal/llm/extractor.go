// Package llm - extractor.go provides generic LLM-based structured extraction.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// ExtractionSchema defines the structure for LLM-based content extraction.
type ExtractionSchema struct {
	Name        string        // Schema name (e.g., "JobPosting")
	Description string        // System prompt preamble describing the extraction task
	Fields      []SchemaField // Expected output fields
}

// SchemaField defines a single field in the extraction output.
type SchemaField struct {
	Name        string // JSON field name
	Type        string // Type hint: "string", "[]string"
	Description string // Description for the LLM
	Required    bool   // Whether this field is required
}

// BuildExtractionPrompt constructs the LLM prompt from schema and input text.
func BuildExtractionPrompt(schema ExtractionSchema, inputText string) string {
	var sb strings.Builder

	sb.WriteString(schema.Description)
	sb.WriteString("\n\n")

	sb.WriteString("Return ONLY valid JSON matching this exact structure:\n{\n")
	for i, field := range schema.Fields {
		typeHint := field.Type
		if typeHint == "" {
			typeHint = "\"string\""
		}
		requiredHint := ""
		if field.Required {
			requiredHint = " (required)"
		}
		fmt.Fprintf(&sb, "  \"%s\": %s%s", field.Name, typeHint, requiredHint)
		if field.Description != "" {
			fmt.Fprintf(&sb, " // %s", field.Description)
		}
		if i < len(schema.Fields)-1 {
			sb.WriteString(",")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("}\n\n")

	sb.WriteString("IMPORTANT:\n")
	sb.WriteString("- Extract information directly from the text, do not invent details.\n")
	sb.WriteString("- Use an empty string for anything the text does not state.\n")
	sb.WriteString("- Return ONLY the JSON object, no markdown, no explanation, no code blocks.\n\n")

	sb.WriteString("Input text:\n\"\"\"\n")
	sb.WriteString(inputText)
	sb.WriteString("\n\"\"\"\n")

	return sb.String()
}

// JobPostingSchema extracts the fields needed to prefill an interview setup.
func JobPostingSchema() ExtractionSchema {
	return ExtractionSchema{
		Name: "JobPosting",
		Description: `You are an expert job posting parser.
Your task is to identify the role being hired for in a raw job posting.
EXCLUDE: Application form fields, EEO statements, legal disclaimers, cookie banners.`,
		Fields: []SchemaField{
			{
				Name:        "job_title",
				Description: "Title of the role exactly as posted",
				Required:    true,
			},
			{
				Name:        "company",
				Description: "Name of the hiring company",
				Required:    true,
			},
			{
				Name:        "experience",
				Description: "One of entry-level, mid-level, senior, leadership; empty if unclear",
			},
			{
				Name:        "job_description",
				Description: "Responsibilities and requirements, copied verbatim and joined with newlines",
				Required:    true,
			},
		},
	}
}

// JobPosting is the result of extracting JobPostingSchema.
type JobPosting struct {
	JobTitle       string `json:"job_title"`
	Company        string `json:"company"`
	Experience     string `json:"experience"`
	JobDescription string `json:"job_description"`
}

// ExtractJobPosting asks the client to structure raw posting text.
func ExtractJobPosting(ctx context.Context, client Client, text string) (*JobPosting, error) {
	prompt := BuildExtractionPrompt(JobPostingSchema(), text)

	opts := DefaultOptions()
	opts.Tier = TierLite
	opts.Temperature = 0.1

	raw, err := client.GenerateJSON(ctx, prompt, opts)
	if err != nil {
		return nil, err
	}

	var posting JobPosting
	if err := json.Unmarshal([]byte(raw), &posting); err != nil {
		return nil, &MalformedResponseError{Op: "extract job posting", Reason: "invalid JSON", Cause: err}
	}
	posting.JobTitle = strings.TrimSpace(posting.JobTitle)
	posting.Company = strings.TrimSpace(posting.Company)
	posting.Experience = strings.TrimSpace(posting.Experience)
	posting.JobDescription = strings.TrimSpace(posting.JobDescription)
	return &posting, nil
}
