package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Score is an integer percentage in [0, 100].
// It decodes from JSON numbers or numeric strings, rounding and clamping into range.
type Score int

// UnmarshalJSON implements json.Unmarshaler.
func (s *Score) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return fmt.Errorf("score is null")
	}

	var f float64
	if len(data) > 0 && data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return fmt.Errorf("invalid score: %w", err)
		}
		str = strings.TrimSuffix(strings.TrimSpace(str), "%")
		parsed, err := strconv.ParseFloat(strings.TrimSpace(str), 64)
		if err != nil {
			return fmt.Errorf("score %q is not numeric", str)
		}
		f = parsed
	} else if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("invalid score: %w", err)
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return fmt.Errorf("score is not finite")
	}
	*s = ClampScore(f)
	return nil
}

// ClampScore rounds f and clamps it into [0, 100].
func ClampScore(f float64) Score {
	r := math.Round(f)
	if r < 0 {
		return 0
	}
	if r > 100 {
		return 100
	}
	return Score(r)
}

// Valid reports whether the score lies in [0, 100].
func (s Score) Valid() bool {
	return s >= 0 && s <= 100
}

// Scores holds the per-round and overall percentages.
type Scores struct {
	MCQ          Score `json:"mcq"`
	Coding       Score `json:"coding"`
	SystemDesign Score `json:"systemDesign"`
	HR           Score `json:"hr"`
	Overall      Score `json:"overall"`
}

// ReportSource records where a FeedbackReport came from.
type ReportSource string

const (
	ReportFromProvider ReportSource = "provider"
	ReportFromFallback ReportSource = "fallback"
)

// FeedbackReport is the final evaluation shown on the results page.
// Once persisted it is never recomputed.
type FeedbackReport struct {
	Overall         string       `json:"overall"`
	MCQ             string       `json:"mcq"`
	Coding          string       `json:"coding"`
	SystemDesign    string       `json:"systemDesign"`
	HR              string       `json:"hr"`
	Scores          Scores       `json:"scores"`
	Strengths       []string     `json:"strengths"`
	Weaknesses      []string     `json:"weaknesses"`
	Recommendations []string     `json:"recommendations"`
	Source          ReportSource `json:"source,omitempty"`
	GeneratedAt     string       `json:"generatedAt,omitempty"`
}

// ReportShapeError describes why a report failed structural validation.
type ReportShapeError struct {
	Field   string
	Message string
}

func (e *ReportShapeError) Error() string {
	return fmt.Sprintf("invalid feedback report: %s: %s", e.Field, e.Message)
}

// Validate checks the structural shape of the report.
func (r *FeedbackReport) Validate() error {
	if r == nil {
		return &ReportShapeError{Field: "(root)", Message: "report is missing"}
	}

	scores := map[string]Score{
		"scores.mcq":          r.Scores.MCQ,
		"scores.coding":       r.Scores.Coding,
		"scores.systemDesign": r.Scores.SystemDesign,
		"scores.hr":           r.Scores.HR,
		"scores.overall":      r.Scores.Overall,
	}
	for field, score := range scores {
		if !score.Valid() {
			return &ReportShapeError{Field: field, Message: fmt.Sprintf("score %d outside [0,100]", score)}
		}
	}

	lists := []struct {
		field string
		items []string
	}{
		{"strengths", r.Strengths},
		{"weaknesses", r.Weaknesses},
		{"recommendations", r.Recommendations},
	}
	for _, l := range lists {
		if l.items == nil {
			return &ReportShapeError{Field: l.field, Message: "list is missing"}
		}
	}
	return nil
}

// DecodeFeedbackReport decodes JSON into a report, coercing scores.
// Unknown fields are ignored.
func DecodeFeedbackReport(data []byte) (*FeedbackReport, error) {
	var r FeedbackReport
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, err
	}
	return &r, nil
}
