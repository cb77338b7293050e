// Package observability renders interview progress and reports for the terminal.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jonathan/interview-simulator/internal/content"
	"github.com/jonathan/interview-simulator/internal/gate"
	"github.com/jonathan/interview-simulator/internal/types"
)

const (
	// boxWidth is the width of rendered boxes
	boxWidth = 64
	// maxItemsToShow is the number of list items shown before truncating
	maxItemsToShow = 5
)

// Theme holds the styles used by a Printer.
type Theme struct {
	Box     lipgloss.Style
	Title   lipgloss.Style
	Label   lipgloss.Style
	Good    lipgloss.Style
	Warning lipgloss.Style
	Muted   lipgloss.Style
}

// NewTheme returns the dark or light theme.
func NewTheme(dark bool) *Theme {
	primary, text, muted := lipgloss.Color("#1D4ED8"), lipgloss.Color("#111827"), lipgloss.Color("#6B7280")
	if dark {
		primary, text, muted = lipgloss.Color("#60A5FA"), lipgloss.Color("#F9FAFB"), lipgloss.Color("#9CA3AF")
	}
	return &Theme{
		Box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(muted).
			Foreground(text).
			Padding(0, 1).
			Width(boxWidth),
		Title:   lipgloss.NewStyle().Bold(true).Foreground(primary),
		Label:   lipgloss.NewStyle().Bold(true),
		Good:    lipgloss.NewStyle().Foreground(lipgloss.Color("#16A34A")),
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("#D97706")),
		Muted:   lipgloss.NewStyle().Foreground(muted),
	}
}

// Printer writes formatted output.
type Printer struct {
	out   io.Writer
	theme *Theme
}

// NewPrinter creates a Printer that writes to out.
func NewPrinter(out io.Writer, dark bool) *Printer {
	return &Printer{out: out, theme: NewTheme(dark)}
}

//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, lines []string) {
	body := p.theme.Title.Render(title) + "\n\n" + strings.Join(lines, "\n")
	fmt.Fprintln(p.out, p.theme.Box.Render(body))
}

// PrintStatus shows the setup and which rounds are done.
func (p *Printer) PrintStatus(setup *types.InterviewSetup, progress gate.Progress) {
	var lines []string
	if setup == nil {
		lines = append(lines, p.theme.Muted.Render("No interview in progress. Run `interview_sim setup` to start."))
		p.printBox("INTERVIEW STATUS", lines)
		return
	}

	lines = append(lines,
		p.theme.Label.Render("Role:       ")+setup.JobTitle,
		p.theme.Label.Render("Company:    ")+setup.Company,
		p.theme.Label.Render("Experience: ")+string(setup.Experience),
		p.theme.Label.Render("Started:    ")+setup.Timestamp,
		"",
	)

	done := make(map[gate.Round]bool, len(progress.Completed))
	for _, r := range progress.Completed {
		done[r] = true
	}
	for _, r := range gate.ArtifactRounds {
		mark := p.theme.Muted.Render("○")
		if done[r] {
			mark = p.theme.Good.Render("●")
		}
		lines = append(lines, fmt.Sprintf("%s %s", mark, gate.Label(r)))
	}
	lines = append(lines, "", p.theme.Label.Render("Next: ")+gate.Label(progress.Next))
	p.printBox("INTERVIEW STATUS", lines)
}

// PrintContent summarizes generated round content, marking fallbacks.
func (p *Printer) PrintContent(kind content.Kind, result *content.Result) {
	if result == nil || result.Content == nil {
		return
	}
	c := result.Content

	var lines []string
	switch kind {
	case content.KindMCQ:
		lines = append(lines, fmt.Sprintf("%d questions", len(c.MCQ)))
		for i, q := range c.MCQ {
			if i == maxItemsToShow {
				lines = append(lines, fmt.Sprintf("  ... and %d more", len(c.MCQ)-maxItemsToShow))
				break
			}
			lines = append(lines, fmt.Sprintf("  %d. %s", i+1, q.Question))
		}
	case content.KindCodingProblem:
		if c.Problem != nil {
			lines = append(lines, p.theme.Label.Render(c.Problem.Title), c.Problem.Description)
		}
	case content.KindSystemDesign:
		lines = append(lines, c.Question)
	case content.KindHRQuestions:
		lines = append(lines, fmt.Sprintf("%d questions", len(c.HRQuestions)))
		for i, q := range c.HRQuestions {
			if i == maxItemsToShow {
				lines = append(lines, fmt.Sprintf("  ... and %d more", len(c.HRQuestions)-maxItemsToShow))
				break
			}
			lines = append(lines, "  • "+q)
		}
	}

	source := p.theme.Good.Render("generated")
	switch {
	case result.Fallback:
		source = p.theme.Warning.Render("fallback")
	case result.FromCache:
		source = p.theme.Muted.Render("cached")
	}
	lines = append(lines, "", "Source: "+source)
	if result.Warning != "" {
		lines = append(lines, p.theme.Warning.Render(result.Warning))
	}
	p.printBox(strings.ToUpper(string(kind)), lines)
}

// PrintReport renders the feedback report. warning is shown above the scores
// when the fallback report is in use.
func (p *Printer) PrintReport(report *types.FeedbackReport, warning string) {
	if report == nil {
		return
	}

	var lines []string
	if warning != "" {
		lines = append(lines, p.theme.Warning.Render(warning), "")
	}
	lines = append(lines,
		p.theme.Label.Render(fmt.Sprintf("Overall: %d%%", report.Scores.Overall)),
		report.Overall,
		"",
	)

	rounds := []struct {
		label string
		score types.Score
		text  string
	}{
		{"MCQ", report.Scores.MCQ, report.MCQ},
		{"Coding", report.Scores.Coding, report.Coding},
		{"System Design", report.Scores.SystemDesign, report.SystemDesign},
		{"HR", report.Scores.HR, report.HR},
	}
	for _, r := range rounds {
		lines = append(lines, fmt.Sprintf("%s %s", p.theme.Label.Render(fmt.Sprintf("%-14s %3d%%", r.label, r.score)), scoreBar(r.score)))
		lines = append(lines, p.theme.Muted.Render(r.text))
	}

	lines = append(lines, "")
	lines = append(lines, p.list("Strengths", report.Strengths)...)
	lines = append(lines, p.list("Areas for improvement", report.Weaknesses)...)
	lines = append(lines, p.list("Recommendations", report.Recommendations)...)
	p.printBox("INTERVIEW PERFORMANCE REPORT", lines)
}

func (p *Printer) list(title string, items []string) []string {
	if len(items) == 0 {
		return nil
	}
	lines := []string{p.theme.Label.Render(title + ":")}
	for _, item := range items {
		lines = append(lines, "  • "+item)
	}
	return append(lines, "")
}

// scoreBar draws a ten-cell bar for a score in [0,100].
func scoreBar(s types.Score) string {
	filled := int(s) / 10
	return strings.Repeat("█", filled) + strings.Repeat("░", 10-filled)
}
