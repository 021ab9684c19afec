package results

import (
	"fmt"
	"os"
	"strings"
)

// MarkdownWriter renders SessionResults as RESULTS.md.
type MarkdownWriter struct{}

// NewMarkdownWriter creates a MarkdownWriter.
func NewMarkdownWriter() *MarkdownWriter { return &MarkdownWriter{} }

// Format renders results as Markdown.
func (w *MarkdownWriter) Format(r *SessionResults) string {
	lines := []string{
		"# Package Generation Results",
		"",
		"**Prompt:** " + quote(r.Prompt),
		fmt.Sprintf("**Package:** %s", r.PackageName),
		fmt.Sprintf("**Domain:** %s", r.Domain),
		fmt.Sprintf("**Date:** %s", r.StartedAt.Format("2006-01-02")),
	}

	if r.Persona != "" {
		lines = append(lines, fmt.Sprintf("**Persona:** %s", r.Persona))
	}

	summary := r.Summary
	if summary == "" {
		summary = "_No summary provided_"
	}
	lines = append(lines, "", "## Summary", "", summary, "")

	lines = append(lines, "## Lint Cycles", "")
	if len(r.LintCycles) == 0 {
		lines = append(lines, "_No lint cycles needed_", "")
	}
	for _, c := range r.LintCycles {
		lines = append(lines,
			fmt.Sprintf("### Cycle %d", c.Number),
			fmt.Sprintf("**Issues Found:** %d", c.IssuesFound),
		)
		for _, issue := range c.Issues {
			lines = append(lines, "- "+issue)
		}
		lines = append(lines, "")
		if len(c.ActionsTaken) > 0 {
			lines = append(lines, "**Actions Taken:**")
			for _, action := range c.ActionsTaken {
				lines = append(lines, "- "+action)
			}
		}
		lines = append(lines, "")
	}

	lines = append(lines, "## Questions Asked", "")
	if len(r.Questions) == 0 {
		lines = append(lines, "_No questions asked_", "")
	}
	for i, q := range r.Questions {
		lines = append(lines,
			fmt.Sprintf("%d. **Runner:** %s", i+1, quote(q.RunnerQuestion)),
			fmt.Sprintf("   **Developer:** %s", quote(q.DeveloperResponse)),
			"",
		)
	}

	if len(r.Suggestions) > 0 {
		lines = append(lines, "## Framework Improvement Suggestions", "")
		for i, s := range r.Suggestions {
			lines = append(lines, fmt.Sprintf("%d. %s", i+1, s))
		}
		lines = append(lines, "")
	}

	if s := r.Score; s != nil {
		lines = append(lines,
			"## Score",
			"",
			"| Dimension | Score |",
			"|-----------|-------|",
			fmt.Sprintf("| Completeness | %s/3 |", s.Completeness),
			fmt.Sprintf("| Lint Quality | %s/3 |", s.LintQuality),
			fmt.Sprintf("| Code Quality | %s/3 |", s.CodeQuality),
			fmt.Sprintf("| Output Validity | %s/3 |", s.OutputValidity),
			fmt.Sprintf("| Question Efficiency | %s/3 |", s.QuestionEfficiency),
			fmt.Sprintf("| **Total** | **%d/15** |", s.Total()),
			"",
			fmt.Sprintf("**Grade:** %s", s.Grade()),
			"",
		)
	}

	return strings.Join(lines, "\n")
}

// Write renders results and writes them to path.
func (w *MarkdownWriter) Write(r *SessionResults, path string) error {
	if err := os.WriteFile(path, []byte(w.Format(r)), 0o644); err != nil {
		return fmt.Errorf("write results markdown: %w", err)
	}
	return nil
}

// quote wraps s in double quotes without escaping its content.
func quote(s string) string { return `"` + s + `"` }
