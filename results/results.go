// Package results documents a finished session. Every session produces a
// RESULTS.md summarizing what was created, the lint cycles with issues and
// actions, the questions asked, framework improvement suggestions and the
// final score. A machine readable results.json carries the same data plus
// the full conversation trace.
package results

import (
	"time"

	"github.com/hupe1980/agentpair/core"
	"github.com/hupe1980/agentpair/evaluation"
)

// File names written into the package directory.
const (
	MarkdownFile = "RESULTS.md"
	JSONFile     = "results.json"
)

// LintCycle documents a single failed lint run and the follow-up.
type LintCycle struct {
	Number       int      `json:"cycle_number"`
	IssuesFound  int      `json:"issues_found"`
	Issues       []string `json:"issues,omitempty"`
	ActionsTaken []string `json:"actions_taken,omitempty"`
}

// Question documents a clarification question and its answer.
type Question struct {
	RunnerQuestion    string `json:"runner_question"`
	DeveloperResponse string `json:"developer_response"`
}

// SessionResults is the complete documentation of a session.
type SessionResults struct {
	Prompt      string            `json:"prompt"`
	PackageName string            `json:"package_name"`
	Domain      string            `json:"domain"`
	Persona     string            `json:"persona,omitempty"`
	Summary     string            `json:"summary,omitempty"`
	LintCycles  []LintCycle       `json:"lint_cycles,omitempty"`
	Questions   []Question        `json:"questions,omitempty"`
	Suggestions []string          `json:"suggestions,omitempty"`
	Score       *evaluation.Score `json:"score,omitempty"`
	StartedAt   time.Time         `json:"started_at"`
	CompletedAt *time.Time        `json:"completed_at,omitempty"`
	Trace       []core.Message    `json:"trace,omitempty"`
}

// New creates results for prompt with StartedAt set to now.
func New(prompt, packageName, domain string) *SessionResults {
	return &SessionResults{
		Prompt:      prompt,
		PackageName: packageName,
		Domain:      domain,
		StartedAt:   time.Now(),
	}
}
