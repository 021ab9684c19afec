package evaluation

import (
	"context"
	"strings"

	"github.com/hupe1980/agentpair/core"
)

// Invocation captures what a finished session observably produced.
type Invocation struct {
	PackageDir           string            // Empty when no validated package was produced
	Files                map[string]string // Generated file name -> content
	ExpectedResources    []string          // Resource names the prompt asked for
	LintRuns             []core.LintReport // Every lint run in order
	Build                *core.BuildReport // Last build; nil when no build ran
	QuestionsAsked       int
	AppropriateQuestions int
}

// Evaluator scores a session invocation.
type Evaluator interface {
	Evaluate(ctx context.Context, inv Invocation) (Score, error)
}

// OutcomeEvaluator derives Metrics from an Invocation and applies Calculate.
type OutcomeEvaluator struct{}

// NewOutcomeEvaluator creates the default rubric evaluator.
func NewOutcomeEvaluator() *OutcomeEvaluator { return &OutcomeEvaluator{} }

// Evaluate implements Evaluator.
func (e *OutcomeEvaluator) Evaluate(_ context.Context, inv Invocation) (Score, error) {
	return Calculate(e.Metrics(inv)), nil
}

// Metrics derives the rubric inputs from inv:
//
//   - a package counts as produced when PackageDir is set
//   - an expected resource is missing when no generated file mentions it
//   - lint cycles are the failed lint runs; lint passed is the last run's result
//   - pattern issues are the issues reported across all failed runs
//   - syntax is valid when the build succeeded, or lint passed if no build ran
//   - output is valid only when a build ran and succeeded
func (e *OutcomeEvaluator) Metrics(inv Invocation) Metrics {
	m := Metrics{
		ProducedPackage:      inv.PackageDir != "",
		TotalResources:       len(inv.ExpectedResources),
		QuestionsAsked:       inv.QuestionsAsked,
		AppropriateQuestions: inv.AppropriateQuestions,
	}

	for _, res := range inv.ExpectedResources {
		if !mentioned(inv.Files, res) {
			m.MissingResources++
		}
	}

	for _, run := range inv.LintRuns {
		if !run.Passed {
			m.LintCycles++
			m.PatternIssues += len(run.Issues)
		}
	}

	if n := len(inv.LintRuns); n > 0 {
		m.LintPassed = inv.LintRuns[n-1].Passed
	}

	if inv.Build != nil {
		m.SyntaxValid = inv.Build.OK
		m.OutputValid = inv.Build.OK
		m.ValidationWarnings = inv.Build.Warnings
	} else {
		m.SyntaxValid = m.LintPassed
	}

	return m
}

func mentioned(files map[string]string, resource string) bool {
	for _, content := range files {
		if strings.Contains(content, resource) {
			return true
		}
	}
	return false
}
