package orchestrator

import (
	"fmt"
	"strings"
	"time"

	"github.com/hupe1980/agentpair/core"
	"github.com/hupe1980/agentpair/evaluation"
	"github.com/hupe1980/agentpair/results"
)

// Outcome summarizes a finished session.
type Outcome struct {
	SessionID   string
	Prompt      string
	Domain      string
	Persona     string
	PackageName string
	// PackagePath is set only when the package passed validation.
	PackagePath string
	Reason      Reason
	Turns       int
	LintCalled  bool
	LintPassed  bool
	LintRuns    []core.LintReport
	Build       *core.BuildReport
	LintCycles  []results.LintCycle
	Questions   []results.Question
	Suggestions []string
	Trace       []core.Message
	Files       map[string]string
	Score       *evaluation.Score
	StartedAt   time.Time
	CompletedAt time.Time
}

// Succeeded reports whether a validated package was produced.
func (o *Outcome) Succeeded() bool { return o.PackagePath != "" }

// Invocation converts the outcome into evaluator input.
func (o *Outcome) Invocation(cfg SessionConfig) evaluation.Invocation {
	return evaluation.Invocation{
		PackageDir:           o.PackagePath,
		Files:                o.Files,
		ExpectedResources:    cfg.ExpectedResources,
		LintRuns:             o.LintRuns,
		Build:                o.Build,
		QuestionsAsked:       len(o.Questions),
		AppropriateQuestions: cfg.AppropriateQuestions,
	}
}

// Results builds the report document for the outcome.
func (o *Outcome) Results() *results.SessionResults {
	r := results.New(o.Prompt, o.PackageName, o.Domain)
	r.Persona = o.Persona
	r.Summary = o.summary()
	r.LintCycles = o.LintCycles
	r.Questions = o.Questions
	r.Suggestions = o.Suggestions
	r.Score = o.Score
	r.Trace = o.Trace

	if !o.StartedAt.IsZero() {
		r.StartedAt = o.StartedAt
	}

	if !o.CompletedAt.IsZero() {
		completed := o.CompletedAt
		r.CompletedAt = &completed
	}

	return r
}

func (o *Outcome) summary() string {
	var b strings.Builder

	if o.Succeeded() {
		fmt.Fprintf(&b, "Generated package `%s` in %d turns.", o.PackageName, o.Turns)
	} else if o.PackageName != "" {
		fmt.Fprintf(&b, "Package `%s` was created but did not pass validation after %d turns.", o.PackageName, o.Turns)
	} else {
		fmt.Fprintf(&b, "No package was generated after %d turns.", o.Turns)
	}

	fmt.Fprintf(&b, " Session ended: %s.", o.Reason)

	if n := len(o.LintCycles); n > 0 {
		fmt.Fprintf(&b, " Lint failed %d time(s).", n)
	}

	if n := len(o.Questions); n > 0 {
		fmt.Fprintf(&b, " The Runner asked %d question(s).", n)
	}

	return b.String()
}
