// Package orchestrator drives the bounded conversation between a Developer
// and a Runner. It enforces that every file write is followed by a lint run
// in the same turn, refuses completion claims until lint passes, decides when
// a session terminates and records the trace used for scoring.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hupe1980/agentpair/core"
	"github.com/hupe1980/agentpair/evaluation"
	"github.com/hupe1980/agentpair/internal/util"
	"github.com/hupe1980/agentpair/logging"
	"github.com/hupe1980/agentpair/results"
)

// ErrNilParticipant is returned by CreateSession when a participant is missing.
var ErrNilParticipant = errors.New("orchestrator: developer and runner are required")

// Reason explains why a session ended.
type Reason string

// Termination reasons.
const (
	ReasonCompleted     Reason = "completed"
	ReasonDeveloperDone Reason = "developer_done"
	ReasonTurnBudget    Reason = "turn_budget"
	ReasonLintBudget    Reason = "lint_budget"
	ReasonNoPackage     Reason = "no_package"
	ReasonUserQuit      Reason = "user_quit"
	ReasonCancelled     Reason = "cancelled"
)

// Nudges injected into the conversation when the Runner breaks the workflow.
const (
	NudgeWriteWithoutLint = "STOP: You wrote a file but did not call run_lint. " +
		"You MUST call run_lint immediately after writing code. " +
		"Call run_lint now before doing anything else."
	NudgeFixWithoutLint = "STOP: You mentioned fixing but did not run the linter first. " +
		"You MUST call run_lint to see actual errors before attempting fixes. " +
		"Call run_lint now."
	NudgeCompleteWithoutLint = "ERROR: You must call run_lint before saying you're done. " +
		"Please run the linter now."
	NudgeLintNotPassed = "ERROR: Lint did not pass. " +
		"Please fix the issues and run lint again."
	WarningNoPackage = "Warning: No package created after multiple turns"
)

// noPackageTurn is the last turn index tolerated without a package.
const noPackageTurn = 5

var fixPhrases = []string{"let me fix", "i'll fix", "fixing", "i need to fix", "let me correct"}

// Options configures an Orchestrator.
type Options struct {
	Logger    logging.Logger
	Evaluator evaluation.Evaluator
	Prompts   InteractivePrompts
	Now       func() time.Time
}

// Orchestrator coordinates Developer/Runner sessions.
type Orchestrator struct {
	logger    logging.Logger
	evaluator evaluation.Evaluator
	prompts   InteractivePrompts
	now       func() time.Time
}

// New creates an Orchestrator.
func New(optFns ...func(o *Options)) *Orchestrator {
	opts := Options{
		Evaluator: evaluation.NewOutcomeEvaluator(),
		Prompts:   DefaultInteractivePrompts(),
		Now:       time.Now,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &Orchestrator{
		logger:    logging.OrNoOp(opts.Logger),
		evaluator: opts.Evaluator,
		prompts:   opts.Prompts,
		now:       opts.Now,
	}
}

// CreateSession creates a session for domain with default budgets, then
// applies optFns to the configuration.
func (o *Orchestrator) CreateSession(domain string, developer core.Developer, runner core.Runner, optFns ...func(c *SessionConfig)) (*Session, error) {
	if developer == nil || runner == nil {
		return nil, ErrNilParticipant
	}

	cfg := DefaultSessionConfig(domain)
	for _, fn := range optFns {
		fn(&cfg)
	}

	if cfg.MaxTurns <= 0 {
		cfg.MaxTurns = DefaultMaxTurns
	}

	if cfg.MaxLintCycles <= 0 {
		cfg.MaxLintCycles = DefaultMaxLintCycles
	}

	return &Session{
		ID:        core.NewID(),
		Config:    cfg,
		Developer: developer,
		Runner:    runner,
		StartedAt: o.now(),
	}, nil
}

// tracker folds tool results into the session's lint and build state.
type tracker struct {
	lintCalled   bool
	lintPassed   bool
	pendingLint  bool
	failedCycles int
	lintRuns     []core.LintReport
	build        *core.BuildReport
	questions    []results.Question
	nudges       map[string]int
}

func newTracker() *tracker { return &tracker{nudges: map[string]int{}} }

type turnFacts struct {
	wroteFile bool
	ranLint   bool
	built     bool
	question  string
	asked     bool
}

// inFailedCycle reports whether the latest lint run failed.
func (t *tracker) inFailedCycle() bool {
	return len(t.lintRuns) > 0 && !t.lintRuns[len(t.lintRuns)-1].Passed
}

func (o *Orchestrator) observe(s *Session, tr *tracker, turn core.Turn) turnFacts {
	var facts turnFacts

	for _, res := range turn.Results {
		switch res.Name {
		case core.ToolRunLint:
			report, ok := res.LintReport()

			tr.lintCalled = true
			tr.pendingLint = false
			facts.ranLint = true

			if !ok && res.IsError {
				// Precondition failures (no package yet) are not lint cycles.
				tr.lintPassed = false
				s.AddMessage(core.RoleTool, "[lint FAIL] "+res.Content)
				continue
			}

			if !ok {
				lower := strings.ToLower(res.Content)
				report = core.LintReport{Passed: strings.Contains(lower, "passed") || strings.Contains(lower, "no issues")}
			}

			tr.lintPassed = report.Passed
			tr.lintRuns = append(tr.lintRuns, report)

			status := "PASS"
			if !report.Passed {
				status = "FAIL"
				tr.failedCycles++
				s.LintCycles = append(s.LintCycles, results.LintCycle{
					Number:      tr.failedCycles,
					IssuesFound: len(report.Issues),
					Issues:      report.Issues,
				})
			}

			s.AddMessage(core.RoleTool, fmt.Sprintf("[lint %s] %s", status, res.Content))

		case core.ToolRunBuild:
			report, ok := res.BuildReport()
			if !ok {
				report = core.BuildReport{OK: !res.IsError, Output: res.Content}
			}

			tr.build = &report
			facts.built = facts.built || report.OK

			status := "OK"
			if !report.OK {
				status = "FAIL"
			}

			s.AddMessage(core.RoleTool, fmt.Sprintf("[build %s] %s...", status, truncateRunes(res.Content, 200)))

		case core.ToolWriteFile:
			if res.IsError {
				continue
			}

			if w, ok := res.Value.(core.FileWrite); ok && tr.inFailedCycle() {
				c := &s.LintCycles[len(s.LintCycles)-1]
				c.ActionsTaken = append(c.ActionsTaken, "Rewrote "+w.Filename)
			}

			facts.wroteFile = true
			tr.pendingLint = true
			tr.lintPassed = false

		case core.ToolAskDeveloper:
			if facts.asked {
				continue
			}

			if q, ok := res.Question(); ok {
				facts.question, facts.asked = q.Text, true
			} else if rest, ok := strings.CutPrefix(res.Content, "QUESTION:"); ok {
				facts.question, facts.asked = strings.TrimSpace(rest), true
			}
		}
	}

	return facts
}

func (o *Orchestrator) nudge(s *Session, tr *tracker, msg string) string {
	tr.nudges[msg]++
	s.AddMessage(core.RoleSystem, msg)
	o.logger.Info("orchestrator.nudge", "session", s.ID, "nudge", firstWords(msg))
	return msg
}

// Run drives an autonomous session starting from the Developer's prompt.
//
// Each turn the Runner acts on the current message. A turn that wrote a file
// without linting, or that talks about fixing before lint output was seen, is
// answered with a STOP nudge. Questions go to the Developer, whose reply
// becomes the next message; a reply containing DONE ends the session. A
// completion claim is accepted only after lint ran on the latest files and
// passed. The session also ends when the turn or lint budget is exhausted or
// when no package exists after several turns.
func (o *Orchestrator) Run(ctx context.Context, s *Session, prompt string) (*Outcome, error) {
	if s == nil || s.Developer == nil || s.Runner == nil {
		return nil, ErrNilParticipant
	}

	cfg := s.Config
	tr := newTracker()
	out := &Outcome{Prompt: prompt, Reason: ReasonTurnBudget}

	o.logger.Info("orchestrator.session.start", "session", s.ID, "domain", cfg.Domain, "max_turns", cfg.MaxTurns)

	s.AddMessage(core.RoleDeveloper, prompt)
	current := prompt

turns:
	for turn := 0; turn < cfg.MaxTurns; turn++ {
		if ctx.Err() != nil {
			out.Reason = ReasonCancelled
			break
		}

		out.Turns = turn + 1
		o.logger.Debug("orchestrator.turn.start", "session", s.ID, "turn", out.Turns)

		result, err := s.Runner.RunTurn(ctx, current)
		if err != nil {
			if ctx.Err() != nil {
				out.Reason = ReasonCancelled
				break
			}
			return nil, fmt.Errorf("runner turn %d: %w", out.Turns, err)
		}

		facts := o.observe(s, tr, result)

		if tr.failedCycles > cfg.MaxLintCycles {
			s.AddMessage(core.RoleSystem, fmt.Sprintf("Lint budget exhausted: %d failed lint cycles (max %d)", tr.failedCycles, cfg.MaxLintCycles))
			out.Reason = ReasonLintBudget
			break
		}

		if facts.wroteFile && !facts.ranLint {
			current = o.nudge(s, tr, NudgeWriteWithoutLint)
			continue
		}

		if mentionsFix(result.Text) && (tr.pendingLint || !tr.lintCalled) {
			current = o.nudge(s, tr, NudgeFixWithoutLint)
			continue
		}

		if facts.asked {
			s.AddMessage(core.RoleRunner, facts.question)

			answer, err := s.Developer.Respond(ctx, facts.question)
			if err != nil {
				if ctx.Err() != nil {
					out.Reason = ReasonCancelled
					break
				}
				return nil, fmt.Errorf("developer respond: %w", err)
			}

			s.AddMessage(core.RoleDeveloper, answer)
			tr.questions = append(tr.questions, results.Question{RunnerQuestion: facts.question, DeveloperResponse: answer})

			if strings.Contains(strings.ToUpper(answer), "DONE") {
				out.Reason = ReasonDeveloperDone
				break
			}

			current = answer
		} else {
			if result.Text != "" {
				s.AddMessage(core.RoleRunner, result.Text)
			}

			if claimsCompletion(result.Text) {
				switch {
				case !tr.lintCalled || tr.pendingLint:
					current = o.nudge(s, tr, NudgeCompleteWithoutLint)
					continue turns
				case !tr.lintPassed:
					current = o.nudge(s, tr, NudgeLintNotPassed)
					continue turns
				}

				out.Reason = ReasonCompleted
				break
			}

			current = ""
		}

		if turn > noPackageTurn && s.Runner.PackageName() == "" {
			s.AddMessage(core.RoleSystem, WarningNoPackage)
			out.Reason = ReasonNoPackage
			break
		}
	}

	if s.Runner.PackageName() != "" {
		if tr.lintCalled && tr.lintPassed {
			out.PackagePath = s.Runner.PackageDir()
		} else {
			s.AddMessage(core.RoleSystem, fmt.Sprintf(
				"FAILED: Package created but lint was not run or did not pass. lint_called=%t, lint_passed=%t",
				tr.lintCalled, tr.lintPassed,
			))
		}
	}

	if err := o.finish(ctx, s, tr, out); err != nil {
		return nil, err
	}

	if out.Reason == ReasonCancelled {
		return out, ctx.Err()
	}

	return out, nil
}

// finish fills the outcome from session state and scores it.
func (o *Orchestrator) finish(ctx context.Context, s *Session, tr *tracker, out *Outcome) error {
	out.SessionID = s.ID
	out.Domain = s.Config.Domain
	out.Persona = s.Config.Persona
	out.PackageName = s.Runner.PackageName()
	out.LintCalled = tr.lintCalled
	out.LintPassed = tr.lintPassed
	out.LintRuns = tr.lintRuns
	out.Build = tr.build
	out.LintCycles = append([]results.LintCycle(nil), s.LintCycles...)
	out.Questions = tr.questions
	out.Suggestions = suggestions(tr, out, s.Config)
	out.Trace = s.Trace()
	out.StartedAt = s.StartedAt
	out.CompletedAt = o.now()

	if fs, ok := s.Runner.(fileSource); ok {
		files, err := fs.Files()
		if err != nil {
			o.logger.Warn("orchestrator.files.error", "session", s.ID, "error", err.Error())
		}
		out.Files = files
	}

	s.Complete = out.Reason == ReasonCompleted || out.Reason == ReasonDeveloperDone

	if o.evaluator != nil {
		score, err := o.evaluator.Evaluate(context.WithoutCancel(ctx), out.Invocation(s.Config))
		if err != nil {
			return fmt.Errorf("evaluate session: %w", err)
		}
		s.Score = &score
		out.Score = &score
	}

	attrs := []any{"session", s.ID, "reason", string(out.Reason), "turns", out.Turns, "package", out.PackagePath}
	if out.Score != nil {
		attrs = append(attrs, "score", out.Score.Total(), "grade", out.Score.Grade())
	}
	o.logger.Info("orchestrator.session.end", attrs...)

	return nil
}

type fileSource interface {
	Files() (map[string]string, error)
}

func suggestions(tr *tracker, out *Outcome, cfg SessionConfig) []string {
	var s []string

	if n := tr.nudges[NudgeWriteWithoutLint]; n > 0 {
		s = append(s, fmt.Sprintf("Runner wrote files without linting in the same turn (%d times); make run_lint after write_file more prominent in the Runner prompt", n))
	}

	if n := tr.nudges[NudgeFixWithoutLint]; n > 0 {
		s = append(s, fmt.Sprintf("Runner attempted fixes before reading lint output (%d times)", n))
	}

	if n := tr.nudges[NudgeCompleteWithoutLint] + tr.nudges[NudgeLintNotPassed]; n > 0 {
		s = append(s, fmt.Sprintf("Runner claimed completion before lint passed (%d times)", n))
	}

	if tr.failedCycles > cfg.MaxLintCycles {
		s = append(s, fmt.Sprintf("Lint failed %d times; lint messages may need clearer fix instructions", tr.failedCycles))
	}

	if out.Reason == ReasonNoPackage {
		s = append(s, "Runner never initialized a package; make init_package the mandatory first step")
	}

	if b := tr.build; b != nil && b.OK && b.Warnings > 0 {
		s = append(s, fmt.Sprintf("Build produced %d warnings that lint did not catch", b.Warnings))
	}

	return s
}

func mentionsFix(text string) bool {
	if text == "" {
		return false
	}
	lower := strings.ToLower(text)
	for _, kw := range fixPhrases {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func claimsCompletion(text string) bool {
	lower := strings.ToLower(text)
	return strings.Contains(lower, "completed") || strings.Contains(lower, "done")
}

// truncateRunes cuts s to at most n runes.
func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func firstWords(s string) string {
	return util.Truncate(s, 40)
}
