package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/hupe1980/agentpair/core"
	"github.com/hupe1980/agentpair/results"
)

// InteractiveMaxTurns is the turn budget used by the CLI for interactive sessions.
const InteractiveMaxTurns = 20

// InteractivePrompts are the messages shown to a human Developer.
type InteractivePrompts struct {
	// Question is a format string receiving the Runner's question.
	Question  string
	WhatsNext string
	FreeText  string
}

// DefaultInteractivePrompts returns the prompts used by the design command.
func DefaultInteractivePrompts() InteractivePrompts {
	return InteractivePrompts{
		Question:  "Runner asks: %s\n\nType something: ",
		WhatsNext: "What's next?  ( type done to exit ): ",
		FreeText:  "Type something: ",
	}
}

var (
	quitWords = map[string]bool{"quit": true, "exit": true, "q": true}
	doneWords = map[string]bool{"quit": true, "exit": true, "q": true, "done": true, "": true}
)

// ContextPrefix describes an existing package to the Runner.
func ContextPrefix(pkg string, files []string) string {
	if pkg == "" {
		return ""
	}

	list := "none"
	if len(files) > 0 {
		list = strings.Join(files, ", ")
	}

	return fmt.Sprintf("[EXISTING PACKAGE: %s]\n[FILES: %s]\n\n", pkg, list)
}

// RunInteractive drives a session in which a human plays the Developer.
//
// The Runner's questions are answered by the human; a successful build asks
// what to do next. Quit words end the session at any prompt, and done or an
// empty reply also ends it at the what's-next and free-text prompts. No lint
// budget applies. The package path is reported only after a successful build.
func (o *Orchestrator) RunInteractive(ctx context.Context, s *Session, prompt string) (*Outcome, error) {
	if s == nil || s.Developer == nil || s.Runner == nil {
		return nil, ErrNilParticipant
	}

	cfg := s.Config
	tr := newTracker()
	out := &Outcome{Prompt: prompt, Reason: ReasonTurnBudget}

	o.logger.Info("orchestrator.interactive.start", "session", s.ID, "domain", cfg.Domain, "existing", cfg.ExistingPackage)

	s.AddMessage(core.RoleDeveloper, prompt)
	current := ContextPrefix(cfg.ExistingPackage, cfg.ExistingFiles) + prompt

loop:
	for turn := 0; turn < cfg.MaxTurns; turn++ {
		if ctx.Err() != nil {
			out.Reason = ReasonCancelled
			break
		}

		out.Turns = turn + 1

		result, err := s.Runner.RunTurn(ctx, current)
		if err != nil {
			if ctx.Err() != nil {
				out.Reason = ReasonCancelled
				break
			}
			return nil, fmt.Errorf("runner turn %d: %w", out.Turns, err)
		}

		facts := o.observe(s, tr, result)

		if result.Text != "" {
			s.AddMessage(core.RoleRunner, result.Text)
		}

		switch {
		case facts.asked:
			answer, quit, err := o.ask(ctx, s, fmt.Sprintf(o.prompts.Question, facts.question), quitWords)
			if err != nil {
				return nil, err
			}
			if quit {
				out.Reason = ReasonUserQuit
				break loop
			}

			tr.questions = append(tr.questions, results.Question{RunnerQuestion: facts.question, DeveloperResponse: answer})
			current = answer

		case facts.built:
			answer, quit, err := o.ask(ctx, s, o.prompts.WhatsNext, doneWords)
			if err != nil {
				return nil, err
			}
			if quit {
				out.Reason = ReasonCompleted
				break loop
			}

			current = answer

		case len(result.Results) > 0:
			current = ""

		default:
			answer, quit, err := o.ask(ctx, s, o.prompts.FreeText, doneWords)
			if err != nil {
				return nil, err
			}
			if quit {
				out.Reason = ReasonUserQuit
				break loop
			}

			current = answer
		}
	}

	if ctx.Err() != nil {
		out.Reason = ReasonCancelled
	}

	if tr.build != nil && tr.build.OK {
		out.PackagePath = s.Runner.PackageDir()
	}

	if err := o.finish(ctx, s, tr, out); err != nil {
		return nil, err
	}

	if out.Reason == ReasonCancelled {
		return out, ctx.Err()
	}

	return out, nil
}

// ask shows prompt to the Developer. End of input counts as a quit.
func (o *Orchestrator) ask(ctx context.Context, s *Session, prompt string, quit map[string]bool) (string, bool, error) {
	answer, err := s.Developer.Respond(ctx, prompt)
	if err != nil {
		if errors.Is(err, io.EOF) || ctx.Err() != nil {
			return "", true, nil
		}
		return "", false, fmt.Errorf("developer respond: %w", err)
	}

	answer = strings.TrimSpace(answer)
	if quit[strings.ToLower(answer)] {
		return answer, true, nil
	}

	s.AddMessage(core.RoleDeveloper, answer)

	return answer, false, nil
}
