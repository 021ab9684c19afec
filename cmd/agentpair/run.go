package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hupe1980/agentpair"
	"github.com/hupe1980/agentpair/config"
	"github.com/hupe1980/agentpair/evaluation"
	"github.com/hupe1980/agentpair/persona"
)

var errBelowThreshold = errors.New("score below pass threshold")

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run an autonomous session with an AI Developer persona",
	Long: `Runs an AI Developer persona against the Runner. The prompt comes from
--prompt or a scenario file. RESULTS.md and results.json are written to the
output directory. The command fails when the score is below the pass threshold.`,
	RunE: runScenario,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringP("prompt", "p", "", "Initial Developer prompt")
	runCmd.Flags().StringP("scenario", "s", "", "Scenario YAML file")
	runCmd.Flags().String("persona", "", "Built-in persona name")
	runCmd.Flags().String("persona-file", "", "Persona markdown file with YAML frontmatter")
	runCmd.Flags().StringP("output", "o", "", "Output directory (default current directory)")
	runCmd.Flags().Int("max-turns", 0, "Turn budget")
	runCmd.Flags().Int("max-lint-cycles", 0, "Failed lint cycles before giving up")
	runCmd.Flags().StringSlice("expected", nil, "Resources the package is expected to define")
	runCmd.Flags().Bool("stream", false, "Stream Runner output")
	runCmd.Flags().BoolP("quiet", "q", false, "Only print the summary")
}

func runScenario(cmd *cobra.Command, _ []string) error {
	sc := &config.Scenario{}
	if path, _ := cmd.Flags().GetString("scenario"); path != "" {
		loaded, err := config.LoadScenario(path)
		if err != nil {
			return err
		}
		sc = loaded
	}

	if v, _ := cmd.Flags().GetString("prompt"); v != "" {
		sc.Prompt = v
	}

	if sc.Prompt == "" {
		return errors.New("a prompt is required (--prompt or --scenario)")
	}

	if v, _ := cmd.Flags().GetStringSlice("expected"); len(v) > 0 {
		sc.ExpectedResources = v
	}

	p, err := resolvePersona(cmd, sc)
	if err != nil {
		return err
	}

	outputFlag, _ := cmd.Flags().GetString("output")
	if outputFlag == "" {
		outputFlag = cfg.OutputDir
	}

	outputDir, err := resolveOutputDir(outputFlag)
	if err != nil {
		return err
	}

	llm, err := newModel()
	if err != nil {
		return err
	}

	con := newConsole(cmd.OutOrStdout())
	stream, _ := cmd.Flags().GetBool("stream")
	quiet, _ := cmd.Flags().GetBool("quiet")

	ap, err := agentpair.New(func(o *agentpair.Options) {
		o.RunnerModel = llm
		o.Toolchain = newToolchain()
		o.Layout = cfg.Layout
		o.Stream = stream || cfg.Stream
		o.Logger = logger
		if !quiet {
			o.Observer = con.observer()
		}
	})
	if err != nil {
		return err
	}

	maxTurns, _ := cmd.Flags().GetInt("max-turns")
	if maxTurns == 0 {
		maxTurns = cfg.MaxTurns
	}

	maxLint, _ := cmd.Flags().GetInt("max-lint-cycles")
	if maxLint == 0 {
		maxLint = cfg.MaxLintCycles
	}

	domain := sc.Domain
	if domain == "" {
		domain = cfg.Domain
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !quiet {
		con.printf("%s %s (persona: %s)\n", con.bold("Developer:"), sc.Prompt, p.Name)
	}

	out, err := ap.RunScenario(ctx, agentpair.Scenario{
		Prompt:               sc.Prompt,
		Domain:               domain,
		Persona:              p,
		OutputDir:            outputDir,
		MaxTurns:             maxTurns,
		MaxLintCycles:        maxLint,
		ExpectedResources:    sc.ExpectedResources,
		AppropriateQuestions: sc.AppropriateQuestions,
	})
	if out == nil {
		return err
	}

	path, werr := writeResults(outputDir, out.Results())
	if werr != nil {
		return werr
	}

	con.summary(out)
	con.printf("%s %s\n", con.dim("Results:"), path)

	if err != nil {
		return err
	}

	if out.Score != nil && !out.Score.Passed() {
		return fmt.Errorf("%w: %d/%d (need %d)", errBelowThreshold, out.Score.Total(), evaluation.MaxTotal, evaluation.PassThreshold)
	}

	return nil
}

func resolvePersona(cmd *cobra.Command, sc *config.Scenario) (persona.Persona, error) {
	if path, _ := cmd.Flags().GetString("persona-file"); path != "" {
		return persona.LoadFile(path)
	}

	name, _ := cmd.Flags().GetString("persona")
	if name == "" {
		name = sc.Persona
	}

	if name == "" {
		name = cfg.Persona
	}

	return persona.Load(name)
}
