package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hupe1980/agentpair"
	"github.com/hupe1980/agentpair/orchestrator"
)

var designCmd = &cobra.Command{
	Use:   "design [prompt]",
	Short: "Design a package interactively with the Runner",
	Long: `Starts an interactive session in which you play the Developer. When the
output directory already holds a package, the Runner edits it instead of
creating a new one. Type quit, exit or q at any prompt to stop.`,
	RunE: runDesign,
}

func init() {
	rootCmd.AddCommand(designCmd)

	designCmd.Flags().StringP("output", "o", "", "Output directory (default current directory)")
	designCmd.Flags().Int("max-turns", orchestrator.InteractiveMaxTurns, "Turn budget")
}

func runDesign(cmd *cobra.Command, args []string) error {
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

	ap, err := agentpair.New(func(o *agentpair.Options) {
		o.RunnerModel = llm
		o.Toolchain = newToolchain()
		o.Layout = cfg.Layout
		o.Stream = true
		o.Observer = con.observer()
		o.Prompts = con.prompts()
		o.Logger = logger
	})
	if err != nil {
		return err
	}

	det, err := ap.Detect(outputDir)
	if err != nil {
		return err
	}

	if det.Found() {
		files := "(none)"
		if len(det.Files) > 0 {
			files = strings.Join(det.Files, ", ")
		}
		con.println(con.yellow("Found existing package: " + det.Package))
		con.println(con.dim("Files: " + files))
		con.println()
	}

	in := bufio.NewReader(cmd.InOrStdin())

	prompt := strings.TrimSpace(strings.Join(args, " "))
	if prompt == "" {
		if det.Found() {
			con.println(con.bold("What would you like to add or change?"))
		} else {
			con.println(con.bold("Describe what infrastructure you need:"))
		}
		con.printf("%s ", con.bold("Type something:"))

		line, err := in.ReadString('\n')
		if err != nil && err != io.EOF {
			return err
		}

		if prompt = strings.TrimSpace(line); prompt == "" {
			return fmt.Errorf("no prompt given")
		}
	}

	maxTurns, _ := cmd.Flags().GetInt("max-turns")

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	con.printf("\n%s ", con.bold("Runner:"))

	out, err := ap.Design(ctx, agentpair.DesignRequest{
		Prompt:    prompt,
		Domain:    cfg.Domain,
		OutputDir: outputDir,
		Existing:  &det,
		In:        in,
		Out:       cmd.OutOrStdout(),
		MaxTurns:  maxTurns,
	})
	if out == nil {
		return err
	}

	switch out.Reason {
	case orchestrator.ReasonUserQuit:
		con.printf("\n%s\n", con.yellow("Session ended by user."))
	default:
		con.printf("\n%s\n", con.yellow("Session ended."))
	}

	if out.PackagePath != "" {
		con.printf("%s %s\n", con.green("Package:"), out.PackagePath)
	}

	return err
}
