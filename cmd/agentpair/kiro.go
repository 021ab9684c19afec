package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hupe1980/agentpair/agent"
	"github.com/hupe1980/agentpair/kiro"
)

var kiroCmd = &cobra.Command{
	Use:   "kiro",
	Short: "Run design sessions through the Kiro CLI",
}

var kiroInstallCmd = &cobra.Command{
	Use:   "install",
	Short: "Write the Kiro agent and MCP configuration",
	RunE: func(cmd *cobra.Command, _ []string) error {
		kc, err := kiroConfig()
		if err != nil {
			return err
		}

		project, _ := cmd.Flags().GetString("project")

		paths, err := kiro.InstallConfigs(kc, project, "")
		if err != nil {
			return err
		}

		con := newConsole(cmd.OutOrStdout())
		con.printf("%s %s\n", con.green("Wrote"), paths.MCPConfig)
		con.printf("%s %s\n", con.green("Wrote"), paths.AgentConfig)

		return nil
	},
}

var kiroLaunchCmd = &cobra.Command{
	Use:   "launch <prompt>",
	Short: "Install the configuration and start a Kiro chat session",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !kiro.Installed() {
			return fmt.Errorf("%w; install it from https://kiro.dev", kiro.ErrNotInstalled)
		}

		kc, err := kiroConfig()
		if err != nil {
			return err
		}

		project, _ := cmd.Flags().GetString("project")
		nonInteractive, _ := cmd.Flags().GetBool("non-interactive")

		res, err := kiro.Launch(cmd.Context(), kc, strings.Join(args, " "), func(o *kiro.LaunchOptions) {
			o.ProjectDir = project
			o.NonInteractive = nonInteractive
			o.Stdin = os.Stdin
			o.Stdout = cmd.OutOrStdout()
			o.Stderr = cmd.ErrOrStderr()
		})
		if err != nil {
			return err
		}

		if res.ExitCode != 0 {
			return fmt.Errorf("kiro-cli exited with code %d", res.ExitCode)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(kiroCmd)
	kiroCmd.AddCommand(kiroInstallCmd, kiroLaunchCmd)

	kiroCmd.PersistentFlags().String("project", "", "Project directory (default current directory)")
	kiroLaunchCmd.Flags().Bool("non-interactive", false, "Run Kiro without prompting")
}

// kiroConfig fills an empty agent prompt with the Runner system prompt.
func kiroConfig() (kiro.Config, error) {
	kc := cfg.Kiro
	if kc.AgentPrompt != "" {
		return kc, nil
	}

	prompt, err := agent.NewInstructionFromTemplate(agent.RunnerSystemPrompt, agent.RunnerPromptData{Domain: cfg.Domain}).Resolve()
	if err != nil {
		return kiro.Config{}, err
	}

	kc.AgentPrompt = prompt

	return kc, nil
}
