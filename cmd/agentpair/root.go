package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hupe1980/agentpair/config"
	"github.com/hupe1980/agentpair/logging"
)

var (
	cfg    *config.Config
	logger logging.Logger = logging.NoOpLogger{}
)

var rootCmd = &cobra.Command{
	Use:   "agentpair",
	Short: "Pair a Developer agent with a Runner agent to generate infrastructure code",
	Long: `agentpair coordinates a Developer (an AI persona or you) with a Runner that
writes, lints and builds an infrastructure package, then scores the session.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Config file (default ~/.config/agentpair/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn or error")
	rootCmd.PersistentFlags().String("provider", "", "Model provider: anthropic or openai")
	rootCmd.PersistentFlags().String("model", "", "Model name (provider default when empty)")
}

func setup(cmd *cobra.Command, _ []string) error {
	path, _ := cmd.Flags().GetString("config")

	loaded, err := config.Load(path)
	if err != nil {
		return err
	}

	if v, _ := cmd.Flags().GetString("provider"); v != "" {
		loaded.Provider = strings.ToLower(v)
	}

	if v, _ := cmd.Flags().GetString("model"); v != "" {
		loaded.Model = v
	}

	if v, _ := cmd.Flags().GetString("log-level"); v != "" {
		loaded.Log.Level = v
	}

	level, err := logging.ParseLevel(loaded.Log.Level)
	if err != nil {
		return err
	}

	cfg = loaded
	logger = logging.New(logging.Config{
		Level:     level,
		Format:    loaded.Log.Format,
		Backend:   loaded.Log.Backend,
		Output:    cmd.ErrOrStderr(),
		Component: "agentpair",
	})

	return nil
}
