package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/hupe1980/agentpair/results"
)

var showCmd = &cobra.Command{
	Use:   "show [RESULTS.md|dir]",
	Short: "Render a session report in the terminal",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "."
		if len(args) == 1 {
			path = args[0]
		}

		if info, err := os.Stat(path); err == nil && info.IsDir() {
			path = filepath.Join(path, results.MarkdownFile)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read report: %w", err)
		}

		if raw, _ := cmd.Flags().GetBool("raw"); raw {
			_, err := cmd.OutOrStdout().Write(data)
			return err
		}

		width, _ := cmd.Flags().GetInt("width")

		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return err
		}

		out, err := r.Render(string(data))
		if err != nil {
			return err
		}

		_, err = fmt.Fprint(cmd.OutOrStdout(), out)
		return err
	},
}

func init() {
	rootCmd.AddCommand(showCmd)

	showCmd.Flags().Bool("raw", false, "Print the markdown without rendering")
	showCmd.Flags().Int("width", 100, "Word wrap width")
}
