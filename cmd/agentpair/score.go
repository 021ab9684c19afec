package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/hupe1980/agentpair/evaluation"
	"github.com/hupe1980/agentpair/results"
)

var scoreCmd = &cobra.Command{
	Use:   "score <results.json>",
	Short: "Recompute and print the score of a saved session",
	Long: `Reloads results.json, recomputes the total, grade and pass state from the
stored ratings and prints the rubric. With --write, RESULTS.md next to the file
is regenerated. Fails when the score is below the pass threshold.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := results.ReadJSON(args[0])
		if err != nil {
			return err
		}

		if res.Score == nil {
			return fmt.Errorf("%s has no score", args[0])
		}

		con := newConsole(cmd.OutOrStdout())
		s := res.Score

		rows := []struct {
			name   string
			rating evaluation.Rating
		}{
			{"Completeness", s.Completeness},
			{"Lint Quality", s.LintQuality},
			{"Code Quality", s.CodeQuality},
			{"Output Validity", s.OutputValidity},
			{"Question Efficiency", s.QuestionEfficiency},
		}

		for _, r := range rows {
			con.printf("%-20s %s/3\n", r.name, r.rating)
		}
		con.printf("%-20s %d/%d %s\n", con.bold("Total"), s.Total(), evaluation.MaxTotal, s.Grade())

		if write, _ := cmd.Flags().GetBool("write"); write {
			md := filepath.Join(filepath.Dir(args[0]), results.MarkdownFile)
			if err := results.NewMarkdownWriter().Write(res, md); err != nil {
				return err
			}
			con.printf("%s %s\n", con.dim("Wrote"), md)
		}

		if !s.Passed() {
			return fmt.Errorf("%w: %d/%d (need %d)", errBelowThreshold, s.Total(), evaluation.MaxTotal, evaluation.PassThreshold)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(scoreCmd)

	scoreCmd.Flags().Bool("write", false, "Regenerate RESULTS.md")
}
