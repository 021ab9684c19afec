package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/hupe1980/agentpair/persona"
)

var personasCmd = &cobra.Command{
	Use:   "personas [name]",
	Short: "List Developer personas or show one in full",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		w := cmd.OutOrStdout()

		if len(args) == 1 {
			p, err := persona.Load(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "%s: %s\nTraits: %s\n\n%s\n", p.Name, p.Description, strings.Join(p.Traits, ", "), p.SystemPrompt)
			return nil
		}

		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		for _, p := range persona.All() {
			marker := ""
			if p.Name == persona.Default {
				marker = " (default)"
			}
			fmt.Fprintf(tw, "%s%s\t%s\n", p.Name, marker, p.Description)
		}
		return tw.Flush()
	},
}

func init() {
	rootCmd.AddCommand(personasCmd)
}
