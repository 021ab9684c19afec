package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hupe1980/agentpair"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of agentpair",
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "agentpair version %s\n", agentpair.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
