package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hupe1980/agentpair"
	"github.com/hupe1980/agentpair/logging"
	"github.com/hupe1980/agentpair/mcp"
	"github.com/hupe1980/agentpair/workspace"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the Runner tools over the Model Context Protocol (stdio)",
	Long: `Starts an MCP server on stdin/stdout exposing init_package, write_file,
read_file, run_lint and run_build. Logs go to stderr so they never corrupt the
JSON-RPC stream. Set AGENTPAIR_MCP_DEBUG=1 for debug logs.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if show, _ := cmd.Flags().GetBool("instructions"); show {
			fmt.Fprint(cmd.OutOrStdout(), mcp.InstallInstructions("agentpair"))
			return nil
		}

		outputFlag, _ := cmd.Flags().GetString("output")
		if outputFlag == "" {
			outputFlag = cfg.OutputDir
		}
		if outputFlag == "" {
			outputFlag = "."
		}

		outputDir, err := validatePackagePath(outputFlag)
		if err != nil {
			return err
		}

		l := logger
		if mcp.DebugEnabled() {
			l = logging.New(logging.Config{Level: logging.LogLevelDebug, Output: cmd.ErrOrStderr(), Component: "mcp"})
		}

		det, err := workspace.Detect(outputDir, cfg.Layout)
		if err != nil {
			return err
		}

		ws := workspace.New(outputDir, func(o *workspace.Options) { o.ExistingPackage = det.Package })

		srv, err := mcp.NewServer(ws, newToolchain(), func(o *mcp.Options) {
			o.Version = agentpair.Version
			o.Logger = l
		})
		if err != nil {
			return err
		}

		return srv.ServeStdio()
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().StringP("output", "o", "", "Directory packages are created in (default current directory)")
	mcpCmd.Flags().Bool("instructions", false, "Print the MCP client configuration and exit")
}
