package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"llmcheck/internal/config"
	"llmcheck/internal/mcpserver"
	"llmcheck/pkg/logging"

	"github.com/spf13/cobra"
)

func newMCPServerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp-server",
		Short: "Expose suite listing, validation and runs as MCP tools over stdio",
		Long: `Starts a Model Context Protocol server on stdin/stdout so that an AI
assistant can list, validate and run suites with the configuration of
this directory.

Tools:
  list_suites     Suite files in TESTS_DIR (or the given directory)
  validate_suite  Structure findings for one suite file
  run_suite       Run one suite file and return the JSON results

Logs are written to stderr; stdout carries the protocol only.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(envFile)
			if err != nil {
				return err
			}

			level, err := logging.ParseLevel(cfg.LogLevel)
			if err != nil {
				return err
			}
			logging.InitForCLI(level, os.Stderr)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return mcpserver.New(cfg, rootCmd.Version).Serve(ctx, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}
