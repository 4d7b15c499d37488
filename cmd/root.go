package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// envFile is the dotenv file every command reads its configuration from.
var envFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "llmcheck",
	Short: "Run declarative test suites against an LLM completion endpoint",
	Long: `llmcheck sends every case of a test suite to a chat-completion style
endpoint, using a JSON request template and a prompt file, and compares
the structured answer of the model with the expected output of the case.

Configuration is read from a .env file and the process environment
(API_URL, BEARER_TOKEN, TIMEOUT, RETRY_ATTEMPTS, PARALLEL_TESTS, ...).
Results are printed as they arrive and saved as JSON and HTML reports.`,
	// SilenceUsage is set to true to prevent printing usage message on errors
	// handled by us (e.g. failed tests, unreachable endpoint)
	SilenceUsage: true,
}

// SetVersion sets the version for the root command
func SetVersion(v string) {
	rootCmd.Version = v
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "llmcheck version %s\n" .Version}}`)

	err := rootCmd.Execute()
	if err != nil {
		// Cobra prints the error, we just exit non-zero
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Path to the dotenv file with the configuration")

	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newValidateCmd())
	rootCmd.AddCommand(newMCPServerCmd())
	rootCmd.AddCommand(newVersionCmd())
}
