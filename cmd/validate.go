package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"llmcheck/internal/app"
	"llmcheck/internal/config"
	"llmcheck/internal/suite"

	"github.com/spf13/cobra"
)

func newValidateCmd() *cobra.Command {
	var (
		testsDir   string
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "validate [suite files...]",
		Short: "Check the structure of suite files without running them",
		Long: `Validate checks that suite files have the expected shape: a "tests"
array whose cases carry "entrada" and "saida", a well-formed optional
"metadata" and "config" block, and no duplicated case ids.

Without arguments every suite file in TESTS_DIR is checked. No endpoint
or credential is needed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			files := args
			if len(files) == 0 {
				dir, err := validationDir(cmd, testsDir)
				if err != nil {
					return err
				}
				files, err = suite.Discover(dir)
				if err != nil {
					return err
				}
				if len(files) == 0 {
					return fmt.Errorf("%w in %s", app.ErrNoSuites, dir)
				}
			}

			results := make([]suite.ValidationResult, 0, len(files))
			invalid := 0
			for _, file := range files {
				result := suite.ValidateFile(file)
				if !result.Valid() {
					invalid++
				}
				results = append(results, result)
			}

			out := cmd.OutOrStdout()
			if jsonOutput {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(results); err != nil {
					return err
				}
			} else {
				printValidation(out, results)
			}

			if invalid > 0 {
				return fmt.Errorf("%d of %d suite file(s) are invalid", invalid, len(files))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&testsDir, "tests-dir", "", "Directory scanned for suite files (overrides TESTS_DIR)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the findings as JSON")

	return cmd
}

// validationDir resolves TESTS_DIR without requiring the run credentials.
func validationDir(cmd *cobra.Command, flagValue string) (string, error) {
	if cmd.Flags().Changed("tests-dir") {
		return flagValue, nil
	}
	values, err := config.LoadValues(envFile)
	if err != nil {
		return "", err
	}
	return values[config.KeyTestsDir], nil
}

func printValidation(out io.Writer, results []suite.ValidationResult) {
	for _, r := range results {
		if r.Valid() {
			fmt.Fprintf(out, "✅ %s: valid\n", r.File)
		} else {
			fmt.Fprintf(out, "❌ %s: invalid\n", r.File)
		}
		for _, e := range r.Errors {
			fmt.Fprintf(out, "   • %s\n", e)
		}
		for _, w := range r.Warnings {
			fmt.Fprintf(out, "   ⚠️  %s\n", w)
		}
	}
}
