package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"llmcheck/internal/app"
	"llmcheck/internal/config"
	"llmcheck/internal/metrics"
	"llmcheck/internal/report"
	"llmcheck/pkg/logging"

	"github.com/spf13/cobra"
)

// errTestsFailed makes the process exit non-zero when a run is not clean.
var errTestsFailed = errors.New("not every test passed")

type runOptions struct {
	parallel    int
	verbose     bool
	html        bool
	testsDir    string
	reportsDir  string
	metricsFile string
	logLevel    string
}

func newRunCmd() *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run [suite files...]",
		Short: "Run test suites against the configured endpoint",
		Long: `Run executes the given suite files, or every *.json, *.yaml and *.yml
file in TESTS_DIR (files starting with "_" are skipped) when none are given.

Each case input is substituted into the request template, sent to API_URL
with retries, and the answer in choices[0].message.content is compared with
the expected output of the case, ignoring object key order.

The command exits with a non-zero status when any case does not pass or
any suite file cannot be loaded.

Example usage:
  llmcheck run                          # Run every suite in TESTS_DIR
  llmcheck run tests/intents.json       # Run a single suite
  llmcheck run --parallel=4 --html      # Four concurrent requests, HTML report
  llmcheck run --metrics-file=run.prom  # Also write Prometheus metrics`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSuites(cmd, opts, args)
		},
	}

	flags := cmd.Flags()
	flags.IntVar(&opts.parallel, "parallel", 1, "Cases to run concurrently (overrides PARALLEL_TESTS)")
	flags.BoolVar(&opts.verbose, "verbose", false, "Print raw responses (overrides VERBOSE_MODE)")
	flags.BoolVar(&opts.html, "html", false, "Write the HTML report (overrides GENERATE_HTML_REPORT)")
	flags.StringVar(&opts.testsDir, "tests-dir", "", "Directory scanned for suite files (overrides TESTS_DIR)")
	flags.StringVar(&opts.reportsDir, "reports-dir", "", "Directory receiving the reports (overrides REPORTS_DIR)")
	flags.StringVar(&opts.metricsFile, "metrics-file", "", "Write Prometheus metrics to this file (overrides METRICS_FILE)")
	flags.StringVar(&opts.logLevel, "log-level", "", "info, debug or error (overrides LOG_LEVEL)")

	return cmd
}

// loadRunConfig loads the layered configuration and applies explicitly set
// flags on top of it.
func loadRunConfig(cmd *cobra.Command, opts *runOptions) (config.Config, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return config.Config{}, err
	}

	flags := cmd.Flags()
	if flags.Changed("parallel") {
		if opts.parallel < 1 {
			return config.Config{}, fmt.Errorf("--parallel must be at least 1, got %d", opts.parallel)
		}
		cfg.Parallelism = opts.parallel
	}
	if flags.Changed("verbose") {
		cfg.Verbose = opts.verbose
	}
	if flags.Changed("html") {
		cfg.GenerateHTMLReport = opts.html
	}
	if flags.Changed("tests-dir") {
		cfg.TestsDir = opts.testsDir
	}
	if flags.Changed("reports-dir") {
		cfg.ReportsDir = opts.reportsDir
	}
	if flags.Changed("metrics-file") {
		cfg.MetricsFile = opts.metricsFile
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = strings.ToLower(opts.logLevel)
	}
	return cfg, config.Validate(cfg)
}

func runSuites(cmd *cobra.Command, opts *runOptions, args []string) error {
	cfg, err := loadRunConfig(cmd, opts)
	if err != nil {
		return err
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logging.InitForCLI(level, cmd.ErrOrStderr())

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	console := report.NewConsoleReporter(cmd.OutOrStdout(), report.ConsoleOptions{
		Verbose:   cfg.Verbose,
		Debug:     cfg.Debug(),
		LogTokens: cfg.LogTokens,
		Quiet:     cfg.LogLevel == config.LogLevelError,
	})

	var recorder *metrics.Recorder
	if cfg.MetricsFile != "" {
		recorder = metrics.NewRecorder()
	}

	application, err := app.NewApplication(cfg, app.Options{
		Reporter:  console,
		Metrics:   recorder,
		UserAgent: userAgent(),
	})
	if err != nil {
		return err
	}

	files, err := app.ResolveSuiteFiles(cfg, args)
	if err != nil {
		return err
	}
	logging.Info("CLI", "Running %d suite file(s) against %s", len(files), cfg.APIURL)
	logging.Debug("CLI", "Configuration: %+v", cfg.Redacted())

	outcome := application.Run(ctx, files)
	console.PrintSummary(outcome.Summary, outcome.LoadErrors)

	saved, err := application.Persist(outcome)
	for _, s := range saved {
		console.PrintSaved(s.Kind, s.Path)
	}
	if err != nil {
		return err
	}

	if ctx.Err() != nil {
		return fmt.Errorf("run interrupted: %w", ctx.Err())
	}
	if !outcome.Success() {
		return fmt.Errorf("%w: %d failed, %d errors, %d skipped, %d suite(s) not loaded",
			errTestsFailed, outcome.Summary.Failed, outcome.Summary.Errored, outcome.Summary.Skipped, len(outcome.LoadErrors))
	}
	return nil
}

func userAgent() string {
	if rootCmd.Version == "" {
		return "llmcheck"
	}
	return "llmcheck/" + rootCmd.Version
}
