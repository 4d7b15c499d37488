// Package app wires the configuration, suite loading, execution and report
// persistence into the pipeline shared by the CLI and the MCP server.
package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"llmcheck/internal/client"
	"llmcheck/internal/config"
	"llmcheck/internal/metrics"
	"llmcheck/internal/report"
	"llmcheck/internal/runner"
	"llmcheck/internal/suite"
	"llmcheck/internal/template"
	"llmcheck/pkg/logging"
)

const subsystem = "App"

// ErrNoSuites is returned when there is nothing to run.
var ErrNoSuites = errors.New("no suite files found")

// Options carries the optional collaborators of an Application.
type Options struct {
	// Reporter receives live progress, typically the console reporter
	Reporter runner.Reporter
	// Metrics, when set, records results and request attempts
	Metrics *metrics.Recorder
	// UserAgent is sent with every request
	UserAgent string
}

// Application runs suites with one configuration, template and prompt.
type Application struct {
	cfg      config.Config
	template json.RawMessage
	prompt   string
	opts     Options
}

// NewApplication loads the request template and prompt named by cfg.
func NewApplication(cfg config.Config, opts Options) (*Application, error) {
	tpl, err := template.LoadTemplate(cfg.TemplateFile)
	if err != nil {
		logging.Error(subsystem, err, "Failed to load request template")
		return nil, err
	}
	prompt, err := template.LoadPrompt(cfg.PromptFile)
	if err != nil {
		logging.Error(subsystem, err, "Failed to load prompt")
		return nil, err
	}
	logging.Debug(subsystem, "Loaded template %s and prompt %s (%d chars)", cfg.TemplateFile, cfg.PromptFile, len(prompt))

	return &Application{
		cfg:      cfg,
		template: tpl,
		prompt:   prompt,
		opts:     opts,
	}, nil
}

// Config returns the configuration the application runs with.
func (a *Application) Config() config.Config {
	return a.cfg
}

// ResolveSuiteFiles returns files when given, otherwise every suite file
// discovered in the configured tests directory.
func ResolveSuiteFiles(cfg config.Config, files []string) ([]string, error) {
	if len(files) > 0 {
		return files, nil
	}
	found, err := suite.Discover(cfg.TestsDir)
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoSuites, cfg.TestsDir)
	}
	return found, nil
}

// Outcome is the result of running a set of suite files.
type Outcome struct {
	Reports    []*runner.SuiteRunReport
	LoadErrors []report.LoadError
	Summary    report.Summary
}

// Success reports whether every suite loaded and every case passed.
func (o *Outcome) Success() bool {
	return len(o.LoadErrors) == 0 && o.Summary.AllPassed()
}

// Run loads and runs each file in order. A file that fails to load is
// recorded and the remaining files still run.
func (a *Application) Run(ctx context.Context, files []string) *Outcome {
	out := &Outcome{
		Reports:    []*runner.SuiteRunReport{},
		LoadErrors: []report.LoadError{},
	}

	for _, file := range files {
		s, err := suite.LoadFile(file)
		if err != nil {
			logging.Error(subsystem, err, "Failed to load suite %s", file)
			out.LoadErrors = append(out.LoadErrors, report.LoadError{File: file, Error: err.Error()})
			continue
		}
		out.Reports = append(out.Reports, a.RunSuite(ctx, s))
	}

	out.Summary = report.Summarize(out.Reports)
	return out
}

// RunSuite runs one loaded suite with its per-suite overrides applied.
func (a *Application) RunSuite(ctx context.Context, s *suite.TestSuite) *runner.SuiteRunReport {
	suiteCfg := a.cfg.ForSuite(s.Config.Overrides())
	r := runner.New(suiteCfg, a.newExecutor(suiteCfg), a.template, a.prompt, a.reporter())
	return r.RunSuite(ctx, s)
}

func (a *Application) newExecutor(cfg config.Config) *client.Executor {
	var opts []client.Option
	if a.opts.UserAgent != "" {
		opts = append(opts, client.WithUserAgent(a.opts.UserAgent))
	}
	if a.opts.Metrics != nil {
		opts = append(opts, client.WithAttemptHook(a.opts.Metrics.ObserveAttempt))
	}
	return client.New(cfg, opts...)
}

func (a *Application) reporter() runner.Reporter {
	var reporters runner.MultiReporter
	if a.opts.Reporter != nil {
		reporters = append(reporters, a.opts.Reporter)
	}
	if a.opts.Metrics != nil {
		reporters = append(reporters, a.opts.Metrics)
	}
	if len(reporters) == 0 {
		return nil
	}
	return reporters
}

// Saved names a report file written by Persist.
type Saved struct {
	Kind string
	Path string
}

// Persist writes the JSON report, the HTML report and the metrics file as
// enabled by the configuration.
func (a *Application) Persist(out *Outcome) ([]Saved, error) {
	doc := report.NewDocument(out.Reports, out.Summary, a.cfg, out.LoadErrors)
	var saved []Saved

	if a.cfg.SaveJSONReport {
		path, err := doc.WriteJSON(a.cfg.ReportsDir)
		if err != nil {
			return saved, err
		}
		saved = append(saved, Saved{Kind: "JSON", Path: path})
	}
	if a.cfg.GenerateHTMLReport {
		path, err := doc.WriteHTML(a.cfg.ReportsDir)
		if err != nil {
			return saved, err
		}
		saved = append(saved, Saved{Kind: "HTML", Path: path})
	}
	if a.cfg.MetricsFile != "" && a.opts.Metrics != nil {
		if err := a.opts.Metrics.WriteTextfile(a.cfg.MetricsFile); err != nil {
			return saved, err
		}
		saved = append(saved, Saved{Kind: "Metrics", Path: a.cfg.MetricsFile})
	}
	return saved, nil
}
