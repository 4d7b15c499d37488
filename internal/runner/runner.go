// Package runner executes the cases of a test suite against the completion
// endpoint and records one result per case in declaration order.
package runner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"llmcheck/internal/compare"
	"llmcheck/internal/config"
	"llmcheck/internal/suite"
	"llmcheck/internal/template"
	"llmcheck/pkg/logging"

	"github.com/tidwall/gjson"
)

const subsystem = "Runner"

const (
	contentPath = "choices.0.message.content"
	usagePath   = "usage"
)

// ErrMissingContent is returned when a response has no message content.
var ErrMissingContent = errors.New("response has no choices[0].message.content")

const (
	mismatchReason  = "output does not match the expected result"
	skipOnErrReason = "skipped after an earlier case did not pass (skipOnError)"
	cancelledReason = "skipped because the run was cancelled"
)

// Runner executes suites with a fixed configuration, template and prompt.
type Runner struct {
	cfg      config.Config
	sender   Sender
	template json.RawMessage
	prompt   string
	reporter Reporter
}

// New creates a runner. A nil reporter discards every notification.
func New(cfg config.Config, sender Sender, tpl json.RawMessage, prompt string, reporter Reporter) *Runner {
	if reporter == nil {
		reporter = nopReporter{}
	}
	return &Runner{
		cfg:      cfg,
		sender:   sender,
		template: tpl,
		prompt:   prompt,
		reporter: reporter,
	}
}

// RunSuite runs every case of s with the strategy selected by the
// configured parallelism and returns the completed report.
func (r *Runner) RunSuite(ctx context.Context, s *suite.TestSuite) *SuiteRunReport {
	strategy := StrategyFor(r.cfg)
	report := &SuiteRunReport{
		SourceFile: s.SourceFile,
		Metadata:   s.Metadata,
		State:      StatePending,
		Strategy:   strategy.Name(),
		Results:    make([]TestResult, 0, len(s.Tests)),
	}

	report.State = StateRunning
	report.StartTime = time.Now()
	r.reporter.ReportSuiteStart(s, strategy.Name())
	logging.Debug(subsystem, "Running suite %q (%d cases, strategy %s)", s.Metadata.Name, len(s.Tests), strategy.Name())

	strategy.Execute(ctx, s, r.runCase, func(results ...TestResult) {
		for _, res := range results {
			report.Results = append(report.Results, res)
			r.reporter.ReportCaseResult(s, res)
		}
	})

	report.Duration = time.Since(report.StartTime)
	report.State = StateCompleted
	r.reporter.ReportSuiteResult(report)
	return report
}

// runCase renders, sends and evaluates a single case.
func (r *Runner) runCase(ctx context.Context, tc suite.TestCase) TestResult {
	body, err := template.Render(r.template, tc.Entrada, r.prompt)
	if err != nil {
		return Errored(tc, fmt.Errorf("failed to render request: %w", err))
	}
	if logging.Enabled(logging.LevelDebug) {
		logging.Debug(subsystem, "Request for %s: %s", tc.Label(), body)
	}

	start := time.Now()
	resp, err := r.sender.Send(ctx, body)
	elapsed := time.Since(start)
	if err != nil {
		logging.Debug(subsystem, "Case %s failed to execute: %v", tc.Label(), err)
		return Errored(tc, err)
	}

	content := gjson.GetBytes(resp, contentPath)
	if !content.Exists() {
		return Errored(tc, ErrMissingContent)
	}
	usage := extractUsage(resp)

	var actual interface{} = content.String()
	if content.Type != gjson.String {
		actual = json.RawMessage(content.Raw)
	}

	cmp := compare.Compare(tc.Saida, actual)
	if cmp.Equal {
		return Passed(tc, resp, cmp.Actual, elapsed, usage)
	}
	return Failed(tc, resp, cmp.Actual, cmp.Expected, elapsed, usage, mismatchReason)
}

func extractUsage(resp json.RawMessage) *Usage {
	u := gjson.GetBytes(resp, usagePath)
	if !u.IsObject() {
		return nil
	}
	return &Usage{
		TotalTokens:      u.Get("total_tokens").Int(),
		PromptTokens:     u.Get("prompt_tokens").Int(),
		CompletionTokens: u.Get("completion_tokens").Int(),
	}
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
