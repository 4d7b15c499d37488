package report

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"llmcheck/internal/color"
	"llmcheck/internal/runner"
	"llmcheck/internal/suite"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// maxInputWidth bounds the echoed case input in display cells.
const maxInputWidth = 100

// ConsoleOptions controls how much the console reporter prints.
type ConsoleOptions struct {
	// Verbose adds the raw response for every case
	Verbose bool
	// Debug also adds the raw response, as LOG_LEVEL=debug does
	Debug bool
	// LogTokens prints token usage when the API reports it
	LogTokens bool
	// Quiet prints only cases that did not pass and the final summary
	Quiet bool
}

// ConsoleReporter prints results as they arrive.
type ConsoleReporter struct {
	out    io.Writer
	opts   ConsoleOptions
	styles color.Styles
	index  int
}

// NewConsoleReporter creates a reporter writing to out.
func NewConsoleReporter(out io.Writer, opts ConsoleOptions) *ConsoleReporter {
	return &ConsoleReporter{
		out:    out,
		opts:   opts,
		styles: color.NewStyles(lipgloss.NewRenderer(out)),
	}
}

func (c *ConsoleReporter) printf(format string, args ...interface{}) {
	fmt.Fprintf(c.out, format, args...)
}

// ReportSuiteStart prints the suite header.
func (c *ConsoleReporter) ReportSuiteStart(s *suite.TestSuite, strategy string) {
	c.index = 0
	if c.opts.Quiet {
		return
	}
	c.printf("\n%s\n", c.styles.Header.Render("🎯 Running file: "+filepath.Base(s.SourceFile)))
	c.printf("📋 Name: %s\n", s.Metadata.Name)
	if s.Metadata.Description != "" {
		c.printf("📝 Description: %s\n", s.Metadata.Description)
	}
	c.printf("%s\n", c.styles.Muted.Render(fmt.Sprintf("   %d tests, %s execution", len(s.Tests), strategy)))
}

// ReportCaseResult prints one case.
func (c *ConsoleReporter) ReportCaseResult(s *suite.TestSuite, r runner.TestResult) {
	c.index++
	if c.opts.Quiet && r.Status == runner.StatusPassed {
		return
	}

	label := r.TestCase.Name
	if label == "" {
		label = r.TestCase.ID
	}
	if label == "" {
		label = fmt.Sprintf("Test %d", c.index)
	}

	c.printf("\n%s\n", c.styles.Bold.Render(fmt.Sprintf("🧪 Test %d: %s", c.index, label)))
	c.printf("📝 Input: %q\n", runewidth.Truncate(oneLine(r.TestCase.Entrada), maxInputWidth, "…"))

	if c.opts.LogTokens && r.Usage != nil {
		c.printf("🪙 Tokens: %d (prompt: %d, completion: %d)\n",
			r.Usage.TotalTokens, r.Usage.PromptTokens, r.Usage.CompletionTokens)
	}
	if r.Status == runner.StatusPassed || r.Status == runner.StatusFailed {
		c.printf("⏱️  Time: %dms\n", r.ExecutionTime.Milliseconds())
	}
	if (c.opts.Verbose || c.opts.Debug) && len(r.Response) > 0 {
		c.printf("📥 Response: %s\n", indent(r.Response))
	}

	style := c.styles.Status(string(r.Status))
	switch r.Status {
	case runner.StatusPassed:
		c.printf("%s\n", style.Render("✅ Test PASSED"))
	case runner.StatusFailed:
		c.printf("%s\n", style.Render("❌ Test FAILED"))
		c.printf("📄 Expected: %s\n", prettyJSON(r.ExpectedResult))
		c.printf("📄 Actual: %s\n", prettyJSON(r.ActualResult))
	case runner.StatusError:
		c.printf("%s\n", style.Render("💥 Test ERROR: "+r.Error))
	case runner.StatusSkipped:
		c.printf("%s\n", style.Render("⏭️  Test SKIPPED: "+r.Reason))
	}
}

// ReportSuiteResult prints the per-file counts.
func (c *ConsoleReporter) ReportSuiteResult(r *runner.SuiteRunReport) {
	if c.opts.Quiet {
		return
	}
	c.printf("\n📁 File: %s (%.1fs)\n", filepath.Base(r.SourceFile), r.Duration.Seconds())
	c.printf("   ✅ Passed: %d\n", r.Count(runner.StatusPassed))
	c.printf("   ❌ Failed: %d\n", r.Count(runner.StatusFailed))
	c.printf("   💥 Error: %d\n", r.Count(runner.StatusError))
	if skipped := r.Count(runner.StatusSkipped); skipped > 0 {
		c.printf("   ⏭️  Skipped: %d\n", skipped)
	}
}

// PrintSummary prints the run totals and any suites that failed to load.
func (c *ConsoleReporter) PrintSummary(s Summary, loadErrors []LoadError) {
	for _, le := range loadErrors {
		c.printf("\n%s\n", c.styles.Errored.Render(fmt.Sprintf("💥 Could not load %s: %s", filepath.Base(le.File), le.Error)))
	}

	c.printf("\n%s\n", c.styles.Header.Render("🎯 ========== TOTAL =========="))
	c.printf("📊 Tests executed: %d\n", s.Total)
	c.printf("%s\n", c.styles.Passed.Render(fmt.Sprintf("✅ Passed: %d (%d%%)", s.Passed, s.SuccessRate)))
	c.printf("%s\n", c.styles.Failed.Render(fmt.Sprintf("❌ Failed: %d (%d%%)", s.Failed, Percent(s.Failed, s.Total))))
	c.printf("%s\n", c.styles.Errored.Render(fmt.Sprintf("💥 Errors: %d (%d%%)", s.Errored, Percent(s.Errored, s.Total))))
	if s.Skipped > 0 {
		c.printf("%s\n", c.styles.Skipped.Render(fmt.Sprintf("⏭️  Skipped: %d (%d%%)", s.Skipped, Percent(s.Skipped, s.Total))))
	}
	c.printf("🪙 Total tokens: %d\n", s.TotalTokens)
	c.printf("⏱️  Total time: %.1fs\n", float64(s.TotalTimeMs)/1000)
}

// PrintSaved announces a written report file.
func (c *ConsoleReporter) PrintSaved(kind, path string) {
	c.printf("💾 %s report saved to: %s\n", kind, path)
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func indent(raw json.RawMessage) string {
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return string(raw)
	}
	return prettyJSON(v)
}
