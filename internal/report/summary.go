// Package report folds suite results into a summary and renders it as a JSON
// document, an HTML page and console output.
package report

import (
	"math"

	"llmcheck/internal/runner"
)

// Summary aggregates every result of a run.
type Summary struct {
	Suites      int   `json:"suites"`
	Total       int   `json:"totalTests"`
	Passed      int   `json:"passedTests"`
	Failed      int   `json:"failedTests"`
	Errored     int   `json:"errorTests"`
	Skipped     int   `json:"skippedTests"`
	TotalTokens int64 `json:"totalTokens"`
	TotalTimeMs int64 `json:"totalTime"`
	SuccessRate int   `json:"successRate"`
}

// Summarize recomputes the summary from scratch for the given reports.
func Summarize(reports []*runner.SuiteRunReport) Summary {
	var s Summary
	for _, r := range reports {
		if r == nil {
			continue
		}
		s.Suites++
		for _, res := range r.Results {
			s.Total++
			switch res.Status {
			case runner.StatusPassed:
				s.Passed++
			case runner.StatusFailed:
				s.Failed++
			case runner.StatusError:
				s.Errored++
			case runner.StatusSkipped:
				s.Skipped++
			}
			s.TotalTokens += res.Tokens()
			s.TotalTimeMs += res.ExecutionTime.Milliseconds()
		}
	}
	s.SuccessRate = Percent(s.Passed, s.Total)
	return s
}

// Percent returns part/total as a rounded percentage, or 0 when total is 0.
func Percent(part, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}

// AllPassed reports whether every case passed. A run without cases counts as
// passed; runs without suite files are rejected before they start.
func (s Summary) AllPassed() bool {
	return s.Passed == s.Total
}
