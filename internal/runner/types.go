package runner

import (
	"context"
	"encoding/json"
	"time"

	"llmcheck/internal/suite"
)

// Status is the outcome of one test case.
type Status string

const (
	// StatusPassed means the actual output matched the expected output
	StatusPassed Status = "passed"
	// StatusFailed means the API answered but the output did not match
	StatusFailed Status = "failed"
	// StatusError means the case could not be evaluated
	StatusError Status = "error"
	// StatusSkipped means the case never ran because the suite stopped early
	StatusSkipped Status = "skipped"
)

// SuiteState tracks the lifecycle of a suite run.
type SuiteState string

const (
	StatePending   SuiteState = "pending"
	StateRunning   SuiteState = "running"
	StateCompleted SuiteState = "completed"
)

// Usage is the token accounting reported by the API.
type Usage struct {
	TotalTokens      int64 `json:"total_tokens"`
	PromptTokens     int64 `json:"prompt_tokens"`
	CompletionTokens int64 `json:"completion_tokens"`
}

// TestResult is the immutable record of one executed case.
type TestResult struct {
	TestCase suite.TestCase `json:"testCase"`
	Status   Status         `json:"status"`
	// Response is the raw API response document
	Response json.RawMessage `json:"response,omitempty"`
	// ActualResult is the normalized model output
	ActualResult interface{} `json:"actualResult,omitempty"`
	// ExpectedResult is the normalized expected output, set on failure
	ExpectedResult interface{} `json:"expectedResult,omitempty"`
	// ExecutionTime covers the executor call including retries; zero for errors
	ExecutionTime time.Duration `json:"-"`
	Reason        string        `json:"reason,omitempty"`
	Error         string        `json:"error,omitempty"`
	Usage         *Usage        `json:"usage,omitempty"`
}

// MarshalJSON renders ExecutionTime in milliseconds.
func (r TestResult) MarshalJSON() ([]byte, error) {
	type plain TestResult
	return json.Marshal(struct {
		plain
		ExecutionTime int64 `json:"executionTime"`
	}{
		plain:         plain(r),
		ExecutionTime: r.ExecutionTime.Milliseconds(),
	})
}

// Tokens returns the total token count, or zero without usage data.
func (r TestResult) Tokens() int64 {
	if r.Usage == nil {
		return 0
	}
	return r.Usage.TotalTokens
}

// Passed builds a passed result.
func Passed(tc suite.TestCase, response json.RawMessage, actual interface{}, elapsed time.Duration, usage *Usage) TestResult {
	return TestResult{
		TestCase:      tc,
		Status:        StatusPassed,
		Response:      response,
		ActualResult:  actual,
		ExecutionTime: elapsed,
		Usage:         usage,
	}
}

// Failed builds a failed result carrying both normalized values.
func Failed(tc suite.TestCase, response json.RawMessage, actual, expected interface{}, elapsed time.Duration, usage *Usage, reason string) TestResult {
	return TestResult{
		TestCase:       tc,
		Status:         StatusFailed,
		Response:       response,
		ActualResult:   actual,
		ExpectedResult: expected,
		ExecutionTime:  elapsed,
		Reason:         reason,
		Usage:          usage,
	}
}

// Errored builds an error result.
func Errored(tc suite.TestCase, err error) TestResult {
	return TestResult{
		TestCase: tc,
		Status:   StatusError,
		Error:    err.Error(),
	}
}

// Skipped builds a skipped result.
func Skipped(tc suite.TestCase, reason string) TestResult {
	return TestResult{
		TestCase: tc,
		Status:   StatusSkipped,
		Reason:   reason,
	}
}

// SuiteRunReport is the outcome of running one suite.
type SuiteRunReport struct {
	SourceFile string         `json:"sourceFile"`
	Metadata   suite.Metadata `json:"metadata"`
	State      SuiteState     `json:"state"`
	Strategy   string         `json:"strategy"`
	StartTime  time.Time      `json:"startTime"`
	Duration   time.Duration  `json:"-"`
	Results    []TestResult   `json:"results"`
}

// Count returns how many results have the given status.
func (r *SuiteRunReport) Count(status Status) int {
	n := 0
	for _, res := range r.Results {
		if res.Status == status {
			n++
		}
	}
	return n
}

// AllPassed reports whether every case of the suite passed.
func (r *SuiteRunReport) AllPassed() bool {
	return r.Count(StatusPassed) == len(r.Results)
}

// Sender delivers a rendered request body and returns the response document.
type Sender interface {
	Send(ctx context.Context, body json.RawMessage) (json.RawMessage, error)
}

// Reporter observes a suite run. Calls are made from a single goroutine and
// case results arrive in declaration order.
type Reporter interface {
	// ReportSuiteStart is called before the first case runs
	ReportSuiteStart(s *suite.TestSuite, strategy string)
	// ReportCaseResult is called once per case
	ReportCaseResult(s *suite.TestSuite, result TestResult)
	// ReportSuiteResult is called when the suite completes
	ReportSuiteResult(report *SuiteRunReport)
}

// MultiReporter fans every call out to each reporter in order.
type MultiReporter []Reporter

func (m MultiReporter) ReportSuiteStart(s *suite.TestSuite, strategy string) {
	for _, r := range m {
		r.ReportSuiteStart(s, strategy)
	}
}

func (m MultiReporter) ReportCaseResult(s *suite.TestSuite, result TestResult) {
	for _, r := range m {
		r.ReportCaseResult(s, result)
	}
}

func (m MultiReporter) ReportSuiteResult(report *SuiteRunReport) {
	for _, r := range m {
		r.ReportSuiteResult(report)
	}
}

type nopReporter struct{}

func (nopReporter) ReportSuiteStart(*suite.TestSuite, string) {}

func (nopReporter) ReportCaseResult(*suite.TestSuite, TestResult) {}

func (nopReporter) ReportSuiteResult(*SuiteRunReport) {}
