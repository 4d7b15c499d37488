package config

import (
	"encoding/json"
	"time"
)

// Config is the execution configuration shared read-only by every component
// for the duration of a run.
type Config struct {
	// APIURL is the completion endpoint every case is POSTed to.
	APIURL string `json:"apiUrl"`
	// BearerToken is sent as "Authorization: Bearer <token>".
	BearerToken string `json:"bearerToken"`
	// Timeout bounds a single HTTP attempt.
	Timeout time.Duration `json:"timeout"`
	// RetryAttempts is the number of retries after the first attempt.
	RetryAttempts int `json:"retryAttempts"`
	// RetryDelay is the fixed pause before each retry.
	RetryDelay time.Duration `json:"retryDelay"`
	// Parallelism is the chunk size; values <= 1 select sequential execution.
	Parallelism int `json:"parallelism"`
	// RequestDelay is the pause between cases (sequential) or chunks (parallel).
	RequestDelay time.Duration `json:"requestDelay"`
	// LogLevel is one of "info", "debug" or "error".
	LogLevel string `json:"logLevel"`
	// LogTokens prints per-case token usage when the API reports it.
	LogTokens bool `json:"logTokens"`
	// Verbose prints timing and raw responses per case.
	Verbose bool `json:"verbose"`

	// GenerateHTMLReport writes test-report.html into ReportsDir.
	GenerateHTMLReport bool `json:"generateHtmlReport"`
	// SaveJSONReport writes test-results.json into ReportsDir.
	SaveJSONReport bool `json:"saveJsonReport"`
	// ReportsDir receives the JSON and HTML reports.
	ReportsDir string `json:"reportsDir"`
	// TestsDir is scanned for suite files when none are given explicitly.
	TestsDir string `json:"testsDir"`
	// TemplateFile is the JSON request body template.
	TemplateFile string `json:"templateFile"`
	// PromptFile is the prompt text substituted for {{prompt}}.
	PromptFile string `json:"promptFile"`
	// MetricsFile, when set, receives run metrics in Prometheus text format.
	MetricsFile string `json:"metricsFile,omitempty"`
}

// MarshalJSON renders the durations in milliseconds, the unit of their keys.
func (c Config) MarshalJSON() ([]byte, error) {
	type plain Config
	return json.Marshal(struct {
		plain
		Timeout      int64 `json:"timeout"`
		RetryDelay   int64 `json:"retryDelay"`
		RequestDelay int64 `json:"requestDelay"`
	}{
		plain:        plain(c),
		Timeout:      c.Timeout.Milliseconds(),
		RetryDelay:   c.RetryDelay.Milliseconds(),
		RequestDelay: c.RequestDelay.Milliseconds(),
	})
}

// Debug reports whether LOG_LEVEL selects debug output.
func (c Config) Debug() bool {
	return c.LogLevel == LogLevelDebug
}

// Redacted returns a copy safe to persist in reports.
func (c Config) Redacted() Config {
	out := c
	if out.BearerToken != "" {
		out.BearerToken = "***"
	}
	return out
}

// SuiteOverrides carries the per-suite knobs a suite file may set.
type SuiteOverrides struct {
	// Timeout in milliseconds; zero keeps the global value.
	Timeout int
	// Retries, when non-nil, replaces RetryAttempts.
	Retries *int
}

// ForSuite returns the configuration a single suite runs with.
func (c Config) ForSuite(o SuiteOverrides) Config {
	out := c
	if o.Timeout > 0 {
		out.Timeout = time.Duration(o.Timeout) * time.Millisecond
	}
	if o.Retries != nil && *o.Retries >= 0 {
		out.RetryAttempts = *o.Retries
	}
	return out
}
