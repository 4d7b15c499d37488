// Package metrics records run metrics in a private Prometheus registry and
// writes them in the text exposition format, suitable for the node exporter
// textfile collector.
package metrics

import (
	"fmt"
	"path/filepath"

	"llmcheck/internal/runner"
	"llmcheck/internal/suite"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "llmcheck"

// Recorder is a runner.Reporter that turns results into metrics.
type Recorder struct {
	registry *prometheus.Registry

	cases    *prometheus.CounterVec
	duration *prometheus.HistogramVec
	tokens   *prometheus.CounterVec
	attempts prometheus.Counter
	retries  prometheus.Counter
	suites   prometheus.Counter
	lastRun  *prometheus.GaugeVec
}

// NewRecorder creates a recorder with its own registry.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		cases: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cases_total",
			Help:      "Test cases by suite and final status.",
		}, []string{"suite", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "case_duration_seconds",
			Help:      "Time spent calling the API per evaluated case, retries included.",
			Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 30, 60},
		}, []string{"suite"}),
		tokens: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tokens_total",
			Help:      "Tokens reported by the API by suite and kind.",
		}, []string{"suite", "kind"}),
		attempts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "request_attempts_total",
			Help:      "HTTP attempts made against the completion endpoint.",
		}),
		retries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "request_retries_total",
			Help:      "HTTP attempts that were retries of a failed attempt.",
		}),
		suites: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "suites_total",
			Help:      "Suites run to completion.",
		}),
		lastRun: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "suite_success_ratio",
			Help:      "Share of passed cases in the last run of each suite.",
		}, []string{"suite"}),
	}

	r.registry.MustRegister(r.cases, r.duration, r.tokens, r.attempts, r.retries, r.suites, r.lastRun)
	return r
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// ObserveAttempt counts an HTTP attempt. attempt is zero for the first try.
func (r *Recorder) ObserveAttempt(attempt int) {
	r.attempts.Inc()
	if attempt > 0 {
		r.retries.Inc()
	}
}

func (r *Recorder) ReportSuiteStart(*suite.TestSuite, string) {}

func (r *Recorder) ReportCaseResult(s *suite.TestSuite, res runner.TestResult) {
	name := suiteLabel(s.SourceFile, s.Metadata.Name)
	r.cases.WithLabelValues(name, string(res.Status)).Inc()

	if res.Status == runner.StatusPassed || res.Status == runner.StatusFailed {
		r.duration.WithLabelValues(name).Observe(res.ExecutionTime.Seconds())
	}
	if res.Usage != nil {
		r.tokens.WithLabelValues(name, "prompt").Add(float64(res.Usage.PromptTokens))
		r.tokens.WithLabelValues(name, "completion").Add(float64(res.Usage.CompletionTokens))
	}
}

func (r *Recorder) ReportSuiteResult(rep *runner.SuiteRunReport) {
	r.suites.Inc()
	ratio := 0.0
	if len(rep.Results) > 0 {
		ratio = float64(rep.Count(runner.StatusPassed)) / float64(len(rep.Results))
	}
	r.lastRun.WithLabelValues(suiteLabel(rep.SourceFile, rep.Metadata.Name)).Set(ratio)
}

// WriteTextfile writes every metric to path atomically.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}

func suiteLabel(sourceFile, name string) string {
	if sourceFile != "" {
		return filepath.Base(sourceFile)
	}
	return name
}
