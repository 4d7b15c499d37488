package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"llmcheck/internal/config"
	"llmcheck/internal/runner"

	"github.com/google/uuid"
)

const (
	JSONFileName = "test-results.json"
	HTMLFileName = "test-report.html"
)

// LoadError records a suite file that could not be loaded.
type LoadError struct {
	File  string `json:"file"`
	Error string `json:"error"`
}

// Document is the persisted form of a run.
type Document struct {
	RunID      string                   `json:"runId"`
	Summary    Summary                  `json:"summary"`
	Results    []*runner.SuiteRunReport `json:"results"`
	LoadErrors []LoadError              `json:"loadErrors"`
	Timestamp  time.Time                `json:"timestamp"`
	Config     config.Config            `json:"config"`
}

// NewDocument assembles a report document. The configuration is stored with
// its credential redacted.
func NewDocument(reports []*runner.SuiteRunReport, summary Summary, cfg config.Config, loadErrors []LoadError) *Document {
	if reports == nil {
		reports = []*runner.SuiteRunReport{}
	}
	if loadErrors == nil {
		loadErrors = []LoadError{}
	}
	return &Document{
		RunID:      uuid.NewString(),
		Summary:    summary,
		Results:    reports,
		LoadErrors: loadErrors,
		Timestamp:  time.Now().UTC(),
		Config:     cfg.Redacted(),
	}
}

// WriteJSON writes the document as indented JSON into dir and returns the
// file path.
func (d *Document) WriteJSON(dir string) (string, error) {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode JSON report: %w", err)
	}
	return writeReport(dir, JSONFileName, data)
}

func writeReport(dir, name string, data []byte) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create reports directory %s: %w", dir, err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write report %s: %w", path, err)
	}
	return path, nil
}
