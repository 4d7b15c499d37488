package suite

import (
	"encoding/json"

	"llmcheck/internal/config"
)

// Metadata describes a suite file.
type Metadata struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Version     string `json:"version,omitempty" yaml:"version,omitempty"`
	Author      string `json:"author,omitempty" yaml:"author,omitempty"`
}

// Config holds the per-suite execution knobs.
type Config struct {
	// Timeout in milliseconds for each request of this suite; 0 keeps the global value.
	Timeout int `json:"timeout,omitempty" yaml:"timeout,omitempty"`
	// Retries replaces RETRY_ATTEMPTS for this suite when set.
	Retries *int `json:"retries,omitempty" yaml:"retries,omitempty"`
	// SkipOnError stops the suite after the first case that does not pass.
	SkipOnError bool `json:"skipOnError" yaml:"skipOnError"`
}

// Overrides converts the suite knobs into config overrides.
func (c Config) Overrides() config.SuiteOverrides {
	return config.SuiteOverrides{Timeout: c.Timeout, Retries: c.Retries}
}

// TestCase is one input/expected-output pair.
type TestCase struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
	// Entrada is the input text substituted for {{input}}.
	Entrada string `json:"entrada"`
	// Saida is the expected structured output.
	Saida json.RawMessage `json:"saida"`
	Tags  []string        `json:"tags,omitempty"`
}

// Label returns the most descriptive identifier available for the case.
func (tc TestCase) Label() string {
	switch {
	case tc.Name != "":
		return tc.Name
	case tc.ID != "":
		return tc.ID
	default:
		return "unnamed test"
	}
}

// TestSuite is the structured form every suite file is normalized to.
type TestSuite struct {
	Metadata Metadata   `json:"metadata"`
	Config   Config     `json:"config"`
	Tests    []TestCase `json:"tests"`

	// SourceFile is the path the suite was loaded from.
	SourceFile string `json:"-"`
}
