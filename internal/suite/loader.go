package suite

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"llmcheck/pkg/logging"
)

// LoadFile reads a suite file (JSON, or YAML by extension) and normalizes it
// into the structured form.
func LoadFile(path string) (*TestSuite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read suite file %s: %w", path, err)
	}

	doc, err := toJSON(path, data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse suite file %s: %w", path, err)
	}

	s, err := Decode(doc, filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("failed to load suite file %s: %w", path, err)
	}
	s.SourceFile = path

	if len(s.Tests) == 0 {
		logging.Warn("Suite", "Suite %s contains no tests", path)
	}
	return s, nil
}

// Decode parses a JSON suite document. A bare array is the legacy form and is
// wrapped with defaultName as metadata name and the default config.
func Decode(doc []byte, defaultName string) (*TestSuite, error) {
	trimmed := bytes.TrimSpace(doc)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty document")
	}

	switch trimmed[0] {
	case '[':
		var tests []TestCase
		if err := json.Unmarshal(trimmed, &tests); err != nil {
			return nil, fmt.Errorf("invalid test list: %w", err)
		}
		return &TestSuite{
			Metadata: Metadata{Name: defaultName},
			Tests:    tests,
		}, nil
	case '{':
		var probe struct {
			Tests json.RawMessage `json:"tests"`
		}
		if err := json.Unmarshal(trimmed, &probe); err != nil {
			return nil, fmt.Errorf("invalid suite: %w", err)
		}
		if len(probe.Tests) == 0 || bytes.Equal(probe.Tests, []byte("null")) {
			return nil, fmt.Errorf(`suite has no "tests" array`)
		}

		var s TestSuite
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return nil, fmt.Errorf("invalid suite: %w", err)
		}
		if strings.TrimSpace(s.Metadata.Name) == "" {
			s.Metadata.Name = defaultName
		}
		return &s, nil
	default:
		return nil, fmt.Errorf("suite must be a JSON array or object")
	}
}

// Discover lists the suite files in dir, skipping names that start with "_".
func Discover(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read tests directory %s: %w", dir, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), "_") {
			continue
		}
		if IsSuiteFile(entry.Name()) {
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

// IsSuiteFile reports whether name has a supported suite extension.
func IsSuiteFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json", ".yaml", ".yml":
		return true
	}
	return false
}

// toJSON returns data as a JSON document, converting YAML suites first.
func toJSON(path string, data []byte) ([]byte, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		var v interface{}
		if err := yaml.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		return json.Marshal(yamlToJSONValue(v))
	default:
		if !json.Valid(data) {
			// Unmarshal again for a positioned error message.
			var v interface{}
			if err := json.Unmarshal(data, &v); err != nil {
				return nil, err
			}
		}
		return data, nil
	}
}

// yamlToJSONValue rewrites YAML mappings with non-string keys so the value can
// be marshalled as JSON.
func yamlToJSONValue(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, val := range t {
			out[k] = yamlToJSONValue(val)
		}
		return out
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, val := range t {
			out[fmt.Sprint(k)] = yamlToJSONValue(val)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, val := range t {
			out[i] = yamlToJSONValue(val)
		}
		return out
	default:
		return v
	}
}
