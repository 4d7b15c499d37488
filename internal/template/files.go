package template

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strings"
)

var blankLinesRe = regexp.MustCompile(`\n\s*\n`)

// CollapseBlankLines folds every run of blank lines into a single newline and
// trims the result, keeping the prompt short.
func CollapseBlankLines(text string) string {
	return strings.TrimSpace(blankLinesRe.ReplaceAllString(text, "\n"))
}

// LoadPrompt reads the prompt file and collapses its blank lines.
func LoadPrompt(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read prompt file %s: %w", path, err)
	}
	return CollapseBlankLines(string(data)), nil
}

// LoadTemplate reads a request template and checks that it is valid JSON.
func LoadTemplate(path string) (json.RawMessage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read request template %s: %w", path, err)
	}
	if !json.Valid(data) {
		return nil, fmt.Errorf("failed to parse request template %s: %w", path, ErrInvalidTemplate)
	}
	return json.RawMessage(data), nil
}
