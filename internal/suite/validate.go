package suite

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var semverRe = regexp.MustCompile(`^\d+\.\d+\.\d+$`)

// ValidationResult collects the findings of a shape check.
type ValidationResult struct {
	File     string   `json:"file"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// Valid reports whether no errors were found.
func (r ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

func (r *ValidationResult) errorf(format string, args ...interface{}) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *ValidationResult) warnf(format string, args ...interface{}) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// ValidateFile performs shape checks on a suite file without running it.
func ValidateFile(path string) ValidationResult {
	result := ValidationResult{File: path, Errors: []string{}, Warnings: []string{}}

	data, err := os.ReadFile(path)
	if err != nil {
		result.errorf("file not found or unreadable: %v", err)
		return result
	}
	doc, err := toJSON(path, data)
	if err != nil {
		result.errorf("invalid document: %v", err)
		return result
	}

	validateDocument(&result, doc)
	return result
}

// Validate performs shape checks on a JSON suite document.
func Validate(name string, doc []byte) ValidationResult {
	result := ValidationResult{File: filepath.Base(name), Errors: []string{}, Warnings: []string{}}
	validateDocument(&result, doc)
	return result
}

func validateDocument(r *ValidationResult, doc []byte) {
	var root interface{}
	if err := json.Unmarshal(doc, &root); err != nil {
		r.errorf("invalid JSON: %v", err)
		return
	}

	switch v := root.(type) {
	case []interface{}:
		validateTests(r, v)
	case map[string]interface{}:
		if meta, ok := v["metadata"]; ok {
			validateMetadata(r, meta)
		}
		if cfg, ok := v["config"]; ok {
			validateConfig(r, cfg)
		}
		tests, ok := v["tests"]
		if !ok {
			r.errorf(`property "tests" is required`)
			return
		}
		list, ok := tests.([]interface{})
		if !ok {
			r.errorf(`"tests" must be an array`)
			return
		}
		validateTests(r, list)
	default:
		r.errorf("suite must be an array of tests or an object with a \"tests\" array")
	}
}

func validateMetadata(r *ValidationResult, raw interface{}) {
	meta, ok := raw.(map[string]interface{})
	if !ok {
		r.errorf(`"metadata" must be an object`)
		return
	}
	if name, _ := meta["name"].(string); strings.TrimSpace(name) == "" {
		r.warnf(`metadata: "name" is not set`)
	}
	if version, ok := meta["version"]; ok {
		s, isString := version.(string)
		if !isString || !semverRe.MatchString(s) {
			r.warnf(`metadata: "version" should follow semantic versioning (e.g. 1.0.0)`)
		}
	}
}

func validateConfig(r *ValidationResult, raw interface{}) {
	cfg, ok := raw.(map[string]interface{})
	if !ok {
		r.errorf(`"config" must be an object`)
		return
	}
	if v, ok := cfg["timeout"]; ok && v != nil {
		if n, isNum := v.(float64); !isNum || n <= 0 {
			r.errorf(`config: "timeout" must be a positive number`)
		}
	}
	if v, ok := cfg["retries"]; ok && v != nil {
		if n, isNum := v.(float64); !isNum || n < 0 {
			r.errorf(`config: "retries" must be a non-negative number`)
		}
	}
	if v, ok := cfg["skipOnError"]; ok && v != nil {
		if _, isBool := v.(bool); !isBool {
			r.errorf(`config: "skipOnError" must be a boolean`)
		}
	}
}

func validateTests(r *ValidationResult, tests []interface{}) {
	if len(tests) == 0 {
		r.warnf("no tests found")
		return
	}

	seen := make(map[string]int, len(tests))
	var duplicates []string
	for i, raw := range tests {
		test, ok := raw.(map[string]interface{})
		if !ok {
			r.errorf("test %d: must be an object", i+1)
			continue
		}
		validateTest(r, test, i)

		if id, ok := test["id"].(string); ok && id != "" {
			seen[id]++
			if seen[id] == 2 {
				duplicates = append(duplicates, id)
			}
		}
	}
	if len(duplicates) > 0 {
		r.errorf("duplicate ids found: %s", strings.Join(duplicates, ", "))
	}
}

func validateTest(r *ValidationResult, test map[string]interface{}, index int) {
	label := fmt.Sprintf("test %d", index+1)
	if id, ok := test["id"].(string); ok && id != "" {
		label = id
	} else if name, ok := test["name"].(string); ok && name != "" {
		label = name
	}

	entrada, hasEntrada := test["entrada"]
	switch {
	case !hasEntrada || entrada == nil || entrada == "":
		r.errorf(`%s: field "entrada" is required`, label)
	default:
		if _, ok := entrada.(string); !ok {
			r.errorf(`%s: "entrada" must be a string`, label)
		}
	}

	saida, hasSaida := test["saida"]
	switch {
	case !hasSaida || saida == nil:
		r.errorf(`%s: field "saida" is required`, label)
	default:
		switch saida.(type) {
		case map[string]interface{}, []interface{}:
		default:
			r.errorf(`%s: "saida" must be an object`, label)
		}
	}

	if tags, ok := test["tags"]; ok {
		if _, isList := tags.([]interface{}); !isList {
			r.warnf(`%s: "tags" should be an array`, label)
		}
	}
	if name, ok := test["name"]; ok {
		if _, isString := name.(string); !isString {
			r.warnf(`%s: "name" should be a string`, label)
		}
	}
}
