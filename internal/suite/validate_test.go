package suite

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name        string
		doc         string
		wantValid   bool
		errorLike   string
		warningLike string
	}{
		{
			name:      "valid structured suite",
			doc:       `{"metadata": {"name": "s", "version": "1.2.3"}, "config": {"timeout": 1000, "retries": 0, "skipOnError": false}, "tests": [{"id": "a", "entrada": "x", "saida": {"k": 1}}]}`,
			wantValid: true,
		},
		{
			name:      "valid legacy array",
			doc:       `[{"entrada": "x", "saida": {"k": 1}}]`,
			wantValid: true,
		},
		{
			name:      "missing tests property",
			doc:       `{"metadata": {"name": "s"}}`,
			errorLike: `"tests" is required`,
		},
		{
			name:      "tests not an array",
			doc:       `{"tests": {}}`,
			errorLike: `"tests" must be an array`,
		},
		{
			name:      "missing entrada",
			doc:       `[{"id": "c1", "saida": {"k": 1}}]`,
			errorLike: `c1: field "entrada" is required`,
		},
		{
			name:      "entrada wrong type",
			doc:       `[{"id": "c1", "entrada": 3, "saida": {"k": 1}}]`,
			errorLike: `"entrada" must be a string`,
		},
		{
			name:      "saida scalar",
			doc:       `[{"name": "n1", "entrada": "x", "saida": "text"}]`,
			errorLike: `n1: "saida" must be an object`,
		},
		{
			name:      "duplicate ids",
			doc:       `[{"id": "d", "entrada": "x", "saida": {}}, {"id": "d", "entrada": "y", "saida": {}}]`,
			errorLike: "duplicate ids found: d",
		},
		{
			name:      "bad config types",
			doc:       `{"config": {"timeout": -1}, "tests": [{"entrada": "x", "saida": {}}]}`,
			errorLike: `"timeout" must be a positive number`,
		},
		{
			name:      "skipOnError not bool",
			doc:       `{"config": {"skipOnError": "yes"}, "tests": [{"entrada": "x", "saida": {}}]}`,
			errorLike: `"skipOnError" must be a boolean`,
		},
		{
			name:        "empty tests is a warning",
			doc:         `{"metadata": {"name": "s"}, "tests": []}`,
			wantValid:   true,
			warningLike: "no tests found",
		},
		{
			name:        "version not semver",
			doc:         `{"metadata": {"name": "s", "version": "v1"}, "tests": [{"entrada": "x", "saida": {}}]}`,
			wantValid:   true,
			warningLike: "semantic versioning",
		},
		{
			name:        "tags not array",
			doc:         `[{"entrada": "x", "saida": {}, "tags": "smoke"}]`,
			wantValid:   true,
			warningLike: `"tags" should be an array`,
		},
		{
			name:      "not json",
			doc:       `{`,
			errorLike: "invalid JSON",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Validate("suite.json", []byte(tt.doc))
			assert.Equal(t, tt.wantValid, result.Valid(), "errors: %v", result.Errors)
			if tt.errorLike != "" {
				assert.Contains(t, joinAll(result.Errors), tt.errorLike)
			}
			if tt.warningLike != "" {
				assert.Contains(t, joinAll(result.Warnings), tt.warningLike)
			}
		})
	}
}

func TestValidateFile_Missing(t *testing.T) {
	result := ValidateFile("does-not-exist.json")
	assert.False(t, result.Valid())
	assert.Contains(t, joinAll(result.Errors), "not found")
}

func joinAll(lines []string) string {
	out := ""
	for _, l := range lines {
		out += l + "\n"
	}
	return out
}
