package suite

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadFile_StructuredForm(t *testing.T) {
	path := writeFile(t, t.TempDir(), "classify.json", `{
  "metadata": {"name": "Classification", "description": "intent tests", "version": "1.0.0"},
  "config": {"timeout": 5000, "retries": 1, "skipOnError": true},
  "tests": [
    {"id": "t1", "name": "greeting", "entrada": "Hello", "saida": {"result": "ok"}, "tags": ["smoke"]},
    {"id": "t2", "entrada": "Bye", "saida": {"result": "bye"}}
  ]
}`)

	s, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, path, s.SourceFile)
	assert.Equal(t, "Classification", s.Metadata.Name)
	assert.Equal(t, "1.0.0", s.Metadata.Version)
	assert.Equal(t, 5000, s.Config.Timeout)
	require.NotNil(t, s.Config.Retries)
	assert.Equal(t, 1, *s.Config.Retries)
	assert.True(t, s.Config.SkipOnError)
	require.Len(t, s.Tests, 2)
	assert.Equal(t, "t1", s.Tests[0].ID)
	assert.Equal(t, "Hello", s.Tests[0].Entrada)
	assert.JSONEq(t, `{"result":"ok"}`, string(s.Tests[0].Saida))
	assert.Equal(t, []string{"smoke"}, s.Tests[0].Tags)
	assert.Equal(t, "greeting", s.Tests[0].Label())
	assert.Equal(t, "t2", s.Tests[1].Label())
}

func TestLoadFile_LegacyArray(t *testing.T) {
	path := writeFile(t, t.TempDir(), "legacy.json", `[
  {"entrada": "a", "saida": {"x": 1}},
  {"entrada": "b", "saida": {"x": 2}}
]`)

	s, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "legacy.json", s.Metadata.Name)
	assert.False(t, s.Config.SkipOnError)
	assert.Nil(t, s.Config.Retries)
	assert.Len(t, s.Tests, 2)
}

func TestLoadFile_YAML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "suite.yaml", `
metadata:
  name: YAML suite
tests:
  - id: y1
    entrada: Hello
    saida:
      result: ok
      scores: [1, 2]
`)

	s, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, s.Tests, 1)
	assert.Equal(t, "YAML suite", s.Metadata.Name)
	assert.JSONEq(t, `{"result":"ok","scores":[1,2]}`, string(s.Tests[0].Saida))
}

func TestLoadFile_Errors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		file    string
		content string
		errLike string
	}{
		{"malformed json", "bad.json", `{"tests": [`, "failed to parse suite file"},
		{"missing tests", "notests.json", `{"metadata": {"name": "x"}}`, `no "tests" array`},
		{"scalar document", "scalar.json", `42`, "array or object"},
		{"entrada not string", "types.json", `[{"entrada": 5, "saida": {}}]`, "invalid test list"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, dir, tt.file, tt.content)
			_, err := LoadFile(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errLike)
		})
	}

	_, err := LoadFile(filepath.Join(dir, "absent.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadFile_EmptyTestsIsNotAnError(t *testing.T) {
	path := writeFile(t, t.TempDir(), "empty.json", `{"metadata": {"name": "empty"}, "tests": []}`)

	s, err := LoadFile(path)
	require.NoError(t, err)
	assert.Empty(t, s.Tests)
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.json", `[]`)
	writeFile(t, dir, "a.yaml", `[]`)
	writeFile(t, dir, "_draft.json", `[]`)
	writeFile(t, dir, "notes.md", `# notes`)
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.json"), 0755))

	files, err := Discover(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.yaml"), filepath.Join(dir, "b.json")}, files)

	_, err = Discover(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}
