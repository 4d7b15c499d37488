package report

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"path/filepath"

	"llmcheck/internal/runner"
)

//go:embed templates/report.html.tmpl
var templateFS embed.FS

var htmlTemplate = template.Must(
	template.New("report.html.tmpl").Funcs(template.FuncMap{
		"basename": filepath.Base,
		"icon":     statusIcon,
		"label":    caseLabel,
		"pretty":   prettyJSON,
		"seconds": func(ms int64) string {
			return fmt.Sprintf("%.1f", float64(ms)/1000)
		},
	}).ParseFS(templateFS, "templates/report.html.tmpl"),
)

// RenderHTML renders the document as a standalone HTML page.
func (d *Document) RenderHTML() ([]byte, error) {
	var buf bytes.Buffer
	if err := htmlTemplate.Execute(&buf, d); err != nil {
		return nil, fmt.Errorf("failed to render HTML report: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteHTML writes the HTML page into dir and returns the file path.
func (d *Document) WriteHTML(dir string) (string, error) {
	data, err := d.RenderHTML()
	if err != nil {
		return "", err
	}
	return writeReport(dir, HTMLFileName, data)
}

func statusIcon(status runner.Status) string {
	switch status {
	case runner.StatusPassed:
		return "✅"
	case runner.StatusFailed:
		return "❌"
	case runner.StatusError:
		return "💥"
	default:
		return "⏭️"
	}
}

func caseLabel(r runner.TestResult, index int) string {
	if r.TestCase.Name != "" {
		return r.TestCase.Name
	}
	if r.TestCase.ID != "" {
		return r.TestCase.ID
	}
	return fmt.Sprintf("Test %d", index+1)
}

func prettyJSON(v interface{}) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(data)
}
