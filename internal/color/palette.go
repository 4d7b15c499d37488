package color

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	ColorPrimary = lipgloss.AdaptiveColor{
		Light: "#5A56E0",
		Dark:  "#7571F9",
	}
	ColorSuccess = lipgloss.AdaptiveColor{
		Light: "#059669",
		Dark:  "#10B981",
	}
	ColorError = lipgloss.AdaptiveColor{
		Light: "#DC2626",
		Dark:  "#EF4444",
	}
	ColorWarning = lipgloss.AdaptiveColor{
		Light: "#D97706",
		Dark:  "#F59E0B",
	}
	ColorMuted = lipgloss.AdaptiveColor{
		Light: "#6B7280",
		Dark:  "#9CA3AF",
	}
)

// Styles groups the styles for one output.
type Styles struct {
	Header  lipgloss.Style
	Passed  lipgloss.Style
	Failed  lipgloss.Style
	Errored lipgloss.Style
	Skipped lipgloss.Style
	Muted   lipgloss.Style
	Bold    lipgloss.Style
}

// NewStyles builds the palette for the renderer's output.
func NewStyles(r *lipgloss.Renderer) Styles {
	return Styles{
		Header:  r.NewStyle().Foreground(ColorPrimary).Bold(true),
		Passed:  r.NewStyle().Foreground(ColorSuccess),
		Failed:  r.NewStyle().Foreground(ColorError),
		Errored: r.NewStyle().Foreground(ColorWarning).Bold(true),
		Skipped: r.NewStyle().Foreground(ColorMuted),
		Muted:   r.NewStyle().Foreground(ColorMuted),
		Bold:    r.NewStyle().Bold(true),
	}
}

// Status returns the style for a case status name.
func (s Styles) Status(status string) lipgloss.Style {
	switch status {
	case "passed":
		return s.Passed
	case "failed":
		return s.Failed
	case "error":
		return s.Errored
	default:
		return s.Skipped
	}
}
