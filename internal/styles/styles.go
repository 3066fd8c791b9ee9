package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// --- Color Palette ---
var (
	ColorPrimary   = lipgloss.Color("#7D56F4") // Indigo/Purple
	ColorSecondary = lipgloss.Color("#04B575") // Green
	ColorError     = lipgloss.Color("#FF5F87") // Pink/Red
	ColorWarning   = lipgloss.Color("#FFAF00") // Gold
	ColorSubtle    = lipgloss.Color("#767676") // Gray
	ColorBanner    = lipgloss.Color("#5FD7FF") // Cyan
)

var (
	Title = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true)

	Label  = lipgloss.NewStyle().Foreground(ColorSubtle)
	Value  = lipgloss.NewStyle().Foreground(ColorSecondary).Bold(true)
	Path   = lipgloss.NewStyle().Foreground(ColorWarning)
	Spark  = lipgloss.NewStyle().Foreground(ColorPrimary)
	Error  = lipgloss.NewStyle().Foreground(ColorError).Bold(true)
	Subtle = lipgloss.NewStyle().Foreground(ColorSubtle)
)

// KV renders an aligned "label : value" line.
func KV(label, value string) string {
	return Label.Render(label) + " : " + Value.Render(value)
}
