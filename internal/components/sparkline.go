package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var levels = []string{" ", "▁", "▂", "▃", "▄", "▅", "▆", "▇", "█"}

// Sparkline renders a fixed series on one line, scaled between Min and Max.
type Sparkline struct {
	Data  []uint64
	Width int
	Min   uint64
	Max   uint64
	Style lipgloss.Style
	Label string
}

func NewSparkline(width int, label string, style lipgloss.Style) Sparkline {
	return Sparkline{
		Width: width,
		Label: label,
		Style: style,
	}
}

// Set replaces the series. Values beyond Width are dropped from the front.
func (s *Sparkline) Set(data []uint64) {
	if len(data) > s.Width {
		data = data[len(data)-s.Width:]
	}
	s.Data = append(s.Data[:0], data...)
}

func (s Sparkline) level(v uint64) string {
	if s.Max <= s.Min {
		return levels[len(levels)-1]
	}
	if v <= s.Min {
		return levels[1]
	}
	pct := float64(v-s.Min) / float64(s.Max-s.Min)
	idx := 1 + int(pct*float64(len(levels)-2))
	if idx >= len(levels) {
		idx = len(levels) - 1
	}
	return levels[idx]
}

func (s Sparkline) View() string {
	if s.Width <= 0 {
		return ""
	}

	var graph strings.Builder
	for _, v := range s.Data {
		graph.WriteString(s.level(v))
	}

	// Pad if not full
	if pad := s.Width - len(s.Data); pad > 0 {
		graph.WriteString(strings.Repeat(" ", pad))
	}

	out := s.Style.Render(graph.String())
	if s.Label != "" {
		out = s.Label + " " + out
	}
	return out
}
