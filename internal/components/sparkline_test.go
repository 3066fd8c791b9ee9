package components

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/require"
)

func TestSparkline_Scales(t *testing.T) {
	s := NewSparkline(4, "", lipgloss.NewStyle())
	s.Min, s.Max = 500, 2000
	s.Set([]uint64{0, 500, 1250, 2000})
	require.Equal(t, "▁▁▄█", s.View())
}

func TestSparkline_FlatRange(t *testing.T) {
	s := NewSparkline(3, "", lipgloss.NewStyle())
	s.Min, s.Max = 1000, 1000
	s.Set([]uint64{1000, 1000})
	require.Equal(t, "██ ", s.View())
}

func TestSparkline_KeepsTail(t *testing.T) {
	s := NewSparkline(2, "bw", lipgloss.NewStyle())
	s.Min, s.Max = 0, 10
	s.Set([]uint64{0, 0, 10, 10})
	require.Equal(t, []uint64{10, 10}, s.Data)
	require.Equal(t, "bw ██", s.View())
}
