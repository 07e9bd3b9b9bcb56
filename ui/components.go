package ui

import (
	"strings"

	"github.com/c2h5oh/datasize"
	"github.com/charmbracelet/lipgloss"
)

// fmtBytes renders a byte count the way datasize does, e.g. "1.2 GB".
func fmtBytes(b uint64) string {
	return datasize.ByteSize(b).HumanReadable()
}

// bar renders a horizontal utilisation bar of width cells.
func (s styles) bar(pct float64, width int) string {
	if width < 1 {
		return ""
	}
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	filled := int(pct / 100 * float64(width))
	return s.pctColor(pct).Render(strings.Repeat("█", filled)) +
		s.dim.Render(strings.Repeat("░", width-filled))
}

func padRight(s string, width int) string {
	w := lipgloss.Width(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}

func padLeft(s string, width int) string {
	w := lipgloss.Width(s)
	if w >= width {
		return s
	}
	return strings.Repeat(" ", width-w) + s
}

func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 1 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-1]) + "…"
}
