package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme selects a colour palette.
type Theme int

const (
	ThemeDark Theme = iota
	ThemeLight
	ThemeDracula
	themeCount
)

var themeNames = [themeCount]string{"dark", "light", "dracula"}

// palette is the set of colours a theme provides.
type palette struct {
	Fg     lipgloss.Color
	Dim    lipgloss.Color
	Accent lipgloss.Color
	Header lipgloss.Color
	Select lipgloss.Color
	OK     lipgloss.Color
	Warn   lipgloss.Color
	Crit   lipgloss.Color
}

var palettes = [themeCount]palette{
	ThemeDark: {
		Fg:     lipgloss.Color("#E0E0E0"),
		Dim:    lipgloss.Color("#808080"),
		Accent: lipgloss.Color("#5FAFFF"),
		Header: lipgloss.Color("#AFAFFF"),
		Select: lipgloss.Color("#3A3A3A"),
		OK:     lipgloss.Color("#5FD75F"),
		Warn:   lipgloss.Color("#FFD75F"),
		Crit:   lipgloss.Color("#FF5F5F"),
	},
	ThemeLight: {
		Fg:     lipgloss.Color("#1C1C1C"),
		Dim:    lipgloss.Color("#6C6C6C"),
		Accent: lipgloss.Color("#005FAF"),
		Header: lipgloss.Color("#5F00AF"),
		Select: lipgloss.Color("#D0D0D0"),
		OK:     lipgloss.Color("#008700"),
		Warn:   lipgloss.Color("#AF8700"),
		Crit:   lipgloss.Color("#D70000"),
	},
	ThemeDracula: {
		Fg:     lipgloss.Color("#F8F8F2"),
		Dim:    lipgloss.Color("#6272A4"),
		Accent: lipgloss.Color("#8BE9FD"),
		Header: lipgloss.Color("#FF79C6"),
		Select: lipgloss.Color("#44475A"),
		OK:     lipgloss.Color("#50FA7B"),
		Warn:   lipgloss.Color("#F1FA8C"),
		Crit:   lipgloss.Color("#FF5555"),
	},
}

func (t Theme) String() string {
	if t < 0 || t >= themeCount {
		return "unknown"
	}
	return themeNames[t]
}

// Next returns the theme after t, wrapping around.
func (t Theme) Next() Theme {
	return (t + 1) % themeCount
}

// ParseTheme looks a theme up by name. Unknown names fall back to dark.
func ParseTheme(name string) (Theme, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range themeNames {
		if n == name {
			return Theme(i), true
		}
	}
	return ThemeDark, false
}

func (t Theme) palette() palette {
	if t < 0 || t >= themeCount {
		return palettes[ThemeDark]
	}
	return palettes[t]
}
