package ui

import "github.com/charmbracelet/lipgloss"

// styles are the lipgloss styles derived from one palette.
type styles struct {
	title    lipgloss.Style
	label    lipgloss.Style
	value    lipgloss.Style
	header   lipgloss.Style
	selected lipgloss.Style
	help     lipgloss.Style
	dim      lipgloss.Style
	ok       lipgloss.Style
	warn     lipgloss.Style
	crit     lipgloss.Style
}

func newStyles(t Theme) styles {
	p := t.palette()
	return styles{
		title:    lipgloss.NewStyle().Bold(true).Foreground(p.Accent),
		label:    lipgloss.NewStyle().Foreground(p.Dim),
		value:    lipgloss.NewStyle().Foreground(p.Fg),
		header:   lipgloss.NewStyle().Foreground(p.Header).Bold(true),
		selected: lipgloss.NewStyle().Background(p.Select).Foreground(p.Fg),
		help:     lipgloss.NewStyle().Foreground(p.Dim),
		dim:      lipgloss.NewStyle().Foreground(p.Dim),
		ok:       lipgloss.NewStyle().Foreground(p.OK),
		warn:     lipgloss.NewStyle().Foreground(p.Warn).Bold(true),
		crit:     lipgloss.NewStyle().Foreground(p.Crit).Bold(true),
	}
}

// pctColor colours a utilisation percentage.
func (s styles) pctColor(pct float64) lipgloss.Style {
	switch {
	case pct >= 80:
		return s.crit
	case pct >= 50:
		return s.warn
	default:
		return s.ok
	}
}
