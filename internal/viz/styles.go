package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// styles are the lipgloss styles of the live view, derived from a Theme.
type styles struct {
	canvas      lipgloss.Style
	panel       lipgloss.Style
	title       lipgloss.Style
	label       lipgloss.Style
	value       lipgloss.Style
	running     lipgloss.Style
	settled     lipgloss.Style
	warning     lipgloss.Style
	graph       lipgloss.Style
	hint        lipgloss.Style
	progressHi  lipgloss.Style
	progressMid lipgloss.Style
	progressLo  lipgloss.Style
}

func newStyles(t Theme) styles {
	return styles{
		canvas: lipgloss.NewStyle().Foreground(t.Node).Padding(1, 2),
		panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder(), false, false, false, true).
			BorderForeground(t.Muted).
			Padding(1, 2).
			Width(40),
		title:       lipgloss.NewStyle().Bold(true).Foreground(t.Accent).MarginBottom(1),
		label:       lipgloss.NewStyle().Foreground(t.Muted).Width(12),
		value:       lipgloss.NewStyle().Foreground(t.Text).Bold(true),
		running:     lipgloss.NewStyle().Bold(true).Foreground(t.Success),
		settled:     lipgloss.NewStyle().Bold(true).Foreground(t.Accent),
		warning:     lipgloss.NewStyle().Bold(true).Foreground(t.Warning),
		graph:       lipgloss.NewStyle().Foreground(t.Edge).Padding(1, 0),
		hint:        lipgloss.NewStyle().Foreground(t.Muted).Italic(true).MarginTop(1),
		progressHi:  lipgloss.NewStyle().Foreground(t.Warning),
		progressMid: lipgloss.NewStyle().Foreground(t.Accent),
		progressLo:  lipgloss.NewStyle().Foreground(t.Success),
	}
}

// progressBar renders a bar filled to percent of width. Hot values render
// in the warning color and cool ones in the success color.
func (s styles) progressBar(percent float64, width int) string {
	filled := int(percent * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	switch {
	case percent > 0.5:
		return s.progressHi.Render(bar)
	case percent > 0.1:
		return s.progressMid.Render(bar)
	}
	return s.progressLo.Render(bar)
}

// row renders one label/value line of the stats panel.
func (s styles) row(label, value string) string {
	return s.label.Render(label) + s.value.Render(value) + "\n"
}
