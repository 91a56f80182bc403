package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// palette is the set of styles derived from the active theme.
type palette struct {
	title   lipgloss.Style
	panel   lipgloss.Style
	label   lipgloss.Style
	value   lipgloss.Style
	scene   lipgloss.Style
	rope    lipgloss.Style
	running lipgloss.Style
	paused  lipgloss.Style
	delay   lipgloss.Style
	done    lipgloss.Style
	fault   lipgloss.Style
	hint    lipgloss.Style
}

func newPalette(t Theme) palette {
	return palette{
		title: lipgloss.NewStyle().Bold(true).Foreground(t.Primary),
		panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Muted).
			Padding(0, 1),
		label:   lipgloss.NewStyle().Foreground(t.Muted),
		value:   lipgloss.NewStyle().Bold(true).Foreground(t.Secondary),
		scene:   lipgloss.NewStyle().Foreground(t.Primary),
		rope:    lipgloss.NewStyle().Foreground(t.Accent),
		running: lipgloss.NewStyle().Bold(true).Foreground(t.Success),
		paused:  lipgloss.NewStyle().Bold(true).Foreground(t.Warning),
		delay:   lipgloss.NewStyle().Foreground(t.Warning),
		done:    lipgloss.NewStyle().Bold(true).Foreground(t.Accent),
		fault:   lipgloss.NewStyle().Foreground(t.Error),
		hint:    lipgloss.NewStyle().Foreground(t.Muted).Italic(true),
	}
}

// ProgressBar renders a filled bar of the given width.
func ProgressBar(progress float64, width int, filled, empty lipgloss.Color) string {
	progress = max(0, min(1, progress))
	n := int(progress * float64(width))
	return lipgloss.NewStyle().Foreground(filled).Render(strings.Repeat("█", n)) +
		lipgloss.NewStyle().Foreground(empty).Render(strings.Repeat("░", width-n))
}
