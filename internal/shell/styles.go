package shell

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

const (
	colorPink   lipgloss.Color = "#f5c2e7"
	colorGreen  lipgloss.Color = "#a6e3a1"
	colorRed    lipgloss.Color = "#f38ba8"
	colorYellow lipgloss.Color = "#f9e2af"
	colorTeal   lipgloss.Color = "#94e2d5"
	colorSubtle lipgloss.Color = "#a6adc8"
)

type styles struct {
	title   lipgloss.Style
	heading lipgloss.Style
	option  lipgloss.Style
	label   lipgloss.Style
	amount  lipgloss.Style
	success lipgloss.Style
	warning lipgloss.Style
	failure lipgloss.Style
}

// newStyles binds every style to a renderer for w, so colors are dropped
// when w is not a terminal.
func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		title:   r.NewStyle().Bold(true).Foreground(colorPink),
		heading: r.NewStyle().Bold(true),
		option:  r.NewStyle().Foreground(colorTeal),
		label:   r.NewStyle().Foreground(colorSubtle),
		amount:  r.NewStyle().Bold(true),
		success: r.NewStyle().Foreground(colorGreen),
		warning: r.NewStyle().Foreground(colorYellow),
		failure: r.NewStyle().Foreground(colorRed),
	}
}
