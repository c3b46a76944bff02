package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Dark theme built around the brand blue.
const (
	brandBlue   = "#2D5CAE"
	lightBlue   = "#5D98FF"
	textPrimary = "#E0E0E0"
	textMuted   = "#626262"
	green       = "#66BB6A"
	red         = "#F44336"
	orange      = "#FFA726"
)

var styles = NewPalette(lightBlue, green, red, orange, textMuted)

// struct Palette is a simple stylesheet built with named [lipgloss.Style] fields
type Palette struct {
	title    lipgloss.Style
	ok       lipgloss.Style
	err      lipgloss.Style
	warn     lipgloss.Style
	help     lipgloss.Style
	brand    lipgloss.Style
	active   lipgloss.Style
	inactive lipgloss.Style
	avatar   lipgloss.Style
	heading  lipgloss.Style
}

func NewPalette(t, s, e, w, h string) *Palette {
	return &Palette{
		title:    NewBold(t).MarginBottom(1),
		ok:       NewBold(s),
		err:      NewBold(e),
		warn:     NewStyle(w),
		help:     NewEm(h),
		brand:    NewBold(textPrimary).Background(lipgloss.Color(brandBlue)).Padding(0, 1),
		active:   NewBold(t).Underline(true),
		inactive: NewStyle(h),
		avatar: NewBold(textPrimary).
			Background(lipgloss.Color(brandBlue)).
			Padding(0, 1),
		heading: NewBold(textPrimary).MarginTop(1),
	}
}

func NewStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

func NewBold(fg string) lipgloss.Style {
	return NewStyle(fg).Bold(true)
}

func NewEm(fg string) lipgloss.Style {
	return NewStyle(fg).Italic(true)
}
