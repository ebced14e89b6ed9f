// Package ui maps panel styles and tones onto lipgloss styles and renders
// panels as bordered boxes.
package ui

import (
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/term"

	"github.com/faegents/openclaw/internal/panel"
)

// ANSI palette. Numbered colours follow the user's terminal scheme.
var (
	Cyan    = lipgloss.Color("6")
	Yellow  = lipgloss.Color("3")
	Green   = lipgloss.Color("2")
	Red     = lipgloss.Color("1")
	Magenta = lipgloss.Color("5")
	Grey    = lipgloss.Color("8")
)

// Theme holds the colour per panel style and per tone.
type Theme struct {
	Header   lipgloss.Color
	Projects lipgloss.Color
	Todo     lipgloss.Color
	Activity lipgloss.Color
	Muted    lipgloss.Color
	Alert    lipgloss.Color
	OK       lipgloss.Color
	Live     lipgloss.Color
}

// DefaultTheme returns the dashboard colours.
func DefaultTheme() Theme {
	return Theme{
		Header:   Magenta,
		Projects: Cyan,
		Todo:     Yellow,
		Activity: Green,
		Muted:    Grey,
		Alert:    Red,
		OK:       Green,
		Live:     Green,
	}
}

// Styles holds the styled components derived from a Theme.
type Styles struct {
	Theme Theme

	Box         lipgloss.Style
	HeaderBox   lipgloss.Style
	Title       lipgloss.Style
	Count       lipgloss.Style
	Placeholder lipgloss.Style
	Subtitle    lipgloss.Style
	Footer      lipgloss.Style

	Bold   lipgloss.Style
	Dim    lipgloss.Style
	Accent lipgloss.Style
	Warn   lipgloss.Style
	Alert  lipgloss.Style
	OK     lipgloss.Style
}

// NewStyles builds Styles for theme.
func NewStyles(theme Theme) Styles {
	return Styles{
		Theme: theme,

		Box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1),

		HeaderBox: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Header).
			Align(lipgloss.Center).
			Padding(0, 1),

		Title:       lipgloss.NewStyle().Bold(true),
		Count:       lipgloss.NewStyle().Foreground(theme.Muted),
		Placeholder: lipgloss.NewStyle().Foreground(theme.Muted).Italic(true),
		Subtitle:    lipgloss.NewStyle().Foreground(theme.Live).Bold(true),
		Footer:      lipgloss.NewStyle().Foreground(theme.Muted).Padding(0, 1),

		Bold:   lipgloss.NewStyle().Bold(true),
		Dim:    lipgloss.NewStyle().Faint(true),
		Accent: lipgloss.NewStyle().Foreground(theme.Projects),
		Warn:   lipgloss.NewStyle().Foreground(theme.Todo),
		Alert:  lipgloss.NewStyle().Foreground(theme.Alert).Bold(true),
		OK:     lipgloss.NewStyle().Foreground(theme.OK),
	}
}

// DefaultStyles returns NewStyles(DefaultTheme()).
func DefaultStyles() Styles {
	return NewStyles(DefaultTheme())
}

// Color returns the border and title colour for a panel style.
func (t Theme) Color(style panel.Style) lipgloss.Color {
	switch style {
	case panel.StyleHeader:
		return t.Header
	case panel.StyleProjects:
		return t.Projects
	case panel.StyleTodo:
		return t.Todo
	case panel.StyleActivity:
		return t.Activity
	default:
		return t.Muted
	}
}

// tone returns the style for a cell tone.
func (s Styles) tone(t panel.Tone) lipgloss.Style {
	switch t {
	case panel.ToneBold:
		return s.Bold
	case panel.ToneDim:
		return s.Dim
	case panel.ToneAccent:
		return s.Accent
	case panel.ToneWarn:
		return s.Warn
	case panel.ToneAlert:
		return s.Alert
	case panel.ToneOK:
		return s.OK
	default:
		return lipgloss.NewStyle()
	}
}

// TerminalWidth returns the width of stdout, then $COLUMNS, then def.
func TerminalWidth(def int) int {
	if w, _, err := term.GetSize(os.Stdout.Fd()); err == nil && w > 0 {
		return w
	}
	if n, err := strconv.Atoi(os.Getenv("COLUMNS")); err == nil && n > 0 {
		return n
	}
	return def
}
