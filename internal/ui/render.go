package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/faegents/openclaw/internal/panel"
)

// MinWidth is the narrowest box that is sized explicitly. Narrower
// requests render at natural width.
const MinWidth = 12

// frame is the horizontal space a box spends on border and padding.
const frame = 4

// Cell renders one cell in its tone.
func (s Styles) Cell(c panel.Cell) string {
	if c.Text == "" {
		return ""
	}
	return s.tone(c.Tone).Render(c.Text)
}

// Row renders marker, label and detail on one line.
func (s Styles) Row(r panel.Row) string {
	var b strings.Builder
	if r.Marker.Text != "" {
		b.WriteString(s.Cell(r.Marker))
		b.WriteString(" ")
	}
	b.WriteString(s.Cell(r.Label))
	if r.Detail.Text != "" {
		b.WriteString(s.Dim.Render(": "))
		b.WriteString(s.Cell(r.Detail))
	}
	return b.String()
}

// TitleLine renders the panel title with its count, if any.
func (s Styles) TitleLine(p panel.Panel) string {
	title := s.Title.Foreground(s.Theme.Color(p.Style)).Render(p.Title)
	if p.Count != "" {
		title += " " + s.Count.Render("("+p.Count+")")
	}
	return title
}

// Panel renders p as a rounded box. width and height are the outer size
// including the border; zero means natural size. Rows that do not fit are
// cut, never wrapped.
func (s Styles) Panel(p panel.Panel, width, height int) string {
	if p.Style == panel.StyleHeader {
		return s.Header(p, width)
	}

	lines := []string{s.TitleLine(p)}
	if p.Empty() {
		lines = append(lines, s.Placeholder.Render(p.Placeholder))
	} else {
		for _, r := range p.Rows {
			lines = append(lines, s.Row(r))
		}
	}

	box := s.Box.BorderForeground(s.Theme.Color(p.Style))
	if width >= MinWidth {
		box = box.Width(width - 2)
		for i, line := range lines {
			lines[i] = ansi.Truncate(line, width-frame, "…")
		}
	}
	if height > 2 {
		inner := height - 2
		if len(lines) > inner {
			lines = lines[:inner]
		}
		box = box.Height(inner)
	}

	return box.Render(strings.Join(lines, "\n"))
}

// Header renders the banner as a single bordered line, three rows tall.
func (s Styles) Header(p panel.Panel, width int) string {
	parts := []string{s.Title.Foreground(s.Theme.Header).Render(p.Title)}
	for _, r := range p.Rows {
		if r.Label.Text != "" {
			parts = append(parts, s.Cell(r.Label))
		}
		if r.Detail.Text != "" {
			parts = append(parts, s.Cell(r.Detail))
		}
	}
	line := strings.Join(parts, " · ")
	if p.Subtitle != "" {
		line += "  " + s.Subtitle.Render(p.Subtitle)
	}

	box := s.HeaderBox
	if width >= MinWidth {
		box = box.Width(width - 2)
		line = ansi.Truncate(line, width-frame, "…")
	}
	return box.Render(line)
}

// Columns renders panels side by side, splitting width evenly. The last
// panel takes any remainder.
func (s Styles) Columns(panels []panel.Panel, width, height int) string {
	if len(panels) == 0 {
		return ""
	}
	boxes := make([]string, 0, len(panels))
	each := width / len(panels)
	for i, p := range panels {
		w := each
		if i == len(panels)-1 {
			w = width - each*(len(panels)-1)
		}
		boxes = append(boxes, s.Panel(p, w, height))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, boxes...)
}
