// Package panel turns extracted workspace records into renderer-neutral
// panel descriptions: a title, an optional count, rows or a placeholder,
// and a style tag the renderer maps to colours.
package panel

import (
	"fmt"
	"time"

	"github.com/mattn/go-runewidth"

	"github.com/faegents/openclaw/internal/workspace"
)

// Style tags a panel for presentation only.
type Style string

const (
	StyleHeader   Style = "header"
	StyleProjects Style = "projects"
	StyleTodo     Style = "todo"
	StyleActivity Style = "activity"
)

// Tone is a per-cell emphasis hint.
type Tone string

const (
	ToneNormal Tone = ""
	ToneBold   Tone = "bold"
	ToneDim    Tone = "dim"
	ToneAccent Tone = "accent"
	ToneWarn   Tone = "warn"
	ToneAlert  Tone = "alert"
	ToneOK     Tone = "ok"
)

// Cell is a piece of text with a tone.
type Cell struct {
	Text string `json:"text"`
	Tone Tone   `json:"tone,omitempty"`
}

// Row is one line of a panel body: a short marker column, a label and an
// optional detail column.
type Row struct {
	Marker Cell `json:"marker"`
	Label  Cell `json:"label"`
	Detail Cell `json:"detail"`
}

// Panel describes one box of the dashboard.
type Panel struct {
	Title       string `json:"title"`
	Subtitle    string `json:"subtitle,omitempty"`
	Count       string `json:"count,omitempty"`
	Style       Style  `json:"style"`
	Rows        []Row  `json:"rows,omitempty"`
	Placeholder string `json:"placeholder,omitempty"`
}

// Empty reports whether the panel shows its placeholder instead of rows.
func (p Panel) Empty() bool {
	return len(p.Rows) == 0
}

// Placeholders shown when a record list is empty.
const (
	NoProjects = "No projects found"
	NoTodo     = "All clear — no items tracked"
	NoActivity = "No monitor activity available"
)

// ItemWidth is the display width todo text is truncated to.
const ItemWidth = 72

// Ellipsis marks truncated text.
const Ellipsis = "..."

// Glyphs per todo status. Unknown statuses render FallbackGlyph.
var statusGlyphs = map[workspace.TodoStatus]Cell{
	workspace.StatusOpen:    {Text: "☐", Tone: ToneWarn},
	workspace.StatusBlocked: {Text: "⛔", Tone: ToneAlert},
	workspace.StatusDone:    {Text: "✓", Tone: ToneOK},
}

// FallbackGlyph marks a todo item whose status has no glyph.
const FallbackGlyph = "?"

// Glyph returns the marker cell for a todo status.
func Glyph(status workspace.TodoStatus) Cell {
	if g, ok := statusGlyphs[status]; ok {
		return g
	}
	return Cell{Text: FallbackGlyph}
}

// Truncate shortens s to width display columns, ending in "..." when cut.
// Wide runes count as two columns and are never split.
func Truncate(s string, width int) string {
	return runewidth.Truncate(s, width, Ellipsis)
}

// HeaderTimeFormat is the header clock format.
const HeaderTimeFormat = "2006-01-02 15:04 UTC"

// Header builds the banner panel. subtitle is shown after the clock when set.
func Header(subtitle string, now time.Time) Panel {
	return Panel{
		Title:    "OpenClaw",
		Subtitle: subtitle,
		Style:    StyleHeader,
		Rows: []Row{{
			Label:  Cell{Text: "Command Center"},
			Detail: Cell{Text: now.UTC().Format(HeaderTimeFormat), Tone: ToneDim},
		}},
	}
}

// Projects builds the projects panel.
func Projects(projects []workspace.Project) Panel {
	p := Panel{Title: "Projects", Style: StyleProjects}
	if len(projects) == 0 {
		p.Placeholder = NoProjects
		return p
	}

	p.Rows = make([]Row, 0, len(projects))
	for _, proj := range projects {
		p.Rows = append(p.Rows, Row{
			Marker: Cell{Text: "•", Tone: ToneAccent},
			Label:  Cell{Text: proj.Name, Tone: ToneBold},
			Detail: Cell{Text: proj.Description, Tone: ToneDim},
		})
	}
	return p
}

// Todo builds the open issues panel. Every item passed in is rendered, and
// the title count is computed from the same slice.
func Todo(items []workspace.TodoItem) Panel {
	p := Panel{Title: "Open Issues", Style: StyleTodo}
	if len(items) == 0 {
		p.Placeholder = NoTodo
		return p
	}

	p.Count = fmt.Sprintf("%d open / %d total", CountOpen(items), len(items))
	p.Rows = make([]Row, 0, len(items))
	for _, item := range items {
		label := Cell{Text: Truncate(item.Text, ItemWidth)}
		if item.Status == workspace.StatusDone {
			label.Tone = ToneDim
		}
		p.Rows = append(p.Rows, Row{
			Marker: Glyph(item.Status),
			Label:  label,
		})
	}
	return p
}

// CountOpen counts items that still need attention (open or blocked).
func CountOpen(items []workspace.TodoItem) int {
	n := 0
	for _, item := range items {
		if item.Status == workspace.StatusOpen || item.Status == workspace.StatusBlocked {
			n++
		}
	}
	return n
}

// Unresolved returns the open and blocked items, in order.
func Unresolved(items []workspace.TodoItem) []workspace.TodoItem {
	out := make([]workspace.TodoItem, 0, len(items))
	for _, item := range items {
		if item.Status == workspace.StatusOpen || item.Status == workspace.StatusBlocked {
			out = append(out, item)
		}
	}
	return out
}

// Activity builds the agent activity panel. Markdown headings in the log
// are dimmed.
func Activity(lines []string) Panel {
	p := Panel{Title: "Agent Activity", Style: StyleActivity}
	if len(lines) == 0 {
		p.Placeholder = NoActivity
		return p
	}

	p.Rows = make([]Row, 0, len(lines))
	for _, line := range lines {
		label := Cell{Text: line}
		if len(line) > 0 && line[0] == '#' {
			label.Tone = ToneDim
		}
		p.Rows = append(p.Rows, Row{Label: label})
	}
	return p
}
