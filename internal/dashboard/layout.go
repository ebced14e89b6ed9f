// Package dashboard arranges the panels into the static and live layouts
// and drives the refreshing full-screen view.
package dashboard

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/faegents/openclaw/internal/panel"
	"github.com/faegents/openclaw/internal/ui"
	"github.com/faegents/openclaw/internal/workspace"
)

// Layout constants.
const (
	StaticActivityLines = 20
	LiveActivityLines   = 15
	HeaderSize          = 3
	LiveSubtitle        = "● LIVE"
)

// Options tunes a layout build. Zero values select the mode defaults.
type Options struct {
	Now           time.Time
	TodoLimit     int
	ActivityLines int
	Subtitle      string
}

func (o Options) withDefaults(lines int) Options {
	if o.Now.IsZero() {
		o.Now = time.Now()
	}
	if o.ActivityLines <= 0 {
		o.ActivityLines = lines
	}
	return o
}

// Layout is the static dashboard: a header, projects and issues side by
// side, and activity beneath.
type Layout struct {
	Header   panel.Panel
	Projects panel.Panel
	Todo     panel.Panel
	Activity panel.Panel
}

// Static composes the one-shot dashboard from state.
func Static(state workspace.State, opts Options) Layout {
	opts = opts.withDefaults(StaticActivityLines)
	return Layout{
		Header:   panel.Header(opts.Subtitle, opts.Now),
		Projects: panel.Projects(workspace.ExtractProjects(state.MemoryText())),
		Todo:     panel.Todo(workspace.ExtractTodo(state.TodoText(), opts.TodoLimit)),
		Activity: panel.Activity(workspace.ExtractActivity(state.MonitorText(), opts.ActivityLines)),
	}
}

// Render draws the layout at the given width.
func (l Layout) Render(s ui.Styles, width int) string {
	return lipgloss.JoinVertical(lipgloss.Left,
		s.Panel(l.Header, width, 0),
		s.Columns([]panel.Panel{l.Projects, l.Todo}, width, 0),
		s.Panel(l.Activity, width, 0),
	)
}

// Direction is how a region arranges its children.
type Direction int

const (
	// Vertical stacks children top to bottom.
	Vertical Direction = iota
	// Horizontal places children left to right.
	Horizontal
)

// Region is a node of the live screen. A region either holds a panel or
// splits its space among children. Size fixes the extent along the parent's
// direction; otherwise Ratio shares what remains.
type Region struct {
	Name     string
	Size     int
	Ratio    int
	Split    Direction
	Panel    *panel.Panel
	Children []*Region
}

// Live composes the full-screen region tree: a fixed header over a body of
// two equal rows, projects and issues on top, activity below.
func Live(state workspace.State, opts Options) *Region {
	opts = opts.withDefaults(LiveActivityLines)
	if opts.Subtitle == "" {
		opts.Subtitle = LiveSubtitle
	}

	header := panel.Header(opts.Subtitle, opts.Now)
	projects := panel.Projects(workspace.ExtractProjects(state.MemoryText()))
	todo := panel.Todo(workspace.ExtractTodo(state.TodoText(), opts.TodoLimit))
	activity := panel.Activity(workspace.ExtractActivity(state.MonitorText(), opts.ActivityLines))

	return &Region{
		Name:  "root",
		Split: Vertical,
		Children: []*Region{
			{Name: "header", Size: HeaderSize, Panel: &header},
			{
				Name:  "body",
				Ratio: 1,
				Split: Vertical,
				Children: []*Region{
					{
						Name:  "top",
						Ratio: 1,
						Split: Horizontal,
						Children: []*Region{
							{Name: "projects", Ratio: 1, Panel: &projects},
							{Name: "issues", Ratio: 1, Panel: &todo},
						},
					},
					{Name: "activity", Ratio: 1, Panel: &activity},
				},
			},
		},
	}
}

// Find returns the first region named name, depth first.
func (r *Region) Find(name string) *Region {
	if r == nil {
		return nil
	}
	if r.Name == name {
		return r
	}
	for _, c := range r.Children {
		if found := c.Find(name); found != nil {
			return found
		}
	}
	return nil
}

// Render draws the region into a width x height block.
func (r *Region) Render(s ui.Styles, width, height int) string {
	if r.Panel != nil {
		return s.Panel(*r.Panel, width, height)
	}
	if len(r.Children) == 0 {
		return lipgloss.NewStyle().Width(width).Height(height).Render("")
	}

	total := height
	if r.Split == Horizontal {
		total = width
	}
	sizes := allocate(total, r.Children)

	parts := make([]string, 0, len(r.Children))
	for i, c := range r.Children {
		if sizes[i] <= 0 {
			continue
		}
		if r.Split == Horizontal {
			parts = append(parts, c.Render(s, sizes[i], height))
		} else {
			parts = append(parts, c.Render(s, width, sizes[i]))
		}
	}

	if r.Split == Horizontal {
		return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
	}
	return strings.Join(parts, "\n")
}

// allocate splits total among children: fixed sizes first, the rest by
// ratio. The last flexible child absorbs rounding.
func allocate(total int, children []*Region) []int {
	sizes := make([]int, len(children))
	rest := total
	ratios := 0
	lastFlex := -1
	for i, c := range children {
		if c.Size > 0 {
			sizes[i] = min(c.Size, max(rest, 0))
			rest -= sizes[i]
			continue
		}
		ratios += max(c.Ratio, 1)
		lastFlex = i
	}
	if rest <= 0 || lastFlex < 0 {
		return sizes
	}

	given := 0
	for i, c := range children {
		if c.Size > 0 {
			continue
		}
		if i == lastFlex {
			sizes[i] = rest - given
			break
		}
		sizes[i] = rest * max(c.Ratio, 1) / ratios
		given += sizes[i]
	}
	return sizes
}
