package workspace

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Extraction limits.
const (
	// ProjectDescriptionMax caps a project description, in characters
	ProjectDescriptionMax = 60

	// MaxTodoItems is the most todo items ever retained
	MaxTodoItems = 30
)

// ProjectsHeader opens the section of MEMORY.md that lists projects.
const ProjectsHeader = "## Projects"

// Project is one "- **Name**: description" entry of the projects section.
type Project struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// TodoStatus is the state of a todo item.
type TodoStatus string

const (
	StatusOpen    TodoStatus = "open"
	StatusDone    TodoStatus = "done"
	StatusBlocked TodoStatus = "blocked"
)

// TodoItem is one classified line of todo.md.
type TodoItem struct {
	Status TodoStatus `json:"status"`
	Text   string     `json:"text"`
}

// ExtractProjects returns the projects listed under "## Projects" in a
// memory document, in document order. Capture stops at the next "## "
// header. Lines in the section that are not bold bullets are ignored.
// Duplicate names are kept.
func ExtractProjects(doc string) []Project {
	projects := make([]Project, 0)
	inSection := false

	for _, line := range Lines(doc) {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, ProjectsHeader) {
			inSection = true
			continue
		}
		if !inSection {
			continue
		}
		if strings.HasPrefix(line, "## ") {
			break
		}
		if !strings.HasPrefix(trimmed, "- **") {
			continue
		}

		name, rest := splitBold(trimmed)
		desc := strings.TrimSpace(strings.TrimLeft(rest, ":"))
		projects = append(projects, Project{
			Name:        name,
			Description: FirstChars(desc, ProjectDescriptionMax),
		})
	}

	return projects
}

// markdown is shared by splitBold; goldmark parsers are safe for reuse.
var markdown = goldmark.New()

// splitBold returns the text of the first bold span in line and whatever
// follows its closing delimiter. Goldmark decides what counts as bold; when
// it finds none (e.g. "- ** Name**") the line is split on "**" instead.
func splitBold(line string) (name, rest string) {
	src := []byte(line)
	doc := markdown.Parser().Parse(text.NewReader(src))

	var strong *ast.Emphasis
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if e, ok := n.(*ast.Emphasis); ok && e.Level == 2 {
			strong = e
			return ast.WalkStop, nil
		}
		return ast.WalkContinue, nil
	})

	if strong != nil {
		start, stop := -1, -1
		_ = ast.Walk(strong, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
			if t, ok := n.(*ast.Text); ok && entering {
				if start < 0 {
					start = t.Segment.Start
				}
				stop = t.Segment.Stop
			}
			return ast.WalkContinue, nil
		})
		// Text segments exclude code span backticks, so widen to the
		// delimiters themselves.
		if start >= 0 {
			if open := strings.LastIndex(line[:start], "**"); open >= 0 {
				start = open + 2
			}
			if idx := strings.Index(line[stop:], "**"); idx >= 0 {
				return line[start : stop+idx], line[stop+idx+2:]
			}
		}
	}

	parts := strings.Split(line, "**")
	switch {
	case len(parts) >= 3:
		return parts[1], parts[2]
	case len(parts) == 2:
		return parts[1], ""
	default:
		return line, ""
	}
}

// blockedTags mark an item as waiting on the operator, whatever its checkbox says.
var blockedTags = []string{"[USER-ACTION-REQUIRED]", "[PENDING", "[OPEN INFRA"}

// todoRule classifies a trimmed todo line. Rules are tried in order and the
// first match wins.
type todoRule struct {
	status TodoStatus
	match  func(line string) bool
	text   func(line string) string
}

// todoRules puts the blocked-tag rule first: a checked or unchecked box that
// also carries a blocked tag is blocked.
var todoRules = []todoRule{
	{
		status: StatusBlocked,
		match: func(line string) bool {
			for _, tag := range blockedTags {
				if strings.Contains(line, tag) {
					return true
				}
			}
			return false
		},
		text: func(line string) string {
			return strings.TrimSpace(strings.TrimLeft(line, "- "))
		},
	},
	{
		status: StatusOpen,
		match:  func(line string) bool { return strings.HasPrefix(line, "- [ ]") },
		text:   stripCheckbox,
	},
	{
		status: StatusDone,
		match: func(line string) bool {
			return strings.HasPrefix(line, "- [x]") || strings.HasPrefix(line, "- [X]")
		},
		text: stripCheckbox,
	},
}

// stripCheckbox removes the "- [ ]" style marker and surrounding space.
func stripCheckbox(line string) string {
	return strings.TrimSpace(line[len("- [ ]"):])
}

// ClassifyTodo classifies one line of todo.md. ok is false for lines that
// match no rule; those are dropped by ExtractTodo.
func ClassifyTodo(line string) (item TodoItem, ok bool) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return TodoItem{}, false
	}
	for _, rule := range todoRules {
		if rule.match(trimmed) {
			return TodoItem{Status: rule.status, Text: rule.text(trimmed)}, true
		}
	}
	return TodoItem{}, false
}

// ExtractTodo classifies every line of a todo document and keeps the first
// limit items in document order. limit is clamped to 1..MaxTodoItems;
// zero or negative means MaxTodoItems.
func ExtractTodo(doc string, limit int) []TodoItem {
	if limit <= 0 || limit > MaxTodoItems {
		limit = MaxTodoItems
	}

	items := make([]TodoItem, 0)
	for _, line := range Lines(doc) {
		item, ok := ClassifyTodo(line)
		if !ok {
			continue
		}
		items = append(items, item)
		if len(items) == limit {
			break
		}
	}
	return items
}

// ExtractActivity returns the last n non-blank lines of a monitor log,
// oldest first.
func ExtractActivity(doc string, n int) []string {
	lines := make([]string, 0)
	if n <= 0 {
		return lines
	}
	for _, line := range Lines(doc) {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return lines
}
