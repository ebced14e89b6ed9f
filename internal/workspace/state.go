// Package workspace models the remote OpenClaw workspace and extracts typed
// records from its loosely structured markdown documents.
package workspace

import "context"

// Well-known document paths inside the workspace repository.
const (
	PathMemory      = "memory/MEMORY.md"
	PathTodo        = "memory/todo.md"
	PathMonitorLogs = "memory/monitor_logs.md"
	PathLessons     = "memory/lessons_learned.md"
)

// State is a point-in-time snapshot of the four workspace documents.
// A nil field means the document could not be read; that is never an error.
type State struct {
	// Memory is MEMORY.md: architecture, projects and infrastructure notes
	Memory *string

	// Todo is todo.md: checkbox items and tagged blocked items
	Todo *string

	// MonitorLogs is monitor_logs.md, appended to by the monitor agents
	MonitorLogs *string

	// Lessons is lessons_learned.md. Fetched for completeness, unused by the
	// panels and the context bundle.
	Lessons *string
}

// MemoryText returns the memory document or "" when absent.
func (s State) MemoryText() string { return deref(s.Memory) }

// TodoText returns the todo document or "" when absent.
func (s State) TodoText() string { return deref(s.Todo) }

// MonitorText returns the monitor log or "" when absent.
func (s State) MonitorText() string { return deref(s.MonitorLogs) }

// LessonsText returns the lessons document or "" when absent.
func (s State) LessonsText() string { return deref(s.Lessons) }

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// Source retrieves a named file from the workspace.
// Implementations report any failure as absence (ok == false); callers never
// see transport errors.
type Source interface {
	GetFile(ctx context.Context, path string) (string, bool)
}

// Load fetches the four well-known documents from src. Documents that cannot
// be read are left nil; partial results are normal.
func Load(ctx context.Context, src Source) State {
	get := func(path string) *string {
		text, ok := src.GetFile(ctx, path)
		if !ok {
			return nil
		}
		return &text
	}

	return State{
		Memory:      get(PathMemory),
		Todo:        get(PathTodo),
		MonitorLogs: get(PathMonitorLogs),
		Lessons:     get(PathLessons),
	}
}

// StaticSource serves documents from an in-memory map. Paths missing from
// the map are absent.
type StaticSource map[string]string

// GetFile implements Source.
func (s StaticSource) GetFile(_ context.Context, path string) (string, bool) {
	text, ok := s[path]
	return text, ok
}
