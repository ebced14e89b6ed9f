// Package prompt assembles the system context the assistant receives at the
// start of a chat session.
package prompt

import (
	"encoding/json"
	"strings"
	"text/template"

	"github.com/faegents/openclaw/internal/errors"
	"github.com/faegents/openclaw/internal/workspace"
)

// Segment bounds.
const (
	MemoryChars  = 4000
	TodoChars    = 2000
	MonitorLines = 60
)

// Unavailable replaces a segment whose document is absent or empty.
const Unavailable = "Unavailable"

// Part names.
const (
	PartMemory  = "memory"
	PartTodo    = "todo"
	PartMonitor = "monitor_logs"
)

const systemTemplate = `You are OpenClaw, an autonomous AI orchestrator managing a developer workspace running in a Docker container on a remote VPS. You coordinate multiple AI agents (HEARTBEAT, Engineering, Self-Improvement, Todo, Code Hygiene, Dashboard) that maintain projects, monitor system health, and perform self-improvement.

You have access to the following live workspace context:

## MEMORY.md (Architecture, Projects & Infrastructure)
{{.Memory}}

## Open TODO Items
{{.Todo}}

## Recent Monitor Activity (last {{.MonitorLines}} lines)
{{.Monitor}}

Answer questions accurately and concisely. You know the full system architecture, active projects, open issues, and infrastructure state. For actions that require container access (restarting processes, running git commands, etc.), explain what would need to be done but clarify that direct execution requires container access.`

var system = template.Must(template.New("system").Parse(systemTemplate))

// Part is one bounded segment of the bundle.
type Part struct {
	Name      string `json:"name"`
	Text      string `json:"text"`
	Chars     int    `json:"chars"`
	Available bool   `json:"available"`
}

// Bundle is the assembled system context.
type Bundle struct {
	Parts []Part `json:"parts"`
	Text  string `json:"-"`
	Chars int    `json:"chars"`
}

// NewBundle bounds each workspace document and interpolates the result into
// the system template. It reads state only.
func NewBundle(state workspace.State) Bundle {
	memory := bounded(PartMemory, state.MemoryText(), func(s string) string {
		return workspace.FirstChars(s, MemoryChars)
	})
	todo := bounded(PartTodo, state.TodoText(), func(s string) string {
		return workspace.FirstChars(s, TodoChars)
	})
	monitor := bounded(PartMonitor, state.MonitorText(), func(s string) string {
		return workspace.LastLines(s, MonitorLines)
	})

	var sb strings.Builder
	// The template is fixed and its data is plain strings; Execute cannot fail.
	_ = system.Execute(&sb, struct {
		Memory, Todo, Monitor string
		MonitorLines          int
	}{memory.Text, todo.Text, monitor.Text, MonitorLines})

	text := sb.String()
	return Bundle{
		Parts: []Part{memory, todo, monitor},
		Text:  text,
		Chars: workspace.CountChars(text),
	}
}

// BuildContext returns the system text for state.
func BuildContext(state workspace.State) string {
	return NewBundle(state).Text
}

func bounded(name, doc string, bound func(string) string) Part {
	text := bound(doc)
	if text == "" {
		return Part{Name: name, Text: Unavailable, Chars: len(Unavailable)}
	}
	return Part{Name: name, Text: text, Chars: workspace.CountChars(text), Available: true}
}

// Part returns the named part, if present.
func (b Bundle) Part(name string) (Part, bool) {
	for _, p := range b.Parts {
		if p.Name == name {
			return p, true
		}
	}
	return Part{}, false
}

// JSON renders the bundle parts and the full system text as indented JSON.
func (b Bundle) JSON() (string, error) {
	out := struct {
		Bundle
		System string `json:"system"`
	}{b, b.Text}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return "", errors.NewInternal(err)
	}
	return string(data), nil
}
