// Package mcp exposes the workspace extractors and the context bundle as
// read-only tools over the Model Context Protocol.
package mcp

import (
	"sort"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/faegents/openclaw/internal/workspace"
)

// ServerName is reported to MCP clients.
const ServerName = "openclaw"

// toolEntry pairs a tool definition with a handler factory.
type toolEntry struct {
	def     mcp.Tool
	handler func(*Handlers) server.ToolHandlerFunc
}

// toolRegistry maps tool names to their definitions and handler factories.
var toolRegistry = map[string]toolEntry{
	"workspace_projects": {
		def:     projectsToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleProjects },
	},
	"workspace_todo": {
		def:     todoToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleTodo },
	},
	"workspace_activity": {
		def:     activityToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleActivity },
	},
	"workspace_context": {
		def:     contextToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleContext },
	},
}

// AllToolNames returns every tool name, sorted.
func AllToolNames() []string {
	names := make([]string, 0, len(toolRegistry))
	for name := range toolRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ValidateDisabledTools returns the names in the list that are not tools.
func ValidateDisabledTools(names []string) []string {
	unknown := make([]string, 0)
	for _, name := range names {
		if _, ok := toolRegistry[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	return unknown
}

// Options configures NewServer.
type Options struct {
	Version       string
	TodoLimit     int
	DisabledTools []string
	Log           *zap.Logger
}

// NewServer creates an MCP server backed by src. Tools named in
// opts.DisabledTools are not registered.
func NewServer(src workspace.Source, opts Options) *server.MCPServer {
	s := server.NewMCPServer(
		ServerName,
		opts.Version,
		server.WithToolCapabilities(true),
	)

	h := NewHandlers(src, opts.TodoLimit, opts.Log)

	disabled := make(map[string]bool, len(opts.DisabledTools))
	for _, name := range opts.DisabledTools {
		disabled[name] = true
	}

	for name, entry := range toolRegistry {
		if disabled[name] {
			continue
		}
		s.AddTool(entry.def, entry.handler(h))
	}

	return s
}

// Run serves the tools over stdio until stdin closes.
func Run(src workspace.Source, opts Options) error {
	return server.ServeStdio(NewServer(src, opts))
}
