package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	"github.com/faegents/openclaw/internal/errors"
	"github.com/faegents/openclaw/internal/panel"
	"github.com/faegents/openclaw/internal/prompt"
	"github.com/faegents/openclaw/internal/workspace"
)

// Activity line bounds for workspace_activity.
const (
	DefaultActivityLines = 20
	MaxActivityLines     = 500
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	src       workspace.Source
	todoLimit int
	log       *zap.Logger
}

// NewHandlers creates a new Handlers instance. todoLimit of zero means the
// extractor maximum; log may be nil.
func NewHandlers(src workspace.Source, todoLimit int, log *zap.Logger) *Handlers {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handlers{src: src, todoLimit: todoLimit, log: log}
}

// TodoRequest represents the arguments for workspace_todo.
type TodoRequest struct {
	Limit          int  `json:"limit,omitempty"`
	UnresolvedOnly bool `json:"unresolved_only,omitempty"`
}

// ActivityRequest represents the arguments for workspace_activity.
type ActivityRequest struct {
	Lines int `json:"lines,omitempty"`
}

// ProjectsResult is the workspace_projects payload.
type ProjectsResult struct {
	Available bool                `json:"available"`
	Projects  []workspace.Project `json:"projects"`
	Count     int                 `json:"count"`
}

// TodoResult is the workspace_todo payload.
type TodoResult struct {
	Available bool                 `json:"available"`
	Items     []workspace.TodoItem `json:"items"`
	Open      int                  `json:"open"`
	Total     int                  `json:"total"`
}

// ActivityResult is the workspace_activity payload.
type ActivityResult struct {
	Available bool     `json:"available"`
	Lines     []string `json:"lines"`
}

// ContextResult is the workspace_context payload.
type ContextResult struct {
	Parts  []prompt.Part `json:"parts"`
	Chars  int           `json:"chars"`
	System string        `json:"system"`
}

// HandleProjects handles the workspace_projects tool call.
func (h *Handlers) HandleProjects(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if _, err := decode[struct{}](req); err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	doc, ok := h.src.GetFile(ctx, workspace.PathMemory)
	projects := workspace.ExtractProjects(doc)
	h.log.Debug("mcp tool call", zap.String("tool", "workspace_projects"), zap.Int("count", len(projects)))

	return successResult(ProjectsResult{
		Available: ok,
		Projects:  projects,
		Count:     len(projects),
	})
}

// HandleTodo handles the workspace_todo tool call.
func (h *Handlers) HandleTodo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[TodoRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	if input.Limit < 0 || input.Limit > workspace.MaxTodoItems {
		return errorResult(errors.NewInvalidRequest(
			fmt.Sprintf("limit must be between 1 and %d", workspace.MaxTodoItems))), nil
	}

	limit := input.Limit
	if limit == 0 {
		limit = h.todoLimit
	}

	doc, ok := h.src.GetFile(ctx, workspace.PathTodo)
	items := workspace.ExtractTodo(doc, limit)
	open, total := panel.CountOpen(items), len(items)
	if input.UnresolvedOnly {
		items = panel.Unresolved(items)
	}
	h.log.Debug("mcp tool call", zap.String("tool", "workspace_todo"), zap.Int("items", len(items)))

	return successResult(TodoResult{
		Available: ok,
		Items:     items,
		Open:      open,
		Total:     total,
	})
}

// HandleActivity handles the workspace_activity tool call.
func (h *Handlers) HandleActivity(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ActivityRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	if input.Lines < 0 || input.Lines > MaxActivityLines {
		return errorResult(errors.NewInvalidRequest(
			fmt.Sprintf("lines must be between 1 and %d", MaxActivityLines))), nil
	}

	n := input.Lines
	if n == 0 {
		n = DefaultActivityLines
	}

	doc, ok := h.src.GetFile(ctx, workspace.PathMonitorLogs)
	lines := workspace.ExtractActivity(doc, n)
	h.log.Debug("mcp tool call", zap.String("tool", "workspace_activity"), zap.Int("lines", len(lines)))

	return successResult(ActivityResult{Available: ok, Lines: lines})
}

// HandleContext handles the workspace_context tool call.
func (h *Handlers) HandleContext(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if _, err := decode[struct{}](req); err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	bundle := prompt.NewBundle(workspace.Load(ctx, h.src))
	h.log.Debug("mcp tool call", zap.String("tool", "workspace_context"), zap.Int("chars", bundle.Chars))

	return successResult(ContextResult{
		Parts:  bundle.Parts,
		Chars:  bundle.Chars,
		System: bundle.Text,
	})
}

// errorResult creates an MCP error result from an error.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	if ocErr, ok := err.(*errors.OCError); ok {
		errorObj := map[string]any{
			"code":    ocErr.Code,
			"message": ocErr.Message,
		}
		// Internal errors may carry paths or upstream responses.
		if ocErr.Code == errors.ErrInternal {
			errorObj["message"] = "an internal error occurred"
		} else if ocErr.Details != nil {
			errorObj["details"] = ocErr.Details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    errors.ErrInternal,
				"message": "an internal error occurred",
			},
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
