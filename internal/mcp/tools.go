package mcp

import (
	"strconv"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/faegents/openclaw/internal/prompt"
	"github.com/faegents/openclaw/internal/workspace"
)

var projectsToolDef = mcp.NewTool("workspace_projects",
	mcp.WithDescription("List the projects recorded under \"## Projects\" in the workspace MEMORY.md, in document order."),
	mcp.WithReadOnlyHintAnnotation(true),
)

var todoToolDef = mcp.NewTool("workspace_todo",
	mcp.WithDescription("Classify the items of the workspace todo.md as open, done or blocked."),
	mcp.WithNumber("limit",
		mcp.Description("Maximum items to return, earliest first"),
		mcp.Min(1),
		mcp.Max(workspace.MaxTodoItems),
	),
	mcp.WithBoolean("unresolved_only",
		mcp.Description("Return only open and blocked items"),
	),
	mcp.WithReadOnlyHintAnnotation(true),
)

var activityToolDef = mcp.NewTool("workspace_activity",
	mcp.WithDescription("Return the most recent non-blank lines of the workspace monitor log, oldest first."),
	mcp.WithNumber("lines",
		mcp.Description("Number of lines to return (default 20)"),
		mcp.Min(1),
		mcp.Max(MaxActivityLines),
	),
	mcp.WithReadOnlyHintAnnotation(true),
)

var contextToolDef = mcp.NewTool("workspace_context",
	mcp.WithDescription("Build the OpenClaw system context: bounded memory, todo and monitor segments "+
		"interpolated into the assistant template. Segments over "+
		strconv.Itoa(prompt.MemoryChars)+"/"+strconv.Itoa(prompt.TodoChars)+" characters are cut."),
	mcp.WithReadOnlyHintAnnotation(true),
)
