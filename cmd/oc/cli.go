package main

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/faegents/openclaw/internal/dashboard"
	"github.com/faegents/openclaw/internal/errors"
	"github.com/faegents/openclaw/internal/mcp"
	"github.com/faegents/openclaw/internal/panel"
	"github.com/faegents/openclaw/internal/prompt"
	"github.com/faegents/openclaw/internal/workspace"
)

// DefaultLogLines is the logs command default.
const DefaultLogLines = 50

// newCLIApp creates the CLI application with all commands. With no command
// it shows the dashboard.
func newCLIApp(env *runtimeEnv) *cli.App {
	app := &cli.App{
		Name:    "oc",
		Usage:   "OpenClaw command center: workspace dashboard and assistant chat",
		Version: Version,
		Flags:   dashboardFlags(env),
		Action:  dashboardAction(env),
		Commands: []*cli.Command{
			dashboardCmd(env),
			chatCmd(env),
			statusCmd(env),
			errorsCmd(env),
			projectsCmd(env),
			logsCmd(env),
			contextCmd(env),
			configureCmd(env),
			mcpCmd(env),
		},
		Reader:    env.in,
		Writer:    env.out,
		ErrWriter: env.errOut,
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

func dashboardFlags(env *runtimeEnv) []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{Name: "live", Aliases: []string{"l"}, Usage: "Full-screen view that refreshes itself"},
		&cli.DurationFlag{
			Name:    "interval",
			Aliases: []string{"i"},
			Value:   time.Duration(env.cfg.RefreshInterval) * time.Second,
			Usage:   "Refresh interval for --live",
		},
	}
}

// dashboardCmd creates the dashboard command.
func dashboardCmd(env *runtimeEnv) *cli.Command {
	return &cli.Command{
		Name:   "dashboard",
		Usage:  "Show projects, open issues and agent activity (default command)",
		Flags:  dashboardFlags(env),
		Action: dashboardAction(env),
	}
}

func dashboardAction(env *runtimeEnv) cli.ActionFunc {
	return func(c *cli.Context) error {
		if err := env.cfg.RequireGitHubToken(); err != nil {
			return outputError(err)
		}

		src := env.newSource(env.cfg)
		env.status("Fetching workspace state...")
		state := workspace.Load(c.Context, src)

		if !c.Bool("live") {
			layout := dashboard.Static(state, dashboard.Options{
				Now:       env.now(),
				TodoLimit: env.cfg.TodoLimit,
			})
			fmt.Fprintln(env.out, layout.Render(env.styles, env.width))
			return nil
		}

		interval := c.Duration("interval")
		if interval < time.Second {
			return outputError(errors.NewInvalidRequest("--interval must be at least 1s"))
		}
		err := dashboard.Watch(c.Context, state, func(ctx context.Context) workspace.State {
			return workspace.Load(ctx, src)
		}, dashboard.WatchOptions{
			Interval: interval,
			Layout:   dashboard.Options{TodoLimit: env.cfg.TodoLimit},
			Styles:   env.styles,
			Log:      env.log,
			Now:      env.now,
		})
		if err != nil {
			return outputError(errors.NewInternal(err))
		}
		return nil
	}
}

// todoPanelCmd builds a command that renders the todo panel, optionally
// restricted to unresolved items.
func todoPanelCmd(env *runtimeEnv, name, usage string, unresolved bool) *cli.Command {
	return &cli.Command{
		Name:  name,
		Usage: usage,
		Action: func(c *cli.Context) error {
			doc, err := fetchDoc(c, env, workspace.PathTodo)
			if err != nil {
				return err
			}
			items := workspace.ExtractTodo(doc, env.cfg.TodoLimit)
			if unresolved {
				items = panel.Unresolved(items)
			}
			env.render(panel.Todo(items))
			return nil
		},
	}
}

// statusCmd creates the status command.
func statusCmd(env *runtimeEnv) *cli.Command {
	return todoPanelCmd(env, "status", "Show the open issues panel", false)
}

// errorsCmd creates the errors command.
func errorsCmd(env *runtimeEnv) *cli.Command {
	return todoPanelCmd(env, "errors", "Show only open and blocked issues", true)
}

// projectsCmd creates the projects command.
func projectsCmd(env *runtimeEnv) *cli.Command {
	return &cli.Command{
		Name:  "projects",
		Usage: "Show the projects panel",
		Action: func(c *cli.Context) error {
			doc, err := fetchDoc(c, env, workspace.PathMemory)
			if err != nil {
				return err
			}
			env.render(panel.Projects(workspace.ExtractProjects(doc)))
			return nil
		},
	}
}

// logsCmd creates the logs command.
func logsCmd(env *runtimeEnv) *cli.Command {
	return &cli.Command{
		Name:  "logs",
		Usage: "Show recent agent activity",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "lines", Aliases: []string{"n"}, Value: DefaultLogLines, Usage: "Number of lines"},
		},
		Action: func(c *cli.Context) error {
			n := c.Int("lines")
			if n <= 0 {
				return outputError(errors.NewInvalidRequest("--lines must be positive"))
			}
			doc, err := fetchDoc(c, env, workspace.PathMonitorLogs)
			if err != nil {
				return err
			}
			env.render(panel.Activity(workspace.ExtractActivity(doc, n)))
			return nil
		},
	}
}

// contextCmd creates the context command.
func contextCmd(env *runtimeEnv) *cli.Command {
	return &cli.Command{
		Name:  "context",
		Usage: "Print the system context chat would send",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "json", Usage: "Print bounded parts and sizes as JSON"},
		},
		Action: func(c *cli.Context) error {
			if err := env.cfg.RequireGitHubToken(); err != nil {
				return outputError(err)
			}
			env.status("Fetching workspace state...")
			bundle := prompt.NewBundle(workspace.Load(c.Context, env.newSource(env.cfg)))

			if !c.Bool("json") {
				fmt.Fprintln(env.out, bundle.Text)
				return nil
			}
			out, err := bundle.JSON()
			if err != nil {
				return outputError(err)
			}
			fmt.Fprintln(env.out, out)
			return nil
		},
	}
}

// mcpCmd creates the mcp command.
func mcpCmd(env *runtimeEnv) *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "Serve workspace tools over MCP stdio",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{Name: "disable", Usage: "Tool name to leave unregistered (repeatable)"},
		},
		Action: func(c *cli.Context) error {
			disabled := c.StringSlice("disable")
			if unknown := mcp.ValidateDisabledTools(disabled); len(unknown) > 0 {
				return outputError(errors.NewInvalidRequest(fmt.Sprintf("unknown tools: %v", unknown)))
			}
			if err := env.cfg.RequireGitHubToken(); err != nil {
				return outputError(err)
			}

			env.log.Info("mcp server starting", zap.Strings("disabled", disabled))
			err := mcp.Run(env.newSource(env.cfg), mcp.Options{
				Version:       Version,
				TodoLimit:     env.cfg.TodoLimit,
				DisabledTools: disabled,
				Log:           env.log,
			})
			if err != nil {
				return outputError(errors.NewInternal(err))
			}
			return nil
		},
	}
}

// fetchDoc checks the GitHub token and reads one workspace document. An
// unreadable document is returned as "" so the panel shows its placeholder.
func fetchDoc(c *cli.Context, env *runtimeEnv, path string) (string, error) {
	if err := env.cfg.RequireGitHubToken(); err != nil {
		return "", outputError(err)
	}
	env.status("Fetching workspace state...")
	doc, _ := env.newSource(env.cfg).GetFile(c.Context, path)
	return doc, nil
}

// render prints a single panel at full width.
func (e *runtimeEnv) render(p panel.Panel) {
	fmt.Fprintln(e.out, e.styles.Panel(p, e.width, 0))
}

// outputError formats error for CLI.
func outputError(err error) error {
	if ocErr, ok := err.(*errors.OCError); ok {
		return cli.Exit(fmt.Sprintf("[%s] %s", ocErr.Code, ocErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}
