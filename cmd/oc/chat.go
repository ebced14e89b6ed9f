package main

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/faegents/openclaw/internal/chat"
	"github.com/faegents/openclaw/internal/errors"
	"github.com/faegents/openclaw/internal/prompt"
	"github.com/faegents/openclaw/internal/workspace"
)

// exitWords end the interactive session.
var exitWords = map[string]bool{"exit": true, "quit": true, "q": true, "bye": true}

var (
	youLabel = color.New(color.FgGreen, color.Bold)
	botLabel = color.New(color.FgCyan, color.Bold)
	dimText  = color.New(color.Faint)
)

// chatCmd creates the chat command.
func chatCmd(env *runtimeEnv) *cli.Command {
	return &cli.Command{
		Name:      "chat",
		Usage:     "Ask the assistant about the workspace (interactive without a message)",
		ArgsUsage: "[message]",
		Action: func(c *cli.Context) error {
			if err := env.cfg.RequireAssistantKey(); err != nil {
				return outputError(err)
			}
			if err := env.cfg.RequireGitHubToken(); err != nil {
				return outputError(err)
			}

			streamer, err := env.newStreamer(c.Context, env.cfg)
			if err != nil {
				return outputError(errors.NewInternal(err))
			}

			env.status("Fetching workspace state...")
			system := prompt.BuildContext(workspace.Load(c.Context, env.newSource(env.cfg)))
			session := chat.NewSession(system, streamer, env.log)
			defer session.Close()

			if c.NArg() > 0 {
				return reply(c.Context, env, session, strings.Join(c.Args().Slice(), " "))
			}
			return repl(c.Context, env, session)
		},
	}
}

// reply streams one answer to env.out.
func reply(ctx context.Context, env *runtimeEnv, session *chat.Session, text string) error {
	botLabel.Fprint(env.out, "OpenClaw: ")
	_, err := session.Send(ctx, text, func(chunk string) {
		fmt.Fprint(env.out, chunk)
	})
	fmt.Fprintln(env.out)
	if err != nil {
		return outputError(err)
	}
	return nil
}

// repl reads lines until an exit word, EOF or interrupt. Blank lines are
// skipped. A failed reply ends the session with an error.
func repl(ctx context.Context, env *runtimeEnv, session *chat.Session) error {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(env.in)
		scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	dimText.Fprintln(env.out, "Ask about the workspace. Type exit to quit.")
	for {
		youLabel.Fprint(env.out, "You: ")

		var line string
		var ok bool
		select {
		case <-ctx.Done():
			fmt.Fprintln(env.out)
			return goodbye(env)
		case line, ok = <-lines:
		}
		if !ok {
			fmt.Fprintln(env.out)
			return goodbye(env)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if exitWords[strings.ToLower(line)] {
			return goodbye(env)
		}

		if err := reply(ctx, env, session, line); err != nil {
			if ctx.Err() != nil {
				return goodbye(env)
			}
			return err
		}
		fmt.Fprintln(env.out)
	}
}

func goodbye(env *runtimeEnv) error {
	dimText.Fprintln(env.out, "Goodbye.")
	return nil
}
