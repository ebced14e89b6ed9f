package main

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"go.uber.org/zap"

	"github.com/faegents/openclaw/internal/chat"
	"github.com/faegents/openclaw/internal/config"
	"github.com/faegents/openclaw/internal/github"
	"github.com/faegents/openclaw/internal/ui"
	"github.com/faegents/openclaw/internal/workspace"
)

// runtimeEnv carries everything a command needs. It is built once in main
// and replaced wholesale in tests.
type runtimeEnv struct {
	baseDir string
	cfg     *config.Config
	log     *zap.Logger

	in     io.Reader
	out    io.Writer
	errOut io.Writer

	styles      ui.Styles
	width       int
	interactive bool
	now         func() time.Time

	newSource   func(cfg *config.Config) workspace.Source
	newStreamer func(ctx context.Context, cfg *config.Config) (chat.Streamer, error)
}

// newRuntimeEnv wires the production collaborators.
func newRuntimeEnv(baseDir string, cfg *config.Config, log *zap.Logger) *runtimeEnv {
	return &runtimeEnv{
		baseDir:     baseDir,
		cfg:         cfg,
		log:         log,
		in:          os.Stdin,
		out:         os.Stdout,
		errOut:      os.Stderr,
		styles:      ui.DefaultStyles(),
		width:       ui.TerminalWidth(100),
		interactive: isTerminal(),
		now:         time.Now,
		newSource: func(cfg *config.Config) workspace.Source {
			return github.NewFetcher(cfg.GitHubToken, cfg.GitHubRepo, cfg.GitHubBranch, log)
		},
		newStreamer: func(ctx context.Context, cfg *config.Config) (chat.Streamer, error) {
			return chat.NewGeminiStreamer(ctx, cfg.AssistantAPIKey, cfg.Model)
		},
	}
}

// status prints a progress line to stderr so stdout stays clean for panels.
func (e *runtimeEnv) status(msg string) {
	color.New(color.FgCyan, color.Faint).Fprintln(e.errOut, msg)
}

// isTerminal returns true if stdin is a terminal (not piped).
func isTerminal() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) != 0
}
