package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/fatih/color"

	"github.com/faegents/openclaw/internal/config"
	"github.com/faegents/openclaw/internal/logging"
)

// Version is set via -ldflags at build time.
var Version = "dev"

func fail(format string, args ...any) {
	color.New(color.FgRed).Fprintf(os.Stderr, "error: "+format+"\n", args...)
	os.Exit(1)
}

func main() {
	if err := config.LoadEnvFile(".env"); err != nil {
		fail("failed to read .env: %v", err)
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		fail("could not determine home directory: %v", err)
	}
	baseDir := filepath.Join(homeDir, ".openclaw")

	cfg, err := config.Load(baseDir)
	if err != nil {
		fail("failed to load config: %v", err)
	}

	log := logging.New(logging.Options{
		Dir:   filepath.Join(baseDir, "logs"),
		Level: cfg.LogLevel,
	})
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := newCLIApp(newRuntimeEnv(baseDir, cfg, log))
	if err := app.RunContext(ctx, os.Args); err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "error: %v\n", err)
		stop()
		_ = log.Sync()
		os.Exit(1)
	}
}
