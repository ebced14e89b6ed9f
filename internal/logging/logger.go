// Package logging builds the zap logger used across oc.
// The terminal belongs to the panels and the chat stream, so log output goes
// to a rotated JSON file under the config directory instead of stdout.
package logging

import (
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// FileName is the log file name inside the logs directory.
const FileName = "oc.log"

// Options configures New.
type Options struct {
	// Dir is the directory the rotated log file lives in
	Dir string

	// Level is one of debug, info, warn, error. Unknown values mean info.
	Level string
}

// New creates a zap logger writing JSON lines to Dir/oc.log with rotation.
func New(opts Options) *zap.Logger {
	rotator := &lumberjack.Logger{
		Filename:   filepath.Join(opts.Dir, FileName),
		MaxSize:    5, // Megabytes
		MaxBackups: 3,
		MaxAge:     14, // Days
		Compress:   true,
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.MessageKey = "message"
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(rotator),
		ParseLevel(opts.Level),
	)

	return zap.New(core, zap.AddCaller())
}

// ParseLevel maps a config level string to a zap level, defaulting to info.
func ParseLevel(level string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// Nop returns a logger that discards everything. Used by tests and by
// commands that run before the log directory is known.
func Nop() *zap.Logger {
	return zap.NewNop()
}
