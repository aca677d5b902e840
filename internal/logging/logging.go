// Package logging configures structured logging with optional file rotation.
package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Config holds logging configuration.
type Config struct {
	Level      string // debug, info, warn, error
	FilePath   string // path to log file (empty = stderr only)
	MaxSizeMB  int    // max size in MB before rotation
	MaxBackups int    // max number of old log files to retain
	MaxAgeDays int    // max age in days to retain old log files
	Compress   bool   // whether to compress rotated files
}

// Setup initializes the global slog logger and returns a cleanup function to
// call on shutdown.
func Setup(cfg Config) (func() error, error) {
	opts := &slog.HandlerOptions{
		Level: parseLevel(cfg.Level),
	}

	var writer io.Writer
	var cleanup func() error

	if cfg.FilePath != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.FilePath), 0o755); err != nil {
			return nil, err
		}
		lj := &lumberjack.Logger{
			Filename:   cfg.FilePath,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   cfg.Compress,
			LocalTime:  true,
		}
		writer = lj
		cleanup = lj.Close
	} else {
		writer = os.Stderr
		cleanup = func() error { return nil }
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(writer, opts)))
	return cleanup, nil
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
