// Package logging provides structured logging with file rotation.
package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/usestring/harcheck/internal/config"
)

// Config holds logging configuration.
type Config struct {
	Level      string    // Log level: debug, info, warn, error
	FilePath   string    // Path to log file (empty = Fallback only)
	MaxSizeMB  int       // Max size in MB before rotation
	MaxBackups int       // Max number of old log files to retain
	MaxAgeDays int       // Max age in days to retain old log files
	Compress   bool      // Whether to compress rotated files
	Fallback   io.Writer // Writer used when FilePath is empty, default os.Stderr
}

// FromConfig builds the logging configuration from the run configuration.
func FromConfig(cfg *config.Config) Config {
	return Config{
		Level:      cfg.LogLevel,
		FilePath:   cfg.LogFile,
		MaxSizeMB:  cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
		MaxAgeDays: cfg.LogMaxAgeDays,
		Compress:   cfg.LogCompress,
	}
}

// Setup initializes the global slog logger with the given configuration.
// Every record carries a run_id so that rotated files from several runs can
// be told apart. Returns a cleanup function that should be called on shutdown.
func Setup(cfg Config) (func() error, error) {
	opts := &slog.HandlerOptions{
		Level: ParseLevel(cfg.Level),
	}

	var writer io.Writer
	cleanup := func() error { return nil }

	if cfg.FilePath != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.FilePath), 0755); err != nil {
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
	} else if cfg.Fallback != nil {
		writer = cfg.Fallback
	} else {
		// stdout carries the report; logs never go there.
		writer = os.Stderr
	}

	logger := slog.New(slog.NewTextHandler(writer, opts)).With(
		slog.String("run_id", uuid.NewString()),
	)
	slog.SetDefault(logger)

	return cleanup, nil
}

// ParseLevel maps a level name to a slog level. Unknown names map to info.
func ParseLevel(s string) slog.Level {
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
