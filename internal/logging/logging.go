// Package logging configures the diagnostics logger shared by the CLI
// and the stdio server. Messages go to a size-rotated log file so the
// MCP protocol stream on stdout stays clean.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config controls where diagnostics are written.
type Config struct {
	// File is the log file path. Empty means stderr only.
	File string
	// Stderr mirrors every entry to stderr in addition to the file.
	Stderr bool
}

// DefaultLogFile returns the log path used when --log-file is not set.
func DefaultLogFile() string {
	return filepath.Join(xdg.StateHome, "hubpush", "hubpush.log")
}

// New builds the logger. With a file configured the level is raised to
// debug so the file captures full diagnostics, including HTTP traffic.
func New(cfg Config) (*logrus.Logger, error) {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)

	if cfg.File == "" {
		return logger, nil
	}

	if err := os.MkdirAll(filepath.Dir(cfg.File), 0o750); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	out := io.Writer(&lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    5, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
	})
	if cfg.Stderr {
		out = io.MultiWriter(os.Stderr, out)
	}
	logger.SetOutput(out)
	logger.SetLevel(logrus.DebugLevel)
	return logger, nil
}
