// Package logging builds slog loggers for the different server modes.
// In MCP mode stdout carries the protocol, so logs go to a file or stderr.
package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// NewLogger creates a new slog.Logger writing JSON records to w.
func NewLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

// NewStderrLogger creates a logger writing to stderr.
func NewStderrLogger(level slog.Level) *slog.Logger {
	return NewLogger(os.Stderr, level)
}

// NewFileLogger creates a logger that appends to the file at path,
// creating parent directories as needed. The returned closer owns the file.
func NewFileLogger(path string, level slog.Level) (*slog.Logger, io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, err
	}
	return NewLogger(f, level), f, nil
}

// NewDiscardLogger creates a logger that discards all output.
// Useful for tests or when logging should be completely suppressed.
func NewDiscardLogger() *slog.Logger {
	return NewLogger(io.Discard, slog.Level(100))
}

// ServerLogger creates the logger for MCP server mode: a file logger under
// <workspaceRoot>/.codenav/logs when a workspace root is known, stderr otherwise.
// Logging failures never block startup; the fallback is always usable.
func ServerLogger(workspaceRoot string, level slog.Level) (*slog.Logger, io.Closer) {
	if workspaceRoot == "" {
		return NewStderrLogger(level), nil
	}
	logPath := filepath.Join(workspaceRoot, ".codenav", "logs", "mcp.log")
	logger, closer, err := NewFileLogger(logPath, level)
	if err != nil {
		return NewStderrLogger(level), nil
	}
	return logger, closer
}

// LevelFromString converts a string to a slog.Level.
// Supports: debug, info, warn, error (case-insensitive).
// Returns slog.LevelInfo for unrecognized strings.
func LevelFromString(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
