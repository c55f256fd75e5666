// Package logging configures the process-wide structured logger.
//
// All packages log through these helpers instead of fmt or the stdlib log
// package so output stays uniformly structured; lint_test.go enforces this.
package logging

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// Setup installs the default slog logger with a tint handler. Level names
// are debug, info, warn, and error; anything else means info.
func Setup(level string) {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn", "warning":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	handler := tint.NewHandler(os.Stderr, &tint.Options{
		Level:      lvl,
		TimeFormat: time.RFC3339,
	})
	slog.SetDefault(slog.New(handler))
}

func Debug(msg string, args ...any) {
	slog.Debug(msg, args...)
}

func Info(msg string, args ...any) {
	slog.Info(msg, args...)
}

func Warn(msg string, args ...any) {
	slog.Warn(msg, args...)
}

func Error(msg string, args ...any) {
	slog.Error(msg, args...)
}

// WithComponent returns a logger tagged with a component name constant.
func WithComponent(component string) *slog.Logger {
	return slog.Default().With("component", component)
}

func InfoWithComponent(component, msg string, args ...any) {
	WithComponent(component).Info(msg, args...)
}

func ErrorWithComponent(component, msg string, args ...any) {
	WithComponent(component).Error(msg, args...)
}
