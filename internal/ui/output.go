// Package ui provides user interface utilities for matrix-tpl, including
// severity-marked diagnostics that respect the NO_COLOR environment variable
// and TTY detection.
package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
)

// Level orders diagnostic severities.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var (
	out   io.Writer = os.Stderr
	level           = LevelInfo
)

// SetOutput redirects diagnostics. It returns the previous writer.
func SetOutput(w io.Writer) io.Writer {
	prev := out
	out = w
	return prev
}

// SetLevel sets the minimum severity that is printed. Errors are always printed.
func SetLevel(l Level) {
	level = l
}

// CurrentLevel returns the active minimum severity.
func CurrentLevel() Level {
	return level
}

// ParseLevel converts a config or flag value into a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "", "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	}
	return LevelInfo, fmt.Errorf("unknown log level %q", s)
}

// Debug prints a dim [DEBUG] line to stderr.
func Debug(format string, args ...interface{}) {
	emit(LevelDebug, color.New(color.FgHiBlack), "[DEBUG]", format, args...)
}

// Info prints a cyan [INFO] line to stderr.
func Info(format string, args ...interface{}) {
	emit(LevelInfo, color.New(color.FgCyan), "[INFO]", format, args...)
}

// Success prints a green [OK] line to stderr.
func Success(format string, args ...interface{}) {
	emit(LevelInfo, color.New(color.FgGreen), "[OK]", format, args...)
}

// Warn prints a yellow [WARN] line to stderr.
func Warn(format string, args ...interface{}) {
	emit(LevelWarn, color.New(color.FgYellow), "[WARN]", format, args...)
}

// Error prints a red [ERROR] line to stderr.
func Error(format string, args ...interface{}) {
	emit(LevelError, color.New(color.FgRed), "[ERROR]", format, args...)
}

// emit writes exactly one line; embedded newlines are folded so every
// diagnostic stays on a single line.
func emit(l Level, c *color.Color, marker, format string, args ...interface{}) {
	if l < level && l != LevelError {
		return
	}
	msg := fmt.Sprintf(format, args...)
	msg = strings.TrimSpace(strings.NewReplacer("\r\n", " ", "\n", " ").Replace(msg))
	c.Fprintln(out, marker+" "+msg)
}
