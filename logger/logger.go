package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/lmittmann/tint"
)

// Format represents the log format
type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// Logger represents a logger instance
type Logger struct {
	*slog.Logger
	mu      sync.Mutex
	writers []io.Writer
	level   slog.Level
	format  Format
}

// New creates a new logger
func New(level slog.Level, format Format, writers ...io.Writer) *Logger {
	l := &Logger{
		writers: writers,
		level:   level,
		format:  format,
	}
	l.Logger = slog.New(l.handler())
	return l
}

// handler builds the slog handler for the current writers, level and format.
// Callers must hold mu or own l exclusively.
func (l *Logger) handler() slog.Handler {
	multiWriter := io.MultiWriter(l.writers...)
	switch l.format {
	case FormatJSON:
		return slog.NewJSONHandler(multiWriter, &slog.HandlerOptions{
			Level: l.level,
		})
	default:
		return tint.NewHandler(multiWriter, &tint.Options{
			Level:       l.level,
			NoColor:     !l.colorable(),
			ReplaceAttr: replaceAttr,
		})
	}
}

// colorable reports whether every writer is an interactive stdout/stderr.
func (l *Logger) colorable() bool {
	if len(l.writers) == 0 {
		return false
	}
	for _, w := range l.writers {
		if w != os.Stdout && w != os.Stderr {
			return false
		}
	}
	return os.Getenv("NO_COLOR") == ""
}

func replaceAttr(groups []string, a slog.Attr) slog.Attr {
	if a.Key == slog.TimeKey && len(groups) == 0 {
		a.Value = slog.StringValue(formatRFC3339Millis(a.Value.Time()))
	}
	if s, ok := a.Value.Any().(string); ok && s == "" {
		return slog.Attr{}
	}
	return a
}

func formatRFC3339Millis(t time.Time) string {
	t = t.UTC()
	base := t.Format("2006-01-02T15:04:05")
	ms := t.Nanosecond() / 1_000_000
	return fmt.Sprintf("%s.%03dZ", base, ms)
}

// Close closes all file writers
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, writer := range l.writers {
		if file, ok := writer.(*os.File); ok {
			// Don't close stdout/stderr
			if file != os.Stdout && file != os.Stderr {
				if err := file.Close(); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// Init initializes the default logger. Logs go to the given console writer
// (stdout when nil) plus every non-empty file path.
func Init(level slog.Level, format Format, console io.Writer, paths ...string) error {
	if console == nil {
		console = os.Stdout
	}
	writers := []io.Writer{console}

	for _, path := range paths {
		if path == "" {
			continue
		}
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}

		file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		writers = append(writers, file)
	}

	if defaultLogger != nil {
		_ = defaultLogger.Close()
	}
	defaultLogger = New(level, format, writers...)
	return nil
}

// GetLevelFromString returns the log level from a string
func GetLevelFromString(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// defaultLogger discards output until Init is called.
var defaultLogger = New(slog.LevelInfo, FormatJSON, io.Discard)

// L returns the default logger's *slog.Logger for components that take a
// logger dependency.
func L() *slog.Logger {
	return defaultLogger.Logger
}

// Helper functions for common logging patterns
func Debug(msg string, args ...any) {
	defaultLogger.Debug(msg, args...)
}

func Info(msg string, args ...any) {
	defaultLogger.Info(msg, args...)
}

func Warn(msg string, args ...any) {
	defaultLogger.Warn(msg, args...)
}

func Error(msg string, args ...any) {
	defaultLogger.Error(msg, args...)
}
