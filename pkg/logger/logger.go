package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// Level represents the logging level
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelSilent
)

// String returns the string representation of the level
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	case LevelSilent:
		return "SILENT"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel converts a level name (case-insensitive) into a Level.
func ParseLevel(name string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return LevelDebug, nil
	case "", "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	case "silent", "off":
		return LevelSilent, nil
	default:
		return LevelInfo, fmt.Errorf("unknown log level %q", name)
	}
}

// Logger provides structured logging with configurable levels.
// Engines receive a Logger through their options; there is no package-level default.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	WithFields(fields ...Field) Logger
	SetLevel(level Level)
}

// Field represents a structured log field
type Field struct {
	Key   string
	Value any
}

// F is a convenience function for creating fields
func F(key string, value any) Field {
	return Field{Key: key, Value: value}
}

// standardLogger implements Logger interface
type standardLogger struct {
	level  Level
	out    io.Writer
	mu     *sync.Mutex
	fields []Field
}

// NewLogger creates a new logger with the specified level and output
func NewLogger(level Level, out io.Writer) Logger {
	if out == nil {
		out = os.Stderr
	}
	return &standardLogger{
		level:  level,
		out:    out,
		mu:     &sync.Mutex{},
		fields: make([]Field, 0),
	}
}

// NewSilentLogger creates a logger that outputs nothing
func NewSilentLogger() Logger {
	return NewLogger(LevelSilent, io.Discard)
}

// SetLevel sets the minimum logging level
func (l *standardLogger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// WithFields returns a new logger with additional fields.
// The child shares the parent's writer lock.
func (l *standardLogger) WithFields(fields ...Field) Logger {
	l.mu.Lock()
	defer l.mu.Unlock()

	newFields := make([]Field, len(l.fields)+len(fields))
	copy(newFields, l.fields)
	copy(newFields[len(l.fields):], fields)

	return &standardLogger{
		level:  l.level,
		out:    l.out,
		mu:     l.mu,
		fields: newFields,
	}
}

// Debug logs a debug message
func (l *standardLogger) Debug(msg string, fields ...Field) {
	l.log(LevelDebug, msg, fields...)
}

// Info logs an info message
func (l *standardLogger) Info(msg string, fields ...Field) {
	l.log(LevelInfo, msg, fields...)
}

// Warn logs a warning message
func (l *standardLogger) Warn(msg string, fields ...Field) {
	l.log(LevelWarn, msg, fields...)
}

// Error logs an error message
func (l *standardLogger) Error(msg string, fields ...Field) {
	l.log(LevelError, msg, fields...)
}

// log writes one line when level meets the threshold
func (l *standardLogger) log(level Level, msg string, fields ...Field) {
	l.mu.Lock()
	defer l.mu.Unlock()

	// Check if this message should be logged
	if level < l.level {
		return
	}

	var b strings.Builder
	timestamp := time.Now().Format("2006-01-02 15:04:05")
	fmt.Fprintf(&b, "%s [%s] %s %s", timestamp, level.String(), getIcon(level), msg)

	if len(l.fields)+len(fields) > 0 {
		b.WriteString(" |")
		writeFields(&b, l.fields)
		writeFields(&b, fields)
	}
	b.WriteByte('\n')

	_, _ = io.WriteString(l.out, b.String())
}

func writeFields(b *strings.Builder, fields []Field) {
	for _, field := range fields {
		fmt.Fprintf(b, " %s=%v", field.Key, field.Value)
	}
}

// getIcon returns an emoji icon for each level
func getIcon(level Level) string {
	switch level {
	case LevelDebug:
		return "🔍"
	case LevelInfo:
		return "ℹ️"
	case LevelWarn:
		return "⚠️"
	case LevelError:
		return "❌"
	default:
		return "•"
	}
}
