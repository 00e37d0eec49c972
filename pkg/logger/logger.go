// Package logger provides structured JSON logging.
package logger

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// Level represents logging severity.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// String returns the string representation of the level.
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
	default:
		return "INFO"
	}
}

// ParseLevel parses a string into a Level.
func ParseLevel(s string) Level {
	switch strings.ToLower(s) {
	case "debug":
		return LevelDebug
	case "info":
		return LevelInfo
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// Logger is a structured JSON logger. Child loggers created with With share
// the parent's writer lock.
type Logger struct {
	output io.Writer
	level  Level
	fields map[string]any
	mu     *sync.Mutex
}

// New creates a new Logger with the specified output and level.
func New(output io.Writer, level string) *Logger {
	if output == nil {
		output = os.Stdout
	}
	return &Logger{
		output: output,
		level:  ParseLevel(level),
		fields: make(map[string]any),
		mu:     &sync.Mutex{},
	}
}

// Nop returns a Logger that discards everything.
func Nop() *Logger {
	return New(io.Discard, "error")
}

// With returns a new Logger with additional fields.
func (l *Logger) With(keyvals ...any) *Logger {
	child := &Logger{
		output: l.output,
		level:  l.level,
		fields: make(map[string]any, len(l.fields)+len(keyvals)/2),
		mu:     l.mu,
	}
	for k, v := range l.fields {
		child.fields[k] = v
	}
	addPairs(child.fields, keyvals)
	return child
}

// Enabled reports whether messages at level would be written.
func (l *Logger) Enabled(level Level) bool {
	return level >= l.level
}

// Debug logs a message at debug level.
func (l *Logger) Debug(msg string, keyvals ...any) {
	l.log(LevelDebug, msg, keyvals...)
}

// Info logs a message at info level.
func (l *Logger) Info(msg string, keyvals ...any) {
	l.log(LevelInfo, msg, keyvals...)
}

// Warn logs a message at warn level.
func (l *Logger) Warn(msg string, keyvals ...any) {
	l.log(LevelWarn, msg, keyvals...)
}

// Error logs a message at error level.
func (l *Logger) Error(msg string, keyvals ...any) {
	l.log(LevelError, msg, keyvals...)
}

func (l *Logger) log(level Level, msg string, keyvals ...any) {
	if !l.Enabled(level) {
		return
	}

	entry := make(map[string]any, len(l.fields)+len(keyvals)/2+3)
	for k, v := range l.fields {
		entry[k] = v
	}
	addPairs(entry, keyvals)

	// Standard fields win over caller-supplied keys.
	entry["time"] = time.Now().UTC().Format(time.RFC3339)
	entry["level"] = level.String()
	entry["msg"] = msg

	data, err := json.Marshal(entry)
	if err != nil {
		return
	}
	data = append(data, '\n')

	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = l.output.Write(data)
}

// addPairs copies string-keyed pairs into dst. Errors are stored as their
// message since encoding/json renders most error values as {}.
func addPairs(dst map[string]any, keyvals []any) {
	for i := 0; i < len(keyvals)-1; i += 2 {
		key, ok := keyvals[i].(string)
		if !ok {
			continue
		}
		if err, isErr := keyvals[i+1].(error); isErr && err != nil {
			dst[key] = err.Error()
			continue
		}
		dst[key] = keyvals[i+1]
	}
}

type ctxKey struct{}

// NewContext returns a copy of ctx carrying l.
func NewContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext returns the Logger stored in ctx, or fallback when none is set.
func FromContext(ctx context.Context, fallback *Logger) *Logger {
	if l, ok := ctx.Value(ctxKey{}).(*Logger); ok && l != nil {
		return l
	}
	if fallback == nil {
		return Nop()
	}
	return fallback
}
