// Package logger provides structured logging utilities for the application.
// It wraps log/slog with JSON formatting, enriches records with request
// values from the context and optionally ships them to Better Stack.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	slogbetterstack "github.com/samber/slog-betterstack"
)

// Logger is the application logger
type Logger struct {
	*slog.Logger
}

// Options configures Setup.
type Options struct {
	Level  string
	Writer io.Writer // defaults to os.Stdout

	// BetterStackToken enables the remote sink when non-empty.
	BetterStackToken    string
	BetterStackEndpoint string
}

// ParseLevel maps a config string to a slog level. Unknown values mean info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
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

// New creates a new logger instance with JSON formatting
func New(level string) *Logger {
	return NewWithWriter(level, os.Stdout)
}

// NewWithWriter creates a JSON logger writing to w with context enrichment.
func NewWithWriter(level string, w io.Writer) *Logger {
	return &Logger{Logger: slog.New(NewContextHandler(jsonHandler(ParseLevel(level), w)))}
}

// Setup builds the process logger, installs it as slog.Default and returns a
// flush function for shutdown. Remote records are shipped asynchronously so
// a slow sink never blocks request handling.
func Setup(opts Options) (*Logger, func(context.Context) error) {
	w := opts.Writer
	if w == nil {
		w = os.Stdout
	}
	level := ParseLevel(opts.Level)

	var handler slog.Handler = jsonHandler(level, w)
	flush := func(context.Context) error { return nil }

	if opts.BetterStackToken != "" {
		remote := NewAsyncHandler(slogbetterstack.Option{
			Level:    level,
			Token:    opts.BetterStackToken,
			Endpoint: opts.BetterStackEndpoint,
		}.NewBetterstackHandler(), AsyncOptions{})
		handler = NewMultiHandler(handler, remote)
		flush = remote.Shutdown
	}

	log := &Logger{Logger: slog.New(NewContextHandler(handler))}
	slog.SetDefault(log.Logger)
	return log, flush
}

func jsonHandler(level slog.Level, w io.Writer) slog.Handler {
	return slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: renameKeys,
	})
}

// renameKeys emits timestamp/level/message with lowercase level names.
func renameKeys(_ []string, a slog.Attr) slog.Attr {
	switch a.Key {
	case slog.TimeKey:
		a.Key = "timestamp"
	case slog.LevelKey:
		a.Key = "level"
		lvl := strings.ToLower(a.Value.String())
		if lvl == "warn" {
			lvl = "warning"
		}
		a.Value = slog.StringValue(lvl)
	case slog.MessageKey:
		a.Key = "message"
	}
	return a
}

// WithModule creates a new entry with module field
func (l *Logger) WithModule(module string) *Logger {
	return &Logger{Logger: l.With("module", module)}
}

// WithRequestID creates a new entry with request ID field
func (l *Logger) WithRequestID(requestID string) *Logger {
	return &Logger{Logger: l.With("request_id", requestID)}
}

// WithError creates a new entry with error field
func (l *Logger) WithError(err error) *Logger {
	return &Logger{Logger: l.With("error", err)}
}

// WithField creates a new entry with a single field
func (l *Logger) WithField(key string, value any) *Logger {
	return &Logger{Logger: l.With(key, value)}
}

// WithFields creates a new entry with multiple fields
func (l *Logger) WithFields(fields map[string]any) *Logger {
	args := make([]any, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, k, v)
	}
	return &Logger{Logger: l.With(args...)}
}
