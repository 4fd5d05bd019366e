package logging

import (
	"context"
	"log/slog"
	"sort"
)

// Log levels understood by SimLogger implementations
const (
	LevelDebug = "DEBUG"
	LevelInfo  = "INFO"
	LevelWarn  = "WARNING"
	LevelError = "ERROR"
)

// SimLogger is the logging port used by the application layer
type SimLogger interface {
	Log(level, message string, metadata map[string]interface{})
}

type contextKey int

const (
	loggerKey contextKey = iota
)

// WithLogger adds a logger to the context
func WithLogger(ctx context.Context, logger SimLogger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// LoggerFromContext extracts the logger from context, or returns a no-op logger if not found
func LoggerFromContext(ctx context.Context) SimLogger {
	if logger, ok := ctx.Value(loggerKey).(SimLogger); ok {
		return logger
	}
	return NoOp()
}

// NoOp returns a logger that discards everything
func NoOp() SimLogger {
	return &noOpLogger{}
}

type noOpLogger struct{}

func (l *noOpLogger) Log(level, message string, metadata map[string]interface{}) {}

// SlogLogger adapts a *slog.Logger to SimLogger
type SlogLogger struct {
	logger *slog.Logger
}

// NewSlogLogger wraps logger; a nil logger uses slog.Default()
func NewSlogLogger(logger *slog.Logger) *SlogLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogLogger{logger: logger}
}

// Log writes message at level with metadata as sorted attributes
func (l *SlogLogger) Log(level, message string, metadata map[string]interface{}) {
	keys := make([]string, 0, len(metadata))
	for k := range metadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	attrs := make([]slog.Attr, 0, len(keys))
	for _, k := range keys {
		attrs = append(attrs, slog.Any(k, metadata[k]))
	}
	l.logger.LogAttrs(context.Background(), toSlogLevel(level), message, attrs...)
}

func toSlogLevel(level string) slog.Level {
	switch level {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn, "WARN":
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
