package rawbuf

import (
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with rawbuf-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// LogSnapshot logs a snapshot write.
func (l *Logger) LogSnapshot(elements int, bytesWritten int64, compression Compression, err error) {
	if err != nil {
		l.Error("snapshot failed",
			"elements", elements,
			"compression", compression.String(),
			"error", err,
		)
	} else {
		l.Debug("snapshot written",
			"elements", elements,
			"bytes", bytesWritten,
			"compression", compression.String(),
		)
	}
}

// LogLoad logs a snapshot load.
func (l *Logger) LogLoad(elements int, compression Compression, err error) {
	if err != nil {
		l.Error("load failed",
			"compression", compression.String(),
			"error", err,
		)
	} else {
		l.Debug("snapshot loaded",
			"elements", elements,
			"compression", compression.String(),
		)
	}
}
