package featcol

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with featcol-specific context.
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

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return NewLogger(slog.DiscardHandler)
}

// WithColumn adds a column field to the logger.
func (l *Logger) WithColumn(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("column", name),
	}
}

// LogSnapshot logs a snapshot upload.
func (l *Logger) LogSnapshot(ctx context.Context, blob string, rows uint64, storedBytes uint64, err error) {
	if err != nil {
		l.ErrorContext(ctx, "snapshot failed",
			"blob", blob,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "snapshot saved",
			"blob", blob,
			"rows", rows,
			"stored_bytes", storedBytes,
		)
	}
}

// LogRestore logs a snapshot restore.
func (l *Logger) LogRestore(ctx context.Context, blob string, rows uint64, err error) {
	if err != nil {
		l.ErrorContext(ctx, "restore failed",
			"blob", blob,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "snapshot restored",
			"blob", blob,
			"rows", rows,
		)
	}
}
