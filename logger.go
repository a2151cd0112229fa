package galgo

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with galgo-specific context.
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
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
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

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithAlbum adds an album field to the logger.
func (l *Logger) WithAlbum(album string) *Logger {
	return &Logger{
		Logger: l.Logger.With("album", album),
	}
}

// WithCount adds a count field to the logger.
func (l *Logger) WithCount(count int) *Logger {
	return &Logger{
		Logger: l.Logger.With("count", count),
	}
}

// LogInsert logs an insert operation.
func (l *Logger) LogInsert(ctx context.Context, seq uint32, album string, err error) {
	if err != nil {
		l.ErrorContext(ctx, "insert failed",
			"seq", seq,
			"album", album,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "insert completed",
			"seq", seq,
			"album", album,
		)
	}
}

// LogBatchInsert logs a batch insert operation.
func (l *Logger) LogBatchInsert(ctx context.Context, count int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "batch insert failed",
			"count", count,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "batch insert completed",
			"count", count,
		)
	}
}

// LogQuery logs a page query.
func (l *Logger) LogQuery(ctx context.Context, album string, page, pageSize, results int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "query failed",
			"album", album,
			"page", page,
			"page_size", pageSize,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "query completed",
			"album", album,
			"page", page,
			"page_size", pageSize,
			"results", results,
		)
	}
}

// LogSnapshot logs a snapshot operation.
func (l *Logger) LogSnapshot(ctx context.Context, name string, err error) {
	if err != nil {
		l.ErrorContext(ctx, "snapshot failed",
			"name", name,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "snapshot saved",
			"name", name,
		)
	}
}

// LogLoad logs a snapshot restore.
func (l *Logger) LogLoad(ctx context.Context, name string, count int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "snapshot load failed",
			"name", name,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "snapshot loaded",
			"name", name,
			"count", count,
		)
	}
}
