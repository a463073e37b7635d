package allnn

import (
	"context"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with allnn-specific context.
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

// WithCount adds a count field to the logger.
func (l *Logger) WithCount(count int) *Logger {
	return &Logger{
		Logger: l.Logger.With("count", count),
	}
}

// WithSource adds a source field (file or object name) to the logger.
func (l *Logger) WithSource(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("source", name),
	}
}

// LogBuild logs a tree build.
func (l *Logger) LogBuild(ctx context.Context, points, leafCapacity int, duration time.Duration) {
	l.InfoContext(ctx, "tree built",
		"points", points,
		"leaf_capacity", leafCapacity,
		"duration", duration,
	)
}

// LogBatch logs a batch of nearest-neighbour queries.
func (l *Logger) LogBatch(ctx context.Context, queries, workers int, duration time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "queries failed",
			"queries", queries,
			"workers", workers,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "queries completed",
			"queries", queries,
			"workers", workers,
			"duration", duration,
		)
	}
}

// LogValidation logs the verdict of a validation.
func (l *Logger) LogValidation(ctx context.Context, pairs, mismatches int, duration time.Duration) {
	if mismatches > 0 {
		l.WarnContext(ctx, "validation failed",
			"pairs", pairs,
			"mismatches", mismatches,
			"duration", duration,
		)
	} else {
		l.InfoContext(ctx, "validation passed",
			"pairs", pairs,
			"duration", duration,
		)
	}
}
