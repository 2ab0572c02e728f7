package topicmap

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with topicmap-specific context.
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
	return &Logger{Logger: slog.New(handler)}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
func NewJSONLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return NewLogger(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.Level(1000),
	}))
}

// WithSource adds a source field to the logger.
func (l *Logger) WithSource(name string) *Logger {
	return &Logger{Logger: l.Logger.With("source", name)}
}

// LogLoad logs the load of one source backend.
func (l *Logger) LogLoad(ctx context.Context, src string, entries int, took time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "backend load failed; source resolves nothing",
			"source", src,
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "backend loaded",
		"source", src,
		"entries", entries,
		"duration", took,
	)
}

// LogBuild logs a completed or failed build.
func (l *Logger) LogBuild(ctx context.Context, dir, buildID string, sources int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "build failed",
			"dir", dir,
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "build completed",
		"dir", dir,
		"build_id", buildID,
		"sources", sources,
	)
}

// LogPublish logs a publish or fetch of a release.
func (l *Logger) LogPublish(ctx context.Context, op, buildID string, files int, err error) {
	if err != nil {
		l.ErrorContext(ctx, op+" failed",
			"build_id", buildID,
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, op+" completed",
		"build_id", buildID,
		"files", files,
	)
}
