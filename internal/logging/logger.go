// Package logging wraps log/slog with the field names used across
// learn2branch.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Logger wraps slog.Logger with search-specific helpers.
type Logger struct {
	*slog.Logger
}

// New creates a Logger with the given handler.
// If handler is nil, uses a text handler to stderr at info level.
func New(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	return &Logger{Logger: slog.New(handler)}
}

// NewText creates a Logger writing human-readable text to w.
func NewText(w io.Writer, level slog.Level) *Logger {
	return New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// NewJSON creates a Logger writing JSON lines to w.
func NewJSON(w io.Writer, level slog.Level) *Logger {
	return New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

// Noop creates a Logger that discards all output.
func Noop() *Logger {
	return New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(1000)}))
}

// ParseLevel maps "debug", "info", "warn" and "error" to slog levels.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

// WithEpisode tags every record with an episode identifier.
func (l *Logger) WithEpisode(id string) *Logger {
	return &Logger{Logger: l.Logger.With("episode", id)}
}

// LogLP logs one node relaxation solve.
func (l *Logger) LogLP(ctx context.Context, node int64, status string, objective float64, iterations int) {
	l.DebugContext(ctx, "lp solved",
		"node", node,
		"status", status,
		"objective", objective,
		"iterations", iterations,
	)
}

// LogDecision logs a branching decision.
func (l *Logger) LogDecision(ctx context.Context, node int64, depth int, column int, value float64, err error) {
	if err != nil {
		l.ErrorContext(ctx, "branching decision failed",
			"node", node,
			"depth", depth,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "branching decision",
		"node", node,
		"depth", depth,
		"column", column,
		"value", value,
	)
}

// LogIncumbent logs a new best solution.
func (l *Logger) LogIncumbent(ctx context.Context, node int64, objective float64) {
	l.InfoContext(ctx, "new incumbent",
		"node", node,
		"objective", objective,
	)
}

// LogEpisode logs the end of a search.
func (l *Logger) LogEpisode(ctx context.Context, status string, objective float64, nodes, lps, decisions int64, err error) {
	if err != nil {
		l.ErrorContext(ctx, "episode failed",
			"status", status,
			"nodes", nodes,
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "episode finished",
		"status", status,
		"objective", objective,
		"nodes", nodes,
		"lps", lps,
		"decisions", decisions,
	)
}
