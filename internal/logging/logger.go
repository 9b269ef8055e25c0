// Package logging defines the structured-logging interface shared by the
// workspace client packages, plus a log/slog implementation.
package logging

import "context"

// Logger is a context-aware, structured logger.
//
// The variadic args are interpreted as key–value pairs, e.g.:
//
//	log.Info(ctx, "chunk uploaded", "file_id", id, "index", i)
type Logger interface {
	// Debug logs verbose diagnostics (per-call and per-chunk traces).
	Debug(ctx context.Context, msg string, args ...any)

	// Info logs an informational message.
	Info(ctx context.Context, msg string, args ...any)

	// Warn logs unusual but recovered conditions, e.g. the mock identity fallback.
	Warn(ctx context.Context, msg string, args ...any)

	// Error logs failures that were converted into user notices.
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given key–value pairs.
	With(args ...any) Logger
}
