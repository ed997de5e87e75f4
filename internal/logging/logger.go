// Package logging defines the structured-logging interface shared by the
// club client packages, plus a log/slog backed implementation.
package logging

import "context"

// Logger is a context-aware, structured logger.
//
// The variadic args are interpreted as key–value pairs, e.g.:
//
//	log.Info(ctx, "session restored", "user_id", u.ID, "role", u.Role)
type Logger interface {
	// Debug logs request-level detail (gateway calls, state transitions).
	Debug(ctx context.Context, msg string, args ...any)

	// Info logs an informational message.
	Info(ctx context.Context, msg string, args ...any)

	// Warn logs a recovered failure, e.g. a corrupt persisted session.
	Warn(ctx context.Context, msg string, args ...any)

	// Error logs a failure that reached the user.
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given key–value pairs.
	With(args ...any) Logger
}
