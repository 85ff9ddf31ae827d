// Package logging defines the structured-logging seam used across
// linkmark. Services receive a Logger and never touch a concrete
// backend directly, so the backend can change without touching them.
package logging

import "context"

// Logger is a context-aware structured logger. The variadic args are
// alternating key-value pairs:
//
//	log.Info(ctx, "user registered", "user_key", key)
type Logger interface {
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that carries the given key-value
	// pairs on every record it emits.
	With(args ...any) Logger
}
