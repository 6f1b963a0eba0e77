// Package logging defines the structured-logging interface used across
// TalentScout and its slog and zap backed implementations.
package logging

import (
	"context"
	"log/slog"
)

// Logger is a context-aware, structured logger.
//
// The variadic args are interpreted as key–value pairs, e.g.:
//
//	log.Info(ctx, "session started", "session_id", id)
type Logger interface {
	// Debug logs diagnostic detail that is off in production.
	Debug(ctx context.Context, msg string, args ...any)

	// Info logs an informational message.
	Info(ctx context.Context, msg string, args ...any)

	// Warn logs a warning message for unusual but non-fatal conditions.
	Warn(ctx context.Context, msg string, args ...any)

	// Error logs an error message for failures.
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given key–value pairs.
	With(args ...any) Logger
}

// Nop discards everything.
type Nop struct{}

func (Nop) Debug(context.Context, string, ...any) {}
func (Nop) Info(context.Context, string, ...any)  {}
func (Nop) Warn(context.Context, string, ...any)  {}
func (Nop) Error(context.Context, string, ...any) {}
func (n Nop) With(...any) Logger                  { return n }

// Redacted replaces the value of any sensitive key.
const Redacted = "[redacted]"

// sensitiveKeys never carry their value into log output.
var sensitiveKeys = map[string]struct{}{
	"email":            {},
	"phone_number":     {},
	"current_location": {},
	"encryption_key":   {},
}

// Scrub returns args with the values of sensitive keys replaced by
// Redacted. args is not modified; it is returned as is when nothing matches.
func Scrub(args []any) []any {
	var out []any
	for i := 0; i < len(args); i++ {
		switch k := args[i].(type) {
		case slog.Attr:
			if _, hit := sensitiveKeys[k.Key]; hit {
				if out == nil {
					out = append([]any(nil), args...)
				}
				out[i] = slog.String(k.Key, Redacted)
			}
		case string:
			if i+1 >= len(args) {
				continue
			}
			if _, hit := sensitiveKeys[k]; hit {
				if out == nil {
					out = append([]any(nil), args...)
				}
				out[i+1] = Redacted
			}
			i++
		}
	}
	if out == nil {
		return args
	}
	return out
}
