// Package requestcontext provides HTTP-independent context accessors for
// request-scoped values. Middleware sets them, services and workers read
// them, and tests inject them without running an HTTP stack.
package requestcontext

import (
	"context"
	"time"
)

type (
	ownerIDKey     struct{}
	requestIDKey   struct{}
	requestTimeKey struct{}
)

// Exported context keys for tests that need raw context.WithValue.
var (
	ContextKeyOwnerID     = ownerIDKey{}
	ContextKeyRequestID   = requestIDKey{}
	ContextKeyRequestTime = requestTimeKey{}
)

// AnonymousOwner is the owner recorded when no authenticated identity is
// present. Field capture must keep working offline and unauthenticated.
const AnonymousOwner = "anonymous"

// OwnerID retrieves the capturing actor's id from the context, falling back
// to AnonymousOwner when unset.
func OwnerID(ctx context.Context) string {
	if owner, ok := ctx.Value(ContextKeyOwnerID).(string); ok && owner != "" {
		return owner
	}
	return AnonymousOwner
}

// WithOwnerID injects an owner id into the context.
func WithOwnerID(ctx context.Context, ownerID string) context.Context {
	return context.WithValue(ctx, ContextKeyOwnerID, ownerID)
}

// RequestID retrieves the correlation id from the context.
func RequestID(ctx context.Context) string {
	if reqID, ok := ctx.Value(ContextKeyRequestID).(string); ok {
		return reqID
	}
	return ""
}

// WithRequestID injects a request id into the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ContextKeyRequestID, requestID)
}

// Now retrieves the request-scoped time from context.
// Falls back to time.Now() for non-HTTP contexts (workers, CLI, tests).
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(ContextKeyRequestTime).(time.Time); ok {
		return t
	}
	return time.Now()
}

// WithTime injects a specific time into a context. Useful for service unit
// tests and for batch workers that want one consistent timestamp.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, ContextKeyRequestTime, t)
}
