// Package requestcontext provides HTTP-independent context accessors for
// request-scoped values.
//
// This package defines context keys and getter/setter functions for values
// that are typically set by middleware but consumed by services. By keeping
// this package free of net/http dependencies, services can import only what
// they need without pulling in HTTP-related code.
//
// Usage in services (read values):
//
//	actorID := requestcontext.ActorID(ctx)
//	now := requestcontext.Now(ctx)
//
// Usage in tests (inject values):
//
//	ctx = requestcontext.WithTime(ctx, fixedTime)
//	ctx = requestcontext.WithStationID(ctx, "front-desk-2")
package requestcontext

import (
	"context"
	"time"

	id "eventops/pkg/domain"
)

// Context key types (unexported for encapsulation).
type (
	actorIDKey       struct{}
	stationIDKey     struct{}
	stationDeviceKey struct{}
	requestIDKey     struct{}
	requestTimeKey   struct{}
)

// Exported context keys for tests that need context.WithValue directly.
var (
	ContextKeyActorID       = actorIDKey{}
	ContextKeyStationID     = stationIDKey{}
	ContextKeyStationDevice = stationDeviceKey{}
	ContextKeyRequestID     = requestIDKey{}
	ContextKeyRequestTime   = requestTimeKey{}
)

// ActorID retrieves the authenticated operator ID from the context.
// Returns the zero value (nil UUID) if not set.
func ActorID(ctx context.Context) id.ActorID {
	if actorID, ok := ctx.Value(ContextKeyActorID).(id.ActorID); ok {
		return actorID
	}
	return id.ActorID{}
}

// WithActorID injects an operator ID into the context.
func WithActorID(ctx context.Context, actorID id.ActorID) context.Context {
	return context.WithValue(ctx, ContextKeyActorID, actorID)
}

// StationID retrieves the scanning-station identifier from the context.
func StationID(ctx context.Context) string {
	if stationID, ok := ctx.Value(ContextKeyStationID).(string); ok {
		return stationID
	}
	return ""
}

// WithStationID injects a scanning-station identifier into the context.
func WithStationID(ctx context.Context, stationID string) context.Context {
	return context.WithValue(ctx, ContextKeyStationID, stationID)
}

// StationDevice retrieves the human-readable station device description
// (browser/platform) recorded for audit purposes.
func StationDevice(ctx context.Context) string {
	if device, ok := ctx.Value(ContextKeyStationDevice).(string); ok {
		return device
	}
	return ""
}

// WithStationDevice injects a station device description into the context.
func WithStationDevice(ctx context.Context, device string) context.Context {
	return context.WithValue(ctx, ContextKeyStationDevice, device)
}

// RequestID retrieves the request ID from the context.
func RequestID(ctx context.Context) string {
	if reqID, ok := ctx.Value(ContextKeyRequestID).(string); ok {
		return reqID
	}
	return ""
}

// WithRequestID injects a request ID into the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ContextKeyRequestID, requestID)
}

// Now retrieves the request-scoped time from context.
// Falls back to time.Now() if not set (workers, CLI, tests).
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(ContextKeyRequestTime).(time.Time); ok {
		return t
	}
	return time.Now()
}

// WithTime injects a specific time into a context. Useful for service unit
// tests that don't run the full HTTP middleware chain, and for workers that
// need consistent time within a batch.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, ContextKeyRequestTime, t)
}
