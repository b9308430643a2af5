package shared

import (
	"context"
	"encoding/hex"

	"github.com/google/uuid"
)

// ContextKey is the type of the request context keys set by the API.
type ContextKey string

// TraceIDKey is the context key of the request trace ID.
const TraceIDKey ContextKey = "traceID"

// SetTraceID returns ctx carrying a fresh 32-character hex trace ID.
func SetTraceID(ctx context.Context) context.Context {
	id := uuid.New()
	return context.WithValue(ctx, TraceIDKey, hex.EncodeToString(id[:]))
}

// GetTraceID returns the trace ID of ctx, or "" if none is set.
func GetTraceID(ctx context.Context) string {
	traceID, ok := ctx.Value(TraceIDKey).(string)
	if !ok {
		return ""
	}
	return traceID
}
