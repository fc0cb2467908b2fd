// Package appctx carries request-scoped values through context.
package appctx

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const traceKey contextKey = "trace"

// TraceContext holds request correlation identifiers.
type TraceContext struct {
	TraceID   string
	SpanID    string
	RequestID string
}

// NewTrace creates a TraceContext with fresh identifiers.
func NewTrace() TraceContext {
	return TraceContext{
		TraceID:   uuid.NewString(),
		RequestID: uuid.NewString(),
	}
}

// WithTrace attaches trace information to the context.
func WithTrace(ctx context.Context, tc TraceContext) context.Context {
	return context.WithValue(ctx, traceKey, tc)
}

// GetTrace extracts trace information from the context.
func GetTrace(ctx context.Context) (TraceContext, bool) {
	tc, ok := ctx.Value(traceKey).(TraceContext)
	return tc, ok
}

// GetRequestID returns the request id or an empty string.
func GetRequestID(ctx context.Context) string {
	if tc, ok := GetTrace(ctx); ok {
		return tc.RequestID
	}
	return ""
}
