package log

import (
	"context"
)

type ContextKey string

const (
	ContextKeyTraceID ContextKey = "logContextKeyTraceID"
)

// PutTraceID returns a context that carries the trace id that
// every log entry made with it will include
func PutTraceID(ctx context.Context, traceID int64) context.Context {
	return context.WithValue(ctx, ContextKeyTraceID, traceID)
}

// GetTraceID returns the trace id of the context or -1
// if there is none
func GetTraceID(ctx context.Context) int64 {
	if ctx == nil {
		return -1
	}

	traceID, ok := ctx.Value(ContextKeyTraceID).(int64)
	if !ok {
		return -1
	}

	return traceID
}
