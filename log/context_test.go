package log

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetTraceIDNotFound(t *testing.T) {
	assert.Equal(t, int64(-1), GetTraceID(context.Background()))
}

func TestGetTraceIDWrongType(t *testing.T) {
	ctx := context.WithValue(context.Background(), ContextKeyTraceID, "trace")
	assert.Equal(t, int64(-1), GetTraceID(ctx))
}

func TestPutTraceID(t *testing.T) {
	ctx := PutTraceID(context.Background(), 77)
	assert.Equal(t, int64(77), GetTraceID(ctx))
}
