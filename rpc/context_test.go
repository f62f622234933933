package rpc

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/oasislabs/ledger-gateway/errors"
	"github.com/oasislabs/ledger-gateway/log"
)

func TestParseTraceIDString(t *testing.T) {
	assert.Equal(t, int64(-1), ParseTraceID("traceID"))
}

func TestParseTraceIDEmpty(t *testing.T) {
	assert.Equal(t, int64(-1), ParseTraceID(""))
}

func TestParseTraceIDInteger(t *testing.T) {
	assert.Equal(t, int64(12345), ParseTraceID("12345"))
}

func TestParseTraceIDOverflow(t *testing.T) {
	assert.Equal(t, int64(-1), ParseTraceID("92233720368547758070"))
}

func traceRouter(err error) *HttpRouter {
	binder := NewHttpBinder(HttpBinderProperties{
		Encoder:        JsonEncoder{},
		Logger:         logger,
		HandlerFactory: HttpHandlerFactoryFunc(relayHandlerFactory),
	})

	binder.Bind("GET", "/trace", HandlerFunc(func(ctx context.Context, v interface{}) (interface{}, error) {
		if err != nil {
			return nil, err
		}
		return map[string]int64{"trace_id": log.GetTraceID(ctx)}, nil
	}), nil)

	return binder.Build()
}

func serveTrace(router *HttpRouter, traceID string) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/trace", nil)
	if len(traceID) > 0 {
		req.Header.Set(HttpHeaderTraceID, traceID)
	}

	router.ServeHTTP(recorder, req)
	return recorder
}

func TestTraceIDReachesHandlerAndResponse(t *testing.T) {
	recorder := serveTrace(traceRouter(nil), "777")

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "{\"trace_id\":777}\n", recorder.Body.String())
	assert.Equal(t, "777", recorder.Header().Get(HttpHeaderTraceID))
}

func TestTraceIDMissingHeader(t *testing.T) {
	recorder := serveTrace(traceRouter(nil), "")

	assert.Equal(t, "{\"trace_id\":-1}\n", recorder.Body.String())
	assert.Equal(t, "-1", recorder.Header().Get(HttpHeaderTraceID))
}

func TestTraceIDInvalidHeader(t *testing.T) {
	recorder := serveTrace(traceRouter(nil), "not-a-number")

	assert.Equal(t, "{\"trace_id\":-1}\n", recorder.Body.String())
	assert.Equal(t, "-1", recorder.Header().Get(HttpHeaderTraceID))
}

func TestTraceIDOnErrorResponse(t *testing.T) {
	recorder := serveTrace(traceRouter(errors.New(errors.ErrInvalidAddress, nil)), "42")

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Equal(t, "42", recorder.Header().Get(HttpHeaderTraceID))
}
