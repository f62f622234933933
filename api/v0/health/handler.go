package health

import (
	"context"

	"github.com/oasislabs/ledger-gateway/rpc"
)

type Services struct{}

type HealthHandler struct{}

func NewHealthHandler(services Services) HealthHandler {
	return HealthHandler{}
}

func (h HealthHandler) GetHealth(ctx context.Context, v interface{}) (interface{}, error) {
	return &GetHealthResponse{Health: Healthy}, nil
}

func BindHandler(services Services, binder rpc.HandlerBinder) {
	handler := NewHealthHandler(services)

	binder.Bind("GET", "/v0/api/health", rpc.HandlerFunc(handler.GetHealth),
		rpc.EntityFactoryFunc(func() interface{} { return &GetHealthRequest{} }))
}
