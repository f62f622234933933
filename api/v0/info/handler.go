package info

import (
	"context"

	"github.com/oasislabs/ledger-gateway/errors"
	"github.com/oasislabs/ledger-gateway/ledger"
	"github.com/oasislabs/ledger-gateway/log"
	"github.com/oasislabs/ledger-gateway/rpc"
)

// Wallet is the shared wallet of the gateway
type Wallet interface {
	Addresses(ctx context.Context) ([]ledger.AccountAddress, error)
}

type Services struct {
	Logger log.Logger

	// Wallet may be nil if the gateway has no shared wallet
	Wallet Wallet
}

// InfoHandler is the handler to satisfy information requests.
type InfoHandler struct {
	logger log.Logger
	wallet Wallet
}

// NewInfoHandler creates a new instance of an info handler
func NewInfoHandler(services Services) InfoHandler {
	if services.Logger == nil {
		panic("Logger must be provided as a service")
	}

	return InfoHandler{
		logger: services.Logger.ForClass("info", "handler"),
		wallet: services.Wallet,
	}
}

// GetVersion returns the version of the component
func (h InfoHandler) GetVersion(ctx context.Context, v interface{}) (interface{}, error) {
	return &GetVersionResponse{
		Version: 0,
	}, nil
}

// GetSenders returns the addresses of the shared wallet that have
// been used to sign transactions.
func (h InfoHandler) GetSenders(ctx context.Context, v interface{}) (interface{}, error) {
	if h.wallet == nil {
		return &GetSendersResponse{Senders: []string{}}, nil
	}

	addresses, err := h.wallet.Addresses(ctx)
	if err != nil {
		e := errors.New(errors.ErrInternalError, err)
		h.logger.Debug(ctx, "failed to list shared wallet addresses", log.MapFields{
			"call_type": "GetSendersFailure",
		}, e)
		return nil, e
	}

	senders := make([]string, 0, len(addresses))
	for _, address := range addresses {
		senders = append(senders, address.Hex())
	}

	return &GetSendersResponse{Senders: senders}, nil
}

// BindHandler binds the info handler to the handler binder
func BindHandler(services Services, binder rpc.HandlerBinder) {
	handler := NewInfoHandler(services)

	binder.Bind("GET", "/v0/api/version", rpc.HandlerFunc(handler.GetVersion),
		rpc.EntityFactoryFunc(func() interface{} { return nil }))
	binder.Bind("GET", "/v0/api/info/senders", rpc.HandlerFunc(handler.GetSenders),
		rpc.EntityFactoryFunc(func() interface{} { return nil }))
}
