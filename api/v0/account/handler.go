package account

import (
	"context"

	stderr "github.com/pkg/errors"

	"github.com/oasislabs/ledger-gateway/api"
	"github.com/oasislabs/ledger-gateway/client"
	"github.com/oasislabs/ledger-gateway/errors"
	"github.com/oasislabs/ledger-gateway/faucet"
	"github.com/oasislabs/ledger-gateway/ledger"
	"github.com/oasislabs/ledger-gateway/log"
	"github.com/oasislabs/ledger-gateway/proof"
	"github.com/oasislabs/ledger-gateway/rpc"
)

const (
	defaultEventsLimit = 10
	maxEventsLimit     = 100
)

type Services struct {
	Logger log.Logger
	Client client.Client
	Minter faucet.Minter
}

// AccountHandler implements the handlers for account queries
// and minting
type AccountHandler struct {
	logger log.Logger
	client client.Client
	minter faucet.Minter
}

// NewAccountHandler creates a new handler
func NewAccountHandler(services Services) AccountHandler {
	if services.Logger == nil {
		panic("Logger must be provided as a service")
	}
	if services.Client == nil {
		panic("Client must be provided as a service")
	}
	if services.Minter == nil {
		panic("Minter must be provided as a service")
	}

	return AccountHandler{
		logger: services.Logger.ForClass("account", "handler"),
		client: services.Client,
		minter: services.Minter,
	}
}

// GetBalance returns the balance of an account. Accounts that do not
// exist have a zero balance
func (h AccountHandler) GetBalance(ctx context.Context, v interface{}) (interface{}, error) {
	req := v.(*GetBalanceRequest)

	address, err := api.ParseAddress("address", req.Address)
	if err != nil {
		h.logger.Debug(ctx, "failed to parse request", log.MapFields{
			"call_type": "GetBalanceFailure",
		}, err)
		return nil, err
	}

	resource, err := h.client.GetAccountResource(ctx, address)
	if err != nil {
		h.logger.Debug(ctx, "request failed", log.MapFields{
			"call_type": "GetBalanceFailure",
			"address":   address.Hex(),
		}, err)
		return nil, err
	}

	return &GetBalanceResponse{
		Balance: ledger.FormatCoins(ledger.AccountResourceOrDefault(resource).Balance),
	}, nil
}

// MintCoins mints coins to the receiver through the faucet
func (h AccountHandler) MintCoins(ctx context.Context, v interface{}) (interface{}, error) {
	req := v.(*MintCoinsRequest)

	receiver, err := api.ParseAddress("receiver", req.Receiver)
	if err != nil {
		h.logger.Debug(ctx, "failed to parse request", log.MapFields{
			"call_type": "MintCoinsFailure",
		}, err)
		return nil, err
	}

	amount, err := api.ParseAmount("num_coins", req.NumCoins)
	if err != nil {
		h.logger.Debug(ctx, "failed to parse request", log.MapFields{
			"call_type": "MintCoinsFailure",
			"receiver":  receiver.Hex(),
		}, err)
		return nil, err
	}

	if err := h.minter.Mint(ctx, receiver, amount); err != nil {
		h.logger.Debug(ctx, "request failed", log.MapFields{
			"call_type": "MintCoinsFailure",
			"receiver":  receiver.Hex(),
		}, err)
		return nil, err
	}

	return &MintCoinsResponse{Success: true}, nil
}

// GetAccountState returns the state of an account along with the
// proof of its inclusion in the ledger
func (h AccountHandler) GetAccountState(ctx context.Context, v interface{}) (interface{}, error) {
	req := v.(*GetAccountStateRequest)

	address, err := api.ParseAddress("address", req.Address)
	if err != nil {
		h.logger.Debug(ctx, "failed to parse request", log.MapFields{
			"call_type": "GetAccountStateFailure",
		}, err)
		return nil, err
	}

	state, err := h.client.GetAccountStateWithProof(ctx, address)
	if err != nil {
		h.logger.Debug(ctx, "request failed", log.MapFields{
			"call_type": "GetAccountStateFailure",
			"address":   address.Hex(),
		}, err)
		return nil, err
	}

	view := proof.EncodeAccountStateWithProof(state)
	if view == nil {
		return &MissingAccountResponse{}, nil
	}

	return view, nil
}

// GetEvents returns a page of the sent or received events of an
// account along with the state of the account
func (h AccountHandler) GetEvents(ctx context.Context, v interface{}) (interface{}, error) {
	req := v.(*GetEventsRequest)

	address, err := api.ParseAddress("address", req.Address)
	if err != nil {
		h.logger.Debug(ctx, "failed to parse request", log.MapFields{
			"call_type": "GetEventsFailure",
		}, err)
		return nil, err
	}

	var path ledger.AccessPath
	switch req.Kind {
	case EventKindSent:
		path = ledger.SentEventsPath(address)
	case EventKindReceived:
		path = ledger.ReceivedEventsPath(address)
	default:
		err := errors.New(errors.ErrInvalidEventKind, stderr.Errorf("unknown event kind %q", req.Kind))
		h.logger.Debug(ctx, "failed to parse request", log.MapFields{
			"call_type": "GetEventsFailure",
			"address":   address.Hex(),
		}, err)
		return nil, err
	}

	limit := req.Limit
	if limit == 0 {
		limit = defaultEventsLimit
	}
	if limit > maxEventsLimit {
		limit = maxEventsLimit
	}

	events, state, err := h.client.GetEventsByAccessPath(ctx, path, req.Start, req.Ascending, limit)
	if err != nil {
		h.logger.Debug(ctx, "request failed", log.MapFields{
			"call_type": "GetEventsFailure",
			"address":   address.Hex(),
			"kind":      req.Kind,
		}, err)
		return nil, err
	}

	res := proof.EncodeAccountWithEvents(state, events)
	return &res, nil
}

// BindHandler binds the account handler to the provided
// HandlerBinder
func BindHandler(services Services, binder rpc.HandlerBinder) {
	handler := NewAccountHandler(services)

	binder.Bind("POST", "/v0/api/account/balance", rpc.HandlerFunc(handler.GetBalance),
		rpc.EntityFactoryFunc(func() interface{} { return &GetBalanceRequest{} }))
	binder.Bind("POST", "/v0/api/account/mint", rpc.HandlerFunc(handler.MintCoins),
		rpc.EntityFactoryFunc(func() interface{} { return &MintCoinsRequest{} }))
	binder.Bind("POST", "/v0/api/account/state", rpc.HandlerFunc(handler.GetAccountState),
		rpc.EntityFactoryFunc(func() interface{} { return &GetAccountStateRequest{} }))
	binder.Bind("POST", "/v0/api/account/events", rpc.HandlerFunc(handler.GetEvents),
		rpc.EntityFactoryFunc(func() interface{} { return &GetEventsRequest{} }))
}
