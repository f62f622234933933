package transaction

import (
	"context"

	"github.com/oasislabs/ledger-gateway/api"
	"github.com/oasislabs/ledger-gateway/client"
	"github.com/oasislabs/ledger-gateway/errors"
	"github.com/oasislabs/ledger-gateway/ledger"
	"github.com/oasislabs/ledger-gateway/log"
	"github.com/oasislabs/ledger-gateway/proof"
	"github.com/oasislabs/ledger-gateway/rpc"
	"github.com/oasislabs/ledger-gateway/tx"
)

type Services struct {
	Logger   log.Logger
	Client   client.Client
	Tx       *tx.Service
	Resolver *tx.CredentialResolver

	// TransferScript is the compiled peer to peer transfer script. If
	// empty the gateway cannot build transfers
	TransferScript []byte
}

// TransactionHandler implements the handlers to build, sign, submit
// and retrieve transactions
type TransactionHandler struct {
	logger         log.Logger
	client         client.Client
	tx             *tx.Service
	resolver       *tx.CredentialResolver
	transferScript []byte
}

// NewTransactionHandler creates a new handler
func NewTransactionHandler(services Services) TransactionHandler {
	if services.Logger == nil {
		panic("Logger must be provided as a service")
	}
	if services.Client == nil {
		panic("Client must be provided as a service")
	}
	if services.Tx == nil {
		panic("Tx must be provided as a service")
	}
	if services.Resolver == nil {
		panic("Resolver must be provided as a service")
	}

	return TransactionHandler{
		logger:         services.Logger.ForClass("transaction", "handler"),
		client:         services.Client,
		tx:             services.Tx,
		resolver:       services.Resolver,
		transferScript: services.TransferScript,
	}
}

// GetTransaction returns a committed transaction and, if requested,
// the events it emitted
func (h TransactionHandler) GetTransaction(ctx context.Context, v interface{}) (interface{}, error) {
	req := v.(*GetTransactionRequest)

	address, err := api.ParseAddress("address", req.Address)
	if err != nil {
		h.logger.Debug(ctx, "failed to parse request", log.MapFields{
			"call_type": "GetTransactionFailure",
		}, err)
		return nil, err
	}

	signed, events, err := h.client.GetTransaction(ctx, address, req.SequenceNumber, req.FetchEvents)
	if err != nil {
		h.logger.Debug(ctx, "request failed", log.MapFields{
			"call_type":       "GetTransactionFailure",
			"address":         address.Hex(),
			"sequence_number": req.SequenceNumber,
		}, err)
		return nil, err
	}

	res := proof.EncodeTransactionWithEvents(signed, events)
	return &res, nil
}

// SignTransfer builds and signs a transfer without submitting it
func (h TransactionHandler) SignTransfer(ctx context.Context, v interface{}) (interface{}, error) {
	req := v.(*TransferRequest)

	signed, err := h.signTransfer(ctx, req)
	if err != nil {
		h.logger.Debug(ctx, "failed to sign transfer", log.MapFields{
			"call_type": "SignTransferFailure",
		}, err)
		return nil, err
	}

	res := proof.EncodeSignedTransaction(signed)
	return &res, nil
}

// Transfer builds and signs a transfer and submits it to the ledger
func (h TransactionHandler) Transfer(ctx context.Context, v interface{}) (interface{}, error) {
	req := v.(*TransferRequest)

	signed, err := h.signTransfer(ctx, req)
	if err != nil {
		h.logger.Debug(ctx, "failed to sign transfer", log.MapFields{
			"call_type": "TransferFailure",
		}, err)
		return nil, err
	}

	if err := h.client.SubmitTransaction(ctx, signed); err != nil {
		h.logger.Debug(ctx, "failed to submit transfer", log.MapFields{
			"call_type": "TransferFailure",
			"hash":      signed.Hash().Hex(),
		}, err)
		return nil, err
	}

	h.logger.Info(ctx, "transfer submitted", log.MapFields{
		"call_type": "TransferSuccess",
		"hash":      signed.Hash().Hex(),
	})

	res := proof.EncodeSignedTransaction(signed)
	return &res, nil
}

func (h TransactionHandler) signTransfer(
	ctx context.Context,
	req *TransferRequest,
) (*ledger.SignedTransaction, errors.Err) {
	if len(h.transferScript) == 0 {
		return nil, errors.New(errors.ErrTransferScriptNotConfigured, nil)
	}

	receiver, err := api.ParseAddress("receiver", req.Receiver)
	if err != nil {
		return nil, err
	}

	amount, err := api.ParseAmount("amount", req.Amount)
	if err != nil {
		return nil, err
	}

	credential, err := h.resolver.Resolve(tx.CredentialRequest{
		Mnemonic:   req.Mnemonic,
		ChildIndex: req.ChildIndex,
		PrivateKey: req.PrivateKey,
	})
	if err != nil {
		return nil, err
	}

	sender, err := credential.Signer().Address(ctx)
	if err != nil {
		return nil, err
	}

	var sequenceNumber uint64
	if req.SequenceNumber != nil {
		sequenceNumber = *req.SequenceNumber
	} else {
		resource, err := h.client.GetAccountResource(ctx, sender)
		if err != nil {
			return nil, err
		}
		sequenceNumber = ledger.AccountResourceOrDefault(resource).SequenceNumber
	}

	return h.tx.BuildAndSign(ctx, credential, tx.BuildRequest{
		Sender:         &sender,
		SequenceNumber: sequenceNumber,
		Program:        ledger.NewTransferProgram(h.transferScript, receiver, amount),
		Gas: tx.GasOptions{
			GasUnitPrice: req.GasUnitPrice,
			MaxGasAmount: req.MaxGasAmount,
		},
	})
}

// BindHandler binds the transaction handler to the provided
// HandlerBinder
func BindHandler(services Services, binder rpc.HandlerBinder) {
	handler := NewTransactionHandler(services)

	binder.Bind("POST", "/v0/api/transaction/get", rpc.HandlerFunc(handler.GetTransaction),
		rpc.EntityFactoryFunc(func() interface{} { return &GetTransactionRequest{} }))
	binder.Bind("POST", "/v0/api/transaction/sign", rpc.HandlerFunc(handler.SignTransfer),
		rpc.EntityFactoryFunc(func() interface{} { return &TransferRequest{} }))
	binder.Bind("POST", "/v0/api/transaction/transfer", rpc.HandlerFunc(handler.Transfer),
		rpc.EntityFactoryFunc(func() interface{} { return &TransferRequest{} }))
}
