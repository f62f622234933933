package client

import (
	"context"

	"github.com/oasislabs/ledger-gateway/errors"
	"github.com/oasislabs/ledger-gateway/ledger"
)

// Client is the interface of the ledger node the gateway reads state
// from and submits transactions to
type Client interface {
	// GetAccountResource returns the account resource of the address,
	// or nil if the account does not exist
	GetAccountResource(ctx context.Context, address ledger.AccountAddress) (*ledger.AccountResource, errors.Err)

	// GetAccountStateWithProof returns the latest state of the account
	// together with its proof
	GetAccountStateWithProof(ctx context.Context, address ledger.AccountAddress) (*ledger.AccountStateWithProof, errors.Err)

	// GetEventsByAccessPath returns up to limit events emitted on the
	// access path starting at the event sequence number start, and the
	// state of the account the events were read at
	GetEventsByAccessPath(
		ctx context.Context,
		path ledger.AccessPath,
		start uint64,
		ascending bool,
		limit uint64,
	) ([]ledger.EventWithProof, *ledger.AccountStateWithProof, errors.Err)

	// GetTransaction returns the committed transaction of the account
	// with the sequence number. Events are nil unless fetchEvents is set
	GetTransaction(
		ctx context.Context,
		address ledger.AccountAddress,
		sequenceNumber uint64,
		fetchEvents bool,
	) (*ledger.SignedTransaction, []ledger.ContractEvent, errors.Err)

	// SubmitTransaction submits a signed transaction to the ledger
	SubmitTransaction(ctx context.Context, signed *ledger.SignedTransaction) errors.Err
}
