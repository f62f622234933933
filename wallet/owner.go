package wallet

import (
	"context"

	"github.com/oasislabs/ledger-gateway/ledger"
)

// Owner is the exclusive holder of a Wallet. A wallet that is shared
// between requests must only be accessed through Do, which runs one
// critical section at a time
type Owner struct {
	sem    chan struct{}
	wallet *Wallet
}

// NewOwner takes ownership of the wallet. The caller must not keep
// using the wallet directly
func NewOwner(wallet *Wallet) *Owner {
	return &Owner{
		sem:    make(chan struct{}, 1),
		wallet: wallet,
	}
}

// Do runs fn with exclusive access to the wallet. It returns the
// context's error if the context is done before access is granted
func (o *Owner) Do(ctx context.Context, fn func(w *Wallet) error) error {
	select {
	case o.sem <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}

	defer func() { <-o.sem }()
	return fn(o.wallet)
}

// Addresses returns the addresses materialized so far in the wallet,
// ordered by child number
func (o *Owner) Addresses(ctx context.Context) ([]ledger.AccountAddress, error) {
	var addresses []ledger.AccountAddress
	err := o.Do(ctx, func(w *Wallet) error {
		addresses = w.Addresses()
		return nil
	})

	return addresses, err
}
