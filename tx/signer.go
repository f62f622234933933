package tx

import (
	"context"

	stderr "github.com/pkg/errors"

	"github.com/oasislabs/ledger-gateway/errors"
	"github.com/oasislabs/ledger-gateway/keys"
	"github.com/oasislabs/ledger-gateway/ledger"
	"github.com/oasislabs/ledger-gateway/wallet"
)

// Kind identifies the source of the key a Signer signs with
type Kind string

const (
	// KindKeyPair signers sign with a standalone key pair
	KindKeyPair Kind = "key_pair"

	// KindWallet signers sign with a key derived by a wallet
	KindWallet Kind = "wallet"
)

// Signer is an interface for any type that signs raw transactions.
// Every implementation serializes the raw transaction to the same
// canonical bytes, only the key material differs
type Signer interface {
	// Address returns the account address of the signing key
	Address(ctx context.Context) (ledger.AccountAddress, errors.Err)

	// SignTransaction serializes and signs the raw transaction
	SignTransaction(ctx context.Context, raw *ledger.RawTransaction) (*ledger.SignedTransaction, errors.Err)

	// Kind returns the source of the signing key
	Kind() Kind
}

// KeyPairSigner signs with a standalone key pair. It is immutable and
// safe for concurrent use
type KeyPairSigner struct {
	keyPair *keys.KeyPair
}

// NewKeyPairSigner creates a signer for the key pair
func NewKeyPairSigner(keyPair *keys.KeyPair) *KeyPairSigner {
	return &KeyPairSigner{keyPair: keyPair}
}

// Address implementation of Signer
func (s *KeyPairSigner) Address(ctx context.Context) (ledger.AccountAddress, errors.Err) {
	return s.keyPair.Address(), nil
}

// Kind implementation of Signer
func (s *KeyPairSigner) Kind() Kind {
	return KindKeyPair
}

// SignTransaction implementation of Signer
func (s *KeyPairSigner) SignTransaction(
	ctx context.Context,
	raw *ledger.RawTransaction,
) (*ledger.SignedTransaction, errors.Err) {
	p, err := raw.Bytes()
	if err != nil {
		return nil, errors.New(errors.ErrSerialization, err)
	}

	return &ledger.SignedTransaction{
		RawTxnBytes:     p,
		SenderPublicKey: s.keyPair.PublicKeyBytes(),
		SenderSignature: s.keyPair.Sign(ledger.HashRawTransaction(p)),
	}, nil
}

// WalletSigner signs with the key at a child number of a wallet. The
// wallet is only accessed through its owner, so a single wallet can
// be shared by concurrent signers
type WalletSigner struct {
	owner *wallet.Owner
	child wallet.ChildNumber
}

// NewWalletSigner creates a signer for the child of the owned wallet
func NewWalletSigner(owner *wallet.Owner, child wallet.ChildNumber) *WalletSigner {
	return &WalletSigner{owner: owner, child: child}
}

func (s *WalletSigner) do(ctx context.Context, fn func(w *wallet.Wallet) errors.Err) errors.Err {
	err := s.owner.Do(ctx, func(w *wallet.Wallet) error {
		if err := fn(w); err != nil {
			return err
		}
		return nil
	})

	switch {
	case err == nil:
		return nil
	case stderr.Is(err, context.Canceled), stderr.Is(err, context.DeadlineExceeded):
		return errors.New(errors.ErrWalletUnavailable, stderr.Wrap(err, "failed to acquire wallet"))
	}

	if e, ok := err.(errors.Err); ok {
		return e
	}
	return errors.New(errors.ErrInternalError, stderr.Wrap(err, "failed to acquire wallet"))
}

// Address implementation of Signer. The address at the signer's child
// is materialized if it is not yet known to the wallet
func (s *WalletSigner) Address(ctx context.Context) (ledger.AccountAddress, errors.Err) {
	var address ledger.AccountAddress
	err := s.do(ctx, func(w *wallet.Wallet) errors.Err {
		var err errors.Err
		address, err = w.NewAddressAtChild(s.child)
		return err
	})

	return address, err
}

// Kind implementation of Signer
func (s *WalletSigner) Kind() Kind {
	return KindWallet
}

// SignTransaction implementation of Signer. Materializing the child
// and signing happen in a single critical section on the wallet
func (s *WalletSigner) SignTransaction(
	ctx context.Context,
	raw *ledger.RawTransaction,
) (*ledger.SignedTransaction, errors.Err) {
	var signed *ledger.SignedTransaction
	err := s.do(ctx, func(w *wallet.Wallet) errors.Err {
		if _, err := w.NewAddressAtChild(s.child); err != nil {
			return err
		}

		var err errors.Err
		signed, err = w.SignTransaction(raw)
		return err
	})

	return signed, err
}
