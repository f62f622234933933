package wallet

import (
	"math"
	"sort"

	stderr "github.com/pkg/errors"

	"github.com/oasislabs/ledger-gateway/errors"
	"github.com/oasislabs/ledger-gateway/keys"
	"github.com/oasislabs/ledger-gateway/ledger"
)

// DefaultMaxChildNumber is the highest child number a wallet derives
// unless configured otherwise
const DefaultMaxChildNumber ChildNumber = math.MaxInt32

// Props are the properties that define the behaviour of a Wallet
type Props struct {
	// Salt used to derive the seed from the mnemonic. DefaultSeedSalt
	// is used if empty
	Salt string

	// MaxChildNumber is the highest child number the wallet accepts
	// to derive. DefaultMaxChildNumber is used if zero
	MaxChildNumber ChildNumber
}

// Wallet is a hierarchical deterministic wallet. It keeps the set of
// addresses that have been materialized, and only signs transactions
// sent from one of them. A Wallet is not safe for concurrent use, an
// Owner must be used to share it
type Wallet struct {
	factory   *KeyFactory
	maxChild  ChildNumber
	children  map[ChildNumber]*keys.KeyPair
	addresses map[ledger.AccountAddress]ChildNumber
}

// New creates a wallet from a mnemonic
func New(mnemonic Mnemonic, props Props) *Wallet {
	salt := props.Salt
	if len(salt) == 0 {
		salt = DefaultSeedSalt
	}

	maxChild := props.MaxChildNumber
	if maxChild == 0 {
		maxChild = DefaultMaxChildNumber
	}

	return &Wallet{
		factory:   NewKeyFactory(NewSeed(mnemonic, salt)),
		maxChild:  maxChild,
		children:  make(map[ChildNumber]*keys.KeyPair),
		addresses: make(map[ledger.AccountAddress]ChildNumber),
	}
}

// NewFromMnemonic parses the mnemonic and creates a wallet from it
func NewFromMnemonic(words string, props Props) (*Wallet, errors.Err) {
	mnemonic, err := ParseMnemonic(words)
	if err != nil {
		return nil, err
	}

	return New(mnemonic, props), nil
}

func (w *Wallet) child(child ChildNumber) (*keys.KeyPair, errors.Err) {
	if child > w.maxChild {
		return nil, errors.New(errors.ErrDerivation,
			stderr.Errorf("child number %d exceeds the maximum %d", child, w.maxChild))
	}

	if kp, ok := w.children[child]; ok {
		return kp, nil
	}

	kp, err := w.factory.PrivateChild(child)
	if err != nil {
		return nil, errors.New(errors.ErrDerivation, err)
	}

	return kp, nil
}

// NewAddressAtChild materializes the address at the child number and
// records it so that the wallet can sign for it. Materializing a child
// that is already known returns the same address
func (w *Wallet) NewAddressAtChild(child ChildNumber) (ledger.AccountAddress, errors.Err) {
	kp, err := w.child(child)
	if err != nil {
		return ledger.AccountAddress{}, err
	}

	address := kp.Address()
	w.children[child] = kp
	w.addresses[address] = child
	return address, nil
}

// Addresses returns the materialized addresses ordered by child number
func (w *Wallet) Addresses() []ledger.AccountAddress {
	children := make([]ChildNumber, 0, len(w.children))
	for child := range w.children {
		children = append(children, child)
	}
	sort.Slice(children, func(i, j int) bool { return children[i] < children[j] })

	addresses := make([]ledger.AccountAddress, 0, len(children))
	for _, child := range children {
		addresses = append(addresses, w.children[child].Address())
	}

	return addresses
}

// ChildOf returns the child number of a materialized address
func (w *Wallet) ChildOf(address ledger.AccountAddress) (ChildNumber, bool) {
	child, ok := w.addresses[address]
	return child, ok
}

// ExportPrivateKey returns the key pair at the child number without
// materializing its address
func (w *Wallet) ExportPrivateKey(child ChildNumber) (*keys.KeyPair, errors.Err) {
	return w.child(child)
}

// SignTransaction signs the transaction with the key of its sender.
// The sender must have been materialized with NewAddressAtChild
func (w *Wallet) SignTransaction(raw *ledger.RawTransaction) (*ledger.SignedTransaction, errors.Err) {
	child, ok := w.addresses[raw.Sender]
	if !ok {
		return nil, errors.New(errors.ErrDerivation,
			stderr.Errorf("address %s has not been materialized by the wallet", raw.Sender.Hex()))
	}

	kp := w.children[child]
	p, err := raw.Bytes()
	if err != nil {
		return nil, errors.New(errors.ErrSerialization, err)
	}

	signed := &ledger.SignedTransaction{
		RawTxnBytes:     p,
		SenderPublicKey: kp.PublicKeyBytes(),
		SenderSignature: kp.Sign(ledger.HashRawTransaction(p)),
	}

	return signed, nil
}
