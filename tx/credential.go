package tx

import (
	stderr "github.com/pkg/errors"

	"github.com/oasislabs/ledger-gateway/errors"
	"github.com/oasislabs/ledger-gateway/keys"
	"github.com/oasislabs/ledger-gateway/wallet"
)

// Credential is the authority of a sender to sign. It is either a
// WalletCredential or a KeyPairCredential
type Credential interface {
	// Signer returns the signer that signs with the credential
	Signer() Signer
}

// WalletCredential selects the key at Child of an owned wallet
type WalletCredential struct {
	Owner *wallet.Owner
	Child wallet.ChildNumber
}

// Signer implementation of Credential
func (c WalletCredential) Signer() Signer {
	return NewWalletSigner(c.Owner, c.Child)
}

// KeyPairCredential is a standalone key pair
type KeyPairCredential struct {
	KeyPair *keys.KeyPair
}

// Signer implementation of Credential
func (c KeyPairCredential) Signer() Signer {
	return NewKeyPairSigner(c.KeyPair)
}

// CredentialRequest holds the credential fields of a request. Exactly
// one of a mnemonic, a private key or, when the gateway has a shared
// wallet, a child index alone must be provided
type CredentialRequest struct {
	Mnemonic   string
	ChildIndex *uint64
	PrivateKey string
}

// CredentialResolverProps are the properties of a CredentialResolver
type CredentialResolverProps struct {
	// SharedWallet is the wallet used by requests that only provide a
	// child index. It may be nil
	SharedWallet *wallet.Owner

	// WalletProps are used for wallets created from a request mnemonic
	WalletProps wallet.Props
}

// CredentialResolver resolves the credential of a request
type CredentialResolver struct {
	shared      *wallet.Owner
	walletProps wallet.Props
}

// NewCredentialResolver creates a new resolver
func NewCredentialResolver(props CredentialResolverProps) *CredentialResolver {
	return &CredentialResolver{
		shared:      props.SharedWallet,
		walletProps: props.WalletProps,
	}
}

// Resolve decodes the credential of a request. Malformed or ambiguous
// credentials fail with ErrCredential before any signing is attempted
func (r *CredentialResolver) Resolve(req CredentialRequest) (Credential, errors.Err) {
	hasMnemonic := len(req.Mnemonic) > 0
	hasPrivateKey := len(req.PrivateKey) > 0

	switch {
	case hasMnemonic && hasPrivateKey:
		return nil, errors.New(errors.ErrCredential,
			stderr.New("only one of mnemonic or private_key can be provided"))

	case hasPrivateKey:
		if req.ChildIndex != nil {
			return nil, errors.New(errors.ErrCredential,
				stderr.New("child_index cannot be used with private_key"))
		}

		kp, err := keys.ParsePrivateKey(req.PrivateKey)
		if err != nil {
			return nil, errors.New(errors.ErrCredential, err)
		}
		return KeyPairCredential{KeyPair: kp}, nil

	case hasMnemonic:
		if req.ChildIndex == nil {
			return nil, errors.New(errors.ErrCredential,
				stderr.New("child_index is required with mnemonic"))
		}

		w, err := wallet.NewFromMnemonic(req.Mnemonic, r.walletProps)
		if err != nil {
			return nil, err
		}
		return WalletCredential{Owner: wallet.NewOwner(w), Child: wallet.ChildNumber(*req.ChildIndex)}, nil

	case req.ChildIndex != nil:
		if r.shared == nil {
			return nil, errors.New(errors.ErrSharedWalletNotConfigured, nil)
		}
		return WalletCredential{Owner: r.shared, Child: wallet.ChildNumber(*req.ChildIndex)}, nil

	default:
		return nil, errors.New(errors.ErrCredential,
			stderr.New("one of mnemonic or private_key must be provided"))
	}
}
