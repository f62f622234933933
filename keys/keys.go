package keys

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/ed25519"

	"github.com/oasislabs/ledger-gateway/ledger"
)

// SeedSize is the size of a private key seed in bytes
const SeedSize = ed25519.SeedSize

// KeyPair is a standalone ed25519 key pair. It is immutable and safe
// for concurrent use
type KeyPair struct {
	privateKey ed25519.PrivateKey
	publicKey  ed25519.PublicKey
}

// NewKeyPair derives the key pair from a 32 byte seed
func NewKeyPair(seed []byte) (*KeyPair, error) {
	if len(seed) != SeedSize {
		return nil, fmt.Errorf("private key seed must be %d bytes long but it is %d",
			SeedSize, len(seed))
	}

	privateKey := ed25519.NewKeyFromSeed(seed)
	return &KeyPair{
		privateKey: privateKey,
		publicKey:  privateKey.Public().(ed25519.PublicKey),
	}, nil
}

// GenerateKeyPair creates a random key pair reading entropy from r,
// or from crypto/rand if r is nil
func GenerateKeyPair(r io.Reader) (*KeyPair, error) {
	if r == nil {
		r = rand.Reader
	}

	seed := make([]byte, SeedSize)
	if _, err := io.ReadFull(r, seed); err != nil {
		return nil, fmt.Errorf("failed to read entropy %s", err.Error())
	}

	return NewKeyPair(seed)
}

// ParsePrivateKey parses a hex encoded private key. Both the 32 byte
// seed and the 64 byte expanded form are accepted
func ParsePrivateKey(s string) (*KeyPair, error) {
	p, err := hex.DecodeString(strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X"))
	if err != nil {
		return nil, fmt.Errorf("private key is not valid hex: %s", err.Error())
	}

	switch len(p) {
	case ed25519.SeedSize:
		return NewKeyPair(p)
	case ed25519.PrivateKeySize:
		kp, err := NewKeyPair(p[:ed25519.SeedSize])
		if err != nil {
			return nil, err
		}

		// the expanded form carries the public key, which must match
		// the one derived from the seed
		if !bytes.Equal(kp.publicKey, p[ed25519.SeedSize:]) {
			return nil, fmt.Errorf("private key public half does not match its seed")
		}
		return kp, nil
	default:
		return nil, fmt.Errorf("private key must be %d or %d bytes long but it is %d",
			ed25519.SeedSize, ed25519.PrivateKeySize, len(p))
	}
}

// Sign signs the hash of a message
func (k *KeyPair) Sign(hash ledger.HashValue) []byte {
	return ed25519.Sign(k.privateKey, hash[:])
}

// PublicKeyBytes returns a copy of the public key
func (k *KeyPair) PublicKeyBytes() []byte {
	return append([]byte{}, k.publicKey...)
}

// Seed returns a copy of the private key seed
func (k *KeyPair) Seed() []byte {
	return k.privateKey.Seed()
}

// Address returns the account address owned by the key pair
func (k *KeyPair) Address() ledger.AccountAddress {
	return ledger.AccountAddressFromPublicKey(k.publicKey)
}

// Verify verifies a signature over the hash of a message
func Verify(publicKey []byte, hash ledger.HashValue, signature []byte) bool {
	if len(publicKey) != ed25519.PublicKeySize {
		return false
	}

	return ed25519.Verify(ed25519.PublicKey(publicKey), hash[:], signature)
}
