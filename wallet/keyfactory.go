package wallet

import (
	"encoding/binary"
	"io"

	"golang.org/x/crypto/hkdf"
	"golang.org/x/crypto/pbkdf2"
	"golang.org/x/crypto/sha3"

	"github.com/oasislabs/ledger-gateway/keys"
)

const (
	mnemonicSaltPrefix = "LIBRA WALLET: mnemonic salt prefix$"
	masterKeySalt      = "LIBRA WALLET: master key salt$"
	derivedKeyInfo     = "LIBRA WALLET: derived key$"

	// DefaultSeedSalt is the salt wallets created by the gateway
	// derive their seed with
	DefaultSeedSalt = "LIBRA"

	seedIterations = 2048
	seedLength     = 32
)

// ChildNumber is the index of a key in the wallet's key tree
type ChildNumber uint64

// Seed is the secret a wallet's key tree is derived from
type Seed []byte

// NewSeed derives the seed of a mnemonic with PBKDF2-HMAC-SHA3-256
func NewSeed(mnemonic Mnemonic, salt string) Seed {
	return pbkdf2.Key([]byte(mnemonic.String()), []byte(mnemonicSaltPrefix+salt),
		seedIterations, seedLength, sha3.New256)
}

// KeyFactory derives child key pairs from the master key of a seed
type KeyFactory struct {
	master []byte
}

// NewKeyFactory extracts the master key from the seed
func NewKeyFactory(seed Seed) *KeyFactory {
	return &KeyFactory{master: hkdf.Extract(sha3.New256, seed, []byte(masterKeySalt))}
}

// PrivateChild derives the key pair at a child number. The same child
// number always yields the same key pair
func (f *KeyFactory) PrivateChild(child ChildNumber) (*keys.KeyPair, error) {
	info := make([]byte, len(derivedKeyInfo)+8)
	copy(info, derivedKeyInfo)
	binary.LittleEndian.PutUint64(info[len(derivedKeyInfo):], uint64(child))

	seed := make([]byte, keys.SeedSize)
	if _, err := io.ReadFull(hkdf.Expand(sha3.New256, f.master, info), seed); err != nil {
		return nil, err
	}

	return keys.NewKeyPair(seed)
}
