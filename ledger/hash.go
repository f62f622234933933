package ledger

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"golang.org/x/crypto/sha3"
)

// HashLength is the length in bytes of a HashValue
const HashLength = 32

// hashSuffix is appended to a type name to derive the salt that
// domain separates the hashes of the different ledger types
const hashSuffix = "@@$$LIBRA$$@@"

// HashValue is the output of the ledger's content hash, SHA3-256
type HashValue [HashLength]byte

// Sha3 returns the plain SHA3-256 hash of data
func Sha3(data []byte) HashValue {
	return HashValue(sha3.Sum256(data))
}

// Hasher computes domain separated hashes for one ledger type. The
// state is seeded with the hash of the type name so that two values
// of different types never hash to the same value
type Hasher struct {
	salt HashValue
}

// NewHasher creates a hasher for the type identified by typename
func NewHasher(typename string) Hasher {
	return Hasher{salt: Sha3([]byte(typename + hashSuffix))}
}

// Hash returns the domain separated hash of data
func (h Hasher) Hash(data []byte) HashValue {
	state := sha3.New256()
	_, _ = state.Write(h.salt[:])
	_, _ = state.Write(data)

	var value HashValue
	copy(value[:], state.Sum(nil))
	return value
}

var rawTransactionHasher = NewHasher("RawTransaction")

// HashRawTransaction hashes the canonical bytes of a raw transaction.
// It is the message that senders sign
func HashRawTransaction(rawTxnBytes []byte) HashValue {
	return rawTransactionHasher.Hash(rawTxnBytes)
}

// ParseHashValue parses a hex encoded hash, with or without 0x prefix
func ParseHashValue(s string) (HashValue, error) {
	var h HashValue
	p, err := decodeHex(s)
	if err != nil {
		return h, err
	}

	if len(p) != HashLength {
		return h, fmt.Errorf("hash must be %d bytes long but it is %d", HashLength, len(p))
	}

	copy(h[:], p)
	return h, nil
}

// Bytes returns a copy of the hash as a slice
func (h HashValue) Bytes() []byte {
	p := make([]byte, HashLength)
	copy(p, h[:])
	return p
}

// Hex returns the 0x prefixed hex representation of the hash
func (h HashValue) Hex() string {
	return hexutil.Encode(h[:])
}

func (h HashValue) String() string {
	return h.Hex()
}

// MarshalText implements encoding.TextMarshaler
func (h HashValue) MarshalText() ([]byte, error) {
	return []byte(h.Hex()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (h *HashValue) UnmarshalText(text []byte) error {
	v, err := ParseHashValue(string(text))
	if err != nil {
		return err
	}

	*h = v
	return nil
}

func decodeHex(s string) ([]byte, error) {
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		return hexutil.Decode("0x" + s[2:])
	}

	return hex.DecodeString(s)
}
