package ledger

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// AddressLength is the length in bytes of an AccountAddress
const AddressLength = 32

// AccountAddress identifies an account on the ledger
type AccountAddress [AddressLength]byte

// AccountAddressFromPublicKey derives the address owned by
// an ed25519 public key
func AccountAddressFromPublicKey(publicKey []byte) AccountAddress {
	return AccountAddress(Sha3(publicKey))
}

// ParseAccountAddress parses a hex encoded address, with or without
// 0x prefix. The address must be exactly AddressLength bytes
func ParseAccountAddress(s string) (AccountAddress, error) {
	var addr AccountAddress
	p, err := decodeHex(s)
	if err != nil {
		return addr, fmt.Errorf("address %s is not valid hex: %s", s, err.Error())
	}

	if len(p) != AddressLength {
		return addr, fmt.Errorf("address %s must be %d bytes long but it is %d",
			s, AddressLength, len(p))
	}

	copy(addr[:], p)
	return addr, nil
}

// Bytes returns a copy of the address as a slice
func (a AccountAddress) Bytes() []byte {
	p := make([]byte, AddressLength)
	copy(p, a[:])
	return p
}

// Hex returns the 0x prefixed hex representation of the address
func (a AccountAddress) Hex() string {
	return hexutil.Encode(a[:])
}

func (a AccountAddress) String() string {
	return a.Hex()
}

// MarshalText implements encoding.TextMarshaler
func (a AccountAddress) MarshalText() ([]byte, error) {
	return []byte(a.Hex()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (a *AccountAddress) UnmarshalText(text []byte) error {
	v, err := ParseAccountAddress(string(text))
	if err != nil {
		return err
	}

	*a = v
	return nil
}
