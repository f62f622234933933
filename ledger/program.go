package ledger

import (
	"encoding/binary"
	"fmt"
)

// ArgType is the type tag of a TransactionArgument
type ArgType uint64

const (
	ArgU64       ArgType = 0
	ArgAddress   ArgType = 1
	ArgString    ArgType = 2
	ArgByteArray ArgType = 3
)

func (t ArgType) String() string {
	switch t {
	case ArgU64:
		return "u64"
	case ArgAddress:
		return "address"
	case ArgString:
		return "string"
	case ArgByteArray:
		return "bytearray"
	default:
		return fmt.Sprintf("unknown(%d)", uint64(t))
	}
}

// TransactionArgument is a typed argument passed to a program. Data
// holds the argument in its wire form: little endian for u64, the
// raw bytes for the rest
type TransactionArgument struct {
	Type ArgType
	Data []byte
}

// U64Argument creates an argument of type u64
func U64Argument(v uint64) TransactionArgument {
	data := make([]byte, 8)
	binary.LittleEndian.PutUint64(data, v)
	return TransactionArgument{Type: ArgU64, Data: data}
}

// AddressArgument creates an argument of type address
func AddressArgument(addr AccountAddress) TransactionArgument {
	return TransactionArgument{Type: ArgAddress, Data: addr.Bytes()}
}

// StringArgument creates an argument of type string
func StringArgument(s string) TransactionArgument {
	return TransactionArgument{Type: ArgString, Data: []byte(s)}
}

// ByteArrayArgument creates an argument of type bytearray
func ByteArrayArgument(p []byte) TransactionArgument {
	data := make([]byte, len(p))
	copy(data, p)
	return TransactionArgument{Type: ArgByteArray, Data: data}
}

func (a TransactionArgument) validate() error {
	switch a.Type {
	case ArgU64:
		if len(a.Data) != 8 {
			return fmt.Errorf("u64 argument must be 8 bytes long but it is %d", len(a.Data))
		}
	case ArgAddress:
		if len(a.Data) != AddressLength {
			return fmt.Errorf("address argument must be %d bytes long but it is %d",
				AddressLength, len(a.Data))
		}
	case ArgString, ArgByteArray:
	default:
		return fmt.Errorf("unknown argument type %s", a.Type)
	}

	return nil
}

// Program is the executable payload of a transaction. Its contents
// are opaque to the gateway, the ledger validates them
type Program struct {
	Code      []byte
	Arguments []TransactionArgument
	Modules   [][]byte
}

// NewTransferProgram creates the peer to peer transfer program that
// moves amount micro coins from the sender to the receiver. code is the
// compiled transfer script
func NewTransferProgram(code []byte, receiver AccountAddress, amount uint64) Program {
	p := make([]byte, len(code))
	copy(p, code)

	return Program{
		Code:      p,
		Arguments: []TransactionArgument{AddressArgument(receiver), U64Argument(amount)},
	}
}
