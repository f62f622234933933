package ledger

import "encoding/hex"

// accountResourcePath is the access path of the account resource
// under an account address
var accountResourcePath = mustDecodeHex("01217da6c6b3e19f1825cfb2676daecce3bf3de03cf26647c78df00b371b25cc97")

const (
	sentEventsSuffix     = "/sent_events_count/"
	receivedEventsSuffix = "/received_events_count/"
)

// AccessPath identifies a resource, or a field within a resource,
// inside the state of an account
type AccessPath struct {
	Address AccountAddress
	Path    []byte
}

// AccountResourcePath returns the access path of the account resource
func AccountResourcePath(addr AccountAddress) AccessPath {
	return AccessPath{Address: addr, Path: append([]byte{}, accountResourcePath...)}
}

// SentEventsPath returns the access path of the events emitted when
// the account sends coins
func SentEventsPath(addr AccountAddress) AccessPath {
	return accountEventsPath(addr, sentEventsSuffix)
}

// ReceivedEventsPath returns the access path of the events emitted
// when the account receives coins
func ReceivedEventsPath(addr AccountAddress) AccessPath {
	return accountEventsPath(addr, receivedEventsSuffix)
}

func accountEventsPath(addr AccountAddress, suffix string) AccessPath {
	path := make([]byte, 0, len(accountResourcePath)+len(suffix))
	path = append(path, accountResourcePath...)
	path = append(path, suffix...)
	return AccessPath{Address: addr, Path: path}
}

// ContractEvent is an event emitted during the execution of a
// transaction. SequenceNumber is a counter per access path. EventData
// is opaque to the gateway
type ContractEvent struct {
	AccessPath     AccessPath
	SequenceNumber uint64
	EventData      []byte
}

func mustDecodeHex(s string) []byte {
	p, err := hex.DecodeString(s)
	if err != nil {
		panic("invalid hex constant " + s)
	}
	return p
}
