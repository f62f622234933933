package tx

import (
	"time"

	"github.com/oasislabs/ledger-gateway/ledger"
)

const (
	// DefaultGasUnitPrice is the price per gas unit of transactions
	// that do not set one
	DefaultGasUnitPrice uint64 = 0

	// DefaultMaxGasAmount is the maximum gas of transactions that do
	// not set one
	DefaultMaxGasAmount uint64 = 10000

	// DefaultExpirationWindow is the time a transaction stays valid
	// after it is built
	DefaultExpirationWindow = 100 * time.Second
)

// Clock returns the current time
type Clock func() time.Time

// BuilderProps are the policy values used by a Builder when a
// request does not override them
type BuilderProps struct {
	GasUnitPrice     uint64
	MaxGasAmount     uint64
	ExpirationWindow time.Duration
	Clock            Clock
}

// GasOptions are the optional gas parameters of a single build.
// A nil value means the builder's policy value is used
type GasOptions struct {
	GasUnitPrice *uint64
	MaxGasAmount *uint64
}

// Builder assembles raw transactions. It does not validate the
// program, which is opaque to the gateway
type Builder struct {
	gasUnitPrice     uint64
	maxGasAmount     uint64
	expirationWindow time.Duration
	clock            Clock
}

// NewBuilder creates a builder. Zero valued props are replaced by
// the defaults
func NewBuilder(props BuilderProps) *Builder {
	b := &Builder{
		gasUnitPrice:     props.GasUnitPrice,
		maxGasAmount:     props.MaxGasAmount,
		expirationWindow: props.ExpirationWindow,
		clock:            props.Clock,
	}

	if b.maxGasAmount == 0 {
		b.maxGasAmount = DefaultMaxGasAmount
	}
	if b.expirationWindow == 0 {
		b.expirationWindow = DefaultExpirationWindow
	}
	if b.clock == nil {
		b.clock = time.Now
	}

	return b
}

// Build creates the raw transaction. The expiration time is fixed
// relative to the builder's clock at the time of the call
func (b *Builder) Build(
	sender ledger.AccountAddress,
	sequenceNumber uint64,
	program ledger.Program,
	opts GasOptions,
) *ledger.RawTransaction {
	gasUnitPrice := b.gasUnitPrice
	if opts.GasUnitPrice != nil {
		gasUnitPrice = *opts.GasUnitPrice
	}

	maxGasAmount := b.maxGasAmount
	if opts.MaxGasAmount != nil {
		maxGasAmount = *opts.MaxGasAmount
	}

	return &ledger.RawTransaction{
		Sender:         sender,
		SequenceNumber: sequenceNumber,
		Program:        program,
		MaxGasAmount:   maxGasAmount,
		GasUnitPrice:   gasUnitPrice,
		ExpirationTime: uint64(b.clock().Add(b.expirationWindow).Unix()),
	}
}
