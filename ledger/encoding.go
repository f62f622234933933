package ledger

import (
	stderr "github.com/pkg/errors"
	"google.golang.org/protobuf/encoding/protowire"
)

// Field numbers of the ledger's protobuf messages. The canonical form
// of a RawTransaction is its protobuf encoding with fields written in
// field number order and zero valued scalars omitted.
const (
	rawTxnSenderField         protowire.Number = 1
	rawTxnSequenceNumberField protowire.Number = 2
	rawTxnProgramField        protowire.Number = 3
	rawTxnMaxGasAmountField   protowire.Number = 5
	rawTxnGasUnitPriceField   protowire.Number = 6
	rawTxnExpirationField     protowire.Number = 7

	programCodeField      protowire.Number = 1
	programArgumentsField protowire.Number = 2
	programModulesField   protowire.Number = 3

	argumentTypeField protowire.Number = 1
	argumentDataField protowire.Number = 2
)

func appendVarintField(b []byte, num protowire.Number, v uint64) []byte {
	if v == 0 {
		return b
	}

	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, v)
}

func appendBytesField(b []byte, num protowire.Number, v []byte) []byte {
	if len(v) == 0 {
		return b
	}

	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, v)
}

func encodeArgument(arg TransactionArgument) ([]byte, error) {
	if err := arg.validate(); err != nil {
		return nil, err
	}

	var b []byte
	b = appendVarintField(b, argumentTypeField, uint64(arg.Type))
	b = appendBytesField(b, argumentDataField, arg.Data)
	return b, nil
}

func encodeProgram(program *Program) ([]byte, error) {
	var b []byte
	b = appendBytesField(b, programCodeField, program.Code)

	for i, arg := range program.Arguments {
		p, err := encodeArgument(arg)
		if err != nil {
			return nil, stderr.Wrapf(err, "failed to encode program argument %d", i)
		}

		// embedded messages are always written, even when empty
		b = protowire.AppendTag(b, programArgumentsField, protowire.BytesType)
		b = protowire.AppendBytes(b, p)
	}

	for _, module := range program.Modules {
		b = protowire.AppendTag(b, programModulesField, protowire.BytesType)
		b = protowire.AppendBytes(b, module)
	}

	return b, nil
}

func encodeRawTransaction(t *RawTransaction) ([]byte, error) {
	program, err := encodeProgram(&t.Program)
	if err != nil {
		return nil, stderr.Wrap(err, "failed to encode raw transaction")
	}

	var b []byte
	b = appendBytesField(b, rawTxnSenderField, t.Sender[:])
	b = appendVarintField(b, rawTxnSequenceNumberField, t.SequenceNumber)
	b = protowire.AppendTag(b, rawTxnProgramField, protowire.BytesType)
	b = protowire.AppendBytes(b, program)
	b = appendVarintField(b, rawTxnMaxGasAmountField, t.MaxGasAmount)
	b = appendVarintField(b, rawTxnGasUnitPriceField, t.GasUnitPrice)
	b = appendVarintField(b, rawTxnExpirationField, t.ExpirationTime)
	return b, nil
}

// fieldVisitor is called for every field of a message. b holds the
// remaining input positioned at the field's value. It returns the
// number of bytes consumed, or a negative protowire error code
type fieldVisitor func(num protowire.Number, typ protowire.Type, b []byte) int

func walkMessage(b []byte, visit fieldVisitor) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]

		m := visit(num, typ, b)
		if m < 0 {
			return protowire.ParseError(m)
		}
		b = b[m:]
	}

	return nil
}

func consumeBytes(typ protowire.Type, b []byte, dst *[]byte) int {
	if typ != protowire.BytesType {
		return -1
	}

	v, n := protowire.ConsumeBytes(b)
	if n >= 0 {
		*dst = append([]byte{}, v...)
	}
	return n
}

func consumeVarint(typ protowire.Type, b []byte, dst *uint64) int {
	if typ != protowire.VarintType {
		return -1
	}

	v, n := protowire.ConsumeVarint(b)
	if n >= 0 {
		*dst = v
	}
	return n
}

func decodeArgument(b []byte) (TransactionArgument, error) {
	var (
		arg     TransactionArgument
		argType uint64
	)

	err := walkMessage(b, func(num protowire.Number, typ protowire.Type, b []byte) int {
		switch num {
		case argumentTypeField:
			return consumeVarint(typ, b, &argType)
		case argumentDataField:
			return consumeBytes(typ, b, &arg.Data)
		default:
			return protowire.ConsumeFieldValue(num, typ, b)
		}
	})
	arg.Type = ArgType(argType)
	return arg, err
}

func decodeProgram(b []byte) (Program, error) {
	var (
		program Program
		decErr  error
	)

	err := walkMessage(b, func(num protowire.Number, typ protowire.Type, b []byte) int {
		switch num {
		case programCodeField:
			return consumeBytes(typ, b, &program.Code)
		case programArgumentsField:
			var p []byte
			n := consumeBytes(typ, b, &p)
			if n < 0 {
				return n
			}

			arg, err := decodeArgument(p)
			if err != nil {
				decErr = err
				return -1
			}
			program.Arguments = append(program.Arguments, arg)
			return n
		case programModulesField:
			var p []byte
			n := consumeBytes(typ, b, &p)
			if n >= 0 {
				program.Modules = append(program.Modules, p)
			}
			return n
		default:
			return protowire.ConsumeFieldValue(num, typ, b)
		}
	})
	if decErr != nil {
		return program, decErr
	}

	return program, err
}

// DecodeRawTransaction parses the canonical serialization of a
// raw transaction
func DecodeRawTransaction(b []byte) (*RawTransaction, error) {
	var (
		t       RawTransaction
		decErr  error
		program []byte
		sender  []byte
	)

	err := walkMessage(b, func(num protowire.Number, typ protowire.Type, b []byte) int {
		switch num {
		case rawTxnSenderField:
			return consumeBytes(typ, b, &sender)
		case rawTxnSequenceNumberField:
			return consumeVarint(typ, b, &t.SequenceNumber)
		case rawTxnProgramField:
			return consumeBytes(typ, b, &program)
		case rawTxnMaxGasAmountField:
			return consumeVarint(typ, b, &t.MaxGasAmount)
		case rawTxnGasUnitPriceField:
			return consumeVarint(typ, b, &t.GasUnitPrice)
		case rawTxnExpirationField:
			return consumeVarint(typ, b, &t.ExpirationTime)
		default:
			return protowire.ConsumeFieldValue(num, typ, b)
		}
	})
	if err != nil {
		return nil, stderr.Wrap(err, "failed to decode raw transaction")
	}

	if len(sender) != AddressLength {
		return nil, stderr.Errorf("raw transaction sender must be %d bytes long but it is %d",
			AddressLength, len(sender))
	}
	copy(t.Sender[:], sender)

	t.Program, decErr = decodeProgram(program)
	if decErr != nil {
		return nil, stderr.Wrap(decErr, "failed to decode raw transaction program")
	}

	return &t, nil
}
