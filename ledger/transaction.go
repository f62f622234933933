package ledger

import (
	"golang.org/x/crypto/ed25519"
)

// RawTransaction is an unsigned transaction. It is a pure value, its
// only identity is the canonical serialization returned by Bytes
type RawTransaction struct {
	// Sender is the account that originates the transaction
	Sender AccountAddress

	// SequenceNumber must be the next sequence number the ledger
	// expects for Sender
	SequenceNumber uint64

	// Program is the payload to execute
	Program Program

	// MaxGasAmount is the maximum amount of gas units the transaction
	// may consume
	MaxGasAmount uint64

	// GasUnitPrice is the price paid per gas unit
	GasUnitPrice uint64

	// ExpirationTime is the absolute unix time in seconds after
	// which the transaction is discarded
	ExpirationTime uint64
}

// Bytes returns the canonical serialization of the transaction. These
// are the exact bytes that are hashed and signed
func (t *RawTransaction) Bytes() ([]byte, error) {
	return encodeRawTransaction(t)
}

// Hash returns the hash of the canonical serialization
func (t *RawTransaction) Hash() (HashValue, error) {
	p, err := t.Bytes()
	if err != nil {
		return HashValue{}, err
	}

	return HashRawTransaction(p), nil
}

// SignedTransaction is the self-contained artifact submitted to the
// ledger: the signed bytes, the sender's public key and the signature
type SignedTransaction struct {
	RawTxnBytes     []byte
	SenderPublicKey []byte
	SenderSignature []byte
}

// Hash returns the hash the signature was computed over
func (t *SignedTransaction) Hash() HashValue {
	return HashRawTransaction(t.RawTxnBytes)
}

// Verify returns true if the signature is valid for the raw
// transaction bytes and the embedded public key
func (t *SignedTransaction) Verify() bool {
	if len(t.SenderPublicKey) != ed25519.PublicKeySize ||
		len(t.SenderSignature) != ed25519.SignatureSize {
		return false
	}

	hash := t.Hash()
	return ed25519.Verify(ed25519.PublicKey(t.SenderPublicKey), hash[:], t.SenderSignature)
}

// RawTransaction decodes the raw transaction from the signed bytes
func (t *SignedTransaction) RawTransaction() (*RawTransaction, error) {
	return DecodeRawTransaction(t.RawTxnBytes)
}
