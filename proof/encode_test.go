package proof

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oasislabs/ledger-gateway/ledger"
)

func hashOf(b byte) ledger.HashValue {
	var h ledger.HashValue
	h[0] = b
	return h
}

func hexHash(b byte) string {
	return hashOf(b).Hex()
}

func newAccountStateProof() ledger.AccountStateProof {
	return ledger.AccountStateProof{
		LedgerInfoToTransactionInfoProof: ledger.AccumulatorProof{
			Siblings: []ledger.HashValue{hashOf(3), hashOf(1), hashOf(2)},
		},
		TransactionInfo: ledger.TransactionInfo{
			SignedTransactionHash: hashOf(0x10),
			StateRootHash:         hashOf(0x11),
			EventRootHash:         hashOf(0x12),
			GasUsed:               7,
		},
		TransactionInfoToAccountProof: ledger.SparseMerkleProof{
			Leaf:     &ledger.SparseMerkleLeaf{Key: hashOf(0x20), ValueHash: hashOf(0x21)},
			Siblings: []ledger.HashValue{hashOf(9), hashOf(8), hashOf(0xa)},
		},
	}
}

func TestEncodeAccumulatorProofKeepsOrder(t *testing.T) {
	siblings := []ledger.HashValue{hashOf(1), hashOf(2), hashOf(3)}

	view := EncodeAccumulatorProof(&ledger.AccumulatorProof{Siblings: siblings})

	assert.Equal(t, siblings, view.Siblings)
	assert.NotEqual(t, []ledger.HashValue{hashOf(3), hashOf(2), hashOf(1)}, view.Siblings)
}

func TestEncodeAccumulatorProofCopiesSiblings(t *testing.T) {
	proof := ledger.AccumulatorProof{Siblings: []ledger.HashValue{hashOf(1)}}

	view := EncodeAccumulatorProof(&proof)
	proof.Siblings[0] = hashOf(2)

	assert.Equal(t, hashOf(1), view.Siblings[0])
}

func TestEncodeSparseMerkleProof(t *testing.T) {
	proof := ledger.SparseMerkleProof{
		Leaf:     &ledger.SparseMerkleLeaf{Key: hashOf(1), ValueHash: hashOf(2)},
		Siblings: []ledger.HashValue{hashOf(5), hashOf(4), hashOf(6)},
	}

	view := EncodeSparseMerkleProof(&proof)

	assert.Equal(t, &SparseMerkleLeafView{Key: hashOf(1), ValueHash: hashOf(2)}, view.Leaf)
	assert.Equal(t, proof.Siblings, view.Siblings)
}

func TestEncodeSparseMerkleProofWithoutLeaf(t *testing.T) {
	view := EncodeSparseMerkleProof(&ledger.SparseMerkleProof{
		Siblings: []ledger.HashValue{hashOf(1)},
	})

	assert.Nil(t, view.Leaf)

	p, err := json.Marshal(view)
	assert.Nil(t, err)
	assert.Equal(t, `{"leaf":null,"siblings":["`+hexHash(1)+`"]}`, string(p))
}

func TestEncodeAccountStateProofAbsent(t *testing.T) {
	assert.Nil(t, EncodeAccountStateProof(nil))
	assert.Nil(t, EncodeAccountStateWithProof(nil))

	view := EncodeAccountWithEvents(nil, nil)
	p, err := json.Marshal(view)
	assert.Nil(t, err)
	assert.Equal(t, `{"account":null,"events":[]}`, string(p))
}

func TestEncodeAccountStateProof(t *testing.T) {
	proof := newAccountStateProof()

	view := EncodeAccountStateProof(&proof)
	require.NotNil(t, view)

	assert.Equal(t, proof.LedgerInfoToTransactionInfoProof.Siblings,
		view.LedgerInfoToTransactionInfoProof.Siblings)
	assert.Equal(t, proof.TransactionInfoToAccountProof.Siblings,
		view.TransactionInfoToAccountProof.Siblings)
	assert.Equal(t, TransactionInfoView{
		SignedTransactionHash: hashOf(0x10),
		StateRootHash:         hashOf(0x11),
		EventRootHash:         hashOf(0x12),
		GasUsed:               7,
	}, view.TransactionInfo)
}

func TestEncodeAccountStateWithProofNonExistentAccount(t *testing.T) {
	proof := newAccountStateProof()
	proof.TransactionInfoToAccountProof.Leaf = nil

	view := EncodeAccountStateWithProof(&ledger.AccountStateWithProof{
		Version: 12,
		Proof:   proof,
	})

	require.NotNil(t, view)
	assert.Nil(t, view.Blob)
	assert.Nil(t, view.Proof.TransactionInfoToAccountProof.Leaf)
	assert.Len(t, view.Proof.TransactionInfoToAccountProof.Siblings, 3)
}

func TestEncodeAccountStateWithProofJSON(t *testing.T) {
	blob := ledger.AccountStateBlob{0xca, 0xfe}
	proof := ledger.AccountStateProof{
		TransactionInfoToAccountProof: ledger.SparseMerkleProof{
			Leaf: &ledger.SparseMerkleLeaf{Key: hashOf(1), ValueHash: hashOf(2)},
		},
	}

	p, err := json.Marshal(EncodeAccountStateWithProof(&ledger.AccountStateWithProof{
		Version: 3,
		Blob:    &blob,
		Proof:   proof,
	}))
	assert.Nil(t, err)

	zero := ledger.HashValue{}.Hex()
	assert.Equal(t, `{"version":3,"blob":"0xcafe","proof":{`+
		`"ledger_info_to_transaction_info_proof":{"siblings":[]},`+
		`"transaction_info":{"signed_transaction_hash":"`+zero+`",`+
		`"state_root_hash":"`+zero+`","event_root_hash":"`+zero+`","gas_used":0},`+
		`"transaction_info_to_account_proof":{"leaf":["`+hexHash(1)+`","`+hexHash(2)+`"],"siblings":[]}`+
		`}}`, string(p))
}

func TestEncodeEventWithProof(t *testing.T) {
	address := ledger.AccountAddress{0xaa}
	event := ledger.EventWithProof{
		TransactionVersion: 100,
		EventIndex:         1,
		Event: ledger.ContractEvent{
			AccessPath:     ledger.SentEventsPath(address),
			SequenceNumber: 4,
			EventData:      []byte{1, 2, 3},
		},
		Proof: ledger.EventProof{
			LedgerInfoToTransactionInfoProof: ledger.AccumulatorProof{
				Siblings: []ledger.HashValue{hashOf(2), hashOf(1)},
			},
			TransactionInfoToEventProof: ledger.AccumulatorProof{
				Siblings: []ledger.HashValue{hashOf(7), hashOf(9), hashOf(8)},
			},
		},
	}

	view := EncodeEventWithProof(&event)

	assert.Equal(t, uint64(100), view.TransactionVersion)
	assert.Equal(t, uint64(1), view.EventIndex)
	assert.Equal(t, address, view.Event.AccessPath.Address)
	assert.Equal(t, []byte(event.Event.AccessPath.Path), []byte(view.Event.AccessPath.Path))
	assert.Equal(t, uint64(4), view.Event.SequenceNumber)
	assert.Equal(t, []byte{1, 2, 3}, []byte(view.Event.EventData))
	assert.Equal(t, event.Proof.LedgerInfoToTransactionInfoProof.Siblings,
		view.Proof.LedgerInfoToTransactionInfoProof.Siblings)
	assert.Equal(t, event.Proof.TransactionInfoToEventProof.Siblings,
		view.Proof.TransactionInfoToEventProof.Siblings)
}

func TestEncodeContractEvents(t *testing.T) {
	assert.Nil(t, EncodeContractEvents(nil))
	assert.Equal(t, []ContractEventView{}, EncodeContractEvents([]ledger.ContractEvent{}))

	p, err := json.Marshal(TransactionWithEvents{})
	assert.Nil(t, err)
	assert.Contains(t, string(p), `"events":null`)
}

func TestSparseMerkleLeafViewJSONRoundTrip(t *testing.T) {
	leaf := SparseMerkleLeafView{Key: hashOf(1), ValueHash: hashOf(2)}

	p, err := json.Marshal(leaf)
	assert.Nil(t, err)

	var decoded SparseMerkleLeafView
	assert.Nil(t, json.Unmarshal(p, &decoded))
	assert.Equal(t, leaf, decoded)
}

func TestEncodeSignedTransaction(t *testing.T) {
	signed := ledger.SignedTransaction{
		RawTxnBytes:     []byte{0x0a, 0x01},
		SenderPublicKey: []byte{0x02},
		SenderSignature: []byte{0x03},
	}

	p, err := json.Marshal(EncodeSignedTransaction(&signed))
	assert.Nil(t, err)
	assert.Equal(t, `{"raw_txn_bytes":"0x0a01","sender_public_key":"0x02",`+
		`"sender_signature":"0x03","hash":"`+signed.Hash().Hex()+`"}`, string(p))
}
