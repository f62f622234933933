package proof

import (
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/oasislabs/ledger-gateway/ledger"
)

func copyHashes(hashes []ledger.HashValue) []ledger.HashValue {
	siblings := make([]ledger.HashValue, len(hashes))
	copy(siblings, hashes)
	return siblings
}

func copyBytes(p []byte) hexutil.Bytes {
	return append(hexutil.Bytes{}, p...)
}

// EncodeSparseMerkleProof maps a sparse merkle proof to its view.
// Siblings keep their order from the leaf to the root
func EncodeSparseMerkleProof(proof *ledger.SparseMerkleProof) SparseMerkleProofView {
	view := SparseMerkleProofView{Siblings: copyHashes(proof.Siblings)}
	if proof.Leaf != nil {
		view.Leaf = &SparseMerkleLeafView{
			Key:       proof.Leaf.Key,
			ValueHash: proof.Leaf.ValueHash,
		}
	}

	return view
}

// EncodeAccumulatorProof maps an accumulator proof to its view.
// Siblings keep their order from the leaf to the root
func EncodeAccumulatorProof(proof *ledger.AccumulatorProof) AccumulatorProofView {
	return AccumulatorProofView{Siblings: copyHashes(proof.Siblings)}
}

// EncodeTransactionInfo maps a transaction info to its view
func EncodeTransactionInfo(info *ledger.TransactionInfo) TransactionInfoView {
	return TransactionInfoView{
		SignedTransactionHash: info.SignedTransactionHash,
		StateRootHash:         info.StateRootHash,
		EventRootHash:         info.EventRootHash,
		GasUsed:               info.GasUsed,
	}
}

// EncodeAccountStateProof maps an account state proof to its view.
// An absent proof is encoded as nil
func EncodeAccountStateProof(proof *ledger.AccountStateProof) *AccountStateProofView {
	if proof == nil {
		return nil
	}

	return &AccountStateProofView{
		LedgerInfoToTransactionInfoProof: EncodeAccumulatorProof(&proof.LedgerInfoToTransactionInfoProof),
		TransactionInfo:                  EncodeTransactionInfo(&proof.TransactionInfo),
		TransactionInfoToAccountProof:    EncodeSparseMerkleProof(&proof.TransactionInfoToAccountProof),
	}
}

// EncodeAccountStateWithProof maps an account state to its view. An
// absent state is encoded as nil
func EncodeAccountStateWithProof(state *ledger.AccountStateWithProof) *AccountStateWithProofView {
	if state == nil {
		return nil
	}

	view := &AccountStateWithProofView{
		Version: state.Version,
		Proof:   *EncodeAccountStateProof(&state.Proof),
	}
	if state.Blob != nil {
		blob := copyBytes(*state.Blob)
		view.Blob = &blob
	}

	return view
}

// EncodeAccessPath maps an access path to its view
func EncodeAccessPath(path *ledger.AccessPath) AccessPathView {
	return AccessPathView{Address: path.Address, Path: copyBytes(path.Path)}
}

// EncodeContractEvent maps an event to its view. The event data is
// copied as is
func EncodeContractEvent(event *ledger.ContractEvent) ContractEventView {
	return ContractEventView{
		AccessPath:     EncodeAccessPath(&event.AccessPath),
		SequenceNumber: event.SequenceNumber,
		EventData:      copyBytes(event.EventData),
	}
}

// EncodeContractEvents maps a list of events to their views. A nil
// list, meaning the events are not known, is encoded as nil
func EncodeContractEvents(events []ledger.ContractEvent) []ContractEventView {
	if events == nil {
		return nil
	}

	views := make([]ContractEventView, len(events))
	for i := range events {
		views[i] = EncodeContractEvent(&events[i])
	}
	return views
}

// EncodeEventProof maps an event proof to its view
func EncodeEventProof(proof *ledger.EventProof) EventProofView {
	return EventProofView{
		LedgerInfoToTransactionInfoProof: EncodeAccumulatorProof(&proof.LedgerInfoToTransactionInfoProof),
		TransactionInfo:                  EncodeTransactionInfo(&proof.TransactionInfo),
		TransactionInfoToEventProof:      EncodeAccumulatorProof(&proof.TransactionInfoToEventProof),
	}
}

// EncodeEventWithProof maps an event and its proof to its view
func EncodeEventWithProof(event *ledger.EventWithProof) EventWithProofView {
	return EventWithProofView{
		TransactionVersion: event.TransactionVersion,
		EventIndex:         event.EventIndex,
		Event:              EncodeContractEvent(&event.Event),
		Proof:              EncodeEventProof(&event.Proof),
	}
}

// EncodeEventsWithProof maps events with proofs to their views,
// keeping their order
func EncodeEventsWithProof(events []ledger.EventWithProof) []EventWithProofView {
	views := make([]EventWithProofView, len(events))
	for i := range events {
		views[i] = EncodeEventWithProof(&events[i])
	}
	return views
}

// EncodeAccountResource maps an account resource to its view
func EncodeAccountResource(resource *ledger.AccountResource) AccountResourceView {
	return AccountResourceView{
		Balance:             resource.Balance,
		SequenceNumber:      resource.SequenceNumber,
		AuthenticationKey:   copyBytes(resource.AuthenticationKey),
		SentEventsCount:     resource.SentEventsCount,
		ReceivedEventsCount: resource.ReceivedEventsCount,
	}
}

// EncodeSignedTransaction maps a signed transaction to its view
func EncodeSignedTransaction(signed *ledger.SignedTransaction) SignedTransactionView {
	return SignedTransactionView{
		RawTxnBytes:     copyBytes(signed.RawTxnBytes),
		SenderPublicKey: copyBytes(signed.SenderPublicKey),
		SenderSignature: copyBytes(signed.SenderSignature),
		Hash:            signed.Hash(),
	}
}

// EncodeAccountWithEvents creates the view of an account and a page
// of its events
func EncodeAccountWithEvents(
	state *ledger.AccountStateWithProof,
	events []ledger.EventWithProof,
) AccountWithEvents {
	return AccountWithEvents{
		Account: EncodeAccountStateWithProof(state),
		Events:  EncodeEventsWithProof(events),
	}
}

// EncodeTransactionWithEvents creates the view of a transaction and
// the events it emitted
func EncodeTransactionWithEvents(
	signed *ledger.SignedTransaction,
	events []ledger.ContractEvent,
) TransactionWithEvents {
	return TransactionWithEvents{
		Transaction: EncodeSignedTransaction(signed),
		Events:      EncodeContractEvents(events),
	}
}
