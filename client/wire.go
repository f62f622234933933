package client

import (
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/oasislabs/ledger-gateway/ledger"
)

// wire types of the ledger node's JSON-RPC interface. Byte strings are
// 0x prefixed hex and a sparse merkle leaf is a [key, value_hash] pair

type accountResourceDTO struct {
	Balance             uint64        `json:"balance"`
	SequenceNumber      uint64        `json:"sequence_number"`
	AuthenticationKey   hexutil.Bytes `json:"authentication_key"`
	SentEventsCount     uint64        `json:"sent_events_count"`
	ReceivedEventsCount uint64        `json:"received_events_count"`
}

func (d *accountResourceDTO) decode() *ledger.AccountResource {
	return &ledger.AccountResource{
		Balance:             d.Balance,
		SequenceNumber:      d.SequenceNumber,
		AuthenticationKey:   d.AuthenticationKey,
		SentEventsCount:     d.SentEventsCount,
		ReceivedEventsCount: d.ReceivedEventsCount,
	}
}

type accumulatorProofDTO struct {
	Siblings []ledger.HashValue `json:"siblings"`
}

func (d *accumulatorProofDTO) decode() ledger.AccumulatorProof {
	return ledger.AccumulatorProof{Siblings: d.Siblings}
}

type sparseMerkleProofDTO struct {
	Leaf     *[2]ledger.HashValue `json:"leaf"`
	Siblings []ledger.HashValue   `json:"siblings"`
}

func (d *sparseMerkleProofDTO) decode() ledger.SparseMerkleProof {
	proof := ledger.SparseMerkleProof{Siblings: d.Siblings}
	if d.Leaf != nil {
		proof.Leaf = &ledger.SparseMerkleLeaf{Key: d.Leaf[0], ValueHash: d.Leaf[1]}
	}
	return proof
}

type transactionInfoDTO struct {
	SignedTransactionHash ledger.HashValue `json:"signed_transaction_hash"`
	StateRootHash         ledger.HashValue `json:"state_root_hash"`
	EventRootHash         ledger.HashValue `json:"event_root_hash"`
	GasUsed               uint64           `json:"gas_used"`
}

func (d *transactionInfoDTO) decode() ledger.TransactionInfo {
	return ledger.TransactionInfo{
		SignedTransactionHash: d.SignedTransactionHash,
		StateRootHash:         d.StateRootHash,
		EventRootHash:         d.EventRootHash,
		GasUsed:               d.GasUsed,
	}
}

type accountStateProofDTO struct {
	LedgerInfoToTransactionInfoProof accumulatorProofDTO  `json:"ledger_info_to_transaction_info_proof"`
	TransactionInfo                  transactionInfoDTO   `json:"transaction_info"`
	TransactionInfoToAccountProof    sparseMerkleProofDTO `json:"transaction_info_to_account_proof"`
}

type accountStateWithProofDTO struct {
	Version uint64               `json:"version"`
	Blob    *hexutil.Bytes       `json:"blob"`
	Proof   accountStateProofDTO `json:"proof"`
}

func (d *accountStateWithProofDTO) decode() *ledger.AccountStateWithProof {
	state := &ledger.AccountStateWithProof{
		Version: d.Version,
		Proof: ledger.AccountStateProof{
			LedgerInfoToTransactionInfoProof: d.Proof.LedgerInfoToTransactionInfoProof.decode(),
			TransactionInfo:                  d.Proof.TransactionInfo.decode(),
			TransactionInfoToAccountProof:    d.Proof.TransactionInfoToAccountProof.decode(),
		},
	}
	if d.Blob != nil {
		blob := ledger.AccountStateBlob(*d.Blob)
		state.Blob = &blob
	}
	return state
}

type accessPathDTO struct {
	Address ledger.AccountAddress `json:"address"`
	Path    hexutil.Bytes         `json:"path"`
}

type contractEventDTO struct {
	AccessPath     accessPathDTO `json:"access_path"`
	SequenceNumber uint64        `json:"sequence_number"`
	EventData      hexutil.Bytes `json:"event_data"`
}

func (d *contractEventDTO) decode() ledger.ContractEvent {
	return ledger.ContractEvent{
		AccessPath:     ledger.AccessPath{Address: d.AccessPath.Address, Path: d.AccessPath.Path},
		SequenceNumber: d.SequenceNumber,
		EventData:      d.EventData,
	}
}

type eventProofDTO struct {
	LedgerInfoToTransactionInfoProof accumulatorProofDTO `json:"ledger_info_to_transaction_info_proof"`
	TransactionInfo                  transactionInfoDTO  `json:"transaction_info"`
	TransactionInfoToEventProof      accumulatorProofDTO `json:"transaction_info_to_event_proof"`
}

type eventWithProofDTO struct {
	TransactionVersion uint64           `json:"transaction_version"`
	EventIndex         uint64           `json:"event_index"`
	Event              contractEventDTO `json:"event"`
	Proof              eventProofDTO    `json:"proof"`
}

func (d *eventWithProofDTO) decode() ledger.EventWithProof {
	return ledger.EventWithProof{
		TransactionVersion: d.TransactionVersion,
		EventIndex:         d.EventIndex,
		Event:              d.Event.decode(),
		Proof: ledger.EventProof{
			LedgerInfoToTransactionInfoProof: d.Proof.LedgerInfoToTransactionInfoProof.decode(),
			TransactionInfo:                  d.Proof.TransactionInfo.decode(),
			TransactionInfoToEventProof:      d.Proof.TransactionInfoToEventProof.decode(),
		},
	}
}

type eventsByAccessPathDTO struct {
	Events  []eventWithProofDTO       `json:"events"`
	Account *accountStateWithProofDTO `json:"account"`
}

type signedTransactionDTO struct {
	RawTxnBytes     hexutil.Bytes `json:"raw_txn_bytes"`
	SenderPublicKey hexutil.Bytes `json:"sender_public_key"`
	SenderSignature hexutil.Bytes `json:"sender_signature"`
}

func encodeSignedTransaction(signed *ledger.SignedTransaction) signedTransactionDTO {
	return signedTransactionDTO{
		RawTxnBytes:     signed.RawTxnBytes,
		SenderPublicKey: signed.SenderPublicKey,
		SenderSignature: signed.SenderSignature,
	}
}

func (d *signedTransactionDTO) decode() *ledger.SignedTransaction {
	return &ledger.SignedTransaction{
		RawTxnBytes:     d.RawTxnBytes,
		SenderPublicKey: d.SenderPublicKey,
		SenderSignature: d.SenderSignature,
	}
}

type transactionDTO struct {
	Version     uint64               `json:"version"`
	Transaction signedTransactionDTO `json:"signed_transaction"`
	Events      *[]contractEventDTO  `json:"events"`
}

type getAccountRequest struct {
	Address ledger.AccountAddress `json:"address"`
}

type getEventsRequest struct {
	AccessPath       accessPathDTO `json:"access_path"`
	StartEventSeqNum uint64        `json:"start_event_seq_num"`
	Ascending        bool          `json:"ascending"`
	Limit            uint64        `json:"limit"`
}

type getTransactionRequest struct {
	Account        ledger.AccountAddress `json:"account"`
	SequenceNumber uint64                `json:"sequence_number"`
	FetchEvents    bool                  `json:"fetch_events"`
}

type submitTransactionRequest struct {
	SignedTxn signedTransactionDTO `json:"signed_txn"`
}

// admission control status of an accepted transaction
const acStatusAccepted = "Accepted"

type submitTransactionResponse struct {
	ACStatus string `json:"ac_status"`
	VMStatus string `json:"vm_status"`
}
