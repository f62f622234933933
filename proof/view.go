package proof

import (
	"encoding/json"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/oasislabs/ledger-gateway/ledger"
)

// SparseMerkleLeafView is the leaf of a sparse merkle proof. It is
// serialized as the pair [key, value_hash]
type SparseMerkleLeafView struct {
	Key       ledger.HashValue
	ValueHash ledger.HashValue
}

func (v SparseMerkleLeafView) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]ledger.HashValue{v.Key, v.ValueHash})
}

func (v *SparseMerkleLeafView) UnmarshalJSON(p []byte) error {
	var pair [2]ledger.HashValue
	if err := json.Unmarshal(p, &pair); err != nil {
		return err
	}

	v.Key, v.ValueHash = pair[0], pair[1]
	return nil
}

// SparseMerkleProofView mirrors ledger.SparseMerkleProof. Leaf is nil
// when the path of the key ends in an empty subtree
type SparseMerkleProofView struct {
	Leaf     *SparseMerkleLeafView `json:"leaf"`
	Siblings []ledger.HashValue    `json:"siblings"`
}

// AccumulatorProofView mirrors ledger.AccumulatorProof
type AccumulatorProofView struct {
	Siblings []ledger.HashValue `json:"siblings"`
}

// TransactionInfoView mirrors ledger.TransactionInfo
type TransactionInfoView struct {
	SignedTransactionHash ledger.HashValue `json:"signed_transaction_hash"`
	StateRootHash         ledger.HashValue `json:"state_root_hash"`
	EventRootHash         ledger.HashValue `json:"event_root_hash"`
	GasUsed               uint64           `json:"gas_used"`
}

// AccountStateProofView mirrors ledger.AccountStateProof
type AccountStateProofView struct {
	LedgerInfoToTransactionInfoProof AccumulatorProofView  `json:"ledger_info_to_transaction_info_proof"`
	TransactionInfo                  TransactionInfoView   `json:"transaction_info"`
	TransactionInfoToAccountProof    SparseMerkleProofView `json:"transaction_info_to_account_proof"`
}

// AccountStateWithProofView mirrors ledger.AccountStateWithProof. Blob
// is nil when the account does not exist at Version
type AccountStateWithProofView struct {
	Version uint64                `json:"version"`
	Blob    *hexutil.Bytes        `json:"blob"`
	Proof   AccountStateProofView `json:"proof"`
}

// AccessPathView mirrors ledger.AccessPath
type AccessPathView struct {
	Address ledger.AccountAddress `json:"address"`
	Path    hexutil.Bytes         `json:"path"`
}

// ContractEventView mirrors ledger.ContractEvent. EventData is copied
// without interpretation
type ContractEventView struct {
	AccessPath     AccessPathView `json:"access_path"`
	SequenceNumber uint64         `json:"sequence_number"`
	EventData      hexutil.Bytes  `json:"event_data"`
}

// EventProofView mirrors ledger.EventProof
type EventProofView struct {
	LedgerInfoToTransactionInfoProof AccumulatorProofView `json:"ledger_info_to_transaction_info_proof"`
	TransactionInfo                  TransactionInfoView  `json:"transaction_info"`
	TransactionInfoToEventProof      AccumulatorProofView `json:"transaction_info_to_event_proof"`
}

// EventWithProofView mirrors ledger.EventWithProof
type EventWithProofView struct {
	TransactionVersion uint64            `json:"transaction_version"`
	EventIndex         uint64            `json:"event_index"`
	Event              ContractEventView `json:"event"`
	Proof              EventProofView    `json:"proof"`
}

// AccountResourceView mirrors ledger.AccountResource
type AccountResourceView struct {
	Balance             uint64        `json:"balance"`
	SequenceNumber      uint64        `json:"sequence_number"`
	AuthenticationKey   hexutil.Bytes `json:"authentication_key"`
	SentEventsCount     uint64        `json:"sent_events_count"`
	ReceivedEventsCount uint64        `json:"received_events_count"`
}

// SignedTransactionView mirrors ledger.SignedTransaction. Hash is the
// hash the signature was computed over
type SignedTransactionView struct {
	RawTxnBytes     hexutil.Bytes    `json:"raw_txn_bytes"`
	SenderPublicKey hexutil.Bytes    `json:"sender_public_key"`
	SenderSignature hexutil.Bytes    `json:"sender_signature"`
	Hash            ledger.HashValue `json:"hash"`
}

// AccountWithEvents is the state of an account with a page of its
// events. Account is nil when the account does not exist
type AccountWithEvents struct {
	Account *AccountStateWithProofView `json:"account"`
	Events  []EventWithProofView       `json:"events"`
}

// TransactionWithEvents is a committed transaction. Events is nil
// when the events were not requested
type TransactionWithEvents struct {
	Transaction SignedTransactionView `json:"transaction"`
	Events      []ContractEventView   `json:"events"`
}
