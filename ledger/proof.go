package ledger

// SparseMerkleLeaf is the leaf found at the position of the key being
// proven. It is absent from a proof of non-existence whose path ends
// in an empty subtree
type SparseMerkleLeaf struct {
	Key       HashValue
	ValueHash HashValue
}

// SparseMerkleProof proves the inclusion or exclusion of a key in the
// sparse merkle tree of account states. Siblings are ordered from the
// leaf up to the root
type SparseMerkleProof struct {
	Leaf     *SparseMerkleLeaf
	Siblings []HashValue
}

// AccumulatorProof proves the position of an item in an append-only
// accumulator. Siblings are ordered from the leaf up to the root
type AccumulatorProof struct {
	Siblings []HashValue
}

// TransactionInfo is the record the accumulator commits to for each
// transaction
type TransactionInfo struct {
	SignedTransactionHash HashValue
	StateRootHash         HashValue
	EventRootHash         HashValue
	GasUsed               uint64
}

// AccountStateProof chains a ledger info to an account state through
// the transaction info of the version the state is read at
type AccountStateProof struct {
	LedgerInfoToTransactionInfoProof AccumulatorProof
	TransactionInfo                  TransactionInfo
	TransactionInfoToAccountProof    SparseMerkleProof
}

// EventProof chains a ledger info to an event through the transaction
// info of the transaction that emitted it
type EventProof struct {
	LedgerInfoToTransactionInfoProof AccumulatorProof
	TransactionInfo                  TransactionInfo
	TransactionInfoToEventProof      AccumulatorProof
}

// AccountStateBlob is the serialized state of an account
type AccountStateBlob []byte

// AccountStateWithProof is the state of an account at a version.
// Blob is nil when the account does not exist at that version, in
// which case the proof proves its absence
type AccountStateWithProof struct {
	Version uint64
	Blob    *AccountStateBlob
	Proof   AccountStateProof
}

// EventWithProof is an event emitted by the transaction at
// TransactionVersion together with its proof
type EventWithProof struct {
	TransactionVersion uint64
	EventIndex         uint64
	Event              ContractEvent
	Proof              EventProof
}
