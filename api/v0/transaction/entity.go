package transaction

// GetTransactionRequest is a request to retrieve the transaction
// committed by an account with a sequence number
type GetTransactionRequest struct {
	Address        string `json:"address"`
	SequenceNumber uint64 `json:"sequence_number"`
	FetchEvents    bool   `json:"fetch_events"`
}

// Credential are the fields of a request that identify the key that
// signs the transaction. Either a mnemonic with a child index, a
// private key or, to use the gateway's shared wallet, only a child
// index must be set
type Credential struct {
	Mnemonic   string  `json:"mnemonic"`
	ChildIndex *uint64 `json:"child_index"`
	PrivateKey string  `json:"private_key"`
}

// TransferRequest is a request to transfer Amount coins from the
// account of the credential to Receiver
type TransferRequest struct {
	Credential

	Receiver string `json:"receiver"`
	Amount   string `json:"amount"`

	// SequenceNumber of the transaction. If not set it is read
	// from the sender's account on the ledger
	SequenceNumber *uint64 `json:"sequence_number"`

	GasUnitPrice *uint64 `json:"gas_unit_price"`
	MaxGasAmount *uint64 `json:"max_gas_amount"`
}
