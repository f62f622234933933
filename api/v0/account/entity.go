package account

import "github.com/oasislabs/ledger-gateway/proof"

// Kinds of account events
const (
	EventKindSent     = "sent"
	EventKindReceived = "received"
)

// GetBalanceRequest is a request to retrieve the balance of
// an account
type GetBalanceRequest struct {
	Address string `json:"address"`
}

// GetBalanceResponse holds the balance in coins, formatted as
// a decimal amount
type GetBalanceResponse struct {
	Balance string `json:"balance"`
}

// MintCoinsRequest asks the faucet to mint NumCoins to the receiver
type MintCoinsRequest struct {
	Receiver string `json:"receiver"`
	NumCoins string `json:"num_coins"`
}

// MintCoinsResponse is the response to a successful mint
type MintCoinsResponse struct {
	Success bool `json:"success"`
}

// GetAccountStateRequest is a request to retrieve the state of an
// account with its proof
type GetAccountStateRequest struct {
	Address string `json:"address"`
}

// MissingAccountResponse is returned when the account does not
// exist on the ledger
type MissingAccountResponse struct {
	Account *proof.AccountStateWithProofView `json:"account"`
}

// GetEventsRequest is a request to retrieve a page of the events
// emitted when an account sends or receives coins
type GetEventsRequest struct {
	Address   string `json:"address"`
	Kind      string `json:"kind"`
	Start     uint64 `json:"start"`
	Ascending bool   `json:"ascending"`
	Limit     uint64 `json:"limit"`
}
