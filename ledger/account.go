package ledger

// AccountResource is the resource that holds the balance and sequence
// number of an account
type AccountResource struct {
	Balance             uint64
	SequenceNumber      uint64
	AuthenticationKey   []byte
	SentEventsCount     uint64
	ReceivedEventsCount uint64
}

// AccountResourceOrDefault returns the resource if present or the
// resource of an account that has not been created yet
func AccountResourceOrDefault(resource *AccountResource) AccountResource {
	if resource == nil {
		return AccountResource{}
	}

	return *resource
}
