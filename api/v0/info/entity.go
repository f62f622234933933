package info

// GetVersionResponse is the response to the version request
type GetVersionResponse struct {
	Version int `json:"version"`
}

// GetSendersResponse is the response to the senders request
type GetSendersResponse struct {
	// Hex-encoded addresses of the shared wallet, ordered by
	// child index.
	Senders []string `json:"senders"`
}
