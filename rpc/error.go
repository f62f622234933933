package rpc

import "github.com/oasislabs/ledger-gateway/errors"

// Error is the body returned by the gateway when it fails
// to satisfy a request
type Error struct {
	// ErrorCode identifies the kind of failure
	ErrorCode int `json:"errorCode"`

	// Description is a human readable description of the failure
	Description string `json:"description"`
}

// Error is the implementation of go's error interface for Error
func (e Error) Error() string {
	return e.Description
}

// NewError creates the response body for an error code
func NewError(code errors.ErrorCode) Error {
	return Error{ErrorCode: code.Code(), Description: code.Desc()}
}
