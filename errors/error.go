package errors

import (
	"fmt"

	"github.com/oasislabs/ledger-gateway/log"
)

type Err interface {
	Error() string
	ErrorCode() ErrorCode
	Cause() error
	log.Loggable
}

var (
	ErrInternalError = ErrorCode{
		category: InternalError,
		code:     1000,
		desc:     "Internal Error. Please check the status of the service.",
	}

	ErrSerialization = ErrorCode{
		category: InternalError,
		code:     1001,
		desc:     "Failed to serialize the raw transaction to its canonical form.",
	}

	ErrSignature = ErrorCode{
		category: InternalError,
		code:     1002,
		desc:     "Failed to produce a valid signature for the transaction.",
	}

	ErrSubmitTransaction = ErrorCode{
		category: InternalError,
		code:     1003,
		desc:     "Failed to submit the signed transaction to the ledger.",
	}

	ErrGetAccountState = ErrorCode{
		category: InternalError,
		code:     1004,
		desc:     "Failed to retrieve the account state from the ledger.",
	}

	ErrGetEvents = ErrorCode{
		category: InternalError,
		code:     1005,
		desc:     "Failed to retrieve events from the ledger.",
	}

	ErrGetTransaction = ErrorCode{
		category: InternalError,
		code:     1006,
		desc:     "Failed to retrieve the transaction from the ledger.",
	}

	ErrMintCoins = ErrorCode{
		category: InternalError,
		code:     1007,
		desc:     "Failed to mint coins through the faucet service.",
	}

	ErrMetricsPush = ErrorCode{
		category: InternalError,
		code:     1008,
		desc:     "Failed to push metrics to the prometheus push gateway.",
	}

	ErrCredential = ErrorCode{
		category: InputError,
		code:     2001,
		desc:     "Provided credential is malformed and cannot be used to sign.",
	}

	ErrDerivation = ErrorCode{
		category: InputError,
		code:     2002,
		desc:     "Failed to derive the wallet key for the requested child index.",
	}

	ErrInvalidAddress = ErrorCode{
		category: InputError,
		code:     2003,
		desc:     "Provided invalid address.",
	}

	ErrInvalidAmount = ErrorCode{
		category: InputError,
		code:     2004,
		desc:     "Provided invalid amount of coins.",
	}

	ErrEmptyInput = ErrorCode{
		category: InputError,
		code:     2005,
		desc:     "Input cannot be empty.",
	}

	ErrHttpContentLengthMissing = ErrorCode{
		category: InputError,
		code:     2006,
		desc:     "Content-length header missing from request.",
	}

	ErrHttpContentLengthLimit = ErrorCode{
		category: InputError,
		code:     2007,
		desc:     "Content-length exceeds request limit.",
	}

	ErrHttpContentTypeApplicationJson = ErrorCode{
		category: InputError,
		code:     2008,
		desc:     "Content-type should be application/json.",
	}

	ErrDeserializeJSON = ErrorCode{
		category: InputError,
		code:     2009,
		desc:     "Failed to deserialize body as JSON.",
	}

	ErrInvalidEventKind = ErrorCode{
		category: InputError,
		code:     2010,
		desc:     "Event kind must be either sent or received.",
	}

	ErrSharedWalletNotConfigured = ErrorCode{
		category: StateConflict,
		code:     4001,
		desc:     "The gateway has no shared wallet configured.",
	}

	ErrTransferScriptNotConfigured = ErrorCode{
		category: StateConflict,
		code:     4002,
		desc:     "The gateway has no transfer script configured.",
	}

	ErrWalletUnavailable = ErrorCode{
		category: Unavailable,
		code:     5001,
		desc:     "The wallet could not be acquired before the request was cancelled or timed out.",
	}

	ErrTransactionNotFound = ErrorCode{
		category: NotFound,
		code:     6001,
		desc:     "Transaction not found.",
	}

	ErrRouteNotFound = ErrorCode{
		category: NotFound,
		code:     6002,
		desc:     "Route not found.",
	}
)

// Category defines error categories that logically group them. This classification
// may be useful when mapping error categories together to a specific error type
// as it could be done by mapping errors to Http Status codes
type Category string

const (
	// InternalError refers to errors related to
	// programming errors or other unexpected errors in the normal
	// execution of an action, such as failing to reach the ledger.
	// The only action a user can take out of an InternalError is
	// reach out to the operator
	InternalError Category = "InternalError"

	// InputError refers to errors that are returned because the input
	// provided to execute an action is incorrect, malformed or could
	// not be parsed
	InputError Category = "InputError"

	// StateConflict refers to errors that occur because the gateway
	// is not in a state that allows the action
	StateConflict Category = "StateConflict"

	// Unavailable refers to errors in which a resource could not be
	// used before the request was cancelled or timed out
	Unavailable Category = "Unavailable"

	// NotFound refers to errors in which the requested resource
	// does not exist
	NotFound Category = "NotFound"
)

// Error is the implementation of an error for this package. It contains
// an instance of an ErrorCode which provides information about the error
// and a cause which might be nil if there's no underlying cause for
// the error
type Error struct {
	cause     error
	errorCode ErrorCode
}

// Error is the implementation of error for Error
func (e Error) Error() string {
	if e.cause == nil {
		return fmt.Sprintf("[%d] error code %s with desc %s",
			e.errorCode.Code(), e.errorCode.Category(), e.errorCode.Desc())
	}

	return fmt.Sprintf("[%d] error code %s with desc %s with cause %s",
		e.errorCode.Code(), e.errorCode.Category(), e.errorCode.Desc(), e.cause)
}

// ErrorCode returns the error code that identifies this error
func (e Error) ErrorCode() ErrorCode {
	return e.errorCode
}

// Cause returns the underlying error, which may be nil
func (e Error) Cause() error {
	return e.cause
}

// Unwrap allows errors.Is and errors.As to inspect the cause
func (e Error) Unwrap() error {
	return e.cause
}

// Log implementation of log.Loggable
func (e Error) Log(fields log.Fields) {
	fields.Add("err", e.errorCode.Desc())
	fields.Add("errorCode", e.errorCode.Code())

	if e.cause != nil {
		fields.Add("cause", e.cause.Error())
	}
}

// New creates a new instance of an error
func New(errorCode ErrorCode, cause error) Error {
	return Error{cause: cause, errorCode: errorCode}
}

// Is returns true if err is an Err with the provided error code
func Is(err error, errorCode ErrorCode) bool {
	e, ok := err.(Err)
	if !ok {
		return false
	}

	return e.ErrorCode().Code() == errorCode.Code()
}

// ErrorCode holds the necessary information to uniquely identify an error
// and make sure that a valuable response is returned to the user
// in case of encountering an error
type ErrorCode struct {
	// category is the type of the error
	category Category

	// code is a unique identifier for the error that can be used to identify
	// the particular type of error encountered
	code int

	// desc is a human readable description of the error that occurred
	// to aid the client in debugging
	desc string
}

// NewErrorCode creates a new error code. Most callers should use one
// of the predefined codes
func NewErrorCode(category Category, code int, desc string) ErrorCode {
	return ErrorCode{category: category, code: code, desc: desc}
}

// Category getter for category
func (e ErrorCode) Category() Category {
	return e.category
}

// Code getter for code
func (e ErrorCode) Code() int {
	return e.code
}

// Desc getter for desc
func (e ErrorCode) Desc() string {
	return e.desc
}
