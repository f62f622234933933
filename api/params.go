package api

import (
	stderr "github.com/pkg/errors"

	"github.com/oasislabs/ledger-gateway/errors"
	"github.com/oasislabs/ledger-gateway/ledger"
)

// ParseAddress parses the address provided in the named field
// of a request
func ParseAddress(field, s string) (ledger.AccountAddress, errors.Err) {
	if len(s) == 0 {
		return ledger.AccountAddress{}, errors.New(errors.ErrEmptyInput,
			stderr.Errorf("%s field has not been set", field))
	}

	addr, err := ledger.ParseAccountAddress(s)
	if err != nil {
		return ledger.AccountAddress{}, errors.New(errors.ErrInvalidAddress,
			stderr.Wrapf(err, "invalid %s", field))
	}

	return addr, nil
}

// ParseAmount parses the decimal amount of coins provided in the
// named field of a request and returns it in micro coins
func ParseAmount(field, s string) (uint64, errors.Err) {
	if len(s) == 0 {
		return 0, errors.New(errors.ErrEmptyInput,
			stderr.Errorf("%s field has not been set", field))
	}

	amount, err := ledger.ParseCoins(s)
	if err != nil {
		return 0, errors.New(errors.ErrInvalidAmount, stderr.Wrapf(err, "invalid %s", field))
	}

	return amount, nil
}
