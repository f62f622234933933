package api

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/oasislabs/ledger-gateway/errors"
)

func TestParseAddress(t *testing.T) {
	addr, err := ParseAddress("address", "0x"+strings.Repeat("aa", 32))

	assert.Nil(t, err)
	assert.Equal(t, byte(0xaa), addr[31])
}

func TestParseAddressEmpty(t *testing.T) {
	_, err := ParseAddress("receiver", "")

	assert.Equal(t, errors.ErrEmptyInput, err.ErrorCode())
	assert.Equal(t, "receiver field has not been set", err.Cause().Error())
}

func TestParseAddressInvalid(t *testing.T) {
	_, err := ParseAddress("address", "0xaa")

	assert.Equal(t, errors.ErrInvalidAddress, err.ErrorCode())
}

func TestParseAmount(t *testing.T) {
	amount, err := ParseAmount("amount", "1.5")

	assert.Nil(t, err)
	assert.Equal(t, uint64(1500000), amount)
}

func TestParseAmountInvalid(t *testing.T) {
	_, err := ParseAmount("num_coins", "one")
	assert.Equal(t, errors.ErrInvalidAmount, err.ErrorCode())

	_, err = ParseAmount("num_coins", "")
	assert.Equal(t, errors.ErrEmptyInput, err.ErrorCode())
}
