package ledger

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCoins(t *testing.T) {
	for s, expected := range map[string]uint64{
		"0":        0,
		"1":        1000000,
		"1.5":      1500000,
		"0.000001": 1,
		"12.34":    12340000,
		".5":       500000,
	} {
		v, err := ParseCoins(s)
		assert.Nil(t, err, s)
		assert.Equal(t, expected, v, s)
	}
}

func TestParseCoinsInvalid(t *testing.T) {
	for _, s := range []string{"", "-1", "1.", "1.0000001", "abc", "1e6", "18446744073710"} {
		_, err := ParseCoins(s)
		assert.Error(t, err, s)
	}
}

func TestFormatCoins(t *testing.T) {
	assert.Equal(t, "0.000000", FormatCoins(0))
	assert.Equal(t, "1.500000", FormatCoins(1500000))
}

func TestEventsPath(t *testing.T) {
	addr, _ := ParseAccountAddress(strings.Repeat("aa", AddressLength))

	sent := SentEventsPath(addr)
	received := ReceivedEventsPath(addr)

	assert.Equal(t, addr, sent.Address)
	assert.True(t, strings.HasSuffix(string(sent.Path), "/sent_events_count/"))
	assert.True(t, strings.HasSuffix(string(received.Path), "/received_events_count/"))
	assert.Equal(t, AccountResourcePath(addr).Path, sent.Path[:33])
}
