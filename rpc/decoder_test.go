package rpc

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

const transferBody = "{\"receiver\":\"0xbb\",\"amount\":\"1000\"}\n"

func TestJsonDecoderDecode(t *testing.T) {
	m := make(map[string]string)

	err := JsonDecoder{}.Decode(bytes.NewBufferString(transferBody), &m)

	assert.Nil(t, err)
	assert.Equal(t, map[string]string{"receiver": "0xbb", "amount": "1000"}, m)
}

func TestJsonDecoderDecodeMalformed(t *testing.T) {
	m := make(map[string]string)

	err := JsonDecoder{}.Decode(bytes.NewBufferString("{\"receiver\":"), &m)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode json")
}

func TestJsonDecoderDecodeWithLimit(t *testing.T) {
	m := make(map[string]string)

	err := JsonDecoder{}.DecodeWithLimit(bytes.NewBufferString(transferBody), &m, ReadLimitProps{
		FailOnExceed: true,
		Limit:        1024,
	})

	assert.Nil(t, err)
	assert.Equal(t, map[string]string{"receiver": "0xbb", "amount": "1000"}, m)
}

func TestJsonDecoderDecodeWithLimitTooSmall(t *testing.T) {
	m := make(map[string]string)

	err := JsonDecoder{}.DecodeWithLimit(bytes.NewBufferString(transferBody), &m, ReadLimitProps{
		FailOnExceed: false,
		Limit:        10,
	})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected EOF")
}

func TestJsonDecoderDecodeWithLimitTooMuchData(t *testing.T) {
	m := make(map[string]string)

	err := JsonDecoder{}.DecodeWithLimit(bytes.NewBufferString(transferBody), &m, ReadLimitProps{
		FailOnExceed: true,
		Limit:        10,
	})

	assert.Equal(t, ErrLimitExceeded, err)
}
