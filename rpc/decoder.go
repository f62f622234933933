package rpc

import (
	"encoding/json"
	"io"

	stderr "github.com/pkg/errors"
)

// Decoder for payloads
type Decoder interface {
	// Decode decodes the provided payload with its format from the
	// provided reader. In case of failure it is possible a partial
	// read has occurred
	Decode(r io.Reader, v interface{}) error
}

// JsonDecoder is a payload decoder that deserializes JSON
type JsonDecoder struct{}

// Decode is the implementation of Decoder for JsonDecoder
func (e JsonDecoder) Decode(reader io.Reader, v interface{}) error {
	if err := json.NewDecoder(reader).Decode(v); err != nil {
		if err == ErrLimitExceeded {
			return err
		}
		return stderr.Wrap(err, "failed to decode json")
	}

	return nil
}

// DecodeWithLimit decodes the payload in the reader making sure not
// to exceed the limit provided
func (e JsonDecoder) DecodeWithLimit(reader io.Reader, v interface{}, props ReadLimitProps) error {
	return e.Decode(NewLimitReader(reader, props), v)
}
