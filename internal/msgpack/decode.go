// Package msgpack encodes the small request payloads carried by Flight
// tickets and action bodies.
package msgpack

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// ErrTrailingData is returned when a payload holds more than one value.
var ErrTrailingData = errors.New("trailing data after MessagePack value")

// Decode reads exactly one MessagePack value from data into v.
// Unknown map keys are rejected so that a payload meant for a newer
// server fails loudly instead of being half understood.
//
//	var td TicketData
//	err := msgpack.Decode(data, &td)
func Decode(data []byte, v any) error {
	if len(data) == 0 {
		return errors.New("empty MessagePack data")
	}

	r := bytes.NewReader(data)
	dec := msgpack.NewDecoder(r)
	dec.DisallowUnknownFields(true)
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("failed to decode MessagePack: %w", err)
	}
	if r.Len() > 0 {
		return fmt.Errorf("%w: %d bytes", ErrTrailingData, r.Len())
	}
	return nil
}

// Encode writes v as MessagePack with compact integers.
func Encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.UseCompactInts(true)
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("failed to encode MessagePack: %w", err)
	}
	return buf.Bytes(), nil
}
