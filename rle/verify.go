package rle

import (
	"bytes"
	"fmt"
)

// ConsistencyError is returned by Verify when decoding does not give back
// the original bytes. It always points to a bug in a codec, never to bad
// input.
type ConsistencyError struct {
	Codec  string
	Offset int
	Want   int
	Got    int
	Err    error
}

func (e *ConsistencyError) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("rle: %s: cannot decode own output: %v", e.Codec, e.Err)
	case e.Want < 0 || e.Got < 0:
		return fmt.Sprintf("rle: %s: decoded length differs at offset %d", e.Codec, e.Offset)
	default:
		return fmt.Sprintf("rle: %s: byte at offset %d decoded as 0x%02x, want 0x%02x", e.Codec, e.Offset, e.Got, e.Want)
	}
}

func (e *ConsistencyError) Unwrap() error {
	return e.Err
}

// Verify encodes b with c, decodes the result and compares it with b.
func Verify(c Codec, b []byte) error {
	return Check(c, c.Encode(b), b)
}

// Check decodes encoded with c and compares the result with b.
func Check(c Codec, encoded, b []byte) error {
	decoded, err := c.Decode(encoded)
	if err != nil {
		return &ConsistencyError{Codec: c.Name(), Err: err}
	}

	if bytes.Equal(decoded, b) {
		return nil
	}

	e := &ConsistencyError{Codec: c.Name(), Want: -1, Got: -1}
	for e.Offset < len(b) && e.Offset < len(decoded) && b[e.Offset] == decoded[e.Offset] {
		e.Offset++
	}
	if e.Offset < len(b) {
		e.Want = int(b[e.Offset])
	}
	if e.Offset < len(decoded) {
		e.Got = int(decoded[e.Offset])
	}
	return e
}
