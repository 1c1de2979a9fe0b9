/*
Package rle implements run-length compression of packed glyph data.

A byte sequence is described as a Stream of runs, each a byte value and the
number of times it repeats. Runs longer than MaxRun are split so that the
count always fits in a single byte. The scheme is general purpose but suits
font data well: the blank space around and between glyphs packs into long
runs of zero bytes.

On the wire a Stream is a sequence of value and count byte pairs. A second
encoding, ZeroRuns, only run-length encodes zero bytes and stores everything
else literally.
*/
package rle

import (
	"errors"
)

// MaxRun is the longest run a single pair can describe.
const MaxRun = 255

var (
	errOddLength = errors.New("rle: odd number of bytes in pair stream")
	errZeroCount = errors.New("rle: zero run count")
)

// Run is a single value repeated Count times.
type Run struct {
	Value byte
	Count int
}

// Stream is a sequence of runs. It implements the encoding.BinaryMarshaler
// and encoding.BinaryUnmarshaler interfaces.
type Stream []Run

// Compress returns the runs of b. Empty input gives an empty stream.
func Compress(b []byte) Stream {
	var s Stream
	for i := 0; i < len(b); {
		j := i + 1
		for j < len(b) && b[j] == b[i] && j-i < MaxRun {
			j++
		}
		s = append(s, Run{Value: b[i], Count: j - i})
		i = j
	}
	return s
}

// Decompress expands s back into the bytes it was compressed from. Runs
// with a count below one contribute nothing.
func Decompress(s Stream) []byte {
	b := make([]byte, 0, s.Len())
	for _, r := range s {
		for i := 0; i < r.Count; i++ {
			b = append(b, r.Value)
		}
	}
	return b
}

// Len returns the number of bytes s expands to, ignoring runs with a count
// below one.
func (s Stream) Len() int {
	var n int
	for _, r := range s {
		if r.Count > 0 {
			n += r.Count
		}
	}
	return n
}

// EncodedSize returns the number of bytes s occupies on the wire.
func (s Stream) EncodedSize() int {
	return len(s) << 1
}

// MarshalBinary encodes s as value and count byte pairs
func (s Stream) MarshalBinary() ([]byte, error) {
	b := make([]byte, 0, s.EncodedSize())
	for _, r := range s {
		if r.Count < 1 || r.Count > MaxRun {
			return nil, errors.New("rle: run count out of range")
		}
		b = append(b, r.Value, byte(r.Count))
	}
	return b, nil
}

// UnmarshalBinary decodes value and count byte pairs
func (s *Stream) UnmarshalBinary(b []byte) error {
	if len(b)&1 != 0 {
		return errOddLength
	}

	runs := make(Stream, 0, len(b)>>1)
	for i := 0; i < len(b); i += 2 {
		if b[i+1] == 0 {
			return errZeroCount
		}
		runs = append(runs, Run{Value: b[i], Count: int(b[i+1])})
	}
	*s = runs

	return nil
}
