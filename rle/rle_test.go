package rle

import (
	"bytes"
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samples() map[string][]byte {
	r := rand.New(rand.NewSource(42))
	random := make([]byte, 1000)
	r.Read(random)

	sparse := make([]byte, 2000)
	for i := range sparse {
		if r.Intn(10) == 0 {
			sparse[i] = byte(r.Intn(256))
		}
	}

	distinct := make([]byte, 256)
	for i := range distinct {
		distinct[i] = byte(i)
	}

	return map[string][]byte{
		"empty":    {},
		"single":   {0x42},
		"zeros":    make([]byte, 1000),
		"ones":     bytes.Repeat([]byte{0xff}, 511),
		"random":   random,
		"sparse":   sparse,
		"distinct": distinct,
		"boundary": append(bytes.Repeat([]byte{0x00}, MaxRun), 0x00, 0x01),
	}
}

func TestCompressExamples(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		want Stream
	}{
		{"empty", nil, nil},
		{"blank glyphs", make([]byte, 100), Stream{{0x00, 100}}},
		{"split", bytes.Repeat([]byte{0x7e}, 300), Stream{{0x7e, 255}, {0x7e, 45}}},
		{"exact", bytes.Repeat([]byte{0x01}, MaxRun), Stream{{0x01, MaxRun}}},
		{"mixed", []byte{1, 1, 2, 3, 3, 3}, Stream{{1, 2}, {2, 1}, {3, 3}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Compress(tt.in))
		})
	}
}

func TestRoundTrip(t *testing.T) {
	for name, b := range samples() {
		t.Run(name, func(t *testing.T) {
			s := Compress(b)
			assert.Equal(t, len(b), s.Len())
			assert.True(t, bytes.Equal(b, Decompress(s)))
		})
	}
}

func TestBoundedExpansion(t *testing.T) {
	for name, b := range samples() {
		t.Run(name, func(t *testing.T) {
			s := Compress(b)
			assert.True(t, len(s) <= len(b), "%d runs for %d bytes", len(s), len(b))
			assert.True(t, s.EncodedSize() <= 2*len(b))
			for _, r := range s {
				assert.True(t, r.Count >= 1 && r.Count <= MaxRun)
			}
		})
	}
}

func TestIdempotent(t *testing.T) {
	for name, b := range samples() {
		t.Run(name, func(t *testing.T) {
			s := Compress(b)
			again := Compress(Decompress(s))
			assert.Equal(t, s, again)
			assert.True(t, bytes.Equal(b, Decompress(again)))
		})
	}
}

func TestMarshalBinary(t *testing.T) {
	s := Stream{{0x00, 100}, {0xaa, 1}}
	b, err := s.MarshalBinary()
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00, 100, 0xaa, 1}, b)
	assert.Equal(t, len(b), s.EncodedSize())

	var out Stream
	require.NoError(t, out.UnmarshalBinary(b))
	assert.Equal(t, s, out)

	_, err = Stream{{0x00, 256}}.MarshalBinary()
	assert.Error(t, err)
	_, err = Stream{{0x00, 0}}.MarshalBinary()
	assert.Error(t, err)
}

func TestUnmarshalBinaryErrors(t *testing.T) {
	var s Stream
	assert.Equal(t, errOddLength, s.UnmarshalBinary([]byte{0x00}))
	assert.Equal(t, errZeroCount, s.UnmarshalBinary([]byte{0x00, 0x00}))
}

func TestCodecs(t *testing.T) {
	for _, c := range []Codec{Pairs, ZeroRuns} {
		for name, b := range samples() {
			t.Run(c.Name()+"/"+name, func(t *testing.T) {
				out, err := c.Decode(c.Encode(b))
				require.NoError(t, err)
				assert.True(t, bytes.Equal(b, out))
				assert.NoError(t, Verify(c, b))
			})
		}
	}
}

func TestZeroRuns(t *testing.T) {
	in := append(append([]byte{0x18, 0x18}, make([]byte, 300)...), 0x3c)
	assert.Equal(t, []byte{0x18, 0x18, 0x00, 255, 0x00, 45, 0x3c}, ZeroRuns.Encode(in))

	distinct := samples()["distinct"][1:]
	assert.Equal(t, distinct, ZeroRuns.Encode(distinct), "no zero bytes, no growth")

	_, err := ZeroRuns.Decode([]byte{0x01, 0x00})
	assert.Equal(t, errTruncated, err)
	_, err = ZeroRuns.Decode([]byte{0x00, 0x00})
	assert.Equal(t, errZeroCount, err)
}

func TestLookup(t *testing.T) {
	for _, name := range Names() {
		c, err := Lookup(name)
		require.NoError(t, err)
		assert.Equal(t, name, c.Name())
	}

	_, err := Lookup("lz4")
	assert.Error(t, err)
}

// corrupt drops the last byte of every decode
type corrupt struct {
	Codec
}

func (c corrupt) Decode(b []byte) ([]byte, error) {
	out, err := c.Codec.Decode(b)
	if err != nil || len(out) == 0 {
		return out, err
	}
	return out[:len(out)-1], nil
}

// flip changes the first decoded byte
type flip struct {
	Codec
}

func (c flip) Decode(b []byte) ([]byte, error) {
	out, err := c.Codec.Decode(b)
	if err == nil && len(out) > 0 {
		out[0] ^= 0xff
	}
	return out, err
}

// broken cannot decode anything
type broken struct {
	Codec
}

func (broken) Decode([]byte) ([]byte, error) {
	return nil, errors.New("broken")
}

func TestVerifyCatchesCorruption(t *testing.T) {
	b := []byte{0x00, 0x00, 0x00, 0x18, 0x24, 0x24}

	var ce *ConsistencyError

	err := Verify(corrupt{Pairs}, b)
	require.True(t, errors.As(err, &ce), "got %v", err)
	assert.Equal(t, 5, ce.Offset)
	assert.Equal(t, 0x24, ce.Want)
	assert.Equal(t, -1, ce.Got)

	err = Verify(flip{ZeroRuns}, b)
	require.True(t, errors.As(err, &ce), "got %v", err)
	assert.Equal(t, 0, ce.Offset)
	assert.Equal(t, 0x00, ce.Want)
	assert.Equal(t, 0xff, ce.Got)
	assert.Equal(t, "rle: zero: byte at offset 0 decoded as 0xff, want 0x00", ce.Error())

	err = Verify(broken{Pairs}, b)
	require.True(t, errors.As(err, &ce), "got %v", err)
	assert.EqualError(t, errors.Unwrap(err), "broken")
}

func TestDecompressIgnoresEmptyRuns(t *testing.T) {
	s := Stream{{Value: 0x01, Count: -1}, {Value: 0x02, Count: 0}, {Value: 0x03, Count: 2}}
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, []byte{0x03, 0x03}, Decompress(s))

	_, err := s.MarshalBinary()
	assert.Error(t, err)
}
