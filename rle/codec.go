package rle

import (
	"errors"
	"fmt"
)

var errTruncated = errors.New("rle: zero byte without run count")

// Codec converts packed bytes to and from an encoded form.
type Codec interface {
	Name() string
	Encode(b []byte) []byte
	Decode(b []byte) ([]byte, error)
}

type pairs struct{}

func (pairs) Name() string { return "pairs" }

func (pairs) Encode(b []byte) []byte {
	// Compress never produces a count outside 1..MaxRun
	out, _ := Compress(b).MarshalBinary()
	return out
}

func (pairs) Decode(b []byte) ([]byte, error) {
	var s Stream
	if err := s.UnmarshalBinary(b); err != nil {
		return nil, err
	}
	return Decompress(s), nil
}

type zeroRuns struct{}

func (zeroRuns) Name() string { return "zero" }

func (zeroRuns) Encode(b []byte) []byte {
	var out []byte
	for _, r := range Compress(b) {
		if r.Value == 0x00 {
			out = append(out, 0x00, byte(r.Count))
			continue
		}
		for i := 0; i < r.Count; i++ {
			out = append(out, r.Value)
		}
	}
	return out
}

func (zeroRuns) Decode(b []byte) ([]byte, error) {
	var out []byte
	for i := 0; i < len(b); i++ {
		if b[i] != 0x00 {
			out = append(out, b[i])
			continue
		}
		i++
		if i == len(b) {
			return nil, errTruncated
		}
		if b[i] == 0 {
			return nil, errZeroCount
		}
		for n := 0; n < int(b[i]); n++ {
			out = append(out, 0x00)
		}
	}
	return out, nil
}

var (
	// Pairs stores every run as a value byte followed by a count byte.
	Pairs Codec = pairs{}

	// ZeroRuns stores non-zero bytes as they are and each run of zero
	// bytes as 0x00 followed by its length. Data without zero runs never
	// grows.
	ZeroRuns Codec = zeroRuns{}
)

var codecs = []Codec{Pairs, ZeroRuns}

// Lookup returns the codec with the given name.
func Lookup(name string) (Codec, error) {
	for _, c := range codecs {
		if c.Name() == name {
			return c, nil
		}
	}
	return nil, fmt.Errorf("rle: unknown encoding %q", name)
}

// Names returns the names of all codecs.
func Names() []string {
	names := make([]string, len(codecs))
	for i, c := range codecs {
		names[i] = c.Name()
	}
	return names
}
