/*
Package pack implements packing of bi-level glyphs into bytes.

Pixels are taken in row-major order and stored eight to a byte, most
significant bit first. Bit i of the packed glyph is the pixel at row i / width
and column i % width. If the pixel count is not a multiple of eight the
unused low bits of the final byte are zero.
*/
package pack

import (
	"errors"
	"fmt"

	"github.com/bodgit/fontpack/bitmap"
)

var errShort = errors.New("pack: not enough data")

// Size returns the number of bytes needed to pack a glyph of width by height
// pixels.
func Size(width, height int) int {
	return (width*height + 7) >> 3
}

// Pack returns the packed form of g.
func Pack(g bitmap.Glyph) []byte {
	b := make([]byte, Size(g.Width(), g.Height()))
	PackInto(b, g)
	return b
}

// PackInto packs g into dst, which must be exactly Size bytes long for the
// dimensions of g. Every byte of dst is overwritten.
func PackInto(dst []byte, g bitmap.Glyph) {
	w, h := g.Width(), g.Height()
	if len(dst) != Size(w, h) {
		panic(fmt.Sprintf("pack: destination is %d bytes, need %d", len(dst), Size(w, h)))
	}

	for i := range dst {
		dst[i] = 0
	}

	i := 0
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if g.At(x, y) {
				dst[i>>3] |= 0x80 >> uint(i&7)
			}
			i++
		}
	}
}

// Unpack reverses Pack for a glyph of width by height pixels. Only the first
// width*height bits are read; padding is ignored.
func Unpack(b []byte, width, height int) (*bitmap.Bitmap, error) {
	if len(b) < Size(width, height) {
		return nil, errShort
	}

	pix := make([]bool, width*height)
	for i := range pix {
		pix[i] = b[i>>3]&(0x80>>uint(i&7)) != 0
	}

	return bitmap.New(width, height, pix)
}

// MismatchError reports the first pixel where a packed glyph differs from
// its source.
type MismatchError struct {
	X, Y int
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("pack: pixel (%d, %d) does not survive unpacking", e.X, e.Y)
}

// Verify unpacks b and checks it against g.
func Verify(g bitmap.Glyph, b []byte) error {
	u, err := Unpack(b, g.Width(), g.Height())
	if err != nil {
		return err
	}
	for y := 0; y < g.Height(); y++ {
		for x := 0; x < g.Width(); x++ {
			if g.At(x, y) != u.At(x, y) {
				return &MismatchError{X: x, Y: y}
			}
		}
	}
	return nil
}
