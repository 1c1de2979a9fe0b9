package pack

import (
	"errors"
	"image"
	"math/rand"
	"testing"

	"github.com/bodgit/fontpack/bitmap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func glyph(t *testing.T, w, h int, pix ...bool) bitmap.Glyph {
	t.Helper()
	b, err := bitmap.New(w, h, pix)
	require.NoError(t, err)
	return b.Glyph(b.Bounds())
}

func TestSize(t *testing.T) {
	tests := []struct {
		w, h, want int
	}{
		{0, 0, 0},
		{2, 2, 1},
		{8, 1, 1},
		{3, 3, 2},
		{8, 16, 16},
		{7, 9, 8},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Size(tt.w, tt.h), "%dx%d", tt.w, tt.h)
	}
}

func TestPackBlank(t *testing.T) {
	g := glyph(t, 2, 2, false, false, false, false)
	assert.Equal(t, []byte{0x00}, Pack(g))
}

func TestPackBitOrder(t *testing.T) {
	tests := []struct {
		name string
		g    bitmap.Glyph
		want []byte
	}{
		{
			"first pixel is MSB",
			glyph(t, 2, 2, true, false, false, false),
			[]byte{0x80},
		},
		{
			"padding is zero",
			glyph(t, 2, 2, true, true, true, true),
			[]byte{0xf0},
		},
		{
			"row-major across bytes",
			glyph(t, 3, 3,
				true, false, true,
				false, true, false,
				true, false, true),
			[]byte{0xaa, 0x80},
		},
		{
			"solid",
			bitmap.Solid(4, 4),
			[]byte{0xff, 0xff},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Pack(tt.g))
		})
	}
}

func TestPackIntoOverwrites(t *testing.T) {
	dst := []byte{0xff, 0xff}
	PackInto(dst, glyph(t, 3, 3, false, false, false, false, false, false, false, false, true))
	assert.Equal(t, []byte{0x00, 0x80}, dst)

	assert.Panics(t, func() {
		PackInto(make([]byte, 1), bitmap.Solid(3, 3))
	})
}

func TestPackView(t *testing.T) {
	b, err := bitmap.New(4, 1, []bool{false, true, true, false})
	require.NoError(t, err)

	assert.Equal(t, []byte{0x60}, Pack(b.Glyph(b.Bounds())))
	assert.Equal(t, []byte{0xc0}, Pack(b.Glyph(image.Rect(1, 0, 3, 1))))
}

func TestRoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(1))

	for _, size := range [][2]int{{1, 1}, {2, 2}, {5, 7}, {7, 9}, {8, 16}, {12, 12}} {
		w, h := size[0], size[1]
		pix := make([]bool, w*h)
		for i := range pix {
			pix[i] = r.Intn(2) == 1
		}
		g := glyph(t, w, h, pix...)

		packed := Pack(g)
		require.Len(t, packed, Size(w, h))

		u, err := Unpack(packed, w, h)
		require.NoError(t, err)
		assert.True(t, g.Equal(u.Glyph(u.Bounds())), "%dx%d", w, h)
		assert.NoError(t, Verify(g, packed))
	}
}

func TestUnpackIgnoresPadding(t *testing.T) {
	u, err := Unpack([]byte{0x8f}, 2, 2)
	require.NoError(t, err)
	assert.True(t, u.At(0, 0))
	assert.False(t, u.At(1, 0))
	assert.False(t, u.At(0, 1))
	assert.False(t, u.At(1, 1))

	_, err = Unpack([]byte{0x00}, 3, 3)
	assert.Error(t, err)
}

func TestVerifyMismatch(t *testing.T) {
	g := glyph(t, 2, 2, true, false, false, true)

	err := Verify(g, []byte{0x80})
	var mismatch *MismatchError
	require.True(t, errors.As(err, &mismatch), "got %v", err)
	assert.Equal(t, 1, mismatch.X)
	assert.Equal(t, 1, mismatch.Y)
}
