/*
Package bitmap implements the bi-level pixel model used by fontpack.

A PixelGrid holds grayscale intensities as decoded from a spritesheet. It is
reduced to a Bitmap, one bit per pixel meaning "ink present", by a Binarizer.
A Glyph is a view onto a rectangle of a Bitmap and owns no pixels of its own.
*/
package bitmap

import (
	"errors"
	"image"
	"image/color"
)

var errSize = errors.New("bitmap: pixel count does not match dimensions")

// PixelGrid is a row-major matrix of 8-bit intensities.
type PixelGrid struct {
	Width, Height int
	Pix           []uint8
}

// NewPixelGrid returns a zeroed (black) PixelGrid.
func NewPixelGrid(width, height int) *PixelGrid {
	return &PixelGrid{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height),
	}
}

// At returns the intensity at (x, y).
func (g *PixelGrid) At(x, y int) uint8 {
	return g.Pix[y*g.Width+x]
}

// Set sets the intensity at (x, y).
func (g *PixelGrid) Set(x, y int, v uint8) {
	g.Pix[y*g.Width+x] = v
}

// Bitmap is an immutable bi-level image.
type Bitmap struct {
	width, height int
	pix           []bool
}

// New returns a Bitmap of the given size using pix, which is stored in
// row-major order and must not be modified afterwards.
func New(width, height int, pix []bool) (*Bitmap, error) {
	if width < 0 || height < 0 || len(pix) != width*height {
		return nil, errSize
	}
	return &Bitmap{
		width:  width,
		height: height,
		pix:    pix,
	}, nil
}

// Width returns the width in pixels.
func (b *Bitmap) Width() int { return b.width }

// Height returns the height in pixels.
func (b *Bitmap) Height() int { return b.height }

// Bounds returns the rectangle covered by the bitmap, anchored at (0, 0).
func (b *Bitmap) Bounds() image.Rectangle {
	return image.Rect(0, 0, b.width, b.height)
}

// At reports whether there is ink at (x, y). Pixels outside the bitmap are
// never inked.
func (b *Bitmap) At(x, y int) bool {
	if x < 0 || y < 0 || x >= b.width || y >= b.height {
		return false
	}
	return b.pix[y*b.width+x]
}

// Blank reports whether the bitmap carries no ink at all.
func (b *Bitmap) Blank() bool {
	for _, p := range b.pix {
		if p {
			return false
		}
	}
	return true
}

// Glyph returns a view onto r. Parts of r outside the bitmap read as blank.
func (b *Bitmap) Glyph(r image.Rectangle) Glyph {
	return Glyph{
		src:  b,
		rect: r,
	}
}

// Gray renders the bitmap with ink in black on a white background.
func (b *Bitmap) Gray() *image.Gray {
	m := image.NewGray(b.Bounds())
	for i, p := range b.pix {
		if !p {
			m.Pix[i] = 0xff
		}
	}
	return m
}

// Glyph is a rectangular view onto a Bitmap.
type Glyph struct {
	src  *Bitmap
	rect image.Rectangle
}

// Solid returns a fully inked glyph of the given size.
func Solid(width, height int) Glyph {
	pix := make([]bool, width*height)
	for i := range pix {
		pix[i] = true
	}
	b := &Bitmap{width: width, height: height, pix: pix}
	return b.Glyph(b.Bounds())
}

// Width returns the glyph width in pixels.
func (g Glyph) Width() int { return g.rect.Dx() }

// Height returns the glyph height in pixels.
func (g Glyph) Height() int { return g.rect.Dy() }

// Rect returns the rectangle of the underlying bitmap that g views.
func (g Glyph) Rect() image.Rectangle { return g.rect }

// At reports whether there is ink at (x, y) relative to the glyph origin.
func (g Glyph) At(x, y int) bool {
	if x < 0 || y < 0 || x >= g.rect.Dx() || y >= g.rect.Dy() {
		return false
	}
	return g.src.At(g.rect.Min.X+x, g.rect.Min.Y+y)
}

// Equal reports whether both glyphs have the same size and ink pattern.
func (g Glyph) Equal(o Glyph) bool {
	if g.Width() != o.Width() || g.Height() != o.Height() {
		return false
	}
	for y := 0; y < g.Height(); y++ {
		for x := 0; x < g.Width(); x++ {
			if g.At(x, y) != o.At(x, y) {
				return false
			}
		}
	}
	return true
}

// Draw copies the ink pattern of g onto m with its origin at p, ink black and
// no ink white.
func (g Glyph) Draw(m *image.Gray, p image.Point) {
	for y := 0; y < g.Height(); y++ {
		for x := 0; x < g.Width(); x++ {
			c := color.Gray{Y: 0xff}
			if g.At(x, y) {
				c.Y = 0
			}
			m.SetGray(p.X+x, p.Y+y, c)
		}
	}
}
