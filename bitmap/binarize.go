package bitmap

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"github.com/ericpauley/go-quantize/quantize"
)

// DefaultThreshold splits the intensity range in half.
const DefaultThreshold = 128

// Polarity selects which side of the threshold counts as ink.
type Polarity int

const (
	// DarkInk treats pixels darker than the threshold as ink, for dark
	// glyphs on a light background.
	DarkInk Polarity = iota
	// LightInk treats pixels at or above the threshold as ink, for light
	// glyphs on a dark background.
	LightInk
)

// Binarizer reduces a PixelGrid to a Bitmap.
type Binarizer struct {
	Threshold uint8
	Polarity  Polarity
}

// Binarize returns the Bitmap of g where a pixel is ink when its intensity is
// strictly less than threshold.
func Binarize(g *PixelGrid, threshold uint8) *Bitmap {
	return Binarizer{Threshold: threshold}.Binarize(g)
}

// Binarize returns the Bitmap of g.
func (b Binarizer) Binarize(g *PixelGrid) *Bitmap {
	pix := make([]bool, len(g.Pix))
	for i, v := range g.Pix {
		ink := v < b.Threshold
		if b.Polarity == LightInk {
			ink = !ink
		}
		pix[i] = ink
	}
	return &Bitmap{
		width:  g.Width,
		height: g.Height,
		pix:    pix,
	}
}

// FromImage converts m to grayscale. The returned grid is anchored at (0, 0)
// regardless of the bounds of m.
func FromImage(m image.Image) *PixelGrid {
	gray := imaging.Grayscale(m)
	b := gray.Bounds()
	g := NewPixelGrid(b.Dx(), b.Dy())
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			// R, G and B are equal after imaging.Grayscale
			g.Set(x, y, gray.Pix[gray.PixOffset(b.Min.X+x, b.Min.Y+y)])
		}
	}
	return g
}

func grayOf(c color.Color) uint8 {
	return color.GrayModel.Convert(c).(color.Gray).Y
}

// AutoThreshold picks a threshold that separates the two dominant tones of
// m. The image is reduced to two colors with a median cut quantizer and the
// midpoint of their intensities is returned, so that the darker tone falls
// below it. Images with a single tone get DefaultThreshold.
func AutoThreshold(m image.Image) uint8 {
	q := quantize.MedianCutQuantizer{}
	p := q.Quantize(make(color.Palette, 0, 2), m)
	if len(p) < 2 {
		return DefaultThreshold
	}

	lo, hi := grayOf(p[0]), grayOf(p[1])
	if lo > hi {
		lo, hi = hi, lo
	}
	if lo == hi {
		return DefaultThreshold
	}

	return uint8((int(lo) + int(hi) + 1) / 2)
}
