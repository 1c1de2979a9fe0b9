package fontpack

import (
	"crypto/sha1"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bodgit/fontpack/bitmap"
	"github.com/bodgit/fontpack/format"
	"github.com/bodgit/fontpack/layout"
	"github.com/bodgit/fontpack/pack"
	"github.com/bodgit/fontpack/rle"
	"github.com/disintegration/imaging"
)

// Font is the result of converting one spritesheet.
type Font struct {
	Name   string
	Source string
	SHA1   string

	Width, Height int
	Threshold     uint8
	Layout        layout.Layout
	Charset       Charset

	// Glyphs are the glyphs kept in the output, in cell order
	Glyphs []bitmap.Glyph
	// Packed holds every glyph back to back, GlyphSize bytes each
	Packed []byte

	// Encoding names the codec used for Data, empty when Data is Packed
	Encoding string
	Data     []byte
	// Offsets has one entry per glyph plus the total length of Data
	Offsets []int

	bitmap *bitmap.Bitmap
	solid  int
}

// GlyphSize returns the packed size of a single glyph.
func (f *Font) GlyphSize() int {
	return pack.Size(f.Layout.CellWidth, f.Layout.CellHeight)
}

// Rune returns the character of glyph i.
func (f *Font) Rune(i int) rune {
	return f.Charset.Rune(i)
}

// Output returns the data to hand to a formatter.
func (f *Font) Output() *format.Data {
	d := &format.Data{
		Name:       f.Name,
		CellWidth:  f.Layout.CellWidth,
		CellHeight: f.Layout.CellHeight,
		Count:      len(f.Glyphs),
		Encoding:   f.Encoding,
		Bytes:      f.Data,
	}
	if f.Encoding != "" {
		d.Offsets = f.Offsets
	}
	return d
}

// Preview renders the binarized sheet as the glyphs will be packed, scaled
// up by an integer factor.
func (f *Font) Preview(scale int) image.Image {
	m := f.bitmap.Gray()
	if f.solid >= 0 {
		f.Glyphs[f.solid].Draw(m, f.Layout.Cell(f.solid).Min)
	}
	if scale <= 1 {
		return m
	}
	return imaging.Resize(m, m.Bounds().Dx()*scale, m.Bounds().Dy()*scale, imaging.NearestNeighbor)
}

// Stats describes the sizes of a conversion.
type Stats struct {
	Width, Height int
	Layout        layout.Layout
	Glyphs        int
	Encoding      string
	// PixelBytes is the size at one byte per pixel
	PixelBytes int
	// PackedSize is the size at one bit per pixel
	PackedSize int
	// EncodedSize is the size of the final data
	EncodedSize int
}

// Ratio returns the packed size over the encoded size.
func (s Stats) Ratio() float64 {
	if s.EncodedSize == 0 {
		return 0
	}
	return float64(s.PackedSize) / float64(s.EncodedSize)
}

// Reduction returns how much smaller the encoded data is than one byte per
// pixel, in percent.
func (s Stats) Reduction() float64 {
	if s.PixelBytes == 0 {
		return 0
	}
	return (1 - float64(s.EncodedSize)/float64(s.PixelBytes)) * 100
}

// Stats returns the statistics of f.
func (f *Font) Stats() Stats {
	return Stats{
		Width:       f.Width,
		Height:      f.Height,
		Layout:      f.Layout,
		Glyphs:      len(f.Glyphs),
		Encoding:    f.Encoding,
		PixelBytes:  f.Width * f.Height,
		PackedSize:  len(f.Packed),
		EncodedSize: len(f.Data),
	}
}

// ConvertFile decodes the image in file and converts it. The font is named
// after the file unless the configuration provides a name.
func (c *Converter) ConvertFile(file string) (*Font, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	h := sha1.New()
	r := io.TeeReader(f, h)

	m, err := imaging.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("fontpack: %s: %w", file, err)
	}
	// Hash whatever the decoder left unread
	if _, err := io.Copy(h, r); err != nil {
		return nil, err
	}

	name := c.cfg.Name
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
	}

	font, err := c.convert(m, name, file)
	if err != nil {
		return nil, err
	}
	font.SHA1 = fmt.Sprintf("%X", h.Sum(nil))

	if c.catalog != nil {
		if err := c.catalog.Add(font); err != nil {
			return nil, err
		}
	}

	return font, nil
}

// Convert converts an already decoded image.
func (c *Converter) Convert(m image.Image, name string) (*Font, error) {
	if name == "" {
		name = c.cfg.Name
	}
	return c.convert(m, name, name)
}

func (c *Converter) convert(m image.Image, name, source string) (*Font, error) {
	name = format.Identifier(name)
	b := m.Bounds()
	c.logger.Printf("Converting %s, %dx%d pixels\n", source, b.Dx(), b.Dy())

	threshold := uint8(c.cfg.Threshold)
	if c.cfg.AutoThreshold {
		threshold = bitmap.AutoThreshold(m)
		c.logger.Printf("Using threshold %d for %s\n", threshold, source)
	}

	binarizer := bitmap.Binarizer{Threshold: threshold}
	if c.cfg.Invert {
		binarizer.Polarity = bitmap.LightInk
	}
	bm := binarizer.Binarize(bitmap.FromImage(m))

	l, err := layout.Detect(bm, c.opts)
	if err != nil {
		return nil, err
	}
	c.logger.Printf("Layout of %s is %s\n", source, l)

	font := &Font{
		Name:      name,
		Source:    source,
		Width:     bm.Width(),
		Height:    bm.Height(),
		Threshold: threshold,
		Layout:    l,
		Charset:   c.cfg.Charset,
		bitmap:    bm,
		solid:     -1,
	}

	kept := l.CharCount
	if c.cfg.Solid {
		if c.cfg.SolidIndex >= l.Cells() {
			return nil, &layout.Error{Reason: fmt.Sprintf("solid glyph index %d is outside the %d cells", c.cfg.SolidIndex, l.Cells())}
		}
		if c.cfg.SolidIndex >= kept {
			kept = c.cfg.SolidIndex + 1
		}
		font.solid = c.cfg.SolidIndex
	}

	font.Glyphs = make([]bitmap.Glyph, kept)
	for i := range font.Glyphs {
		font.Glyphs[i] = bm.Glyph(l.Cell(i))
	}
	if font.solid >= 0 {
		font.Glyphs[font.solid] = bitmap.Solid(l.CellWidth, l.CellHeight)
	}

	size := font.GlyphSize()
	font.Packed = make([]byte, kept*size)
	for i, g := range font.Glyphs {
		pack.PackInto(font.Packed[i*size:(i+1)*size], g)
	}

	font.Offsets = make([]int, kept+1)
	if c.codec == nil {
		for i := range font.Offsets {
			font.Offsets[i] = i * size
		}
		font.Data = font.Packed
	} else {
		font.Encoding = c.codec.Name()
		for i := 0; i < kept; i++ {
			font.Offsets[i] = len(font.Data)
			font.Data = append(font.Data, c.codec.Encode(font.Packed[i*size:(i+1)*size])...)
		}
		font.Offsets[kept] = len(font.Data)
	}

	if c.cfg.Verify {
		if err := c.verify(font); err != nil {
			return nil, err
		}
		c.logger.Printf("Verified %d glyphs of %s\n", kept, source)
	}

	return font, nil
}

// verify checks every glyph survives packing and, when compressed, that the
// slice of Data its offsets point at decodes back to the packed bytes.
func (c *Converter) verify(f *Font) error {
	size := f.GlyphSize()
	for i, g := range f.Glyphs {
		packed := f.Packed[i*size : (i+1)*size]
		if err := pack.Verify(g, packed); err != nil {
			return &InternalConsistencyError{Source: f.Source, Glyph: i, Err: err}
		}
		if c.codec == nil {
			continue
		}
		if err := rle.Check(c.codec, f.Data[f.Offsets[i]:f.Offsets[i+1]], packed); err != nil {
			return &InternalConsistencyError{Source: f.Source, Glyph: i, Err: err}
		}
	}
	return nil
}

// Write emits f in the configured format.
func (c *Converter) Write(w io.Writer, f *Font) error {
	return format.Write(w, c.format, f.Output())
}

// OffsetsFile returns the file holding the offset table that accompanies
// binary output in file.
func OffsetsFile(file string) string {
	return strings.TrimSuffix(file, filepath.Ext(file)) + ".idx"
}

func createFile(file string, write func(io.Writer) error) error {
	out, err := os.Create(file)
	if err != nil {
		return err
	}
	if err := write(out); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// WriteFile emits f in the configured format to file. Compressed binary
// output also gets its offset table written to OffsetsFile(file).
func (c *Converter) WriteFile(file string, f *Font) error {
	if err := createFile(file, func(w io.Writer) error {
		return c.Write(w, f)
	}); err != nil {
		return err
	}

	if c.format != format.Binary || f.Encoding == "" {
		return nil
	}
	return createFile(OffsetsFile(file), func(w io.Writer) error {
		return format.WriteOffsets(w, f.Output())
	})
}

// SavePreview writes the preview of f to file, the format following the
// file extension.
func SavePreview(file string, f *Font, scale int) error {
	return imaging.Save(f.Preview(scale), file)
}
