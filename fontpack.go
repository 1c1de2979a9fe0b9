/*
Package fontpack converts bitmap font spritesheets into compact packed data
for embedding in firmware.

A sheet is reduced to one bit per pixel, divided into a grid of equally sized
glyph cells, and each glyph is packed eight pixels to a byte. The packed
glyphs are then optionally run-length encoded, with an offset table so that
individual glyphs can still be located without decoding the whole font.
*/
package fontpack

import (
	"log"

	"github.com/bodgit/fontpack/format"
	"github.com/bodgit/fontpack/layout"
	"github.com/bodgit/fontpack/rle"
)

// Converter turns spritesheets into fonts.
type Converter struct {
	cfg     Config
	opts    layout.Options
	format  format.Format
	codec   rle.Codec
	catalog *Catalog
	logger  *log.Logger
}

// New returns a Converter using cfg. Every successful conversion is recorded
// in catalog unless it is nil.
func New(cfg Config, catalog *Catalog, logger *log.Logger) (*Converter, error) {
	r, err := cfg.resolve()
	if err != nil {
		return nil, err
	}

	return &Converter{
		cfg:     cfg,
		opts:    r.layout,
		format:  r.format,
		codec:   r.codec,
		catalog: catalog,
		logger:  logger,
	}, nil
}

// Format returns the output format.
func (c *Converter) Format() format.Format {
	return c.format
}
