/*
Package format writes packed font data in a form that can be embedded in
firmware: a Rust or C source file declaring constants and byte arrays, or a
raw binary file.

Source output declares the cell size and glyph count alongside the data.
When the data is compressed, glyphs no longer have a fixed size, so an offset
table with one entry per glyph plus a final entry holding the total length is
declared too. Glyph i occupies Offsets[i] up to Offsets[i+1].

Binary output holds the data bytes only. For compressed data the offset table
has to travel separately; WriteOffsets writes it as little-endian 32-bit
values.
*/
package format

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"
)

const bytesPerLine = 16

// Format selects the output representation.
type Format int

const (
	// Rust emits Rust constants
	Rust Format = iota
	// C emits a C header
	C
	// Binary emits the data bytes only
	Binary
)

var names = [...]string{
	Rust:   "rust",
	C:      "c",
	Binary: "bin",
}

var exts = [...]string{
	Rust:   ".rs",
	C:      ".h",
	Binary: ".bin",
}

func (f Format) String() string {
	return names[f]
}

// Ext returns the usual file extension, including the leading dot.
func (f Format) Ext() string {
	return exts[f]
}

// Parse returns the Format with the given name.
func Parse(name string) (Format, error) {
	for i, n := range names {
		if strings.EqualFold(n, name) {
			return Format(i), nil
		}
	}
	return 0, fmt.Errorf("format: unknown format %q", name)
}

// Names returns the names of all formats.
func Names() []string {
	return append([]string(nil), names[:]...)
}

// Data is everything needed to emit a font.
type Data struct {
	Name                  string
	CellWidth, CellHeight int
	Count                 int
	// Encoding names the run-length codec, empty if Bytes is not compressed
	Encoding string
	Bytes    []byte
	// Offsets has Count+1 entries when Encoding is set
	Offsets []int
}

// Compressed reports whether the data is run-length encoded.
func (d *Data) Compressed() bool {
	return d.Encoding != ""
}

func (d *Data) validate() error {
	if d.Compressed() && len(d.Offsets) != d.Count+1 {
		return fmt.Errorf("format: %d offsets for %d glyphs", len(d.Offsets), d.Count)
	}
	return nil
}

// Identifier turns s into an upper case constant name.
func Identifier(s string) string {
	var sb strings.Builder
	for _, r := range s {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			sb.WriteRune(unicode.ToUpper(r))
		default:
			sb.WriteByte('_')
		}
	}
	id := strings.Trim(sb.String(), "_")
	if id == "" {
		return "FONT"
	}
	if unicode.IsDigit(rune(id[0])) {
		id = "FONT_" + id
	}
	return id
}

// errWriter remembers the first error so the emitters can write freely and
// check once at the end.
type errWriter struct {
	w   *bufio.Writer
	err error
}

func (ew *errWriter) printf(format string, a ...interface{}) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, a...)
}

func (ew *errWriter) flush() error {
	if ew.err != nil {
		return ew.err
	}
	return ew.w.Flush()
}

var errNoName = errors.New("format: empty name")

// Write emits d to w in format f.
func Write(w io.Writer, f Format, d *Data) error {
	if err := d.validate(); err != nil {
		return err
	}

	if f == Binary {
		_, err := w.Write(d.Bytes)
		return err
	}

	if d.Name == "" {
		return errNoName
	}

	ew := &errWriter{w: bufio.NewWriter(w)}

	switch f {
	case Rust:
		writeRust(ew, d)
	case C:
		writeC(ew, d)
	default:
		return fmt.Errorf("format: unsupported format %d", f)
	}

	return ew.flush()
}

// WriteOffsets writes the offset table of d as little-endian uint32 values.
// Uncompressed data has no table and nothing is written.
func WriteOffsets(w io.Writer, d *Data) error {
	if err := d.validate(); err != nil {
		return err
	}
	if !d.Compressed() {
		return nil
	}

	v := make([]uint32, len(d.Offsets))
	for i, o := range d.Offsets {
		v[i] = uint32(o)
	}
	return binary.Write(w, binary.LittleEndian, v)
}

func header(ew *errWriter, comment string, d *Data) {
	encoding := "uncompressed"
	if d.Compressed() {
		encoding = d.Encoding + " run-length encoded"
	}
	ew.printf("%s Generated by fontpack, do not edit.\n", comment)
	ew.printf("%s %d glyphs of %dx%d pixels, %s, %d bytes.\n\n", comment, d.Count, d.CellWidth, d.CellHeight, encoding, len(d.Bytes))
}

func offsetsFit16(offsets []int) bool {
	for _, o := range offsets {
		if o > 0xffff {
			return false
		}
	}
	return true
}

func writeBytes(ew *errWriter, b []byte) {
	for i := 0; i < len(b); i += bytesPerLine {
		end := i + bytesPerLine
		if end > len(b) {
			end = len(b)
		}
		parts := make([]string, 0, end-i)
		for _, v := range b[i:end] {
			parts = append(parts, fmt.Sprintf("0x%02x", v))
		}
		ew.printf("    %s,\n", strings.Join(parts, ", "))
	}
}

func writeInts(ew *errWriter, v []int) {
	for i := 0; i < len(v); i += bytesPerLine {
		end := i + bytesPerLine
		if end > len(v) {
			end = len(v)
		}
		parts := make([]string, 0, end-i)
		for _, o := range v[i:end] {
			parts = append(parts, fmt.Sprint(o))
		}
		ew.printf("    %s,\n", strings.Join(parts, ", "))
	}
}

func writeRust(ew *errWriter, d *Data) {
	header(ew, "//", d)

	ew.printf("pub const %s_CHAR_WIDTH: usize = %d;\n", d.Name, d.CellWidth)
	ew.printf("pub const %s_CHAR_HEIGHT: usize = %d;\n", d.Name, d.CellHeight)
	ew.printf("pub const %s_CHAR_COUNT: usize = %d;\n\n", d.Name, d.Count)

	if d.Compressed() {
		typ := "u32"
		if offsetsFit16(d.Offsets) {
			typ = "u16"
		}
		ew.printf("pub const %s_OFFSETS: [%s; %d] = [\n", d.Name, typ, len(d.Offsets))
		writeInts(ew, d.Offsets)
		ew.printf("];\n\n")
	}

	ew.printf("pub const %s: [u8; %d] = [\n", d.Name, len(d.Bytes))
	writeBytes(ew, d.Bytes)
	ew.printf("];\n")
}

func writeC(ew *errWriter, d *Data) {
	header(ew, "//", d)

	guard := d.Name + "_H"
	ew.printf("#ifndef %s\n#define %s\n\n", guard, guard)

	ew.printf("#define %s_CHAR_WIDTH %d\n", d.Name, d.CellWidth)
	ew.printf("#define %s_CHAR_HEIGHT %d\n", d.Name, d.CellHeight)
	ew.printf("#define %s_CHAR_COUNT %d\n\n", d.Name, d.Count)

	if d.Compressed() {
		typ := "unsigned long"
		if offsetsFit16(d.Offsets) {
			typ = "unsigned short"
		}
		ew.printf("static const %s %s_OFFSETS[%d] = {\n", typ, d.Name, len(d.Offsets))
		writeInts(ew, d.Offsets)
		ew.printf("};\n\n")
	}

	ew.printf("static const unsigned char %s[%d] = {\n", d.Name, len(d.Bytes))
	writeBytes(ew, d.Bytes)
	ew.printf("};\n\n")

	ew.printf("#endif\n")
}
