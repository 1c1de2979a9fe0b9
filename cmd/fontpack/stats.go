package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"

	"github.com/bodgit/fontpack"
	colorable "github.com/mattn/go-colorable"
	isatty "github.com/mattn/go-isatty"
)

const (
	bold  = "\033[1m"
	green = "\033[32m"
	reset = "\033[0m"
)

// stderr returns a writer for stderr and whether it understands ANSI colors
func stderr() (io.Writer, bool) {
	fd := os.Stderr.Fd()
	if isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd) {
		return colorable.NewColorable(os.Stderr), true
	}
	return os.Stderr, false
}

func printStats(s fontpack.Stats) {
	w, color := stderr()
	paint := func(code, text string) string {
		if !color {
			return text
		}
		return code + text + reset
	}

	encoding := s.Encoding
	if encoding == "" {
		encoding = "none"
	}

	rule := strings.Repeat("=", 50)
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, paint(bold, "COMPRESSION STATS"))
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "Image:      %dx%d pixels\n", s.Width, s.Height)
	fmt.Fprintf(w, "Grid:       %d cols x %d rows\n", s.Layout.Columns, s.Layout.Rows)
	fmt.Fprintf(w, "Char size:  %dx%d pixels\n", s.Layout.CellWidth, s.Layout.CellHeight)
	fmt.Fprintf(w, "Characters: %d\n", s.Glyphs)
	fmt.Fprintf(w, "Encoding:   %s\n", encoding)
	fmt.Fprintln(w, strings.Repeat("-", 50))
	fmt.Fprintf(w, "Pixels:     %d bytes\n", s.PixelBytes)
	fmt.Fprintf(w, "Packed:     %d bytes\n", s.PackedSize)
	fmt.Fprintf(w, "Compressed: %s\n", paint(green, fmt.Sprintf("%d bytes", s.EncodedSize)))
	fmt.Fprintf(w, "Reduction:  %.1f%%\n", s.Reduction())
	fmt.Fprintf(w, "Ratio:      %.2f:1\n", s.Ratio())
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w)
}

func listFonts(f *fontpack.Font) {
	w, _ := stderr()
	fmt.Fprintf(w, "Font contains %d characters:\n", len(f.Glyphs))
	for i := range f.Glyphs {
		fmt.Fprintf(w, "  %3d  %s\n", i, charLabel(f.Rune(i)))
	}
}

// charLabel shows r as its code point followed by the character itself when
// it is printable.
func charLabel(r rune) string {
	if !unicode.IsPrint(r) {
		return fmt.Sprintf("%U", r)
	}
	return fmt.Sprintf("%U  %c", r, r)
}
