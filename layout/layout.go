/*
Package layout works out how a font spritesheet is divided into glyph cells.

Cells are laid out in a regular grid of Columns by Rows, each CellWidth by
CellHeight pixels, numbered from zero in row-major order. A layout is either
given by the caller, partially given and completed from the image size, or
detected by scanning the sheet for ink-free rows and columns separating the
cells.
*/
package layout

import (
	"fmt"
	"image"
)

// Layout describes the glyph grid of a spritesheet.
type Layout struct {
	CellWidth, CellHeight int
	Columns, Rows         int
	CharCount             int
}

// Cells returns the number of cells in the grid, which may exceed CharCount.
func (l Layout) Cells() int {
	return l.Columns * l.Rows
}

// Cell returns the rectangle of the cell with index i.
func (l Layout) Cell(i int) image.Rectangle {
	x := (i % l.Columns) * l.CellWidth
	y := (i / l.Columns) * l.CellHeight
	return image.Rect(x, y, x+l.CellWidth, y+l.CellHeight)
}

func (l Layout) String() string {
	return fmt.Sprintf("%dx%d cells of %dx%d pixels, %d characters", l.Columns, l.Rows, l.CellWidth, l.CellHeight, l.CharCount)
}

// Error is returned when no consistent grid can be found for an image.
type Error struct {
	Reason string
}

func (e *Error) Error() string {
	return "layout: " + e.Reason
}

func layoutError(format string, a ...interface{}) error {
	return &Error{Reason: fmt.Sprintf(format, a...)}
}

// ConfigError is returned when manually supplied values contradict each
// other or the image they are applied to.
type ConfigError struct {
	Option string
	Reason string
}

func (e *ConfigError) Error() string {
	if e.Option == "" {
		return "config: " + e.Reason
	}
	return fmt.Sprintf("config: %s: %s", e.Option, e.Reason)
}

func configError(option, format string, a ...interface{}) error {
	return &ConfigError{Option: option, Reason: fmt.Sprintf(format, a...)}
}
