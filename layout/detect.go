package layout

import (
	"image"
	"strconv"
	"strings"

	"github.com/bodgit/fontpack/bitmap"
)

// Options carries manual overrides. A zero Grid or Cell means the value is
// not known and has to be derived.
type Options struct {
	// Grid is the number of columns and rows
	Grid image.Point
	// Cell is the width and height of a single cell in pixels
	Cell image.Point
	// CharCount limits the number of characters, zero means every cell
	CharCount int
}

func (o Options) validate() error {
	for _, p := range []struct {
		option string
		value  image.Point
	}{
		{"grid", o.Grid},
		{"char-size", o.Cell},
	} {
		if p.value.X < 0 || p.value.Y < 0 {
			return configError(p.option, "negative value %dx%d", p.value.X, p.value.Y)
		}
		if (p.value.X == 0) != (p.value.Y == 0) {
			return configError(p.option, "both dimensions must be given, got %dx%d", p.value.X, p.value.Y)
		}
	}
	if o.CharCount < 0 {
		return configError("count", "negative character count %d", o.CharCount)
	}
	return nil
}

type resolver func(b *bitmap.Bitmap, o Options) (Layout, error)

const (
	manualGrid = 1 << iota
	manualCell
)

// Manual values always win; detection only runs when neither is given.
var resolvers = [...]resolver{
	0:                       detectGrid,
	manualGrid:              fromGrid,
	manualCell:              fromCell,
	manualGrid | manualCell: fromGridAndCell,
}

// Detect returns the layout of b, honouring any overrides in o.
func Detect(b *bitmap.Bitmap, o Options) (Layout, error) {
	if err := o.validate(); err != nil {
		return Layout{}, err
	}

	if b.Width() == 0 || b.Height() == 0 {
		return Layout{}, layoutError("image is empty")
	}

	var key int
	if o.Grid != (image.Point{}) {
		key |= manualGrid
	}
	if o.Cell != (image.Point{}) {
		key |= manualCell
	}

	l, err := resolvers[key](b, o)
	if err != nil {
		return Layout{}, err
	}

	switch {
	case o.CharCount == 0:
		l.CharCount = l.Cells()
	case o.CharCount > l.Cells():
		return Layout{}, layoutError("%d characters do not fit in %d cells", o.CharCount, l.Cells())
	default:
		l.CharCount = o.CharCount
	}

	return l, nil
}

func fromGridAndCell(b *bitmap.Bitmap, o Options) (Layout, error) {
	if o.Cell.X*o.Grid.X > b.Width() || o.Cell.Y*o.Grid.Y > b.Height() {
		return Layout{}, configError("grid", "%dx%d cells of %dx%d pixels do not fit a %dx%d image", o.Grid.X, o.Grid.Y, o.Cell.X, o.Cell.Y, b.Width(), b.Height())
	}
	return Layout{
		CellWidth:  o.Cell.X,
		CellHeight: o.Cell.Y,
		Columns:    o.Grid.X,
		Rows:       o.Grid.Y,
	}, nil
}

func fromGrid(b *bitmap.Bitmap, o Options) (Layout, error) {
	l := Layout{
		CellWidth:  b.Width() / o.Grid.X,
		CellHeight: b.Height() / o.Grid.Y,
		Columns:    o.Grid.X,
		Rows:       o.Grid.Y,
	}
	if l.CellWidth == 0 || l.CellHeight == 0 {
		return Layout{}, configError("grid", "%dx%d grid does not fit a %dx%d image", o.Grid.X, o.Grid.Y, b.Width(), b.Height())
	}
	return l, nil
}

func fromCell(b *bitmap.Bitmap, o Options) (Layout, error) {
	if o.Cell.X > b.Width() || o.Cell.Y > b.Height() {
		return Layout{}, layoutError("cell size %dx%d is larger than the %dx%d image", o.Cell.X, o.Cell.Y, b.Width(), b.Height())
	}
	return Layout{
		CellWidth:  o.Cell.X,
		CellHeight: o.Cell.Y,
		Columns:    b.Width() / o.Cell.X,
		Rows:       b.Height() / o.Cell.Y,
	}, nil
}

func detectGrid(b *bitmap.Bitmap, _ Options) (Layout, error) {
	if b.Blank() {
		return Layout{}, layoutError("image has no ink")
	}

	cols := boundaries(emptyColumns(b))
	rows := boundaries(emptyRows(b))
	if len(cols) == 0 && len(rows) == 0 {
		return Layout{}, layoutError("no ink-free rows or columns to separate cells")
	}

	var l Layout
	l.CellWidth, l.Columns = axis(cols, b.Width())
	l.CellHeight, l.Rows = axis(rows, b.Height())

	return l, nil
}

func emptyColumns(b *bitmap.Bitmap) []bool {
	empty := make([]bool, b.Width())
	for x := range empty {
		empty[x] = true
		for y := 0; y < b.Height(); y++ {
			if b.At(x, y) {
				empty[x] = false
				break
			}
		}
	}
	return empty
}

func emptyRows(b *bitmap.Bitmap) []bool {
	empty := make([]bool, b.Height())
	for y := range empty {
		empty[y] = true
		for x := 0; x < b.Width(); x++ {
			if b.At(x, y) {
				empty[y] = false
				break
			}
		}
	}
	return empty
}

// boundaries returns the index just past the last line of every run of
// empty lines.
func boundaries(empty []bool) []int {
	var out []int
	for i := range empty {
		if empty[i] && (i+1 == len(empty) || !empty[i+1]) {
			out = append(out, i+1)
		}
	}
	return out
}

// modalSpacing returns the most frequent distance between consecutive
// boundaries. Ties go to the smallest distance.
func modalSpacing(bounds []int) int {
	freq := make(map[int]int)
	for i := 1; i < len(bounds); i++ {
		freq[bounds[i]-bounds[i-1]]++
	}

	var best, n int
	for spacing, c := range freq {
		if c > n || (c == n && spacing < best) {
			best, n = spacing, c
		}
	}
	return best
}

// axis returns the cell size and count along one axis of the given length.
// With fewer than two boundaries there is no spacing to measure and the
// whole axis is a single cell.
func axis(bounds []int, length int) (int, int) {
	if len(bounds) < 2 {
		return length, 1
	}
	size := modalSpacing(bounds)
	return size, length / size
}

// ParseSize parses a "WxH" pair such as "18x7" given for option.
func ParseSize(option, s string) (image.Point, error) {
	parts := strings.Split(strings.ToLower(strings.TrimSpace(s)), "x")
	if len(parts) != 2 {
		return image.Point{}, configError(option, "%q is not of the form WxH", s)
	}

	var p image.Point
	for i, dst := range []*int{&p.X, &p.Y} {
		n, err := strconv.Atoi(parts[i])
		if err != nil || n <= 0 {
			return image.Point{}, configError(option, "%q is not a positive number in %q", parts[i], s)
		}
		*dst = n
	}

	return p, nil
}
