package layout

import (
	"math"

	"github.com/wricardo/spriteboard/game/geometry"
)

// Grid is a fixed rows-by-columns layout. Children fill cells row-major; a
// cell holds at most one child and children beyond Rows*Cols are dropped.
type Grid struct {
	Rows    int
	Cols    int
	Spacing geometry.Point
	Padding geometry.Padding
	// AlignX and AlignY position the whole grid inside the available area.
	AlignX geometry.Offset
	AlignY geometry.Offset
}

// NewGrid creates a start-aligned grid.
func NewGrid(rows, cols int, spacing geometry.Point, padding geometry.Padding) Grid {
	return Grid{Rows: rows, Cols: cols, Spacing: spacing, Padding: padding}
}

// Square creates an n-by-n grid with uniform spacing, centred in its parent.
func Square(n int, spacing float64) Grid {
	return Grid{
		Rows:    n,
		Cols:    n,
		Spacing: geometry.Point{X: spacing, Y: spacing},
		AlignX:  geometry.Center(),
		AlignY:  geometry.Center(),
	}
}

// Capacity returns the number of cells.
func (g Grid) Capacity() int {
	if g.Rows <= 0 || g.Cols <= 0 {
		return 0
	}
	return g.Rows * g.Cols
}

// Cell returns the child index of (row, col), or false when the address lies
// outside the grid.
func (g Grid) Cell(row, col int) (int, bool) {
	if row < 0 || col < 0 || row >= g.Rows || col >= g.Cols {
		return 0, false
	}
	return row*g.Cols + col, true
}

// Dropped reports how many of n children do not fit in the grid.
func (g Grid) Dropped(n int) int {
	return max(n-g.Capacity(), 0)
}

// RequestSize returns the fixed size needed to show every child at its
// maximum size, padding included.
func (g Grid) RequestSize(children []geometry.SizeRequest) geometry.SizeRequest {
	if g.Capacity() == 0 {
		return g.Padding.AdjustRequest(geometry.Fixed(0, 0))
	}
	cols, rows := g.tracks(children)
	total := g.content(cols, rows)
	return g.Padding.AdjustRequest(geometry.Fixed(total.W, total.H))
}

// Build places children cell by cell. Cells past the last child are skipped
// and children past the last cell are dropped; neither is an error.
func (g Grid) Build(available geometry.Size, children []geometry.SizeRequest) []geometry.Area {
	if g.Capacity() == 0 {
		return nil
	}

	cols, rows := g.tracks(children)
	total := g.content(cols, rows)
	inner := g.Padding.AdjustSize(available)
	origin := geometry.Point{
		X: g.AlignX.Resolve(inner.W, total.W),
		Y: g.AlignY.Resolve(inner.H, total.H),
	}

	areas := make([]geometry.Area, 0, min(len(children), g.Capacity()))
	y := origin.Y
	for row := 0; row < g.Rows; row++ {
		x := origin.X
		for col := 0; col < g.Cols; col++ {
			idx := row*g.Cols + col
			if idx >= len(children) {
				continue
			}

			w, h := cols[col], rows[row]
			size := children[idx].Get(geometry.Size{W: w, H: h})
			offset := g.Padding.AdjustOffset(geometry.Point{X: x, Y: y})
			areas = append(areas, geometry.Area{Offset: offset, Size: size})

			x += w + g.Spacing.X
		}
		y += rows[row] + g.Spacing.Y
	}

	return areas
}

// tracks computes the column widths and row heights from the largest child
// in each track.
func (g Grid) tracks(children []geometry.SizeRequest) (cols, rows []float64) {
	cols = make([]float64, g.Cols)
	rows = make([]float64, g.Rows)

	for i, child := range children {
		col := i % g.Cols
		row := i / g.Cols
		if row >= g.Rows {
			break
		}
		cols[col] = math.Max(cols[col], child.MaxWidth)
		rows[row] = math.Max(rows[row], child.MaxHeight)
	}
	return cols, rows
}

func (g Grid) content(cols, rows []float64) geometry.Size {
	var size geometry.Size
	for _, w := range cols {
		size.W += w
	}
	for _, h := range rows {
		size.H += h
	}
	size.W += g.Spacing.X * float64(len(cols)-1)
	size.H += g.Spacing.Y * float64(len(rows)-1)
	return size
}
