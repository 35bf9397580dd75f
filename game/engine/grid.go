package engine

import (
	"fmt"

	"github.com/wricardo/spriteboard/game/geometry"
	"github.com/wricardo/spriteboard/game/layout"
)

// Cell is one grid cell of a declarative board state.
type Cell struct {
	Coords Coords     `json:"coords"`
	Kind   EntityKind `json:"kind"`
}

// CellPlacement is a cell with its resolved area.
type CellPlacement struct {
	Coords Coords        `json:"coords"`
	Kind   EntityKind    `json:"kind"`
	Area   geometry.Area `json:"area"`
}

// GameGrid lays a GameState out on a fixed grid. Cells are listed row-major;
// cells missing from the state hold Empty.
type GameGrid struct {
	grid     layout.Grid
	cellSize float64
	cells    []Cell
}

// NewGameGrid parses the coordinate keys of state and builds the cell list
// for a rows-by-cols grid.
func NewGameGrid(state GameState, rows, cols int, spacing, cellSize float64) (*GameGrid, error) {
	kinds := make(map[Coords]EntityKind, len(state.Sprites))
	for key, kind := range state.Sprites {
		c, err := ParseCoords(key)
		if err != nil {
			return nil, err
		}
		if c.X >= cols || c.Y >= rows {
			return nil, fmt.Errorf("coords %s outside %dx%d grid", c, cols, rows)
		}
		kinds[c] = kind
	}

	cells := make([]Cell, 0, rows*cols)
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			c := Coords{X: x, Y: y}
			kind, ok := kinds[c]
			if !ok {
				kind = Empty
			}
			cells = append(cells, Cell{Coords: c, Kind: kind})
		}
	}

	return &GameGrid{
		grid:     layout.NewGrid(rows, cols, geometry.Point{X: spacing, Y: spacing}, geometry.Padding{}),
		cellSize: cellSize,
		cells:    cells,
	}, nil
}

// Cells returns the grid cells in row-major order.
func (g *GameGrid) Cells() []Cell {
	return g.cells
}

// Size returns the total size the grid needs.
func (g *GameGrid) Size() geometry.Size {
	req := g.grid.RequestSize(g.requests())
	return geometry.Size{W: req.MaxWidth, H: req.MaxHeight}
}

// Layout places every cell within the available area.
func (g *GameGrid) Layout(available geometry.Size) []CellPlacement {
	areas := g.grid.Build(available, g.requests())
	out := make([]CellPlacement, len(areas))
	for i, area := range areas {
		out[i] = CellPlacement{Coords: g.cells[i].Coords, Kind: g.cells[i].Kind, Area: area}
	}
	return out
}

func (g *GameGrid) requests() []geometry.SizeRequest {
	reqs := make([]geometry.SizeRequest, len(g.cells))
	for i := range reqs {
		reqs[i] = geometry.Fixed(g.cellSize, g.cellSize)
	}
	return reqs
}
