package sim

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidDimensions is returned when a grid is built with a non-positive side.
	ErrInvalidDimensions = errors.New("grid dimensions must be positive")
	// ErrOutOfBounds is returned when an agent is placed outside its grid.
	ErrOutOfBounds = errors.New("position outside grid")
	// ErrNilGrid is returned when an agent is built without a grid.
	ErrNilGrid = errors.New("agent requires a grid")
)

// Point is a cell coordinate. Y grows toward the bottom row.
type Point struct {
	X, Y int
}

func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// neighborOffsets is the fixed enumeration order used by Neighbors.
// Random movement indexes into this order, so seeded runs depend on it.
var neighborOffsets = [4]Point{
	{0, 1},
	{1, 0},
	{0, -1},
	{-1, 0},
}

// Grid is a fixed-size board with one integer marker per cell.
// Markers are not consulted by movement; they exist for callers that want
// to tag cells.
type Grid struct {
	width  int
	height int
	cells  []int // row-major, cells[y*width+x]
}

// NewGrid creates a width×height grid with every marker at 0.
func NewGrid(width, height int) (*Grid, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("new grid %dx%d: %w", width, height, ErrInvalidDimensions)
	}
	return &Grid{
		width:  width,
		height: height,
		cells:  make([]int, width*height),
	}, nil
}

// MustNewGrid is NewGrid for dimensions known to be valid. It panics otherwise.
func MustNewGrid(width, height int) *Grid {
	g, err := NewGrid(width, height)
	if err != nil {
		panic(err)
	}
	return g
}

func (g *Grid) Width() int  { return g.width }
func (g *Grid) Height() int { return g.height }

// IsValid reports whether (x, y) lies inside the grid.
func (g *Grid) IsValid(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.width && y < g.height
}

// Cell returns the marker at (x, y). The second result is false for
// coordinates outside the grid.
func (g *Grid) Cell(x, y int) (int, bool) {
	if !g.IsValid(x, y) {
		return 0, false
	}
	return g.cells[y*g.width+x], true
}

// SetCell overwrites the marker at (x, y). Out-of-range writes are ignored.
func (g *Grid) SetCell(x, y, value int) {
	if !g.IsValid(x, y) {
		return
	}
	g.cells[y*g.width+x] = value
}

// Clear resets every marker to 0.
func (g *Grid) Clear() {
	clear(g.cells)
}

// Neighbors returns the orthogonally adjacent cells of (x, y) that are
// inside the grid, in neighborOffsets order.
func (g *Grid) Neighbors(x, y int) []Point {
	out := make([]Point, 0, len(neighborOffsets))
	for _, d := range neighborOffsets {
		nx, ny := x+d.X, y+d.Y
		if g.IsValid(nx, ny) {
			out = append(out, Point{nx, ny})
		}
	}
	return out
}

// Corners returns the four corner cells clockwise from the top-left.
func (g *Grid) Corners() []Point {
	return []Point{
		{0, 0},
		{g.width - 1, 0},
		{g.width - 1, g.height - 1},
		{0, g.height - 1},
	}
}
