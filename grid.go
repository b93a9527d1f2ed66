package astar

import (
	"fmt"
	"strings"
)

// Cell is an integer grid coordinate.
type Cell struct {
	X, Y int
}

// Add returns the cell offset by (dx, dy).
func (c Cell) Add(dx, dy int) Cell { return Cell{X: c.X + dx, Y: c.Y + dy} }

func (c Cell) String() string { return fmt.Sprintf("(%d,%d)", c.X, c.Y) }

// Grid is a read-only passability oracle.
type Grid interface {
	Width() int
	Height() int
	IsOpen(cell Cell) bool
}

// InBounds reports whether cell lies inside the grid.
func InBounds(grid Grid, cell Cell) bool {
	return cell.X >= 0 && cell.X < grid.Width() && cell.Y >= 0 && cell.Y < grid.Height()
}

// BoolGrid is a dense row-major Grid.
type BoolGrid struct {
	width, height int
	open          []bool
}

// NewBoolGrid returns a width x height grid with every cell blocked.
func NewBoolGrid(width, height int) *BoolGrid {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &BoolGrid{width: width, height: height, open: make([]bool, width*height)}
}

// NewOpenGrid returns a width x height grid with every cell open.
func NewOpenGrid(width, height int) *BoolGrid {
	g := NewBoolGrid(width, height)
	for i := range g.open {
		g.open[i] = true
	}
	return g
}

func (g *BoolGrid) Width() int  { return g.width }
func (g *BoolGrid) Height() int { return g.height }

// IsOpen reports false for out-of-bounds cells.
func (g *BoolGrid) IsOpen(cell Cell) bool {
	if !InBounds(g, cell) {
		return false
	}
	return g.open[cell.Y*g.width+cell.X]
}

// SetOpen marks cell open or blocked. Out-of-bounds cells are ignored.
func (g *BoolGrid) SetOpen(cell Cell, open bool) {
	if !InBounds(g, cell) {
		return
	}
	g.open[cell.Y*g.width+cell.X] = open
}

// Clone returns an independent copy.
func (g *BoolGrid) Clone() *BoolGrid {
	c := &BoolGrid{width: g.width, height: g.height, open: make([]bool, len(g.open))}
	copy(c.open, g.open)
	return c
}

// String renders the grid with '#' for blocked and '.' for open cells.
func (g *BoolGrid) String() string {
	var b strings.Builder
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			if g.open[y*g.width+x] {
				b.WriteByte('.')
			} else {
				b.WriteByte('#')
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// Snapshot copies any Grid into a BoolGrid so later changes to the source
// are not observed.
func Snapshot(grid Grid) *BoolGrid {
	if bg, ok := grid.(*BoolGrid); ok {
		return bg.Clone()
	}
	s := NewBoolGrid(grid.Width(), grid.Height())
	for y := 0; y < s.height; y++ {
		for x := 0; x < s.width; x++ {
			s.open[y*s.width+x] = grid.IsOpen(Cell{X: x, Y: y})
		}
	}
	return s
}

// ParseGrid reads an ASCII maze. '#' is blocked; '.', ' ', 'S' and 'E' are
// open. Leading and trailing blank lines are dropped and every remaining row
// must have the same width.
func ParseGrid(text string) (*BoolGrid, error) {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	for len(lines) > 0 && strings.TrimSpace(lines[0]) == "" {
		lines = lines[1:]
	}
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	if len(lines) == 0 {
		return NewBoolGrid(0, 0), nil
	}

	width := len(lines[0])
	g := NewBoolGrid(width, len(lines))
	for y, line := range lines {
		if len(line) != width {
			return nil, fmt.Errorf("row %d has width %d, want %d", y, len(line), width)
		}
		for x := 0; x < width; x++ {
			switch line[x] {
			case '#':
			case '.', ' ', 'S', 'E':
				g.open[y*width+x] = true
			default:
				return nil, fmt.Errorf("row %d col %d: unexpected character %q", y, x, line[x])
			}
		}
	}
	return g, nil
}
