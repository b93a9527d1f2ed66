package astar

// Manhattan returns |x0-x1| + |y0-y1|. It never overestimates the remaining
// cost on a four-connected unit-cost grid.
func Manhattan(from, to Cell) int {
	return abs(from.X-to.X) + abs(from.Y-to.Y)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

var (
	evenMoves = [4][2]int{{-1, 0}, {0, 1}, {0, -1}, {1, 0}}
	oddMoves  = [4][2]int{{1, 0}, {0, -1}, {0, 1}, {-1, 0}}
)

// neighborOffsets returns the expansion order for cell. Cells on even
// checkerboard squares go left, down, up, right; odd squares go the reverse way.
func neighborOffsets(cell Cell) *[4][2]int {
	if (cell.X+cell.Y)%2 == 0 {
		return &evenMoves
	}
	return &oddMoves
}
