package vizweb

import (
	"math/rand"

	astar "github.com/pdrpinto/mazeastar"
)

// MazeParams controls random maze generation.
type MazeParams struct {
	Width    int
	Height   int
	Clusters int
	Steps    int
	Density  float64
	Seed     int64
}

// DefaultMazeParams matches the visualizer's initial board.
func DefaultMazeParams() MazeParams {
	return MazeParams{Width: 40, Height: 24, Clusters: 8, Steps: 200, Density: 0.25, Seed: 1}
}

// GenerateMaze builds an open grid with clustered walls laid by random walks,
// then picks distinct start and goal cells and clears them.
func GenerateMaze(p MazeParams) (*astar.BoolGrid, astar.Cell, astar.Cell) {
	r := rand.New(rand.NewSource(p.Seed))
	grid := astar.NewOpenGrid(p.Width, p.Height)

	start, goal := astar.Cell{}, astar.Cell{}
	for {
		start = astar.Cell{X: r.Intn(p.Width), Y: r.Intn(p.Height)}
		goal = astar.Cell{X: r.Intn(p.Width), Y: r.Intn(p.Height)}
		if start != goal {
			break
		}
	}

	dirs := [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	for c := 0; c < p.Clusters; c++ {
		cell := astar.Cell{X: r.Intn(p.Width), Y: r.Intn(p.Height)}
		for s := 0; s < p.Steps; s++ {
			if r.Float64() < p.Density {
				grid.SetOpen(cell, false)
			}
			d := dirs[r.Intn(4)]
			if next := cell.Add(d[0], d[1]); astar.InBounds(grid, next) {
				cell = next
			}
		}
	}
	grid.SetOpen(start, true)
	grid.SetOpen(goal, true)
	return grid, start, goal
}
