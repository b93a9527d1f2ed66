package astar

import (
	"container/heap"
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustGrid(t *testing.T, text string) *BoolGrid {
	t.Helper()
	g, err := ParseGrid(text)
	require.NoError(t, err)
	return g
}

// bfs returns the shortest open-cell distance from start to every reachable cell.
func bfs(grid Grid, start Cell) map[Cell]int {
	dist := map[Cell]int{start: 0}
	queue := []Cell{start}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		for _, d := range [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
			n := c.Add(d[0], d[1])
			if _, seen := dist[n]; seen || !grid.IsOpen(n) {
				continue
			}
			dist[n] = dist[c] + 1
			queue = append(queue, n)
		}
	}
	return dist
}

func assertValidPath(t *testing.T, grid Grid, path []Cell, start, end Cell) {
	t.Helper()
	require.NotEmpty(t, path)
	assert.Equal(t, start, path[0])
	assert.Equal(t, end, path[len(path)-1])
	seen := make(map[Cell]bool, len(path))
	for i, c := range path {
		assert.True(t, grid.IsOpen(c), "path cell %v is blocked", c)
		assert.False(t, seen[c], "path repeats %v", c)
		seen[c] = true
		if i > 0 {
			assert.Equal(t, 1, Manhattan(path[i-1], c), "path jumps from %v to %v", path[i-1], c)
		}
	}
}

func randomGrid(r *rand.Rand, w, h int, density float64) *BoolGrid {
	g := NewOpenGrid(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if r.Float64() < density {
				g.SetOpen(Cell{x, y}, false)
			}
		}
	}
	return g
}

func openCells(g *BoolGrid) []Cell {
	var cells []Cell
	for y := 0; y < g.Height(); y++ {
		for x := 0; x < g.Width(); x++ {
			if g.IsOpen(Cell{x, y}) {
				cells = append(cells, Cell{x, y})
			}
		}
	}
	return cells
}

func TestSearch_BlockedCentre(t *testing.T) {
	grid := mustGrid(t, "...\n.#.\n...\n")

	res, err := Search(context.Background(), grid, Cell{0, 0}, Cell{2, 2})
	require.NoError(t, err)

	assert.True(t, res.Found)
	assert.Equal(t, 4, res.Cost)
	assert.Equal(t, []Cell{{0, 0}, {1, 0}, {2, 0}, {2, 1}, {2, 2}}, res.Path)
	assert.Equal(t, 5, res.ExpandedNodes)
	assert.Equal(t, 6, res.Discovered)
}

func TestSearch_TieBreakAndParity(t *testing.T) {
	grid := NewOpenGrid(2, 2)

	// even start: down is pushed before right, so right is popped first
	res, err := Search(context.Background(), grid, Cell{0, 0}, Cell{1, 1})
	require.NoError(t, err)
	assert.Equal(t, []Cell{{0, 0}, {1, 0}, {1, 1}}, res.Path)

	// odd start: down is pushed before left, so left is popped first
	res, err = Search(context.Background(), grid, Cell{1, 0}, Cell{0, 1})
	require.NoError(t, err)
	assert.Equal(t, []Cell{{1, 0}, {0, 0}, {0, 1}}, res.Path)
}

func TestSearch_StartIsEnd(t *testing.T) {
	grid := NewOpenGrid(3, 3)

	res, err := Search(context.Background(), grid, Cell{1, 1}, Cell{1, 1})
	require.NoError(t, err)

	assert.True(t, res.Found)
	assert.Equal(t, []Cell{{1, 1}}, res.Path)
	assert.Equal(t, 0, res.Cost)
}

func TestSearch_Unreachable(t *testing.T) {
	grid := mustGrid(t, "..#..\n..#..\n..#..\n")

	res, err := Search(context.Background(), grid, Cell{0, 0}, Cell{4, 2})
	require.NoError(t, err)

	assert.False(t, res.Found)
	assert.Nil(t, res.Path)
	assert.Equal(t, 6, res.ExpandedNodes)
}

func TestSearch_InvalidEndpoints(t *testing.T) {
	grid := mustGrid(t, "#.\n..\n")

	tests := []struct {
		name       string
		start, end Cell
	}{
		{"blocked start", Cell{0, 0}, Cell{1, 1}},
		{"blocked end", Cell{1, 1}, Cell{0, 0}},
		{"start out of bounds", Cell{-1, 0}, Cell{1, 1}},
		{"end out of bounds", Cell{1, 1}, Cell{2, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Search(context.Background(), grid, tt.start, tt.end)
			assert.ErrorIs(t, err, ErrInvalidEndpoints)
		})
	}
}

func TestSearch_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := Search(ctx, NewOpenGrid(10, 10), Cell{0, 0}, Cell{9, 9})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, Result{}, res)
}

func TestSearch_MatchesBFS(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for trial := 0; trial < 200; trial++ {
		w, h := 2+r.Intn(7), 2+r.Intn(7)
		grid := randomGrid(r, w, h, 0.3)
		cells := openCells(grid)
		if len(cells) < 2 {
			continue
		}
		start := cells[r.Intn(len(cells))]
		end := cells[r.Intn(len(cells))]

		res, err := Search(context.Background(), grid, start, end)
		require.NoError(t, err)

		want, reachable := bfs(grid, start)[end]
		require.Equal(t, reachable, res.Found, "trial %d\n%s%v -> %v", trial, grid, start, end)
		if !reachable {
			continue
		}
		assert.Equal(t, want, res.Cost, "trial %d\n%s%v -> %v", trial, grid, start, end)
		assert.Len(t, res.Path, want+1)
		assertValidPath(t, grid, res.Path, start, end)
	}
}

func TestManhattan_Admissible(t *testing.T) {
	r := rand.New(rand.NewSource(11))
	for trial := 0; trial < 50; trial++ {
		grid := randomGrid(r, 8, 8, 0.25)
		cells := openCells(grid)
		if len(cells) == 0 {
			continue
		}
		end := cells[r.Intn(len(cells))]
		for cell, remaining := range bfs(grid, end) {
			assert.LessOrEqual(t, Manhattan(cell, end), remaining)
		}
	}
}

func TestSearch_Deterministic(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	grid := randomGrid(r, 30, 30, 0.2)
	grid.SetOpen(Cell{0, 0}, true)
	grid.SetOpen(Cell{29, 29}, true)

	first, err := Search(context.Background(), grid, Cell{0, 0}, Cell{29, 29})
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := Search(context.Background(), grid, Cell{0, 0}, Cell{29, 29})
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestSearch_Overlay(t *testing.T) {
	grid := mustGrid(t, "...\n.#.\n...\n")
	overlay := NewOverlay(grid)

	_, err := Search(context.Background(), grid, Cell{0, 0}, Cell{2, 2}, WithOverlay(overlay))
	require.NoError(t, err)

	snap := overlay.Snapshot()
	assert.Equal(t, MarkFrontier, snap.At(Cell{0, 1}))
	assert.Equal(t, MarkBlocked, snap.At(Cell{1, 1}))
	assert.Equal(t, MarkOpen, snap.At(Cell{0, 2}))
	assert.Equal(t, map[Mark]int{MarkPath: 5, MarkFrontier: 1, MarkBlocked: 1, MarkOpen: 2}, snap.Counts())
}

func TestPriorityQueue_LIFOAmongTies(t *testing.T) {
	pq := PriorityQueue{}
	heap.Init(&pq)
	for _, item := range []*PriorityQueueItem{
		{Cell: Cell{1, 0}, FCost: 5, Seq: -1},
		{Cell: Cell{2, 0}, FCost: 5, Seq: -2},
		{Cell: Cell{3, 0}, FCost: 4, Seq: -3},
		{Cell: Cell{4, 0}, FCost: 5, Seq: -4},
	} {
		heap.Push(&pq, item)
	}

	var order []Cell
	for pq.Len() > 0 {
		item := heap.Pop(&pq).(*PriorityQueueItem)
		assert.Equal(t, -1, item.IndexInQueue)
		order = append(order, item.Cell)
	}
	assert.Equal(t, []Cell{{3, 0}, {4, 0}, {2, 0}, {1, 0}}, order)
}
