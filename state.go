package astar

import (
	"container/heap"

	"github.com/pdrpinto/mazeastar/internal/pathutil"
)

// searchState is owned by exactly one run and never reused.
type searchState struct {
	grid    Grid
	start   Cell
	end     Cell
	overlay *Overlay

	distance    map[Cell]int
	predecessor map[Cell]Cell
	closed      map[Cell]bool
	frontier    PriorityQueue
	seq         int

	current  Cell
	expanded int
	done     bool
	found    bool
	path     []Cell
}

func newSearchState(grid Grid, start, end Cell, overlay *Overlay) *searchState {
	s := &searchState{
		grid:        grid,
		start:       start,
		end:         end,
		overlay:     overlay,
		distance:    map[Cell]int{start: 0},
		predecessor: make(map[Cell]Cell),
		closed:      make(map[Cell]bool),
		frontier:    make(PriorityQueue, 0),
	}
	heap.Init(&s.frontier)
	heap.Push(&s.frontier, &PriorityQueueItem{Cell: start, FCost: Manhattan(start, end), Seq: 0})
	return s
}

// step pops one frontier entry. It reports whether the entry was current
// (expanded or the goal) rather than stale.
func (s *searchState) step() bool {
	if s.done {
		return false
	}
	if s.frontier.Len() == 0 {
		s.done = true
		return false
	}

	item := heap.Pop(&s.frontier).(*PriorityQueueItem)
	current := item.Cell
	s.mark(current, MarkExplored)

	if current == s.end {
		s.current = current
		s.closed[current] = true
		s.expanded++
		s.finish()
		return true
	}

	g := item.FCost - Manhattan(current, s.end)
	if g != s.distance[current] {
		return false
	}
	s.current = current
	s.closed[current] = true
	s.expanded++

	for _, move := range neighborOffsets(current) {
		neighbor := current.Add(move[0], move[1])
		if !InBounds(s.grid, neighbor) || !s.grid.IsOpen(neighbor) {
			continue
		}
		tentative := g + 1
		if known, seen := s.distance[neighbor]; seen && known <= tentative {
			continue
		}
		s.distance[neighbor] = tentative
		s.predecessor[neighbor] = current
		s.seq--
		heap.Push(&s.frontier, &PriorityQueueItem{
			Cell:  neighbor,
			FCost: tentative + Manhattan(neighbor, s.end),
			Seq:   s.seq,
		})
		s.mark(neighbor, MarkFrontier)
	}
	return true
}

func (s *searchState) finish() {
	s.done = true
	s.path = pathutil.Reconstruct(s.predecessor, s.start, s.end)
	s.found = s.path != nil
	for _, cell := range s.path {
		s.mark(cell, MarkPath)
	}
}

func (s *searchState) mark(cell Cell, m Mark) {
	if s.overlay != nil {
		s.overlay.Set(cell, m)
	}
}

// pending returns the cells that still have a current entry in the frontier.
func (s *searchState) pending() map[Cell]bool {
	m := make(map[Cell]bool, s.frontier.Len())
	for _, item := range s.frontier {
		if item.FCost-Manhattan(item.Cell, s.end) == s.distance[item.Cell] {
			m[item.Cell] = true
		}
	}
	return m
}

func (s *searchState) result() Result {
	r := Result{
		ExpandedNodes: s.expanded,
		Discovered:    len(s.distance),
		Found:         s.found,
	}
	if s.found {
		r.Path = append([]Cell(nil), s.path...)
		r.Cost = len(s.path) - 1
	}
	return r
}
