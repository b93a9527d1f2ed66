// Package astar provides a shortest-path engine for 2-D maze grids.
//
// It exposes three entry points:
//
//   - Search: run A* to completion and get a Result.
//   - Stepper: advance the search one expansion at a time to drive UIs or debugging tools.
//   - Controller: run a search on a background goroutine that can be cancelled and joined,
//     streaming overlay snapshots to a display while it works.
//
// The engine uses a Manhattan heuristic with uniform step cost and four-way movement.
// Ties between equal-cost frontier entries are broken in favour of the most recently
// pushed entry, and neighbours are visited in a checkerboard-alternating order, so the
// path returned for a given grid is always the same.
package astar
