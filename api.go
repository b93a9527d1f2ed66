package astar

import (
	"context"
	"fmt"
)

// Result contains the outcome of a search. Found is false for the
// unreachable outcome, in which case Path is nil.
type Result struct {
	Path          []Cell
	Cost          int
	ExpandedNodes int
	Discovered    int
	Found         bool
}

// Options defines parameters for the search.
type Options struct {
	Overlay *Overlay
}

// Option is a function that modifies Options.
type Option func(*Options)

// WithOverlay makes the search record explored, frontier and path cells into overlay.
func WithOverlay(overlay *Overlay) Option {
	return func(options *Options) { options.Overlay = overlay }
}

// ValidateEndpoints checks that start and end are in bounds and open.
func ValidateEndpoints(grid Grid, start, end Cell) error {
	for _, c := range [2]Cell{start, end} {
		if !InBounds(grid, c) {
			return fmt.Errorf("%w: %v is outside the %dx%d grid", ErrInvalidEndpoints, c, grid.Width(), grid.Height())
		}
		if !grid.IsOpen(c) {
			return fmt.Errorf("%w: %v is blocked", ErrInvalidEndpoints, c)
		}
	}
	return nil
}

// Search runs A* from start to end. A nil error with Found false means end is
// unreachable. If ctx is cancelled the search stops at the next frontier pop
// and returns ctx.Err() with an empty Result.
func Search(
	ctx context.Context,
	grid Grid,
	start Cell,
	end Cell,
	options ...Option,
) (Result, error) {
	searchOptions := Options{}
	for _, option := range options {
		option(&searchOptions)
	}

	if err := ValidateEndpoints(grid, start, end); err != nil {
		return Result{}, err
	}

	state := newSearchState(grid, start, end, searchOptions.Overlay)
	for !state.done {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		state.step()
	}
	return state.result(), nil
}
