package astar

// StepSnapshot exposes the per-iteration state of the search
type StepSnapshot struct {
	Current   Cell
	Frontier  map[Cell]bool
	Expanded  map[Cell]bool
	Done      bool
	Found     bool
	Path      []Cell
	StepIndex int
}

// Stepper advances a search one expansion at a time.
type Stepper struct {
	state     *searchState
	stepCount int
}

// NewStepper validates the endpoints and prepares a search without running it.
func NewStepper(grid Grid, start, end Cell, options ...Option) (*Stepper, error) {
	opts := Options{}
	for _, o := range options {
		o(&opts)
	}
	if err := ValidateEndpoints(grid, start, end); err != nil {
		return nil, err
	}
	return &Stepper{state: newSearchState(grid, start, end, opts.Overlay)}, nil
}

// Step expands the next current frontier entry, skipping stale ones, and
// returns a snapshot. Once the search is done further calls return the final
// snapshot without advancing.
func (s *Stepper) Step() StepSnapshot {
	if !s.state.done {
		s.stepCount++
		for !s.state.done {
			if s.state.step() {
				break
			}
		}
	}
	return s.snapshot()
}

// Done reports whether the search has finished.
func (s *Stepper) Done() bool { return s.state.done }

// Result returns the outcome so far. It is only meaningful once Done is true.
func (s *Stepper) Result() Result { return s.state.result() }

func (s *Stepper) snapshot() StepSnapshot {
	snap := StepSnapshot{
		Current:   s.state.current,
		Frontier:  s.state.pending(),
		Expanded:  copyBoolMap(s.state.closed),
		Done:      s.state.done,
		Found:     s.state.found,
		StepIndex: s.stepCount,
	}
	if s.state.found {
		snap.Path = append([]Cell(nil), s.state.path...)
	}
	return snap
}

func copyBoolMap[T comparable](m map[T]bool) map[T]bool {
	if m == nil {
		return nil
	}
	c := make(map[T]bool, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}
