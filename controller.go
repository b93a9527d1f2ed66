package astar

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pdrpinto/mazeastar/internal/logging"
)

// DefaultPollInterval is how often overlay snapshots are pushed to the overlay
// sink while a visualized search runs.
const DefaultPollInterval = 50 * time.Millisecond

// ControllerOption configures a Controller.
type ControllerOption func(*Controller)

// WithPollInterval sets the overlay push cadence. Non-positive values are ignored.
func WithPollInterval(d time.Duration) ControllerOption {
	return func(c *Controller) {
		if d > 0 {
			c.pollInterval = d
		}
	}
}

// WithOverlaySink sets the callback receiving overlay snapshots. It is called
// from the controller's poller goroutine.
func WithOverlaySink(sink func(OverlaySnapshot)) ControllerOption {
	return func(c *Controller) { c.overlaySink = sink }
}

// WithResultSink sets the callback receiving the outcome of every run that was
// not cancelled. It is called from the worker goroutine while IsRunning is
// still true, so it must not call CancelAndWait or Wait.
func WithResultSink(sink func(Result)) ControllerOption {
	return func(c *Controller) { c.resultSink = sink }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ControllerOption {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMetrics sets the metrics updated by every run.
func WithMetrics(metrics *Metrics) ControllerOption {
	return func(c *Controller) { c.metrics = metrics }
}

// Controller runs at most one search at a time on a background goroutine.
type Controller struct {
	pollInterval time.Duration
	overlaySink  func(OverlaySnapshot)
	resultSink   func(Result)
	logger       *slog.Logger
	metrics      *Metrics

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	running atomic.Bool

	resultMu   sync.Mutex
	lastResult Result
	hasResult  bool
}

// NewController creates an idle controller.
func NewController(options ...ControllerOption) *Controller {
	c := &Controller{
		pollInterval: DefaultPollInterval,
		logger:       logging.NewNop(),
	}
	for _, option := range options {
		option(c)
	}
	return c
}

// Start launches a search on a snapshot of grid. It returns ErrAlreadyRunning
// if a search is active and ErrInvalidEndpoints if start or end cannot be
// used; in both cases nothing is started. With emitVisits the overlay sink
// receives snapshots every poll interval until the run ends.
func (c *Controller) Start(grid Grid, start, end Cell, emitVisits bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.running.Load() {
		c.metrics.count(OutcomeRejected)
		c.logger.Debug("search rejected", "reason", "already running")
		return ErrAlreadyRunning
	}
	if err := ValidateEndpoints(grid, start, end); err != nil {
		c.metrics.count(OutcomeRejected)
		c.logger.Debug("search rejected", "error", err)
		return err
	}

	r := run{
		grid:  Snapshot(grid),
		start: start,
		end:   end,
	}
	if emitVisits {
		r.overlay = NewOverlay(r.grid)
	}

	c.resultMu.Lock()
	c.lastResult, c.hasResult = Result{}, false
	c.resultMu.Unlock()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	c.cancel, c.done = cancel, done
	c.running.Store(true)
	c.metrics.setRunning(true)

	c.logger.Info("search started", "start", start, "end", end, "width", r.grid.Width(), "height", r.grid.Height(), "emit_visits", emitVisits)
	go c.work(ctx, cancel, done, r)
	return nil
}

// CancelAndWait stops the active search, if any, and blocks until its
// goroutines have exited. The result sink is not called for a cancelled run.
func (c *Controller) CancelAndWait() {
	c.mu.Lock()
	cancel, done := c.cancel, c.done
	c.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Wait blocks until the active search, if any, has finished.
func (c *Controller) Wait() {
	c.mu.Lock()
	done := c.done
	c.mu.Unlock()

	if done != nil {
		<-done
	}
}

// IsRunning reports whether a search is active.
func (c *Controller) IsRunning() bool { return c.running.Load() }

// LastResult returns the outcome of the most recent completed run. It is reset
// by Start and stays unset for cancelled runs.
func (c *Controller) LastResult() (Result, bool) {
	c.resultMu.Lock()
	defer c.resultMu.Unlock()
	return c.lastResult, c.hasResult
}
