package astar

import (
	"context"
	"time"
)

// run is the input of one controller search.
type run struct {
	grid    *BoolGrid
	start   Cell
	end     Cell
	overlay *Overlay
}

// work is the body of the controller's worker goroutine.
func (c *Controller) work(ctx context.Context, cancel context.CancelFunc, done chan struct{}, r run) {
	defer close(done)
	defer c.finish()
	defer cancel()

	searchDone := make(chan struct{})
	var pollerDone chan struct{}
	if r.overlay != nil {
		pollerDone = make(chan struct{})
		go c.poll(ctx, r.overlay, searchDone, pollerDone)
	}

	var options []Option
	if r.overlay != nil {
		options = append(options, WithOverlay(r.overlay))
	}

	began := time.Now()
	result, err := Search(ctx, r.grid, r.start, r.end, options...)
	elapsed := time.Since(began)

	close(searchDone)
	if pollerDone != nil {
		<-pollerDone
	}

	if err != nil || ctx.Err() != nil {
		c.metrics.count(OutcomeCancelled)
		c.logger.Info("search cancelled", "elapsed", elapsed)
		return
	}

	c.metrics.observe(result, elapsed)
	if result.Found {
		c.logger.Info("path found", "cost", result.Cost, "expanded", result.ExpandedNodes, "elapsed", elapsed)
	} else {
		c.logger.Info("maze not solvable", "expanded", result.ExpandedNodes, "elapsed", elapsed)
	}

	c.resultMu.Lock()
	c.lastResult, c.hasResult = result, true
	c.resultMu.Unlock()

	if c.resultSink != nil {
		c.resultSink(result)
	}
}

func (c *Controller) finish() {
	c.running.Store(false)
	c.metrics.setRunning(false)
}

// poll pushes overlay snapshots at the poll interval until the search ends,
// then pushes one last snapshot unless the run was cancelled.
func (c *Controller) poll(ctx context.Context, overlay *Overlay, searchDone <-chan struct{}, pollerDone chan<- struct{}) {
	defer close(pollerDone)

	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	push := func() {
		if c.overlaySink != nil {
			c.overlaySink(overlay.Snapshot())
		}
	}

	for {
		select {
		case <-searchDone:
			if ctx.Err() == nil {
				push()
			}
			return
		case <-ticker.C:
			push()
		}
	}
}
