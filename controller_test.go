package astar

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sealedGrid is a large open grid whose end cell is walled off, so a search
// has to exhaust every reachable cell before giving up.
func sealedGrid(size int) (*BoolGrid, Cell, Cell) {
	g := NewOpenGrid(size, size)
	end := Cell{size - 1, size - 1}
	g.SetOpen(end.Add(-1, 0), false)
	g.SetOpen(end.Add(0, -1), false)
	return g, Cell{0, 0}, end
}

func TestController_ReportsResult(t *testing.T) {
	results := make(chan Result, 1)
	c := NewController(WithResultSink(func(r Result) {
		results <- r
	}))

	require.NoError(t, c.Start(mustGrid(t, "...\n.#.\n...\n"), Cell{0, 0}, Cell{2, 2}, false))
	c.Wait()

	assert.False(t, c.IsRunning())
	select {
	case r := <-results:
		assert.Equal(t, []Cell{{0, 0}, {1, 0}, {2, 0}, {2, 1}, {2, 2}}, r.Path)
	default:
		t.Fatal("result sink was not called")
	}
	last, ok := c.LastResult()
	assert.True(t, ok)
	assert.Equal(t, 4, last.Cost)
}

func TestController_ReportsUnreachable(t *testing.T) {
	var got []Result
	c := NewController(WithResultSink(func(r Result) { got = append(got, r) }))

	require.NoError(t, c.Start(mustGrid(t, ".#.\n"), Cell{0, 0}, Cell{2, 0}, false))
	c.Wait()

	require.Len(t, got, 1)
	assert.False(t, got[0].Found)
}

func TestController_RejectsSecondStart(t *testing.T) {
	var calls atomic.Int32
	c := NewController(WithResultSink(func(Result) { calls.Add(1) }))
	grid, start, end := sealedGrid(1000)

	require.NoError(t, c.Start(grid, start, end, false))
	assert.True(t, c.IsRunning())

	err := c.Start(grid, start, end, false)
	assert.ErrorIs(t, err, ErrAlreadyRunning)

	c.CancelAndWait()
	assert.False(t, c.IsRunning())
	assert.Zero(t, calls.Load())
}

func TestController_CancelIsPrompt(t *testing.T) {
	var calls atomic.Int32
	c := NewController(
		WithResultSink(func(Result) { calls.Add(1) }),
		WithOverlaySink(func(OverlaySnapshot) {}),
	)
	grid, start, end := sealedGrid(1000)

	require.NoError(t, c.Start(grid, start, end, true))
	began := time.Now()
	c.CancelAndWait()

	assert.Less(t, time.Since(began), 2*time.Second)
	assert.False(t, c.IsRunning())
	assert.Zero(t, calls.Load())
	_, ok := c.LastResult()
	assert.False(t, ok)
}

func TestController_CancelWhenIdle(t *testing.T) {
	c := NewController()
	c.CancelAndWait()
	c.Wait()
	assert.False(t, c.IsRunning())
}

func TestController_InvalidEndpoints(t *testing.T) {
	c := NewController()

	err := c.Start(mustGrid(t, "#.\n"), Cell{0, 0}, Cell{1, 0}, false)

	assert.ErrorIs(t, err, ErrInvalidEndpoints)
	assert.False(t, c.IsRunning())
}

func TestController_RestartsAfterCompletion(t *testing.T) {
	c := NewController()
	grid := NewOpenGrid(5, 5)

	require.NoError(t, c.Start(grid, Cell{0, 0}, Cell{4, 4}, false))
	c.Wait()
	require.NoError(t, c.Start(grid, Cell{4, 4}, Cell{0, 0}, false))
	c.Wait()

	last, ok := c.LastResult()
	require.True(t, ok)
	assert.Equal(t, Cell{4, 4}, last.Path[0])
}

func TestController_OverlayUpdates(t *testing.T) {
	var (
		mu    sync.Mutex
		snaps []OverlaySnapshot
	)
	c := NewController(
		WithPollInterval(time.Millisecond),
		WithOverlaySink(func(s OverlaySnapshot) {
			mu.Lock()
			snaps = append(snaps, s)
			mu.Unlock()
		}),
	)

	require.NoError(t, c.Start(mustGrid(t, "...\n.#.\n...\n"), Cell{0, 0}, Cell{2, 2}, true))
	c.Wait()

	mu.Lock()
	defer mu.Unlock()
	require.NotEmpty(t, snaps)
	final := snaps[len(snaps)-1]
	assert.Equal(t, 5, final.Counts()[MarkPath])
	for i := 1; i < len(snaps); i++ {
		assert.GreaterOrEqual(t, snaps[i].Version, snaps[i-1].Version)
	}
}

func TestController_NoOverlayWithoutEmitVisits(t *testing.T) {
	var calls atomic.Int32
	c := NewController(
		WithPollInterval(time.Millisecond),
		WithOverlaySink(func(OverlaySnapshot) { calls.Add(1) }),
	)

	require.NoError(t, c.Start(NewOpenGrid(20, 20), Cell{0, 0}, Cell{19, 19}, false))
	c.Wait()

	assert.Zero(t, calls.Load())
}

func TestController_UsesGridSnapshot(t *testing.T) {
	results := make(chan Result, 1)
	c := NewController(WithResultSink(func(r Result) { results <- r }))
	grid := NewOpenGrid(200, 200)

	require.NoError(t, c.Start(grid, Cell{0, 0}, Cell{199, 199}, false))
	for y := 0; y < 200; y++ {
		for x := 0; x < 200; x++ {
			grid.SetOpen(Cell{x, y}, false)
		}
	}
	c.Wait()

	r := <-results
	assert.True(t, r.Found)
	assert.Equal(t, 398, r.Cost)
}

func TestController_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)
	c := NewController(WithMetrics(metrics))

	require.NoError(t, c.Start(NewOpenGrid(3, 3), Cell{0, 0}, Cell{2, 2}, false))
	c.Wait()
	require.NoError(t, c.Start(mustGrid(t, ".#.\n"), Cell{0, 0}, Cell{2, 0}, false))
	c.Wait()
	assert.Error(t, c.Start(mustGrid(t, ".#.\n"), Cell{1, 0}, Cell{2, 0}, false))

	grid, start, end := sealedGrid(1000)
	require.NoError(t, c.Start(grid, start, end, false))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Running))
	c.CancelAndWait()

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Searches.WithLabelValues(OutcomeFound)))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Searches.WithLabelValues(OutcomeUnreachable)))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Searches.WithLabelValues(OutcomeRejected)))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Searches.WithLabelValues(OutcomeCancelled)))
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.Running))
	assert.Equal(t, 4, testutil.CollectAndCount(metrics.Searches))
}
