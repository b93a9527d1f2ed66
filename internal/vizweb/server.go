// Package vizweb serves a step-by-step A* visualizer over HTTP.
package vizweb

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	astar "github.com/pdrpinto/mazeastar"
	"github.com/pdrpinto/mazeastar/internal/render"
)

// Server holds the current board and its stepper.
type Server struct {
	logger     *slog.Logger
	registry   *prometheus.Registry
	controller *astar.Controller
	cellSize   int

	mu      sync.Mutex
	grid    *astar.BoolGrid
	start   astar.Cell
	goal    astar.Cell
	overlay *astar.Overlay
	stepper *astar.Stepper
}

// NewServer creates a server with a board built from DefaultMazeParams.
func NewServer(logger *slog.Logger, pollInterval time.Duration, cellSize int) *Server {
	registry := prometheus.NewRegistry()
	s := &Server{
		logger:   logger,
		registry: registry,
		cellSize: cellSize,
		controller: astar.NewController(
			astar.WithLogger(logger),
			astar.WithMetrics(astar.NewMetrics(registry)),
			astar.WithPollInterval(pollInterval),
		),
	}
	s.reset(DefaultMazeParams())
	return s
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(indexHTML))
	})
	r.Route("/api", func(r chi.Router) {
		r.Post("/init", s.handleInit)
		r.Get("/next", s.handleNext)
		r.Get("/solve", s.handleSolve)
		r.Get("/overlay.png", s.handleOverlay)
	})
	r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	return r
}

// Close cancels any running solve.
func (s *Server) Close() {
	s.controller.CancelAndWait()
}

func (s *Server) reset(p MazeParams) {
	grid, start, goal := GenerateMaze(p)
	overlay := astar.NewOverlay(grid)
	// endpoints are cleared by GenerateMaze so this cannot fail
	stepper, _ := astar.NewStepper(grid, start, goal, astar.WithOverlay(overlay))

	s.mu.Lock()
	s.grid, s.start, s.goal = grid, start, goal
	s.overlay, s.stepper = overlay, stepper
	s.mu.Unlock()
}

type point [2]int

func toPoint(c astar.Cell) point { return point{c.X, c.Y} }

func toPoints(cells []astar.Cell) []point {
	res := make([]point, 0, len(cells))
	for _, c := range cells {
		res = append(res, toPoint(c))
	}
	return res
}

func setToPoints(m map[astar.Cell]bool) []point {
	res := make([]point, 0, len(m))
	for c, ok := range m {
		if ok {
			res = append(res, toPoint(c))
		}
	}
	return res
}

type initResponse struct {
	OK    bool  `json:"ok"`
	W     int   `json:"w"`
	H     int   `json:"h"`
	Start point `json:"start"`
	Goal  point `json:"goal"`
}

type snapshot struct {
	Step     int     `json:"step"`
	W        int     `json:"w"`
	H        int     `json:"h"`
	Walls    []point `json:"walls"`
	Frontier []point `json:"frontier,omitempty"`
	Expanded []point `json:"expanded,omitempty"`
	Current  point   `json:"current"`
	Start    point   `json:"start"`
	Goal     point   `json:"goal"`
	Done     bool    `json:"done"`
	Found    bool    `json:"found"`
	Path     []point `json:"path,omitempty"`
}

type solveResponse struct {
	Found           bool    `json:"found"`
	Cost            int     `json:"cost"`
	ExpandedNodes   int     `json:"expandedNodes"`
	Path            []point `json:"path,omitempty"`
	ExecutionTimeMs float64 `json:"executionTimeMs"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) handleInit(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	p := DefaultMazeParams()
	p.Seed = time.Now().UnixNano()
	if v, err := strconv.Atoi(q.Get("w")); err == nil && v > 4 {
		p.Width = v
	}
	if v, err := strconv.Atoi(q.Get("h")); err == nil && v > 4 {
		p.Height = v
	}
	if v, err := strconv.Atoi(q.Get("clusters")); err == nil && v > 0 {
		p.Clusters = v
	}
	if v, err := strconv.Atoi(q.Get("steps")); err == nil && v > 0 {
		p.Steps = v
	}
	if v, err := strconv.ParseFloat(q.Get("density"), 64); err == nil && v >= 0 && v <= 1 {
		p.Density = v
	}
	if v, err := strconv.ParseInt(q.Get("seed"), 10, 64); err == nil {
		p.Seed = v
	}

	s.reset(p)
	s.logger.Info("board reset", "w", p.Width, "h", p.Height, "seed", p.Seed)

	s.mu.Lock()
	resp := initResponse{OK: true, W: p.Width, H: p.Height, Start: toPoint(s.start), Goal: toPoint(s.goal)}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleNext(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.stepper.Step()
	resp := snapshot{
		Step:     st.StepIndex,
		W:        s.grid.Width(),
		H:        s.grid.Height(),
		Walls:    walls(s.grid),
		Frontier: setToPoints(st.Frontier),
		Expanded: setToPoints(st.Expanded),
		Current:  toPoint(st.Current),
		Start:    toPoint(s.start),
		Goal:     toPoint(s.goal),
		Done:     st.Done,
		Found:    st.Found,
	}
	if st.Found {
		resp.Path = toPoints(st.Path)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSolve(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	grid, start, goal := s.grid, s.start, s.goal
	s.mu.Unlock()

	began := time.Now()
	if err := s.controller.Start(grid, start, goal, false); err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, astar.ErrAlreadyRunning) {
			status = http.StatusConflict
		}
		writeJSON(w, status, errorResponse{Error: err.Error()})
		return
	}

	finished := make(chan struct{})
	go func() {
		s.controller.Wait()
		close(finished)
	}()
	select {
	case <-finished:
	case <-r.Context().Done():
		s.controller.CancelAndWait()
		return
	}

	result, ok := s.controller.LastResult()
	if !ok {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "search cancelled"})
		return
	}
	writeJSON(w, http.StatusOK, solveResponse{
		Found:           result.Found,
		Cost:            result.Cost,
		ExpandedNodes:   result.ExpandedNodes,
		Path:            toPoints(result.Path),
		ExecutionTimeMs: time.Since(began).Seconds() * 1000,
	})
}

func (s *Server) handleOverlay(w http.ResponseWriter, r *http.Request) {
	size := s.cellSize
	if v, err := strconv.Atoi(r.URL.Query().Get("cell")); err == nil && v > 0 && v <= 64 {
		size = v
	}

	s.mu.Lock()
	snap := s.overlay.Snapshot()
	var path []astar.Cell
	if s.stepper.Done() {
		path = s.stepper.Result().Path
	}
	s.mu.Unlock()

	w.Header().Set("Content-Type", "image/png")
	if err := render.PNG(w, snap, size, path); err != nil {
		s.logger.Error("encode overlay", "error", err)
	}
}

func walls(grid *astar.BoolGrid) []point {
	var res []point
	for y := 0; y < grid.Height(); y++ {
		for x := 0; x < grid.Width(); x++ {
			if !grid.IsOpen(astar.Cell{X: x, Y: y}) {
				res = append(res, point{x, y})
			}
		}
	}
	return res
}

const indexHTML = `<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8" /><title>mazeastar</title></head>
<body>
<button onclick="fetch('/api/init', {method: 'POST'}).then(refresh)">New maze</button>
<button id="run">Run</button>
<div id="status"></div>
<img id="board" src="/api/overlay.png" style="image-rendering: pixelated" />
<script>
let timer = null;
function refresh() { document.getElementById('board').src = '/api/overlay.png?t=' + Date.now(); }
document.getElementById('run').onclick = () => {
  if (timer) return;
  timer = setInterval(async () => {
    const s = await (await fetch('/api/next')).json();
    document.getElementById('status').textContent = 'step ' + s.step + (s.done ? (s.found ? ' - found' : ' - unreachable') : '');
    refresh();
    if (s.done) { clearInterval(timer); timer = null; }
  }, 50);
};
</script>
</body>
</html>
`
