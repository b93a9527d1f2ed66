package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	astar "github.com/pdrpinto/mazeastar"
	"github.com/pdrpinto/mazeastar/internal/mazefile"
	"github.com/pdrpinto/mazeastar/internal/render"
)

var errUnsolvable = errors.New("maze is not solvable")

var solveCmd = &cobra.Command{
	Use:   "solve",
	Short: "Find the shortest path through a maze",
	Long: `Loads a maze from an ASCII file (--maze), a PNG image (--maze file.png) or a level
catalog (--catalog levels.json --level name) and prints the shortest path.`,
	RunE: runSolve,
}

func init() {
	rootCmd.AddCommand(solveCmd)
	solveCmd.Flags().String("maze", "", "ASCII or PNG maze file")
	solveCmd.Flags().String("catalog", "", "JSON level catalog")
	solveCmd.Flags().String("level", "", "Level name inside --catalog")
	solveCmd.Flags().String("start", "", "Start cell as x,y (overrides the maze's marker)")
	solveCmd.Flags().String("end", "", "End cell as x,y (overrides the maze's marker)")
	solveCmd.Flags().Bool("show-search", false, "Redraw the search frontier live while solving")
	solveCmd.Flags().Bool("no-color", false, "Disable coloured terminal output")
	solveCmd.Flags().String("png", "", "Write the final overlay to this PNG file")
}

func runSolve(cmd *cobra.Command, args []string) error {
	maze, err := loadMaze(cmd)
	if err != nil {
		return err
	}
	start, end, err := endpoints(cmd, maze)
	if err != nil {
		return err
	}

	showSearch, _ := cmd.Flags().GetBool("show-search")
	noColor, _ := cmd.Flags().GetBool("no-color")
	pngPath, _ := cmd.Flags().GetString("png")

	stdout := cmd.OutOrStdout()
	live := showSearch
	if f, ok := stdout.(*os.File); !ok || !term.IsTerminal(int(f.Fd())) {
		live = false
	}
	terminal := render.NewTerminal(stdout, cfg.Render.Color && !noColor)

	var (
		mu     sync.Mutex
		latest astar.OverlaySnapshot
	)
	results := make(chan astar.Result, 1)
	controller := astar.NewController(
		astar.WithLogger(logger),
		astar.WithPollInterval(cfg.PollInterval),
		astar.WithOverlaySink(func(snap astar.OverlaySnapshot) {
			mu.Lock()
			latest = snap
			mu.Unlock()
			if live {
				_ = terminal.Redraw(snap)
			}
		}),
		astar.WithResultSink(func(r astar.Result) { results <- r }),
	)

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(interrupt)

	began := time.Now()
	if err := controller.Start(maze.Grid, start, end, true); err != nil {
		return err
	}

	finished := make(chan struct{})
	go func() {
		controller.Wait()
		close(finished)
	}()
	select {
	case <-finished:
	case <-interrupt:
		logger.Info("received interrupt signal, cancelling search")
		controller.CancelAndWait()
		return errors.New("search cancelled")
	}
	elapsed := time.Since(began)

	var result astar.Result
	select {
	case result = <-results:
	default:
		return errors.New("search ended without a result")
	}

	mu.Lock()
	final := latest
	mu.Unlock()

	if live {
		err = terminal.Redraw(final)
	} else {
		err = terminal.Draw(final)
	}
	if err != nil {
		return err
	}
	if pngPath != "" {
		if err := render.SavePNG(pngPath, final, cfg.Render.CellSize, result.Path); err != nil {
			return fmt.Errorf("write png: %w", err)
		}
	}

	if !result.Found {
		fmt.Fprintf(stdout, "no path from %v to %v (%d cells expanded, %.2fs)\n", start, end, result.ExpandedNodes, elapsed.Seconds())
		return errUnsolvable
	}
	fmt.Fprintf(stdout, "path found: cost %d, %d cells expanded, %.2fs\n", result.Cost, result.ExpandedNodes, elapsed.Seconds())
	return nil
}

func loadMaze(cmd *cobra.Command) (mazefile.Maze, error) {
	mazePath, _ := cmd.Flags().GetString("maze")
	catalogPath, _ := cmd.Flags().GetString("catalog")
	level, _ := cmd.Flags().GetString("level")

	switch {
	case mazePath != "" && catalogPath != "":
		return mazefile.Maze{}, errors.New("use either --maze or --catalog, not both")
	case mazePath != "":
		return mazefile.LoadFile(mazePath)
	case catalogPath != "":
		catalog, err := mazefile.LoadCatalog(catalogPath)
		if err != nil {
			return mazefile.Maze{}, err
		}
		if level == "" {
			return mazefile.Maze{}, fmt.Errorf("--level is required; available: %s", strings.Join(catalog.Names(), ", "))
		}
		return catalog.Load(level)
	default:
		return mazefile.Maze{}, errors.New("one of --maze or --catalog is required")
	}
}

func endpoints(cmd *cobra.Command, maze mazefile.Maze) (astar.Cell, astar.Cell, error) {
	start, end := maze.Start, maze.End
	hasStart, hasEnd := maze.HasStart, maze.HasEnd

	if s, _ := cmd.Flags().GetString("start"); s != "" {
		c, err := parseCell(s)
		if err != nil {
			return start, end, fmt.Errorf("--start: %w", err)
		}
		start, hasStart = c, true
	}
	if s, _ := cmd.Flags().GetString("end"); s != "" {
		c, err := parseCell(s)
		if err != nil {
			return start, end, fmt.Errorf("--end: %w", err)
		}
		end, hasEnd = c, true
	}
	if !hasStart || !hasEnd {
		return start, end, errors.New("start and end cells are required (markers S/E or --start/--end)")
	}
	return start, end, nil
}

func parseCell(s string) (astar.Cell, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return astar.Cell{}, fmt.Errorf("want x,y, got %q", s)
	}
	x, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return astar.Cell{}, err
	}
	y, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return astar.Cell{}, err
	}
	return astar.Cell{X: x, Y: y}, nil
}
