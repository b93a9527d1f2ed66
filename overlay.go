package astar

import (
	"image"
	"image/color"
	"sync"
)

// Mark is the display state of one overlay cell.
type Mark uint8

const (
	MarkBlocked Mark = iota
	MarkOpen
	MarkExplored
	MarkFrontier
	MarkPath
)

func (m Mark) String() string {
	switch m {
	case MarkBlocked:
		return "blocked"
	case MarkOpen:
		return "open"
	case MarkExplored:
		return "explored"
	case MarkFrontier:
		return "frontier"
	case MarkPath:
		return "path"
	default:
		return "unknown"
	}
}

// Palette maps marks to display colours.
var Palette = map[Mark]color.RGBA{
	MarkBlocked:  {R: 0, G: 0, B: 0, A: 255},
	MarkOpen:     {R: 255, G: 255, B: 255, A: 255},
	MarkExplored: {R: 255, G: 182, B: 193, A: 255},
	MarkFrontier: {R: 180, G: 0, B: 255, A: 255},
	MarkPath:     {R: 0, G: 255, B: 0, A: 255},
}

// Overlay is the visualization buffer written by a running search. Writers and
// readers may be on different goroutines; readers only ever see copies.
type Overlay struct {
	mu      sync.Mutex
	width   int
	height  int
	marks   []Mark
	version uint64
}

// NewOverlay initialises an overlay from the open/blocked state of grid.
func NewOverlay(grid Grid) *Overlay {
	o := &Overlay{width: grid.Width(), height: grid.Height()}
	o.marks = make([]Mark, o.width*o.height)
	for y := 0; y < o.height; y++ {
		for x := 0; x < o.width; x++ {
			if grid.IsOpen(Cell{X: x, Y: y}) {
				o.marks[y*o.width+x] = MarkOpen
			}
		}
	}
	return o
}

// Set overwrites the mark of cell.
func (o *Overlay) Set(cell Cell, mark Mark) {
	if cell.X < 0 || cell.X >= o.width || cell.Y < 0 || cell.Y >= o.height {
		return
	}
	o.mu.Lock()
	o.marks[cell.Y*o.width+cell.X] = mark
	o.version++
	o.mu.Unlock()
}

// Snapshot returns a copy of the current buffer.
func (o *Overlay) Snapshot() OverlaySnapshot {
	o.mu.Lock()
	defer o.mu.Unlock()
	marks := make([]Mark, len(o.marks))
	copy(marks, o.marks)
	return OverlaySnapshot{Width: o.width, Height: o.height, Marks: marks, Version: o.version}
}

// OverlaySnapshot is an immutable copy of an Overlay. Version increases with
// every write to the source overlay.
type OverlaySnapshot struct {
	Width   int
	Height  int
	Marks   []Mark
	Version uint64
}

// At returns the mark of cell, or MarkBlocked outside the buffer.
func (s OverlaySnapshot) At(cell Cell) Mark {
	if cell.X < 0 || cell.X >= s.Width || cell.Y < 0 || cell.Y >= s.Height {
		return MarkBlocked
	}
	return s.Marks[cell.Y*s.Width+cell.X]
}

// Counts tallies cells per mark.
func (s OverlaySnapshot) Counts() map[Mark]int {
	counts := make(map[Mark]int)
	for _, m := range s.Marks {
		counts[m]++
	}
	return counts
}

// Image renders one pixel per cell using Palette.
func (s OverlaySnapshot) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, s.Width, s.Height))
	for y := 0; y < s.Height; y++ {
		for x := 0; x < s.Width; x++ {
			img.SetRGBA(x, y, Palette[s.Marks[y*s.Width+x]])
		}
	}
	return img
}
