// Package render draws overlay snapshots for terminals and image files.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"

	astar "github.com/pdrpinto/mazeastar"
)

var glyphs = map[astar.Mark]string{
	astar.MarkBlocked:  "#",
	astar.MarkOpen:     ".",
	astar.MarkExplored: "o",
	astar.MarkFrontier: "+",
	astar.MarkPath:     "*",
}

// Terminal renders snapshots as one glyph per cell, coloured with the overlay
// palette when the profile supports it.
type Terminal struct {
	out     *termenv.Output
	profile termenv.Profile
}

// NewTerminal writes to w. With color false, or when w is not a colour
// terminal, plain ASCII is produced.
func NewTerminal(w io.Writer, color bool) *Terminal {
	out := termenv.NewOutput(w)
	profile := termenv.Ascii
	if color {
		profile = out.EnvColorProfile()
	}
	return &Terminal{out: out, profile: profile}
}

// NewTerminalWithProfile forces a colour profile.
func NewTerminalWithProfile(w io.Writer, profile termenv.Profile) *Terminal {
	return &Terminal{out: termenv.NewOutput(w, termenv.WithProfile(profile)), profile: profile}
}

// Format returns the rendered snapshot.
func (t *Terminal) Format(snap astar.OverlaySnapshot) string {
	var b strings.Builder
	for y := 0; y < snap.Height; y++ {
		for x := 0; x < snap.Width; x++ {
			mark := snap.At(astar.Cell{X: x, Y: y})
			b.WriteString(t.style(mark))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func (t *Terminal) style(mark astar.Mark) string {
	glyph := glyphs[mark]
	if t.profile == termenv.Ascii || mark == astar.MarkOpen {
		return glyph
	}
	c := astar.Palette[mark]
	hex := fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	if mark == astar.MarkBlocked {
		return t.profile.String(glyph).Faint().String()
	}
	return t.profile.String(glyph).Foreground(t.profile.Color(hex)).Bold().String()
}

// Draw writes the snapshot.
func (t *Terminal) Draw(snap astar.OverlaySnapshot) error {
	_, err := io.WriteString(t.out, t.Format(snap))
	return err
}

// Redraw clears the screen and draws the snapshot at the top left, for live
// updates.
func (t *Terminal) Redraw(snap astar.OverlaySnapshot) error {
	t.out.ClearScreen()
	t.out.MoveCursor(1, 1)
	return t.Draw(snap)
}
