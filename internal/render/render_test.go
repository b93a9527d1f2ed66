package render_test

import (
	"bytes"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	astar "github.com/pdrpinto/mazeastar"
	"github.com/pdrpinto/mazeastar/internal/render"
)

func solvedSnapshot(t *testing.T) (astar.OverlaySnapshot, []astar.Cell) {
	t.Helper()
	grid, err := astar.ParseGrid("...\n.#.\n...\n")
	require.NoError(t, err)
	overlay := astar.NewOverlay(grid)
	stepper, err := astar.NewStepper(grid, astar.Cell{X: 0, Y: 0}, astar.Cell{X: 2, Y: 2}, astar.WithOverlay(overlay))
	require.NoError(t, err)
	for !stepper.Done() {
		stepper.Step()
	}
	return overlay.Snapshot(), stepper.Result().Path
}

func TestTerminal_ASCII(t *testing.T) {
	snap, _ := solvedSnapshot(t)
	var buf bytes.Buffer
	term := render.NewTerminalWithProfile(&buf, termenv.Ascii)

	require.NoError(t, term.Draw(snap))

	assert.Equal(t, "***\n+#*\n..*\n", buf.String())
}

func TestTerminal_Color(t *testing.T) {
	snap, _ := solvedSnapshot(t)
	term := render.NewTerminalWithProfile(&bytes.Buffer{}, termenv.TrueColor)

	out := term.Format(snap)

	assert.Contains(t, out, "\x1b[")
	assert.Equal(t, 3, strings.Count(out, "\n"))
}

func TestPNG(t *testing.T) {
	snap, path := solvedSnapshot(t)
	var buf bytes.Buffer

	require.NoError(t, render.PNG(&buf, snap, 10, path))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 30, img.Bounds().Dx())
	assert.Equal(t, 30, img.Bounds().Dy())

	// centre of the blocked cell
	r, g, b, _ := img.At(15, 15).RGBA()
	assert.Equal(t, [3]uint32{0, 0, 0}, [3]uint32{r >> 8, g >> 8, b >> 8})
	// corner of an unexplored open cell
	assert.Equal(t, color.RGBAModel.Convert(astar.Palette[astar.MarkOpen]),
		color.RGBAModel.Convert(img.At(1, 29)))
}
