package render

import (
	"image"
	"io"

	"github.com/fogleman/gg"

	astar "github.com/pdrpinto/mazeastar"
)

// Image scales the snapshot to cellSize pixels per cell. When path is not
// empty it is traced through the cell centres on top.
func Image(snap astar.OverlaySnapshot, cellSize int, path []astar.Cell) image.Image {
	return drawContext(snap, cellSize, path).Image()
}

// PNG encodes Image to w.
func PNG(w io.Writer, snap astar.OverlaySnapshot, cellSize int, path []astar.Cell) error {
	return drawContext(snap, cellSize, path).EncodePNG(w)
}

// SavePNG writes Image to a file.
func SavePNG(filename string, snap astar.OverlaySnapshot, cellSize int, path []astar.Cell) error {
	return drawContext(snap, cellSize, path).SavePNG(filename)
}

func drawContext(snap astar.OverlaySnapshot, cellSize int, path []astar.Cell) *gg.Context {
	if cellSize < 1 {
		cellSize = 1
	}
	size := float64(cellSize)
	dc := gg.NewContext(snap.Width*cellSize, snap.Height*cellSize)

	for y := 0; y < snap.Height; y++ {
		for x := 0; x < snap.Width; x++ {
			dc.SetColor(astar.Palette[snap.At(astar.Cell{X: x, Y: y})])
			dc.DrawRectangle(float64(x)*size, float64(y)*size, size, size)
			dc.Fill()
		}
	}

	if len(path) > 1 && cellSize >= 4 {
		dc.SetRGB255(0, 120, 0)
		dc.SetLineWidth(size / 4)
		for i, c := range path {
			cx, cy := (float64(c.X)+0.5)*size, (float64(c.Y)+0.5)*size
			if i == 0 {
				dc.MoveTo(cx, cy)
			} else {
				dc.LineTo(cx, cy)
			}
		}
		dc.Stroke()
	}
	return dc
}
