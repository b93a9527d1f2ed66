// Package mazefile loads mazes from ASCII text, PNG level images and JSON
// level catalogs.
package mazefile

import (
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	astar "github.com/pdrpinto/mazeastar"
)

// Maze is a grid with optional start and end markers.
type Maze struct {
	Grid     *astar.BoolGrid
	Start    astar.Cell
	End      astar.Cell
	HasStart bool
	HasEnd   bool
}

// ParseText reads an ASCII maze. 'S' and 'E' mark the start and end cells.
func ParseText(r io.Reader) (Maze, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Maze{}, err
	}
	grid, err := astar.ParseGrid(string(data))
	if err != nil {
		return Maze{}, err
	}
	m := Maze{Grid: grid}

	lines := strings.Split(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n")
	for len(lines) > 0 && strings.TrimSpace(lines[0]) == "" {
		lines = lines[1:]
	}
	for y, line := range lines {
		for x, ch := range []byte(line) {
			switch ch {
			case 'S':
				if m.HasStart {
					return Maze{}, fmt.Errorf("more than one start marker")
				}
				m.Start, m.HasStart = astar.Cell{X: x, Y: y}, true
			case 'E':
				if m.HasEnd {
					return Maze{}, fmt.Errorf("more than one end marker")
				}
				m.End, m.HasEnd = astar.Cell{X: x, Y: y}, true
			}
		}
	}
	return m, nil
}

var floor = color.RGBA{R: 255, G: 255, B: 255, A: 255}

// FromImage maps one pixel to one cell. Only pure white pixels are open; every
// other colour, lasers included, is blocked.
func FromImage(img image.Image) *astar.BoolGrid {
	b := img.Bounds()
	grid := astar.NewBoolGrid(b.Dx(), b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
			if c == floor {
				grid.SetOpen(astar.Cell{X: x - b.Min.X, Y: y - b.Min.Y}, true)
			}
		}
	}
	return grid
}

// LoadImage decodes a PNG level image.
func LoadImage(path string) (*astar.BoolGrid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return FromImage(img), nil
}

// LoadFile loads a .png image or an ASCII text maze depending on the extension.
func LoadFile(path string) (Maze, error) {
	if strings.EqualFold(filepath.Ext(path), ".png") {
		grid, err := LoadImage(path)
		if err != nil {
			return Maze{}, err
		}
		return Maze{Grid: grid}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return Maze{}, err
	}
	defer f.Close()
	return ParseText(f)
}

// Level is one catalog entry.
type Level struct {
	Name      string `json:"name"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	ImagePath string `json:"image_path"`
	Start     [2]int `json:"start"`
	End       [2]int `json:"end"`
}

// Catalog is a set of levels keyed by name, read from a levels.json file.
type Catalog struct {
	dir    string
	Levels map[string]Level
}

// LoadCatalog reads a level catalog. Image paths are resolved relative to the
// catalog's directory.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	levels := make(map[string]Level)
	if err := json.Unmarshal(data, &levels); err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}
	return &Catalog{dir: filepath.Dir(path), Levels: levels}, nil
}

// Names returns the level names in sorted order.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.Levels))
	for name := range c.Levels {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Load opens the image of the named level and checks it against the
// declared size.
func (c *Catalog) Load(name string) (Maze, error) {
	level, ok := c.Levels[name]
	if !ok {
		return Maze{}, fmt.Errorf("level %q not found", name)
	}
	path := level.ImagePath
	if !filepath.IsAbs(path) {
		path = filepath.Join(c.dir, path)
	}
	grid, err := LoadImage(path)
	if err != nil {
		return Maze{}, err
	}
	if grid.Width() != level.Width || grid.Height() != level.Height {
		return Maze{}, fmt.Errorf("level %q: image is %dx%d, catalog says %dx%d",
			name, grid.Width(), grid.Height(), level.Width, level.Height)
	}
	return Maze{
		Grid:     grid,
		Start:    astar.Cell{X: level.Start[0], Y: level.Start[1]},
		End:      astar.Cell{X: level.End[0], Y: level.End[1]},
		HasStart: true,
		HasEnd:   true,
	}, nil
}
