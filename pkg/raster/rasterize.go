package raster

import (
	"math"

	"github.com/matzehuels/gridtile/pkg/grid"
)

// Rasterize paints g into a new canvas of cfg.Geometry(g.Rows(), g.Cols()).
// Cells in circled (padded coordinates) get a ring in cfg.Line.
func Rasterize(g *grid.Grid, circled grid.CellSet, cfg Config) *Canvas {
	geo := cfg.Geometry(g.Rows(), g.Cols())
	cv := NewCanvas(geo.Height, geo.Width, cfg.Line)

	ring := RingMask(cfg.CellSize, cfg.GridLine)
	block := newTile(cfg.CellSize, cfg.Fill, nil, cfg.Line)
	open := newTile(cfg.CellSize, cfg.Background, nil, cfg.Line)
	blockRing := newTile(cfg.CellSize, cfg.Fill, ring, cfg.Line)
	openRing := newTile(cfg.CellSize, cfg.Background, ring, cfg.Line)

	for r := range g.Rows() {
		for c := range g.Cols() {
			marked := circled.Has(grid.Point{Row: r, Col: c})
			var tile *Canvas
			switch {
			case g.At(r, c).IsBlock() && marked:
				tile = blockRing
			case g.At(r, c).IsBlock():
				tile = block
			case marked:
				tile = openRing
			default:
				tile = open
			}
			cv.Blit(tile, cfg.Offset(r), cfg.Offset(c))
		}
	}
	return cv
}

// Tile renders a single cell of the given base color, with a ring if marked.
func Tile(base Color, marked bool, cfg Config) *Canvas {
	var ring []bool
	if marked {
		ring = RingMask(cfg.CellSize, cfg.GridLine)
	}
	return newTile(cfg.CellSize, base, ring, cfg.Line)
}

func newTile(size int, base Color, ring []bool, line Color) *Canvas {
	t := NewCanvas(size, size, base)
	for i, on := range ring {
		if on {
			t.SetPixel(i/size, i%size, line)
		}
	}
	return t
}

// RingMask returns a size×size row-major mask of the circle drawn on marked
// cells. A pixel is on the ring when its floored distance to the tile
// center (size/2, size/2) differs from size/2 by less than width/2.
func RingMask(size, width int) []bool {
	mask := make([]bool, size*size)
	origin := size / 2
	half := float64(width) / 2
	for i := range size {
		for j := range size {
			di, dj := float64(i-origin), float64(j-origin)
			dist := math.Floor(math.Sqrt(di*di + dj*dj))
			if math.Abs(dist-float64(origin)) < half {
				mask[i*size+j] = true
			}
		}
	}
	return mask
}
