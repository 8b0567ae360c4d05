package pipeline

import (
	"github.com/matzehuels/gridtile/pkg/errors"
	"github.com/matzehuels/gridtile/pkg/grid"
	"github.com/matzehuels/gridtile/pkg/raster"
)

// Layout is everything about a drawing that can be known without touching
// pixels.
type Layout struct {
	Normalized grid.Normalized
	Circled    grid.CellSet
	Stale      []int
	Geometry   raster.Geometry
}

// Side returns the edge of the squared image.
func (l Layout) Side() int { return l.Geometry.Side() }

// Drawing is the in-memory result of [Draw].
type Drawing struct {
	Layout
	Canvas *raster.Canvas // always square
}

// Plan validates p and computes its layout: the normalized grid, the
// circled cells in padded coordinates and the pixel geometry.
//
// Grids whose longer side squared exceeds maxCells are rejected with
// INVALID_DIMENSIONS before anything is padded or allocated. maxCells <= 0
// means [DefaultMaxCells].
func Plan(p grid.Puzzle, cfg raster.Config, maxCells int) (Layout, error) {
	if err := cfg.Validate(); err != nil {
		return Layout{}, err
	}
	g, err := p.Grid()
	if err != nil {
		return Layout{}, err
	}
	if maxCells <= 0 {
		maxCells = DefaultMaxCells
	}
	if side := max(g.Rows(), g.Cols()); side > maxCells/side {
		return Layout{}, errors.New(errors.ErrCodeInvalidDimensions,
			"%dx%d grid pads to %dx%d cells, limit is %d", g.Rows(), g.Cols(), side, side, maxCells)
	}
	n := grid.Normalize(g)
	circled, stale := n.Circled(p.Markup())
	return Layout{
		Normalized: n,
		Circled:    circled,
		Stale:      stale,
		Geometry:   cfg.Geometry(n.Rows(), n.Cols()),
	}, nil
}

// Draw runs the pure stages of the pipeline and returns the square canvas.
// The puzzle is not modified and no I/O happens. The grid size is limited
// to [DefaultMaxCells].
func Draw(p grid.Puzzle, cfg raster.Config) (*Drawing, error) {
	l, err := Plan(p, cfg, DefaultMaxCells)
	if err != nil {
		return nil, err
	}
	return l.Render(cfg), nil
}

// Render rasterizes a planned layout and squares the result. cfg must be
// the config the layout was planned with.
func (l Layout) Render(cfg raster.Config) *Drawing {
	cv := raster.Rasterize(l.Normalized.Grid, l.Circled, cfg)
	return &Drawing{
		Layout: l,
		Canvas: raster.Square(cv, cfg.Padding),
	}
}
