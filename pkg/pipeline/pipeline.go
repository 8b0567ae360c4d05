// Package pipeline turns a puzzle into an encoded square image.
//
// The pipeline runs strictly forward:
//
//  1. Validate: build the grid from the puzzle, rejecting malformed input
//  2. Normalize: pad the grid toward square with block rows or columns
//  3. Translate: map circled squares onto the padded grid
//  4. Rasterize: draw cells, grid lines and circle rings
//  5. Square: embed the raster in a square canvas
//  6. Encode: hand the canvas to the image sink
//
// Steps 1-5 are pure and live in [Draw]. [Runner] adds caching, hooks and
// logging around the whole thing, and is shared by the CLI and the render
// server.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, puzzle, pipeline.Options{Format: "png"})
//	if err != nil {
//	    return err
//	}
//	os.WriteFile("puzzle_images/"+puzzle.ID+".png", result.Artifact, 0644)
//
// For many puzzles, [Runner.ExecuteAll] runs independent pipelines
// concurrently with a bounded number of workers.
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/gridtile/pkg/cache"
	"github.com/matzehuels/gridtile/pkg/errors"
	"github.com/matzehuels/gridtile/pkg/grid"
	"github.com/matzehuels/gridtile/pkg/raster"
	"github.com/matzehuels/gridtile/pkg/raster/sink"
)

// MaxScale bounds the output up-scaling factor.
const MaxScale = 16

// DefaultMaxCells bounds the padded grid. The canvas grows with the square
// of the longer side, so a 1xN strip costs as much as an NxN grid. The
// largest published crosswords are around 50x50.
const DefaultMaxCells = 10_000

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options configures one pipeline run.
type Options struct {
	Format  string        `json:"format,omitempty"`
	Scale   int           `json:"scale,omitempty"`
	Config  raster.Config `json:"-"`
	Refresh bool          `json:"refresh,omitempty"` // skip the cache lookup

	// MaxCells rejects grids whose longer side squared exceeds it.
	MaxCells int `json:"max_cells,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// ValidateAndSetDefaults applies defaults and checks every field.
// This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	o.SetDefaults()
	if err := sink.ValidateFormat(o.Format); err != nil {
		return err
	}
	if o.Scale < 1 || o.Scale > MaxScale {
		return errors.New(errors.ErrCodeInvalidInput, "scale must be between 1 and %d, got %d", MaxScale, o.Scale)
	}
	if o.MaxCells < 1 {
		return errors.New(errors.ErrCodeInvalidInput, "max cells must be positive, got %d", o.MaxCells)
	}
	if err := o.Config.Validate(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetDefaults fills unset fields. A zero Config means the house style.
func (o *Options) SetDefaults() {
	if o.Format == "" {
		o.Format = sink.DefaultFormat
	}
	if o.Scale == 0 {
		o.Scale = 1
	}
	if o.MaxCells == 0 {
		o.MaxCells = DefaultMaxCells
	}
	if o.Config == (raster.Config{}) {
		o.Config = raster.DefaultConfig()
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ArtifactKeyOpts returns cache key options for the encoded image.
func (o *Options) ArtifactKeyOpts() cache.ArtifactKeyOpts {
	style, _ := cache.HashJSON(o.Config)
	return cache.ArtifactKeyOpts{
		Style:  style,
		Format: o.Format,
		Scale:  o.Scale,
	}
}

// =============================================================================
// Results
// =============================================================================

// Result contains the outputs of a pipeline run.
type Result struct {
	// PuzzleID is the ID of the rendered puzzle.
	PuzzleID string

	// Artifact is the encoded image.
	Artifact []byte

	// Canvas is the squared raster. It is nil when Artifact came from the
	// cache.
	Canvas *raster.Canvas

	// Geometry is the pixel size of the padded grid before squaring.
	Geometry raster.Geometry

	// Padding counts the block rows or columns added by normalization.
	Padding grid.Padding

	// Side is the edge of the square image before scaling.
	Side int

	// Stale lists circle indices outside the grid. They were not drawn.
	Stale []int

	// CacheHit reports whether Artifact came from the cache.
	CacheHit bool

	// Stats contains timing and size information.
	Stats Stats
}

// Stats contains pipeline execution statistics.
type Stats struct {
	DrawTime   time.Duration
	EncodeTime time.Duration
	Bytes      int
}
