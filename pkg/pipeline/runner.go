package pipeline

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/gridtile/pkg/cache"
	"github.com/matzehuels/gridtile/pkg/grid"
	"github.com/matzehuels/gridtile/pkg/observability"
	"github.com/matzehuels/gridtile/pkg/raster/sink"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and server use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute renders one puzzle and encodes it, consulting the cache first.
//
// Malformed puzzles fail before anything is drawn. Circle indices outside
// the grid are not an error: they are logged at warn level and returned in
// Result.Stale. Cache failures are logged and otherwise ignored.
func (r *Runner) Execute(ctx context.Context, p grid.Puzzle, opts Options) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	logger := opts.Logger.With("puzzle", p.ID)
	hooks := observability.Pipeline()

	hooks.OnRenderStart(ctx, p.ID)
	start := time.Now()

	layout, err := Plan(p, opts.Config, opts.MaxCells)
	if err != nil {
		hooks.OnRenderComplete(ctx, p.ID, 0, time.Since(start), err)
		return nil, err
	}
	if len(layout.Stale) > 0 {
		logger.Warn("circled squares outside the grid", "indices", layout.Stale,
			"rows", p.Rows, "cols", p.Cols)
		hooks.OnStaleMarkup(ctx, p.ID, layout.Stale)
	}

	result := &Result{
		PuzzleID: p.ID,
		Geometry: layout.Geometry,
		Padding:  layout.Normalized.Padding,
		Side:     layout.Side(),
		Stale:    layout.Stale,
	}

	key, err := r.artifactKey(p, opts)
	if err != nil {
		return nil, err
	}

	if !opts.Refresh {
		data, hit, err := r.Cache.Get(ctx, key)
		if err != nil {
			logger.Warn("cache lookup failed", "error", err)
		}
		if hit {
			observability.Cache().OnCacheHit(ctx, cache.KeyTypeArtifact)
			result.Artifact = data
			result.CacheHit = true
			result.Stats.Bytes = len(data)
			hooks.OnRenderComplete(ctx, p.ID, result.Side, time.Since(start), nil)
			logger.Debug("cache hit", "bytes", len(data))
			return result, nil
		}
		observability.Cache().OnCacheMiss(ctx, cache.KeyTypeArtifact)
	}

	drawing := layout.Render(opts.Config)
	result.Stats.DrawTime = time.Since(start)
	hooks.OnRenderComplete(ctx, p.ID, result.Side, result.Stats.DrawTime, nil)
	result.Canvas = drawing.Canvas

	if !layout.Normalized.Padding.IsZero() {
		logger.Debug("padded grid",
			"from", fmt.Sprintf("%dx%d", layout.Normalized.SourceRows, layout.Normalized.SourceCols),
			"to", fmt.Sprintf("%dx%d", layout.Normalized.Rows(), layout.Normalized.Cols()))
	}

	encodeStart := time.Now()
	data, err := sink.Bytes(drawing.Canvas, opts.Format, sink.WithScale(opts.Scale))
	result.Stats.EncodeTime = time.Since(encodeStart)
	hooks.OnEncodeComplete(ctx, opts.Format, len(data), result.Stats.EncodeTime, err)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", opts.Format, err)
	}
	result.Artifact = data
	result.Stats.Bytes = len(data)

	if err := r.Cache.Set(ctx, key, data, cache.ArtifactTTL); err != nil {
		logger.Warn("cache store failed", "error", err)
	} else {
		observability.Cache().OnCacheSet(ctx, cache.KeyTypeArtifact, len(data))
	}

	logger.Info("rendered puzzle",
		"side", result.Side,
		"format", opts.Format,
		"bytes", len(data),
		"duration", result.Stats.DrawTime+result.Stats.EncodeTime)

	return result, nil
}

// ExecuteAll renders puzzles concurrently with at most workers pipelines in
// flight (runtime.NumCPU() when workers < 1). Results are returned in input
// order. The first error cancels the remaining work and is returned.
func (r *Runner) ExecuteAll(ctx context.Context, puzzles []grid.Puzzle, opts Options, workers int) ([]*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	if workers < 1 {
		workers = runtime.NumCPU()
	}

	results := make([]*Result, len(puzzles))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, p := range puzzles {
		g.Go(func() error {
			res, err := r.Execute(ctx, p, opts)
			if err != nil {
				return fmt.Errorf("%s: %w", p.ID, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// artifactKey hashes the parts of the puzzle that affect pixels. The ID and
// title are left out so renamed copies share one cache entry.
func (r *Runner) artifactKey(p grid.Puzzle, opts Options) (string, error) {
	content := struct {
		Rows     int    `json:"rows"`
		Cols     int    `json:"cols"`
		Solution string `json:"solution"`
		Circles  []int  `json:"circles"`
	}{p.Rows, p.Cols, p.Solution, p.Markup().Sorted()}

	hash, err := cache.HashJSON(content)
	if err != nil {
		return "", fmt.Errorf("hash puzzle: %w", err)
	}
	return r.Keyer.ArtifactKey(hash, opts.ArtifactKeyOpts()), nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
