// Package pkg provides the libraries behind gridtile, which renders
// crossword grids as square images for publication.
//
// # Architecture
//
// A puzzle flows through four stages:
//
//	puzzle JSON (file, directory or feed URL)
//	         ↓
//	    [io] (load and validate)
//	         ↓
//	    [grid] (pad toward square, translate circled squares)
//	         ↓
//	    [raster] (draw tiles and rings, center on a square canvas)
//	         ↓
//	    [raster/sink] (PNG, BMP or TIFF)
//
// [pipeline] runs these stages for the CLI and the render server and caches
// the encoded image through [cache].
//
// # Quick Start
//
//	p, _ := io.ImportJSON("puzzles/gbw-042.json")
//	runner := pipeline.NewRunner(nil, nil, nil)
//	res, _ := runner.Execute(ctx, p, pipeline.Options{Format: "png"})
//	_ = sink.WriteBytes("puzzle_images/gbw-042.png", res.Artifact)
//
// # Main Packages
//
// [grid] - The cell grid, circle markup and the normalizer that adds
// block rows or columns evenly on both sides.
//
// [raster] - Canvas, house style, cell rasterizer and the canvas squarer.
//
// [raster/sink] - Image encoders and output path conventions.
//
// [io] - JSON puzzle loader for files, directories and http(s) feeds.
//
// [httputil] - Feed client with retries and a TTL file cache.
//
// [pipeline] - Plan, draw and encode, with artifact caching and a
// concurrent batch runner.
//
// [cache] - Artifact caches: file, Redis and null backends.
//
// [config] - TOML configuration.
//
// [observability] - Hooks for render, cache and server events.
//
// [errors] - Coded errors and input validation.
//
// # Testing
//
//	go test ./...                          # Unit tests
//	go test -tags integration ./pkg/cache  # Redis backend, needs REDIS_ADDR
//
// [io]: https://pkg.go.dev/github.com/matzehuels/gridtile/pkg/io
// [grid]: https://pkg.go.dev/github.com/matzehuels/gridtile/pkg/grid
// [raster]: https://pkg.go.dev/github.com/matzehuels/gridtile/pkg/raster
// [raster/sink]: https://pkg.go.dev/github.com/matzehuels/gridtile/pkg/raster/sink
// [httputil]: https://pkg.go.dev/github.com/matzehuels/gridtile/pkg/httputil
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/gridtile/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/gridtile/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/gridtile/pkg/config
// [observability]: https://pkg.go.dev/github.com/matzehuels/gridtile/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/gridtile/pkg/errors
package pkg
