// Package raster draws normalized crossword grids into pixel canvases.
//
// # Overview
//
// Rendering happens in two pure steps that each allocate a fresh [Canvas]:
//
//  1. [Rasterize] paints every cell of a padded grid as a solid tile
//     (block fill or open background), overlays a ring on circled cells, and
//     places the tiles on a canvas pre-filled with the grid-line color. The
//     lines between tiles are never drawn; they are whatever the tiles leave
//     uncovered.
//  2. [Square] embeds a non-square canvas in a square one, centred, with the
//     slack pixel of an odd difference going to the bottom/right.
//
// Both are deterministic functions of their inputs and a [Config]:
//
//	cfg := raster.DefaultConfig()
//	n := grid.Normalize(g)
//	circled, stale := n.Circled(markup)
//	img := raster.Square(raster.Rasterize(n.Grid, circled, cfg), cfg.Padding)
//
// # Geometry
//
// Pixel dimensions follow from the padded grid shape:
//
//	height = 2*border + cell*rows + line*(rows-1)
//
// and likewise for width. [Config.Geometry] computes them; [Config.Offset]
// returns the pixel position of a row or column.
//
// # Canvas
//
// [Canvas] is a flat RGB buffer with explicit stride arithmetic. It
// implements [image.Image] so it can be handed to any encoder, see the
// [sink] subpackage.
//
// [sink]: github.com/matzehuels/gridtile/pkg/raster/sink
package raster
