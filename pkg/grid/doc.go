// Package grid models crossword grids and their normalization.
//
// # Overview
//
// A [Grid] is an immutable rectangular matrix of [Cell] symbols. A cell is
// either the block marker [Block] or a letter. Grids are built from the
// row-major solution string a puzzle loader produces:
//
//	g, err := grid.FromSolution(15, 15, solution)
//
// Construction validates the shape: zero dimensions and ragged rows are
// rejected with an INVALID_* error from [errors].
//
// # Markup
//
// Circled cells arrive as a [Markup] set of linear indices r*cols+c into the
// original, unpadded grid.
//
// # Normalization
//
// [Normalize] pads a grid with whole block rows or columns on both sides so
// that it is as square as possible. When rows and cols differ by an odd
// amount the result stays one cell off square; the raster squarer handles
// the rest. [Normalized.Circled] translates markup indices into the padded
// coordinate space and reports the indices that fall outside the source
// grid.
//
// [errors]: github.com/matzehuels/gridtile/pkg/errors
package grid
