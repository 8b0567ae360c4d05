// Package io loads puzzle definitions from JSON.
//
// # Overview
//
// The puzzle loader sits in front of the render pipeline: it turns a file
// produced by an upstream converter (for example a .puz extractor) into a
// [grid.Puzzle]. Parsing the proprietary .puz format itself is out of scope.
//
// # JSON Format
//
// The grid can be given as one row-major solution string:
//
//	{
//	  "id": "gbw-042",
//	  "rows": 5,
//	  "cols": 5,
//	  "solution": "HEAR.ABOUT...",
//	  "circles": [0, 12]
//	}
//
// or as an array of row strings, in which case rows and cols may be omitted:
//
//	{
//	  "id": "gbw-042",
//	  "grid": ["HEAR.", "ABOUT", ...],
//	  "circled": [{"row": 0, "col": 0}]
//	}
//
// The block marker is ".". Circles are linear indices r*cols+c into the
// grid as written in the file; "circled" coordinates are converted to
// indices, and those outside the grid to -1. Both lists may be combined.
//
// # Import
//
// Use [ImportJSON] to read a puzzle from a file path, or [ReadJSON] to read
// from any io.Reader. When "id" is missing, [ImportJSON] uses the file name
// without its extension, matching the "<puzzle-id>.png" output convention.
//
//	p, err := io.ImportJSON("puzzles/gbw-042.json")
//
// [FetchJSON] does the same for an http(s) URL through an
// [httputil.Client], which caches and retries; the ID then defaults to the
// last path segment.
//
// Structural problems (ragged rows, zero dimensions, a solution of the
// wrong length) are rejected here with INVALID_* errors so that nothing
// downstream renders a malformed grid.
//
// [grid.Puzzle]: github.com/matzehuels/gridtile/pkg/grid.Puzzle
// [httputil.Client]: github.com/matzehuels/gridtile/pkg/httputil.Client
package io
