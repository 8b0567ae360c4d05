package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/matzehuels/gridtile/pkg/errors"
	"github.com/matzehuels/gridtile/pkg/grid"
)

type puzzle struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Rows     int      `json:"rows"`
	Cols     int      `json:"cols"`
	Solution string   `json:"solution"`
	Grid     []string `json:"grid"`
	Circles  []int    `json:"circles"`
	Circled  []point  `json:"circled"`
}

type point struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// ReadJSON decodes a puzzle definition from r.
//
// ReadJSON returns an error if:
//   - The JSON is malformed
//   - Neither "solution" nor "grid" is present
//   - The grid rows are ragged or the solution length does not match rows×cols
//   - rows or cols is zero
//
// Circle indices are not range-checked: stale markup is reported by the
// render pipeline, not rejected here. A "circled" coordinate outside the
// grid becomes index -1 so that it is reported too instead of landing on
// another cell. ReadJSON does not close r.
func ReadJSON(r io.Reader) (grid.Puzzle, error) {
	var data puzzle
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return grid.Puzzle{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode puzzle")
	}

	p := grid.Puzzle{
		ID:       data.ID,
		Title:    data.Title,
		Rows:     data.Rows,
		Cols:     data.Cols,
		Solution: data.Solution,
		Circles:  data.Circles,
	}

	switch {
	case len(data.Grid) > 0:
		if data.Solution != "" {
			return grid.Puzzle{}, errors.New(errors.ErrCodeInvalidInput, "puzzle has both solution and grid")
		}
		solution, cols, err := joinRows(data.Grid)
		if err != nil {
			return grid.Puzzle{}, err
		}
		if data.Rows != 0 && data.Rows != len(data.Grid) {
			return grid.Puzzle{}, errors.New(errors.ErrCodeInvalidGrid, "rows is %d but grid has %d rows", data.Rows, len(data.Grid))
		}
		if data.Cols != 0 && data.Cols != cols {
			return grid.Puzzle{}, errors.New(errors.ErrCodeInvalidGrid, "cols is %d but grid rows have %d cells", data.Cols, cols)
		}
		p.Rows, p.Cols, p.Solution = len(data.Grid), cols, solution
	case data.Solution == "":
		return grid.Puzzle{}, errors.New(errors.ErrCodeInvalidInput, "puzzle has neither solution nor grid")
	}

	for _, c := range data.Circled {
		p.Circles = append(p.Circles, circleIndex(c, p.Rows, p.Cols))
	}

	// Validate the shape now so malformed input fails at the edge.
	if _, err := p.Grid(); err != nil {
		return grid.Puzzle{}, err
	}
	return p, nil
}

// staleCircle stands in for a coordinate outside the grid. It is never a
// valid index, so rendering reports it as stale markup.
const staleCircle = -1

// circleIndex converts a coordinate to a linear index, or staleCircle if
// it lies outside the grid.
func circleIndex(c point, rows, cols int) int {
	if c.Row < 0 || c.Row >= rows || c.Col < 0 || c.Col >= cols {
		return staleCircle
	}
	return c.Row*cols + c.Col
}

// joinRows concatenates grid rows into a solution string and checks that
// every row has the same length.
func joinRows(rows []string) (string, int, error) {
	cols := utf8.RuneCountInString(rows[0])
	var b strings.Builder
	for i, row := range rows {
		if n := utf8.RuneCountInString(row); n != cols {
			return "", 0, errors.New(errors.ErrCodeInvalidGrid, "row %d has %d cells, want %d", i, n, cols)
		}
		b.WriteString(row)
	}
	return b.String(), cols, nil
}

// ImportJSON reads a puzzle definition file at path.
//
// If the file has no "id", the base name of path without its extension is
// used. Errors are wrapped with the file path for context.
func ImportJSON(path string) (grid.Puzzle, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return grid.Puzzle{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return grid.Puzzle{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	p, err := ReadJSON(f)
	if err != nil {
		return grid.Puzzle{}, fmt.Errorf("%s: %w", path, err)
	}
	if p.ID == "" {
		p.ID = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return p, nil
}

// ImportDir reads every *.json puzzle in dir, sorted by file name.
func ImportDir(dir string) ([]grid.Puzzle, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, err
	}
	puzzles := make([]grid.Puzzle, 0, len(paths))
	for _, path := range paths {
		p, err := ImportJSON(path)
		if err != nil {
			return nil, err
		}
		puzzles = append(puzzles, p)
	}
	return puzzles, nil
}
