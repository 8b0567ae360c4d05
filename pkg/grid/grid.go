package grid

import (
	"math"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/matzehuels/gridtile/pkg/errors"
)

// Cell is a single grid symbol.
type Cell rune

// Block is the symbol of a filled (black) square.
const Block Cell = '.'

// IsBlock reports whether c is the block marker.
func (c Cell) IsBlock() bool { return c == Block }

// Point addresses a cell by row and column.
type Point struct {
	Row, Col int
}

// Grid is an immutable rectangular matrix of cells.
type Grid struct {
	rows, cols int
	cells      []Cell // row-major
}

// New builds a grid from rows of cells. The input is copied.
func New(rows [][]Cell) (*Grid, error) {
	if len(rows) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidDimensions, "grid has no rows")
	}
	cols := len(rows[0])
	if cols == 0 {
		return nil, errors.New(errors.ErrCodeInvalidDimensions, "grid has no columns")
	}
	if cols > math.MaxInt/len(rows) {
		return nil, errors.New(errors.ErrCodeInvalidDimensions, "grid of %dx%d cells is too large", len(rows), cols)
	}
	cells := make([]Cell, 0, len(rows)*cols)
	for r, row := range rows {
		if len(row) != cols {
			return nil, errors.New(errors.ErrCodeInvalidGrid, "row %d has %d cells, want %d", r, len(row), cols)
		}
		cells = append(cells, row...)
	}
	return &Grid{rows: len(rows), cols: cols, cells: cells}, nil
}

// FromSolution builds a grid from a row-major solution string such as the
// one stored in a .puz file. Each rune is one cell.
func FromSolution(rows, cols int, solution string) (*Grid, error) {
	if rows <= 0 || cols <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidDimensions, "invalid grid size %dx%d", rows, cols)
	}
	// rows*cols is only computed once both sides fit in n, so it cannot
	// overflow.
	n := utf8.RuneCountInString(solution)
	if cols > n || rows > n/cols || rows*cols != n {
		return nil, errors.New(errors.ErrCodeInvalidGrid, "solution has %d cells, want %dx%d", n, rows, cols)
	}
	cells := make([]Cell, 0, rows*cols)
	for _, r := range solution {
		cells = append(cells, Cell(r))
	}
	return &Grid{rows: rows, cols: cols, cells: cells}, nil
}

// Rows returns the number of rows.
func (g *Grid) Rows() int { return g.rows }

// Cols returns the number of columns.
func (g *Grid) Cols() int { return g.cols }

// At returns the cell at row r, column c.
func (g *Grid) At(r, c int) Cell { return g.cells[r*g.cols+c] }

// Index returns the row-major linear index of (r, c).
func (g *Grid) Index(r, c int) int { return r*g.cols + c }

// Row returns a copy of row r.
func (g *Grid) Row(r int) []Cell {
	return slices.Clone(g.cells[r*g.cols : (r+1)*g.cols])
}

// IsSquare reports whether the grid has as many rows as columns.
func (g *Grid) IsSquare() bool { return g.rows == g.cols }

// Blocks returns the number of block cells.
func (g *Grid) Blocks() int {
	n := 0
	for _, c := range g.cells {
		if c.IsBlock() {
			n++
		}
	}
	return n
}

// String renders the grid one row per line.
func (g *Grid) String() string {
	var b strings.Builder
	for r := range g.rows {
		for _, c := range g.cells[r*g.cols : (r+1)*g.cols] {
			b.WriteRune(rune(c))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// Markup is a set of linear cell indices into an unpadded grid.
type Markup map[int]struct{}

// NewMarkup returns a markup set holding indices.
func NewMarkup(indices ...int) Markup {
	m := make(Markup, len(indices))
	for _, i := range indices {
		m[i] = struct{}{}
	}
	return m
}

// Has reports whether index i is marked.
func (m Markup) Has(i int) bool {
	_, ok := m[i]
	return ok
}

// Sorted returns the marked indices in ascending order.
func (m Markup) Sorted() []int {
	out := make([]int, 0, len(m))
	for i := range m {
		out = append(out, i)
	}
	slices.Sort(out)
	return out
}

// CellSet is a set of cell coordinates.
type CellSet map[Point]struct{}

// Has reports whether p is in the set.
func (s CellSet) Has(p Point) bool {
	_, ok := s[p]
	return ok
}

// Puzzle is the loader's view of a crossword: dimensions, solution and
// circled squares. It is the input of the render pipeline.
type Puzzle struct {
	ID       string `json:"id"`
	Title    string `json:"title,omitempty"`
	Rows     int    `json:"rows"`
	Cols     int    `json:"cols"`
	Solution string `json:"solution"`
	Circles  []int  `json:"circles,omitempty"`
}

// Grid builds the puzzle's grid.
func (p Puzzle) Grid() (*Grid, error) {
	return FromSolution(p.Rows, p.Cols, p.Solution)
}

// Markup returns the puzzle's circled squares.
func (p Puzzle) Markup() Markup {
	return NewMarkup(p.Circles...)
}
