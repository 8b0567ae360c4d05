package grid

// Padding counts the block rows and columns added around a grid.
type Padding struct {
	Top, Bottom, Left, Right int
}

// IsZero reports whether no padding was added.
func (p Padding) IsZero() bool { return p == Padding{} }

// Normalized is a padded grid together with what is needed to map
// coordinates of the source grid into it.
type Normalized struct {
	Grid    *Grid
	Padding Padding

	SourceRows int
	SourceCols int
}

// Rows returns the padded row count.
func (n Normalized) Rows() int { return n.Grid.Rows() }

// Cols returns the padded column count.
func (n Normalized) Cols() int { return n.Grid.Cols() }

// Normalize pads g with block rows or block columns, the same number on
// both sides, so that it is as square as possible. The pad count is
// |rows-cols|/2, so a difference of one is left as is and any odd
// difference leaves the result one cell off square. g is never modified.
func Normalize(g *Grid) Normalized {
	n := Normalized{Grid: g, SourceRows: g.rows, SourceCols: g.cols}

	extra := abs(g.rows-g.cols) / 2
	if extra == 0 {
		return n
	}

	switch {
	case g.rows < g.cols:
		n.Padding = Padding{Top: extra, Bottom: extra}
	case g.cols < g.rows:
		n.Padding = Padding{Left: extra, Right: extra}
	}
	n.Grid = pad(g, n.Padding)
	return n
}

// pad returns a copy of g surrounded by p block cells.
func pad(g *Grid, p Padding) *Grid {
	rows := g.rows + p.Top + p.Bottom
	cols := g.cols + p.Left + p.Right
	cells := make([]Cell, rows*cols)
	for i := range cells {
		cells[i] = Block
	}
	for r := range g.rows {
		dst := (r+p.Top)*cols + p.Left
		copy(cells[dst:dst+g.cols], g.cells[r*g.cols:(r+1)*g.cols])
	}
	return &Grid{rows: rows, cols: cols, cells: cells}
}

// Circled translates markup indices of the source grid into padded
// coordinates. Indices outside the source grid cannot name a cell; they
// are returned in ascending order as stale and left out of the set.
func (n Normalized) Circled(m Markup) (CellSet, []int) {
	set := make(CellSet, len(m))
	var stale []int
	for _, i := range m.Sorted() {
		if i < 0 || i >= n.SourceRows*n.SourceCols {
			stale = append(stale, i)
			continue
		}
		set[Point{
			Row: i/n.SourceCols + n.Padding.Top,
			Col: i%n.SourceCols + n.Padding.Left,
		}] = struct{}{}
	}
	return set, stale
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
