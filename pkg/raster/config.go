package raster

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/gridtile/pkg/errors"
)

// Color is an 8-bit RGB triple.
type Color struct {
	R, G, B uint8
}

// Named colors of the house style.
var (
	Black = Color{0, 0, 0}
	White = Color{255, 255, 255}
	Gray  = Color{80, 80, 80}
)

// ParseColor parses a "#rrggbb" (or "#rgb") hex string.
func ParseColor(s string) (Color, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return Color{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid color %q", s)
	}
	r, g, b := c.RGB255()
	return Color{r, g, b}, nil
}

// Hex returns the color as "#rrggbb".
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// MarshalText implements encoding.TextMarshaler.
func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.Hex()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Color) UnmarshalText(text []byte) error {
	parsed, err := ParseColor(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Default sizes, in pixels.
const (
	DefaultCellSize = 40
	DefaultGridLine = 4
	DefaultBorder   = 0
)

// Config holds the fixed visual style. It is read-only for the whole
// pipeline and passed explicitly to every stage.
type Config struct {
	CellSize int // edge of a cell tile
	GridLine int // thickness of the lines between tiles, also the ring width
	Border   int // outer border around the grid

	Fill       Color // block cells
	Background Color // open cells
	Line       Color // grid lines, border and circle rings
	Padding    Color // area added by Square
}

// DefaultConfig returns the house style: 40px cells, 4px gray lines, no
// border, black blocks on white.
func DefaultConfig() Config {
	return Config{
		CellSize:   DefaultCellSize,
		GridLine:   DefaultGridLine,
		Border:     DefaultBorder,
		Fill:       Black,
		Background: White,
		Line:       Gray,
		Padding:    Black,
	}
}

// Validate checks that the sizes describe a drawable grid.
func (c Config) Validate() error {
	if c.CellSize < 2 {
		return errors.New(errors.ErrCodeInvalidConfig, "cell size must be at least 2, got %d", c.CellSize)
	}
	if c.GridLine < 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "grid line must be at least 1, got %d", c.GridLine)
	}
	if c.Border < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "border cannot be negative, got %d", c.Border)
	}
	return nil
}

// Geometry is the pixel size of a rendered grid.
type Geometry struct {
	Rows, Cols    int
	Height, Width int
}

// IsSquare reports whether the rendered grid is square.
func (g Geometry) IsSquare() bool { return g.Height == g.Width }

// Side returns the edge of the squared image.
func (g Geometry) Side() int { return max(g.Height, g.Width) }

// Geometry returns the pixel dimensions of a rows×cols grid.
func (c Config) Geometry(rows, cols int) Geometry {
	return Geometry{
		Rows:   rows,
		Cols:   cols,
		Height: c.extent(rows),
		Width:  c.extent(cols),
	}
}

func (c Config) extent(n int) int {
	return 2*c.Border + c.CellSize*n + c.GridLine*(n-1)
}

// Offset returns the pixel position of row or column idx.
func (c Config) Offset(idx int) int {
	return c.Border + c.CellSize*idx + c.GridLine*idx
}
