package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/gridtile/pkg/grid"
	"github.com/matzehuels/gridtile/pkg/io"
	"github.com/matzehuels/gridtile/pkg/pipeline"
	"github.com/matzehuels/gridtile/pkg/raster"
)

// previewCommand creates the preview command.
func (c *CLI) previewCommand() *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:   "preview [file]",
		Short: "Show a puzzle's normalized grid in the terminal",
		Long: `Show the grid exactly as it will be rasterized: padding rows or
columns, blocks, open cells and circled squares, plus the image size.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := io.ImportJSON(args[0])
			if err != nil {
				return err
			}
			cfg := c.Config.Render()
			layout, err := pipeline.Plan(p, cfg, c.Config.Server.MaxCells)
			if err != nil {
				return err
			}

			m := newPreviewModel(p, layout, cfg)
			if plain {
				m.cursor = grid.Point{Row: -1, Col: -1}
				fmt.Fprint(cmd.OutOrStdout(), m.View())
				return nil
			}
			_, err = tea.NewProgram(m, tea.WithContext(cmd.Context())).Run()
			return err
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "print once instead of starting the interactive view")
	return cmd
}

// =============================================================================
// previewModel - interactive grid inspection
// =============================================================================

// previewModel is the bubbletea model for the preview command.
type previewModel struct {
	puzzle  grid.Puzzle
	layout  pipeline.Layout
	cursor  grid.Point
	showPad bool

	blockStyle lipgloss.Style
	openStyle  lipgloss.Style
	ringStyle  lipgloss.Style
	padStyle   lipgloss.Style
}

func newPreviewModel(p grid.Puzzle, l pipeline.Layout, cfg raster.Config) previewModel {
	return previewModel{
		puzzle:  p,
		layout:  l,
		showPad: true,
		cursor:  grid.Point{Row: l.Normalized.Padding.Top, Col: l.Normalized.Padding.Left},

		blockStyle: lipgloss.NewStyle().Background(hexColor(cfg.Fill)),
		openStyle:  lipgloss.NewStyle().Background(hexColor(cfg.Background)).Foreground(hexColor(cfg.Fill)),
		ringStyle: lipgloss.NewStyle().Background(hexColor(cfg.Background)).
			Foreground(hexColor(cfg.Line)).Bold(true),
		padStyle: lipgloss.NewStyle().Foreground(colorDim),
	}
}

func hexColor(c raster.Color) lipgloss.Color {
	return lipgloss.Color(c.Hex())
}

func (m previewModel) Init() tea.Cmd {
	return nil
}

func (m previewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	rows, cols := m.layout.Normalized.Rows(), m.layout.Normalized.Cols()
	switch key.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "up", "k":
		m.cursor.Row = max(m.cursor.Row-1, 0)
	case "down", "j":
		m.cursor.Row = min(m.cursor.Row+1, rows-1)
	case "left", "h":
		m.cursor.Col = max(m.cursor.Col-1, 0)
	case "right", "l":
		m.cursor.Col = min(m.cursor.Col+1, cols-1)
	case "p":
		m.showPad = !m.showPad
	}
	return m, nil
}

func (m previewModel) View() string {
	var b strings.Builder
	n := m.layout.Normalized
	geo := m.layout.Geometry

	title := m.puzzle.ID
	if m.puzzle.Title != "" {
		title += " · " + m.puzzle.Title
	}
	b.WriteString(StyleTitle.Render(title))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render(fmt.Sprintf("%dx%d → %dx%d · %dx%dpx → %dpx square",
		n.SourceRows, n.SourceCols, n.Rows(), n.Cols(), geo.Height, geo.Width, m.layout.Side())))
	b.WriteString("\n\n")

	for r := range n.Rows() {
		for c := range n.Cols() {
			b.WriteString(m.cell(grid.Point{Row: r, Col: c}))
		}
		b.WriteString("\n")
	}

	if len(m.layout.Stale) > 0 {
		b.WriteString("\n")
		b.WriteString(StyleWarning.Render(fmt.Sprintf("! %d circled %s outside the grid: %v",
			len(m.layout.Stale), plural(len(m.layout.Stale), "square"), m.layout.Stale)))
		b.WriteString("\n")
	}

	if m.cursor.Row >= 0 {
		b.WriteString("\n")
		b.WriteString(StyleValue.Render(m.describe(m.cursor)))
		b.WriteString("\n")
		b.WriteString(StyleDim.Render("←↑↓→ move  p padding  q quit"))
		b.WriteString("\n")
	}
	return b.String()
}

// cell renders one grid cell as two terminal columns.
func (m previewModel) cell(p grid.Point) string {
	ch := m.layout.Normalized.Grid.At(p.Row, p.Col)

	var s string
	switch {
	case m.showPad && m.isPadding(p):
		s = m.padStyle.Render("░░")
	case ch.IsBlock():
		s = m.blockStyle.Render("  ")
	case m.layout.Circled.Has(p):
		s = m.ringStyle.Render(string(ch) + "○")
	default:
		s = m.openStyle.Render(string(ch) + " ")
	}
	if p == m.cursor {
		return lipgloss.NewStyle().Reverse(true).Render(s)
	}
	return s
}

// isPadding reports whether p was added by normalization.
func (m previewModel) isPadding(p grid.Point) bool {
	n := m.layout.Normalized
	return p.Row < n.Padding.Top || p.Row >= n.Padding.Top+n.SourceRows ||
		p.Col < n.Padding.Left || p.Col >= n.Padding.Left+n.SourceCols
}

// describe returns a one-line summary of the cell under the cursor.
func (m previewModel) describe(p grid.Point) string {
	parts := []string{fmt.Sprintf("row %d, col %d", p.Row, p.Col)}
	ch := m.layout.Normalized.Grid.At(p.Row, p.Col)
	switch {
	case m.isPadding(p):
		parts = append(parts, "padding")
	case ch.IsBlock():
		parts = append(parts, "block")
	default:
		parts = append(parts, fmt.Sprintf("open %q", string(ch)))
	}
	if m.layout.Circled.Has(p) {
		parts = append(parts, "circled")
	}
	return strings.Join(parts, " · ")
}
