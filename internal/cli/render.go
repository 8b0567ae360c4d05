package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gridtile/pkg/errors"
	"github.com/matzehuels/gridtile/pkg/grid"
	"github.com/matzehuels/gridtile/pkg/httputil"
	"github.com/matzehuels/gridtile/pkg/io"
	"github.com/matzehuels/gridtile/pkg/pipeline"
	"github.com/matzehuels/gridtile/pkg/raster/sink"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output  string // output file, only with a single input
	outDir  string // directory for <puzzle-id>.<ext> files
	format  string // png, bmp or tiff
	scale   int    // integer up-scaling
	noCache bool   // disable the artifact cache
	refresh bool   // re-render even on a cache hit
	jobs    int    // concurrent renders
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [files, dirs or urls...]",
		Short: "Render puzzle files to square images",
		Long: `Render one or more puzzle definition files to square images.

Directories are expanded to the *.json files they contain; http(s) URLs
are fetched and cached for a day. Each image is
written to <out-dir>/<puzzle-id>.<ext> unless -o names a single output file.`,
		Example: `  gridtile render puzzles/gbw-042.json
  gridtile render puzzles/ --out-dir site/img -j 8
  gridtile render https://feed.example/daily/gbw-042.json
  gridtile render gbw-042.json -o print/gbw-042.tif --scale 4`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single input only)")
	cmd.Flags().StringVar(&opts.outDir, "out-dir", "", "output directory (default from config: puzzle_images)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "output format: png (default), bmp, tiff")
	cmd.Flags().IntVar(&opts.scale, "scale", 0, "integer up-scaling factor (default from config: 1)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "re-render and re-fetch even when cached")
	cmd.Flags().IntVarP(&opts.jobs, "jobs", "j", 0, "concurrent renders (default: number of CPUs)")

	return cmd
}

// runRender loads every input, renders them concurrently and writes the
// images.
func (c *CLI) runRender(ctx context.Context, inputs []string, opts renderOpts) error {
	puzzles, err := loadPuzzles(ctx, inputs, c.newFeedClient(), opts.refresh)
	if err != nil {
		return err
	}
	if len(puzzles) == 0 {
		printWarning("No puzzles found")
		return nil
	}
	if opts.output != "" && len(puzzles) > 1 {
		return fmt.Errorf("-o needs exactly one puzzle, got %d (use --out-dir)", len(puzzles))
	}

	popts := c.pipelineOptions()
	popts.Refresh = opts.refresh
	if opts.scale != 0 {
		popts.Scale = opts.scale
	}
	popts.Format, err = resolveFormat(opts.format, opts.output, popts.Format)
	if err != nil {
		return err
	}

	outDir := opts.outDir
	if outDir == "" {
		outDir = c.Config.Output.Dir
	}
	paths := make([]string, len(puzzles))
	for i, p := range puzzles {
		if paths[i], err = outputPath(opts.output, outDir, p.ID, popts.Format); err != nil {
			return err
		}
	}

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	popts.Logger = runLogger(c.Logger)
	popts.Logger.Debug("starting render", "puzzles", len(puzzles), "format", popts.Format, "scale", popts.Scale)

	prog := newProgress(popts.Logger)
	var spinner *Spinner
	if len(puzzles) > 1 {
		spinner = newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %d puzzles...", len(puzzles)))
		spinner.Start()
	}
	results, err := runner.ExecuteAll(ctx, puzzles, popts, opts.jobs)
	if spinner != nil {
		switch {
		case spinner.Cancelled():
			spinner.Stop()
			return ctx.Err()
		case err != nil:
			spinner.StopWithError("Render failed")
		default:
			spinner.Stop()
		}
	}
	if err != nil {
		return err
	}

	cached := 0
	for i, res := range results {
		if err := sink.WriteBytes(paths[i], res.Artifact); err != nil {
			return fmt.Errorf("write %s: %w", paths[i], err)
		}
		if res.CacheHit {
			cached++
		}
		if len(res.Stale) > 0 {
			printWarning("%s: %d circled squares outside the grid were skipped", res.PuzzleID, len(res.Stale))
		}
	}

	prog.done(fmt.Sprintf("Rendered %d %s", len(results), plural(len(results), "puzzle")))
	printSuccess("Rendered %d %s", len(results), plural(len(results), "puzzle"))
	for i, res := range results {
		printFile(paths[i])
		printStats(res.Side*popts.Scale, res.Padding.Top+res.Padding.Bottom+res.Padding.Left+res.Padding.Right, res.CacheHit)
	}
	if cached > 0 && cached < len(results) {
		printDetail("%d from cache", cached)
	}
	return nil
}

// loadPuzzles imports every input, expanding directories and fetching
// http(s) URLs with client.
func loadPuzzles(ctx context.Context, inputs []string, client *httputil.Client, refresh bool) ([]grid.Puzzle, error) {
	var puzzles []grid.Puzzle
	for _, in := range inputs {
		if io.IsURL(in) {
			p, err := io.FetchJSON(ctx, client, in, refresh)
			if err != nil {
				return nil, err
			}
			puzzles = append(puzzles, p)
			continue
		}

		info, err := os.Stat(in)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "input %s", in)
			}
			return nil, err
		}
		if info.IsDir() {
			ps, err := io.ImportDir(in)
			if err != nil {
				return nil, err
			}
			puzzles = append(puzzles, ps...)
			continue
		}
		p, err := io.ImportJSON(in)
		if err != nil {
			return nil, err
		}
		puzzles = append(puzzles, p)
	}
	return puzzles, nil
}

// resolveFormat picks the output format: the flag, else the -o extension,
// else the config default.
func resolveFormat(flag, output, def string) (string, error) {
	if flag != "" {
		return strings.ToLower(flag), sink.ValidateFormat(strings.ToLower(flag))
	}
	if output != "" {
		return sink.FormatFromPath(output)
	}
	return def, nil
}

// outputPath returns the file an image is written to. Puzzle IDs become
// file names, so they are validated first.
func outputPath(output, dir, id, format string) (string, error) {
	if output != "" {
		return output, errors.ValidatePath(output)
	}
	if err := errors.ValidatePuzzleID(id); err != nil {
		return "", err
	}
	return sink.OutputPath(dir, id, format), nil
}

// plural returns word with an "s" unless n is 1.
func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
