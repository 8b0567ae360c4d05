package cli

import (
	"context"
	"fmt"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/gridtile/pkg/config"
	"github.com/matzehuels/gridtile/pkg/errors"
	"github.com/matzehuels/gridtile/pkg/httputil"
)

func writePuzzle(t *testing.T, dir, id string, rows, cols int) string {
	t.Helper()
	body := fmt.Sprintf(`{"id": %q, "rows": %d, "cols": %d, "solution": %q, "circles": [0]}`,
		id, rows, cols, strings.Repeat("A", rows*cols))
	path := filepath.Join(dir, id+".json")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestResolveFormat(t *testing.T) {
	tests := []struct {
		name    string
		flag    string
		output  string
		want    string
		wantErr bool
	}{
		{"default", "", "", "png", false},
		{"flag", "BMP", "", "bmp", false},
		{"flag wins", "tiff", "out.png", "tiff", false},
		{"from output", "", "out.tif", "tiff", false},
		{"bad flag", "gif", "", "", true},
		{"bad output", "", "out.gif", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveFormat(tt.flag, tt.output, "png")
			if (err != nil) != tt.wantErr {
				t.Fatalf("resolveFormat() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("resolveFormat() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestOutputPath(t *testing.T) {
	got, err := outputPath("", "site", "gbw-042", "png")
	if err != nil || got != filepath.Join("site", "gbw-042.png") {
		t.Errorf("outputPath() = %q, %v", got, err)
	}

	got, err = outputPath("print/x.tif", "site", "gbw-042", "tiff")
	if err != nil || got != "print/x.tif" {
		t.Errorf("outputPath() with -o = %q, %v", got, err)
	}

	for _, id := range []string{"", "../escape", "a/b"} {
		if _, err := outputPath("", "site", id, "png"); !errors.Is(err, errors.ErrCodeInvalidPath) {
			t.Errorf("outputPath(id=%q) error = %v, want INVALID_PATH", id, err)
		}
	}
}

func TestPlural(t *testing.T) {
	if got := plural(1, "puzzle"); got != "puzzle" {
		t.Errorf("plural(1) = %q", got)
	}
	if got := plural(0, "puzzle"); got != "puzzles" {
		t.Errorf("plural(0) = %q", got)
	}
}

func TestStatsLine(t *testing.T) {
	line := statsLine(700, 1, false)
	if !strings.Contains(line, "700px") || !strings.Contains(line, "1 padding line") {
		t.Errorf("statsLine() = %q", line)
	}
	if strings.Contains(statsLine(656, 0, true), "padding") {
		t.Error("statsLine() should omit padding when there is none")
	}
}

func TestLoadPuzzles(t *testing.T) {
	dir := t.TempDir()
	writePuzzle(t, dir, "b", 2, 2)
	writePuzzle(t, dir, "a", 2, 2)
	single := writePuzzle(t, t.TempDir(), "c", 1, 1)
	feed := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"rows": 1, "cols": 2, "solution": "AB"}`))
	}))
	defer feed.Close()

	ctx := context.Background()
	client := httputil.NewClient(nil, nil)
	puzzles, err := loadPuzzles(ctx, []string{dir, single, feed.URL + "/daily/d.json"}, client, false)
	if err != nil {
		t.Fatalf("loadPuzzles() error: %v", err)
	}
	var ids []string
	for _, p := range puzzles {
		ids = append(ids, p.ID)
	}
	if strings.Join(ids, ",") != "a,b,c,d" {
		t.Errorf("loaded ids = %v, want [a b c d]", ids)
	}

	_, err = loadPuzzles(ctx, []string{filepath.Join(dir, "missing.json")}, client, false)
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing input error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestRunRender(t *testing.T) {
	c := newTestCLI(t)
	c.Config.Cache.Backend = config.BackendNone

	in := t.TempDir()
	writePuzzle(t, in, "gbw-1", 15, 15)
	writePuzzle(t, in, "gbw-2", 15, 17)
	out := t.TempDir()

	if err := c.runRender(context.Background(), []string{in}, renderOpts{outDir: out}); err != nil {
		t.Fatalf("runRender() error: %v", err)
	}

	for id, side := range map[string]int{"gbw-1": 656, "gbw-2": 744} {
		f, err := os.Open(filepath.Join(out, id+".png"))
		if err != nil {
			t.Fatalf("missing output for %s: %v", id, err)
		}
		cfg, err := png.DecodeConfig(f)
		f.Close()
		if err != nil {
			t.Fatalf("%s is not a PNG: %v", id, err)
		}
		if cfg.Width != side || cfg.Height != side {
			t.Errorf("%s is %dx%d, want %dx%d", id, cfg.Width, cfg.Height, side, side)
		}
	}
}

func TestRunRenderSingleOutput(t *testing.T) {
	c := newTestCLI(t)
	c.Config.Cache.Backend = config.BackendNone

	in := writePuzzle(t, t.TempDir(), "gbw-3", 3, 3)
	out := filepath.Join(t.TempDir(), "print", "gbw-3.bmp")

	if err := c.runRender(context.Background(), []string{in}, renderOpts{output: out, scale: 2}); err != nil {
		t.Fatalf("runRender() error: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "BM") {
		t.Error("output should be a BMP")
	}
}

func TestRunRenderOutputNeedsSinglePuzzle(t *testing.T) {
	c := newTestCLI(t)
	c.Config.Cache.Backend = config.BackendNone

	in := t.TempDir()
	writePuzzle(t, in, "a", 1, 1)
	writePuzzle(t, in, "b", 1, 1)

	err := c.runRender(context.Background(), []string{in}, renderOpts{output: "x.png"})
	if err == nil {
		t.Fatal("expected an error for -o with several puzzles")
	}
}
