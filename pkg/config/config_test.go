package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/gridtile/pkg/errors"
	"github.com/matzehuels/gridtile/pkg/pipeline"
	"github.com/matzehuels/gridtile/pkg/raster"
)

func TestDefaultMatchesHouseStyle(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default() invalid: %v", err)
	}
	if cfg.Render() != raster.DefaultConfig() {
		t.Errorf("Render() = %+v, want %+v", cfg.Render(), raster.DefaultConfig())
	}
	if cfg.Output.Format != "png" || cfg.Output.Dir != DefaultOutputDir {
		t.Errorf("unexpected output defaults: %+v", cfg.Output)
	}
	if cfg.Server.MaxCells != pipeline.DefaultMaxCells {
		t.Errorf("MaxCells = %d, want %d", cfg.Server.MaxCells, pipeline.DefaultMaxCells)
	}
}

func TestParseOverrides(t *testing.T) {
	cfg, err := Parse(`
[grid]
cell_size = 20

[colors]
line = "#ff0000"

[cache]
backend = "redis"
ttl = "1h"
`)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if cfg.Grid.CellSize != 20 {
		t.Errorf("CellSize = %d, want 20", cfg.Grid.CellSize)
	}
	if cfg.Grid.GridLine != raster.DefaultGridLine {
		t.Errorf("GridLine = %d, want default %d", cfg.Grid.GridLine, raster.DefaultGridLine)
	}
	if cfg.Colors.Line != (raster.Color{R: 255}) {
		t.Errorf("Line = %+v, want red", cfg.Colors.Line)
	}
	if cfg.Colors.Fill != raster.Black {
		t.Errorf("Fill = %+v, want default black", cfg.Colors.Fill)
	}
	if cfg.Cache.Backend != BackendRedis || cfg.Cache.TTL.Duration != time.Hour {
		t.Errorf("unexpected cache table: %+v", cfg.Cache)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"syntax", `[grid`},
		{"bad color", "[colors]\nfill = \"#zzzzzz\""},
		{"unknown key", "[grid]\ncel_size = 3"},
		{"grid line zero", "[grid]\ngrid_line = 0"},
		{"small cell", "[grid]\ncell_size = 1"},
		{"bad format", "[output]\nformat = \"gif\""},
		{"bad scale", "[output]\nscale = 0"},
		{"bad backend", "[cache]\nbackend = \"memcached\""},
		{"bad ttl", "[cache]\nttl = \"soon\""},
		{"zero max cells", "[server]\nmax_cells = 0"},
		{"negative max cells", "[server]\nmax_cells = -5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse(tt.text); err == nil {
				t.Errorf("Parse(%q) should fail", tt.text)
			}
		})
	}
}

func TestParseInvalidFormatCode(t *testing.T) {
	_, err := Parse("[output]\nformat = \"gif\"")
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("error = %v, want INVALID_FORMAT", err)
	}
	_, err = Parse("[grid]\nborder = -1")
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("error = %v, want INVALID_CONFIG", err)
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	want := Default()
	want.Colors.Padding = raster.White
	want.Output.Scale = 2

	var buf bytes.Buffer
	if err := want.Encode(&buf); err != nil {
		t.Fatalf("Encode() error: %v", err)
	}
	got, err := Parse(buf.String())
	if err != nil {
		t.Fatalf("Parse(encoded) error: %v\n%s", err, buf.String())
	}
	if got != want {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, want)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gridtile.toml")
	if err := os.WriteFile(path, []byte("[server]\naddr = \":9000\"\nmax_cells = 2500\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Server.Addr != ":9000" || cfg.Server.MaxCells != 2500 {
		t.Errorf("unexpected server table: %+v", cfg.Server)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Load(missing) error = %v, want FILE_NOT_FOUND", err)
	}
}
