// Package config loads gridtile settings from TOML.
//
// A config file only needs the keys it changes; everything else keeps the
// house style from [Default]:
//
//	[grid]
//	cell_size = 40
//	grid_line = 4
//	border    = 0
//
//	[colors]
//	fill       = "#000000"
//	background = "#ffffff"
//	line       = "#505050"
//	padding    = "#000000"
//
//	[output]
//	format = "png"
//	scale  = 1
//	dir    = "puzzle_images"
//
//	[cache]
//	backend    = "file"   # file, redis or none
//	redis_addr = "localhost:6379"
//	ttl        = "720h"
//
//	[server]
//	addr      = ":8080"
//	max_cells = 10000   # longest grid side squared
package config

import (
	"io"
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/gridtile/pkg/errors"
	"github.com/matzehuels/gridtile/pkg/pipeline"
	"github.com/matzehuels/gridtile/pkg/raster"
	"github.com/matzehuels/gridtile/pkg/raster/sink"
)

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// Defaults for the non-visual settings.
const (
	DefaultOutputDir = "puzzle_images"
	DefaultRedisAddr = "localhost:6379"
	DefaultCacheTTL  = 30 * 24 * time.Hour
	DefaultAddr      = ":8080"
)

// Config is the full set of settings.
type Config struct {
	Grid   Grid   `toml:"grid"`
	Colors Colors `toml:"colors"`
	Output Output `toml:"output"`
	Cache  Cache  `toml:"cache"`
	Server Server `toml:"server"`
}

// Grid holds pixel sizes.
type Grid struct {
	CellSize int `toml:"cell_size"`
	GridLine int `toml:"grid_line"`
	Border   int `toml:"border"`
}

// Colors holds the palette. Values are "#rrggbb" strings in the file.
type Colors struct {
	Fill       raster.Color `toml:"fill"`
	Background raster.Color `toml:"background"`
	Line       raster.Color `toml:"line"`
	Padding    raster.Color `toml:"padding"`
}

// Output controls the encoder sink.
type Output struct {
	Format string `toml:"format"`
	Scale  int    `toml:"scale"`
	Dir    string `toml:"dir"`
}

// Cache selects the artifact cache backend.
type Cache struct {
	Backend   string   `toml:"backend"`
	RedisAddr string   `toml:"redis_addr"`
	TTL       Duration `toml:"ttl"`
}

// Server configures the HTTP render server.
type Server struct {
	Addr     string `toml:"addr"`
	MaxCells int    `toml:"max_cells"`
}

// Duration is a time.Duration that reads and writes as "720h" style text.
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid duration %q", text)
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the built-in settings.
func Default() Config {
	style := raster.DefaultConfig()
	return Config{
		Grid: Grid{
			CellSize: style.CellSize,
			GridLine: style.GridLine,
			Border:   style.Border,
		},
		Colors: Colors{
			Fill:       style.Fill,
			Background: style.Background,
			Line:       style.Line,
			Padding:    style.Padding,
		},
		Output: Output{
			Format: sink.DefaultFormat,
			Scale:  1,
			Dir:    DefaultOutputDir,
		},
		Cache: Cache{
			Backend:   BackendFile,
			RedisAddr: DefaultRedisAddr,
			TTL:       Duration{DefaultCacheTTL},
		},
		Server: Server{Addr: DefaultAddr, MaxCells: pipeline.DefaultMaxCells},
	}
}

// Load reads the TOML file at path on top of [Default] and validates the
// result. Unknown keys are rejected so that typos do not pass silently.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
		}
		return Config{}, err
	}
	return Parse(string(data))
}

// Parse decodes TOML text on top of [Default] and validates the result.
func Parse(text string) (Config, error) {
	cfg := Default()
	md, err := toml.Decode(text, &cfg)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, errors.New(errors.ErrCodeInvalidConfig, "unknown config key %q", undecoded[0].String())
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks every table.
func (c Config) Validate() error {
	if err := c.Render().Validate(); err != nil {
		return err
	}
	if err := sink.ValidateFormat(c.Output.Format); err != nil {
		return err
	}
	if c.Output.Scale < 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "output scale must be at least 1, got %d", c.Output.Scale)
	}
	switch c.Cache.Backend {
	case BackendFile, BackendNone:
	case BackendRedis:
		if c.Cache.RedisAddr == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "redis backend needs cache.redis_addr")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q (must be file, redis or none)", c.Cache.Backend)
	}
	if c.Cache.TTL.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "cache ttl cannot be negative")
	}
	if c.Server.MaxCells < 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "server max_cells must be positive, got %d", c.Server.MaxCells)
	}
	return nil
}

// Render returns the raster style described by the [grid] and [colors]
// tables.
func (c Config) Render() raster.Config {
	return raster.Config{
		CellSize:   c.Grid.CellSize,
		GridLine:   c.Grid.GridLine,
		Border:     c.Grid.Border,
		Fill:       c.Colors.Fill,
		Background: c.Colors.Background,
		Line:       c.Colors.Line,
		Padding:    c.Colors.Padding,
	}
}

// Encode writes c as TOML.
func (c Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}
