package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/gridtile/pkg/buildinfo"
	"github.com/matzehuels/gridtile/pkg/cache"
	"github.com/matzehuels/gridtile/pkg/config"
	"github.com/matzehuels/gridtile/pkg/httputil"
	"github.com/matzehuels/gridtile/pkg/observability"
	"github.com/matzehuels/gridtile/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "gridtile"

	// configFile is the default config file name inside the config dir.
	configFile = "config.toml"

	// serverKeyPrefix namespaces cache keys written by the render server.
	serverKeyPrefix = "gridtile:"

	// feedTTL is how long a fetched puzzle definition is reused.
	feedTTL = 24 * time.Hour
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// ConfigPath is the --config flag. Empty means the default location,
	// which may not exist.
	ConfigPath string

	// Config is loaded before any subcommand runs.
	Config config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "gridtile renders crossword grids as square images",
		Long:         `gridtile turns crossword puzzle definitions into square bitmap images for publication: it pads the grid toward square, draws blocks, open cells and circled squares, and centers the result on a square canvas.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := c.loadConfig(); err != nil {
				return err
			}
			c.registerHooks()
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.ConfigPath, "config", "", "config file (default $XDG_CONFIG_HOME/gridtile/config.toml)")

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.previewCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the config file. A missing default file is not an
// error; a missing explicit --config file is.
func (c *CLI) loadConfig() error {
	path := c.ConfigPath
	if path == "" {
		def, err := configPath()
		if err != nil {
			return nil
		}
		if _, err := os.Stat(def); err != nil {
			return nil
		}
		path = def
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	c.Config = cfg
	c.Logger.Debug("loaded config", "path", path)
	return nil
}

// registerHooks routes observability events to the debug log.
func (c *CLI) registerHooks() {
	h := &logHooks{logger: c.Logger}
	observability.SetPipelineHooks(h)
	observability.SetCacheHooks(h)
	observability.SetServerHooks(h)
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner backed by the configured cache.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	store, keyer, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(store, keyer, c.Logger), nil
}

// newCache opens the cache backend named in the [cache] table.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, cache.Keyer, error) {
	if noCache {
		return cache.NewNullCache(), nil, nil
	}
	switch c.Config.Cache.Backend {
	case config.BackendNone:
		return cache.NewNullCache(), nil, nil
	case config.BackendRedis:
		rc, err := cache.NewRedisCache(ctx, c.Config.Cache.RedisAddr)
		if err != nil {
			return nil, nil, err
		}
		return rc, cache.NewScopedKeyer(nil, serverKeyPrefix), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil, nil
	}
	fc, err := cache.NewFileCache(filepath.Join(dir, "images"))
	if err != nil {
		return nil, nil, err
	}
	return fc, nil, nil
}

// newFeedClient returns the client used for http(s) inputs. Fetched
// definitions are cached under the cache dir when it is usable.
func (c *CLI) newFeedClient() *httputil.Client {
	headers := map[string]string{"User-Agent": appName + "/" + buildinfo.Version}
	dir, err := cacheDir()
	if err != nil {
		return httputil.NewClient(nil, headers)
	}
	fc, err := httputil.NewCache(filepath.Join(dir, "feeds"), feedTTL)
	if err != nil {
		c.Logger.Warn("feed cache disabled", "error", err)
		return httputil.NewClient(nil, headers)
	}
	return httputil.NewClient(fc, headers)
}

// pipelineOptions returns the options described by the loaded config.
func (c *CLI) pipelineOptions() pipeline.Options {
	return pipeline.Options{
		Format:   c.Config.Output.Format,
		Scale:    c.Config.Output.Scale,
		Config:   c.Config.Render(),
		Logger:   c.Logger,
		MaxCells: c.Config.Server.MaxCells,
	}
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/gridtile/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// configPath returns the default config file (~/.config/gridtile/config.toml).
func configPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, configFile), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, configFile), nil
}
