package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gridtile/pkg/cache"
	"github.com/matzehuels/gridtile/pkg/config"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the image and feed caches",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached images and fetched puzzles",
		RunE: func(cmd *cobra.Command, args []string) error {
			switch c.Config.Cache.Backend {
			case config.BackendNone:
				printInfo("Caching is disabled")
				return nil
			case config.BackendRedis:
				rc, err := cache.NewRedisCache(cmd.Context(), c.Config.Cache.RedisAddr)
				if err != nil {
					return err
				}
				defer rc.Close()
				n, err := rc.DeletePrefix(cmd.Context(), serverKeyPrefix)
				if err != nil {
					return err
				}
				printSuccess("Cleared %d cached %s", n, plural(n, "image"))
				printDetail("Redis: %s", c.Config.Cache.RedisAddr)
				return nil
			}

			dir, err := cacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			n, err := clearFileCache(dir)
			if err != nil {
				return err
			}
			if n == 0 {
				printInfo("Cache is empty")
				return nil
			}
			printSuccess("Cleared %d cached %s", n, plural(n, "file"))
			printDetail("Directory: %s", dir)
			return nil
		},
	}
}

// clearFileCache empties the file cache in dir without creating it.
func clearFileCache(dir string) (int, error) {
	if !dirExists(dir) {
		return 0, nil
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return 0, err
	}
	return fc.Clear()
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache location",
		RunE: func(cmd *cobra.Command, args []string) error {
			if c.Config.Cache.Backend == config.BackendRedis {
				fmt.Println("redis://" + c.Config.Cache.RedisAddr)
				return nil
			}
			dir, err := cacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fmt.Println(dir)
			return nil
		},
	}
}

func dirExists(dir string) bool {
	info, err := os.Stat(dir)
	return err == nil && info.IsDir()
}
