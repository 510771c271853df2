package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/hyperkey/pkg/cache"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the realization and render cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached results from the configured backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCacheClear(cmd.Context())
		},
	}
}

func (c *CLI) runCacheClear(ctx context.Context) error {
	cfg := c.Config.Cache
	if cfg.Backend == "file" || cfg.Backend == "" {
		dir, err := c.fileCacheDir()
		if err != nil {
			return err
		}
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			printInfo("Cache is empty")
			return nil
		}
	}

	cc, err := newCache(ctx, cfg, false)
	if err != nil {
		return err
	}
	defer cc.Close()

	var count int
	switch cc := cc.(type) {
	case *cache.FileCache:
		count, err = cc.Clear()
	case *cache.RedisCache:
		count, err = cc.Clear(ctx)
	case *cache.MongoCache:
		count, err = cc.Clear(ctx)
	default:
		printInfo("Caching is disabled")
		return nil
	}
	if err != nil {
		return fmt.Errorf("clear %s cache: %w", cfg.Backend, err)
	}

	printSuccess("Cleared %d cached entries", count)
	printDetail("Backend: %s", cfg.Backend)
	return nil
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			if b := c.Config.Cache.Backend; b != "file" {
				printWarning("Cache backend is %s; the directory is unused", b)
			}
			dir, err := c.fileCacheDir()
			if err != nil {
				return err
			}
			fmt.Fprintln(c.out, dir)
			return nil
		},
	}
}

// fileCacheDir returns the configured file cache directory.
func (c *CLI) fileCacheDir() (string, error) {
	if dir := c.Config.Cache.Dir; dir != "" {
		return dir, nil
	}
	dir, err := cacheDir()
	if err != nil {
		return "", fmt.Errorf("get cache dir: %w", err)
	}
	return dir, nil
}
