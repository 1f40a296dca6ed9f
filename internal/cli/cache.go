package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/railroute/internal/config"
	"github.com/matzehuels/railroute/pkg/cache"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the precomputed connection table cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached connection tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCacheClear(cmd.Context())
		},
	}
}

func (c *CLI) runCacheClear(ctx context.Context) error {
	cfg := c.Config.Cache
	if cfg.Backend == config.CacheNone {
		printInfo("Caching is disabled")
		return nil
	}
	if cfg.Backend == config.CacheFile {
		dir, err := cacheDir(cfg)
		if err != nil {
			return fmt.Errorf("get cache dir: %w", err)
		}
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			printInfo("Cache is empty")
			return nil
		}
	}

	store, err := newCache(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	clearer, ok := store.(cache.Clearer)
	if !ok {
		printWarning("The %s cache is unavailable", cfg.Backend)
		return nil
	}
	n, err := clearer.Clear(ctx)
	if err != nil {
		return fmt.Errorf("clear cache: %w", err)
	}

	printSuccess("Cleared %d cached entries", n)
	printDetail("Backend: %s", describeCache(cfg))
	return nil
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print where cached tables are stored",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println(describeCache(c.Config.Cache))
			return nil
		},
	}
}

// describeCache names the storage location of the configured backend.
func describeCache(cfg config.Cache) string {
	switch cfg.Backend {
	case config.CacheNone:
		return "disabled"
	case config.CacheRedis:
		return fmt.Sprintf("redis://%s/%d (prefix %q)", cfg.RedisAddr, cfg.RedisDB, cfg.Prefix)
	}
	dir, err := cacheDir(cfg)
	if err != nil {
		return "unavailable: " + err.Error()
	}
	return dir
}
