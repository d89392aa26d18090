package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/msto63/grab/foundation/utils/filex"
	"github.com/msto63/grab/foundation/utils/timex"
	"github.com/msto63/grab/internal/fetch"
)

var pruneOlderThan time.Duration

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the page cache",
	Long: `Pages fetched by LOAD URL are kept in a sqlite database when
fetch.cache_enabled is set. These commands inspect and shrink it.`,
}

var cachePruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Remove pages older than a duration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(ctx context.Context, store *fetch.Store, ttl time.Duration) error {
			age := pruneOlderThan
			if age <= 0 {
				age = ttl
			}
			n, err := store.Prune(ctx, age)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d page(s) older than %s\n", n, timex.FormatDurationCompact(age))
			return nil
		})
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every cached page",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(ctx context.Context, store *fetch.Store, _ time.Duration) error {
			n, err := store.Clear(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d page(s)\n", n)
			return nil
		})
	},
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cache size and age",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(ctx context.Context, store *fetch.Store, _ time.Duration) error {
			stats, err := store.Stats(ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Page cache\n")
			fmt.Fprintf(out, "  Path:   %s\n", stats.Path)
			fmt.Fprintf(out, "  Pages:  %d\n", stats.Pages)
			fmt.Fprintf(out, "  Size:   %s\n", filex.FormatSize(stats.Bytes))
			if stats.Pages > 0 {
				now := time.Now()
				fmt.Fprintf(out, "  Oldest: %s (%s)\n", stats.Oldest.Format(time.RFC3339), timex.Ago(stats.Oldest, now))
				fmt.Fprintf(out, "  Newest: %s (%s)\n", stats.Newest.Format(time.RFC3339), timex.Ago(stats.Newest, now))
			}
			return nil
		})
	},
}

func init() {
	cachePruneCmd.Flags().DurationVar(&pruneOlderThan, "older-than", 0, "maximum page age (default: fetch.cache_ttl)")
	cacheCmd.AddCommand(cachePruneCmd, cacheClearCmd, cacheStatsCmd)
	rootCmd.AddCommand(cacheCmd)
}

// withStore opens the configured page store, whether or not caching is
// enabled for runs
func withStore(fn func(ctx context.Context, store *fetch.Store, ttl time.Duration) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := fetch.OpenStore(cfg.Fetch.CachePath)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(context.Background(), store, cfg.Fetch.CacheTTL.Duration)
}
