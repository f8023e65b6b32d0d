// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/meshintel/litradar/internal/cache"
	"github.com/meshintel/litradar/pkg/types"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and manage the response cache",
}

// --- clear subcommand ---

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Invalidate the cache entry for a variant and topic set",
	Long: `Clear removes the cached feed for the given variant and topic set, so
the next discover run goes back to the network. Topic order does not matter.`,
	RunE: runCacheClear,
}

func runCacheClear(cmd *cobra.Command, args []string) error {
	logger := newLogger(cmd)
	defer logger.Sync()

	variant, err := parseVariant(cmd)
	if err != nil {
		return err
	}
	filters, err := parseFilters(cmd)
	if err != nil {
		return err
	}

	cfg := pipelineConfig(cmd)
	if cfg.Cache.Path == "" {
		return fmt.Errorf("no cache database configured: set cache.path in the config file")
	}
	store, err := cache.NewSQLiteStore(cfg.Cache.Path)
	if err != nil {
		return err
	}
	c := cache.New(store, cfg.Cache, logger)
	defer c.Close()

	c.Invalidate(variant, filters.Topics)
	fmt.Fprintf(cmd.OutOrStdout(), "Cleared %s\n", cache.Key(variant, filters.Topics))
	return nil
}

// --- key subcommand ---

var cacheKeyCmd = &cobra.Command{
	Use:   "key",
	Short: "Print the cache key for a variant and topic set",
	RunE: func(cmd *cobra.Command, args []string) error {
		variant, err := parseVariant(cmd)
		if err != nil {
			return err
		}
		filters, err := parseFilters(cmd)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), cache.Key(variant, filters.Topics))
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{cacheClearCmd, cacheKeyCmd} {
		c.Flags().String("variant", string(types.FeedAI), "feed variant: ai, live, or patent")
		c.Flags().StringSlice("topics", nil, "topics in the cached filter set")
		c.Flags().Bool("all-topics", false, "filter set covered all topics")
		cacheCmd.AddCommand(c)
	}
	rootCmd.AddCommand(cacheCmd)
}
