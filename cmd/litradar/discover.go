// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/meshintel/litradar/internal/agent"
	"github.com/meshintel/litradar/internal/cache"
	"github.com/meshintel/litradar/internal/completion"
	"github.com/meshintel/litradar/internal/livefeed"
	"github.com/meshintel/litradar/internal/swarm"
	"github.com/meshintel/litradar/pkg/types"
)

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Run the agent swarm and print a deduplicated feed",
	Long: `Discover runs every agent profile for the selected feed variant against
the active filters, verifies and normalizes the results, merges them with
duplicate removal, and prints the feed. Results are cached per variant and
topic set; a fresh cache entry is served without any network call.

The live variant reads journal RSS feeds instead of the completion service.`,
	RunE: runDiscover,
}

func init() {
	discoverCmd.Flags().StringSlice("topics", nil, "topics to search (mash, obesity, t2d, ckd, cvd; default all)")
	discoverCmd.Flags().Bool("all-topics", false, "search the full metabolic space without narrowing")
	discoverCmd.Flags().StringSlice("study-types", nil, "study type filter (rct, observational, ...)")
	discoverCmd.Flags().StringSlice("methodologies", nil, "methodology filter (human_clinical, lab_experimental, ...)")
	discoverCmd.Flags().String("cutoff", "", "oldest publication date to accept (YYYY-MM-DD, default 30 days ago)")
	discoverCmd.Flags().String("variant", "ai", "feed variant: ai, live, or patent")
	discoverCmd.Flags().Bool("parallel", false, "dispatch all agents concurrently")
	discoverCmd.Flags().Bool("no-cache", false, "bypass the response cache")
	discoverCmd.Flags().Bool("json", false, "output records as JSON")
	discoverCmd.Flags().String("save", "", "write the run to a YAML file")
	discoverCmd.Flags().String("model", "", "completion model identifier")

	rootCmd.AddCommand(discoverCmd)
}

func runDiscover(cmd *cobra.Command, args []string) error {
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
	asJSON, _ := cmd.Flags().GetBool("json")
	noCache, _ := cmd.Flags().GetBool("no-cache")
	savePath, _ := cmd.Flags().GetString("save")

	store, err := openStore(cfg.Cache)
	if err != nil {
		return err
	}
	c := cache.New(store, cfg.Cache, logger)
	defer c.Close()

	if !noCache {
		if records, ok := c.Get(variant, filters.Topics); ok {
			logger.Debug("cache hit", zap.Int("records", len(records)))
			return render(cmd, swarm.Output{Records: records}, asJSON)
		}
	}

	ctx := cmd.Context()
	var out swarm.Output
	if variant == types.FeedLive {
		out, err = runLive(ctx, cfg, filters, logger)
	} else {
		out, err = runSwarm(ctx, cmd, cfg, variant, filters, logger)
	}
	if err != nil {
		return err
	}

	if len(out.Records) > 0 {
		c.Put(variant, filters.Topics, out.Records)
	}
	if savePath != "" {
		if err := swarm.WriteRunFile(savePath, filters, variant, out); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Run saved to %s\n", savePath)
	}
	return render(cmd, out, asJSON)
}

func runSwarm(ctx context.Context, cmd *cobra.Command, cfg types.PipelineConfig, variant types.FeedVariant, filters agent.Filters, logger *zap.Logger) (swarm.Output, error) {
	client := completion.NewGeminiClient(cfg.AI, logger)
	if client.APIKey == "" {
		return swarm.Output{}, fmt.Errorf("no API key: provide .secrets/gemini-api-key, LITRADAR_AI_API_KEY, or ai.api_key in the config file")
	}

	parallel, _ := cmd.Flags().GetBool("parallel")
	cfg.Discovery.Parallel = cfg.Discovery.Parallel || parallel

	return swarm.Run(ctx, swarm.Options{
		Profiles:  agent.DefaultProfiles(variant),
		Filters:   filters,
		Client:    client,
		Verify:    cfg.Verify,
		Discovery: cfg.Discovery,
		OnBatch: func(name string, batch []types.PaperRecord) {
			fmt.Fprintf(os.Stderr, "agent %s: %d record(s)\n", name, len(batch))
		},
		Warnings: os.Stderr,
		Logger:   logger,
	})
}

func runLive(ctx context.Context, cfg types.PipelineConfig, filters agent.Filters, logger *zap.Logger) (swarm.Output, error) {
	if len(cfg.LiveFeed.FeedURLs) == 0 {
		return swarm.Output{}, fmt.Errorf("no feeds configured: set live_feed.feed_urls in the config file")
	}

	src := livefeed.New(cfg.LiveFeed, logger)
	cutoff := filters.Cutoff
	if cutoff.IsZero() {
		cutoff = time.Now().Add(-cfg.Discovery.CutoffWindow)
	}
	records, err := src.Fetch(ctx, filters.Topics, cutoff)
	if err != nil {
		return swarm.Output{}, err
	}

	fpLen := cfg.Discovery.FingerprintLen
	if fpLen <= 0 {
		fpLen = 24
	}
	merged, dups := swarm.Deduplicate(records, fpLen)
	return swarm.Output{Records: merged, DupsRemoved: dups}, nil
}

func render(cmd *cobra.Command, out swarm.Output, asJSON bool) error {
	if asJSON {
		return swarm.FormatJSON(out, cmd.OutOrStdout())
	}
	swarm.FormatTable(out, cmd.OutOrStdout())
	return nil
}

func parseVariant(cmd *cobra.Command) (types.FeedVariant, error) {
	raw, _ := cmd.Flags().GetString("variant")
	switch types.FeedVariant(raw) {
	case types.FeedAI, types.FeedLive, types.FeedPatent:
		return types.FeedVariant(raw), nil
	}
	return "", fmt.Errorf("unknown variant %q (want ai, live, or patent)", raw)
}

func parseFilters(cmd *cobra.Command) (agent.Filters, error) {
	var f agent.Filters
	f.AllTopics, _ = cmd.Flags().GetBool("all-topics")

	topics, _ := cmd.Flags().GetStringSlice("topics")
	for _, raw := range topics {
		t := types.Topic(strings.ToLower(strings.TrimSpace(raw)))
		if !validTopic(t) {
			return f, fmt.Errorf("unknown topic %q", raw)
		}
		f.Topics = append(f.Topics, t)
	}

	studyTypes, _ := cmd.Flags().GetStringSlice("study-types")
	for _, raw := range studyTypes {
		f.StudyTypes = append(f.StudyTypes, types.StudyType(strings.ToLower(strings.TrimSpace(raw))))
	}
	methodologies, _ := cmd.Flags().GetStringSlice("methodologies")
	for _, raw := range methodologies {
		f.Methodologies = append(f.Methodologies, types.Methodology(strings.ToLower(strings.TrimSpace(raw))))
	}

	if cutoff, _ := cmd.Flags().GetString("cutoff"); cutoff != "" {
		t, err := time.Parse("2006-01-02", cutoff)
		if err != nil {
			return f, fmt.Errorf("invalid cutoff %q: %w", cutoff, err)
		}
		f.Cutoff = t
	}
	return f, nil
}

func validTopic(t types.Topic) bool {
	for _, known := range agent.DefaultTopics() {
		if t == known {
			return true
		}
	}
	return t == types.TopicOther
}

// pipelineConfig assembles stage configuration from viper, flags, and
// loaded secrets. Flags win over the config file.
func pipelineConfig(cmd *cobra.Command) types.PipelineConfig {
	model, _ := cmd.Flags().GetString("model")
	if model == "" {
		model = viper.GetString("ai.model")
	}

	cfg := types.PipelineConfig{
		AI: types.AIConfig{
			Model:      model,
			APIKey:     secretDefault("gemini-api-key", viper.GetString("ai.api_key")),
			MaxRetries: viper.GetInt("ai.max_retries"),
		},
		Verify: types.VerifyConfig{
			Mode:             types.VerifyMode(viper.GetString("verify.mode")),
			OverlapThreshold: viper.GetFloat64("verify.overlap_threshold"),
		},
		Discovery: types.DiscoveryConfig{
			Parallel:        viper.GetBool("discovery.parallel"),
			InterAgentDelay: viper.GetDuration("discovery.inter_agent_delay"),
			FingerprintLen:  viper.GetInt("discovery.fingerprint_len"),
			CutoffWindow:    viper.GetDuration("discovery.cutoff_window"),
		},
		Cache: types.CacheConfig{
			Path:      viper.GetString("cache.path"),
			TTLLive:   viper.GetDuration("cache.ttl_live"),
			TTLAI:     viper.GetDuration("cache.ttl_ai"),
			TTLPatent: viper.GetDuration("cache.ttl_patent"),
		},
		LiveFeed: types.LiveFeedConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   viper.GetDuration("live_feed.timeout"),
				UserAgent: "litradar/0.1",
			},
			FeedURLs: viper.GetStringSlice("live_feed.feed_urls"),
		},
	}
	if cfg.Discovery.CutoffWindow <= 0 {
		cfg.Discovery.CutoffWindow = 30 * 24 * time.Hour
	}
	return cfg
}

func openStore(cfg types.CacheConfig) (cache.Store, error) {
	if cfg.Path == "" {
		return cache.NewMemoryStore(), nil
	}
	return cache.NewSQLiteStore(cfg.Path)
}
