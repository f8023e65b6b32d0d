// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/meshintel/litradar/internal/completion"
	"github.com/meshintel/litradar/internal/polish"
	"github.com/meshintel/litradar/internal/swarm"
)

var polishCmd = &cobra.Command{
	Use:   "polish [run-file]",
	Short: "Upgrade hub URLs in a saved run to direct article links",
	Long: `Polish scans a saved run for records whose URL points at a journal issue
page, table of contents, or generic index, and issues a narrowly scoped
completion call per record to find the direct article or PDF link. Records
that cannot be polished keep their original URL. The run file is rewritten
in place.`,
	Args: cobra.ExactArgs(1),
	RunE: runPolish,
}

func init() {
	rootCmd.AddCommand(polishCmd)
}

func runPolish(cmd *cobra.Command, args []string) error {
	logger := newLogger(cmd)
	defer logger.Sync()

	path := args[0]
	rf, err := swarm.ReadRunFile(path)
	if err != nil {
		return err
	}

	cfg := pipelineConfig(cmd)
	client := completion.NewGeminiClient(cfg.AI, logger)
	if client.APIKey == "" {
		return fmt.Errorf("no API key: provide .secrets/gemini-api-key, LITRADAR_AI_API_KEY, or ai.api_key in the config file")
	}
	p := polish.New(client, logger)

	var upgraded, failed int
	for i, rec := range rf.Records {
		if !polish.IsHubURL(rec.URL) {
			continue
		}
		polished, err := p.Polish(cmd.Context(), rec)
		if err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "warning: %v\n", err)
			continue
		}
		if polished == nil {
			failed++
			continue
		}
		rf.Records[i] = *polished
		upgraded++
	}

	if upgraded > 0 {
		filters, err := rf.Filters.ToFilters()
		if err != nil {
			return err
		}
		out := swarm.Output{
			Records:     rf.Records,
			DupsRemoved: rf.Summary.DupsRemoved,
			AgentErrors: rf.Summary.AgentErrors,
		}
		if err := swarm.WriteRunFile(path, filters, rf.Variant, out); err != nil {
			return err
		}
	}

	fmt.Fprintf(os.Stderr, "%d link(s) upgraded, %d left unchanged\n", upgraded, failed)
	return nil
}
