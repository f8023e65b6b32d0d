// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package swarm dispatches agent profiles against the completion service,
// runs each response through parse/verify/normalize, and merges the verified
// batches into one deduplicated result set.
package swarm

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/meshintel/litradar/internal/agent"
	"github.com/meshintel/litradar/internal/completion"
	"github.com/meshintel/litradar/internal/normalize"
	"github.com/meshintel/litradar/internal/parse"
	"github.com/meshintel/litradar/internal/verify"
	"github.com/meshintel/litradar/pkg/types"
)

// ErrAllAgentsFailed reports that every agent in the swarm errored and no
// records could be produced at all. Callers distinguish this from an empty
// result, which just means the filters matched nothing.
var ErrAllAgentsFailed = fmt.Errorf("all agents failed")

const (
	defaultInterAgentDelay = 500 * time.Millisecond
	defaultFingerprintLen  = 24
)

// Options configures one swarm run.
type Options struct {
	Profiles []agent.Profile
	Filters  agent.Filters
	Client   completion.Client

	Verify    types.VerifyConfig
	Discovery types.DiscoveryConfig

	// OnBatch, when set, receives each agent's verified batch as soon as
	// that agent completes. Cross-agent ordering is not guaranteed; within a
	// batch, insertion order is preserved. Batches are pre-deduplication.
	OnBatch func(profile string, batch []types.PaperRecord)

	// Warnings receives per-agent failure notices. Nil discards them.
	Warnings io.Writer

	Logger *zap.Logger
}

// Output holds the merged records and run statistics.
type Output struct {
	Records     []types.PaperRecord
	DupsRemoved int
	AgentErrors []string
}

// Run executes every profile and merges the results. Per-agent failures
// degrade to warnings and zero results; only a swarm where every agent failed
// returns ErrAllAgentsFailed.
func Run(ctx context.Context, opts Options) (Output, error) {
	if len(opts.Profiles) == 0 {
		return Output{}, fmt.Errorf("no agent profiles configured")
	}
	if opts.Client == nil {
		return Output{}, fmt.Errorf("no completion client configured")
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	warnings := opts.Warnings
	if warnings == nil {
		warnings = io.Discard
	}
	if opts.Filters.Cutoff.IsZero() {
		window := opts.Discovery.CutoffWindow
		if window <= 0 {
			window = 30 * 24 * time.Hour
		}
		opts.Filters.Cutoff = time.Now().Add(-window)
	}

	// Batches are collected per profile index so the merge dedupes in
	// profile order regardless of completion order: precision agents are
	// listed first, so they win duplicate ties.
	batches := make([][]types.PaperRecord, len(opts.Profiles))
	errs := make([]error, len(opts.Profiles))

	if opts.Discovery.Parallel {
		var wg sync.WaitGroup
		for i, p := range opts.Profiles {
			wg.Add(1)
			go func(i int, p agent.Profile) {
				defer wg.Done()
				batches[i], errs[i] = runAgent(ctx, p, opts, logger)
			}(i, p)
		}
		wg.Wait()
	} else {
		delay := opts.Discovery.InterAgentDelay
		if delay <= 0 {
			delay = defaultInterAgentDelay
		}
		for i, p := range opts.Profiles {
			if i > 0 {
				select {
				case <-ctx.Done():
					return Output{}, ctx.Err()
				case <-time.After(delay):
				}
			}
			batches[i], errs[i] = runAgent(ctx, p, opts, logger)
		}
	}

	var out Output
	failed := 0
	for i, err := range errs {
		if err != nil {
			failed++
			msg := fmt.Sprintf("%s: %v", opts.Profiles[i].Name, err)
			out.AgentErrors = append(out.AgentErrors, msg)
			fmt.Fprintf(warnings, "warning: agent %s failed: %v\n", opts.Profiles[i].Name, err)
		}
	}
	if failed == len(opts.Profiles) {
		return out, ErrAllAgentsFailed
	}

	fpLen := opts.Discovery.FingerprintLen
	if fpLen <= 0 {
		fpLen = defaultFingerprintLen
	}

	var all []types.PaperRecord
	for _, batch := range batches {
		all = append(all, batch...)
	}
	out.Records, out.DupsRemoved = Deduplicate(all, fpLen)

	logger.Info("swarm run complete",
		zap.Int("agents", len(opts.Profiles)),
		zap.Int("failed", failed),
		zap.Int("records", len(out.Records)),
		zap.Int("dups_removed", out.DupsRemoved))

	return out, nil
}

// runAgent executes one profile end to end: prompt, grounded completion,
// parse, verify, normalize. The batch callback fires before returning.
func runAgent(ctx context.Context, p agent.Profile, opts Options, logger *zap.Logger) ([]types.PaperRecord, error) {
	prompt := agent.BuildPrompt(p, opts.Filters)

	res, err := opts.Client.Complete(ctx, prompt, completion.Options{Grounding: true})
	if err != nil {
		return nil, err
	}

	raw := parse.Records(res.Text)
	verified := verify.Verify(raw, res.Citations, opts.Verify)
	batch := normalize.Records(verified, normalize.Options{
		BaseScore: p.BaseScore,
		Cutoff:    opts.Filters.Cutoff,
	})

	logger.Debug("agent batch",
		zap.String("agent", p.Name),
		zap.Int("parsed", len(raw)),
		zap.Int("verified", len(verified)),
		zap.Int("kept", len(batch)))

	if opts.OnBatch != nil && len(batch) > 0 {
		opts.OnBatch(p.Name, batch)
	}
	return batch, nil
}

// Fingerprint derives the deduplication key for a title: the normalized form
// truncated to n characters.
func Fingerprint(title string, n int) string {
	norm := verify.NormalizeTitle(title)
	if len(norm) > n {
		return norm[:n]
	}
	return norm
}

// Deduplicate removes records sharing a title fingerprint. The first
// occurrence wins, so the caller's ordering decides which duplicate's
// metadata survives.
func Deduplicate(records []types.PaperRecord, fpLen int) ([]types.PaperRecord, int) {
	seen := make(map[string]bool, len(records))
	out := make([]types.PaperRecord, 0, len(records))
	removed := 0

	for _, r := range records {
		fp := Fingerprint(r.Title, fpLen)
		if fp != "" && seen[fp] {
			removed++
			continue
		}
		seen[fp] = true
		out = append(out, r)
	}
	return out, removed
}
