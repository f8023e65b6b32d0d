package swarm

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/meshintel/litradar/internal/agent"
	"github.com/meshintel/litradar/internal/completion"
	"github.com/meshintel/litradar/pkg/types"
)

// mockClient routes completions by mission substring, so each profile in a
// swarm can get its own canned response.
type mockClient struct {
	mu        sync.Mutex
	calls     int
	responses map[string]completion.Result
	errs      map[string]error
}

func (m *mockClient) Complete(_ context.Context, prompt string, _ completion.Options) (completion.Result, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()

	for key, err := range m.errs {
		if strings.Contains(prompt, key) {
			return completion.Result{}, err
		}
	}
	for key, res := range m.responses {
		if strings.Contains(prompt, key) {
			return res, nil
		}
	}
	return completion.Result{Text: "[]"}, nil
}

func fenced(records string) string {
	return "Some prose first.\n```json\n" + records + "\n```\n"
}

func testOpts(client completion.Client, profiles ...agent.Profile) Options {
	return Options{
		Profiles: profiles,
		Filters: agent.Filters{
			Topics: []types.Topic{types.TopicCKD},
			Cutoff: time.Date(2026, 7, 31, 0, 0, 0, 0, time.UTC),
		},
		Client:    client,
		Verify:    types.VerifyConfig{Mode: types.VerifyStrict, OverlapThreshold: 0.4},
		Discovery: types.DiscoveryConfig{InterAgentDelay: time.Microsecond},
	}
}

func profile(name, mission string, score int) agent.Profile {
	return agent.Profile{Name: name, Mission: mission, BaseScore: score, Domains: []string{"nejm.org"}}
}

func TestRunEndToEnd(t *testing.T) {
	client := &mockClient{
		responses: map[string]completion.Result{
			"mission-one": {
				Text: fenced(`[{"title":"X","url":"","date":"2026-08-20","topic":"ckd"}]`),
				Citations: []types.Citation{
					{URL: "https://nature.com/x", Title: "X"},
				},
			},
		},
	}

	out, err := Run(context.Background(), testOpts(client, profile("one", "mission-one", 85)))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(out.Records) != 1 {
		t.Fatalf("records = %d, want 1", len(out.Records))
	}
	r := out.Records[0]
	if r.Title != "X" || r.URL != "https://nature.com/x" {
		t.Errorf("record not rewritten from citation: %+v", r)
	}
	if !r.AuthorsVerified {
		t.Error("grounded record must be verified")
	}
	if r.ValidationScore != 85 {
		t.Errorf("score = %d, want profile base 85", r.ValidationScore)
	}
	if r.ID == "" {
		t.Error("record needs a fresh ID")
	}
}

func TestRunDeduplicatesAcrossAgents(t *testing.T) {
	mk := func(title string) completion.Result {
		return completion.Result{
			Text: fenced(fmt.Sprintf(`[{"title":%q,"date":"2026-08-20"}]`, title)),
			Citations: []types.Citation{
				{URL: "https://nejm.org/ckd", Title: title},
			},
		}
	}
	client := &mockClient{
		responses: map[string]completion.Result{
			"mission-one": mk("Semaglutide Reduces CKD Risk"),
			"mission-two": mk("semaglutide reduces ckd risk!!"),
		},
	}

	out, err := Run(context.Background(), testOpts(client,
		profile("one", "mission-one", 85),
		profile("two", "mission-two", 55),
	))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(out.Records) != 1 {
		t.Fatalf("records = %d, want 1 after dedup", len(out.Records))
	}
	if out.DupsRemoved != 1 {
		t.Errorf("dups_removed = %d, want 1", out.DupsRemoved)
	}
	// First profile wins the tie, so its score survives.
	if out.Records[0].ValidationScore != 85 {
		t.Errorf("precision-first tie-break violated: score = %d", out.Records[0].ValidationScore)
	}
}

func TestRunParallelKeepsProfileOrderForDedup(t *testing.T) {
	mk := func(title string) completion.Result {
		return completion.Result{
			Text:      fenced(fmt.Sprintf(`[{"title":%q,"date":"2026-08-20"}]`, title)),
			Citations: []types.Citation{{URL: "https://x.org/a", Title: title}},
		}
	}
	client := &mockClient{
		responses: map[string]completion.Result{
			"mission-one": mk("Duplicate Title Paper"),
			"mission-two": mk("duplicate title paper"),
		},
	}

	opts := testOpts(client,
		profile("one", "mission-one", 90),
		profile("two", "mission-two", 40),
	)
	opts.Discovery.Parallel = true

	out, err := Run(context.Background(), opts)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(out.Records) != 1 || out.Records[0].ValidationScore != 90 {
		t.Errorf("parallel merge must still dedupe in profile order: %+v", out.Records)
	}
}

func TestRunAgentFailureDegrades(t *testing.T) {
	client := &mockClient{
		responses: map[string]completion.Result{
			"mission-good": {
				Text:      fenced(`[{"title":"Survivor","date":"2026-08-20"}]`),
				Citations: []types.Citation{{URL: "https://x.org/s", Title: "Survivor"}},
			},
		},
		errs: map[string]error{
			"mission-bad": errors.New("service exploded"),
		},
	}

	var warnings bytes.Buffer
	opts := testOpts(client,
		profile("bad", "mission-bad", 85),
		profile("good", "mission-good", 55),
	)
	opts.Warnings = &warnings

	out, err := Run(context.Background(), opts)
	if err != nil {
		t.Fatalf("one failing agent must not fail the swarm: %v", err)
	}
	if len(out.Records) != 1 {
		t.Errorf("surviving agent's records lost: %+v", out.Records)
	}
	if len(out.AgentErrors) != 1 || !strings.Contains(out.AgentErrors[0], "bad") {
		t.Errorf("agent error not recorded: %v", out.AgentErrors)
	}
	if !strings.Contains(warnings.String(), "service exploded") {
		t.Errorf("warning not written: %q", warnings.String())
	}
}

func TestRunAllAgentsFailed(t *testing.T) {
	client := &mockClient{
		errs: map[string]error{"mission": errors.New("down")},
	}

	_, err := Run(context.Background(), testOpts(client,
		profile("a", "mission-a", 85),
		profile("b", "mission-b", 55),
	))
	if !errors.Is(err, ErrAllAgentsFailed) {
		t.Fatalf("err = %v, want ErrAllAgentsFailed", err)
	}
}

func TestRunStreamsBatches(t *testing.T) {
	client := &mockClient{
		responses: map[string]completion.Result{
			"mission-one": {
				Text:      fenced(`[{"title":"First Paper","date":"2026-08-20"}]`),
				Citations: []types.Citation{{URL: "https://x.org/1", Title: "First Paper"}},
			},
			"mission-two": {
				Text:      fenced(`[{"title":"Second Paper","date":"2026-08-21"}]`),
				Citations: []types.Citation{{URL: "https://x.org/2", Title: "Second Paper"}},
			},
		},
	}

	var mu sync.Mutex
	batches := make(map[string]int)
	opts := testOpts(client,
		profile("one", "mission-one", 85),
		profile("two", "mission-two", 55),
	)
	opts.OnBatch = func(name string, batch []types.PaperRecord) {
		mu.Lock()
		batches[name] = len(batch)
		mu.Unlock()
	}

	if _, err := Run(context.Background(), opts); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if batches["one"] != 1 || batches["two"] != 1 {
		t.Errorf("batch callback not invoked per agent: %v", batches)
	}
}

func TestRunUngroundedResponseYieldsNothingStrict(t *testing.T) {
	// Empty citations means unverifiable; strict mode drops everything.
	client := &mockClient{
		responses: map[string]completion.Result{
			"mission-one": {Text: fenced(`[{"title":"Unverifiable","date":"2026-08-20"}]`)},
		},
	}

	out, err := Run(context.Background(), testOpts(client, profile("one", "mission-one", 85)))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(out.Records) != 0 {
		t.Errorf("uncited records must not survive strict mode: %+v", out.Records)
	}
}

func TestDeduplicateFingerprint(t *testing.T) {
	recs := []types.PaperRecord{
		{Title: "Semaglutide Reduces CKD Risk", ValidationScore: 85},
		{Title: "semaglutide reduces ckd risk!!", ValidationScore: 55},
		{Title: "A Different Paper Entirely", ValidationScore: 60},
	}

	out, removed := Deduplicate(recs, 24)
	if len(out) != 2 || removed != 1 {
		t.Fatalf("deduped = %d removed = %d, want 2/1", len(out), removed)
	}
	if out[0].ValidationScore != 85 {
		t.Error("first occurrence must win")
	}
}

func TestFingerprintTruncation(t *testing.T) {
	long := "An Extremely Long Title That Goes On And On Forever"
	if got := Fingerprint(long, 10); len(got) != 10 {
		t.Errorf("fingerprint length = %d, want 10", len(got))
	}
	if got := Fingerprint("abc", 10); got != "abc" {
		t.Errorf("short titles pass through, got %q", got)
	}
}
