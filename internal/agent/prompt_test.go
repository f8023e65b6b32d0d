package agent

import (
	"strings"
	"testing"
	"time"

	"github.com/meshintel/litradar/pkg/types"
)

func testFilters(topics ...types.Topic) Filters {
	return Filters{
		Topics: topics,
		Cutoff: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestBuildQueryExpandsTopicSynonyms(t *testing.T) {
	p := DefaultProfiles(types.FeedAI)[0]
	q := buildQuery(p, testFilters(types.TopicMASH))

	for _, syn := range []string{"MASH", "NASH", "MASLD", "steatohepatitis"} {
		if !strings.Contains(q, syn) {
			t.Errorf("query missing synonym %q: %s", syn, q)
		}
	}
}

func TestBuildQuerySiteRestriction(t *testing.T) {
	p := Profile{Name: "x", Domains: []string{"nejm.org", "nature.com"}}
	q := buildQuery(p, testFilters(types.TopicCKD))

	if !strings.Contains(q, "site:nejm.org OR site:nature.com") {
		t.Errorf("query missing site disjunction: %s", q)
	}
}

func TestBuildQueryEmptyTopicsUsesDefaultSet(t *testing.T) {
	p := Profile{Name: "x"}
	q := buildQuery(p, testFilters())

	// The default broad set covers every topic with a synonym table entry,
	// so an empty filter never produces an unconstrained query.
	for _, want := range []string{"MASH", "obesity", "type 2 diabetes", "chronic kidney disease", "cardiovascular disease"} {
		if !strings.Contains(q, want) {
			t.Errorf("default-set query missing %q: %s", want, q)
		}
	}
}

func TestBuildQueryExcludeAnchorsNegated(t *testing.T) {
	p := Profile{Name: "x", ExcludeAnchors: []string{"retracted", "press release"}}
	q := buildQuery(p, testFilters(types.TopicObesity))

	if !strings.Contains(q, "-retracted") {
		t.Errorf("query missing negated anchor: %s", q)
	}
	if !strings.Contains(q, `-"press release"`) {
		t.Errorf("multiword exclusion should be quoted: %s", q)
	}
}

func TestBuildQueryCutoff(t *testing.T) {
	p := Profile{Name: "x"}
	q := buildQuery(p, testFilters(types.TopicT2D))

	if !strings.Contains(q, "after:2026-08-01") {
		t.Errorf("query missing date cutoff: %s", q)
	}
}

func TestBuildPromptNamesEveryEnumValue(t *testing.T) {
	p := DefaultProfiles(types.FeedAI)[0]
	prompt := BuildPrompt(p, testFilters(types.TopicMASH))

	for _, v := range []string{
		`"mash"`, `"obesity"`, `"t2d"`, `"ckd"`, `"cvd"`, `"other"`,
		`"journal_article"`, `"clinical_trial"`, `"preprint"`, `"review"`, `"conference_abstract"`, `"patent"`,
		`"rct"`, `"observational"`, `"meta_analysis"`, `"preclinical"`, `"case_report"`,
		`"human_clinical"`, `"lab_experimental"`, `"computational"`, `"epidemiological"`,
		`"small_molecule"`, `"peptide"`, `"antibody"`, `"gene_therapy"`, `"rna"`,
	} {
		if !strings.Contains(prompt, v) {
			t.Errorf("prompt schema missing enum value %s", v)
		}
	}
}

func TestBuildPromptAllTopicsBroadens(t *testing.T) {
	p := DefaultProfiles(types.FeedAI)[0]
	f := testFilters()
	f.AllTopics = true

	prompt := BuildPrompt(p, f)
	if !strings.Contains(prompt, "do not narrow") {
		t.Errorf("all-topics prompt should instruct the model to broaden:\n%s", prompt)
	}
}

func TestBuildPromptLabExperimentalExpansion(t *testing.T) {
	p := DefaultProfiles(types.FeedAI)[0]
	f := testFilters(types.TopicMASH)
	f.Methodologies = []types.Methodology{types.MethodLabExperimental}

	prompt := BuildPrompt(p, f)
	for _, term := range []string{"in vivo", "in vitro", "animal model", "organoid"} {
		if !strings.Contains(prompt, term) {
			t.Errorf("lab_experimental should expand to %q:\n%s", term, prompt)
		}
	}
}

func TestDefaultProfilesPrecisionFirst(t *testing.T) {
	profiles := DefaultProfiles(types.FeedAI)
	if len(profiles) < 2 {
		t.Fatalf("expected multiple profiles, got %d", len(profiles))
	}
	if !profiles[0].Precision() {
		t.Error("first profile should be a precision (site-restricted) agent")
	}
	last := profiles[len(profiles)-1]
	if last.Precision() {
		t.Error("last profile should be the broad trawler")
	}
	if profiles[0].BaseScore <= last.BaseScore {
		t.Errorf("precision score %d should exceed trawler score %d", profiles[0].BaseScore, last.BaseScore)
	}
}

func TestDefaultProfilesPatentVariant(t *testing.T) {
	profiles := DefaultProfiles(types.FeedPatent)
	if len(profiles) != 1 {
		t.Fatalf("expected 1 patent profile, got %d", len(profiles))
	}
	if profiles[0].Domains[0] != "patents.google.com" {
		t.Errorf("patent profile should restrict to patents.google.com, got %v", profiles[0].Domains)
	}
}
