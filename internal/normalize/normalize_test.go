package normalize

import (
	"testing"
	"time"

	"github.com/meshintel/litradar/internal/parse"
	"github.com/meshintel/litradar/internal/verify"
	"github.com/meshintel/litradar/pkg/types"
)

func init() {
	// Pin "now" so the trusted recent-year check is deterministic.
	nowFunc = func() time.Time {
		return time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	}
}

func verified(rec parse.RawRecord) verify.Verified {
	return verify.Verified{RawRecord: rec, AuthorsVerified: true}
}

func TestMapTopic(t *testing.T) {
	tests := []struct {
		in   string
		want types.Topic
	}{
		{"mash", types.TopicMASH},
		{"MASH", types.TopicMASH},
		{"NASH", types.TopicMASH},
		{"steatohepatitis", types.TopicMASH},
		{"Type 2 Diabetes", types.TopicT2D},
		{"chronic kidney disease", types.TopicCKD},
		{"Heart Failure", types.TopicCVD},
		{"weight loss", types.TopicObesity},
		{"oncology", types.TopicOther},
		{"", types.TopicOther},
		{"completely made up", types.TopicOther},
	}
	for _, tt := range tests {
		if got := MapTopic(tt.in); got != tt.want {
			t.Errorf("MapTopic(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestMapPublicationType(t *testing.T) {
	tests := []struct {
		in   string
		want types.PublicationType
	}{
		{"journal_article", types.PubJournalArticle},
		{"Journal Article", types.PubJournalArticle},
		{"Systematic Review", types.PubReview},
		{"trial", types.PubClinicalTrial},
		{"preprint", types.PubPreprint},
		{"patent application", types.PubPatent},
		{"something else", types.PubJournalArticle},
	}
	for _, tt := range tests {
		if got := MapPublicationType(tt.in); got != tt.want {
			t.Errorf("MapPublicationType(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestMapStudyType(t *testing.T) {
	tests := []struct {
		in   string
		want types.StudyType
	}{
		{"Randomized Controlled Trial", types.StudyRCT},
		{"randomised controlled trial", types.StudyRCT},
		{"RCT", types.StudyRCT},
		{"cohort study", types.StudyObservational},
		{"Meta-Analysis", types.StudyMetaAnalysis},
		{"animal study", types.StudyPreclinical},
		{"case series", types.StudyCaseReport},
		{"vibes", types.StudyOther},
	}
	for _, tt := range tests {
		if got := MapStudyType(tt.in); got != tt.want {
			t.Errorf("MapStudyType(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestMapMethodologyAndModality(t *testing.T) {
	if got := MapMethodology("in vivo"); got != types.MethodLabExperimental {
		t.Errorf("MapMethodology(in vivo) = %q", got)
	}
	if got := MapMethodology("machine learning"); got != types.MethodComputational {
		t.Errorf("MapMethodology(machine learning) = %q", got)
	}
	if got := MapMethodology("interpretive dance"); got != types.MethodOther {
		t.Errorf("unmapped methodology should default to other, got %q", got)
	}
	if got := MapModality("GLP-1 receptor agonist"); got != types.ModalityPeptide {
		t.Errorf("MapModality(GLP-1 receptor agonist) = %q", got)
	}
	if got := MapModality("siRNA"); got != types.ModalityRNA {
		t.Errorf("MapModality(siRNA) = %q", got)
	}
	if got := MapModality("monoclonal antibody"); got != types.ModalityAntibody {
		t.Errorf("MapModality(monoclonal antibody) = %q", got)
	}
	if got := MapModality("mystery juice"); got != types.ModalityOther {
		t.Errorf("unmapped modality should default to other, got %q", got)
	}
}

func TestRecordsDateCutoff(t *testing.T) {
	cutoff := time.Date(2026, 7, 31, 0, 0, 0, 0, time.UTC) // now - 30d

	recs := []verify.Verified{
		verified(parse.RawRecord{Title: "recent", Date: "2026-08-20"}),
		verified(parse.RawRecord{Title: "too old", Date: "2026-07-16"}),
	}

	got := Records(recs, Options{BaseScore: 80, Cutoff: cutoff})
	if len(got) != 1 {
		t.Fatalf("records = %d, want 1", len(got))
	}
	if got[0].Title != "recent" {
		t.Errorf("wrong record survived: %q", got[0].Title)
	}
}

func TestRecordsUnparseableDateNeedsRecentYear(t *testing.T) {
	cutoff := time.Date(2026, 7, 31, 0, 0, 0, 0, time.UTC)

	recs := []verify.Verified{
		verified(parse.RawRecord{Title: "GLP-1 update (2026)", Date: "spring"}),
		verified(parse.RawRecord{Title: "old news", Date: "sometime", AbstractHighlight: "findings from 2019"}),
	}

	got := Records(recs, Options{Cutoff: cutoff})
	if len(got) != 1 {
		t.Fatalf("records = %d, want 1", len(got))
	}
	if got[0].Title != "GLP-1 update (2026)" {
		t.Errorf("recent-year record should survive, got %q", got[0].Title)
	}
	if !got[0].Date.IsZero() {
		t.Errorf("unparseable date should stay zero, got %v", got[0].Date)
	}
}

func TestRecordsAssignsFreshIDs(t *testing.T) {
	recs := []verify.Verified{
		verified(parse.RawRecord{Title: "a", Date: "2026-08-20"}),
		verified(parse.RawRecord{Title: "b", Date: "2026-08-21"}),
	}

	got := Records(recs, Options{})
	if len(got) != 2 {
		t.Fatalf("records = %d, want 2", len(got))
	}
	if got[0].ID == "" || got[1].ID == "" {
		t.Error("every record needs an ID")
	}
	if got[0].ID == got[1].ID {
		t.Error("IDs must be unique")
	}
}

func TestRecordsCarriesProvenance(t *testing.T) {
	recs := []verify.Verified{
		{RawRecord: parse.RawRecord{Title: "a", Date: "2026-08-20", Topic: "NASH"}, AuthorsVerified: false},
	}

	got := Records(recs, Options{BaseScore: 120, Live: true})
	if len(got) != 1 {
		t.Fatalf("records = %d, want 1", len(got))
	}
	r := got[0]
	if r.AuthorsVerified {
		t.Error("unverified flag must carry through")
	}
	if !r.IsLive {
		t.Error("live flag must carry through")
	}
	if r.ValidationScore != 100 {
		t.Errorf("score should clamp to 100, got %d", r.ValidationScore)
	}
	if r.Topic != types.TopicMASH {
		t.Errorf("topic not mapped: %q", r.Topic)
	}
}
