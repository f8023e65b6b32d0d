// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package agent

import "github.com/meshintel/litradar/pkg/types"

// Profile is one named query profile dispatched as an independent completion
// request: a source-domain restriction plus topic/method scope and a base
// trust score for the records it finds.
type Profile struct {
	// Name identifies the profile in logs and run summaries.
	Name string

	// Mission is the natural-language statement that opens the prompt.
	Mission string

	// Domains restricts the search to these source sites. Empty means no
	// restriction (a broad trawler).
	Domains []string

	// IncludeAnchors are keywords every query from this profile carries.
	IncludeAnchors []string

	// ExcludeAnchors are negated keywords appended to the query.
	ExcludeAnchors []string

	// BaseScore seeds ValidationScore for records this profile finds.
	BaseScore int

	// Variant is the feed this profile serves.
	Variant types.FeedVariant
}

// Precision reports whether the profile restricts sources, which makes its
// results higher-trust than a trawler's.
func (p Profile) Precision() bool { return len(p.Domains) > 0 }

// DefaultProfiles returns the swarm for a feed variant. Precision profiles
// come first: the merge step keeps the first occurrence of a duplicate, so
// ordering is the precision-first tie-break.
func DefaultProfiles(variant types.FeedVariant) []Profile {
	switch variant {
	case types.FeedPatent:
		return []Profile{
			{
				Name:    "patent-scout",
				Mission: "Find recently published patent applications and grants covering metabolic-disease therapeutics.",
				Domains: []string{"patents.google.com"},
				IncludeAnchors: []string{
					"patent", "composition", "method of treatment",
				},
				BaseScore: 75,
				Variant:   types.FeedPatent,
			},
		}
	case types.FeedLive:
		return []Profile{
			{
				Name:    "journal-watch",
				Mission: "Find papers published in the last few days in top-tier clinical journals.",
				Domains: []string{"nejm.org", "thelancet.com", "jamanetwork.com", "nature.com"},
				IncludeAnchors: []string{
					"published", "original article",
				},
				BaseScore: 90,
				Variant:   types.FeedLive,
			},
			{
				Name:      "preprint-watch",
				Mission:   "Find preprints posted this week on biomedical preprint servers.",
				Domains:   []string{"medrxiv.org", "biorxiv.org"},
				BaseScore: 70,
				Variant:   types.FeedLive,
			},
		}
	default:
		return []Profile{
			{
				Name:    "clinical-precision",
				Mission: "Find peer-reviewed clinical papers from major medical journals.",
				Domains: []string{"nejm.org", "thelancet.com", "jamanetwork.com", "pubmed.ncbi.nlm.nih.gov"},
				IncludeAnchors: []string{
					"randomized", "trial", "outcomes",
				},
				ExcludeAnchors: []string{"retracted"},
				BaseScore:      85,
				Variant:        types.FeedAI,
			},
			{
				Name:    "translational-precision",
				Mission: "Find translational and preclinical papers from high-impact science journals.",
				Domains: []string{"nature.com", "science.org", "cell.com"},
				IncludeAnchors: []string{
					"mechanism", "target",
				},
				BaseScore: 80,
				Variant:   types.FeedAI,
			},
			{
				Name:    "trawler",
				Mission: "Cast a wide net across the biomedical literature for anything recent and relevant.",
				IncludeAnchors: []string{
					"paper", "study",
				},
				ExcludeAnchors: []string{"press release", "news coverage"},
				BaseScore:      55,
				Variant:        types.FeedAI,
			},
		}
	}
}
