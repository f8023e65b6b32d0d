// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package verify cross-checks parsed model records against grounding
// citations. Nothing without a citation match is presented as confirmed:
// strict mode discards unmatched records outright, lenient mode keeps them
// flagged unverified behind a constructed search URL.
package verify

import (
	"net/url"
	"strings"
	"unicode"

	"github.com/meshintel/litradar/internal/parse"
	"github.com/meshintel/litradar/pkg/types"
)

// Verified is a raw record that passed the verifier, with its title and URL
// rewritten from the matched citation when one was found.
type Verified struct {
	parse.RawRecord

	// AuthorsVerified is true only when a grounding citation matched.
	AuthorsVerified bool
}

// seoSuffixes is the fixed list of publisher-site suffixes stripped from
// citation titles before they replace a record's title.
var seoSuffixes = []string{
	" - PubMed",
	" - PMC",
	" | NEJM",
	" | New England Journal of Medicine",
	" - The Lancet",
	" | Nature",
	" - Nature",
	" - ScienceDirect",
	" | Science",
	" - Google Patents",
	" | medRxiv",
	" | bioRxiv",
}

const defaultOverlapThreshold = 0.4

// Verify matches each record to a citation and applies the configured
// unmatched-record policy. Input order is preserved.
func Verify(recs []parse.RawRecord, citations []types.Citation, cfg types.VerifyConfig) []Verified {
	threshold := cfg.OverlapThreshold
	if threshold <= 0 {
		threshold = defaultOverlapThreshold
	}

	out := make([]Verified, 0, len(recs))
	for _, rec := range recs {
		cit, ok := match(rec, citations, threshold)
		if !ok {
			if cfg.Mode != types.VerifyLenient {
				continue
			}
			rec.URL = SearchURL(rec.Title)
			out = append(out, Verified{RawRecord: rec, AuthorsVerified: false})
			continue
		}

		if cit.Title != "" {
			rec.Title = StripSEOSuffix(cit.Title)
		}
		if doi := ExtractDOI(rec.URL); doi != "" {
			rec.URL = CanonicalDOIURL(doi)
		} else if doi := ExtractDOI(cit.URL); doi != "" {
			rec.URL = CanonicalDOIURL(doi)
		} else {
			rec.URL = cit.URL
		}

		out = append(out, Verified{RawRecord: rec, AuthorsVerified: true})
	}
	return out
}

// match finds a supporting citation using, in priority order: exact URL
// equality, normalized-title containment, then token-overlap scoring.
func match(rec parse.RawRecord, citations []types.Citation, threshold float64) (types.Citation, bool) {
	for _, cit := range citations {
		if rec.URL != "" && rec.URL == cit.URL {
			return cit, true
		}
	}

	recTitle := NormalizeTitle(rec.Title)
	if recTitle != "" {
		for _, cit := range citations {
			citTitle := NormalizeTitle(cit.Title)
			if citTitle == "" {
				continue
			}
			if strings.Contains(citTitle, recTitle) || strings.Contains(recTitle, citTitle) {
				return cit, true
			}
		}
	}

	recTokens := tokens(rec.Title)
	if len(recTokens) == 0 {
		return types.Citation{}, false
	}
	for _, cit := range citations {
		citTokens := tokenSet(cit.Title + " " + cit.Snippet)
		hits := 0
		for _, tok := range recTokens {
			if citTokens[tok] {
				hits++
			}
		}
		if float64(hits)/float64(len(recTokens)) >= threshold {
			return cit, true
		}
	}

	return types.Citation{}, false
}

// NormalizeTitle lowercases a title and strips everything that is not a
// letter or digit, so cosmetic differences never defeat a comparison.
func NormalizeTitle(title string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(title) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// StripSEOSuffix removes a trailing publisher-site suffix from a title.
func StripSEOSuffix(title string) string {
	for _, suffix := range seoSuffixes {
		if strings.HasSuffix(title, suffix) {
			return strings.TrimSpace(strings.TrimSuffix(title, suffix))
		}
	}
	return title
}

// SearchURL builds the fallback search-engine query URL used in lenient mode
// in place of an unverified link.
func SearchURL(title string) string {
	return "https://www.google.com/search?q=" + url.QueryEscape(title)
}

// tokens splits a title into lowercase words longer than 2 characters.
func tokens(s string) []string {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	var out []string
	for _, f := range fields {
		if len(f) > 2 {
			out = append(out, f)
		}
	}
	return out
}

func tokenSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, tok := range tokens(s) {
		set[tok] = true
	}
	return set
}
