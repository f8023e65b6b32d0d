// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package verify

import (
	"regexp"
	"strings"
)

// doiPattern matches a DOI embedded in text or a URL: "10.1056/NEJMoa2028395".
var doiPattern = regexp.MustCompile(`\b10\.\d{4,9}/[^\s"'<>]+`)

// ExtractDOI finds the first DOI in s and returns it in bare form, or "" when
// none is present. Trailing punctuation that commonly rides along in prose
// ("...doi.org/10.1/x.", "(10.1/x)") is trimmed.
func ExtractDOI(s string) string {
	m := doiPattern.FindString(s)
	if m == "" {
		return ""
	}
	return strings.TrimRight(m, ".,;)]}")
}

// CanonicalDOIURL returns the canonical resolver URL for a bare DOI.
func CanonicalDOIURL(doi string) string {
	return "https://doi.org/" + doi
}
