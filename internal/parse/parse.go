// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package parse extracts the JSON record array from free-form model output.
// A parse failure is data, not an error: every function here returns an empty
// slice rather than propagating anything past this boundary.
package parse

import (
	"encoding/json"
	"regexp"
	"strings"
)

// RawRecord is one record exactly as the model emitted it. Every field is
// untrusted: enums are free-text guesses, dates are strings, URLs may be
// hallucinated. The verifier and normalizer turn this into a PaperRecord.
type RawRecord struct {
	Title               string   `json:"title"`
	URL                 string   `json:"url"`
	JournalOrConference string   `json:"journalOrConference"`
	Date                string   `json:"date"`
	Authors             []string `json:"authors"`
	Topic               string   `json:"topic"`
	PublicationType     string   `json:"publicationType"`
	StudyType           string   `json:"studyType"`
	Methodology         string   `json:"methodology"`
	Modality            string   `json:"modality"`
	AbstractHighlight   string   `json:"abstractHighlight"`
	DrugAndTarget       string   `json:"drugAndTarget"`
	Context             string   `json:"context"`
}

// fencedJSON matches ```json ... ``` blocks. The tag is optional so a bare
// fence around an array still counts.
var fencedJSON = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)```")

// Records extracts the record array from completion text. Fenced blocks are
// tried last-first: a model may show intermediate output before a corrected
// final block, and the last one is the most authoritative. When no fenced
// block parses, the slice between the first '[' and the last ']' is tried.
// The result is always non-nil.
func Records(text string) []RawRecord {
	blocks := fencedJSON.FindAllStringSubmatch(text, -1)
	for i := len(blocks) - 1; i >= 0; i-- {
		if recs, ok := tryParse(blocks[i][1]); ok {
			return recs
		}
	}

	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start >= 0 && end > start {
		if recs, ok := tryParse(text[start : end+1]); ok {
			return recs
		}
	}

	return []RawRecord{}
}

// tryParse accepts either a bare array or a single object.
func tryParse(s string) ([]RawRecord, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, false
	}

	var recs []RawRecord
	if err := json.Unmarshal([]byte(s), &recs); err == nil {
		if recs == nil {
			recs = []RawRecord{}
		}
		return recs, true
	}

	var one RawRecord
	if strings.HasPrefix(s, "{") {
		if err := json.Unmarshal([]byte(s), &one); err == nil && one.Title != "" {
			return []RawRecord{one}, true
		}
	}

	return nil, false
}
