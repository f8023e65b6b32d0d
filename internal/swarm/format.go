// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package swarm

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// FormatTable writes merged records as a human-readable table to w.
func FormatTable(out Output, w io.Writer) {
	if len(out.Records) == 0 {
		fmt.Fprintln(w, "No records found.")
		return
	}

	fmt.Fprintf(w, "%-4s  %-56s  %-10s  %-12s  %-5s  %s\n",
		"Rank", "Title", "Topic", "Date", "Score", "Verified")
	fmt.Fprintln(w, strings.Repeat("-", 100))

	for i, r := range out.Records {
		title := r.Title
		if len(title) > 56 {
			title = title[:53] + "..."
		}
		date := ""
		if !r.Date.IsZero() {
			date = r.Date.Format("2006-01-02")
		}
		verified := "no"
		if r.AuthorsVerified {
			verified = "yes"
		}
		fmt.Fprintf(w, "%-4d  %-56s  %-10s  %-12s  %-5d  %s\n",
			i+1, title, r.Topic, date, r.ValidationScore, verified)
	}

	fmt.Fprintf(w, "\n%d records", len(out.Records))
	if out.DupsRemoved > 0 {
		fmt.Fprintf(w, " (%d duplicates removed)", out.DupsRemoved)
	}
	fmt.Fprintln(w)
}

// FormatJSON writes merged records as indented JSON to w.
func FormatJSON(out Output, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out.Records)
}
