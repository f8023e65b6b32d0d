// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package polish upgrades hub URLs (issue indexes, tables of contents,
// database landing pages) to direct article links via a narrowly scoped
// grounded completion call.
package polish

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/meshintel/litradar/internal/completion"
	"github.com/meshintel/litradar/pkg/types"
)

// hubPathMarkers flag URLs that point at a listing rather than an article.
var hubPathMarkers = []string{"/toc/", "/issue/", "/issues/", "/volume/", "/current-issue"}

// hubHosts are index sites whose bare links never lead to a specific paper.
var hubHosts = map[string]bool{
	"scholar.google.com":      true,
	"www.semanticscholar.org": true,
	"www.google.com":          true,
}

// IsHubURL reports whether raw looks like a table-of-contents, issue index,
// or generic search/landing page instead of a direct article link.
func IsHubURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	path := strings.ToLower(u.Path)
	for _, marker := range hubPathMarkers {
		if strings.Contains(path, marker) {
			return true
		}
	}
	if hubHosts[strings.ToLower(u.Host)] {
		return true
	}
	// A bare host with no path is a landing page, not an article.
	return u.Host != "" && (u.Path == "" || u.Path == "/")
}

// Polisher issues single-record completion calls to find direct links.
type Polisher struct {
	Client completion.Client
	Logger *zap.Logger
}

// New builds a Polisher. A nil logger is replaced with a no-op.
func New(client completion.Client, logger *zap.Logger) *Polisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Polisher{Client: client, Logger: logger}
}

// Polish tries to replace rec's hub URL with a direct article or PDF link.
// It returns nil when the record's URL is already direct, when the
// completion call fails, or when no citation escapes the hub pattern; the
// caller keeps the original record in those cases.
func (p *Polisher) Polish(ctx context.Context, rec types.PaperRecord) (*types.PaperRecord, error) {
	if !IsHubURL(rec.URL) {
		return nil, nil
	}

	prompt := buildPrompt(rec)
	res, err := p.Client.Complete(ctx, prompt, completion.Options{Grounding: true})
	if err != nil {
		return nil, fmt.Errorf("polishing %q: %w", rec.Title, err)
	}

	for _, cit := range res.Citations {
		if cit.URL == "" || IsHubURL(cit.URL) {
			continue
		}
		p.Logger.Debug("polished link",
			zap.String("title", rec.Title),
			zap.String("from", rec.URL),
			zap.String("to", cit.URL))
		polished := rec
		polished.URL = cit.URL
		polished.IsPolished = true
		return &polished, nil
	}
	return nil, nil
}

func buildPrompt(rec types.PaperRecord) string {
	var b strings.Builder
	b.WriteString("Find the direct article page or PDF for this specific publication. ")
	b.WriteString("Do not return journal issue pages, tables of contents, or search result pages.\n\n")
	fmt.Fprintf(&b, "Title: %s\n", rec.Title)
	if rec.JournalOrConference != "" {
		fmt.Fprintf(&b, "Venue: %s\n", rec.JournalOrConference)
	}
	if len(rec.Authors) > 0 {
		fmt.Fprintf(&b, "Authors: %s\n", strings.Join(rec.Authors, ", "))
	}
	if !rec.Date.IsZero() {
		fmt.Fprintf(&b, "Date: %s\n", rec.Date.Format("2006-01-02"))
	}
	return b.String()
}
